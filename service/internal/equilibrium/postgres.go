package equilibrium

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	engine "github.com/jason-s-yu/donut/engine"
)

// Schema creates the table PostgresProvider reads from.
const Schema = `CREATE TABLE IF NOT EXISTS equilibrium_strategies (
	num_players INTEGER PRIMARY KEY,
	probs       DOUBLE PRECISION[] NOT NULL
)`

const selectStrategySQL = `SELECT probs FROM equilibrium_strategies WHERE num_players = $1`

const upsertStrategySQL = `INSERT INTO equilibrium_strategies (num_players, probs) VALUES ($1, $2)
ON CONFLICT (num_players) DO UPDATE SET probs = EXCLUDED.probs`

// rowQuerier is the subset of *pgxpool.Pool the provider uses.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresProvider loads strategies from the equilibrium_strategies table.
type PostgresProvider struct {
	db rowQuerier
}

// NewPostgresProvider creates a provider over an existing pool or connection.
func NewPostgresProvider(db rowQuerier) *PostgresProvider {
	return &PostgresProvider{db: db}
}

// ConnectPostgres opens a pool and makes sure the table exists.
func ConnectPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, Schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating equilibrium_strategies: %w", err)
	}
	return pool, nil
}

// Strategy implements Provider.
func (p *PostgresProvider) Strategy(ctx context.Context, n int) ([]float64, error) {
	var probs []float64
	err := p.db.QueryRow(ctx, selectStrategySQL, n).Scan(&probs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d players", ErrNotFound, n)
	}
	if err != nil {
		return nil, fmt.Errorf("querying %d-player strategy: %w", n, err)
	}
	if err := engine.ValidateDistribution(probs, n); err != nil {
		return nil, err
	}
	return probs, nil
}

// Store upserts the strategy for len(probs) players.
func Store(ctx context.Context, pool *pgxpool.Pool, probs []float64) error {
	if err := engine.ValidateDistribution(probs, len(probs)); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, upsertStrategySQL, len(probs), probs); err != nil {
		return fmt.Errorf("storing %d-player strategy: %w", len(probs), err)
	}
	return nil
}
