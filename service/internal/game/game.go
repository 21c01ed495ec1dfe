// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	engine "github.com/jason-s-yu/donut/engine"
	"github.com/jason-s-yu/donut/engine/agent"
	"github.com/jason-s-yu/donut/service/internal/equilibrium"
)

// ErrNotStarted is returned when a move is submitted before Start succeeded.
var ErrNotStarted = errors.New("game has not started")

// OnGameEndFunc defines the signature for a callback function executed when a game ends.
// It receives the game ID, the overall winner's identifier and the final scores.
type OnGameEndFunc func(gameID uuid.UUID, winner string, scores map[string]int)

// GameEventType represents the type of a game-related event pushed to the client.
type GameEventType string

// Constants defining the GameEvent types.
const (
	EventGameStart   GameEventType = "game_start"   // Session configured; includes full state.
	EventRoundResult GameEventType = "round_result" // One round resolved.
	EventGameEnd     GameEventType = "game_end"     // Score limit reached; includes overall winner.
	EventSyncState   GameEventType = "sync_state"   // Full state on request or reconnect.
	EventError       GameEventType = "error"        // A request from the client failed.
)

// GameEvent is the standard structure for broadcasting game state changes.
type GameEvent struct {
	Type    GameEventType `json:"type"`
	Round   *RoundResult  `json:"round,omitempty"`
	State   *SessionState `json:"state,omitempty"`
	Winner  string        `json:"winner,omitempty"`
	Message string        `json:"message,omitempty"`
}

// Settings configures a session: the AI line-up (the human is always seated
// first), the score limit and an optional seed for reproducible play.
type Settings struct {
	Roster     []string `json:"roster"`
	ScoreLimit int      `json:"scoreLimit"`
	Seed       *uint64  `json:"seed,omitempty"`
}

// RoundResult describes one resolved round, keyed by participant identifier.
type RoundResult struct {
	Round         int            `json:"round"`
	Moves         map[string]int `json:"moves"`
	Points        map[string]int `json:"points"`
	Scores        map[string]int `json:"scores"`
	Winner        string         `json:"winner,omitempty"`
	Draw          bool           `json:"draw"`
	GameOver      bool           `json:"gameOver"`
	OverallWinner string         `json:"overallWinner,omitempty"`
}

// DonutGame owns one session: configuration, engine state and the random
// source the AI players draw from.
type DonutGame struct {
	ID       uuid.UUID
	Settings Settings
	Engine   *engine.GameState // nil until Start succeeds

	provider equilibrium.Provider
	rng      *rand.Rand
	seed     uint64

	CreatedAt    time.Time
	LastActivity time.Time

	Mu sync.Mutex // Guards all fields; the HTTP and WebSocket surfaces call in from different goroutines.

	// Communication Callbacks
	BroadcastFn func(ev GameEvent) // Sends an event to the connected client.
	OnGameEnd   OnGameEndFunc      // Callback executed when the game finishes.

	attachGen uint64
}

// NewDonutGame creates a game that has not been started yet.
func NewDonutGame(settings Settings, provider equilibrium.Provider) *DonutGame {
	now := time.Now()
	return &DonutGame{
		ID:           uuid.New(),
		Settings:     settings,
		provider:     provider,
		CreatedAt:    now,
		LastActivity: now,
	}
}

// NewRand returns the random source used for a session seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

// Start validates the settings, loads the equilibrium strategy when an
// Equilibrium player is seated, and allocates fresh engine state. It is the
// only place the game blocks, and it honours ctx while waiting for the provider.
func (g *DonutGame) Start(ctx context.Context) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.startLocked(ctx, g.Settings)
}

// Reset replaces the settings and starts over. The table size may change.
// On failure the previous session is left untouched.
func (g *DonutGame) Reset(ctx context.Context, settings Settings) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.startLocked(ctx, settings)
}

// Restart starts a new game with the current settings.
func (g *DonutGame) Restart(ctx context.Context) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.startLocked(ctx, g.Settings)
}

// startLocked does the work of Start and Reset.
// Assumes lock is held by caller.
func (g *DonutGame) startLocked(ctx context.Context, settings Settings) error {
	roster, rules, err := settingsToEngine(settings)
	if err != nil {
		log.WithField("game", g.ID).Warnf("Rejected settings: %v", err)
		return err
	}

	var probs []float64
	if engine.NeedsEquilibrium(roster) {
		if g.provider == nil {
			return fmt.Errorf("%w: no equilibrium provider configured", engine.ErrConfiguration)
		}
		probs, err = g.provider.Strategy(ctx, len(roster))
		if err != nil {
			log.WithFields(log.Fields{"game": g.ID, "players": len(roster)}).Errorf("Loading equilibrium strategy failed: %v", err)
			return fmt.Errorf("loading %d-player equilibrium strategy: %w", len(roster), err)
		}
	}

	state, err := engine.NewGame(roster, rules, probs)
	if err != nil {
		return err
	}

	seed := rand.Uint64()
	if settings.Seed != nil {
		seed = *settings.Seed
	}

	g.Settings = settings
	g.Engine = state
	g.seed = seed
	g.rng = NewRand(seed)
	g.LastActivity = time.Now()

	log.WithFields(log.Fields{
		"game":       g.ID,
		"roster":     settings.Roster,
		"scoreLimit": rules.ScoreLimit,
	}).Info("Game started")

	st := g.stateLocked()
	g.fireEvent(GameEvent{Type: EventGameStart, State: &st})
	return nil
}

// SubmitMove plays one round with the human's choice. After the game is
// over it returns engine.ErrGameOver and changes nothing.
func (g *DonutGame) SubmitMove(choice int) (RoundResult, error) {
	g.Mu.Lock()
	res, ended, err := g.submitLocked(choice)
	onEnd := g.OnGameEnd
	g.Mu.Unlock()

	if err == nil && ended && onEnd != nil {
		onEnd(g.ID, res.OverallWinner, res.Scores)
	}
	return res, err
}

// submitLocked resolves a round and reports whether it ended the game.
// Assumes lock is held by caller.
func (g *DonutGame) submitLocked(choice int) (RoundResult, bool, error) {
	if g.Engine == nil {
		return RoundResult{}, false, ErrNotStarted
	}
	if g.Engine.IsGameOver() {
		return RoundResult{}, false, engine.ErrGameOver
	}

	move, err := agent.CollectMoves(g.Engine, choice, g.rng)
	if err != nil {
		log.WithField("game", g.ID).Warnf("Collecting moves failed: %v", err)
		return RoundResult{}, false, err
	}
	if _, err := g.Engine.ApplyMove(move); err != nil {
		log.WithField("game", g.ID).Errorf("Applying move %v failed: %v", move, err)
		return RoundResult{}, false, err
	}
	g.LastActivity = time.Now()

	res := g.roundResultLocked()
	if res.Draw {
		log.Debugf("Game %s: round %d drawn (%v).", g.ID, res.Round, move)
	} else {
		log.Debugf("Game %s: round %d won by %s (%v).", g.ID, res.Round, res.Winner, move)
	}
	g.fireEvent(GameEvent{Type: EventRoundResult, Round: &res})

	if !res.GameOver {
		return res, false, nil
	}
	log.WithFields(log.Fields{"game": g.ID, "winner": res.OverallWinner, "rounds": res.Round}).Info("Game over")
	st := g.stateLocked()
	g.fireEvent(GameEvent{Type: EventGameEnd, Winner: res.OverallWinner, State: &st})
	return res, true, nil
}

// State returns a read-only snapshot of the session.
func (g *DonutGame) State() SessionState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.stateLocked()
}

// Seed returns the seed of the current session's random source.
func (g *DonutGame) Seed() uint64 {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.seed
}

// IsGameOver reports whether the score limit has been reached.
func (g *DonutGame) IsGameOver() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.Engine != nil && g.Engine.IsGameOver()
}

// SyncState pushes the full state to the client.
func (g *DonutGame) SyncState() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	st := g.stateLocked()
	g.fireEvent(GameEvent{Type: EventSyncState, State: &st})
}

// Attach installs fn as the broadcaster and returns a function that removes
// it again, unless a later Attach replaced it in the meantime.
func (g *DonutGame) Attach(fn func(ev GameEvent)) (detach func()) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.attachGen++
	gen := g.attachGen
	if g.BroadcastFn != nil {
		log.Printf("Game %s: replacing existing broadcaster.", g.ID)
	}
	g.BroadcastFn = fn
	return func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if g.attachGen == gen {
			g.BroadcastFn = nil
		}
	}
}

// fireEvent broadcasts an event via the BroadcastFn callback.
// Assumes lock is held by caller.
func (g *DonutGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}
