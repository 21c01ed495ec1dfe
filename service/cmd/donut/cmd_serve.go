package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jason-s-yu/donut/service/internal/auth"
	"github.com/jason-s-yu/donut/service/internal/config"
	"github.com/jason-s-yu/donut/service/internal/equilibrium"
	"github.com/jason-s-yu/donut/service/internal/game"
	"github.com/jason-s-yu/donut/service/internal/handlers"
)

const (
	idleGameTimeout = time.Hour
	pruneInterval   = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve games over HTTP and WebSocket",
	RunE:  runServeCommand,
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel == "" {
		lvl, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		log.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, cleanup, err := buildProvider(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	secret := cfg.JWTSecret
	if secret == "" {
		secret, err = randomSecret()
		if err != nil {
			return err
		}
		log.Warn("DONUT_JWT_SECRET not set; tokens will not survive a restart.")
	}
	signer, err := auth.NewSigner(secret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	registry := game.NewRegistry()
	go pruneIdleGames(ctx, registry)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handlers.NewServer(registry, provider, signer, cfg.Game).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildProvider assembles the equilibrium source from config: files or
// postgres, optionally behind a Redis cache.
func buildProvider(ctx context.Context, cfg config.Config) (equilibrium.Provider, func(), error) {
	var (
		provider equilibrium.Provider
		closers  []func()
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.EquilibriumSource {
	case config.SourcePostgres:
		pool, err := equilibrium.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, pool.Close)
		provider = equilibrium.NewPostgresProvider(pool)
		log.Info("Equilibrium strategies from postgres")
	default:
		provider = equilibrium.NewFileProvider(cfg.NashDir)
		log.WithField("dir", cfg.NashDir).Info("Equilibrium strategies from files")
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			cleanup()
			return nil, func() {}, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
		}
		closers = append(closers, func() { client.Close() })
		provider = equilibrium.NewRedisCache(client, provider, cfg.RedisCacheTTL)
		log.WithField("addr", cfg.RedisAddr).Info("Caching equilibrium strategies in redis")
	}
	return provider, cleanup, nil
}

func pruneIdleGames(ctx context.Context, registry *game.Registry) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := registry.PruneIdle(time.Now().Add(-idleGameTimeout)); n > 0 {
				log.Infof("Pruned %d idle games", n)
			}
		}
	}
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating token secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
