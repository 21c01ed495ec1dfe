package main

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	engine "github.com/jason-s-yu/donut/engine"
	"github.com/jason-s-yu/donut/service/internal/config"
	"github.com/jason-s-yu/donut/service/internal/equilibrium"
)

var (
	strategiesDir string

	strategiesCmd = &cobra.Command{
		Use:   "strategies",
		Short: "Manage precomputed equilibrium strategies",
	}
	strategiesLoadCmd = &cobra.Command{
		Use:   "load",
		Short: "Copy nash_<n>.json files into the postgres equilibrium_strategies table",
		RunE:  runStrategiesLoad,
	}
)

func init() {
	strategiesLoadCmd.Flags().StringVar(&strategiesDir, "dir", "", "directory holding nash_<n>.json files (default from config)")
}

func runStrategiesLoad(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	dir := cfg.NashDir
	if strategiesDir != "" {
		dir = strategiesDir
	}

	ctx := cmd.Context()
	pool, err := equilibrium.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	files := equilibrium.NewFileProvider(dir)
	loaded := 0
	for n := engine.MinPlayers; n <= engine.MaxEquilibriumPlayers; n++ {
		probs, err := files.Strategy(ctx, n)
		if errors.Is(err, equilibrium.ErrNotFound) {
			log.Warnf("No %d-player strategy in %s, skipping", n, dir)
			continue
		}
		if err != nil {
			return err
		}
		if err := equilibrium.Store(ctx, pool, probs); err != nil {
			return err
		}
		loaded++
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d strategies from %s\n", loaded, dir)
	return nil
}
