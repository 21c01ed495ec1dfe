// Package config loads server and game settings from an optional YAML file,
// a .env file and the process environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	engine "github.com/jason-s-yu/donut/engine"
	"github.com/jason-s-yu/donut/engine/agent"
)

// Equilibrium sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// GameDefaults are applied to games created without explicit settings.
type GameDefaults struct {
	Roster     []string `yaml:"roster"`
	ScoreLimit int      `yaml:"score_limit"`
}

// Config holds all runtime settings.
type Config struct {
	Addr              string        `yaml:"addr"`
	LogLevel          string        `yaml:"log_level"`
	JWTSecret         string        `yaml:"-"`
	TokenTTL          time.Duration `yaml:"token_ttl"`
	EquilibriumSource string        `yaml:"equilibrium_source"`
	NashDir           string        `yaml:"nash_dir"`
	DatabaseURL       string        `yaml:"-"`
	RedisAddr         string        `yaml:"redis_addr"`
	RedisCacheTTL     time.Duration `yaml:"redis_cache_ttl"`
	Game              GameDefaults  `yaml:"game"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:              ":8080",
		LogLevel:          "info",
		TokenTTL:          12 * time.Hour,
		EquilibriumSource: SourceFile,
		NashDir:           "nash_strategies",
		Game: GameDefaults{
			Roster:     append([]string(nil), agent.DefaultRoster...),
			ScoreLimit: engine.DefaultScoreLimit,
		},
	}
}

// Load reads .env (if present), then the YAML file at path (if path is not
// empty), then environment overrides, and validates the result.
func Load(path string) (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setString("DONUT_ADDR", &c.Addr)
	setString("DONUT_LOG_LEVEL", &c.LogLevel)
	setString("DONUT_JWT_SECRET", &c.JWTSecret)
	setString("DONUT_EQUILIBRIUM_SOURCE", &c.EquilibriumSource)
	setString("DONUT_NASH_DIR", &c.NashDir)
	setString("DATABASE_URL", &c.DatabaseURL)
	setString("REDIS_ADDR", &c.RedisAddr)

	if v := getenv("DONUT_ROSTER"); v != "" {
		c.Game.Roster = SplitRoster(v)
	}
	if v := getenv("DONUT_SCORE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DONUT_SCORE_LIMIT: %w", err)
		}
		c.Game.ScoreLimit = n
	}
	for key, dst := range map[string]*time.Duration{
		"DONUT_TOKEN_TTL":       &c.TokenTTL,
		"DONUT_REDIS_CACHE_TTL": &c.RedisCacheTTL,
	} {
		if v := getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}
	return nil
}

// Validate checks settings that would otherwise fail later at runtime.
func (c Config) Validate() error {
	var errs []error
	switch c.EquilibriumSource {
	case SourceFile:
	case SourcePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres equilibrium source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown equilibrium source %q", c.EquilibriumSource))
	}
	if err := (engine.HouseRules{ScoreLimit: c.Game.ScoreLimit}).Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(c.Game.Roster) == 0 {
		errs = append(errs, errors.New("roster needs at least one AI player"))
	} else if _, err := engine.NewRoster(c.Game.Roster); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SplitRoster parses a comma separated list of AI identifiers.
func SplitRoster(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
