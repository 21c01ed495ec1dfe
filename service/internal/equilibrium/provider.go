// Package equilibrium supplies precomputed equilibrium strategies, one
// probability vector per table size.
package equilibrium

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	engine "github.com/jason-s-yu/donut/engine"
)

// ErrNotFound is returned when no strategy exists for the requested table size.
var ErrNotFound = errors.New("equilibrium strategy not found")

// Provider returns the equilibrium strategy for an n-player table.
type Provider interface {
	Strategy(ctx context.Context, n int) ([]float64, error)
}

// strategyFile is the on-disk format: {"probs": [p0, p1, ...]}.
type strategyFile struct {
	Probs []float64 `json:"probs"`
}

// FileName returns the conventional file name for an n-player strategy.
func FileName(n int) string { return fmt.Sprintf("nash_%d.json", n) }

// FileProvider reads strategies from nash_<n>.json files in a directory.
type FileProvider struct {
	Dir string
}

// NewFileProvider creates a provider rooted at dir.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{Dir: dir}
}

// Strategy implements Provider.
func (p *FileProvider) Strategy(ctx context.Context, n int) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(p.Dir, FileName(n))
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return decode(raw, n)
}

// StaticProvider serves strategies from memory, keyed by table size.
type StaticProvider map[int][]float64

// Strategy implements Provider.
func (p StaticProvider) Strategy(ctx context.Context, n int) ([]float64, error) {
	probs, ok := p[n]
	if !ok {
		return nil, fmt.Errorf("%w: %d players", ErrNotFound, n)
	}
	return append([]float64(nil), probs...), nil
}

// decode parses a strategy document and checks it against the table size.
func decode(raw []byte, n int) ([]float64, error) {
	var f strategyFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decoding %d-player strategy: %w", n, err)
	}
	if err := engine.ValidateDistribution(f.Probs, n); err != nil {
		return nil, err
	}
	return f.Probs, nil
}

// encode renders probabilities in the on-disk format.
func encode(probs []float64) ([]byte, error) {
	return json.Marshal(strategyFile{Probs: probs})
}
