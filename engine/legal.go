package engine

import "fmt"

// IsLegalChoice reports whether c lies in the choice space [0, N).
func (g *GameState) IsLegalChoice(c int) bool {
	return c >= 0 && c < g.NumPlayers()
}

// ValidateMove checks that m has one in-range choice per participant.
func (g *GameState) ValidateMove(m Move) error {
	n := g.NumPlayers()
	if len(m) != n {
		return fmt.Errorf("%w: %d choices for %d participants", ErrInvalidMove, len(m), n)
	}
	for p, c := range m {
		if !g.IsLegalChoice(c) {
			return fmt.Errorf("%w: %s chose %d, want 0..%d", ErrInvalidMove, g.Roster[p].ID, c, n-1)
		}
	}
	return nil
}
