// Package engine implements the rules of the donut game: N participants each
// secretly pick one of N options, and the sole picker of an option wins the
// round.
//
// The package holds the round resolver, the statistics the AI players learn
// from, and the distribution helpers they sample with. It has no dependencies
// outside the standard library and performs no I/O.
package engine

import "fmt"

// GameState holds the complete state of one session.
type GameState struct {
	Roster      []Participant
	Rules       HouseRules
	Equilibrium []float64 // nil unless an Equilibrium participant is seated

	Scores    []int
	Global    GlobalTracker
	PerPlayer PlayerTracker

	LastMove    Move    // nil before the first round
	LastOutcome Outcome // meaningful once Round > 0
	Round       int     // rounds resolved so far

	Flags         uint16
	OverallWinner int // NoWinner until the game is over
}

// ---------------------------------------------------------------------------
// Flags bitfield
// ---------------------------------------------------------------------------

const (
	FlagGameOver    uint16 = 1 << 0
	FlagGameStarted uint16 = 1 << 1
)

// IsGameOver reports whether some participant has reached the score limit.
func (g *GameState) IsGameOver() bool { return g.Flags&FlagGameOver != 0 }

// IsTerminal returns true when the game is over.
func (g *GameState) IsTerminal() bool { return g.IsGameOver() }

// ---------------------------------------------------------------------------
// NewGame and Reset
// ---------------------------------------------------------------------------

// NewGame validates the roster, rules and equilibrium distribution and returns
// a fresh session with zeroed scores and trackers. The distribution is
// required when an Equilibrium participant is seated and ignored otherwise.
func NewGame(roster []Participant, rules HouseRules, equilibrium []float64) (*GameState, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateRoster(roster); err != nil {
		return nil, err
	}

	g := &GameState{
		Roster: append([]Participant(nil), roster...),
		Rules:  rules,
	}
	if NeedsEquilibrium(roster) {
		if err := ValidateDistribution(equilibrium, len(roster)); err != nil {
			return nil, fmt.Errorf("equilibrium strategy for %d players: %w", len(roster), err)
		}
		g.Equilibrium = append([]float64(nil), equilibrium...)
	}
	g.Reset()
	return g, nil
}

// Reset zeroes scores and trackers, sized to the current roster, and clears
// round history. It is the only way counters ever decrease.
func (g *GameState) Reset() {
	n := len(g.Roster)
	g.Scores = make([]int, n)
	g.Global = NewGlobalTracker(n)
	g.PerPlayer = NewPlayerTracker(n)
	g.LastMove = nil
	g.LastOutcome = Outcome{Winner: NoWinner}
	g.Round = 0
	g.OverallWinner = NoWinner
	g.Flags = FlagGameStarted
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// NumPlayers returns N, which is also the number of choices.
func (g *GameState) NumPlayers() int { return len(g.Roster) }

// HasLastMove reports whether at least one round has been resolved.
func (g *GameState) HasLastMove() bool { return g.LastMove != nil }

// IndexOf returns the roster index of the participant with the given ID.
func (g *GameState) IndexOf(id string) (int, bool) {
	for i, p := range g.Roster {
		if p.ID == id {
			return i, true
		}
	}
	return 0, false
}

// Opponents returns all roster indexes except the given one.
func (g *GameState) Opponents(player int) []int {
	n := g.NumPlayers()
	opps := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		if i != player {
			opps = append(opps, i)
		}
	}
	return opps
}

// ---------------------------------------------------------------------------
// Snapshot (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a deep copy of GameState, safe to hand to readers while play
// continues.
type Snapshot GameState

// Save returns a snapshot of the current game state.
func (g *GameState) Save() Snapshot {
	s := *g
	s.Roster = append([]Participant(nil), g.Roster...)
	s.Equilibrium = append([]float64(nil), g.Equilibrium...)
	s.Scores = append([]int(nil), g.Scores...)
	s.Global = append(GlobalTracker(nil), g.Global...)
	s.PerPlayer = g.PerPlayer.clone()
	s.LastMove = g.LastMove.Clone()
	return Snapshot(s)
}

// Restore replaces the game state with a copy of the given snapshot.
func (g *GameState) Restore(s Snapshot) {
	c := GameState(s)
	*g = GameState(c.Save())
}
