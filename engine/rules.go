package engine

import "fmt"

const (
	// MinPlayers is the smallest table: the human and one AI.
	MinPlayers = 2
	// MaxEquilibriumPlayers is the largest table with a precomputed equilibrium.
	MaxEquilibriumPlayers = 7
	// DefaultScoreLimit is the score that ends a session.
	DefaultScoreLimit = 5
)

// HouseRules holds configurable game rule settings.
type HouseRules struct {
	ScoreLimit int // first participant to reach this score wins the session
}

// DefaultHouseRules returns the standard rules.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		ScoreLimit: DefaultScoreLimit,
	}
}

// Validate checks the rules for values that cannot start a session.
func (r HouseRules) Validate() error {
	if r.ScoreLimit <= 0 {
		return fmt.Errorf("%w: score limit must be positive, got %d", ErrConfiguration, r.ScoreLimit)
	}
	return nil
}

// ValidateRoster checks the roster invariants: exactly one human at index 0
// holding HumanID, unique identifiers, a known archetype for every AI, and
// no Equilibrium participant at tables larger than MaxEquilibriumPlayers.
func ValidateRoster(roster []Participant) error {
	n := len(roster)
	if n < MinPlayers {
		return fmt.Errorf("%w: need at least %d participants, got %d", ErrConfiguration, MinPlayers, n)
	}
	if !roster[0].IsHuman() || roster[0].ID != HumanID {
		return fmt.Errorf("%w: roster must start with the human participant %q", ErrConfiguration, HumanID)
	}

	seen := make(map[string]bool, n)
	for i, p := range roster {
		if p.ID == "" {
			return fmt.Errorf("%w: participant %d has an empty identifier", ErrConfiguration, i)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate participant identifier %q", ErrConfiguration, p.ID)
		}
		seen[p.ID] = true
		if i == 0 {
			continue
		}
		if p.IsHuman() {
			return fmt.Errorf("%w: only one human participant is allowed", ErrConfiguration)
		}
		if p.ID == HumanID {
			return fmt.Errorf("%w: AI player can't be called %s", ErrConfiguration, HumanID)
		}
		if p.Archetype == ArchetypeNone || p.Archetype > ArchetypeTargetedLearner {
			return fmt.Errorf("%w: participant %q has no archetype", ErrConfiguration, p.ID)
		}
		if p.Archetype == ArchetypeEquilibrium && n > MaxEquilibriumPlayers {
			return fmt.Errorf("%w: %s needs at most %d participants, got %d", ErrConfiguration, p.ID, MaxEquilibriumPlayers, n)
		}
	}
	return nil
}

// NeedsEquilibrium reports whether any participant plays the Equilibrium archetype.
func NeedsEquilibrium(roster []Participant) bool {
	for _, p := range roster {
		if p.Archetype == ArchetypeEquilibrium {
			return true
		}
	}
	return false
}

// NewRoster builds a roster from AI identifiers, placing the human first.
// Identifiers whose archetype cannot be resolved are rejected.
func NewRoster(aiIDs []string) ([]Participant, error) {
	roster := make([]Participant, 0, len(aiIDs)+1)
	roster = append(roster, Participant{ID: HumanID, Role: RoleHuman})
	for _, id := range aiIDs {
		if id == HumanID {
			return nil, fmt.Errorf("%w: AI player can't be called %s", ErrConfiguration, HumanID)
		}
		a, ok := ArchetypeFor(id)
		if !ok {
			return nil, fmt.Errorf("%w: unknown AI player %q", ErrConfiguration, id)
		}
		roster = append(roster, Participant{ID: id, Role: RoleAI, Archetype: a})
	}
	return roster, nil
}
