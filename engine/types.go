package engine

import (
	"errors"
	"strings"
)

// Role distinguishes the single human participant from computer players.
type Role uint8

const (
	RoleHuman Role = iota // 0
	RoleAI                // 1
)

// String returns the lower-case role name.
func (r Role) String() string {
	if r == RoleHuman {
		return "human"
	}
	return "ai"
}

// Archetype selects the decision strategy of an AI participant.
type Archetype uint8

const (
	ArchetypeNone            Archetype = iota // 0: human participants
	ArchetypeRandom                           // 1: "Randy"
	ArchetypeEquilibrium                      // 2: "Nash"
	ArchetypeReactive                         // 3: "Dory"
	ArchetypeGlobalLearner                    // 4: "Sage"
	ArchetypeTargetedLearner                  // 5: "Karl"
)

// archetypeNames maps Archetype to its canonical name.
var archetypeNames = [...]string{
	ArchetypeNone:            "none",
	ArchetypeRandom:          "random",
	ArchetypeEquilibrium:     "equilibrium",
	ArchetypeReactive:        "reactive",
	ArchetypeGlobalLearner:   "global_learner",
	ArchetypeTargetedLearner: "targeted_learner",
}

// String returns the canonical archetype name.
func (a Archetype) String() string {
	if int(a) < len(archetypeNames) {
		return archetypeNames[a]
	}
	return "unknown"
}

// HumanID is the reserved identifier of the human participant.
const HumanID = "You"

// Participant is one seat at the table.
type Participant struct {
	ID        string
	Role      Role
	Archetype Archetype
}

// IsHuman reports whether the participant is the human player.
func (p Participant) IsHuman() bool { return p.Role == RoleHuman }

// Move holds one choice per participant, indexed by roster position.
type Move []int

// Clone returns an independent copy of the move.
func (m Move) Clone() Move {
	if m == nil {
		return nil
	}
	out := make(Move, len(m))
	copy(out, m)
	return out
}

// NoWinner marks an Outcome without a round winner.
const NoWinner = -1

// Outcome is the result of one resolved round.
// Exactly one of Winner != NoWinner or IsDraw holds.
type Outcome struct {
	Winner int
	IsDraw bool
}

// DrawOutcome returns the outcome of a round nobody won.
func DrawOutcome() Outcome { return Outcome{Winner: NoWinner, IsDraw: true} }

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

var (
	// ErrConfiguration is returned when a roster or rule set cannot start a game.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidDistribution is returned for malformed or unsampleable distributions.
	ErrInvalidDistribution = errors.New("invalid distribution")
	// ErrGameOver is returned when a move is submitted after the score limit was reached.
	ErrGameOver = errors.New("game is already over")
	// ErrInvalidMove is returned for moves of the wrong shape or with out-of-range choices.
	ErrInvalidMove = errors.New("invalid move")
)

// ---------------------------------------------------------------------------
// Archetype lookup
// ---------------------------------------------------------------------------

// archetypeAliases maps lower-cased base names to archetypes. Both the
// classic character names and the canonical names are accepted.
var archetypeAliases = map[string]Archetype{
	"randy":            ArchetypeRandom,
	"random":           ArchetypeRandom,
	"nash":             ArchetypeEquilibrium,
	"equilibrium":      ArchetypeEquilibrium,
	"dory":             ArchetypeReactive,
	"reactive":         ArchetypeReactive,
	"sage":             ArchetypeGlobalLearner,
	"globallearner":    ArchetypeGlobalLearner,
	"global_learner":   ArchetypeGlobalLearner,
	"karl":             ArchetypeTargetedLearner,
	"targetedlearner":  ArchetypeTargetedLearner,
	"targeted_learner": ArchetypeTargetedLearner,
}

// BaseName strips a disambiguating suffix from an AI identifier:
// trailing digits, optionally preceded by '-', '_' or '#'.
// "Karl2" and "Karl-2" both yield "Karl".
func BaseName(id string) string {
	base := strings.TrimRight(id, "0123456789")
	if base == id {
		return id
	}
	base = strings.TrimRight(base, "-_#")
	if base == "" {
		return id
	}
	return base
}

// ArchetypeFor resolves the archetype of an AI identifier.
func ArchetypeFor(id string) (Archetype, bool) {
	a, ok := archetypeAliases[strings.ToLower(BaseName(id))]
	return a, ok
}
