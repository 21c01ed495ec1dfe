package agent

import engine "github.com/jason-s-yu/donut/engine"

// HumanTargetBias scales the human's score when the targeted learner picks
// whom to counter, so the human becomes the target at lower real scores.
const HumanTargetBias = 1.5

// Classic character names, one per archetype. The roster accepts these or
// the canonical archetype names, optionally with a numeric suffix.
const (
	NameRandom          = "Randy"
	NameEquilibrium     = "Nash"
	NameReactive        = "Dory"
	NameGlobalLearner   = "Sage"
	NameTargetedLearner = "Karl"
)

// DefaultRoster is the classic line-up of AI opponents.
var DefaultRoster = []string{NameEquilibrium, NameTargetedLearner, NameReactive, NameGlobalLearner}

// CharacterName returns the classic character name of an archetype.
func CharacterName(a engine.Archetype) string {
	switch a {
	case engine.ArchetypeRandom:
		return NameRandom
	case engine.ArchetypeEquilibrium:
		return NameEquilibrium
	case engine.ArchetypeReactive:
		return NameReactive
	case engine.ArchetypeGlobalLearner:
		return NameGlobalLearner
	case engine.ArchetypeTargetedLearner:
		return NameTargetedLearner
	default:
		return ""
	}
}
