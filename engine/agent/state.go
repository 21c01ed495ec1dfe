// Package agent implements the decision strategies of the computer players.
//
// Every archetype is a function of the game state, the deciding seat and a
// caller-owned random source. None of them mutate the game state; learning
// happens through the trackers the engine updates after each round.
package agent

import (
	"fmt"
	"math/rand/v2"

	engine "github.com/jason-s-yu/donut/engine"
)

// Decide returns the choice of the AI participant seated at self.
func Decide(g *engine.GameState, self int, rng *rand.Rand) (int, error) {
	p := g.Roster[self]
	if p.IsHuman() {
		return 0, fmt.Errorf("participant %q is not an AI player", p.ID)
	}

	switch p.Archetype {
	case engine.ArchetypeRandom:
		return randomStrategy(g, rng)
	case engine.ArchetypeEquilibrium:
		return equilibriumStrategy(g, rng)
	case engine.ArchetypeReactive:
		return reactiveStrategy(g, rng)
	case engine.ArchetypeGlobalLearner:
		return globalLearnerStrategy(g, rng)
	case engine.ArchetypeTargetedLearner:
		return targetedLearnerStrategy(g, self, rng)
	default:
		return 0, fmt.Errorf("participant %q has unknown archetype %d", p.ID, p.Archetype)
	}
}

// CollectMoves assembles a full move: the human's choice first, then one
// decision per AI participant in roster order. The fixed order keeps seeded
// sessions reproducible.
func CollectMoves(g *engine.GameState, human int, rng *rand.Rand) (engine.Move, error) {
	if !g.IsLegalChoice(human) {
		return nil, fmt.Errorf("%w: human chose %d, want 0..%d", engine.ErrInvalidMove, human, g.NumPlayers()-1)
	}
	m := make(engine.Move, g.NumPlayers())
	for p, part := range g.Roster {
		if part.IsHuman() {
			m[p] = human
			continue
		}
		c, err := Decide(g, p, rng)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", part.ID, err)
		}
		m[p] = c
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Archetypes
// ---------------------------------------------------------------------------

// randomStrategy picks uniformly from all choices.
func randomStrategy(g *engine.GameState, rng *rand.Rand) (int, error) {
	return engine.Sample(engine.Uniform(g.NumPlayers()), rng)
}

// equilibriumStrategy samples the session's fixed equilibrium distribution.
func equilibriumStrategy(g *engine.GameState, rng *rand.Rand) (int, error) {
	if len(g.Equilibrium) != g.NumPlayers() {
		return 0, fmt.Errorf("%w: equilibrium strategy has %d entries for %d choices",
			engine.ErrInvalidDistribution, len(g.Equilibrium), g.NumPlayers())
	}
	return engine.Sample(g.Equilibrium, rng)
}

// reactiveStrategy picks uniformly among the choices that would have won the
// previous round. Without a previous round, or when nothing would have won,
// it plays randomly.
func reactiveStrategy(g *engine.GameState, rng *rand.Rand) (int, error) {
	if !g.HasLastMove() {
		return randomStrategy(g, rng)
	}
	winning := engine.WinningMoves(g.LastMove, g.NumPlayers())
	if len(winning) == 0 {
		return randomStrategy(g, rng)
	}
	return engine.Sample(engine.UniformOver(g.NumPlayers(), winning), rng)
}

// globalLearnerStrategy goes for the choices that have been in the winning
// set most often, breaking ties at random.
func globalLearnerStrategy(g *engine.GameState, rng *rand.Rand) (int, error) {
	choices := engine.ArgMax(g.Global)
	return engine.Sample(engine.UniformOver(g.NumPlayers(), choices), rng)
}

// targetedLearnerStrategy counters the leading opponent by playing that
// opponent's most frequent choices.
func targetedLearnerStrategy(g *engine.GameState, self int, rng *rand.Rand) (int, error) {
	target := Target(g, self)
	choices := engine.ArgMax(g.PerPlayer[target])
	return engine.Sample(engine.UniformOver(g.NumPlayers(), choices), rng)
}

// Target returns the opponent the targeted learner at self goes after: the
// one with the highest score, the human's score weighted by HumanTargetBias.
// AI opponents are considered in roster order and the human last, so ties
// go to the earliest AI.
func Target(g *engine.GameState, self int) int {
	target := engine.NoWinner
	best := -1.0
	consider := func(p int, score float64) {
		if score > best {
			best = score
			target = p
		}
	}
	human := engine.NoWinner
	for _, p := range g.Opponents(self) {
		if g.Roster[p].IsHuman() {
			human = p
			continue
		}
		consider(p, float64(g.Scores[p]))
	}
	if human != engine.NoWinner {
		consider(human, float64(g.Scores[human])*HumanTargetBias)
	}
	return target
}
