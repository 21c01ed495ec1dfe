// engine_adapter.go: bridge between engine.GameState and DonutGame.
package game

import (
	engine "github.com/jason-s-yu/donut/engine"
)

// settingsToEngine maps service Settings to an engine roster and rules.
func settingsToEngine(s Settings) ([]engine.Participant, engine.HouseRules, error) {
	rules := engine.HouseRules{ScoreLimit: s.ScoreLimit}
	if err := rules.Validate(); err != nil {
		return nil, rules, err
	}
	roster, err := engine.NewRoster(s.Roster)
	if err != nil {
		return nil, rules, err
	}
	if err := engine.ValidateRoster(roster); err != nil {
		return nil, rules, err
	}
	return roster, rules, nil
}

// byID converts a per-seat slice to a map keyed by participant identifier.
func (g *DonutGame) byID(values []int) map[string]int {
	out := make(map[string]int, len(values))
	for p, v := range values {
		out[g.Engine.Roster[p].ID] = v
	}
	return out
}

// participantID returns the identifier at seat p, or "" for engine.NoWinner.
func (g *DonutGame) participantID(p int) string {
	if p == engine.NoWinner {
		return ""
	}
	return g.Engine.Roster[p].ID
}

// roundResultLocked describes the round the engine just resolved.
// Assumes lock is held by caller.
func (g *DonutGame) roundResultLocked() RoundResult {
	e := g.Engine
	res := RoundResult{
		Round:    e.Round,
		Moves:    g.byID(e.LastMove),
		Points:   g.byID(e.Points()),
		Scores:   g.byID(e.Scores),
		Draw:     e.LastOutcome.IsDraw,
		GameOver: e.IsGameOver(),
	}
	if !res.Draw {
		res.Winner = g.participantID(e.LastOutcome.Winner)
	}
	if res.GameOver {
		res.OverallWinner = g.participantID(e.OverallWinner)
	}
	return res
}
