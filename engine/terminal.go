package engine

// checkTermination ends the game when some participant has reached the score
// limit. The first such participant in roster order is the overall winner.
func (g *GameState) checkTermination() {
	for p, s := range g.Scores {
		if s >= g.Rules.ScoreLimit {
			g.Flags |= FlagGameOver
			g.OverallWinner = p
			return
		}
	}
}

// Winner returns the overall winner once the game is over.
func (g *GameState) Winner() (Participant, bool) {
	if !g.IsTerminal() || g.OverallWinner == NoWinner {
		return Participant{}, false
	}
	return g.Roster[g.OverallWinner], true
}
