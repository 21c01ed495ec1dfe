package engine

// ResolveOutcome finds the round winner: the sole picker of the lowest
// choice picked by exactly one participant. No such choice means a draw.
func ResolveOutcome(m Move, n int) Outcome {
	for _, players := range Pickers(m, n) {
		if len(players) == 1 {
			return Outcome{Winner: players[0]}
		}
	}
	return DrawOutcome()
}

// Points returns the points each participant earned in the last round:
// 1 for the winner, 0 for everyone else.
func (g *GameState) Points() []int {
	pts := make([]int, g.NumPlayers())
	if g.Round > 0 && !g.LastOutcome.IsDraw && g.LastOutcome.Winner != NoWinner {
		pts[g.LastOutcome.Winner] = 1
	}
	return pts
}

// TotalScore returns the sum of all scores, which equals the number of
// rounds that were not draws.
func (g *GameState) TotalScore() int {
	sum := 0
	for _, s := range g.Scores {
		sum += s
	}
	return sum
}
