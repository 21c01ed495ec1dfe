package engine

// ApplyMove resolves one round. It rejects the move without touching any
// state if the game is over or the move is malformed. Otherwise it
//  1. determines the outcome,
//  2. credits the winner with one point,
//  3. records the winning-move set in the global tracker,
//  4. records every participant's choice in the per-player tracker,
//  5. keeps the move as the last move,
//  6. ends the game if the score limit was reached.
func (g *GameState) ApplyMove(m Move) (Outcome, error) {
	if g.IsGameOver() {
		return Outcome{}, ErrGameOver
	}
	if err := g.ValidateMove(m); err != nil {
		return Outcome{}, err
	}
	n := g.NumPlayers()

	out := ResolveOutcome(m, n)
	if !out.IsDraw {
		g.Scores[out.Winner]++
	}
	g.Global.Record(m)
	g.PerPlayer.Record(m)

	g.LastMove = m.Clone()
	g.LastOutcome = out
	g.Round++

	g.checkTermination()
	return out, nil
}
