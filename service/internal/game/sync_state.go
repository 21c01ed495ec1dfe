// internal/game/sync_state.go
package game

import "github.com/google/uuid"

// PlayerState is one row of the results table.
type PlayerState struct {
	ID         string `json:"id"`
	Role       string `json:"role"`
	Archetype  string `json:"archetype,omitempty"`
	LastMove   *int   `json:"lastMove,omitempty"` // nil before the first round
	LastPoints int    `json:"lastPoints"`
	Score      int    `json:"score"`
}

// OutcomeState is the result of the most recent round.
type OutcomeState struct {
	Winner string `json:"winner,omitempty"`
	Draw   bool   `json:"draw"`
}

// SessionState is a read-only snapshot of a session for clients.
type SessionState struct {
	GameID        uuid.UUID     `json:"gameId"`
	Started       bool          `json:"started"`
	Round         int           `json:"round"`
	NumChoices    int           `json:"numChoices"`
	ScoreLimit    int           `json:"scoreLimit"`
	Players       []PlayerState `json:"players"`
	LastOutcome   *OutcomeState `json:"lastOutcome,omitempty"` // nil before the first round
	GameOver      bool          `json:"gameOver"`
	OverallWinner string        `json:"overallWinner,omitempty"`
}

// Score returns the score of the participant with the given identifier.
func (s SessionState) Score(id string) int {
	for _, p := range s.Players {
		if p.ID == id {
			return p.Score
		}
	}
	return 0
}

// stateLocked builds the snapshot from engine state.
// Assumes lock is held by caller.
func (g *DonutGame) stateLocked() SessionState {
	st := SessionState{GameID: g.ID}
	if g.Engine == nil {
		return st
	}

	e := g.Engine
	st.Started = true
	st.Round = e.Round
	st.NumChoices = e.NumPlayers()
	st.ScoreLimit = e.Rules.ScoreLimit
	st.GameOver = e.IsGameOver()
	if st.GameOver {
		st.OverallWinner = g.participantID(e.OverallWinner)
	}

	points := e.Points()
	st.Players = make([]PlayerState, 0, e.NumPlayers())
	for p, part := range e.Roster {
		ps := PlayerState{
			ID:         part.ID,
			Role:       part.Role.String(),
			LastPoints: points[p],
			Score:      e.Scores[p],
		}
		if !part.IsHuman() {
			ps.Archetype = part.Archetype.String()
		}
		if e.HasLastMove() {
			c := e.LastMove[p]
			ps.LastMove = &c
		}
		st.Players = append(st.Players, ps)
	}

	if e.Round > 0 {
		out := &OutcomeState{Draw: e.LastOutcome.IsDraw}
		if !out.Draw {
			out.Winner = g.participantID(e.LastOutcome.Winner)
		}
		st.LastOutcome = out
	}
	return st
}
