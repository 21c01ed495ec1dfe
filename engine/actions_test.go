package engine

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
)

func TestApplyMoveOutcome(t *testing.T) {
	tests := []struct {
		name       string
		move       Move
		wantWinner int
		wantDraw   bool
	}{
		{"sole picker wins", Move{0, 1, 1}, 0, false},
		{"lowest sole pick wins", Move{2, 0, 0, 3}, 0, false},
		{"later seat wins", Move{1, 1, 0, 2}, 2, false},
		{"all same is a draw", Move{1, 1, 1}, NoWinner, true},
		{"pairs are a draw", Move{0, 0, 1, 1}, NoWinner, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai := []string{"Randy", "Randy2", "Randy3"}[:len(tt.move)-1]
			g := newTestGame(t, 100, ai...)
			out, err := g.ApplyMove(tt.move)
			if err != nil {
				t.Fatalf("ApplyMove: %v", err)
			}
			if out.IsDraw != tt.wantDraw || out.Winner != tt.wantWinner {
				t.Errorf("outcome = %+v, want winner=%d draw=%v", out, tt.wantWinner, tt.wantDraw)
			}
			if g.LastOutcome != out {
				t.Errorf("LastOutcome = %+v, want %+v", g.LastOutcome, out)
			}
		})
	}
}

func TestApplyMoveUpdatesScoreAndTrackers(t *testing.T) {
	g := newTestGame(t, 100, "Randy", "Dory", "Sage")

	move := Move{0, 1, 1, 2}
	out, err := g.ApplyMove(move)
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if out.Winner != 0 {
		t.Fatalf("winner = %d, want 0", out.Winner)
	}
	if !slices.Equal(g.Scores, []int{1, 0, 0, 0}) {
		t.Errorf("Scores = %v, want [1 0 0 0]", g.Scores)
	}
	if !slices.Equal(g.Global, GlobalTracker{1, 0, 0, 0}) {
		t.Errorf("Global = %v, want [1 0 0 0]", g.Global)
	}
	for p, c := range move {
		if g.PerPlayer[p][c] != 1 {
			t.Errorf("PerPlayer[%d][%d] = %d, want 1", p, c, g.PerPlayer[p][c])
		}
	}
	if !slices.Equal(g.LastMove, move) {
		t.Errorf("LastMove = %v, want %v", g.LastMove, move)
	}

	// A draw changes no score but still teaches the trackers.
	out, err = g.ApplyMove(Move{2, 2, 2, 2})
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if !out.IsDraw {
		t.Fatalf("outcome = %+v, want draw", out)
	}
	if g.TotalScore() != 1 {
		t.Errorf("TotalScore = %d, want 1", g.TotalScore())
	}
	if !slices.Equal(g.Global, GlobalTracker{2, 1, 0, 0}) {
		t.Errorf("Global = %v, want [2 1 0 0]", g.Global)
	}
	if g.Round != 2 {
		t.Errorf("Round = %d, want 2", g.Round)
	}
}

func TestApplyMoveStoresCopy(t *testing.T) {
	g := newTestGame(t, 100, "Randy")
	move := Move{0, 1}
	if _, err := g.ApplyMove(move); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	move[0] = 1
	if g.LastMove[0] != 0 {
		t.Error("LastMove aliases the caller's slice")
	}
}

func TestApplyMoveRejectsInvalid(t *testing.T) {
	g := newTestGame(t, 100, "Randy", "Sage")
	for _, m := range []Move{{0, 1}, {0, 1, 2, 0}, {0, 1, 3}, {-1, 0, 0}} {
		before := g.Save()
		if _, err := g.ApplyMove(m); !errors.Is(err, ErrInvalidMove) {
			t.Errorf("ApplyMove(%v) err = %v, want ErrInvalidMove", m, err)
		}
		if g.Round != before.Round || g.Global.Total() != 0 || g.PerPlayer.Total() != 0 {
			t.Errorf("ApplyMove(%v) mutated state", m)
		}
	}
}

// TestRoundInvariants plays random rounds and checks the per-round
// bookkeeping: scores move by at most one point, trackers grow by the size
// of the winning set and by N.
func TestRoundInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(2024, 0))
	g := newTestGame(t, 1_000_000, "Randy", "Dory", "Sage", "Karl", "Nash")
	n := g.NumPlayers()

	for round := 0; round < 500; round++ {
		m := make(Move, n)
		for p := range m {
			m[p] = rng.IntN(n)
		}
		prevScores := append([]int(nil), g.Scores...)
		prevGlobal := g.Global.Total()
		prevPlayer := g.PerPlayer.Total()
		prevCounts := g.Save()

		out, err := g.ApplyMove(m)
		if err != nil {
			t.Fatalf("round %d: %v", round, err)
		}

		hasUnique := slices.Contains(CountChoices(m, n), 1)
		if out.IsDraw == hasUnique {
			t.Fatalf("round %d: draw=%v but unique pick present=%v (move %v)", round, out.IsDraw, hasUnique, m)
		}
		for p := range g.Scores {
			want := prevScores[p]
			if !out.IsDraw && p == out.Winner {
				want++
			}
			if g.Scores[p] != want {
				t.Fatalf("round %d: score[%d] = %d, want %d", round, p, g.Scores[p], want)
			}
		}
		if got, want := g.Global.Total()-prevGlobal, len(WinningMoves(m, n)); got != want {
			t.Fatalf("round %d: global tracker grew by %d, want %d", round, got, want)
		}
		if got := g.PerPlayer.Total() - prevPlayer; got != n {
			t.Fatalf("round %d: per-player tracker grew by %d, want %d", round, got, n)
		}
		for c := range g.Global {
			if g.Global[c] < prevCounts.Global[c] {
				t.Fatalf("round %d: global tracker decreased at %d", round, c)
			}
		}
	}
}
