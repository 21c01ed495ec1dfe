package engine

import "testing"

// FuzzWinningMoves checks structural properties of the analyzer for
// arbitrary moves: results are in range, strictly increasing, and at most
// the last entry is an actually sole-picked choice.
func FuzzWinningMoves(f *testing.F) {
	f.Add([]byte{0, 1, 1, 2})
	f.Add([]byte{0, 0, 1, 3})
	f.Add([]byte{2, 2, 2, 2})
	f.Add([]byte{1, 0})

	f.Fuzz(func(t *testing.T, raw []byte) {
		n := len(raw)
		if n < MinPlayers || n > 16 {
			return
		}
		m := make(Move, n)
		for i, b := range raw {
			m[i] = int(b) % n
		}
		counts := CountChoices(m, n)
		winning := WinningMoves(m, n)

		for i, c := range winning {
			if c < 0 || c >= n {
				t.Fatalf("choice %d out of range in %v", c, winning)
			}
			if i > 0 && winning[i-1] >= c {
				t.Fatalf("result %v not strictly increasing", winning)
			}
			if counts[c] == 1 && i != len(winning)-1 {
				t.Fatalf("sole-picked choice %d not last in %v", c, winning)
			}
			if counts[c] > 1 {
				t.Fatalf("duplicated choice %d in winning set %v", c, winning)
			}
		}

		out := ResolveOutcome(m, n)
		if out.IsDraw {
			for c, k := range counts {
				if k == 1 {
					t.Fatalf("draw reported but choice %d is sole-picked in %v", c, m)
				}
			}
			return
		}
		if counts[m[out.Winner]] != 1 {
			t.Fatalf("winner %d did not pick alone in %v", out.Winner, m)
		}
		if len(winning) == 0 || winning[len(winning)-1] != m[out.Winner] {
			t.Fatalf("winning set %v does not end with the winning choice %d", winning, m[out.Winner])
		}
	})
}
