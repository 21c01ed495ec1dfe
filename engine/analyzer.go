package engine

// CountChoices returns how many participants picked each choice in [0, n).
func CountChoices(m Move, n int) []int {
	counts := make([]int, n)
	for _, c := range m {
		counts[c]++
	}
	return counts
}

// Pickers maps each choice in [0, n) to the roster indexes that picked it,
// in roster order.
func Pickers(m Move, n int) [][]int {
	out := make([][]int, n)
	for p, c := range m {
		out[c] = append(out[c], p)
	}
	return out
}

// WinningMoves returns the choices that would have produced a unique winner
// had one participant switched to them, holding everyone else fixed.
//
// Choices are scanned in increasing order:
//   - count 0: added while empty slots are still eligible
//   - count 1: added, and the scan stops
//   - count ≥ 2: empty slots stop being eligible; the scan continues
//
// The result is ordered, with the first sole-picked choice (if any) last.
func WinningMoves(m Move, n int) []int {
	counts := CountChoices(m, n)

	winning := make([]int, 0, n)
	emptySlotsEligible := true
	for c, k := range counts {
		switch {
		case k == 0:
			if emptySlotsEligible {
				winning = append(winning, c)
			}
		case k == 1:
			return append(winning, c)
		default:
			emptySlotsEligible = false
		}
	}
	return winning
}
