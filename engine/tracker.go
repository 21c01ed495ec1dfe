package engine

// GlobalTracker counts, per choice, how often the choice appeared in a
// round's winning-move set.
type GlobalTracker []int

// NewGlobalTracker returns a zeroed tracker over n choices.
func NewGlobalTracker(n int) GlobalTracker { return make(GlobalTracker, n) }

// Record adds one to every choice in the winning-move set of m and returns
// that set.
func (t GlobalTracker) Record(m Move) []int {
	winning := WinningMoves(m, len(t))
	for _, c := range winning {
		t[c]++
	}
	return winning
}

// Total returns the sum of all counters.
func (t GlobalTracker) Total() int {
	sum := 0
	for _, v := range t {
		sum += v
	}
	return sum
}

// PlayerTracker counts, per participant, how often each choice was played.
// Indexed [participant][choice].
type PlayerTracker [][]int

// NewPlayerTracker returns a zeroed tracker for n participants over n choices.
func NewPlayerTracker(n int) PlayerTracker {
	t := make(PlayerTracker, n)
	for p := range t {
		t[p] = make([]int, n)
	}
	return t
}

// Record adds one at every participant's chosen value.
func (t PlayerTracker) Record(m Move) {
	for p, c := range m {
		t[p][c]++
	}
}

// Total returns the sum of all counters.
func (t PlayerTracker) Total() int {
	sum := 0
	for _, row := range t {
		for _, v := range row {
			sum += v
		}
	}
	return sum
}

// clone returns a deep copy.
func (t PlayerTracker) clone() PlayerTracker {
	out := make(PlayerTracker, len(t))
	for p, row := range t {
		out[p] = append([]int(nil), row...)
	}
	return out
}
