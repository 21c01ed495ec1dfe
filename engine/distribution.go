package engine

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// DistributionTolerance bounds how far a supplied distribution may sum away from 1.
const DistributionTolerance = 1e-9

// negativeTolerance admits tiny negative entries left behind by numerical solvers.
const negativeTolerance = 1e-9

// UniformOver returns a length-n distribution that is 1/len(choices) on each
// member of choices and zero elsewhere. Callers must pass a non-empty set;
// an empty set is a programming error and panics.
func UniformOver(n int, choices []int) []float64 {
	if len(choices) == 0 {
		panic("engine: UniformOver called with an empty choice set")
	}
	dist := make([]float64, n)
	p := 1 / float64(len(choices))
	for _, c := range choices {
		dist[c] = p
	}
	return dist
}

// Uniform returns the uniform distribution over all n choices.
func Uniform(n int) []float64 {
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	return UniformOver(n, all)
}

// Sample draws one choice from dist. It walks the choices in index order
// accumulating probability and returns the first index whose running sum
// exceeds a uniform draw in [0,1). A distribution whose mass runs out before
// the draw is reached is an error, never a silent default.
func Sample(dist []float64, rng *rand.Rand) (int, error) {
	r := rng.Float64()
	total := 0.0
	for i, p := range dist {
		total += p
		if r < total {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: running sum %v never exceeded draw %v", ErrInvalidDistribution, total, r)
}

// ValidateDistribution checks that dist has length n, no negative entries and
// sums to 1 within DistributionTolerance.
func ValidateDistribution(dist []float64, n int) error {
	if len(dist) != n {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidDistribution, len(dist), n)
	}
	sum := 0.0
	for i, p := range dist {
		if math.IsNaN(p) || p < -negativeTolerance {
			return fmt.Errorf("%w: entry %d is %v", ErrInvalidDistribution, i, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > DistributionTolerance {
		return fmt.Errorf("%w: sums to %v", ErrInvalidDistribution, sum)
	}
	return nil
}

// ArgMax returns every index holding the maximum value, in index order.
// Ties are kept so the caller can spread probability over all of them.
func ArgMax(values []int) []int {
	if len(values) == 0 {
		return nil
	}
	best := values[0]
	for _, v := range values[1:] {
		if v > best {
			best = v
		}
	}
	var idx []int
	for i, v := range values {
		if v == best {
			idx = append(idx, i)
		}
	}
	return idx
}
