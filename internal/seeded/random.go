// Package seeded provides the deterministic pseudo-random source used to build
// reproducible dashboard datasets.
package seeded

const (
	multiplier = 9301
	increment  = 49297
	modulus    = 233280
)

// Random is a linear congruential generator:
//
//	seed = (seed*9301 + 49297) mod 233280
//	next = seed / 233280
//
// The parameters match the datasets the dashboards were seeded with, so a
// given seed reproduces them exactly. Random is not safe for concurrent use.
type Random struct {
	seed int64
}

// New returns a generator for seed. Negative seeds are folded into the
// modulus range.
func New(seed int64) *Random {
	seed %= modulus
	if seed < 0 {
		seed += modulus
	}
	return &Random{seed: seed}
}

// Next returns a float in [0, 1).
func (r *Random) Next() float64 {
	r.seed = (r.seed*multiplier + increment) % modulus
	return float64(r.seed) / modulus
}

// Range returns an integer in [min, max]. It returns min when max < min.
func (r *Random) Range(min, max int) int {
	if max <= min {
		// keep the sequence advancing so callers draw the same number of values
		r.Next()
		return min
	}
	return min + int(r.Next()*float64(max-min+1))
}

// Chance reports true with probability p.
func (r *Random) Chance(p float64) bool {
	return r.Next() < p
}
