package scoring

// Seed is the fixed starting state for every analysis.
const Seed uint64 = 42

const (
	lcgMultiplier = 6364136223846793005
	lcgIncrement  = 1442695040888963407
)

// source is a 64-bit linear congruential generator with Knuth's MMIX constants.
// Its output is fully specified so reports are reproducible on any platform:
//
//	state = state*6364136223846793005 + 1442695040888963407 (mod 2^64)
//	Float64 = (state >> 11) / 2^53
//	IntRange(lo, hi) = lo + floor(Float64() * (hi-lo+1))
type source struct {
	state uint64
}

func newSource(seed uint64) *source {
	return &source{state: seed}
}

func (s *source) next() uint64 {
	s.state = s.state*lcgMultiplier + lcgIncrement
	return s.state
}

// Float64 returns a value in [0, 1).
func (s *source) Float64() float64 {
	return float64(s.next()>>11) / (1 << 53)
}

// IntRange returns a value in [lo, hi], both inclusive.
func (s *source) IntRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + int(s.Float64()*float64(hi-lo+1))
}
