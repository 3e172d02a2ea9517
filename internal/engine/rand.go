package engine

// RNG is the explicit pseudo-random stream carried inside State so that
// Step/Tick/StartDAD remain pure functions of their arguments; no
// component reads a global random source. It is a splitmix64 generator,
// chosen because it needs no imported library and produces a fresh,
// well-mixed value from any seed in one step.
type RNG struct {
	state uint64
}

// NewRNG seeds a fresh stream.
func NewRNG(seed uint64) RNG {
	return RNG{state: seed}
}

// Next returns the next pseudo-random value and the advanced stream.
func (r RNG) Next() (uint64, RNG) {
	s := r.state + 0x9E3779B97F4A7C15
	z := s
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return z, RNG{state: s}
}

// JitterMs draws a value uniformly from [min, max] (inclusive) along with
// the advanced stream. Used to pick RFC 5227 probe spacing.
func (r RNG) JitterMs(min, max uint64) (uint64, RNG) {
	if max <= min {
		return min, r
	}
	v, next := r.Next()
	span := max - min + 1
	return min + v%span, next
}
