// Package rng provides the deterministic random number generator and
// image samplers used to drive per-pixel sample generation.
package rng

// PCG32 is a permuted congruential generator (64-bit state, 32-bit
// output), the O'Neill PCG-XSH-RR variant. Grounded on the reference
// algorithm in pcg_basic.c / iris_advanced_toolkit/pcg_random.c: same
// multiplier, same output permutation, so streams seeded with the same
// (initial_state, initial_output_sequence) produce identical sequences.
type PCG32 struct {
	state     uint64
	increment uint64
}

const (
	pcgMultiplier = uint64(6364136223846793005)
	pcgDefaultInc = uint64(1442695040888963407)
)

// NewPCG32 seeds a PCG32 stream from two 64-bit words: the initial
// state and the initial output sequence selector. Two RNGs seeded with
// the same pair produce bit-identical sequences.
func NewPCG32(initialState, initialSequence uint64) *PCG32 {
	r := &PCG32{}
	r.seed(initialState, initialSequence)
	return r
}

func (r *PCG32) seed(initialState, initialSequence uint64) {
	r.state = 0
	r.increment = (initialSequence << 1) | 1
	r.next32()
	r.state += initialState
	r.next32()
}

// next32 advances the generator and returns the next permuted output.
func (r *PCG32) next32() uint32 {
	old := r.state
	r.state = old*pcgMultiplier + r.increment
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return (xorshifted >> rot) | (xorshifted << ((-rot) & 31))
}

// boundedRand returns a uniform value in [0, bound) using the
// rejection-sampling scheme from pcg_basic's pcg32_boundedrand_r.
func (r *PCG32) boundedRand(bound uint32) uint32 {
	if bound == 0 {
		return r.next32()
	}
	threshold := -bound % bound
	for {
		v := r.next32()
		if v >= threshold {
			return v % bound
		}
	}
}

// UniformFloat returns a uniformly distributed float64 in [min, max).
func (r *PCG32) UniformFloat(min, max float64) float64 {
	const mantissaBits = 24 // matches float_t/float32 mantissa width in the reference
	randUint := r.boundedRand(1 << mantissaBits)
	randFloat := float64(randUint) / float64(uint64(1)<<mantissaBits)
	return min + (max-min)*randFloat
}

// BoundedIndex returns a uniformly distributed integer in [min, max).
func (r *PCG32) BoundedIndex(min, max int) int {
	if max <= min {
		return min
	}
	rangeSize := uint32(max - min)
	return min + int(r.boundedRand(rangeSize))
}

// Replicate returns a new, independent PCG32 stream derived from the
// current one. The render driver calls this once per chunk so that
// render output depends only on (seed, chunk index), never on
// scheduling order: replicate is itself deterministic given the
// current generator state.
func (r *PCG32) Replicate() *PCG32 {
	state := r.next32()
	sequence := r.next32()
	return NewPCG32(uint64(state)<<32|uint64(sequence), r.increment>>1)
}

// RNG is the interface every sampler and integrator consumes; hosts
// may substitute any generator satisfying it in place of PCG32.
type RNG interface {
	UniformFloat(min, max float64) float64
	BoundedIndex(min, max int) int
	Replicate() RNG
}

// pcgAdapter satisfies RNG by wrapping *PCG32, whose Replicate returns
// a concrete *PCG32 for callers that want the concrete type.
type pcgAdapter struct{ *PCG32 }

// Replicate implements RNG.
func (a pcgAdapter) Replicate() RNG {
	return pcgAdapter{a.PCG32.Replicate()}
}

// New returns a PCG32-backed RNG satisfying the RNG interface.
func New(initialState, initialSequence uint64) RNG {
	return pcgAdapter{NewPCG32(initialState, initialSequence)}
}
