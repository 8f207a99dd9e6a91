package rng

// HaltonImageSampler is a low-discrepancy sampler driven by Halton
// sequences in bases 2, 3, 5, 7 for (pixel-u, pixel-v, lens-u,
// lens-v). It owns an internal RNG used only to pick a randomized
// per-pixel offset into the sequence (Cranley-Patterson rotation). The
// render driver sets that RNG through Seed at the start of each chunk,
// to the chunk's replicated RNG; Random() returns the current one.
//
// Grounded on the low-discrepancy family named in spec.md §4.3 and the
// grid sampler's pre-shuffling contract in
// iris_camera_toolkit/grid_pixel_sampler.c, adapted to a quasi-random
// sequence instead of a shuffled stratified grid.
type HaltonImageSampler struct {
	samplesPerPixel int
	lensEnabled     bool
	index           uint64
	rotU, rotV      float64 // per-pixel Cranley-Patterson rotation
	random          RNG
}

// NewHaltonImageSampler creates a Halton sampler producing
// samplesPerPixel samples per pixel. lensEnabled must match the
// camera's declared lens domain (camera.HasLensDomain()); when false
// Next never populates lens UVs, honoring the lens-UV-omission
// contract for pinhole cameras.
func NewHaltonImageSampler(samplesPerPixel int, lensEnabled bool) *HaltonImageSampler {
	if samplesPerPixel < 1 {
		samplesPerPixel = 1
	}
	return &HaltonImageSampler{samplesPerPixel: samplesPerPixel, lensEnabled: lensEnabled}
}

// Seed implements Seedable: the dedicated RNG is used only to derive
// the per-pixel rotation offsets, never the sequence itself.
func (s *HaltonImageSampler) Seed(r RNG) {
	s.random = r
}

// Random implements RNGOwner.
func (s *HaltonImageSampler) Random() RNG {
	if s.random == nil {
		s.random = New(1, 1)
	}
	return s.random
}

// Start implements ImageSampler.
func (s *HaltonImageSampler) Start(column, row, numColumns, numRows int) int {
	s.index = 0
	r := s.Random()
	// Derive the pixel's rotation from its coordinates plus the owned
	// RNG so distinct pixels get distinct, reproducible rotations.
	seed := uint64(column)*2654435761 + uint64(row)*40503
	rot := New(seed, uint64(r.UniformFloat(0, 1<<31)))
	s.rotU = rot.UniformFloat(0, 1)
	s.rotV = rot.UniformFloat(0, 1)
	return s.samplesPerPixel
}

// Next implements ImageSampler.
func (s *HaltonImageSampler) Next(r RNG) Sample {
	s.index++
	u := frac(halton(s.index, 2) + s.rotU)
	v := frac(halton(s.index, 3) + s.rotV)

	sample := Sample{
		PixelU: u, PixelV: v,
		DPixelU: 1.0 / float64(s.samplesPerPixel+1),
		DPixelV: 1.0 / float64(s.samplesPerPixel+1),
	}

	if s.lensEnabled {
		sample.HasLens = true
		sample.LensU = halton(s.index, 5)
		sample.LensV = halton(s.index, 7)
	}

	return sample
}

// Duplicate implements ImageSampler.
func (s *HaltonImageSampler) Duplicate() ImageSampler {
	dup := *s
	return &dup
}

// halton returns the index-th term of the radical-inverse (Halton)
// sequence in the given base.
func halton(index uint64, base uint64) float64 {
	var result, f float64 = 0, 1
	for index > 0 {
		f /= float64(base)
		result += f * float64(index%base)
		index /= base
	}
	return result
}

func frac(v float64) float64 {
	return v - float64(int64(v))
}
