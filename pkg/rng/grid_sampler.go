package rng

// GridImageSampler is a stratified-grid image sampler: the
// samples-per-pixel count is arranged into a roughly square grid of
// strata, optionally jittered within each cell. Grounded on
// iris_camera_toolkit/grid_image_sampler.c + grid_pixel_sampler.c,
// which drive pixel sampling from a caller-supplied RNG rather than an
// internally owned one.
type GridImageSampler struct {
	samplesPerPixel int
	jitter          bool
	lensEnabled     bool
	gridSize        int // ceil(sqrt(samplesPerPixel))

	sampleIndex int
}

// NewGridImageSampler creates a stratified sampler producing
// samplesPerPixel samples per pixel, jittered within each stratum when
// jitter is true (false gives a regular, non-random grid). lensEnabled
// must match the camera's declared lens domain.
func NewGridImageSampler(samplesPerPixel int, jitter, lensEnabled bool) *GridImageSampler {
	if samplesPerPixel < 1 {
		samplesPerPixel = 1
	}
	grid := 1
	for grid*grid < samplesPerPixel {
		grid++
	}
	return &GridImageSampler{
		samplesPerPixel: samplesPerPixel,
		jitter:          jitter,
		lensEnabled:     lensEnabled,
		gridSize:        grid,
	}
}

// Start implements ImageSampler.
func (s *GridImageSampler) Start(column, row, numColumns, numRows int) int {
	s.sampleIndex = 0
	return s.samplesPerPixel
}

// Next implements ImageSampler.
func (s *GridImageSampler) Next(r RNG) Sample {
	cellSize := 1.0 / float64(s.gridSize)
	cellX := s.sampleIndex % s.gridSize
	cellY := (s.sampleIndex / s.gridSize) % s.gridSize
	s.sampleIndex++

	var ju, jv float64
	if s.jitter {
		ju = r.UniformFloat(0, 1)
		jv = r.UniformFloat(0, 1)
	} else {
		ju, jv = 0.5, 0.5
	}

	u := clamp01((float64(cellX) + ju) * cellSize)
	v := clamp01((float64(cellY) + jv) * cellSize)

	dpixel := cellSize // one stratum cell is the footprint estimate

	sample := Sample{
		PixelU: u, PixelV: v,
		DPixelU: dpixel, DPixelV: dpixel,
	}

	if s.jitter && s.lensEnabled {
		sample.HasLens = true
		sample.LensU = r.UniformFloat(0, 1)
		sample.LensV = r.UniformFloat(0, 1)
	} else if s.lensEnabled {
		sample.HasLens = true
		sample.LensU, sample.LensV = 0.5, 0.5
	}

	return sample
}

// Duplicate implements ImageSampler.
func (s *GridImageSampler) Duplicate() ImageSampler {
	dup := *s
	return &dup
}
