package light

import (
	"github.com/brw/spectral-tracer/pkg/status"
)

// Sampler selects among a scene's lights for next-event estimation.
type Sampler interface {
	// Sample picks a light independent of the shading point (fixed
	// weights), returning it alongside its selection probability and
	// index. u is a single uniform variate in [0,1).
	Sample(u float64) (Light, float64, int)

	// Probability returns the fixed selection probability for the
	// light at index.
	Probability(index int) float64

	// Count returns the number of lights this sampler draws from.
	Count() int

	// Lights returns every light this sampler draws from, in the same
	// order Sample's index refers to. Used by MIS light-PDF
	// calculations that need to sum over every light's PDF rather than
	// draw just one.
	Lights() []Light
}

// WeightedSampler selects a light from a fixed, point-independent
// weight distribution. Grounded on the teacher's
// pkg/core/weighted_light_sampler.go.
type WeightedSampler struct {
	lights  []Light
	weights []float64
}

// NewWeightedSampler builds a sampler over lights with the given
// per-light weights, normalized to sum to 1. len(weights) must equal
// len(lights); weights must be non-negative. A weight vector summing
// to 0 falls back to uniform weighting.
func NewWeightedSampler(lights []Light, weights []float64) (*WeightedSampler, error) {
	if len(lights) != len(weights) {
		return nil, status.InvalidCombination("weights", "must have one weight per light")
	}

	total := 0.0
	for _, w := range weights {
		if w < 0 {
			return nil, status.Invalid("weights", "must be non-negative")
		}
		total += w
	}

	normalized := make([]float64, len(weights))
	if total == 0 {
		if len(weights) > 0 {
			uniform := 1.0 / float64(len(weights))
			for i := range normalized {
				normalized[i] = uniform
			}
		}
	} else {
		for i, w := range weights {
			normalized[i] = w / total
		}
	}

	return &WeightedSampler{lights: lights, weights: normalized}, nil
}

// NewUniformSampler builds a WeightedSampler with equal weight across
// every light, grounded on the teacher's NewUniformLightSampler.
func NewUniformSampler(lights []Light) *WeightedSampler {
	weights := make([]float64, len(lights))
	if len(lights) > 0 {
		uniform := 1.0 / float64(len(lights))
		for i := range weights {
			weights[i] = uniform
		}
	}
	return &WeightedSampler{lights: lights, weights: weights}
}

func (s *WeightedSampler) Sample(u float64) (Light, float64, int) {
	if len(s.lights) == 0 {
		return nil, 0, -1
	}

	cumulative := 0.0
	for i, w := range s.weights {
		cumulative += w
		if u <= cumulative {
			return s.lights[i], w, i
		}
	}

	last := len(s.lights) - 1
	return s.lights[last], s.weights[last], last
}

func (s *WeightedSampler) Probability(index int) float64 {
	if index < 0 || index >= len(s.weights) {
		return 0
	}
	return s.weights[index]
}

func (s *WeightedSampler) Count() int { return len(s.lights) }

func (s *WeightedSampler) Lights() []Light { return s.lights }
