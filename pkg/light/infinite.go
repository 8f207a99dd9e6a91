package light

import (
	"math"

	"github.com/brw/spectral-tracer/pkg/color"
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/rng"
	"github.com/brw/spectral-tracer/pkg/status"
)

// UniformInfiniteLight is a constant-radiance environment light: every
// escaping ray and every shading point sees the same emission in
// every direction. Grounded on the teacher's
// pkg/lights/uniform_infinite_light.go, generalized from a Vec3
// emission color to a spectral one.
type UniformInfiniteLight struct {
	Emission color.Spectrum
}

// NewUniformInfiniteLight constructs an environment light with the
// given constant spectral emission.
func NewUniformInfiniteLight(emission color.Spectrum) (*UniformInfiniteLight, error) {
	if emission == nil {
		return nil, status.Invalid("emission", "must not be nil")
	}
	return &UniformInfiniteLight{Emission: emission}, nil
}

func (u *UniformInfiniteLight) Type() Type { return TypeInfinite }

// Sample draws a cosine-weighted direction over the shading normal's
// hemisphere, as the teacher does: the cosine term in the rendering
// equation cancels against the PDF, reducing variance relative to
// uniform hemisphere sampling.
func (u *UniformInfiniteLight) Sample(_, normal core.Vec3, r rng.RNG, _ *color.SpectrumCompositor) (Sample, error) {
	direction := rng.RandomCosineDirection(normal, r)
	cosTheta := direction.Dot(normal)
	if cosTheta <= 0 {
		return Sample{}, nil
	}

	return Sample{
		Direction: direction,
		Distance:  math.Inf(1),
		Emission:  u.Emission,
		PDF:       cosTheta / math.Pi,
	}, nil
}

// PDF returns the cosine-weighted hemisphere density for direction.
func (u *UniformInfiniteLight) PDF(_, normal, direction core.Vec3) float64 {
	cosTheta := direction.Dot(normal)
	if cosTheta <= 0 {
		return 0
	}
	return cosTheta / math.Pi
}

// Emit returns the constant emission regardless of ray direction.
func (u *UniformInfiniteLight) Emit(_ core.Ray) (color.Spectrum, error) {
	return u.Emission, nil
}
