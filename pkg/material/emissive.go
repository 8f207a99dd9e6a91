package material

import (
	"github.com/brw/spectral-tracer/pkg/color"
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/rng"
)

// Emissive is a light-emitting surface, grounded on
// pkg/material/emissive.go, generalized from a Vec3 emission to a
// spectral Spectrum. It never scatters; its only contribution is Emit.
type Emissive struct {
	Emission color.Spectrum
}

// NewEmissive constructs an Emissive from its emission spectrum.
func NewEmissive(emission color.Spectrum) *Emissive {
	return &Emissive{Emission: emission}
}

// Scatter implements Material: emissive surfaces never scatter.
func (e *Emissive) Scatter(_ core.Ray, _ HitRecord, _ rng.RNG, _ *color.ReflectorCompositor) (ScatterResult, bool, error) {
	return ScatterResult{}, false, nil
}

// EvaluateBRDF implements Material: an emissive surface has no
// reflective contribution.
func (e *Emissive) EvaluateBRDF(_, _, _ core.Vec3, _ *color.ReflectorCompositor) (color.Reflector, error) {
	return nil, nil
}

// PDF implements Material: no scattering distribution exists.
func (e *Emissive) PDF(_, _, _ core.Vec3) (float64, bool) {
	return 0, true
}

// Emit implements Emitter, returning the emission spectrum regardless
// of the incoming ray's direction (a diffuse, non-directional emitter).
func (e *Emissive) Emit(_ core.Ray) (color.Spectrum, error) {
	return e.Emission, nil
}
