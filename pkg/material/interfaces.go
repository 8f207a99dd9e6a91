// Package material implements spectral BSDFs: lambertian, metal,
// dielectric (refractive), and emissive surfaces. Each scatters in
// terms of color.Reflector rather than a tristimulus color, so a
// single material definition carries through the whole visible range
// instead of being baked to one observer's RGB ahead of time.
//
// Grounded on pkg/material/{lambertian,metal,dielectric,emissive}.go
// in the teacher, generalized from Vec3 attenuation to spectral
// Reflector/Spectrum values per spec.md's compositor-centric shading
// model.
package material

import (
	"github.com/brw/spectral-tracer/pkg/color"
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/rng"
)

// HitRecord carries the local shading geometry a Material needs:
// point, shading normal, and which side of the surface the ray struck.
type HitRecord struct {
	Point     core.Vec3
	Normal    core.Vec3
	FrontFace bool
}

// SetFaceNormal orients outwardNormal against ray and records which
// face was struck, matching the teacher's HitRecord.SetFaceNormal.
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// ScatterResult is the outcome of a material's Scatter call: the
// continuation ray, the spectral reflectance attenuating the
// continuation's contribution, and its sampling PDF (meaningless, by
// convention 0, for Specular bounces).
type ScatterResult struct {
	Scattered   core.Ray
	Attenuation color.Reflector
	PDF         float64
	Specular    bool
}

// Material is a surface's local scattering model.
type Material interface {
	// Scatter samples a continuation direction given an incoming ray
	// and hit record, using r for any randomness needed and compositor
	// to build the returned Attenuation.
	Scatter(rayIn core.Ray, hit HitRecord, r rng.RNG, compositor *color.ReflectorCompositor) (ScatterResult, bool, error)

	// EvaluateBRDF returns the spectral BRDF value for explicit
	// incoming/outgoing directions, used by the light-sampling half of
	// multiple importance sampling.
	EvaluateBRDF(incomingDir, outgoingDir, normal core.Vec3, compositor *color.ReflectorCompositor) (color.Reflector, error)

	// PDF returns the solid-angle PDF for explicit incoming/outgoing
	// directions, and whether this material is a delta (specular)
	// distribution for which no finite PDF applies.
	PDF(incomingDir, outgoingDir, normal core.Vec3) (pdf float64, isDelta bool)
}

// Emitter is implemented by materials that emit radiance (area lights,
// glowing surfaces) in addition to, or instead of, scattering.
type Emitter interface {
	Emit(rayIn core.Ray) (color.Spectrum, error)
}
