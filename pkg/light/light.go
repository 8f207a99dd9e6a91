// Package light implements the sampleable lights used by the path
// tracer's next-event estimation step: a point light and a uniform
// infinite (environment) light, plus the light-sampler abstraction
// that picks among them.
//
// Grounded on the teacher's pkg/lights package (interfaces.go,
// uniform_infinite_light.go) for the Light/LightSampler shape, and on
// iris_physx_toolkit/point_light.c for the point light's delta-light
// semantics, which the teacher (an area/infinite-light-only renderer)
// never implements.
package light

import (
	"github.com/brw/spectral-tracer/pkg/color"
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/rng"
)

// Type categorizes a Light for callers that branch on light shape
// (e.g. MIS weighting against BSDF-sampled hits, which can never land
// on a delta light).
type Type int

const (
	TypePoint Type = iota
	TypeInfinite
)

// Sample is the outcome of sampling a light for direct illumination
// from a shading point: a direction and distance toward the light,
// the light's spectral contribution along that direction, and the
// sampling PDF. IsDelta marks point lights (and other delta
// distributions), for which PDF is conventionally 1 and no BSDF
// sampling strategy can ever rediscover the same direction.
type Sample struct {
	Direction core.Vec3
	Distance  float64
	Emission  color.Spectrum
	PDF       float64
	IsDelta   bool
}

// Light is a source sampleable for direct lighting and evaluable
// along an escaping ray (infinite lights only; finite lights return a
// nil Emit spectrum).
type Light interface {
	Type() Type

	// Sample samples this light toward point, using r for any
	// randomness the light's distribution needs (finite lights with a
	// delta position, like PointLight, ignore r) and compositor to
	// build the returned Emission. compositor is caller-owned so its
	// arena's reset cadence matches the integrator invocation, not the
	// light's lifetime.
	Sample(point, normal core.Vec3, r rng.RNG, compositor *color.SpectrumCompositor) (Sample, error)

	// PDF returns the solid-angle PDF of sampling direction from point
	// toward this light, used by the BSDF-sampling half of multiple
	// importance sampling. Delta lights return 0: a BSDF sample can
	// never land exactly on a delta light's position.
	PDF(point, normal, direction core.Vec3) float64

	// Emit evaluates this light's contribution to a ray that escaped
	// the scene without hitting geometry. Finite lights return nil.
	Emit(ray core.Ray) (color.Spectrum, error)
}
