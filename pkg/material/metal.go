package material

import (
	"github.com/brw/spectral-tracer/pkg/color"
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/rng"
)

// Metal is a specular/glossy reflector, grounded on
// pkg/material/metal.go, generalized from a Vec3 albedo to a spectral
// Reflector. Fuzziness perturbs the perfect reflection direction by a
// point in the unit ball, matching the teacher's fuzz model.
type Metal struct {
	Albedo    color.Reflector
	Fuzziness float64
}

// NewMetal constructs a Metal, clamping fuzziness to [0,1].
func NewMetal(albedo color.Reflector, fuzziness float64) *Metal {
	if fuzziness > 1 {
		fuzziness = 1
	}
	if fuzziness < 0 {
		fuzziness = 0
	}
	return &Metal{Albedo: albedo, Fuzziness: fuzziness}
}

// Scatter implements Material: perfect reflection perturbed by fuzz,
// a delta distribution (PDF 0).
func (m *Metal) Scatter(rayIn core.Ray, hit HitRecord, r rng.RNG, compositor *color.ReflectorCompositor) (ScatterResult, bool, error) {
	reflected := reflectVector(rayIn.Direction.Normalize(), hit.Normal)

	if m.Fuzziness > 0 {
		perturbation := rng.RandomInUnitSphere(r).Multiply(m.Fuzziness)
		reflected = reflected.Add(perturbation)
	}

	scatters := reflected.Dot(hit.Normal) > 0
	if !scatters {
		return ScatterResult{}, false, nil
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, reflected),
		Attenuation: m.Albedo,
		PDF:         0,
		Specular:    true,
	}, true, nil
}

// EvaluateBRDF implements Material. A fuzz-free metal is a delta
// function (zero measure-zero contribution from any finite direction
// sample); a fuzzed metal's contribution is handled by Scatter's
// explicit sampling rather than this evaluation path.
func (m *Metal) EvaluateBRDF(_, _, _ core.Vec3, _ *color.ReflectorCompositor) (color.Reflector, error) {
	return nil, nil
}

// PDF implements Material: always a delta distribution.
func (m *Metal) PDF(_, _, _ core.Vec3) (float64, bool) {
	return 0, true
}

// reflectVector reflects v off a surface with normal n: r = v - 2(v.n)n.
func reflectVector(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
