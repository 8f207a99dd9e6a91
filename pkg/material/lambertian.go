package material

import (
	"math"

	"github.com/brw/spectral-tracer/pkg/color"
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/rng"
)

// Lambertian is a perfectly diffuse surface, grounded on
// pkg/material/lambertian.go, generalized from a Vec3 albedo to a
// spectral Reflector.
type Lambertian struct {
	Albedo color.Reflector
}

// NewLambertian constructs a Lambertian from its spectral reflectance.
func NewLambertian(albedo color.Reflector) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter implements Material: a cosine-weighted direction around the
// shading normal, with BRDF = albedo/pi and pdf = cos(theta)/pi.
func (l *Lambertian) Scatter(_ core.Ray, hit HitRecord, r rng.RNG, compositor *color.ReflectorCompositor) (ScatterResult, bool, error) {
	direction := rng.RandomCosineDirection(hit.Normal, r)

	cosTheta := direction.Dot(hit.Normal)
	if cosTheta < 0 {
		cosTheta = 0
	}

	attenuation, err := compositor.Attenuate(l.Albedo, 1.0/math.Pi)
	if err != nil {
		return ScatterResult{}, false, err
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: attenuation,
		PDF:         cosTheta / math.Pi,
	}, true, nil
}

// EvaluateBRDF implements Material: a constant albedo/pi everywhere in
// the hemisphere (the caller is responsible for zeroing contributions
// from directions below the surface).
func (l *Lambertian) EvaluateBRDF(_, _, _ core.Vec3, compositor *color.ReflectorCompositor) (color.Reflector, error) {
	return compositor.Attenuate(l.Albedo, 1.0/math.Pi)
}

// PDF implements Material: cosine-weighted hemisphere sampling.
func (l *Lambertian) PDF(_, outgoingDir, normal core.Vec3) (float64, bool) {
	cosTheta := outgoingDir.Dot(normal)
	if cosTheta < 0 {
		cosTheta = 0
	}
	return cosTheta / math.Pi, false
}
