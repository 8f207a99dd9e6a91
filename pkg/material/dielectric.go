package material

import (
	"math"

	"github.com/brw/spectral-tracer/pkg/color"
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/rng"
	"github.com/brw/spectral-tracer/pkg/status"
)

// Dielectric is a transparent refractive material (glass, water),
// grounded on pkg/material/dielectric.go: Schlick's approximation
// decides reflect-vs-refract, with attenuation a perfectly transparent
// (unit) Reflector since clear dielectrics don't absorb by wavelength.
type Dielectric struct {
	RefractiveIndex float64
	transparent     color.Reflector
}

// NewDielectric constructs a Dielectric with the given index of refraction.
func NewDielectric(refractiveIndex float64) (*Dielectric, error) {
	if !core.Finite(refractiveIndex) || refractiveIndex <= 0 {
		return nil, status.Invalid("refractiveIndex", "must be finite and positive")
	}
	transparent, err := color.NewConstantReflector(1.0)
	if err != nil {
		return nil, err
	}
	return &Dielectric{RefractiveIndex: refractiveIndex, transparent: transparent}, nil
}

// Scatter implements Material.
func (d *Dielectric) Scatter(rayIn core.Ray, hit HitRecord, r rng.RNG, _ *color.ReflectorCompositor) (ScatterResult, bool, error) {
	refractionRatio := d.RefractiveIndex
	if hit.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex
	}

	unitDirection := rayIn.Direction.Normalize()
	cosTheta := math.Min(-unitDirection.Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction core.Vec3
	if cannotRefract || schlickReflectance(cosTheta, refractionRatio) > r.UniformFloat(0, 1) {
		direction = reflectVector(unitDirection, hit.Normal)
	} else {
		direction = refractVector(unitDirection, hit.Normal, refractionRatio)
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: d.transparent,
		PDF:         0,
		Specular:    true,
	}, true, nil
}

// EvaluateBRDF implements Material: delta distribution, no finite contribution.
func (d *Dielectric) EvaluateBRDF(_, _, _ core.Vec3, _ *color.ReflectorCompositor) (color.Reflector, error) {
	return nil, nil
}

// PDF implements Material: always a delta distribution.
func (d *Dielectric) PDF(_, _, _ core.Vec3) (float64, bool) {
	return 0, true
}

// refractVector refracts uv across a surface with normal n using
// Snell's law, given the ratio of incident to transmitted indices.
func refractVector(uv, n core.Vec3, etaiOverEtat float64) core.Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// schlickReflectance computes Fresnel reflectance via Schlick's approximation.
func schlickReflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 *= r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
