package shape

import (
	"math"

	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/material"
	"github.com/brw/spectral-tracer/pkg/rng"
)

// sphereOutside and sphereInside are the two face IDs a Sphere
// reports: the same geometric surface seen from outside or inside,
// distinguished so CSG combinators can tell which side of the sphere
// a ray entered through.
const (
	sphereOutside = 0
	sphereInside  = 1
)

// Sphere is a single-material sphere, grounded on
// pkg/geometry/sphere.go, generalized to the face-indexed Shape
// contract (a sphere has exactly one material, reported for both
// face IDs) and to an area-sampleable emitter.
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Mat      material.Material
	Emissive material.Emitter
}

// NewSphere creates a new sphere with a scattering material.
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, Mat: mat}
}

// NewEmissiveSphere creates a sphere usable as an area light.
func NewEmissiveSphere(center core.Vec3, radius float64, mat material.Material, emissive material.Emitter) *Sphere {
	return &Sphere{Center: center, Radius: radius, Mat: mat, Emissive: emissive}
}

// Intersect implements Shape via the quadratic ray-sphere equation.
func (s *Sphere) Intersect(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	oc := ray.Origin.Subtract(s.Center)

	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return Hit{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root <= tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root > tMax {
			return Hit{}, false
		}
	}

	point := ray.At(root)
	outwardNormal := point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	frontFace := ray.Direction.Dot(outwardNormal) < 0

	frontID, backID := sphereOutside, sphereInside
	if !frontFace {
		frontID, backID = sphereInside, sphereOutside
	}

	return Hit{
		Distance:       root,
		FrontFaceID:    frontID,
		BackFaceID:     backID,
		AdditionalData: point,
	}, true
}

// Bounds implements Bounded.
func (s *Sphere) Bounds() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}

// NormalAt implements Normaled: the sphere's outward normal at point,
// flipped for the inside face.
func (s *Sphere) NormalAt(faceID int, _ Hit, point core.Vec3) core.Vec3 {
	outward := point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	if faceID == sphereInside {
		return outward.Negate()
	}
	return outward
}

// MaterialOf implements MaterialProvider: the same material on both faces.
func (s *Sphere) MaterialOf(_ int) material.Material {
	return s.Mat
}

// EmissiveMaterialOf implements EmissiveMaterialProvider.
func (s *Sphere) EmissiveMaterialOf(_ int) material.Emitter {
	return s.Emissive
}

// SampleFace implements FaceSampler: a uniformly distributed point on
// the sphere's surface.
func (s *Sphere) SampleFace(_ int, r rng.RNG) core.Vec3 {
	direction := rng.RandomOnUnitSphere(r)
	return s.Center.Add(direction.Multiply(s.Radius))
}

// PDFBySolidAngle implements FaceSampler, converting SampleFace's
// uniform area density over the whole sphere to a solid-angle measure
// at the point distance along toShapeRay.
func (s *Sphere) PDFBySolidAngle(_ int, toShapeRay core.Ray, distance float64) float64 {
	direction := toShapeRay.Direction.Normalize()
	point := toShapeRay.Origin.Add(direction.Multiply(distance))
	normal := point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	cosTheta := math.Abs(direction.Dot(normal))
	if cosTheta < 1e-8 {
		return 0
	}
	return distance * distance * rng.SphereUniformPDF(s.Radius) / cosTheta
}
