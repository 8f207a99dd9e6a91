package shape

import (
	"math"

	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/material"
	"github.com/brw/spectral-tracer/pkg/rng"
)

// Quad is a planar rectangle defined by a corner and two edge
// vectors, grounded on pkg/geometry/{quad,quad_light}.go. Unlike the
// teacher's split Quad/QuadLight types, emissive behavior is just an
// optional Emissive field: any Quad doubles as an area light once one
// is set, via the same FaceSampler/EmissiveMaterialProvider
// capabilities every other shape uses.
type Quad struct {
	Corner, U, V core.Vec3
	Mat          material.Material
	Emissive     material.Emitter
	normal       core.Vec3
	d            float64
	w            core.Vec3
	area         float64
}

// NewQuad creates a quad from a corner and two edge vectors.
func NewQuad(corner, u, v core.Vec3, mat material.Material) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()
	d := normal.Dot(corner)
	w := normal.Multiply(1.0 / normal.Dot(cross))

	return &Quad{
		Corner: corner, U: u, V: v,
		Mat:    mat,
		normal: normal,
		d:      d,
		w:      w,
		area:   cross.Length(),
	}
}

// NewEmissiveQuad creates a quad usable as a rectangular area light.
func NewEmissiveQuad(corner, u, v core.Vec3, mat material.Material, emissive material.Emitter) *Quad {
	q := NewQuad(corner, u, v, mat)
	q.Emissive = emissive
	return q
}

// Intersect implements Shape.
func (q *Quad) Intersect(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	denominator := ray.Direction.Dot(q.normal)
	if math.Abs(denominator) < 1e-8 {
		return Hit{}, false
	}

	distance := (q.d - ray.Origin.Dot(q.normal)) / denominator
	if distance <= tMin || distance > tMax {
		return Hit{}, false
	}

	hitVector := ray.At(distance).Subtract(q.Corner)
	alpha := q.w.Dot(hitVector.Cross(q.V))
	beta := q.w.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return Hit{}, false
	}

	frontFace := denominator < 0
	frontID, backID := triangleFront, triangleBack
	if !frontFace {
		frontID, backID = triangleBack, triangleFront
	}

	return Hit{
		Distance:       distance,
		FrontFaceID:    frontID,
		BackFaceID:     backID,
		AdditionalData: barycentric{u: alpha, v: beta, w: 1 - alpha - beta},
	}, true
}

// Bounds implements Bounded.
func (q *Quad) Bounds() core.AABB {
	corners := []core.Vec3{
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	}
	return core.NewAABBFromPoints(corners...).Expand(1e-4)
}

// NormalAt implements Normaled.
func (q *Quad) NormalAt(faceID int, _ Hit, _ core.Vec3) core.Vec3 {
	if faceID == triangleBack {
		return q.normal.Negate()
	}
	return q.normal
}

// MaterialOf implements MaterialProvider.
func (q *Quad) MaterialOf(_ int) material.Material {
	return q.Mat
}

// EmissiveMaterialOf implements EmissiveMaterialProvider.
func (q *Quad) EmissiveMaterialOf(_ int) material.Emitter {
	return q.Emissive
}

// SampleFace implements FaceSampler: uniform over the rectangle via
// independent alpha/beta in [0,1].
func (q *Quad) SampleFace(_ int, r rng.RNG) core.Vec3 {
	alpha := r.UniformFloat(0, 1)
	beta := r.UniformFloat(0, 1)
	return q.Corner.Add(q.U.Multiply(alpha)).Add(q.V.Multiply(beta))
}

// PDFBySolidAngle implements FaceSampler.
func (q *Quad) PDFBySolidAngle(faceID int, toShapeRay core.Ray, distance float64) float64 {
	if q.area <= 0 {
		return 0
	}
	normal := q.NormalAt(faceID, Hit{}, core.Vec3{})
	cosTheta := math.Abs(toShapeRay.Direction.Normalize().Dot(normal))
	if cosTheta < 1e-8 {
		return 0
	}
	return (distance * distance) / (cosTheta * q.area)
}
