package shape

import (
	"math"

	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/material"
	"github.com/brw/spectral-tracer/pkg/rng"
)

const (
	triangleFront = 0
	triangleBack  = 1
)

// triangleMollerTrumboreEpsilon is the near-zero determinant threshold
// below which a ray is treated as parallel to the triangle's plane.
const triangleMollerTrumboreEpsilon = 1e-8

// Triangle is a single triangle with a counter-clockwise winding
// (viewed from the front) defining its outward normal via the
// right-hand rule, grounded on pkg/geometry/triangle.go and
// generalized to the face-indexed Shape contract.
type Triangle struct {
	V0, V1, V2 core.Vec3
	Mat        material.Material
	Emissive   material.Emitter
	normal     core.Vec3
	bbox       core.AABB
	area       float64
}

// NewTriangle builds a Triangle, caching its normal (via the
// right-hand rule over V1-V0, V2-V0) and bounding box.
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) *Triangle {
	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)
	cross := edge1.Cross(edge2)
	normal, length := cross.NormalizeLength()

	return &Triangle{
		V0: v0, V1: v1, V2: v2,
		Mat:    mat,
		normal: normal,
		bbox:   core.NewAABBFromPoints(v0, v1, v2),
		area:   0.5 * length,
	}
}

// NewEmissiveTriangle builds a Triangle usable as an area light.
func NewEmissiveTriangle(v0, v1, v2 core.Vec3, mat material.Material, emissive material.Emitter) *Triangle {
	t := NewTriangle(v0, v1, v2, mat)
	t.Emissive = emissive
	return t
}

// Intersect implements Shape via the Moller-Trumbore algorithm.
func (t *Triangle) Intersect(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -triangleMollerTrumboreEpsilon && a < triangleMollerTrumboreEpsilon {
		return Hit{}, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return Hit{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return Hit{}, false
	}

	distance := f * edge2.Dot(q)
	if distance <= tMin || distance > tMax {
		return Hit{}, false
	}

	frontFace := ray.Direction.Dot(t.normal) < 0
	frontID, backID := triangleFront, triangleBack
	if !frontFace {
		frontID, backID = triangleBack, triangleFront
	}

	return Hit{
		Distance:       distance,
		FrontFaceID:    frontID,
		BackFaceID:     backID,
		AdditionalData: barycentric{u: u, v: v, w: 1 - u - v},
	}, true
}

// barycentric holds the Moller-Trumbore barycentric coordinates of a
// triangle hit, carried in Hit.AdditionalData for shading callers that
// need it (texture lookup, vertex-normal interpolation) without
// recomputing the intersection.
type barycentric struct {
	u, v, w float64
}

// Bounds implements Bounded.
func (t *Triangle) Bounds() core.AABB {
	return t.bbox
}

// NormalAt implements Normaled: the triangle's flat face normal,
// flipped for the back face ID.
func (t *Triangle) NormalAt(faceID int, _ Hit, _ core.Vec3) core.Vec3 {
	if faceID == triangleBack {
		return t.normal.Negate()
	}
	return t.normal
}

// MaterialOf implements MaterialProvider.
func (t *Triangle) MaterialOf(_ int) material.Material {
	return t.Mat
}

// EmissiveMaterialOf implements EmissiveMaterialProvider.
func (t *Triangle) EmissiveMaterialOf(_ int) material.Emitter {
	return t.Emissive
}

// SampleFace implements FaceSampler, drawing a point uniform by area
// via a square-root barycentric warp.
func (t *Triangle) SampleFace(_ int, r rng.RNG) core.Vec3 {
	u1 := r.UniformFloat(0, 1)
	u2 := r.UniformFloat(0, 1)
	su1 := math.Sqrt(u1)

	b0 := 1 - su1
	b1 := u2 * su1

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	return t.V0.Add(edge1.Multiply(b0)).Add(edge2.Multiply(b1))
}

// PDFBySolidAngle implements FaceSampler, converting the triangle's
// area PDF (1/area) to a solid-angle measure via the inverse-square
// law and the foreshortening cosine at the face.
func (t *Triangle) PDFBySolidAngle(faceID int, toShapeRay core.Ray, distance float64) float64 {
	if t.area <= 0 {
		return 0
	}
	normal := t.NormalAt(faceID, Hit{}, core.Vec3{})
	cosTheta := math.Abs(toShapeRay.Direction.Normalize().Dot(normal))
	if cosTheta <= 0 {
		return 0
	}
	return (distance * distance) / (cosTheta * t.area)
}
