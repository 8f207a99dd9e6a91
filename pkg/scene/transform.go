package scene

import (
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/material"
	"github.com/brw/spectral-tracer/pkg/rng"
	"github.com/brw/spectral-tracer/pkg/shape"
)

// transformedShape bakes a model-to-world transform around a shape
// that hasn't premultiplied its own vertices, so the accelerator and
// its traversal loop only ever intersect world-space geometry. Ray
// parameters are affine-invariant (transforming a ray's origin and
// direction by the same matrix without renormalizing preserves the
// hit distance t), so Intersect needs no inverse transform of the
// result; only the normal and any sampled points need mapping back.
//
// Caveat: SampleFace/PDFBySolidAngle assume ModelToWorld is a
// similarity transform (rotation, translation, uniform scale) —
// non-uniform scale distorts the area-to-solid-angle conversion an
// area light relies on. No scene built here uses non-uniform scale on
// an emissive shape; a future anisotropic-scale light would need a
// Jacobian-corrected PDF.
type transformedShape struct {
	inner        shape.Shape
	modelToWorld core.Mat4
	worldToModel core.Mat4
	normalMatrix core.Mat4
}

func newTransformedShape(inner shape.Shape, modelToWorld core.Mat4) *transformedShape {
	worldToModel := modelToWorld.Inverse()
	return &transformedShape{
		inner:        inner,
		modelToWorld: modelToWorld,
		worldToModel: worldToModel,
		normalMatrix: worldToModel.Transpose(),
	}
}

func (t *transformedShape) Intersect(ray core.Ray, tMin, tMax float64) (shape.Hit, bool) {
	localRay := t.worldToModel.TransformRay(ray)
	return t.inner.Intersect(localRay, tMin, tMax)
}

func (t *transformedShape) Bounds() core.AABB {
	bounded, ok := t.inner.(shape.Bounded)
	if !ok {
		return core.AABB{}
	}
	return bounded.Bounds().Transform(t.modelToWorld)
}

func (t *transformedShape) NormalAt(faceID int, hit shape.Hit, point core.Vec3) core.Vec3 {
	normaled, ok := t.inner.(shape.Normaled)
	if !ok {
		return core.Vec3{}
	}
	localPoint := t.worldToModel.TransformPoint(point)
	localNormal := normaled.NormalAt(faceID, hit, localPoint)
	return t.normalMatrix.TransformNormal(localNormal)
}

func (t *transformedShape) MaterialOf(faceID int) material.Material {
	provider, ok := t.inner.(shape.MaterialProvider)
	if !ok {
		return nil
	}
	return provider.MaterialOf(faceID)
}

func (t *transformedShape) EmissiveMaterialOf(faceID int) material.Emitter {
	provider, ok := t.inner.(shape.EmissiveMaterialProvider)
	if !ok {
		return nil
	}
	return provider.EmissiveMaterialOf(faceID)
}

func (t *transformedShape) SampleFace(faceID int, r rng.RNG) core.Vec3 {
	sampler, ok := t.inner.(shape.FaceSampler)
	if !ok {
		return core.Vec3{}
	}
	return t.modelToWorld.TransformPoint(sampler.SampleFace(faceID, r))
}

func (t *transformedShape) PDFBySolidAngle(faceID int, toShapeRay core.Ray, distance float64) float64 {
	sampler, ok := t.inner.(shape.FaceSampler)
	if !ok {
		return 0
	}
	localRay := t.worldToModel.TransformRay(toShapeRay)
	return sampler.PDFBySolidAngle(faceID, localRay, distance)
}
