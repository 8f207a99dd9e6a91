// Package shape implements intersectable geometry: the polymorphic
// Shape contract and concrete primitives (sphere, triangle mesh,
// plane, quad, and CSG combinators).
//
// Grounded on pkg/geometry/{shape,sphere,triangle}.go in the teacher,
// generalized to a face-indexed intersection result so a single
// Intersect call can report which of several logical sub-faces (a
// mesh triangle, a CSG branch) was struck without a type switch at
// every call site.
package shape

import (
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/material"
	"github.com/brw/spectral-tracer/pkg/rng"
)

// Hit is the result of a successful Intersect: the ray parameter at
// which the surface was struck, and an opaque face identifier the
// shape interprets in its other methods (NormalAt, MaterialOf, ...).
// AdditionalData carries shape-specific state (e.g. barycentric
// coordinates) a caller shouldn't need to recompute.
type Hit struct {
	Distance       float64
	FrontFaceID    int
	BackFaceID     int
	AdditionalData any
}

// Shape is the required capability every intersectable geometric
// primitive implements.
type Shape interface {
	// Intersect returns the nearest hit strictly within (tMin, tMax],
	// and false if the ray misses entirely.
	Intersect(ray core.Ray, tMin, tMax float64) (Hit, bool)
}

// Bounded is an optional capability: a shape that can report a
// world-space bounding box, used by the acceleration structure build.
type Bounded interface {
	Bounds() core.AABB
}

// Normaled is an optional capability: a shape that can compute the
// outward unit normal at a hit on a given face.
type Normaled interface {
	NormalAt(faceID int, hit Hit, point core.Vec3) core.Vec3
}

// MaterialProvider is an optional capability: a shape whose faces
// carry a scattering material.
type MaterialProvider interface {
	MaterialOf(faceID int) material.Material
}

// EmissiveMaterialProvider is an optional capability: a shape whose
// faces may carry an emissive material (area lights).
type EmissiveMaterialProvider interface {
	EmissiveMaterialOf(faceID int) material.Emitter
}

// FaceSampler is an optional capability: a shape that can be sampled
// as an area light, drawing a point uniformly (by area) on one face.
type FaceSampler interface {
	SampleFace(faceID int, r rng.RNG) core.Vec3
	// PDFBySolidAngle converts the face's area measure to a solid-angle
	// measure as seen from a shading point along toShapeRay, given the
	// hit distance to the face.
	PDFBySolidAngle(faceID int, toShapeRay core.Ray, distance float64) float64
}
