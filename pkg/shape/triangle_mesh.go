package shape

import (
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/material"
	"github.com/brw/spectral-tracer/pkg/rng"
	"github.com/brw/spectral-tracer/pkg/status"
)

// TriangleMesh is an indexed collection of triangles sharing a vertex
// buffer, grounded on pkg/geometry/triangle_mesh.go. Unlike the
// teacher's mesh, which nests its own BVH, this mesh is a flat,
// linearly-scanned Shape: multi-primitive scenes rely on pkg/accel's
// k-d tree for acceleration, built over the mesh's individual
// triangles via Triangles(), so the mesh itself doesn't need a second
// acceleration layer.
type TriangleMesh struct {
	triangles []*Triangle
	bbox      core.AABB
}

// NewTriangleMesh builds a mesh from a vertex buffer and a flat list
// of triangle vertex indices (each run of 3 forms one triangle), all
// sharing one material. Per-triangle materials can be set afterward
// via Triangles().
func NewTriangleMesh(vertices []core.Vec3, faces []int, mat material.Material) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, status.Invalid("faces", "length must be a multiple of 3")
	}

	numTriangles := len(faces) / 3
	triangles := make([]*Triangle, numTriangles)

	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		if i0 < 0 || i1 < 0 || i2 < 0 || i0 >= len(vertices) || i1 >= len(vertices) || i2 >= len(vertices) {
			return nil, status.Invalid("faces", "index out of bounds")
		}
		triangles[i] = NewTriangle(vertices[i0], vertices[i1], vertices[i2], mat)
	}

	var bbox core.AABB
	if len(triangles) > 0 {
		bbox = triangles[0].bbox
		for _, tri := range triangles[1:] {
			bbox = bbox.Union(tri.bbox)
		}
	}

	return &TriangleMesh{triangles: triangles, bbox: bbox}, nil
}

// Triangles returns the mesh's individual triangles, for the
// acceleration structure build or per-triangle material assignment.
func (tm *TriangleMesh) Triangles() []*Triangle {
	return tm.triangles
}

// triangleFaceID encodes which triangle and which of its two sides a
// mesh-level face ID refers to: triIndex*2 + side.
func triangleFaceID(triIndex, side int) int {
	return triIndex*2 + side
}

func splitTriangleFaceID(faceID int) (triIndex, side int) {
	return faceID / 2, faceID % 2
}

// Intersect implements Shape by linearly scanning the mesh's
// triangles, narrowing tMax as closer hits are found.
func (tm *TriangleMesh) Intersect(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	best := Hit{}
	found := false
	closest := tMax

	for i, tri := range tm.triangles {
		hit, ok := tri.Intersect(ray, tMin, closest)
		if !ok {
			continue
		}
		frontSide, backSide := triangleFront, triangleBack
		if hit.FrontFaceID == triangleBack {
			frontSide, backSide = triangleBack, triangleFront
		}
		best = Hit{
			Distance:       hit.Distance,
			FrontFaceID:    triangleFaceID(i, frontSide),
			BackFaceID:     triangleFaceID(i, backSide),
			AdditionalData: hit.AdditionalData,
		}
		closest = hit.Distance
		found = true
	}

	return best, found
}

// Bounds implements Bounded.
func (tm *TriangleMesh) Bounds() core.AABB {
	return tm.bbox
}

// NormalAt implements Normaled.
func (tm *TriangleMesh) NormalAt(faceID int, hit Hit, point core.Vec3) core.Vec3 {
	triIndex, side := splitTriangleFaceID(faceID)
	return tm.triangles[triIndex].NormalAt(side, hit, point)
}

// MaterialOf implements MaterialProvider.
func (tm *TriangleMesh) MaterialOf(faceID int) material.Material {
	triIndex, _ := splitTriangleFaceID(faceID)
	return tm.triangles[triIndex].Mat
}

// EmissiveMaterialOf implements EmissiveMaterialProvider.
func (tm *TriangleMesh) EmissiveMaterialOf(faceID int) material.Emitter {
	triIndex, _ := splitTriangleFaceID(faceID)
	return tm.triangles[triIndex].Emissive
}

// SampleFace implements FaceSampler.
func (tm *TriangleMesh) SampleFace(faceID int, r rng.RNG) core.Vec3 {
	triIndex, side := splitTriangleFaceID(faceID)
	return tm.triangles[triIndex].SampleFace(side, r)
}

// PDFBySolidAngle implements FaceSampler.
func (tm *TriangleMesh) PDFBySolidAngle(faceID int, toShapeRay core.Ray, distance float64) float64 {
	triIndex, side := splitTriangleFaceID(faceID)
	return tm.triangles[triIndex].PDFBySolidAngle(side, toShapeRay, distance)
}
