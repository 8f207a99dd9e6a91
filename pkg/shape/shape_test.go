package shape

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brw/spectral-tracer/pkg/color"
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/material"
)

func testMaterial(t *testing.T) material.Material {
	t.Helper()
	albedo, err := color.NewConstantReflector(0.5)
	require.NoError(t, err)
	return material.NewLambertian(albedo)
}

func TestSphereIntersectFrontAndBack(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, -5), 1.0, testMaterial(t))

	hit, ok := s.Intersect(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 4.0, hit.Distance, 1e-9)
	assert.Equal(t, sphereOutside, hit.FrontFaceID)
	assert.Equal(t, sphereInside, hit.BackFaceID)
}

func TestSphereMissReturnsFalse(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, -5), 1.0, testMaterial(t))
	_, ok := s.Intersect(core.NewRay(core.NewVec3(0, 10, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	assert.False(t, ok)
}

func TestSphereBoundsContainsCenter(t *testing.T) {
	s := NewSphere(core.NewVec3(1, 2, 3), 2.0, testMaterial(t))
	bounds := s.Bounds()
	assert.True(t, bounds.Min.X <= 1 && bounds.Max.X >= 1)
}

func TestTriangleIntersectInsideBounds(t *testing.T) {
	tri := NewTriangle(
		core.NewVec3(-1, -1, -5),
		core.NewVec3(1, -1, -5),
		core.NewVec3(0, 1, -5),
		testMaterial(t),
	)

	hit, ok := tri.Intersect(core.NewRay(core.NewVec3(0, -0.5, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 5.0, hit.Distance, 1e-9)
}

func TestTriangleMissesOutsideEdge(t *testing.T) {
	tri := NewTriangle(
		core.NewVec3(-1, -1, -5),
		core.NewVec3(1, -1, -5),
		core.NewVec3(0, 1, -5),
		testMaterial(t),
	)

	_, ok := tri.Intersect(core.NewRay(core.NewVec3(5, 5, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	assert.False(t, ok)
}

func TestTriangleMeshIntersectsNearestTriangle(t *testing.T) {
	vertices := []core.Vec3{
		{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 0, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: -5}, {X: 1, Y: -1, Z: -5}, {X: 0, Y: 1, Z: -5},
	}
	faces := []int{0, 1, 2, 3, 4, 5}
	mesh, err := NewTriangleMesh(vertices, faces, testMaterial(t))
	require.NoError(t, err)

	hit, ok := mesh.Intersect(core.NewRay(core.NewVec3(0, -0.5, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 1.0, hit.Distance, 1e-9)

	normal := mesh.NormalAt(hit.FrontFaceID, hit, core.Vec3{})
	assert.InDelta(t, 0.0, normal.X, 1e-9)
}

func TestNewTriangleMeshRejectsBadFaceLength(t *testing.T) {
	_, err := NewTriangleMesh([]core.Vec3{{}}, []int{0, 0}, testMaterial(t))
	assert.Error(t, err)
}

func TestNewTriangleMeshRejectsOutOfBoundsIndex(t *testing.T) {
	_, err := NewTriangleMesh([]core.Vec3{{}, {}, {}}, []int{0, 1, 5}, testMaterial(t))
	assert.Error(t, err)
}

func TestPlaneIntersectAndNormal(t *testing.T) {
	p := NewPlane(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1), testMaterial(t))
	hit, ok := p.Intersect(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 5.0, hit.Distance, 1e-9)
}

func TestQuadIntersectWithinBounds(t *testing.T) {
	q := NewQuad(core.NewVec3(-1, -1, -5), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), testMaterial(t))
	hit, ok := q.Intersect(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 5.0, hit.Distance, 1e-9)
}

func TestQuadIntersectOutsideBoundsMisses(t *testing.T) {
	q := NewQuad(core.NewVec3(-1, -1, -5), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), testMaterial(t))
	_, ok := q.Intersect(core.NewRay(core.NewVec3(10, 10, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	assert.False(t, ok)
}

func TestQuadAreaMatchesCrossProductMagnitude(t *testing.T) {
	q := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 3, 0), testMaterial(t))
	assert.InDelta(t, 6.0, q.area, 1e-9)
}

func TestCSGUnionReportsNearestOperandSurface(t *testing.T) {
	left := NewSphere(core.NewVec3(-0.25, 0, -5), 0.5, testMaterial(t))
	right := NewSphere(core.NewVec3(0.25, 0, -5), 0.5, testMaterial(t))
	union := NewUnion(left, right)

	hit, ok := union.Intersect(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 4.566987, hit.Distance, 1e-5)
}

func TestCSGIntersectionOnlyOverlapRegion(t *testing.T) {
	left := NewSphere(core.NewVec3(-0.25, 0, -5), 0.5, testMaterial(t))
	right := NewSphere(core.NewVec3(0.25, 0, -5), 0.5, testMaterial(t))
	inter := NewIntersection(left, right)

	// Along the shared axis, the two spheres overlap around x=0.
	hit, ok := inter.Intersect(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	require.True(t, ok)
	assert.Greater(t, hit.Distance, 0.0)

	// Far outside the overlap region entirely, nothing is hit.
	_, ok = inter.Intersect(core.NewRay(core.NewVec3(-0.25, 5, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	assert.False(t, ok)
}

func TestCSGDifferenceExcludesSubtrahend(t *testing.T) {
	left := NewSphere(core.NewVec3(0, 0, -5), 1.0, testMaterial(t))
	right := NewSphere(core.NewVec3(0, 0, -5.5), 0.6, testMaterial(t))
	diff := NewDifference(left, right)

	// The subtrahend's span along the ray starts at depth 4.9, behind
	// the left sphere's near surface at 4.0, so that near surface
	// survives the difference and is the first hit.
	hit, ok := diff.Intersect(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 4.0, hit.Distance, 1e-9)
}

func TestCSGBoundsUnionsOperandBounds(t *testing.T) {
	left := NewSphere(core.NewVec3(-1, 0, 0), 0.5, testMaterial(t))
	right := NewSphere(core.NewVec3(1, 0, 0), 0.5, testMaterial(t))
	union := NewUnion(left, right)

	bounds := union.Bounds()
	assert.InDelta(t, -1.5, bounds.Min.X, 1e-9)
	assert.InDelta(t, 1.5, bounds.Max.X, 1e-9)
}
