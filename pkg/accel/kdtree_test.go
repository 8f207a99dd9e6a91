package accel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brw/spectral-tracer/pkg/color"
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/material"
	"github.com/brw/spectral-tracer/pkg/shape"
)

func newTestSphere(t *testing.T, center core.Vec3, radius float64) *shape.Sphere {
	t.Helper()
	albedo, err := color.NewConstantReflector(0.5)
	require.NoError(t, err)
	return shape.NewSphere(center, radius, material.NewLambertian(albedo))
}

func TestBuildEmptyTreeMissesEverything(t *testing.T) {
	tree := Build(nil)
	_, _, found := tree.Intersect(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	assert.False(t, found)
}

func TestBuildFindsNearestAcrossManyPrimitives(t *testing.T) {
	var prims []Primitive
	for i := 0; i < 50; i++ {
		s := newTestSphere(t, core.NewVec3(float64(i)*3-75, 0, -10), 1.0)
		prims = append(prims, Primitive{Shape: s, Bounds: s.Bounds()})
	}
	nearest := newTestSphere(t, core.NewVec3(0, 0, -5), 1.0)
	prims = append(prims, Primitive{Shape: nearest, Bounds: nearest.Bounds()})

	tree := Build(prims)
	hit, prim, found := tree.Intersect(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	require.True(t, found)
	assert.InDelta(t, 4.0, hit.Distance, 1e-6)
	assert.Same(t, nearest, prim.Shape)
}

func TestBuildMatchesLinearScanOnRandomQueries(t *testing.T) {
	var prims []Primitive
	centers := []core.Vec3{
		{X: 0, Y: 0, Z: -5}, {X: 2, Y: 1, Z: -8}, {X: -3, Y: -2, Z: -6},
		{X: 5, Y: 5, Z: -12}, {X: -5, Y: 0, Z: -4}, {X: 1, Y: -1, Z: -20},
	}
	for _, c := range centers {
		s := newTestSphere(t, c, 1.5)
		prims = append(prims, Primitive{Shape: s, Bounds: s.Bounds()})
	}
	tree := Build(prims)

	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(2, 1, -8).Normalize()),
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(-3, -2, -6).Normalize()),
		core.NewRay(core.NewVec3(10, 10, 10), core.NewVec3(-1, -1, -1).Normalize()),
	}

	for _, ray := range rays {
		treeHit, _, treeFound := tree.Intersect(ray, 0.001, math.Inf(1))

		var linearBest shape.Hit
		linearFound := false
		closest := math.Inf(1)
		for _, p := range prims {
			hit, ok := p.Shape.Intersect(ray, 0.001, closest)
			if ok && hit.Distance < closest {
				closest = hit.Distance
				linearBest = hit
				linearFound = true
			}
		}

		require.Equal(t, linearFound, treeFound)
		if linearFound {
			assert.InDelta(t, linearBest.Distance, treeHit.Distance, 1e-6)
		}
	}
}
