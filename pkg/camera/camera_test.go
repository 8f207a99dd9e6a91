package camera

import (
	"math"
	"testing"

	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinholeRejectsDegenerateOrientation(t *testing.T) {
	_, err := NewPinhole(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 1, 1, 1)
	require.Error(t, err)

	_, err = NewPinhole(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1), 1, 1, 1)
	require.Error(t, err)
}

func TestPinholeRejectsInvalidFocalLength(t *testing.T) {
	_, err := NewPinhole(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0), -1, 1, 1)
	require.Error(t, err)
}

func TestPinholeCenterRayPointsAlongDirection(t *testing.T) {
	cam, err := NewPinhole(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0), 1, 2, 2)
	require.NoError(t, err)

	ray, err := cam.GenerateRay(0.5, 0.5, 0, 0)
	require.NoError(t, err)

	dir := ray.Direction.Normalize()
	assert.InDelta(t, 0.0, dir.X, 1e-9)
	assert.InDelta(t, 0.0, dir.Y, 1e-9)
	assert.InDelta(t, 1.0, dir.Z, 1e-9)
}

func TestPinholeHasNoLensDomain(t *testing.T) {
	cam, err := NewPinhole(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0), 1, 2, 2)
	require.NoError(t, err)

	assert.False(t, cam.HasLensDomain())
	assert.False(t, cam.Extents().HasLensDomain())
}

func TestThinLensHasLensDomainWithExpectedExtents(t *testing.T) {
	cam, err := NewThinLens(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0), 1, 0.1, 2, 2)
	require.NoError(t, err)

	assert.True(t, cam.HasLensDomain())
	ext := cam.Extents()
	assert.True(t, ext.HasLensDomain())
	assert.Equal(t, 0.0, ext.LensUMin)
	assert.Equal(t, 1.0, ext.LensUMax)
	assert.InDelta(t, 2*math.Pi, ext.LensVMax, 1e-12)
}

func TestThinLensCenterApertureSampleMatchesPinholeAxis(t *testing.T) {
	cam, err := NewThinLens(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0), 1, 0.1, 2, 2)
	require.NoError(t, err)

	ray, err := cam.GenerateRay(0.5, 0.5, 0, 0)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, ray.Origin.X, 1e-9)
	assert.InDelta(t, 0.0, ray.Origin.Y, 1e-9)
}

func TestOrthographicRaysAreParallel(t *testing.T) {
	cam, err := NewOrthographic(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0), 4, 4)
	require.NoError(t, err)

	r1, err := cam.GenerateRay(0.1, 0.1, 0, 0)
	require.NoError(t, err)
	r2, err := cam.GenerateRay(0.9, 0.9, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, r1.Direction, r2.Direction)
	assert.NotEqual(t, r1.Origin, r2.Origin)
}

func TestOrthographicHasNoLensDomain(t *testing.T) {
	cam, err := NewOrthographic(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0), 4, 4)
	require.NoError(t, err)
	assert.False(t, cam.HasLensDomain())
	assert.Equal(t, 0.0, cam.Extents().LensVMax-cam.Extents().LensVMin)
}

func TestExtentsRemapMapsUnitSquareToDomain(t *testing.T) {
	e := Extents{ImageUMin: 10, ImageUMax: 20, ImageVMin: -5, ImageVMax: 5, LensUMin: 0, LensUMax: 1, LensVMin: 0, LensVMax: 2 * math.Pi}

	iu, iv, lu, lv := e.Remap(0, 0, 0, 0)
	assert.Equal(t, 10.0, iu)
	assert.Equal(t, -5.0, iv)
	assert.Equal(t, 0.0, lu)
	assert.Equal(t, 0.0, lv)

	iu, iv, lu, lv = e.Remap(1, 1, 1, 1)
	assert.Equal(t, 20.0, iu)
	assert.Equal(t, 5.0, iv)
	assert.Equal(t, 1.0, lu)
	assert.InDelta(t, 2*math.Pi, lv, 1e-12)
}
