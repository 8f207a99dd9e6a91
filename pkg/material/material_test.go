package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brw/spectral-tracer/pkg/color"
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/rng"
)

func upwardHit() HitRecord {
	return HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: true,
	}
}

func TestLambertianScatterStaysInHemisphere(t *testing.T) {
	albedo, err := color.NewConstantReflector(0.5)
	require.NoError(t, err)
	l := NewLambertian(albedo)
	compositor := color.NewReflectorCompositor(8)
	r := rng.New(1, 1)
	hit := upwardHit()

	result, scattered, err := l.Scatter(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), hit, r, compositor)
	require.NoError(t, err)
	require.True(t, scattered)
	assert.GreaterOrEqual(t, result.Scattered.Direction.Dot(hit.Normal), 0.0)
	assert.Greater(t, result.PDF, 0.0)
	assert.False(t, result.Specular)
}

func TestLambertianPDFMatchesCosineWeighting(t *testing.T) {
	albedo, err := color.NewConstantReflector(0.5)
	require.NoError(t, err)
	l := NewLambertian(albedo)
	pdf, isDelta := l.PDF(core.Vec3{}, core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0))
	assert.False(t, isDelta)
	assert.InDelta(t, 1.0/3.14159265358979, pdf, 1e-6)
}

func TestMetalReflectsAboutNormal(t *testing.T) {
	albedo, err := color.NewConstantReflector(0.8)
	require.NoError(t, err)
	m := NewMetal(albedo, 0)
	hit := upwardHit()

	incoming := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, -1, 0).Normalize())
	result, scattered, err := m.Scatter(incoming, hit, rng.New(1, 1), nil)
	require.NoError(t, err)
	require.True(t, scattered)
	assert.InDelta(t, 0.7071067811865476, result.Scattered.Direction.Y, 1e-9)
	assert.True(t, result.Specular)
	assert.Equal(t, 0.0, result.PDF)
}

func TestMetalAbsorbsGrazingReflectionBelowSurface(t *testing.T) {
	albedo, err := color.NewConstantReflector(0.8)
	require.NoError(t, err)
	m := NewMetal(albedo, 0)
	hit := upwardHit()

	incoming := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 0).Normalize())
	_, scattered, err := m.Scatter(incoming, hit, rng.New(1, 1), nil)
	require.NoError(t, err)
	assert.False(t, scattered)
}

func TestMetalFuzzClampedToUnitInterval(t *testing.T) {
	albedo, err := color.NewConstantReflector(0.8)
	require.NoError(t, err)
	assert.Equal(t, 1.0, NewMetal(albedo, 5.0).Fuzziness)
	assert.Equal(t, 0.0, NewMetal(albedo, -5.0).Fuzziness)
}

func TestDielectricAlwaysScattersWithFullTransmission(t *testing.T) {
	d, err := NewDielectric(1.5)
	require.NoError(t, err)
	hit := upwardHit()

	incoming := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0.2, -1, 0).Normalize())
	result, scattered, err := d.Scatter(incoming, hit, rng.New(2, 2), nil)
	require.NoError(t, err)
	require.True(t, scattered)
	assert.True(t, result.Specular)
	albedo, err := color.ReflectValue(result.Attenuation, 550, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, albedo)
}

func TestDielectricTotalInternalReflectionAlwaysReflects(t *testing.T) {
	d, err := NewDielectric(1.5)
	require.NoError(t, err)
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: false,
	}

	grazing := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0.99, -0.01, 0).Normalize())
	result, scattered, err := d.Scatter(grazing, hit, rng.New(3, 3), nil)
	require.NoError(t, err)
	require.True(t, scattered)
	assert.Less(t, result.Scattered.Direction.Dot(core.NewVec3(0, -1, 0)), 0.0)
}

func TestNewDielectricRejectsInvalidIndex(t *testing.T) {
	_, err := NewDielectric(0)
	assert.Error(t, err)
	_, err = NewDielectric(-1)
	assert.Error(t, err)
}

func TestEmissiveNeverScatters(t *testing.T) {
	spectrum, err := color.NewConstantSpectrum(5.0)
	require.NoError(t, err)
	e := NewEmissive(spectrum)
	_, scattered, err := e.Scatter(core.Ray{}, upwardHit(), rng.New(1, 1), nil)
	require.NoError(t, err)
	assert.False(t, scattered)
}

func TestEmissiveEmitsConfiguredSpectrum(t *testing.T) {
	spectrum, err := color.NewConstantSpectrum(5.0)
	require.NoError(t, err)
	e := NewEmissive(spectrum)
	emitted, err := e.Emit(core.Ray{})
	require.NoError(t, err)
	value, err := color.SampleSpectrum(emitted, 500)
	require.NoError(t, err)
	assert.Equal(t, 5.0, value)
}
