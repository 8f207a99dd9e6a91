package light

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brw/spectral-tracer/pkg/color"
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/rng"
)

func constSpectrum(t *testing.T, intensity float64) color.Spectrum {
	t.Helper()
	s, err := color.NewConstantSpectrum(intensity)
	require.NoError(t, err)
	return s
}

func TestPointLightAttenuatesByInverseSquareDistance(t *testing.T) {
	pl, err := NewPointLight(core.NewVec3(0, 0, -10), constSpectrum(t, 100))
	require.NoError(t, err)

	compositor := color.NewSpectrumCompositor(4)
	sample, err := pl.Sample(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), rng.New(1, 1), compositor)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, sample.Distance, 1e-9)
	assert.True(t, sample.IsDelta)
	assert.InDelta(t, 1.0, sample.PDF, 1e-9)

	v, err := sample.Emission.Sample(550)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-9) // 100 / 10^2
}

func TestPointLightRejectsDirectionBehindNormal(t *testing.T) {
	pl, err := NewPointLight(core.NewVec3(0, 0, -10), constSpectrum(t, 100))
	require.NoError(t, err)

	compositor := color.NewSpectrumCompositor(4)
	sample, err := pl.Sample(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), rng.New(1, 1), compositor)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sample.PDF)
}

func TestPointLightNeverEmitsAlongEscapingRay(t *testing.T) {
	pl, err := NewPointLight(core.NewVec3(0, 0, -10), constSpectrum(t, 100))
	require.NoError(t, err)
	spectrum, err := pl.Emit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)))
	require.NoError(t, err)
	assert.Nil(t, spectrum)
}

func TestUniformInfiniteLightEmitsConstantSpectrum(t *testing.T) {
	emission := constSpectrum(t, 5)
	uil, err := NewUniformInfiniteLight(emission)
	require.NoError(t, err)

	spectrum, err := uil.Emit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1).Normalize()))
	require.NoError(t, err)
	v, err := spectrum.Sample(550)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, v, 1e-9)
}

func TestUniformInfiniteLightSampleStaysInHemisphere(t *testing.T) {
	uil, err := NewUniformInfiniteLight(constSpectrum(t, 1))
	require.NoError(t, err)

	normal := core.NewVec3(0, 1, 0)
	r := rng.New(7, 7)
	compositor := color.NewSpectrumCompositor(1)

	for i := 0; i < 50; i++ {
		sample, err := uil.Sample(core.Vec3{}, normal, r, compositor)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, sample.Direction.Dot(normal), 0.0)
		assert.True(t, math.IsInf(sample.Distance, 1))
		assert.Greater(t, sample.PDF, 0.0)
	}
}

func TestUniformInfiniteLightPDFMatchesCosineWeighting(t *testing.T) {
	uil, err := NewUniformInfiniteLight(constSpectrum(t, 1))
	require.NoError(t, err)

	normal := core.NewVec3(0, 1, 0)
	direction := core.NewVec3(0, 1, 0)
	assert.InDelta(t, 1.0/math.Pi, uil.PDF(core.Vec3{}, normal, direction), 1e-9)
	assert.Equal(t, 0.0, uil.PDF(core.Vec3{}, normal, core.NewVec3(0, -1, 0)))
}

func TestNewWeightedSamplerRejectsMismatchedLengths(t *testing.T) {
	pl, err := NewPointLight(core.NewVec3(0, 0, 0), constSpectrum(t, 1))
	require.NoError(t, err)
	_, err = NewWeightedSampler([]Light{pl}, []float64{0.5, 0.5})
	assert.Error(t, err)
}

func TestWeightedSamplerRespectsCumulativeWeights(t *testing.T) {
	a, err := NewPointLight(core.NewVec3(0, 0, 0), constSpectrum(t, 1))
	require.NoError(t, err)
	b, err := NewPointLight(core.NewVec3(1, 0, 0), constSpectrum(t, 1))
	require.NoError(t, err)

	sampler, err := NewWeightedSampler([]Light{a, b}, []float64{0.25, 0.75})
	require.NoError(t, err)

	picked, prob, idx := sampler.Sample(0.1)
	assert.Same(t, a, picked)
	assert.InDelta(t, 0.25, prob, 1e-9)
	assert.Equal(t, 0, idx)

	picked, prob, idx = sampler.Sample(0.9)
	assert.Same(t, b, picked)
	assert.InDelta(t, 0.75, prob, 1e-9)
	assert.Equal(t, 1, idx)
}

func TestNewUniformSamplerDividesWeightsEqually(t *testing.T) {
	a, err := NewPointLight(core.NewVec3(0, 0, 0), constSpectrum(t, 1))
	require.NoError(t, err)
	b, err := NewPointLight(core.NewVec3(1, 0, 0), constSpectrum(t, 1))
	require.NoError(t, err)

	sampler := NewUniformSampler([]Light{a, b})
	assert.InDelta(t, 0.5, sampler.Probability(0), 1e-9)
	assert.InDelta(t, 0.5, sampler.Probability(1), 1e-9)
	assert.Equal(t, 2, sampler.Count())
}

func TestWeightedSamplerEmptyReturnsNoLight(t *testing.T) {
	sampler := NewUniformSampler(nil)
	light, prob, idx := sampler.Sample(0.5)
	assert.Nil(t, light)
	assert.Equal(t, 0.0, prob)
	assert.Equal(t, -1, idx)
}
