package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalSpectrum(t *testing.T, s Spectrum, lambda float64) float64 {
	t.Helper()
	v, err := SampleSpectrum(s, lambda)
	require.NoError(t, err)
	return v
}

func TestSpectrumCompositorAddSharedBaseFolds(t *testing.T) {
	c := NewSpectrumCompositor(0)
	base, err := NewConstantSpectrum(2.0)
	require.NoError(t, err)

	a, err := c.Attenuate(base, 1.5)
	require.NoError(t, err)
	b, err := c.Attenuate(base, 2.5)
	require.NoError(t, err)

	sum, err := c.Add(a, b)
	require.NoError(t, err)

	expected, err := c.Attenuate(base, 4.0)
	require.NoError(t, err)

	assert.InDelta(t, evalSpectrum(t, expected, 500), evalSpectrum(t, sum, 500), 1e-9)
}

func TestSpectrumCompositorReflectMultipliesWavelengthwise(t *testing.T) {
	c := NewSpectrumCompositor(0)
	illuminant, err := NewConstantSpectrum(4.0)
	require.NoError(t, err)
	reflector, err := NewConstantReflector(0.25)
	require.NoError(t, err)

	reflected, err := c.Reflect(illuminant, reflector)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, evalSpectrum(t, reflected, 500), 1e-12)
}

func TestSpectrumCompositorReflectNullOperandsAreNull(t *testing.T) {
	c := NewSpectrumCompositor(0)
	illuminant, err := NewConstantSpectrum(4.0)
	require.NoError(t, err)

	r1, err := c.Reflect(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, r1)

	r2, err := c.Reflect(illuminant, nil)
	require.NoError(t, err)
	assert.Nil(t, r2)
}

func TestSpectrumCompositorAttenuatedReflectMatchesManualComposition(t *testing.T) {
	c := NewSpectrumCompositor(0)
	illuminant, err := NewConstantSpectrum(3.0)
	require.NoError(t, err)
	reflector, err := NewConstantReflector(0.5)
	require.NoError(t, err)

	fused, err := c.AttenuatedReflect(illuminant, reflector, 2.0)
	require.NoError(t, err)

	reflected, err := c.Reflect(illuminant, reflector)
	require.NoError(t, err)
	manual, err := c.Attenuate(reflected, 2.0)
	require.NoError(t, err)

	assert.InDelta(t, evalSpectrum(t, manual, 500), evalSpectrum(t, fused, 500), 1e-12)
}

func TestSpectrumCompositorResetReclaimsArena(t *testing.T) {
	c := NewSpectrumCompositor(1)
	base, err := NewConstantSpectrum(1.0)
	require.NoError(t, err)
	reflector, err := NewConstantReflector(1.0)
	require.NoError(t, err)

	_, err = c.Reflect(base, reflector)
	require.NoError(t, err)
	_, err = c.Reflect(base, reflector)
	require.Error(t, err)

	c.Reset()

	_, err = c.Reflect(base, reflector)
	require.NoError(t, err)
}
