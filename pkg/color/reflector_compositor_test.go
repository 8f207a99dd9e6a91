package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalReflector(t *testing.T, r Reflector, lambda, incoming float64) float64 {
	t.Helper()
	out, err := ReflectValue(r, lambda, incoming)
	require.NoError(t, err)
	return out
}

func TestReflectorCompositorAttenuateIdentities(t *testing.T) {
	c := NewReflectorCompositor(0)
	base, err := NewConstantReflector(0.5)
	require.NoError(t, err)

	zero, err := c.Attenuate(base, 0)
	require.NoError(t, err)
	assert.Nil(t, zero)

	identity, err := c.Attenuate(base, 1)
	require.NoError(t, err)
	assert.Same(t, Reflector(base), identity)

	nullAttenuated, err := c.Attenuate(nil, 5)
	require.NoError(t, err)
	assert.Nil(t, nullAttenuated)
}

func TestReflectorCompositorFoldsNestedAttenuation(t *testing.T) {
	c := NewReflectorCompositor(0)
	base, err := NewConstantReflector(0.4)
	require.NoError(t, err)

	once, err := c.Attenuate(base, 2)
	require.NoError(t, err)
	twice, err := c.Attenuate(once, 3)
	require.NoError(t, err)

	direct, err := c.Attenuate(base, 6)
	require.NoError(t, err)

	assert.InDelta(t, evalReflector(t, direct, 500, 1), evalReflector(t, twice, 500, 1), 1e-12)
}

func TestReflectorCompositorAddIdentities(t *testing.T) {
	c := NewReflectorCompositor(0)
	base, err := NewConstantReflector(0.3)
	require.NoError(t, err)

	sum, err := c.Add(base, nil)
	require.NoError(t, err)
	assert.Same(t, Reflector(base), sum)

	sum2, err := c.Add(nil, base)
	require.NoError(t, err)
	assert.Same(t, Reflector(base), sum2)
}

func TestReflectorCompositorAddSelfEqualsAttenuateTwo(t *testing.T) {
	c := NewReflectorCompositor(0)
	base, err := NewConstantReflector(0.2)
	require.NoError(t, err)

	selfSum, err := c.Add(base, base)
	require.NoError(t, err)
	doubled, err := c.Attenuate(base, 2)
	require.NoError(t, err)

	assert.InDelta(t,
		evalReflector(t, doubled, 500, 1),
		evalReflector(t, selfSum, 500, 1),
		1e-12)
}

func TestReflectorCompositorAddSharedBaseFolds(t *testing.T) {
	c := NewReflectorCompositor(0)
	base, err := NewConstantReflector(0.25)
	require.NoError(t, err)

	a, err := c.Attenuate(base, 2)
	require.NoError(t, err)
	b, err := c.Attenuate(base, 3)
	require.NoError(t, err)

	sum, err := c.Add(a, b)
	require.NoError(t, err)

	expected, err := c.Attenuate(base, 5)
	require.NoError(t, err)

	assert.InDelta(t,
		evalReflector(t, expected, 500, 1),
		evalReflector(t, sum, 500, 1),
		1e-12)
}

func TestReflectorCompositorAttenuatedAddMatchesManualComposition(t *testing.T) {
	c := NewReflectorCompositor(0)
	r0, err := NewConstantReflector(0.1)
	require.NoError(t, err)
	r1, err := NewConstantReflector(0.6)
	require.NoError(t, err)

	fused, err := c.AttenuatedAdd(r0, r1, 0.5)
	require.NoError(t, err)

	attenuated, err := c.Attenuate(r1, 0.5)
	require.NoError(t, err)
	manual, err := c.Add(r0, attenuated)
	require.NoError(t, err)

	assert.InDelta(t,
		evalReflector(t, manual, 500, 1),
		evalReflector(t, fused, 500, 1),
		1e-12)
}

func TestReflectorCompositorResetReclaimsArena(t *testing.T) {
	c := NewReflectorCompositor(2)
	base, err := NewConstantReflector(0.5)
	require.NoError(t, err)

	_, err = c.Attenuate(base, 2)
	require.NoError(t, err)
	_, err = c.Attenuate(base, 3)
	require.NoError(t, err)

	_, err = c.Attenuate(base, 4)
	require.Error(t, err, "arena should be exhausted before reset")

	c.Reset()

	result, err := c.Attenuate(base, 4)
	require.NoError(t, err, "capacity must be reusable after Reset")
	assert.NotNil(t, result)
}

func TestReflectorCompositorAllocationFailureDoesNotPanic(t *testing.T) {
	c := NewReflectorCompositor(1)
	base, err := NewConstantReflector(0.5)
	require.NoError(t, err)

	_, err = c.Attenuate(base, 2)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		_, err := c.Attenuate(base, 3)
		assert.Error(t, err)
	})
}
