package color

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantReflectorRejectsOutOfRange(t *testing.T) {
	_, err := NewConstantReflector(1.5)
	require.Error(t, err)

	_, err = NewConstantReflector(-0.1)
	require.Error(t, err)
}

func TestConstantReflectorNeverExceedsIncoming(t *testing.T) {
	r, err := NewConstantReflector(0.8)
	require.NoError(t, err)

	out, err := r.Reflect(500, 10)
	require.NoError(t, err)
	assert.LessOrEqual(t, out, 10.0)
	assert.InDelta(t, 8.0, out, 1e-12)
}

func TestInterpolatedReflectorStaysWithinBounds(t *testing.T) {
	r, err := NewInterpolatedReflector(
		[]float64{400, 500, 600, 700},
		[]float64{0.1, 0.9, 0.3, 0.7},
	)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		lambda := 350 + rnd.Float64()*500
		incoming := rnd.Float64() * 5
		out, err := r.Reflect(lambda, incoming)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, out, 0.0)
		assert.LessOrEqual(t, out, incoming+1e-12)
	}
}

func TestInterpolatedReflectorRejectsOutOfRangeValues(t *testing.T) {
	_, err := NewInterpolatedReflector([]float64{400, 500}, []float64{0.5, 1.2})
	require.Error(t, err)
}

func TestInterpolatedReflectorRejectsNonIncreasingWavelengths(t *testing.T) {
	_, err := NewInterpolatedReflector([]float64{500, 400}, []float64{0.1, 0.2})
	require.Error(t, err)
}

func TestNilReflectorIsBlack(t *testing.T) {
	out, err := ReflectValue(nil, 500, 10)
	require.NoError(t, err)
	assert.Zero(t, out)
	assert.Zero(t, AlbedoOf(nil))
}
