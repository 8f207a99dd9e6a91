package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColor3RoundTripThroughXYZ(t *testing.T) {
	original := NewColor3(0.2, 0.4, 0.6, LinearSRGB)
	roundTripped := original.ToXYZ().Convert(LinearSRGB)

	assert.InDelta(t, original.X, roundTripped.X, 1e-6)
	assert.InDelta(t, original.Y, roundTripped.Y, 1e-6)
	assert.InDelta(t, original.Z, roundTripped.Z, 1e-6)
}

func TestColor3ConvertIsIdentityWhenSpaceMatches(t *testing.T) {
	c := NewColor3(0.1, 0.2, 0.3, XYZ)
	assert.Equal(t, c, c.Convert(XYZ))
}

func TestAddElevatesToCommonSpace(t *testing.T) {
	a := NewColor3(1, 1, 1, XYZ)
	b := NewColor3(0.5, 0.5, 0.5, LinearSRGB)

	sum := Add(a, b, XYZ)
	assert.Equal(t, XYZ, sum.Space)
	assert.True(t, sum.Valid())
}

func TestAddScaledRejectsNegativeScalar(t *testing.T) {
	a := NewColor3(1, 1, 1, XYZ)
	b := NewColor3(1, 1, 1, XYZ)

	_, err := AddScaled(a, b, -1)
	require.Error(t, err)
}

func TestAddScaledAccumulatesInCallerSpace(t *testing.T) {
	a := NewColor3(1, 2, 3, LinearSRGB)
	b := NewColor3(1, 1, 1, LinearSRGB)

	sum, err := AddScaled(a, b, 2)
	require.NoError(t, err)
	assert.Equal(t, LinearSRGB, sum.Space)
	assert.InDelta(t, 3, sum.X, 1e-12)
	assert.InDelta(t, 4, sum.Y, 1e-12)
	assert.InDelta(t, 5, sum.Z, 1e-12)
}
