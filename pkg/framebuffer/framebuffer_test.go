package framebuffer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brw/spectral-tracer/pkg/color"
)

func TestAllocateRejectsZeroColumns(t *testing.T) {
	_, err := Allocate(0, 4, nil)
	assert.Error(t, err)
}

func TestAllocateRejectsZeroRows(t *testing.T) {
	_, err := Allocate(4, 0, nil)
	assert.Error(t, err)
}

func TestAllocateFillsBlackByDefault(t *testing.T) {
	fb, err := Allocate(3, 2, nil)
	require.NoError(t, err)

	cols, rows := fb.Size()
	assert.Equal(t, 3, cols)
	assert.Equal(t, 2, rows)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			px, err := fb.GetPixel(c, r)
			require.NoError(t, err)
			assert.Equal(t, color.Color3{}, px)
		}
	}
}

func TestAllocateFillsClearColor(t *testing.T) {
	clear := color.NewColor3(1, 2, 3, color.XYZ)
	fb, err := Allocate(2, 2, &clear)
	require.NoError(t, err)

	px, err := fb.GetPixel(1, 1)
	require.NoError(t, err)
	assert.Equal(t, clear, px)
}

func TestAllocateRejectsInvalidClearColor(t *testing.T) {
	clear := color.NewColor3(math.NaN(), 0, 0, color.XYZ)
	_, err := Allocate(2, 2, &clear)
	assert.Error(t, err)
}

func TestSetPixelThenGetPixelRoundTrips(t *testing.T) {
	fb, err := Allocate(4, 4, nil)
	require.NoError(t, err)

	c := color.NewColor3(0.1, 0.2, 0.3, color.LinearSRGB)
	fb.SetPixel(2, 3, c)

	got, err := fb.GetPixel(2, 3)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestGetPixelRejectsOutOfRangeCoordinates(t *testing.T) {
	fb, err := Allocate(2, 2, nil)
	require.NoError(t, err)

	_, err = fb.GetPixel(2, 0)
	assert.Error(t, err)

	_, err = fb.GetPixel(0, 2)
	assert.Error(t, err)

	_, err = fb.GetPixel(-1, 0)
	assert.Error(t, err)
}

func TestRowStrideIsAlignedAndIndependent(t *testing.T) {
	fb, err := Allocate(1, 2, nil)
	require.NoError(t, err)

	c0 := color.NewColor3(1, 0, 0, color.XYZ)
	c1 := color.NewColor3(0, 1, 0, color.XYZ)
	fb.SetPixel(0, 0, c0)
	fb.SetPixel(0, 1, c1)

	got0, err := fb.GetPixel(0, 0)
	require.NoError(t, err)
	got1, err := fb.GetPixel(0, 1)
	require.NoError(t, err)

	assert.Equal(t, c0, got0)
	assert.Equal(t, c1, got1)
}
