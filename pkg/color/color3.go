// Package color implements the spectral composition engine: tristimulus
// Color3 values, Spectrum/Reflector algebra, and the per-shading-event
// compositor arenas that fuse multiplicative/additive chains of both.
//
// Grounded on iris_advanced/color.c (color space conversion),
// iris_spectrum/{reflector,spectrum}.c (the polymorphic value
// contracts), and irisspectrum/src/reflectorcompositor.c (the fused
// sum/attenuate node algebra).
package color

import (
	"math"

	"github.com/brw/spectral-tracer/pkg/status"
)

// Space is a closed set of supported color spaces.
type Space int

const (
	XYZ Space = iota
	LinearSRGB
)

// Color3 is a tristimulus color tagged with its color space. All
// components are finite and non-negative; when Space is XYZ, Y is
// luminance.
type Color3 struct {
	X, Y, Z float64
	Space   Space
}

// linearSRGBToXYZ and xyzToLinearSRGB are the fixed conversion
// matrices (sRGB primaries, D65 white point), transcribed from
// iris_advanced/color.c's ColorToXyz/ColorConvert constant tables.
var linearSRGBToXYZ = [3][3]float64{
	{0.4124564, 0.3575761, 0.1804375},
	{0.2126729, 0.7151522, 0.0721750},
	{0.0193339, 0.1191920, 0.9503041},
}

var xyzToLinearSRGB = [3][3]float64{
	{3.2404542, -1.5371385, -0.4985314},
	{-0.9692660, 1.8760108, 0.0415560},
	{0.0556434, -0.2040259, 1.0572252},
}

func applyMatrix(m [3][3]float64, x, y, z float64) (float64, float64, float64) {
	return m[0][0]*x + m[0][1]*y + m[0][2]*z,
		m[1][0]*x + m[1][1]*y + m[1][2]*z,
		m[2][0]*x + m[2][1]*y + m[2][2]*z
}

// NewColor3 constructs a color in the given space.
func NewColor3(x, y, z float64, space Space) Color3 {
	return Color3{X: x, Y: y, Z: z, Space: space}
}

// ToXYZ converts c to the XYZ space, clamping negative results (which
// can appear after a lossy round-trip through a smaller gamut) to zero.
func (c Color3) ToXYZ() Color3 {
	if c.Space == XYZ {
		return c
	}
	x, y, z := applyMatrix(linearSRGBToXYZ, c.X, c.Y, c.Z)
	return Color3{X: math.Max(0, x), Y: math.Max(0, y), Z: math.Max(0, z), Space: XYZ}
}

// Convert converts c to the target color space; an identity when the
// tags already match, otherwise pivots through XYZ per spec.
func (c Color3) Convert(target Space) Color3 {
	if c.Space == target {
		return c
	}

	xyz := c.ToXYZ()
	if target == XYZ {
		return xyz
	}

	x, y, z := applyMatrix(xyzToLinearSRGB, xyz.X, xyz.Y, xyz.Z)
	return Color3{X: math.Max(0, x), Y: math.Max(0, y), Z: math.Max(0, z), Space: target}
}

// Add elevates both operands to a common space (XYZ, unless one operand
// is already in the requested sum space) before componentwise addition.
func Add(a, b Color3, sumSpace Space) Color3 {
	if a.Space == b.Space {
		sum := Color3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z, Space: a.Space}
		return sum.Convert(sumSpace)
	}

	if a.Space == sumSpace {
		b = b.Convert(sumSpace)
	} else if b.Space == sumSpace {
		a = a.Convert(sumSpace)
	} else {
		a = a.ToXYZ()
		b = b.ToXYZ()
	}

	return Color3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z, Space: a.Space}.Convert(sumSpace)
}

// AddScaled returns a + b*scalar (scalar >= 0), in a's color space.
func AddScaled(a, b Color3, scalar float64) (Color3, error) {
	if !isFiniteNonNegative(scalar) {
		return Color3{}, status.Invalid("scalar", "attenuation must be finite and non-negative")
	}
	b = b.Convert(a.Space)
	return Color3{X: a.X + b.X*scalar, Y: a.Y + b.Y*scalar, Z: a.Z + b.Z*scalar, Space: a.Space}, nil
}

// Scale returns c scaled by a non-negative scalar.
func (c Color3) Scale(scalar float64) Color3 {
	return Color3{X: c.X * scalar, Y: c.Y * scalar, Z: c.Z * scalar, Space: c.Space}
}

// IsBlack reports whether all components are exactly zero.
func (c Color3) IsBlack() bool {
	return c.X == 0 && c.Y == 0 && c.Z == 0
}

// Valid reports whether all components are finite and non-negative.
func (c Color3) Valid() bool {
	return isFiniteNonNegative(c.X) && isFiniteNonNegative(c.Y) && isFiniteNonNegative(c.Z)
}

func isFiniteNonNegative(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}
