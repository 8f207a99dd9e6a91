package color

import (
	"sort"

	"github.com/brw/spectral-tracer/pkg/status"
)

// Spectrum samples a wavelength-dependent radiant intensity. A nil
// Spectrum is the implicit "null"/black value throughout this package;
// every compositor and integrator treats it as identically zero
// without dereferencing it.
//
// Concrete implementations must be pointer types: the compositor
// algebra below relies on interface equality (pointer comparison) to
// detect shared subexpressions, which is only panic-free when the
// dynamic type behind the interface is a pointer.
type Spectrum interface {
	Sample(wavelengthNm float64) (float64, error)
}

// SampleSpectrum evaluates s at wavelengthNm, treating nil as black.
func SampleSpectrum(s Spectrum, wavelengthNm float64) (float64, error) {
	if s == nil {
		return 0, nil
	}
	return s.Sample(wavelengthNm)
}

// ConstantSpectrum is a wavelength-independent intensity, grounded on
// iris_physx_toolkit/constant_spectrum.c.
type ConstantSpectrum struct {
	Intensity float64
}

// NewConstantSpectrum validates and constructs a ConstantSpectrum.
func NewConstantSpectrum(intensity float64) (*ConstantSpectrum, error) {
	if !isFiniteNonNegative(intensity) {
		return nil, status.Invalid("intensity", "must be finite and non-negative")
	}
	return &ConstantSpectrum{Intensity: intensity}, nil
}

// Sample implements Spectrum.
func (s *ConstantSpectrum) Sample(float64) (float64, error) {
	return s.Intensity, nil
}

// InterpolatedSpectrum is a piecewise-linear intensity curve sampled
// from a sparse (wavelength, intensity) table, grounded on
// iris_physx_toolkit/interpolated_spectrum.c. Wavelengths must be
// strictly increasing; Sample clamps to the boundary value outside the
// table's domain rather than extrapolating.
type InterpolatedSpectrum struct {
	wavelengths []float64
	intensities []float64
}

// NewInterpolatedSpectrum builds an InterpolatedSpectrum from parallel
// wavelength/intensity slices, copying them so later caller mutation
// cannot invalidate the spectrum.
func NewInterpolatedSpectrum(wavelengthsNm, intensities []float64) (*InterpolatedSpectrum, error) {
	if len(wavelengthsNm) == 0 || len(wavelengthsNm) != len(intensities) {
		return nil, status.InvalidCombination("wavelengthsNm,intensities", "must be equal-length, non-empty")
	}
	for i, w := range wavelengthsNm {
		if i > 0 && w <= wavelengthsNm[i-1] {
			return nil, status.Invalid("wavelengthsNm", "must be strictly increasing")
		}
		if !isFiniteNonNegative(intensities[i]) {
			return nil, status.Invalid("intensities", "must be finite and non-negative")
		}
	}
	w := make([]float64, len(wavelengthsNm))
	v := make([]float64, len(intensities))
	copy(w, wavelengthsNm)
	copy(v, intensities)
	return &InterpolatedSpectrum{wavelengths: w, intensities: v}, nil
}

// Sample implements Spectrum via linear interpolation, clamped at the
// table boundaries.
func (s *InterpolatedSpectrum) Sample(wavelengthNm float64) (float64, error) {
	return lerpTable(s.wavelengths, s.intensities, wavelengthNm), nil
}

// lerpTable linearly interpolates y at x within a strictly-increasing
// xs table, clamping outside the domain. Shared by InterpolatedSpectrum
// and InterpolatedReflector.
func lerpTable(xs, ys []float64, x float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	last := len(xs) - 1
	if x >= xs[last] {
		return ys[last]
	}

	i := sort.SearchFloat64s(xs, x)
	if xs[i] == x {
		return ys[i]
	}
	x0, x1 := xs[i-1], xs[i]
	t := (x - x0) / (x1 - x0)
	return ys[i-1] + t*(ys[i]-ys[i-1])
}
