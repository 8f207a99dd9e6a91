package color

import "github.com/brw/spectral-tracer/pkg/status"

// Reflector maps an incoming wavelength-dependent intensity to an
// outgoing one, representing how a surface's spectral reflectance
// modulates light at that wavelength. Reflect must never return more
// than incoming (energy conservation); Albedo is a single representative
// reflectance usable for Russian-roulette style decisions without a
// full spectral evaluation.
//
// As with Spectrum, a nil Reflector is the implicit black/no-op value,
// and concrete implementations must be pointer types for the
// compositor's pointer-equality folding to stay panic-free.
type Reflector interface {
	Reflect(wavelengthNm, incoming float64) (float64, error)
	Albedo() float64
}

// ReflectValue evaluates r at wavelengthNm against incoming, treating
// nil as a perfectly absorbing (zero) reflector.
func ReflectValue(r Reflector, wavelengthNm, incoming float64) (float64, error) {
	if r == nil {
		return 0, nil
	}
	return r.Reflect(wavelengthNm, incoming)
}

// AlbedoOf returns r's representative albedo, treating nil as zero.
func AlbedoOf(r Reflector) float64 {
	if r == nil {
		return 0
	}
	return r.Albedo()
}

// ConstantReflector is a wavelength-independent reflectance in [0,1],
// grounded on iris_physx_toolkit/constant_reflector.c.
type ConstantReflector struct {
	Reflectance float64
}

// NewConstantReflector validates and constructs a ConstantReflector.
func NewConstantReflector(reflectance float64) (*ConstantReflector, error) {
	if reflectance < 0 || reflectance > 1 {
		return nil, status.Invalid("reflectance", "must be in [0, 1]")
	}
	return &ConstantReflector{Reflectance: reflectance}, nil
}

// Reflect implements Reflector.
func (r *ConstantReflector) Reflect(_, incoming float64) (float64, error) {
	return r.Reflectance * incoming, nil
}

// Albedo implements Reflector.
func (r *ConstantReflector) Albedo() float64 {
	return r.Reflectance
}

// InterpolatedReflector is a piecewise-linear reflectance curve in
// [0,1] sampled from a sparse table, grounded on
// iris_physx_toolkit/interpolated_reflector.c.
type InterpolatedReflector struct {
	wavelengths  []float64
	reflectances []float64
	albedo       float64
}

// NewInterpolatedReflector builds an InterpolatedReflector from
// parallel wavelength/reflectance slices.
func NewInterpolatedReflector(wavelengthsNm, reflectances []float64) (*InterpolatedReflector, error) {
	if len(wavelengthsNm) == 0 || len(wavelengthsNm) != len(reflectances) {
		return nil, status.InvalidCombination("wavelengthsNm,reflectances", "must be equal-length, non-empty")
	}
	sum := 0.0
	for i, w := range wavelengthsNm {
		if i > 0 && w <= wavelengthsNm[i-1] {
			return nil, status.Invalid("wavelengthsNm", "must be strictly increasing")
		}
		if reflectances[i] < 0 || reflectances[i] > 1 {
			return nil, status.Invalid("reflectances", "must be in [0, 1]")
		}
		sum += reflectances[i]
	}
	w := make([]float64, len(wavelengthsNm))
	v := make([]float64, len(reflectances))
	copy(w, wavelengthsNm)
	copy(v, reflectances)
	return &InterpolatedReflector{
		wavelengths:  w,
		reflectances: v,
		albedo:       sum / float64(len(reflectances)),
	}, nil
}

// Reflect implements Reflector; the result is clamped to [0, incoming]
// so a lookup-table rounding error can never manufacture energy.
func (r *InterpolatedReflector) Reflect(wavelengthNm, incoming float64) (float64, error) {
	reflectance := lerpTable(r.wavelengths, r.reflectances, wavelengthNm)
	out := reflectance * incoming
	if out > incoming {
		out = incoming
	}
	if out < 0 {
		out = 0
	}
	return out, nil
}

// Albedo implements Reflector, returning the table's mean reflectance.
func (r *InterpolatedReflector) Albedo() float64 {
	return r.albedo
}
