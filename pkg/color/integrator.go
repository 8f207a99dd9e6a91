package color

import "math"

// ColorIntegrator converts a wavelength-dependent value into a
// tristimulus Color3 by weighting it against a standard observer's
// color matching functions and integrating over the visible range.
type ColorIntegrator interface {
	// IntegrateSpectrum converts a radiant Spectrum to a Color3 in the XYZ space.
	IntegrateSpectrum(s Spectrum) (Color3, error)

	// IntegrateReflector converts a Reflector, illuminated by a
	// reference illuminant, to a Color3 in the XYZ space.
	IntegrateReflector(r Reflector, illuminant Spectrum) (Color3, error)
}

// visibleRangeStart, visibleRangeEnd and integrationStepNm bound the
// numeric integration domain: the wavelength range the CIE 1931
// standard observer assigns non-negligible sensitivity, matching the
// 360-830nm domain named in spec.md's color integrator contract.
const (
	visibleRangeStart = 360.0
	visibleRangeEnd   = 830.0
	integrationStepNm = 2.0
)

// cieIntegrator implements ColorIntegrator against the CIE 1931 2°
// standard observer, using the multi-lobe Gaussian analytic
// approximation to the tabulated color matching functions (Wyman,
// Sloan & Shirley, "Simple Analytic Approximations to the CIE XYZ
// Color Matching Functions", JCGT 2013) in place of the standard's
// full data table. This is the grounding source in lieu of a pack
// example: no retrieved repo in this corpus carries a CIE table, so
// the closed-form fit keeps the integrator free of a multi-hundred-row
// literal while remaining faithful to the published curve shapes.
type cieIntegrator struct {
	normalization float64 // 1 / integral of ybar, so a unit-intensity white spectrum maps to Y=1
}

// NewCIEColorIntegrator constructs the standard CIE 1931 2° color integrator.
func NewCIEColorIntegrator() ColorIntegrator {
	c := &cieIntegrator{normalization: 1}
	total := 0.0
	for lambda := visibleRangeStart; lambda <= visibleRangeEnd; lambda += integrationStepNm {
		_, y, _ := cieXYZBar(lambda)
		total += y * integrationStepNm
	}
	if total > 0 {
		c.normalization = 1 / total
	}
	return c
}

func gaussianLobe(x, alpha, mu, sigma1, sigma2 float64) float64 {
	sigma := sigma2
	if x < mu {
		sigma = sigma1
	}
	t := (x - mu) / sigma
	return alpha * math.Exp(-0.5*t*t)
}

// cieXYZBar evaluates the analytic multi-lobe Gaussian fit to the CIE
// 1931 2° standard observer's xbar/ybar/zbar at wavelengthNm.
func cieXYZBar(wavelengthNm float64) (x, y, z float64) {
	x = gaussianLobe(wavelengthNm, 1.056, 599.8, 37.9, 31.0) +
		gaussianLobe(wavelengthNm, 0.362, 442.0, 16.0, 26.7) -
		gaussianLobe(wavelengthNm, 0.065, 501.1, 20.4, 26.2)
	y = gaussianLobe(wavelengthNm, 0.821, 568.8, 46.9, 40.5) +
		gaussianLobe(wavelengthNm, 0.286, 530.9, 16.3, 31.1)
	z = gaussianLobe(wavelengthNm, 1.217, 437.0, 11.8, 36.0) +
		gaussianLobe(wavelengthNm, 0.681, 459.0, 26.0, 13.8)
	return
}

// IntegrateSpectrum implements ColorIntegrator.
func (c *cieIntegrator) IntegrateSpectrum(s Spectrum) (Color3, error) {
	var x, y, z float64
	for lambda := visibleRangeStart; lambda <= visibleRangeEnd; lambda += integrationStepNm {
		v, err := SampleSpectrum(s, lambda)
		if err != nil {
			return Color3{}, err
		}
		xb, yb, zb := cieXYZBar(lambda)
		x += v * xb * integrationStepNm
		y += v * yb * integrationStepNm
		z += v * zb * integrationStepNm
	}
	return Color3{X: x * c.normalization, Y: y * c.normalization, Z: z * c.normalization, Space: XYZ}, nil
}

// IntegrateReflector implements ColorIntegrator, weighting r's
// reflectance at each wavelength by illuminant's intensity there
// before integrating, matching iris's reflective color integration
// contract (iris_physx_toolkit/reflector_color_integrator equivalent
// in this corpus's absence, inferred from spectrum_compositor.c's
// reflect() operator and the spectral rendering literature's standard
// "reflectance under a reference illuminant" construction).
func (c *cieIntegrator) IntegrateReflector(r Reflector, illuminant Spectrum) (Color3, error) {
	var x, y, z float64
	for lambda := visibleRangeStart; lambda <= visibleRangeEnd; lambda += integrationStepNm {
		in, err := SampleSpectrum(illuminant, lambda)
		if err != nil {
			return Color3{}, err
		}
		v, err := ReflectValue(r, lambda, in)
		if err != nil {
			return Color3{}, err
		}
		xb, yb, zb := cieXYZBar(lambda)
		x += v * xb * integrationStepNm
		y += v * yb * integrationStepNm
		z += v * zb * integrationStepNm
	}
	return Color3{X: x * c.normalization, Y: y * c.normalization, Z: z * c.normalization, Space: XYZ}, nil
}
