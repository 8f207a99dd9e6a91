package color

import "github.com/brw/spectral-tracer/pkg/status"

// attenuatedSpectrum is base scaled by scale.
type attenuatedSpectrum struct {
	base  Spectrum
	scale float64
}

func (a *attenuatedSpectrum) Sample(wavelengthNm float64) (float64, error) {
	v, err := SampleSpectrum(a.base, wavelengthNm)
	if err != nil {
		return 0, err
	}
	return v * a.scale, nil
}

// sumSpectrum is left + right.
type sumSpectrum struct {
	left, right Spectrum
}

func (s *sumSpectrum) Sample(wavelengthNm float64) (float64, error) {
	l, err := SampleSpectrum(s.left, wavelengthNm)
	if err != nil {
		return 0, err
	}
	r, err := SampleSpectrum(s.right, wavelengthNm)
	if err != nil {
		return 0, err
	}
	return l + r, nil
}

// reflectedSpectrum is base attenuated at each wavelength by
// reflector's reflectance there: reflect(s, r)(lambda) = r(lambda,
// s(lambda)).
type reflectedSpectrum struct {
	base      Spectrum
	reflector Reflector
}

func (s *reflectedSpectrum) Sample(wavelengthNm float64) (float64, error) {
	in, err := SampleSpectrum(s.base, wavelengthNm)
	if err != nil {
		return 0, err
	}
	return ReflectValue(s.reflector, wavelengthNm, in)
}

// SpectrumCompositor is the Spectrum-valued counterpart of
// ReflectorCompositor: a per-shading-event bump arena fusing
// Add/Attenuate/Reflect chains. Attenuate folds exactly as
// ReflectorCompositor.Attenuate does; Add folds the same direct
// operand patterns but does not fold an operand into an existing sum
// node (see Add). Grounded on irisspectrum/src/reflectorcompositor.c, generalized from
// reflectors to spectra per spec.md's symmetric compositor contract.
type SpectrumCompositor struct {
	attenuated []attenuatedSpectrum
	sums       []sumSpectrum
	reflected  []reflectedSpectrum
	nextAtt    int
	nextSum    int
	nextRefl   int
}

// NewSpectrumCompositor creates a compositor sized for capacity nodes
// of each kind; 0 selects defaultCompositorCapacity.
func NewSpectrumCompositor(capacity int) *SpectrumCompositor {
	if capacity <= 0 {
		capacity = defaultCompositorCapacity
	}
	return &SpectrumCompositor{
		attenuated: make([]attenuatedSpectrum, capacity),
		sums:       make([]sumSpectrum, capacity),
		reflected:  make([]reflectedSpectrum, capacity),
	}
}

// Reset reclaims every node this compositor has allocated. See
// ReflectorCompositor.Reset for the cross-reset usage contract.
func (c *SpectrumCompositor) Reset() {
	c.nextAtt = 0
	c.nextSum = 0
	c.nextRefl = 0
}

func (c *SpectrumCompositor) allocAttenuated() (*attenuatedSpectrum, error) {
	if c.nextAtt >= len(c.attenuated) {
		return nil, status.Allocation("spectrum compositor attenuate arena exhausted")
	}
	n := &c.attenuated[c.nextAtt]
	c.nextAtt++
	return n, nil
}

func (c *SpectrumCompositor) allocSum() (*sumSpectrum, error) {
	if c.nextSum >= len(c.sums) {
		return nil, status.Allocation("spectrum compositor sum arena exhausted")
	}
	n := &c.sums[c.nextSum]
	c.nextSum++
	return n, nil
}

func (c *SpectrumCompositor) allocReflected() (*reflectedSpectrum, error) {
	if c.nextRefl >= len(c.reflected) {
		return nil, status.Allocation("spectrum compositor reflect arena exhausted")
	}
	n := &c.reflected[c.nextRefl]
	c.nextRefl++
	return n, nil
}

// Attenuate returns a Spectrum computing s scaled by scale, with the
// same null/identity/nested-attenuation folding as
// ReflectorCompositor.Attenuate.
func (c *SpectrumCompositor) Attenuate(s Spectrum, scale float64) (Spectrum, error) {
	if !isFiniteNonNegative(scale) {
		return nil, status.Invalid("scale", "must be finite and non-negative")
	}
	if s == nil || scale == 0 {
		return nil, nil
	}
	if scale == 1 {
		return s, nil
	}
	if existing, ok := s.(*attenuatedSpectrum); ok {
		return c.Attenuate(existing.base, existing.scale*scale)
	}

	n, err := c.allocAttenuated()
	if err != nil {
		return nil, err
	}
	n.base = s
	n.scale = scale
	return n, nil
}

// Add returns a Spectrum computing s0 + s1, folding null operands,
// identical operands (into Attenuate(s, 2)) and attenuations that share
// a base or a scale, as ReflectorCompositor.Add does. Unlike
// ReflectorCompositor.Add, it does not look inside an existing sum
// node: when neither direct pattern applies, a new sum node is
// allocated even if one side is a sum containing the other operand.
func (c *SpectrumCompositor) Add(s0, s1 Spectrum) (Spectrum, error) {
	if s0 == nil {
		return s1, nil
	}
	if s1 == nil {
		return s0, nil
	}
	if s0 == s1 {
		return c.Attenuate(s0, 2)
	}

	a0, a0ok := s0.(*attenuatedSpectrum)
	a1, a1ok := s1.(*attenuatedSpectrum)

	switch {
	case a0ok && a1ok && a0.base == a1.base:
		return c.Attenuate(a0.base, a0.scale+a1.scale)
	case a0ok && a1ok && a0.scale == a1.scale:
		inner, err := c.Add(a0.base, a1.base)
		if err != nil {
			return nil, err
		}
		return c.Attenuate(inner, a0.scale)
	case a1ok && a1.base == s0:
		return c.Attenuate(s0, a1.scale+1)
	case a0ok && a0.base == s1:
		return c.Attenuate(s1, a0.scale+1)
	}

	n, err := c.allocSum()
	if err != nil {
		return nil, err
	}
	n.left = s0
	n.right = s1
	return n, nil
}

// AttenuatedAdd returns s0 + s1*scale.
func (c *SpectrumCompositor) AttenuatedAdd(s0, s1 Spectrum, scale float64) (Spectrum, error) {
	attenuated, err := c.Attenuate(s1, scale)
	if err != nil {
		return nil, err
	}
	return c.Add(s0, attenuated)
}

// Reflect returns a Spectrum computing the wavelength-wise product of
// s and r's reflectance, i.e. the spectrum of light leaving a surface
// lit by s and reflecting via r.
func (c *SpectrumCompositor) Reflect(s Spectrum, r Reflector) (Spectrum, error) {
	if s == nil || r == nil {
		return nil, nil
	}
	n, err := c.allocReflected()
	if err != nil {
		return nil, err
	}
	n.base = s
	n.reflector = r
	return n, nil
}

// AttenuatedReflect returns Reflect(s, r) scaled by scale, the fused
// form used when accumulating a reflected, attenuated contribution
// (e.g. an emissive term modulated by accumulated path throughput).
func (c *SpectrumCompositor) AttenuatedReflect(s Spectrum, r Reflector, scale float64) (Spectrum, error) {
	reflected, err := c.Reflect(s, r)
	if err != nil {
		return nil, err
	}
	return c.Attenuate(reflected, scale)
}
