package color

import "github.com/brw/spectral-tracer/pkg/status"

// defaultCompositorCapacity bounds how many attenuate/sum nodes a
// single compositor can allocate before returning AllocationFailed.
// One compositor is created per shading event and reset afterward, so
// this is sized for a single bounce's worth of BSDF/light term
// composition rather than a whole path.
const defaultCompositorCapacity = 128

// attenuatedReflector is r.Base scaled by r.Scale; r.Reflect(lambda, in)
// = r.Base.Reflect(lambda, in) * r.Scale.
type attenuatedReflector struct {
	base  Reflector
	scale float64
}

func (a *attenuatedReflector) Reflect(wavelengthNm, incoming float64) (float64, error) {
	out, err := ReflectValue(a.base, wavelengthNm, incoming)
	if err != nil {
		return 0, err
	}
	return out * a.scale, nil
}

func (a *attenuatedReflector) Albedo() float64 {
	return AlbedoOf(a.base) * a.scale
}

// sumReflector is left.Reflect(...) + right.Reflect(...).
type sumReflector struct {
	left, right Reflector
}

func (s *sumReflector) Reflect(wavelengthNm, incoming float64) (float64, error) {
	l, err := ReflectValue(s.left, wavelengthNm, incoming)
	if err != nil {
		return 0, err
	}
	r, err := ReflectValue(s.right, wavelengthNm, incoming)
	if err != nil {
		return 0, err
	}
	return l + r, nil
}

func (s *sumReflector) Albedo() float64 {
	return AlbedoOf(s.left) + AlbedoOf(s.right)
}

// ReflectorCompositor is a per-shading-event bump arena that fuses
// Attenuate/Add/AttenuatedAdd chains of Reflector values, collapsing
// the algebraically redundant cases (null operands, self-sums,
// attenuation folding) instead of allocating a new node for them.
// Grounded on irisspectrum/src/reflectorcompositor.c.
type ReflectorCompositor struct {
	attenuated []attenuatedReflector
	sums       []sumReflector
	nextAtt    int
	nextSum    int
}

// NewReflectorCompositor creates a compositor sized for capacity nodes
// of each kind; 0 selects defaultCompositorCapacity.
func NewReflectorCompositor(capacity int) *ReflectorCompositor {
	if capacity <= 0 {
		capacity = defaultCompositorCapacity
	}
	return &ReflectorCompositor{
		attenuated: make([]attenuatedReflector, capacity),
		sums:       make([]sumReflector, capacity),
	}
}

// Reset reclaims every node this compositor has allocated. Reflectors
// returned before Reset remain memory-safe to hold (Go's GC keeps the
// backing array alive through any surviving reference) but their
// content is undefined once a subsequent allocation overwrites the
// slot; callers must not use compositor-allocated Reflectors across a
// Reset.
func (c *ReflectorCompositor) Reset() {
	c.nextAtt = 0
	c.nextSum = 0
}

func (c *ReflectorCompositor) allocAttenuated() (*attenuatedReflector, error) {
	if c.nextAtt >= len(c.attenuated) {
		return nil, status.Allocation("reflector compositor attenuate arena exhausted")
	}
	n := &c.attenuated[c.nextAtt]
	c.nextAtt++
	return n, nil
}

func (c *ReflectorCompositor) allocSum() (*sumReflector, error) {
	if c.nextSum >= len(c.sums) {
		return nil, status.Allocation("reflector compositor sum arena exhausted")
	}
	n := &c.sums[c.nextSum]
	c.nextSum++
	return n, nil
}

// Attenuate returns a Reflector computing r scaled by scale, folding
// away null/identity/zero scales and combining nested attenuations of
// the same base into a single node.
func (c *ReflectorCompositor) Attenuate(r Reflector, scale float64) (Reflector, error) {
	if !isFiniteNonNegative(scale) {
		return nil, status.Invalid("scale", "must be finite and non-negative")
	}
	if r == nil || scale == 0 {
		return nil, nil
	}
	if scale == 1 {
		return r, nil
	}
	if existing, ok := r.(*attenuatedReflector); ok {
		return c.Attenuate(existing.base, existing.scale*scale)
	}

	n, err := c.allocAttenuated()
	if err != nil {
		return nil, err
	}
	n.base = r
	n.scale = scale
	return n, nil
}

// Add returns a Reflector computing r0 + r1, folding null operands,
// identical operands (into Attenuate(r, 2)), and sums/attenuations
// that share a base.
func (c *ReflectorCompositor) Add(r0, r1 Reflector) (Reflector, error) {
	if r0 == nil {
		return r1, nil
	}
	if r1 == nil {
		return r0, nil
	}
	if r0 == r1 {
		return c.Attenuate(r0, 2)
	}

	a0, a0ok := r0.(*attenuatedReflector)
	a1, a1ok := r1.(*attenuatedReflector)

	switch {
	case a0ok && a1ok && a0.base == a1.base:
		return c.Attenuate(a0.base, a0.scale+a1.scale)
	case a0ok && a1ok && a0.scale == a1.scale:
		inner, err := c.Add(a0.base, a1.base)
		if err != nil {
			return nil, err
		}
		return c.Attenuate(inner, a0.scale)
	case a1ok && a1.base == r0:
		return c.Attenuate(r0, a1.scale+1)
	case a0ok && a0.base == r1:
		return c.Attenuate(r1, a0.scale+1)
	}

	if sum, ok := r0.(*sumReflector); ok {
		if folded, changed, err := foldIntoSum(c, sum, r1); err != nil {
			return nil, err
		} else if changed {
			return folded, nil
		}
	}
	if sum, ok := r1.(*sumReflector); ok {
		if folded, changed, err := foldIntoSum(c, sum, r0); err != nil {
			return nil, err
		} else if changed {
			return folded, nil
		}
	}

	n, err := c.allocSum()
	if err != nil {
		return nil, err
	}
	n.left = r0
	n.right = r1
	return n, nil
}

// AttenuatedAdd returns r0 + r1*scale, the fused form used when
// accumulating a scaled contribution without materializing the
// intermediate attenuation as a separate, user-visible step.
func (c *ReflectorCompositor) AttenuatedAdd(r0, r1 Reflector, scale float64) (Reflector, error) {
	attenuated, err := c.Attenuate(r1, scale)
	if err != nil {
		return nil, err
	}
	return c.Add(r0, attenuated)
}

// foldIntoSum tries to fold extra into one side of an existing sum
// node, recognizing the same shared-base patterns Add checks directly.
// changed is false when no simplification applied, in which case the
// caller falls back to allocating a fresh sum node.
func foldIntoSum(c *ReflectorCompositor, sum *sumReflector, extra Reflector) (Reflector, bool, error) {
	if foldable(sum.left, extra) {
		folded, err := c.Add(sum.left, extra)
		if err != nil {
			return nil, false, err
		}
		result, err := c.Add(folded, sum.right)
		return result, true, err
	}
	if foldable(sum.right, extra) {
		folded, err := c.Add(sum.right, extra)
		if err != nil {
			return nil, false, err
		}
		result, err := c.Add(sum.left, folded)
		return result, true, err
	}
	return nil, false, nil
}

// foldable reports whether a and b are a pattern Add already
// collapses in a single step (same pointer, or attenuations sharing a
// base), used to decide whether folding into a sum is worthwhile
// rather than just allocating a new top-level sum node.
func foldable(a, b Reflector) bool {
	if a == nil || b == nil || a == b {
		return true
	}
	aa, aok := a.(*attenuatedReflector)
	ab, bok := b.(*attenuatedReflector)
	switch {
	case aok && bok && aa.base == ab.base:
		return true
	case bok && ab.base == a:
		return true
	case aok && aa.base == b:
		return true
	default:
		return false
	}
}
