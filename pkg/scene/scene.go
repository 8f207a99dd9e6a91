// Package scene implements the traversable root: an ordered collection
// of (shape, optional world transform, premultiplied) triples plus an
// optional environmental light, an accelerator built once over their
// world-space bounds, and the trace/hit-tester contract the integrator
// drives per ray.
//
// Grounded on the teacher's pkg/scene/scene.go (Scene struct shape,
// Preprocess building the accelerator and default light sampler) and
// pkg/core/bvh.go's Hit/HitRecord contract, replaced here with
// pkg/accel's k-d tree and a face-indexed shape.Hit per spec.md §4.6.
// The three premultiplied/transformed/world-only traversal variants
// spec.md §4.5 describes collapse into one here: non-premultiplied
// shapes are wrapped in transformedShape at Build time so the
// accelerator and its traversal loop only ever see already-world-space
// geometry.
package scene

import (
	"github.com/brw/spectral-tracer/pkg/accel"
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/light"
	"github.com/brw/spectral-tracer/pkg/shape"
	"github.com/brw/spectral-tracer/pkg/status"
)

// Entry is one shape in a scene's collection, with its optional
// model-to-world transform and whether that transform is already
// baked into the shape's own coordinates.
type Entry struct {
	Shape shape.Shape

	// ModelToWorld is nil for shapes already in world space. When
	// non-nil and Premultiplied is false, it is applied to the ray
	// before the narrow-phase test and to the resulting normal
	// afterward. When Premultiplied is true, ModelToWorld is not used at
	// all: the shape tests directly in world space and its own Bounds
	// are taken as its world bounds.
	ModelToWorld  *core.Mat4
	Premultiplied bool
}

// Scene is the root traversable: a fixed collection of shapes plus an
// optional environmental light, backed by an accelerator built once
// over the collection's world-space geometry. Invariant: the
// accelerator always mirrors the entries passed to Build — a Scene is
// immutable after construction.
type Scene struct {
	entries          []Entry
	EnvironmentLight light.Light
	LightSampler     light.Sampler

	tree *accel.Tree
}

// Build constructs a Scene from entries, baking each non-premultiplied
// entry's transform into a wrapper shape so the accelerator sees only
// world-space geometry, then building the k-d tree over the result.
// lights and weights configure the light sampler; a nil/empty weights
// slice selects uniform sampling.
func Build(entries []Entry, lights []light.Light, weights []float64, environment light.Light) (*Scene, error) {
	s := &Scene{entries: entries, EnvironmentLight: environment}

	primitives := make([]accel.Primitive, 0, len(entries))
	for i := range entries {
		if entries[i].Shape == nil {
			return nil, errNilShape
		}
		resolved, bounds, err := resolveEntry(entries[i])
		if err != nil {
			return nil, err
		}
		entries[i].Shape = resolved
		primitives = append(primitives, accel.Primitive{Shape: resolved, Bounds: bounds})
	}
	s.entries = entries
	s.tree = accel.Build(primitives)

	if len(weights) > 0 {
		sampler, err := light.NewWeightedSampler(lights, weights)
		if err != nil {
			return nil, err
		}
		s.LightSampler = sampler
	} else {
		s.LightSampler = light.NewUniformSampler(lights)
	}

	return s, nil
}

// resolveEntry wraps a non-premultiplied, transformed entry in
// transformedShape and computes its world-space bounds; a premultiplied
// or untransformed entry passes through unchanged, taking its bounds
// from Bounded directly (zero AABB if the shape is unbounded, e.g. an
// infinite plane).
func resolveEntry(e Entry) (shape.Shape, core.AABB, error) {
	if e.ModelToWorld == nil || e.Premultiplied {
		return e.Shape, boundsOf(e.Shape), nil
	}

	wrapped := newTransformedShape(e.Shape, *e.ModelToWorld)
	return wrapped, boundsOf(wrapped), nil
}

func boundsOf(s shape.Shape) core.AABB {
	if bounded, ok := s.(shape.Bounded); ok {
		return bounded.Bounds()
	}
	return core.AABB{}
}

// HitTester is the scratchpad a trace owns across a single ray: the
// farthest-allowed distance narrows as closer hits are found, and the
// closest hit record accumulates in place. Grounded on spec.md §4.6's
// "hit_tester is a scratchpad that owns the current closest-hit record
// and the farthest-allowed distance."
type HitTester struct {
	TMin, TMax float64
	Found      bool
	Hit        shape.Hit
	Shape      shape.Shape
}

// NewHitTester builds a scratchpad bounding the search to (tMin, tMax].
func NewHitTester(tMin, tMax float64) *HitTester {
	return &HitTester{TMin: tMin, TMax: tMax}
}

// Point returns the world-space hit point, valid only when Found.
func (h *HitTester) Point(ray core.Ray) core.Vec3 {
	return ray.Origin.Add(ray.Direction.Multiply(h.Hit.Distance))
}

// Normal returns the world-space outward normal at the hit, valid only
// when Found and Shape implements shape.Normaled.
func (h *HitTester) Normal(ray core.Ray) core.Vec3 {
	normaled, ok := h.Shape.(shape.Normaled)
	if !ok {
		return core.Vec3{}
	}
	return normaled.NormalAt(h.Hit.FrontFaceID, h.Hit, h.Point(ray))
}

// Trace walks the scene's accelerator for the nearest hit within
// tester's (TMin, TMax], narrowing TMax and overwriting Hit/Shape/Found
// in place as progressively closer hits are found.
func (s *Scene) Trace(ray core.Ray, tester *HitTester) {
	if s.tree == nil {
		return
	}
	hit, prim, found := s.tree.Intersect(ray, tester.TMin, tester.TMax)
	if !found {
		return
	}
	tester.Hit = hit
	tester.Shape = prim.Shape
	tester.Found = true
	tester.TMax = hit.Distance
}

// Entries returns the scene's resolved (post-Build) shape entries.
func (s *Scene) Entries() []Entry { return s.entries }

var errNilShape = status.Invalid("shape", "must not be nil")
