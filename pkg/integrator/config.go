// Package integrator implements the unidirectional spectral path
// tracer: next-event estimation against the scene's light sampler,
// BSDF sampling for the continuation ray, multiple importance sampling
// between the two, and albedo-weighted Russian roulette termination.
//
// Grounded on the teacher's pkg/integrator/path_tracing.go for the
// recursive control flow (direct/indirect split, power-heuristic MIS,
// luminance-based roulette) and iris_physx_toolkit/path_tracer.h for
// the configuration parameter names (bidirectional estimation in the
// teacher's bdpt.go is a named Non-goal, dropped entirely).
package integrator

import (
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/status"
)

// Config holds the path tracer's tunable bounce/termination policy.
// Field names mirror PathTracerAllocate's parameters.
type Config struct {
	// MinBounces is the bounce count below which Russian roulette is
	// never applied, regardless of throughput.
	MinBounces int

	// MaxBounces is a hard cap on continuation rays; reaching it
	// terminates the path with whatever L has accumulated so far.
	MaxBounces int

	// MinTerminationProbability floors the roulette survival
	// probability so a path is never starved to near-zero throughput
	// without also being terminated outright.
	MinTerminationProbability float64

	// RouletteThreshold is the albedo-weighted throughput magnitude
	// below which roulette begins sampling a termination decision.
	RouletteThreshold float64

	// Epsilon is the minimum hit distance for every ray traced by the
	// integrator (camera, continuation, and shadow rays), set as each
	// scene.HitTester's TMin so a ray never re-intersects the surface
	// it just left.
	Epsilon float64
}

func (c Config) validate() error {
	if c.MinBounces < 0 {
		return status.Invalid("MinBounces", "must be non-negative")
	}
	if c.MaxBounces < c.MinBounces {
		return status.InvalidCombination("MaxBounces", "must be >= MinBounces")
	}
	if !core.Finite(c.MinTerminationProbability) || c.MinTerminationProbability <= 0 || c.MinTerminationProbability > 1 {
		return status.Invalid("MinTerminationProbability", "must be finite and in (0, 1]")
	}
	if !core.Finite(c.RouletteThreshold) || c.RouletteThreshold < 0 {
		return status.Invalid("RouletteThreshold", "must be finite and non-negative")
	}
	if !core.Finite(c.Epsilon) || c.Epsilon < 0 {
		return status.Invalid("Epsilon", "must be finite and non-negative")
	}
	return nil
}
