package integrator

import (
	"math"

	"github.com/brw/spectral-tracer/pkg/color"
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/light"
	"github.com/brw/spectral-tracer/pkg/material"
	"github.com/brw/spectral-tracer/pkg/rng"
	"github.com/brw/spectral-tracer/pkg/scene"
	"github.com/brw/spectral-tracer/pkg/shape"
	"github.com/brw/spectral-tracer/pkg/status"
)

// PathTracer is a unidirectional spectral path tracer. A single
// instance is not safe for concurrent use: its compositor arenas are
// exclusively owned and reset on every RayColor call. Render workers
// each hold a Duplicate, which allocates its own arenas rather than
// sharing the original's.
//
// The accumulated radiance L is built as a single Spectrum expression
// tree via the compositor's Add/Attenuate/Reflect ops (one per
// bounce's contribution, nested as the recursion unwinds), rather than
// tracked as a standalone multi-bounce reflector: the compositor
// algebra this is grounded on (irisspectrum/src/reflectorcompositor.c)
// only composes a Reflector with a scalar or another Reflector of the
// *same* kind via Add, never a Reflector-by-Reflector product, so
// there is no primitive for compounding per-bounce BSDF reflectors
// into one running "beta" object. Recursion supplies the missing
// multiplication for free: each level reflects its own deeper Spectrum
// result through exactly one Reflector (this bounce's BSDF sample),
// and nesting those one-reflector compositions bounce over bounce
// reproduces the cumulative product the spec's pseudocode describes as
// "beta" — while the running *scalar* magnitude used for the Russian
// roulette decision (the spec's "albedo-weighted throughput
// magnitude") is tracked explicitly as a plain float64 passed down the
// recursion, mirroring the teacher's Vec3 throughput parameter but
// carrying only the luminance proxy roulette needs rather than a full
// color.
type PathTracer struct {
	config          Config
	colorIntegrator color.ColorIntegrator
	reflectors      *color.ReflectorCompositor
	spectra         *color.SpectrumCompositor
}

// NewPathTracer constructs a PathTracer from its bounce policy and the
// color integrator used to resolve the final accumulated spectrum to
// a tristimulus Color3.
func NewPathTracer(config Config, colorIntegrator color.ColorIntegrator) (*PathTracer, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if colorIntegrator == nil {
		return nil, status.Invalid("colorIntegrator", "must not be nil")
	}
	return &PathTracer{
		config:          config,
		colorIntegrator: colorIntegrator,
		reflectors:      color.NewReflectorCompositor(0),
		spectra:         color.NewSpectrumCompositor(0),
	}, nil
}

// Duplicate returns an independent PathTracer sharing config and color
// integrator but with its own, freshly allocated compositor arenas —
// the render driver calls this once per worker thread.
func (pt *PathTracer) Duplicate() *PathTracer {
	return &PathTracer{
		config:          pt.config,
		colorIntegrator: pt.colorIntegrator,
		reflectors:      color.NewReflectorCompositor(0),
		spectra:         color.NewSpectrumCompositor(0),
	}
}

// RayColor traces ray through sc and returns the resulting Color3,
// resetting this PathTracer's compositor arenas first. r supplies all
// randomness (BSDF sampling, light selection, Russian roulette).
func (pt *PathTracer) RayColor(ray core.Ray, sc *scene.Scene, r rng.RNG) (color.Color3, error) {
	pt.reflectors.Reset()
	pt.spectra.Reset()

	spectrum, err := pt.trace(ray, sc, r, 0, 1.0)
	if err != nil {
		return color.Color3{}, err
	}
	if spectrum == nil {
		return color.Color3{}, nil
	}
	return pt.colorIntegrator.IntegrateSpectrum(spectrum)
}

// trace implements one node of the path: bounce is the number of
// surfaces already struck (0 for the camera ray), and throughput is
// the running albedo-weighted magnitude used only to decide Russian
// roulette survival — it never touches the returned Spectrum's actual
// color, which is built purely from this bounce's own BSDF reflector
// wrapping the deeper recursive result.
func (pt *PathTracer) trace(ray core.Ray, sc *scene.Scene, r rng.RNG, bounce int, throughput float64) (color.Spectrum, error) {
	if bounce >= pt.config.MaxBounces {
		return nil, nil
	}

	terminate, compensation, err := pt.russianRoulette(bounce, throughput, r)
	if err != nil {
		return nil, err
	}
	if terminate {
		return nil, nil
	}

	tester := scene.NewHitTester(pt.config.Epsilon, math.Inf(1))
	sc.Trace(ray, tester)
	if !tester.Found {
		return pt.compensate(pt.environmentEmission(ray, sc), compensation)
	}

	point := tester.Point(ray)
	normal := tester.Normal(ray)
	frontFace := ray.Direction.Dot(normal) < 0
	shadingNormal := normal
	if !frontFace {
		shadingNormal = normal.Negate()
	}

	emitted, err := pt.emission(ray, tester, bounce)
	if err != nil {
		return nil, err
	}

	mat := materialOf(tester)
	if mat == nil {
		return pt.compensate(emitted, compensation)
	}

	hit := material.HitRecord{Point: point, Normal: shadingNormal, FrontFace: frontFace}
	scatterResult, scattered, err := mat.Scatter(ray, hit, r, pt.reflectors)
	if err != nil {
		return nil, err
	}
	if !scattered || scatterResult.PDF < 0 {
		return pt.compensate(emitted, compensation)
	}

	var scatteredContribution color.Spectrum
	if scatterResult.Specular {
		scatteredContribution, err = pt.specularContribution(scatterResult, sc, r, bounce, throughput)
	} else {
		scatteredContribution, err = pt.diffuseContribution(ray, hit, mat, scatterResult, sc, r, bounce, throughput)
	}
	if err != nil {
		return nil, err
	}

	total, err := pt.spectra.Add(emitted, scatteredContribution)
	if err != nil {
		return nil, err
	}
	return pt.compensate(total, compensation)
}

// compensate scales a bounce's contribution by its Russian roulette
// compensation factor (1 when roulette didn't fire at this bounce).
func (pt *PathTracer) compensate(s color.Spectrum, compensation float64) (color.Spectrum, error) {
	if compensation == 1 || s == nil {
		return s, nil
	}
	return pt.spectra.Attenuate(s, compensation)
}

// specularContribution handles a delta (mirror/refractive) bounce: no
// light sampling applies (a delta BSDF can never be hit by a light
// sample), so the entire contribution is the recursive continuation
// reflected through the sampled direction's attenuation.
func (pt *PathTracer) specularContribution(scatterResult material.ScatterResult, sc *scene.Scene, r rng.RNG, bounce int, throughput float64) (color.Spectrum, error) {
	nextThroughput := throughput * color.AlbedoOf(scatterResult.Attenuation)
	incoming, err := pt.trace(scatterResult.Scattered, sc, r, bounce+1, nextThroughput)
	if err != nil {
		return nil, err
	}
	if incoming == nil {
		return nil, nil
	}
	return pt.spectra.Reflect(incoming, scatterResult.Attenuation)
}

// diffuseContribution handles a finite-PDF bounce: direct lighting via
// next-event estimation against the light sampler, plus indirect
// lighting via the recursive continuation, combined with power-
// heuristic MIS between the two sampling strategies.
func (pt *PathTracer) diffuseContribution(rayIn core.Ray, hit material.HitRecord, mat material.Material, scatterResult material.ScatterResult, sc *scene.Scene, r rng.RNG, bounce int, throughput float64) (color.Spectrum, error) {
	direct, err := pt.directLighting(rayIn, hit, mat, sc, r)
	if err != nil {
		return nil, err
	}

	cosTheta := scatterResult.Scattered.Direction.Dot(hit.Normal)
	if cosTheta <= 0 || scatterResult.PDF == 0 {
		return direct, nil
	}

	lightPDF := samplerPDF(sc.LightSampler, sc.EnvironmentLight, hit.Point, hit.Normal, scatterResult.Scattered.Direction)
	misWeight := rng.PowerHeuristic(1, scatterResult.PDF, 1, lightPDF)

	nextThroughput := throughput * color.AlbedoOf(scatterResult.Attenuation) * cosTheta / scatterResult.PDF
	incoming, err := pt.trace(scatterResult.Scattered, sc, r, bounce+1, nextThroughput)
	if err != nil {
		return nil, err
	}
	if incoming == nil {
		return direct, nil
	}

	reflected, err := pt.spectra.Reflect(incoming, scatterResult.Attenuation)
	if err != nil {
		return nil, err
	}
	indirect, err := pt.spectra.Attenuate(reflected, cosTheta*misWeight/scatterResult.PDF)
	if err != nil {
		return nil, err
	}
	return pt.spectra.Add(direct, indirect)
}

// directLighting samples one light from the scene's light sampler,
// tests its visibility with a shadow ray, and returns its MIS-weighted
// contribution (zero, as a nil Spectrum, if the light is occluded,
// behind the surface, or the surface material is a delta distribution
// that cannot be directly lit).
func (pt *PathTracer) directLighting(rayIn core.Ray, hit material.HitRecord, mat material.Material, sc *scene.Scene, r rng.RNG) (color.Spectrum, error) {
	_, selectionProb, sample, ok, err := sampleLight(sc, hit.Point, hit.Normal, r, pt.spectra)
	if err != nil {
		return nil, err
	}
	if !ok || sample.Emission == nil || sample.PDF <= 0 || selectionProb <= 0 {
		return nil, nil
	}

	cosTheta := sample.Direction.Dot(hit.Normal)
	if cosTheta <= 0 {
		return nil, nil
	}

	materialPDF, isDelta := mat.PDF(rayIn.Direction, sample.Direction, hit.Normal)
	if isDelta {
		return nil, nil
	}

	shadowTester := scene.NewHitTester(pt.config.Epsilon, shadowMax(sample.Distance, pt.config.Epsilon))
	sc.Trace(core.NewRay(hit.Point, sample.Direction), shadowTester)
	if shadowTester.Found {
		return nil, nil
	}

	lightPDF := sample.PDF * selectionProb
	misWeight := float64(1)
	if !sample.IsDelta {
		misWeight = rng.PowerHeuristic(1, lightPDF, 1, materialPDF)
	}

	brdf, err := mat.EvaluateBRDF(rayIn.Direction, sample.Direction, hit.Normal, pt.reflectors)
	if err != nil {
		return nil, err
	}
	if brdf == nil {
		return nil, nil
	}

	reflected, err := pt.spectra.Reflect(sample.Emission, brdf)
	if err != nil {
		return nil, err
	}
	return pt.spectra.Attenuate(reflected, cosTheta*misWeight/lightPDF)
}

// russianRoulette decides whether to terminate the current path after
// min_bounces, once throughput falls below RouletteThreshold. The
// survival probability is the albedo-weighted scalar throughput this
// package tracks, clamped to [MinTerminationProbability, 1]; the
// teacher's ApplyRussianRoulette is the model for the
// clamp-and-compensate pattern.
func (pt *PathTracer) russianRoulette(bounce int, throughput float64, r rng.RNG) (terminate bool, compensation float64, err error) {
	if bounce < pt.config.MinBounces {
		return false, 1, nil
	}
	if throughput >= pt.config.RouletteThreshold {
		return false, 1, nil
	}

	survivalProbability := throughput
	if survivalProbability < pt.config.MinTerminationProbability {
		survivalProbability = pt.config.MinTerminationProbability
	}
	if survivalProbability > 1 {
		survivalProbability = 1
	}

	if r.UniformFloat(0, 1) > survivalProbability {
		return true, 0, nil
	}
	return false, 1 / survivalProbability, nil
}

// environmentEmission returns the scene's environment light's
// radiance toward ray, or nil if the scene has none.
func (pt *PathTracer) environmentEmission(ray core.Ray, sc *scene.Scene) color.Spectrum {
	if sc.EnvironmentLight == nil {
		return nil
	}
	s, err := sc.EnvironmentLight.Emit(ray)
	if err != nil {
		return nil
	}
	return s
}

// emission returns the hit surface's own emitted radiance. Emissive
// contributions only count on the camera ray (bounce 0): subsequent
// bounces got their share of an emissive surface via direct lighting's
// light sampling instead, with correct MIS weighting against the BSDF
// sampling strategy.
func (pt *PathTracer) emission(ray core.Ray, tester *scene.HitTester, bounce int) (color.Spectrum, error) {
	if bounce != 0 {
		return nil, nil
	}
	provider, ok := tester.Shape.(shape.EmissiveMaterialProvider)
	if !ok {
		return nil, nil
	}
	emitter := provider.EmissiveMaterialOf(tester.Hit.FrontFaceID)
	if emitter == nil {
		return nil, nil
	}
	return emitter.Emit(ray)
}

func materialOf(tester *scene.HitTester) material.Material {
	provider, ok := tester.Shape.(shape.MaterialProvider)
	if !ok {
		return nil
	}
	return provider.MaterialOf(tester.Hit.FrontFaceID)
}

func shadowMax(distance, epsilon float64) float64 {
	if distance-epsilon <= 0 {
		return distance
	}
	return distance - epsilon
}

// sampleLight draws one light from sc's sampler (or the scene's sole
// environment light if it has no other lights configured) and returns
// its sample alongside the probability that light was chosen.
func sampleLight(sc *scene.Scene, point, normal core.Vec3, r rng.RNG, compositor *color.SpectrumCompositor) (light.Light, float64, light.Sample, bool, error) {
	sampler := sc.LightSampler
	if sampler == nil || sampler.Count() == 0 {
		if sc.EnvironmentLight == nil {
			return nil, 0, light.Sample{}, false, nil
		}
		sample, err := sc.EnvironmentLight.Sample(point, normal, r, compositor)
		if err != nil {
			return nil, 0, light.Sample{}, false, err
		}
		return sc.EnvironmentLight, 1, sample, true, nil
	}

	chosen, probability, index := sampler.Sample(r.UniformFloat(0, 1))
	if index < 0 || chosen == nil {
		return nil, 0, light.Sample{}, false, nil
	}
	sample, err := chosen.Sample(point, normal, r, compositor)
	if err != nil {
		return nil, 0, light.Sample{}, false, err
	}
	return chosen, probability, sample, true, nil
}

// samplerPDF computes the combined light-sampling PDF for a direction
// already chosen by BSDF sampling, used as the other half of MIS in
// diffuseContribution. It sums each non-delta light's solid-angle PDF
// weighted by its selection probability; delta lights contribute zero
// since a continuous direction can never coincide with one.
func samplerPDF(sampler light.Sampler, environment light.Light, point, normal, direction core.Vec3) float64 {
	if sampler == nil || sampler.Count() == 0 {
		if environment == nil {
			return 0
		}
		return environment.PDF(point, normal, direction)
	}

	total := 0.0
	for i, l := range sampler.Lights() {
		total += sampler.Probability(i) * l.PDF(point, normal, direction)
	}
	return total
}
