package rng

import (
	"math"

	"github.com/brw/spectral-tracer/pkg/core"
)

// PowerHeuristic implements the power heuristic for multiple importance
// sampling (beta = 2), balancing two sampling strategies such as light
// sampling vs. BSDF sampling.
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	if fPdf == 0 {
		return 0
	}
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	return (f * f) / (f*f + g*g)
}

// BalanceHeuristic implements the balance heuristic for multiple importance sampling.
func BalanceHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	if fPdf == 0 {
		return 0
	}
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	return f / (f + g)
}

// SphereUniformPDF returns the PDF for uniform sampling over a sphere's surface.
func SphereUniformPDF(radius float64) float64 {
	return 1.0 / (4.0 * math.Pi * radius * radius)
}

// SphereConePDF returns the PDF for sampling a sphere from an external
// point via cone sampling toward its visible cap.
func SphereConePDF(distance, radius float64) float64 {
	if distance <= radius {
		return SphereUniformPDF(radius)
	}
	sinThetaMax := radius / distance
	cosThetaMax := math.Sqrt(math.Max(0, 1.0-sinThetaMax*sinThetaMax))
	return 1.0 / (2.0 * math.Pi * (1.0 - cosThetaMax))
}

// RandomCosineDirection returns a cosine-weighted random direction in
// the hemisphere around normal, using Malley's method (concentric disk
// mapping projected up to the hemisphere).
func RandomCosineDirection(normal core.Vec3, r RNG) core.Vec3 {
	u1 := r.UniformFloat(0, 1)
	u2 := r.UniformFloat(0, 1)

	dx, dy := concentricSampleDisk(u1, u2)
	dz := math.Sqrt(math.Max(0, 1-dx*dx-dy*dy))

	t, b := orthonormalBasis(normal)
	local := t.Multiply(dx).Add(b.Multiply(dy)).Add(normal.Multiply(dz))
	return local.Normalize()
}

// RandomInUnitDisk returns a uniformly distributed point in the unit
// disk, used for thin-lens aperture sampling.
func RandomInUnitDisk(r RNG) core.Vec2 {
	u1 := r.UniformFloat(0, 1)
	u2 := r.UniformFloat(0, 1)
	x, y := concentricSampleDisk(u1, u2)
	return core.NewVec2(x, y)
}

// RandomInUnitSphere returns a uniformly distributed point within the
// unit ball, used for metal fuzz perturbation. Volume-uniform sampling
// via inverse-cube-root of a uniform radius, combined with a uniform
// direction (RandomOnUnitSphere).
func RandomInUnitSphere(r RNG) core.Vec3 {
	dir := RandomOnUnitSphere(r)
	radius := math.Cbrt(r.UniformFloat(0, 1))
	return dir.Multiply(radius)
}

// RandomOnUnitSphere returns a uniformly distributed direction over the full sphere.
func RandomOnUnitSphere(r RNG) core.Vec3 {
	u1 := r.UniformFloat(0, 1)
	u2 := r.UniformFloat(0, 1)
	z := 1 - 2*u1
	radius := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u2
	sp, cp := core.SinCos(phi)
	return core.NewVec3(radius*cp, radius*sp, z)
}

// concentricSampleDisk maps (u1,u2) in [0,1)^2 to a point in the unit
// disk with uniform area density, avoiding the distortion of naive
// polar mapping (Shirley & Chiu).
func concentricSampleDisk(u1, u2 float64) (x, y float64) {
	ox := 2*u1 - 1
	oy := 2*u2 - 1

	if ox == 0 && oy == 0 {
		return 0, 0
	}

	var r, theta float64
	if math.Abs(ox) > math.Abs(oy) {
		r = ox
		theta = (math.Pi / 4) * (oy / ox)
	} else {
		r = oy
		theta = (math.Pi / 2) - (math.Pi/4)*(ox/oy)
	}

	s, c := core.SinCos(theta)
	return r * c, r * s
}

// orthonormalBasis builds an arbitrary tangent/bitangent pair
// perpendicular to n, using the diminished axis to avoid degeneracy.
func orthonormalBasis(n core.Vec3) (t, b core.Vec3) {
	var helper core.Vec3
	switch n.DiminishedAxis() {
	case core.AxisX:
		helper = core.NewVec3(1, 0, 0)
	case core.AxisY:
		helper = core.NewVec3(0, 1, 0)
	default:
		helper = core.NewVec3(0, 0, 1)
	}
	t = helper.Cross(n).Normalize()
	b = n.Cross(t)
	return t, b
}
