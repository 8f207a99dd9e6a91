package shape

import (
	"math"

	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/material"
)

const planeParallelEpsilon = 1e-8

// Plane is an infinite flat surface, grounded on
// pkg/geometry/plane.go, generalized to the face-indexed Shape
// contract. It is unbounded and therefore not Bounded; a scene using
// one builds its accelerator only over the bounded remainder of its
// shapes, the way the teacher's own renderer handles its one infinite
// plane test scene.
type Plane struct {
	Point  core.Vec3
	Normal core.Vec3
	Mat    material.Material
}

// NewPlane creates a new plane through point with the given normal.
func NewPlane(point, normal core.Vec3, mat material.Material) *Plane {
	return &Plane{Point: point, Normal: normal.Normalize(), Mat: mat}
}

// Intersect implements Shape.
func (p *Plane) Intersect(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	denominator := ray.Direction.Dot(p.Normal)
	if math.Abs(denominator) < planeParallelEpsilon {
		return Hit{}, false
	}

	distance := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if distance <= tMin || distance > tMax {
		return Hit{}, false
	}

	frontFace := denominator < 0
	frontID, backID := triangleFront, triangleBack
	if !frontFace {
		frontID, backID = triangleBack, triangleFront
	}

	return Hit{Distance: distance, FrontFaceID: frontID, BackFaceID: backID}, true
}

// NormalAt implements Normaled.
func (p *Plane) NormalAt(faceID int, _ Hit, _ core.Vec3) core.Vec3 {
	if faceID == triangleBack {
		return p.Normal.Negate()
	}
	return p.Normal
}

// MaterialOf implements MaterialProvider.
func (p *Plane) MaterialOf(_ int) material.Material {
	return p.Mat
}
