package core

import "math"

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points.
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points.
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]

	for _, point := range points[1:] {
		min.X = math.Min(min.X, point.X)
		min.Y = math.Min(min.Y, point.Y)
		min.Z = math.Min(min.Z, point.Z)

		max.X = math.Max(max.X, point.X)
		max.Y = math.Max(max.Y, point.Y)
		max.Z = math.Max(max.Z, point.Z)
	}

	return AABB{Min: min, Max: max}
}

// Hit tests if a ray intersects with this AABB using the slab method,
// returning the clipped (tMin, tMax) interval on success.
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) (float64, float64, bool) {
	invDir := Vec3{X: 1.0 / ray.Direction.X, Y: 1.0 / ray.Direction.Y, Z: 1.0 / ray.Direction.Z}

	for axis := AxisX; axis <= AxisZ; axis++ {
		minV := aabb.Min.Component(axis)
		maxV := aabb.Max.Component(axis)
		origin := ray.Origin.Component(axis)
		inv := invDir.Component(axis)

		t1 := (minV - origin) * inv
		t2 := (maxV - origin) * inv

		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)

		if tMin > tMax {
			return tMin, tMax, false
		}
	}

	return tMin, tMax, true
}

// Intersects reports only whether the ray hits the box, discarding the interval.
func (aabb AABB) Intersects(ray Ray, tMin, tMax float64) bool {
	_, _, hit := aabb.Hit(ray, tMin, tMax)
	return hit
}

// Union returns an AABB that bounds both this AABB and another.
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec3{X: math.Min(aabb.Min.X, other.Min.X), Y: math.Min(aabb.Min.Y, other.Min.Y), Z: math.Min(aabb.Min.Z, other.Min.Z)},
		Max: Vec3{X: math.Max(aabb.Max.X, other.Max.X), Y: math.Max(aabb.Max.Y, other.Max.Y), Z: math.Max(aabb.Max.Z, other.Max.Z)},
	}
}

// Center returns the center point of the AABB.
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis.
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// SurfaceArea returns the total surface area of the AABB.
func (aabb AABB) SurfaceArea() float64 {
	size := aabb.Size()
	return 2.0 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// LongestAxis returns the axis with the longest extent.
func (aabb AABB) LongestAxis() Axis {
	return aabb.Size().DominantAxis()
}

// IsValid returns true if this is a valid AABB (min <= max for all axes).
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X && aabb.Min.Y <= aabb.Max.Y && aabb.Min.Z <= aabb.Max.Z
}

// Expand returns an AABB expanded by the given amount in all directions.
func (aabb AABB) Expand(amount float64) AABB {
	expansion := NewVec3(amount, amount, amount)
	return AABB{Min: aabb.Min.Subtract(expansion), Max: aabb.Max.Add(expansion)}
}

// Transform returns the AABB bounding m applied to all eight corners
// of aabb. Used once per non-premultiplied shape at scene-build time
// to compute world-space bounds for the accelerator.
func (aabb AABB) Transform(m Mat4) AABB {
	corners := [8]Vec3{
		{X: aabb.Min.X, Y: aabb.Min.Y, Z: aabb.Min.Z},
		{X: aabb.Max.X, Y: aabb.Min.Y, Z: aabb.Min.Z},
		{X: aabb.Min.X, Y: aabb.Max.Y, Z: aabb.Min.Z},
		{X: aabb.Min.X, Y: aabb.Min.Y, Z: aabb.Max.Z},
		{X: aabb.Max.X, Y: aabb.Max.Y, Z: aabb.Min.Z},
		{X: aabb.Max.X, Y: aabb.Min.Y, Z: aabb.Max.Z},
		{X: aabb.Min.X, Y: aabb.Max.Y, Z: aabb.Max.Z},
		{X: aabb.Max.X, Y: aabb.Max.Y, Z: aabb.Max.Z},
	}
	points := make([]Vec3, 8)
	for i, c := range corners {
		points[i] = m.TransformPoint(c)
	}
	return NewAABBFromPoints(points...)
}
