package accel

import (
	"math"

	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/shape"
)

// stackEntry is one deferred "far" subtree saved during traversal,
// grounded on kd_tree_scene.c's traversal stack of (node, t_min, t_max).
type stackEntry struct {
	node       int
	tMin, tMax float64
}

// Intersect walks the tree for the nearest hit within (tMin, tMax],
// returning the hit, the primitive that produced it, and whether
// anything was hit at all. Grounded on spec.md's 4.5 traversal
// description and kd_tree_scene.c's per-node near/far classification.
func (t *Tree) Intersect(ray core.Ray, tMin, tMax float64) (shape.Hit, *Primitive, bool) {
	if len(t.nodes) == 0 {
		return shape.Hit{}, nil, false
	}

	boundsTMin, boundsTMax, hitBounds := t.bounds.Hit(ray, tMin, tMax)
	if !hitBounds {
		return shape.Hit{}, nil, false
	}

	invDir := core.NewVec3(1.0/ray.Direction.X, 1.0/ray.Direction.Y, 1.0/ray.Direction.Z)

	var stack [maxTreeDepth]stackEntry
	sp := 0

	nodeIdx := 0
	curTMin, curTMax := boundsTMin, boundsTMax

	var bestHit shape.Hit
	var bestPrim *Primitive
	found := false
	farthest := tMax

traversal:
	for {
		node := &t.nodes[nodeIdx]

		if node.kind != leaf {
			axis := node.kind.axis()
			origin := ray.Origin.Component(axis)
			inv := invDir.Component(axis)
			tPlane := (node.split - origin) * inv

			belowIsNear := origin < node.split || (origin == node.split && ray.Direction.Component(axis) <= 0)

			nearIdx, farIdx := nodeIdx+1, nodeIdx+node.aboveOffset
			if !belowIsNear {
				nearIdx, farIdx = farIdx, nearIdx
			}

			switch {
			case curTMax < tPlane || tPlane <= 0:
				nodeIdx = nearIdx
			case tPlane < curTMin:
				nodeIdx = farIdx
			default:
				if sp < maxTreeDepth {
					stack[sp] = stackEntry{node: farIdx, tMin: tPlane, tMax: curTMax}
					sp++
				}
				nodeIdx = nearIdx
				curTMax = tPlane
			}
			continue
		}

		for _, idx := range node.primitiveIdx {
			prim := &t.primitives[idx]
			hit, ok := prim.Shape.Intersect(ray, tMin, farthest)
			if ok && hit.Distance > 0 && hit.Distance <= farthest {
				farthest = hit.Distance
				bestHit = hit
				bestPrim = prim
				found = true
			}
		}

		// Pop the next deferred subtree, skipping any whose near
		// bound is already beyond the closest hit found so far.
		for {
			if sp == 0 {
				break traversal
			}
			sp--
			if stack[sp].tMin <= farthest {
				nodeIdx = stack[sp].node
				curTMin, curTMax = stack[sp].tMin, stack[sp].tMax
				break
			}
		}
	}

	if !found || bestHit.Distance > tMax || math.IsInf(bestHit.Distance, 0) {
		return shape.Hit{}, nil, found
	}

	return bestHit, bestPrim, found
}
