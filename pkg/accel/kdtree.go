// Package accel implements the surface-area-heuristic k-d tree
// acceleration structure: an offline build over a scene's shapes and a
// stackful traversal loop used by the scene's Trace.
//
// Grounded on iris_physx_toolkit/kd_tree_scene.c's uncompressed build
// (EDGE list per axis, EvaluateSplitsOnAxis cost function, recursive
// split/partition) and its traversal loop, adapted to a Go slice of
// KdTreeNode rather than the original's packed two-word interior/leaf
// union. The original's dominant-axis-first, cycling-axis split scan
// and SAH cost formula (TRAVERSAL_COST=1, INTERSECTION_COST=80,
// EMPTY_BONUS=0.5) are carried over exactly.
package accel

import (
	"math"

	"golang.org/x/exp/slices"

	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/shape"
)

const (
	traversalCost   = 1.0
	intersectionCost = 80.0
	emptyBonus      = 0.5
	targetLeafSize  = 1
	maxTreeDepth    = 64
)

// Primitive pairs a Shape with the world-space bounds the builder
// computed for it, so shapes that aren't themselves Bounded can still
// participate (callers supply bounds explicitly).
type Primitive struct {
	Shape  shape.Shape
	Bounds core.AABB
}

// nodeKind tags what a KdTreeNode represents; mirrors the original's
// 2-bit tag (split-X, split-Y, split-Z, leaf).
type nodeKind int

const (
	splitX nodeKind = iota
	splitY
	splitZ
	leaf
)

// KdTreeNode is one element of the tree's linearized preorder array.
// Interior nodes store their split axis/value and the offset (from
// this node) to the above-child; the below-child is implicitly
// node+1. Leaves store the primitive indices covered.
type KdTreeNode struct {
	kind         nodeKind
	split        float64
	aboveOffset  int
	primitiveIdx []int
}

// Tree is a built, immutable k-d tree over a fixed set of primitives.
type Tree struct {
	nodes      []KdTreeNode
	primitives []Primitive
	bounds     core.AABB
}

// edge is one bounding-plane crossing along a single axis, grounded on
// kd_tree_scene.c's EDGE: a primitive index, the plane's coordinate,
// and whether this is the primitive's start (vs. end) edge.
type edge struct {
	primitive int
	value     float64
	isStart   bool
}

// Build constructs a k-d tree over primitives. primitives with a
// degenerate (zero-volume) or invalid bounds are still included as
// leaves; the SAH build simply never finds a beneficial split that
// isolates them specially.
func Build(primitives []Primitive) *Tree {
	t := &Tree{primitives: primitives}

	if len(primitives) == 0 {
		return t
	}

	t.bounds = primitives[0].Bounds
	for _, p := range primitives[1:] {
		t.bounds = t.bounds.Union(p.Bounds)
	}

	indices := make([]int, len(primitives))
	for i := range indices {
		indices[i] = i
	}

	maxDepth := int(math.Round(8 + 1.3*math.Log2(float64(len(primitives)))))
	if maxDepth > maxTreeDepth {
		maxDepth = maxTreeDepth
	}

	t.nodes = make([]KdTreeNode, 0, 2*len(primitives))
	t.build(indices, t.bounds, t.bounds.LongestAxis(), maxDepth)

	return t
}

// build recursively appends nodes in preorder, returning nothing; the
// below-child of an interior node is always nodes[len(nodes)] at the
// moment of the recursive call (i.e. immediately following), matching
// the original's node+1 convention.
func (t *Tree) build(indices []int, bounds core.AABB, axis core.Axis, depth int) {
	if len(indices) <= targetLeafSize || depth <= 0 {
		t.appendLeaf(indices)
		return
	}

	bestAxis, bestSplit, bestCost, ok := t.findBestSplit(indices, bounds, axis)
	if !ok || bestCost >= float64(len(indices))*intersectionCost {
		t.appendLeaf(indices)
		return
	}

	below, above := partition(indices, t.primitives, bestAxis, bestSplit)

	nodeIndex := len(t.nodes)
	t.nodes = append(t.nodes, KdTreeNode{kind: axisKind(bestAxis), split: bestSplit})

	belowBounds, aboveBounds := splitBounds(bounds, bestAxis, bestSplit)
	t.build(below, belowBounds, nextAxis(bestAxis), depth-1)

	t.nodes[nodeIndex].aboveOffset = len(t.nodes) - nodeIndex
	t.build(above, aboveBounds, nextAxis(bestAxis), depth-1)
}

func (t *Tree) appendLeaf(indices []int) {
	cp := make([]int, len(indices))
	copy(cp, indices)
	t.nodes = append(t.nodes, KdTreeNode{kind: leaf, primitiveIdx: cp})
}

// findBestSplit scans all three axes starting from the dominant axis
// and cycling, grounded on kd_tree_scene.c's EvaluateSplitsOnAxis.
func (t *Tree) findBestSplit(indices []int, bounds core.AABB, startAxis core.Axis) (core.Axis, float64, float64, bool) {
	bestCost := math.Inf(1)
	var bestSplit float64
	var bestAxis core.Axis
	found := false

	axis := startAxis
	for i := 0; i < 3; i++ {
		edges := buildEdges(indices, t.primitives, axis)
		cost, split, ok := evaluateSplitsOnAxis(edges, bounds, axis)
		if ok && cost < bestCost {
			bestCost = cost
			bestSplit = split
			bestAxis = axis
			found = true
		}
		axis = nextAxis(axis)
	}

	return bestAxis, bestSplit, bestCost, found
}

func buildEdges(indices []int, primitives []Primitive, axis core.Axis) []edge {
	edges := make([]edge, 0, 2*len(indices))
	for _, idx := range indices {
		b := primitives[idx].Bounds
		edges = append(edges,
			edge{primitive: idx, value: b.Min.Component(axis), isStart: true},
			edge{primitive: idx, value: b.Max.Component(axis), isStart: false},
		)
	}
	slices.SortFunc(edges, func(a, b edge) int {
		if a.value != b.value {
			if a.value < b.value {
				return -1
			}
			return 1
		}
		switch {
		case a.isStart == b.isStart:
			return 0
		case a.isStart:
			return -1
		default:
			return 1
		}
	})
	return edges
}

// evaluateSplitsOnAxis scans edges maintaining below/above counts and
// returns the least-cost split strictly inside the node's extent, per
// the SAH cost formula in kd_tree_scene.c's EvaluateSplitsOnAxis.
func evaluateSplitsOnAxis(edges []edge, nodeBound core.AABB, axis core.Axis) (cost, split float64, ok bool) {
	surfaceArea := nodeBound.SurfaceArea()
	if surfaceArea <= 0 {
		return 0, 0, false
	}
	invSurfaceArea := 1.0 / surfaceArea

	lower := nodeBound.Min.Component(axis)
	upper := nodeBound.Max.Component(axis)

	next1 := nextAxis(axis)
	next2 := nextAxis(next1)
	diagonal := nodeBound.Max.Subtract(nodeBound.Min)
	other0 := diagonal.Component(next1)
	other1 := diagonal.Component(next2)
	otherSum := other0 + other1
	sideFaceArea := other0 * other1

	numAbove := len(edges) / 2
	numBelow := 0

	bestCost := math.Inf(1)
	bestSplit := 0.0
	found := false

	for _, e := range edges {
		if !e.isStart {
			numAbove--
		}

		if lower < e.value && e.value < upper {
			belowArea := 2.0 * (sideFaceArea + (e.value-lower)*otherSum)
			aboveArea := 2.0 * (sideFaceArea + (upper-e.value)*otherSum)

			percentBelow := belowArea * invSurfaceArea
			percentAbove := aboveArea * invSurfaceArea

			bonus := 0.0
			if numAbove == 0 || numBelow == 0 {
				bonus = emptyBonus
			}

			c := traversalCost + intersectionCost*(1.0-bonus)*
				(percentBelow*float64(numBelow)+percentAbove*float64(numAbove))

			if c < bestCost {
				bestCost = c
				bestSplit = e.value
				found = true
			}
		}

		if e.isStart {
			numBelow++
		}
	}

	return bestCost, bestSplit, found
}

func partition(indices []int, primitives []Primitive, axis core.Axis, split float64) (below, above []int) {
	for _, idx := range indices {
		b := primitives[idx].Bounds
		if b.Min.Component(axis) < split {
			below = append(below, idx)
		}
		if b.Max.Component(axis) > split || b.Min.Component(axis) >= split {
			above = append(above, idx)
		}
	}
	return below, above
}

func splitBounds(bounds core.AABB, axis core.Axis, split float64) (below, above core.AABB) {
	below, above = bounds, bounds
	switch axis {
	case core.AxisX:
		below.Max.X, above.Min.X = split, split
	case core.AxisY:
		below.Max.Y, above.Min.Y = split, split
	default:
		below.Max.Z, above.Min.Z = split, split
	}
	return below, above
}

func nextAxis(axis core.Axis) core.Axis {
	switch axis {
	case core.AxisX:
		return core.AxisY
	case core.AxisY:
		return core.AxisZ
	default:
		return core.AxisX
	}
}

func axisKind(axis core.Axis) nodeKind {
	switch axis {
	case core.AxisX:
		return splitX
	case core.AxisY:
		return splitY
	default:
		return splitZ
	}
}

func (k nodeKind) axis() core.Axis {
	switch k {
	case splitX:
		return core.AxisX
	case splitY:
		return core.AxisY
	default:
		return core.AxisZ
	}
}
