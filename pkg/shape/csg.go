package shape

import (
	"math"

	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/material"
)

// csgOp identifies which constructive-solid-geometry combination a
// CSG shape performs, grounded on the three allocators declared in
// iris_physx_toolkit/shapes/constructive_solid_geometry.h: Union,
// Intersection, Difference.
type csgOp int

const (
	csgUnion csgOp = iota
	csgIntersection
	csgDifference
)

// csgLeftFace and csgRightFace tag which operand's face ID a CSG hit's
// face ID came from, packed into the low bit so the remaining bits
// carry the operand's own face ID unchanged.
const (
	csgLeftFace  = 0
	csgRightFace = 1
)

func packCSGFace(operand, faceID int) int {
	return faceID<<1 | operand
}

func unpackCSGFace(packed int) (operand, faceID int) {
	return packed & 1, packed >> 1
}

// CSG combines two shapes by boolean operation over the ray's span of
// entry/exit intervals through each operand, the standard
// interval-CSG technique: a ray's intersection with each operand is
// treated as a sorted list of (enter, exit) spans, and the combinator
// merges the two operands' span lists according to the boolean op,
// then reports the nearest surviving span boundary within (tMin,
// tMax]. Both operands must be closed (bound a solid volume with a
// well-defined inside), since a single surface crossing has no
// interval to combine.
type CSG struct {
	left, right Shape
	op          csgOp
}

// NewUnion builds a CSG combinator reporting either operand.
func NewUnion(left, right Shape) *CSG {
	return &CSG{left: left, right: right, op: csgUnion}
}

// NewIntersection builds a CSG combinator reporting only the region
// both operands cover.
func NewIntersection(left, right Shape) *CSG {
	return &CSG{left: left, right: right, op: csgIntersection}
}

// NewDifference builds a CSG combinator reporting the region covered
// by left but not right.
func NewDifference(left, right Shape) *CSG {
	return &CSG{left: left, right: right, op: csgDifference}
}

// csgSpan is one entry/exit interval of a ray through a solid,
// tracking which operand face ID bounds each end. enterFace/exitFace
// are already packed via packCSGFace so they remain self-describing
// after two span lists are merged together.
type csgSpan struct {
	enter, exit         float64
	enterFace, exitFace int
}

// csgSpans walks shape's successive hits from tMin toward +infinity,
// pairing each front-face hit with the next back-face hit to build the
// solid's interval list along the ray. Assumes closed, orientable
// geometry (every entry has a matching exit). Face IDs are packed with
// operand so they remain self-describing once two operands' span
// lists are merged together.
func csgSpans(s Shape, operand int, ray core.Ray, tMin, tMax float64) []csgSpan {
	const maxSpans = 64
	var spans []csgSpan

	cursor := tMin
	for i := 0; i < maxSpans; i++ {
		enterHit, ok := s.Intersect(ray, cursor, tMax)
		if !ok {
			break
		}

		exitHit, ok := s.Intersect(ray, enterHit.Distance, tMax)
		if !ok {
			spans = append(spans, csgSpan{
				enter: enterHit.Distance, exit: math.Inf(1),
				enterFace: packCSGFace(operand, enterHit.FrontFaceID),
				exitFace:  packCSGFace(operand, enterHit.BackFaceID),
			})
			break
		}

		spans = append(spans, csgSpan{
			enter:     enterHit.Distance,
			exit:      exitHit.Distance,
			enterFace: packCSGFace(operand, enterHit.FrontFaceID),
			exitFace:  packCSGFace(operand, exitHit.FrontFaceID),
		})
		cursor = exitHit.Distance
	}

	return spans
}

// combineSpans merges two sorted, non-overlapping span lists
// according to op, returning the result's sorted, non-overlapping
// span list.
func combineSpans(op csgOp, left, right []csgSpan, leftOperand, rightOperand int) []csgSpan {
	type boundary struct {
		t        float64
		entering bool
		operand  int
		faceID   int
	}

	var boundaries []boundary
	for _, sp := range left {
		boundaries = append(boundaries,
			boundary{sp.enter, true, leftOperand, sp.enterFace},
			boundary{sp.exit, false, leftOperand, sp.exitFace},
		)
	}
	for _, sp := range right {
		boundaries = append(boundaries,
			boundary{sp.enter, true, rightOperand, sp.enterFace},
			boundary{sp.exit, false, rightOperand, sp.exitFace},
		)
	}

	for i := 1; i < len(boundaries); i++ {
		for j := i; j > 0 && boundaries[j].t < boundaries[j-1].t; j-- {
			boundaries[j], boundaries[j-1] = boundaries[j-1], boundaries[j]
		}
	}

	insideLeft, insideRight := false, false
	wasInside := false
	var result []csgSpan
	var openAt float64
	var openFace int

	insideResult := func() bool {
		switch op {
		case csgUnion:
			return insideLeft || insideRight
		case csgIntersection:
			return insideLeft && insideRight
		case csgDifference:
			return insideLeft && !insideRight
		default:
			return false
		}
	}

	for _, b := range boundaries {
		if b.operand == leftOperand {
			insideLeft = b.entering
		} else {
			insideRight = b.entering
		}

		nowInside := insideResult()
		if nowInside && !wasInside {
			openAt = b.t
			openFace = b.faceID
		} else if !nowInside && wasInside {
			result = append(result, csgSpan{enter: openAt, exit: b.t, enterFace: openFace, exitFace: b.faceID})
		}
		wasInside = nowInside
	}

	return result
}

// Intersect implements Shape by computing both operands' spans along
// the ray, combining them per op, and reporting the nearest resulting
// boundary within (tMin, tMax].
func (c *CSG) Intersect(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	leftSpans := csgSpans(c.left, csgLeftFace, ray, tMin, tMax)
	rightSpans := csgSpans(c.right, csgRightFace, ray, tMin, tMax)

	combined := combineSpans(c.op, leftSpans, rightSpans, csgLeftFace, csgRightFace)
	if len(combined) == 0 {
		return Hit{}, false
	}

	best := combined[0]
	for _, sp := range combined[1:] {
		if sp.enter < best.enter {
			best = sp
		}
	}

	if best.enter <= tMin || best.enter > tMax {
		return Hit{}, false
	}

	return Hit{
		Distance:    best.enter,
		FrontFaceID: best.enterFace,
		BackFaceID:  best.exitFace,
	}, true
}

// Bounds implements Bounded when both operands are Bounded.
func (c *CSG) Bounds() core.AABB {
	leftBounded, leftOK := c.left.(Bounded)
	rightBounded, rightOK := c.right.(Bounded)
	switch {
	case leftOK && rightOK:
		return leftBounded.Bounds().Union(rightBounded.Bounds())
	case leftOK:
		return leftBounded.Bounds()
	case rightOK:
		return rightBounded.Bounds()
	default:
		return core.AABB{}
	}
}

// NormalAt implements Normaled by delegating to whichever operand
// reported the packed face ID.
func (c *CSG) NormalAt(faceID int, hit Hit, point core.Vec3) core.Vec3 {
	operand, innerFace := unpackCSGFace(faceID)
	target := c.operandShape(operand)
	if normaled, ok := target.(Normaled); ok {
		return normaled.NormalAt(innerFace, hit, point)
	}
	return core.Vec3{}
}

// MaterialOf implements MaterialProvider by delegating to whichever
// operand reported the packed face ID.
func (c *CSG) MaterialOf(faceID int) material.Material {
	operand, innerFace := unpackCSGFace(faceID)
	target := c.operandShape(operand)
	if provider, ok := target.(MaterialProvider); ok {
		return provider.MaterialOf(innerFace)
	}
	return nil
}

func (c *CSG) operandShape(operand int) Shape {
	if operand == csgLeftFace {
		return c.left
	}
	return c.right
}
