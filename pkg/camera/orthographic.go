package camera

import (
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/status"
)

// Orthographic is a camera with parallel rays: every ray shares the
// same direction and only its origin varies across the image plane.
// Grounded on iris_camera_toolkit/orthographic_camera.c.
type Orthographic struct {
	direction core.Vec3
	plane     frame
}

// NewOrthographic constructs an orthographic camera. frameWidth and
// frameHeight are world-space extents of the parallel-projection
// viewport, not angular extents.
func NewOrthographic(location, direction, up core.Vec3, frameWidth, frameHeight float64) (*Orthographic, error) {
	if err := validateOrientation(direction, up); err != nil {
		return nil, err
	}
	if !core.Finite(frameWidth) || frameWidth <= 0 {
		return nil, status.Invalid("frameWidth", "must be finite and positive")
	}
	if !core.Finite(frameHeight) || frameHeight <= 0 {
		return nil, status.Invalid("frameHeight", "must be finite and positive")
	}

	direction = direction.Normalize()
	return &Orthographic{
		direction: direction,
		plane:     buildFrame(location, direction, up, 0, frameWidth, frameHeight),
	}, nil
}

// GenerateRay implements Camera. Lens UVs are ignored: an orthographic
// camera has no aperture.
func (o *Orthographic) GenerateRay(imageU, imageV, _, _ float64) (core.Ray, error) {
	framePoint := o.plane.pointOn(imageU, imageV)
	return core.NewRay(framePoint, o.direction), nil
}

// Extents implements Camera: image UVs span [0,1], lens domain is
// degenerate. Note for maintainers porting further camera-toolkit
// allocators: the lens_delta_v this camera passes downstream must be
// computed as lensMaxV-lensMinV, not lensMaxV-lensMaxV — the latter
// always zeros out regardless of lensMinV and is a known bug in the
// original allocator this family is ported from.
func (o *Orthographic) Extents() Extents {
	return Extents{ImageUMax: 1, ImageVMax: 1}
}

// HasLensDomain implements Camera: always false.
func (o *Orthographic) HasLensDomain() bool {
	return false
}
