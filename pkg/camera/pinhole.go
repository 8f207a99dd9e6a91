package camera

import (
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/status"
)

// Pinhole is a zero-aperture camera: every ray originates at a single
// point and passes through the image plane. Grounded on
// iris_camera_toolkit/pinhole_camera.c.
type Pinhole struct {
	location core.Vec3
	plane    frame
}

// NewPinhole constructs a pinhole camera looking from location toward
// direction, with up defining the image-plane roll and focalLength
// placing the image plane that distance behind location; each ray runs
// from location away from its image-plane point.
func NewPinhole(location, direction, up core.Vec3, focalLength, frameWidth, frameHeight float64) (*Pinhole, error) {
	if err := validateOrientation(direction, up); err != nil {
		return nil, err
	}
	if !core.Finite(focalLength) || focalLength <= 0 {
		return nil, status.Invalid("focalLength", "must be finite and positive")
	}
	if !core.Finite(frameWidth) || frameWidth <= 0 {
		return nil, status.Invalid("frameWidth", "must be finite and positive")
	}
	if !core.Finite(frameHeight) || frameHeight <= 0 {
		return nil, status.Invalid("frameHeight", "must be finite and positive")
	}

	return &Pinhole{
		location: location,
		plane:    buildFrame(location, direction, up, -focalLength, frameWidth, frameHeight),
	}, nil
}

// GenerateRay implements Camera. Lens UVs are ignored: a pinhole has no
// aperture to sample.
func (p *Pinhole) GenerateRay(imageU, imageV, _, _ float64) (core.Ray, error) {
	framePoint := p.plane.pointOn(imageU, imageV)
	direction := p.location.Subtract(framePoint)
	return core.NewRay(p.location, direction), nil
}

// Extents implements Camera: image UVs span [0,1], lens domain is degenerate.
func (p *Pinhole) Extents() Extents {
	return Extents{ImageUMax: 1, ImageVMax: 1}
}

// HasLensDomain implements Camera and satisfies rng.HasLensDomain: always false.
func (p *Pinhole) HasLensDomain() bool {
	return false
}
