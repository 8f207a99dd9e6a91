package camera

import (
	"math"

	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/status"
)

// ThinLens is a depth-of-field camera sampling a disk-shaped aperture
// around its optical axis. Grounded on
// iris_camera_toolkit/thin_lens_camera.c; lens_u is a squared polar
// radius and lens_v a polar angle, matching the original's
// (radius_squared, theta) ray-generation parameters rather than a
// raw Cartesian disk offset.
type ThinLens struct {
	location core.Vec3
	lensU    core.Vec3 // aperture radius vector along the image-plane u axis
	lensV    core.Vec3 // aperture radius vector along the image-plane v axis
	plane    frame
}

// NewThinLens constructs a thin-lens camera. aperture is the lens
// diameter, derived by the caller as focalLength/fNumber per standard
// photographic convention (kept a direct parameter here since this
// package has no exposure-model concept of f-number).
func NewThinLens(location, direction, up core.Vec3, focalLength, aperture, frameWidth, frameHeight float64) (*ThinLens, error) {
	if err := validateOrientation(direction, up); err != nil {
		return nil, err
	}
	if !core.Finite(focalLength) || focalLength <= 0 {
		return nil, status.Invalid("focalLength", "must be finite and positive")
	}
	if !core.Finite(aperture) || aperture <= 0 {
		return nil, status.Invalid("aperture", "must be finite and positive")
	}
	if !core.Finite(frameWidth) || frameWidth <= 0 {
		return nil, status.Invalid("frameWidth", "must be finite and positive")
	}
	if !core.Finite(frameHeight) || frameHeight <= 0 {
		return nil, status.Invalid("frameHeight", "must be finite and positive")
	}

	direction = direction.Normalize()
	up = up.Normalize()
	planeU := direction.Cross(up).Normalize()
	planeV := direction.Cross(planeU).Normalize()

	apertureRadius := 0.5 * aperture

	return &ThinLens{
		location: location,
		lensU:    planeU.Multiply(apertureRadius),
		lensV:    planeV.Multiply(apertureRadius),
		plane:    buildFrame(location, direction, up, -focalLength, frameWidth, frameHeight),
	}, nil
}

// GenerateRay implements Camera. lensU is a squared radius in [0,1)
// and lensV an angle in [0, 2*pi); both come pre-remapped by the
// driver via Extents, matching the original ThinLensCameraGenerateRay
// signature rather than a Cartesian disk offset.
func (t *ThinLens) GenerateRay(imageU, imageV, lensU, lensV float64) (core.Ray, error) {
	framePoint := t.plane.pointOn(imageU, imageV)

	radius := math.Sqrt(lensU)
	sinTheta, cosTheta := core.SinCos(lensV)

	origin := t.location.
		Add(t.lensU.Multiply(radius * cosTheta)).
		Add(t.lensV.Multiply(radius * sinTheta))

	// The image plane lies behind location; aim at framePoint mirrored
	// through location so the lens-centre ray matches the pinhole's.
	target := t.location.Add(t.location.Subtract(framePoint))
	return core.NewRay(origin, target.Subtract(origin)), nil
}

// Extents implements Camera: image UVs span [0,1]; lens_u is a squared
// radius in [0,1), lens_v an angle in [0, 2*pi).
func (t *ThinLens) Extents() Extents {
	return Extents{
		ImageUMax: 1, ImageVMax: 1,
		LensUMax: 1, LensVMax: 2 * math.Pi,
	}
}

// HasLensDomain implements Camera: always true, the aperture is non-degenerate.
func (t *ThinLens) HasLensDomain() bool {
	return true
}
