// Package camera maps normalized image/lens UV coordinates to world-space
// ray differentials. Grounded on iris_camera/camera.c (the shared UV
// extent/remap contract) and the pinhole/thin-lens/orthographic models
// in iris_camera_toolkit, replacing the teacher's single fixed
// pkg/renderer.Camera with a pluggable family behind one interface.
package camera

import (
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/status"
)

// Camera maps remapped image/lens UVs to a world-space ray. Callers
// (the render driver) are responsible for remapping a sampler's
// normalized [0,1] UVs onto Extents before calling GenerateRay; cameras
// never see raw [0,1] sampler output directly.
type Camera interface {
	// GenerateRay produces a ray for the given already-remapped
	// image/lens coordinates.
	GenerateRay(imageU, imageV, lensU, lensV float64) (core.Ray, error)

	// Extents reports the camera's image and lens UV domains.
	Extents() Extents

	// HasLensDomain reports whether the lens UV extent is non-degenerate.
	// A pinhole camera reports false; an image sampler constructed for
	// it with lensEnabled false never generates lens samples.
	HasLensDomain() bool
}

// Extents is the four-corner UV domain a camera's ray-generation
// callback expects, mirroring CameraAllocate's eight scalar
// parameters in iris_camera/camera.c.
type Extents struct {
	ImageUMin, ImageUMax float64
	ImageVMin, ImageVMax float64
	LensUMin, LensUMax   float64
	LensVMin, LensVMax   float64
}

// Remap maps normalized [0,1] UVs (as produced by an image sampler) onto
// e's domain, matching iris_camera/camera.c's image_min + u*image_delta
// construction.
func (e Extents) Remap(sampleU, sampleV, lensSampleU, lensSampleV float64) (imageU, imageV, lensU, lensV float64) {
	imageU = e.ImageUMin + sampleU*(e.ImageUMax-e.ImageUMin)
	imageV = e.ImageVMin + sampleV*(e.ImageVMax-e.ImageVMin)
	lensU = e.LensUMin + lensSampleU*(e.LensUMax-e.LensUMin)
	lensV = e.LensVMin + lensSampleV*(e.LensVMax-e.LensVMin)
	return
}

// HasLensDomain reports whether either lens axis has non-zero extent.
func (e Extents) HasLensDomain() bool {
	return e.LensUMax > e.LensUMin || e.LensVMax > e.LensVMin
}

// validateOrientation checks the direction/up pair every camera model
// accepts, matching the shared PointValidate/VectorValidate guards at
// the top of each *CameraAllocate in iris_camera_toolkit.
func validateOrientation(direction, up core.Vec3) error {
	if direction.IsZero() {
		return status.Invalid("direction", "must be non-zero")
	}
	if up.IsZero() {
		return status.Invalid("up", "must be non-zero")
	}
	if direction.Normalize().Cross(up.Normalize()).IsZero() {
		return status.InvalidCombination("direction,up", "must not be parallel")
	}
	return nil
}

// frame holds the orthonormal image-plane basis shared by the
// pinhole/thin-lens/orthographic models: a corner point plus two edge
// vectors spanning the frame rectangle.
type frame struct {
	corner core.Vec3
	width  core.Vec3
	height core.Vec3
}

// buildFrame constructs the image-plane basis used by all three
// camera models: direction/up define an orthonormal triad, and the
// frame rectangle is centered on the forward axis at distance
// planeDistance from location.
func buildFrame(location, direction, up core.Vec3, planeDistance, frameWidth, frameHeight float64) frame {
	direction = direction.Normalize()
	up = up.Normalize()

	planeU := direction.Cross(up).Normalize()
	planeV := direction.Cross(planeU).Normalize()

	widthVec := planeU.Multiply(frameWidth)
	heightVec := planeV.Multiply(frameHeight)

	corner := location.Add(direction.Multiply(planeDistance))
	corner = corner.Subtract(widthVec.Multiply(0.5))
	corner = corner.Subtract(heightVec.Multiply(0.5))

	return frame{corner: corner, width: widthVec, height: heightVec}
}

// pointOn evaluates the frame at (u, v): corner + width*u + height*v.
func (f frame) pointOn(u, v float64) core.Vec3 {
	return f.corner.Add(f.width.Multiply(u)).Add(f.height.Multiply(v))
}
