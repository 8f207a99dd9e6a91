// Package framebuffer implements the row-aligned 2-D Color3 grid every
// render worker writes its finished pixels into.
//
// Grounded on iris_camera/framebuffer.c: row-major storage with each
// row padded up to FramebufferRowAlignment bytes (cache-friendly writes
// across worker goroutines, each of which owns a disjoint set of rows
// or chunks and so never contends with another for a cache line),
// bounds-checked reads, asserted (trusted) writes, and a checked-
// multiply allocation size so a pathological column/row count fails
// cleanly instead of overflowing.
package framebuffer

import (
	"unsafe"

	"github.com/brw/spectral-tracer/pkg/color"
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/status"
)

// RowAlignment is the byte alignment every framebuffer row is padded
// to, matching iris_camera/framebuffer.c's FRAMEBUFFER_ROW_ALIGNMENT.
const RowAlignment = 128

var pixelSize = int(unsafe.Sizeof(color.Color3{}))

// Framebuffer is a row-major grid of Color3, one entry per pixel. The
// zero value is not usable; construct with Allocate.
type Framebuffer struct {
	pixels     []color.Color3
	numColumns int
	numRows    int
	stride     int // pixels per row, >= numColumns, sized for RowAlignment
}

// Allocate builds a Framebuffer of the given size, pre-filled with
// clear (black, if clear is nil) everywhere. Fails InvalidArgument on a
// zero dimension and AllocationFailed if the column/row count would
// overflow the backing allocation.
func Allocate(numColumns, numRows int, clear *color.Color3) (*Framebuffer, error) {
	if numColumns <= 0 {
		return nil, status.Invalid("numColumns", "must be positive")
	}
	if numRows <= 0 {
		return nil, status.Invalid("numRows", "must be positive")
	}

	rowBytes, ok := core.CheckedMultiply(numColumns, pixelSize)
	if !ok {
		return nil, status.Allocation("row size overflows")
	}
	rowBytes = core.RoundUpToAlignment(rowBytes, RowAlignment)
	stride := rowBytes / pixelSize

	totalPixels, ok := core.CheckedMultiply(stride, numRows)
	if !ok {
		return nil, status.Allocation("total pixel count overflows")
	}

	fill := color.Color3{}
	if clear != nil {
		fill = *clear
		if !fill.Valid() {
			return nil, status.Invalid("clear", "must be finite and non-negative")
		}
	}

	pixels := make([]color.Color3, totalPixels)
	if fill != (color.Color3{}) {
		for i := range pixels {
			pixels[i] = fill
		}
	}

	return &Framebuffer{pixels: pixels, numColumns: numColumns, numRows: numRows, stride: stride}, nil
}

// Size returns the framebuffer's column and row counts.
func (f *Framebuffer) Size() (numColumns, numRows int) {
	return f.numColumns, f.numRows
}

// GetPixel returns the pixel at (column, row), bounds-checked.
func (f *Framebuffer) GetPixel(column, row int) (color.Color3, error) {
	if column < 0 || column >= f.numColumns {
		return color.Color3{}, status.Invalid("column", "out of range")
	}
	if row < 0 || row >= f.numRows {
		return color.Color3{}, status.Invalid("row", "out of range")
	}
	return f.pixels[row*f.stride+column], nil
}

// SetPixel writes c at (column, row). The caller is trusted to supply
// in-range coordinates and a valid color, mirroring the original's
// assert-only contract for the hot per-sample write path; callers
// outside this package should route writes through a chunk boundary
// already known to be in range.
func (f *Framebuffer) SetPixel(column, row int, c color.Color3) {
	f.pixels[row*f.stride+column] = c
}
