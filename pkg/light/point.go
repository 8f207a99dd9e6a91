package light

import (
	"github.com/brw/spectral-tracer/pkg/color"
	"github.com/brw/spectral-tracer/pkg/core"
	"github.com/brw/spectral-tracer/pkg/rng"
	"github.com/brw/spectral-tracer/pkg/status"
)

// PointLight is a delta-position light: all its emission arrives from
// exactly one point, attenuated by inverse-square falloff. Grounded on
// iris_physx_toolkit/point_light.c's PointLightSample, which the
// teacher has no equivalent for (its lights are all finite-area or
// infinite).
type PointLight struct {
	Location  core.Vec3
	Intensity color.Spectrum
}

// NewPointLight constructs a point light at location emitting
// intensity (radiant intensity, independent of distance; inverse-square
// falloff is applied at sample time).
func NewPointLight(location core.Vec3, intensity color.Spectrum) (*PointLight, error) {
	if intensity == nil {
		return nil, status.Invalid("intensity", "must not be nil")
	}
	return &PointLight{Location: location, Intensity: intensity}, nil
}

func (p *PointLight) Type() Type { return TypePoint }

// Sample returns the direction/distance to the point, and the
// intensity attenuated by 1/distance^2. Mirrors PointLightSample's
// rejection of directions behind the shading normal by zeroing PDF.
func (p *PointLight) Sample(point, normal core.Vec3, _ rng.RNG, compositor *color.SpectrumCompositor) (Sample, error) {
	toLight := p.Location.Subtract(point)
	distSq := toLight.LengthSquared()
	direction, distance := toLight.NormalizeLength()

	if direction.Dot(normal) <= 0 {
		return Sample{}, nil
	}

	attenuated, err := compositor.Attenuate(p.Intensity, 1.0/distSq)
	if err != nil {
		return Sample{}, err
	}

	return Sample{
		Direction: direction,
		Distance:  distance,
		Emission:  attenuated,
		PDF:       1.0,
		IsDelta:   true,
	}, nil
}

func (p *PointLight) PDF(_, _, _ core.Vec3) float64 { return 0 }

func (p *PointLight) Emit(_ core.Ray) (color.Spectrum, error) { return nil, nil }
