package render

import (
	"math"

	"github.com/taigrr/boxarena/pkg/math3d"
)

// LightKind selects the non-ambient light.
type LightKind int

const (
	LightNone        LightKind = iota
	LightPoint                 // Positional, optional distance falloff
	LightDirectional           // Parallel rays along Direction
)

// Lighting is an ambient term plus at most one key light, evaluated per face
// with Lambert diffuse.
type Lighting struct {
	Ambient   float64
	Kind      LightKind
	Position  math3d.Vec3 // LightPoint
	Direction math3d.Vec3 // LightDirectional: direction the light travels
	Intensity float64
	Distance  float64 // LightPoint falloff range; 0 disables falloff
}

// DefaultLighting mirrors a half-strength ambient plus half-strength point
// light hanging above the arena.
func DefaultLighting() Lighting {
	return Lighting{
		Ambient:   0.5,
		Kind:      LightPoint,
		Position:  math3d.V3(5, 10, 5),
		Intensity: 0.5,
	}
}

// IntensityAt returns the light intensity reaching a surface at point p with
// unit normal n, clamped to [0, 1].
func (l Lighting) IntensityAt(p, n math3d.Vec3) float64 {
	total := l.Ambient

	switch l.Kind {
	case LightPoint:
		toLight := l.Position.Sub(p)
		dist := toLight.Len()
		if dist > 0 {
			diffuse := math.Max(0, n.Dot(toLight.Scale(1/dist))) * l.Intensity
			if l.Distance > 0 {
				diffuse *= math.Max(0, 1-dist/l.Distance)
			}
			total += diffuse
		}
	case LightDirectional:
		dir := l.Direction.Normalize()
		total += math.Max(0, -n.Dot(dir)) * l.Intensity
	}

	return math.Max(0, math.Min(1, total))
}

// Shade applies the lighting at (p, n) to a base color.
func (l Lighting) Shade(base Color, p, n math3d.Vec3) Color {
	return MultiplyColor(base, l.IntensityAt(p, n))
}
