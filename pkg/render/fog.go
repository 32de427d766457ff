package render

import "math"

// Fog is linear distance fog: objects closer than Near are untouched, objects
// beyond Far take the fog color entirely.
type Fog struct {
	Color Color
	Near  float64
	Far   float64
}

// Enabled reports whether the fog has a usable range.
func (f Fog) Enabled() bool {
	return f.Far > f.Near
}

// Factor returns the fog amount in [0, 1] at view depth d.
func (f Fog) Factor(d float64) float64 {
	if !f.Enabled() {
		return 0
	}
	return math.Max(0, math.Min(1, (d-f.Near)/(f.Far-f.Near)))
}

// Apply mixes c toward the fog color by the fog amount at depth d.
func (f Fog) Apply(c Color, d float64) Color {
	return LerpColor(c, f.Color, f.Factor(d))
}
