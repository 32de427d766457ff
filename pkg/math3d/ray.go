package math3d

import "math"

// Ray is a half-line starting at Origin. Dir is expected to be unit length
// so that hit distances are in world units.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// NewRay creates a ray, normalizing dir.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Dir: dir.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// NewAABB creates an AABB from two opposite corners in any order.
func NewAABB(a, b Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// AABBFromCenter creates a box of the given full size around center.
func AABBFromCenter(center, size Vec3) AABB {
	h := size.Scale(0.5)
	return AABB{Min: center.Sub(h), Max: center.Add(h)}
}

// Center returns the center of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the full dimensions of the box.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Intersects reports whether two boxes overlap (touching counts).
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Expand grows the box by d on every side.
func (b AABB) Expand(d float64) AABB {
	e := V3(d, d, d)
	return AABB{Min: b.Min.Sub(e), Max: b.Max.Add(e)}
}

// Corners returns the 8 corners of the box.
func (b AABB) Corners() [8]Vec3 {
	return [8]Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Max.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z},
	}
}

// Transform returns the box bounding all 8 corners after transformation.
func (b AABB) Transform(m Mat4) AABB {
	corners := b.Corners()
	p := m.MulVec3(corners[0])
	out := AABB{Min: p, Max: p}
	for _, c := range corners[1:] {
		p = m.MulVec3(c)
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// IntersectRay returns the distance along r to the first point of b, using
// the slab method. A ray starting inside the box hits at t=0. Hits beyond
// maxDist are misses; maxDist <= 0 means unbounded.
func (b AABB) IntersectRay(r Ray, maxDist float64) (float64, bool) {
	tMin := 0.0
	tMax := math.Inf(1)
	if maxDist > 0 {
		tMax = maxDist
	}

	for axis := range 3 {
		o := r.Origin.Component(axis)
		d := r.Dir.Component(axis)
		lo := b.Min.Component(axis)
		hi := b.Max.Component(axis)

		if d == 0 {
			// Parallel to this slab: must already be inside it
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}

		inv := 1 / d
		t0 := (lo - o) * inv
		t1 := (hi - o) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = math.Max(tMin, t0)
		tMax = math.Min(tMax, t1)
		if tMin > tMax {
			return 0, false
		}
	}

	return tMin, true
}
