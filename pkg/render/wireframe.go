package render

import (
	"math"

	"github.com/taigrr/boxarena/pkg/math3d"
)

// boxEdges indexes the 12 edges of math3d.AABB.Corners.
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0}, // back
	{4, 5}, {5, 6}, {6, 7}, {7, 4}, // front
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // connecting
}

// DrawLine3D draws a world-space line with no depth test (x-ray). The line
// is clipped to the near plane and to the viewport.
func (r *Rasterizer) DrawLine3D(a, b math3d.Vec3, color Color) {
	view := r.camera.ViewMatrix()
	va, vb := view.MulVec3(a), view.MulVec3(b)

	near := -r.camera.Near
	if va.Z > near && vb.Z > near {
		return
	}
	if va.Z > near {
		va = va.Lerp(vb, (near-va.Z)/(vb.Z-va.Z))
	} else if vb.Z > near {
		vb = vb.Lerp(va, (near-vb.Z)/(va.Z-vb.Z))
	}

	x0, y0 := r.project(va)
	x1, y1 := r.project(vb)
	x0, y0, x1, y1, ok := clipLine(x0, y0, x1, y1, float64(r.Width()-1), float64(r.Height()-1))
	if !ok {
		return
	}
	r.fb.DrawLine(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)), color)
}

func (r *Rasterizer) project(v viewVertex) (float64, float64) {
	ndc := r.camera.ProjectionMatrix().MulVec4(math3d.V4FromV3(v, 1)).PerspectiveDivide()
	return (ndc.X + 1) * 0.5 * float64(r.Width()), (1 - ndc.Y) * 0.5 * float64(r.Height())
}

// clipLine clips a segment to [0,maxX]x[0,maxY] (Liang-Barsky).
func clipLine(x0, y0, x1, y1, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0

	for _, pq := range [4][2]float64{
		{-dx, x0},
		{dx, maxX - x0},
		{-dy, y0},
		{dy, maxY - y0},
	} {
		p, q := pq[0], pq[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return 0, 0, 0, 0, false
		}
	}

	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// DrawAABBWireframe draws the 12 edges of a world-space box.
func (r *Rasterizer) DrawAABBWireframe(box math3d.AABB, color Color) {
	c := box.Corners()
	for _, e := range boxEdges {
		r.DrawLine3D(c[e[0]], c[e[1]], color)
	}
}

// DrawMeshWireframe draws every triangle edge of a mesh.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var p [3]math3d.Vec3
		for k := range 3 {
			pos, _, _ := mesh.GetVertex(face[k])
			p[k] = transform.MulVec3(pos)
		}
		r.DrawLine3D(p[0], p[1], color)
		r.DrawLine3D(p[1], p[2], color)
		r.DrawLine3D(p[2], p[0], color)
	}
}
