package render

import (
	"math"

	"github.com/taigrr/boxarena/pkg/math3d"
)

// MeshRenderer is the geometry the rasterizer can draw. It is satisfied by
// models.Mesh without importing the models package.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer extends MeshRenderer with local-space bounds for
// frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// CullingStats counts what happened to the objects submitted in a frame.
type CullingStats struct {
	MeshesTested   int // Objects tested against the frustum
	MeshesCulled   int // Objects rejected by the frustum
	TrianglesDrawn int // Triangles that reached the fill stage
}

// Rasterizer fills lit, fogged triangles into a framebuffer with a depth
// buffer. Triangles are clipped against the near plane in view space, so
// geometry passing through or behind the camera (the floor, a box the player
// is standing next to) draws correctly.
type Rasterizer struct {
	camera *Camera
	fb     *Framebuffer

	// zbuffer holds 1/depth; 0 means nothing drawn yet.
	zbuffer []float64

	Fog          Fog
	Lighting     Lighting
	CullingStats CullingStats

	frustum Frustum
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:   camera,
		fb:       fb,
		Lighting: DefaultLighting(),
	}
	r.Resize()
	return r
}

// Resize matches the depth buffer to the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// SetFramebuffer swaps the target framebuffer (after a terminal resize).
func (r *Rasterizer) SetFramebuffer(fb *Framebuffer) {
	r.fb = fb
	r.Resize()
}

// Framebuffer returns the current target.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// Camera returns the camera used for projection.
func (r *Rasterizer) Camera() *Camera {
	return r.camera
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// BeginFrame clears color and depth, resets stats and snapshots the frustum.
// Call once per frame after the camera has moved.
func (r *Rasterizer) BeginFrame(clear Color) {
	r.fb.Clear(clear)
	r.ClearDepth()
	r.CullingStats = CullingStats{}
	r.frustum = r.camera.Frustum()
}

// ClearDepth clears the depth buffer.
func (r *Rasterizer) ClearDepth() {
	clear(r.zbuffer)
}

// IsVisible tests a world-space box against the frame's frustum and records
// the result in CullingStats.
func (r *Rasterizer) IsVisible(box math3d.AABB) bool {
	r.CullingStats.MeshesTested++
	if !r.frustum.IntersectAABB(box) {
		r.CullingStats.MeshesCulled++
		return false
	}
	return true
}

// viewVertex is a vertex in view space (camera at origin looking down -Z).
type viewVertex = math3d.Vec3

// screenVertex is a clipped, projected vertex.
type screenVertex struct {
	X, Y float64 // Pixel coordinates
	InvW float64 // 1 / view depth, linear in screen space
}

// DrawTriangle fills one world-space triangle. The front face is the one
// with counter-clockwise winding; its normal drives lighting and culling.
func (r *Rasterizer) DrawTriangle(v0, v1, v2 math3d.Vec3, base Color) {
	normal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
	if normal.Dot(v0.Sub(r.camera.Position)) >= 0 {
		return
	}

	centroid := v0.Add(v1).Add(v2).Scale(1.0 / 3)
	lit := r.Lighting.Shade(base, centroid, normal)

	view := r.camera.ViewMatrix()
	poly := clipNear([]viewVertex{view.MulVec3(v0), view.MulVec3(v1), view.MulVec3(v2)}, r.camera.Near)
	if len(poly) < 3 {
		return
	}

	proj := r.camera.ProjectionMatrix()
	sv := make([]screenVertex, len(poly))
	for i, p := range poly {
		clipPos := proj.MulVec4(math3d.V4FromV3(p, 1))
		ndc := clipPos.PerspectiveDivide()
		sv[i] = screenVertex{
			X:    (ndc.X + 1) * 0.5 * float64(r.Width()),
			Y:    (1 - ndc.Y) * 0.5 * float64(r.Height()),
			InvW: 1 / clipPos.W,
		}
	}

	r.CullingStats.TrianglesDrawn++
	for i := 1; i+1 < len(sv); i++ {
		r.fill(sv[0], sv[i], sv[i+1], lit)
	}
}

// clipNear clips a convex view-space polygon to z <= -near
// (Sutherland-Hodgman against a single plane).
func clipNear(poly []viewVertex, near float64) []viewVertex {
	inside := func(v viewVertex) bool { return v.Z <= -near }

	out := make([]viewVertex, 0, len(poly)+1)
	for i, cur := range poly {
		prev := poly[(i+len(poly)-1)%len(poly)]
		curIn, prevIn := inside(cur), inside(prev)

		if curIn != prevIn {
			t := (-near - prev.Z) / (cur.Z - prev.Z)
			out = append(out, prev.Lerp(cur, t))
		}
		if curIn {
			out = append(out, cur)
		}
	}
	return out
}

// fill rasterizes a screen-space triangle with a flat color, per-pixel
// depth test and fog.
func (r *Rasterizer) fill(a, b, c screenVertex, col Color) {
	area := edge(a.X, a.Y, b.X, b.Y, c.X, c.Y)
	if area == 0 {
		return
	}
	invArea := 1 / area

	minX := max(0, int(math.Floor(min3(a.X, b.X, c.X))))
	maxX := min(r.Width()-1, int(math.Ceil(max3(a.X, b.X, c.X))))
	minY := max(0, int(math.Floor(min3(a.Y, b.Y, c.Y))))
	maxY := min(r.Height()-1, int(math.Ceil(max3(a.Y, b.Y, c.Y))))

	fogOn := r.Fog.Enabled()
	w := r.Width()

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			// Normalized edge functions are the barycentric weights and are
			// all non-negative inside, whatever the screen winding.
			w0 := edge(b.X, b.Y, c.X, c.Y, px, py) * invArea
			w1 := edge(c.X, c.Y, a.X, a.Y, px, py) * invArea
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			invW := w0*a.InvW + w1*b.InvW + w2*c.InvW
			i := y*w + x
			if invW <= r.zbuffer[i] {
				continue
			}
			r.zbuffer[i] = invW

			out := col
			if fogOn {
				out = r.Fog.Apply(col, 1/invW)
			}
			r.fb.Pixels[i] = out
		}
	}
}

// edge returns twice the signed area of triangle (a, b, p).
func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// DrawMesh renders a mesh with the given transform and color. Meshes that
// report bounds are frustum culled first.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	if bm, ok := mesh.(BoundedMeshRenderer); ok {
		lo, hi := bm.GetBounds()
		if !r.IsVisible(math3d.NewAABB(lo, hi).Transform(transform)) {
			return
		}
	}

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		p0, _, _ := mesh.GetVertex(face[0])
		p1, _, _ := mesh.GetVertex(face[1])
		p2, _, _ := mesh.GetVertex(face[2])
		r.DrawTriangle(transform.MulVec3(p0), transform.MulVec3(p1), transform.MulVec3(p2), color)
	}
}

// boxFaces indexes math3d.AABB.Corners, counter-clockwise from outside.
var boxFaces = [6][4]int{
	{4, 5, 6, 7}, // +Z
	{1, 0, 3, 2}, // -Z
	{5, 1, 2, 6}, // +X
	{0, 4, 7, 3}, // -X
	{7, 6, 2, 3}, // +Y
	{0, 1, 5, 4}, // -Y
}

// DrawBox draws a solid world-space box, frustum culled.
func (r *Rasterizer) DrawBox(box math3d.AABB, color Color) {
	if !r.IsVisible(box) {
		return
	}
	c := box.Corners()
	for _, f := range boxFaces {
		r.DrawTriangle(c[f[0]], c[f[1]], c[f[2]], color)
		r.DrawTriangle(c[f[0]], c[f[2]], c[f[3]], color)
	}
}
