package models

import (
	"github.com/taigrr/boxarena/pkg/math3d"
)

// NewBoxMesh creates a w x h x d box centered on the origin. Each face has
// its own 4 vertices so normals stay flat.
func NewBoxMesh(w, h, d float64) *Mesh {
	x, y, z := w/2, h/2, d/2
	m := NewMesh("box")

	// Corners listed counter-clockwise as seen from outside the face.
	faces := []struct {
		normal  math3d.Vec3
		corners [4]math3d.Vec3
	}{
		{math3d.V3(0, 0, 1), [4]math3d.Vec3{{X: -x, Y: -y, Z: z}, {X: x, Y: -y, Z: z}, {X: x, Y: y, Z: z}, {X: -x, Y: y, Z: z}}},
		{math3d.V3(0, 0, -1), [4]math3d.Vec3{{X: x, Y: -y, Z: -z}, {X: -x, Y: -y, Z: -z}, {X: -x, Y: y, Z: -z}, {X: x, Y: y, Z: -z}}},
		{math3d.V3(1, 0, 0), [4]math3d.Vec3{{X: x, Y: -y, Z: z}, {X: x, Y: -y, Z: -z}, {X: x, Y: y, Z: -z}, {X: x, Y: y, Z: z}}},
		{math3d.V3(-1, 0, 0), [4]math3d.Vec3{{X: -x, Y: -y, Z: -z}, {X: -x, Y: -y, Z: z}, {X: -x, Y: y, Z: z}, {X: -x, Y: y, Z: -z}}},
		{math3d.V3(0, 1, 0), [4]math3d.Vec3{{X: -x, Y: y, Z: z}, {X: x, Y: y, Z: z}, {X: x, Y: y, Z: -z}, {X: -x, Y: y, Z: -z}}},
		{math3d.V3(0, -1, 0), [4]math3d.Vec3{{X: -x, Y: -y, Z: -z}, {X: x, Y: -y, Z: -z}, {X: x, Y: -y, Z: z}, {X: -x, Y: -y, Z: z}}},
	}

	uvs := [4]math3d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	for _, f := range faces {
		base := len(m.Vertices)
		for i, c := range f.corners {
			m.Vertices = append(m.Vertices, MeshVertex{Position: c, Normal: f.normal, UV: uvs[i]})
		}
		m.Faces = append(m.Faces,
			Face{V: [3]int{base, base + 1, base + 2}},
			Face{V: [3]int{base, base + 2, base + 3}},
		)
	}

	m.CalculateBounds()
	return m
}

// NewPlaneMesh creates a w x d floor in the XZ plane at y=0, facing +Y,
// split into segments x segments quads. Subdividing keeps near-plane
// clipping local to the tiles around the camera.
func NewPlaneMesh(w, d float64, segments int) *Mesh {
	segments = max(segments, 1)
	m := NewMesh("floor")

	for iz := 0; iz <= segments; iz++ {
		for ix := 0; ix <= segments; ix++ {
			u := float64(ix) / float64(segments)
			v := float64(iz) / float64(segments)
			m.Vertices = append(m.Vertices, MeshVertex{
				Position: math3d.V3(-w/2+u*w, 0, -d/2+v*d),
				Normal:   math3d.Up(),
				UV:       math3d.V2(u, v),
			})
		}
	}

	row := segments + 1
	for iz := range segments {
		for ix := range segments {
			a := iz*row + ix // (-x, -z) corner of the tile
			b := a + 1
			c := a + row
			dd := c + 1
			// Seen from above (+Y), a -> c -> dd -> b is counter-clockwise.
			m.Faces = append(m.Faces,
				Face{V: [3]int{a, c, dd}},
				Face{V: [3]int{a, dd, b}},
			)
		}
	}

	m.CalculateBounds()
	return m
}
