package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V4(1, 2, 3, 1)

	for b.Loop() {
		_ = m.MulVec4(v)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkViewProjection(b *testing.B) {
	// Same composition the camera uses for a yaw/pitch view
	view := RotateX(-0.2).Mul(RotateY(-0.7)).Mul(Translate(V3(-3, -1.6, -4)))
	proj := Perspective(75*3.14159/180, 1.333, 0.1, 1000.0)

	for b.Loop() {
		_ = proj.Mul(view)
	}
}

func BenchmarkRayAABB(b *testing.B) {
	box := AABBFromCenter(V3(0, 2, -10), V3(2, 4, 2))
	r := NewRay(V3(0.3, 1.6, 0), V3(0, 0, -1))

	for b.Loop() {
		_, _ = box.IntersectRay(r, 100)
	}
}
