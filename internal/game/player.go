package game

import (
	"math"

	"github.com/taigrr/boxarena/pkg/math3d"
	"github.com/taigrr/boxarena/pkg/render"
)

// Player integrates first-person velocity. Velocity is camera-relative:
// X is strafe and Z is forward/back, with forward negative.
type Player struct {
	Velocity math3d.Vec3

	Acceleration float64
	Friction     float64

	// Collision pushes the eye out of box footprints grown by Radius.
	Collision bool
	Radius    float64
	EyeHeight float64
}

// Update advances the player by dt seconds and moves the camera.
func (p *Player) Update(cam *render.Camera, mv MoveState, dt float64, world *World) {
	// Exponential friction
	p.Velocity.X -= p.Velocity.X * p.Friction * dt
	p.Velocity.Z -= p.Velocity.Z * p.Friction * dt

	dir := math3d.V3(b2f(mv.Right)-b2f(mv.Left), 0, b2f(mv.Forward)-b2f(mv.Backward)).Normalize()

	if mv.Forward || mv.Backward {
		p.Velocity.Z -= dir.Z * p.Acceleration * dt
	}
	if mv.Left || mv.Right {
		p.Velocity.X -= dir.X * p.Acceleration * dt
	}

	cam.MoveRight(-p.Velocity.X * dt)
	cam.MoveForward(-p.Velocity.Z * dt)

	if p.Collision && world != nil {
		p.resolve(cam, world)
	}
}

// Stop zeroes the velocity.
func (p *Player) Stop() {
	p.Velocity = math3d.Zero3()
}

// resolve pushes the eye out of every box it stands inside along the axis of
// least penetration.
func (p *Player) resolve(cam *render.Camera, world *World) {
	pos := cam.Position
	feet := pos.Y - p.EyeHeight

	for _, b := range world.Boxes {
		if feet >= b.Bounds.Max.Y || pos.Y <= b.Bounds.Min.Y {
			continue
		}
		fp := b.Bounds.Expand(p.Radius)
		minX, maxX := fp.Min.X, fp.Max.X
		minZ, maxZ := fp.Min.Z, fp.Max.Z
		if pos.X <= minX || pos.X >= maxX || pos.Z <= minZ || pos.Z >= maxZ {
			continue
		}

		pushes := [4]float64{minX - pos.X, maxX - pos.X, minZ - pos.Z, maxZ - pos.Z}
		best := 0
		for i := range pushes {
			if math.Abs(pushes[i]) < math.Abs(pushes[best]) {
				best = i
			}
		}
		if best < 2 {
			pos.X += pushes[best]
		} else {
			pos.Z += pushes[best]
		}
	}

	if pos != cam.Position {
		cam.SetPosition(pos)
	}
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
