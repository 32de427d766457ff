package render

import (
	"math"

	"github.com/taigrr/boxarena/pkg/math3d"
)

// maxPitch keeps the view just short of straight up/down.
const maxPitch = math.Pi/2 - 0.01

// Camera is a first-person camera with yaw/pitch orientation and no roll.
type Camera struct {
	// Position in world space (the eye)
	Position math3d.Vec3

	Pitch float64 // Look up (+) / down (-), radians
	Yaw   float64 // Turn left (+) / right (-), radians

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64
	Far         float64

	// Cached matrices (computed on demand)
	viewMatrix math3d.Mat4
	projMatrix math3d.Mat4
	viewProj   math3d.Mat4
	viewDirty  bool
	projDirty  bool
	vpDirty    bool
}

// NewCamera creates a camera at the origin looking down -Z with a 75 degree
// vertical FOV.
func NewCamera() *Camera {
	return &Camera{
		FOV:         75 * math.Pi / 180,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         1000,
		viewDirty:   true,
		projDirty:   true,
		vpDirty:     true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.markView()
}

// SetRotation sets pitch and yaw in radians. Pitch is clamped.
func (c *Camera) SetRotation(pitch, yaw float64) {
	c.Pitch = clampPitch(pitch)
	c.Yaw = yaw
	c.markView()
}

// SetFOV sets the vertical field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.markProj()
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.markProj()
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.markProj()
}

func (c *Camera) markView() {
	c.viewDirty = true
	c.vpDirty = true
}

func (c *Camera) markProj() {
	c.projDirty = true
	c.vpDirty = true
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// Right returns the horizontal right vector.
func (c *Camera) Right() math3d.Vec3 {
	return math3d.V3(math.Cos(c.Yaw), 0, -math.Sin(c.Yaw))
}

// Up returns the camera's up vector (tilted with pitch).
func (c *Camera) Up() math3d.Vec3 {
	return c.Right().Cross(c.Forward())
}

// GroundForward returns the forward direction projected onto the XZ plane.
func (c *Camera) GroundForward() math3d.Vec3 {
	return math3d.V3(-math.Sin(c.Yaw), 0, -math.Cos(c.Yaw))
}

// MoveForward moves along the ground-projected view direction, so looking
// up or down never changes the eye height.
func (c *Camera) MoveForward(distance float64) {
	c.Position = c.Position.Add(c.GroundForward().Scale(distance))
	c.markView()
}

// MoveRight strafes along the horizontal right vector.
func (c *Camera) MoveRight(distance float64) {
	c.Position = c.Position.Add(c.Right().Scale(distance))
	c.markView()
}

// Rotate turns the camera by the given deltas (in radians). Pitch is clamped.
func (c *Camera) Rotate(deltaPitch, deltaYaw float64) {
	c.Pitch = clampPitch(c.Pitch + deltaPitch)
	c.Yaw = math.Remainder(c.Yaw+deltaYaw, 2*math.Pi)
	c.markView()
}

func clampPitch(p float64) float64 {
	return math.Max(-maxPitch, math.Min(maxPitch, p))
}

// ViewMatrix returns the world-to-view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		rot := math3d.RotateX(-c.Pitch).Mul(math3d.RotateY(-c.Yaw))
		c.viewMatrix = rot.Mul(math3d.Translate(c.Position.Negate()))
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.vpDirty {
		c.viewProj = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.vpDirty = false
	}
	return c.viewProj
}

// ViewRay returns the ray through the center of the screen.
func (c *Camera) ViewRay() math3d.Ray {
	return math3d.NewRay(c.Position, c.Forward())
}

// ScreenRay returns the ray through pixel (x, y) of a width x height target.
func (c *Camera) ScreenRay(x, y float64, width, height int) math3d.Ray {
	ndcX := 2*x/float64(width) - 1
	ndcY := 1 - 2*y/float64(height)
	t := math.Tan(c.FOV / 2)

	dir := c.Forward().
		Add(c.Right().Scale(ndcX * t * c.AspectRatio)).
		Add(c.Up().Scale(ndcY * t))
	return math3d.NewRay(c.Position, dir)
}
