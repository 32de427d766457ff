package game

import (
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/boxarena/pkg/render"
)

// ShotResult describes one trigger pull.
type ShotResult struct {
	Fired    bool // false when disabled or cooling down
	Hit      *Box
	Distance float64
	Removed  bool
}

// Weapon is a hitscan gun fired from the centre of the view.
type Weapon struct {
	Enabled     bool
	Range       float64 // 0 = unlimited
	Cooldown    time.Duration
	RemoveOnHit bool
	HitColor    render.Color

	FlashEnabled  bool
	FlashDuration time.Duration

	lastShot time.Time

	// flash holds at full strength for FlashDuration, then a critically
	// damped spring eases it back to 0.
	flash     float64
	flashVel  float64
	flashLeft time.Duration
	spring    harmonica.Spring
	step      float64 // seconds per spring update
	pending   float64 // decay time not yet stepped
}

// NewWeapon creates a weapon whose flash spring steps at fps.
func NewWeapon(fps int) *Weapon {
	fps = max(fps, 1)
	return &Weapon{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 12.0, 1.0),
		step:   harmonica.FPS(fps),
	}
}

// Ready reports whether the weapon can fire at now.
func (w *Weapon) Ready(now time.Time) bool {
	return w.Enabled && (w.lastShot.IsZero() || now.Sub(w.lastShot) >= w.Cooldown)
}

// Fire casts a ray from the camera through the screen centre and marks the
// nearest box it hits.
func (w *Weapon) Fire(cam *render.Camera, world *World, now time.Time) ShotResult {
	if !w.Ready(now) {
		return ShotResult{}
	}
	w.lastShot = now

	if w.FlashEnabled {
		w.flash = 1
		w.flashVel = 0
		w.flashLeft = w.FlashDuration
		w.pending = 0
	}

	res := ShotResult{Fired: true}
	box, dist, ok := world.Raycast(cam.ViewRay(), w.Range)
	if !ok {
		return res
	}

	box.Hit = true
	box.Color = w.HitColor
	res.Hit = box
	res.Distance = dist

	if w.RemoveOnHit {
		res.Removed = world.Remove(box.ID)
	}
	return res
}

// Update advances the flash by dt seconds. The spring moves in whole steps
// of its own rate, so the decay takes the same wall time at any frame rate.
func (w *Weapon) Update(dt float64) {
	if w.flashLeft > 0 {
		w.flashLeft -= time.Duration(dt * float64(time.Second))
		if w.flashLeft > 0 {
			return
		}
		dt = -w.flashLeft.Seconds()
		w.flashLeft = 0
	}
	if w.flash == 0 {
		w.pending = 0
		return
	}

	w.pending += dt
	for w.pending >= w.step-1e-9 && w.flash != 0 {
		w.pending -= w.step
		w.flash, w.flashVel = w.spring.Update(w.flash, w.flashVel, 0)
		if w.flash < 0.01 {
			w.flash, w.flashVel = 0, 0
		}
	}
}

// Flash returns the overlay opacity in [0, 1].
func (w *Weapon) Flash() float64 {
	return max(0, min(1, w.flash))
}
