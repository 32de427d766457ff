package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/taigrr/boxarena/internal/config"
	"github.com/taigrr/boxarena/pkg/math3d"
	"github.com/taigrr/boxarena/pkg/render"
	"go.uber.org/zap"
)

// MaxDelta caps the frame delta so a stall doesn't fling the player.
const MaxDelta = 0.1

// Stats are the running session counters. They survive Regenerate.
type Stats struct {
	Shots     int
	Hits      int
	Removed   int
	BoxesLeft int
}

// Game owns the world, camera, player, input and weapon, plus the
// pointer-lock state that gates movement and shooting.
type Game struct {
	World  *World
	Camera *render.Camera
	Player *Player
	Input  *Input
	Weapon *Weapon

	cfg         *config.Config
	log         *zap.Logger
	seed        int64
	locked      bool
	sensitivity float64
	stats       Stats
	now         func() time.Time
}

// New builds a game from cfg. A zero cfg.Seed seeds from the clock.
func New(cfg *config.Config, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}

	cam := render.NewCamera()
	cam.SetFOV(cfg.Render.FOV * math.Pi / 180)
	cam.SetClipPlanes(cfg.Render.Near, cfg.Render.Far)

	w := NewWeapon(cfg.Render.FPS)
	w.Enabled = cfg.Weapon.Enabled
	w.Range = cfg.Weapon.Range
	w.Cooldown = cfg.GetCooldown()
	w.RemoveOnHit = cfg.Weapon.RemoveOnHit
	w.HitColor = cfg.HitColor()
	w.FlashEnabled = cfg.Weapon.Flash
	w.FlashDuration = cfg.GetFlashDuration()

	g := &Game{
		Camera: cam,
		Player: &Player{
			Acceleration: cfg.Player.Acceleration,
			Friction:     cfg.Player.Friction,
			Collision:    cfg.Player.Collision,
			Radius:       cfg.Player.Radius,
			EyeHeight:    cfg.Player.EyeHeight,
		},
		Input:       NewInput(cfg.GetKeyHold(), cfg.GetKeyDelay()),
		Weapon:      w,
		cfg:         cfg,
		log:         log,
		sensitivity: cfg.Player.Sensitivity,
		now:         time.Now,
	}
	g.Regenerate(cfg.Seed)
	return g
}

// Regenerate rebuilds the world from seed (0 = clock) and puts the player
// back at the centre.
func (g *Game) Regenerate(seed int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.seed = seed
	g.World = NewWorld(g.cfg, rand.New(rand.NewSource(seed)))

	g.Camera.SetPosition(math3d.V3(0, g.cfg.Player.EyeHeight, 0))
	g.Camera.SetRotation(0, 0)
	g.Player.Stop()
	g.Input.Reset()

	g.log.Info("world generated",
		zap.Int64("seed", seed),
		zap.Int("boxes", len(g.World.Boxes)))
}

// Seed returns the seed of the current world.
func (g *Game) Seed() int64 {
	return g.seed
}

// Config returns the config the game was built from.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Lock captures the pointer; movement, look and shooting are live.
func (g *Game) Lock() {
	if !g.locked {
		g.locked = true
		g.log.Debug("pointer locked")
	}
}

// Unlock releases the pointer and stops the player.
func (g *Game) Unlock() {
	if g.locked {
		g.locked = false
		g.Input.Reset()
		g.Player.Stop()
		g.log.Debug("pointer unlocked")
	}
}

// Locked reports whether the pointer is captured.
func (g *Game) Locked() bool {
	return g.locked
}

// KeyDown feeds a key press or repeat. It reports whether the key moves.
func (g *Game) KeyDown(name string) bool {
	k, ok := LookupKey(name)
	if ok {
		g.Input.Press(k, g.now())
	}
	return ok
}

// KeyUp feeds a key release.
func (g *Game) KeyUp(name string) bool {
	k, ok := LookupKey(name)
	if ok {
		g.Input.Release(k)
	}
	return ok
}

// Update advances the game by dt seconds, capped at MaxDelta. The player
// only moves while locked.
func (g *Game) Update(dt float64) {
	dt = max(0, min(dt, MaxDelta))

	g.Weapon.Update(dt)

	if !g.locked {
		return
	}
	g.Player.Update(g.Camera, g.Input.State(g.now()), dt, g.World)
}

// Look turns the view by a mouse delta in cells. Moving right turns right
// and moving down looks down.
func (g *Game) Look(dx, dy float64) {
	if !g.locked {
		return
	}
	g.Camera.Rotate(-dy*g.sensitivity, -dx*g.sensitivity)
}

// Shoot fires the weapon while locked.
func (g *Game) Shoot() ShotResult {
	if !g.locked {
		return ShotResult{}
	}

	res := g.Weapon.Fire(g.Camera, g.World, g.now())
	if !res.Fired {
		return res
	}

	g.stats.Shots++
	if res.Hit != nil {
		g.stats.Hits++
		if res.Removed {
			g.stats.Removed++
		}
		g.log.Debug("box hit",
			zap.String("box", res.Hit.ID.String()),
			zap.Float64("distance", res.Distance),
			zap.Bool("removed", res.Removed))
	}
	return res
}

// Resize updates the camera for a width x height pixel target.
func (g *Game) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	g.Camera.SetAspectRatio(float64(width) / float64(height))
}

// Stats returns the session counters.
func (g *Game) Stats() Stats {
	s := g.stats
	s.BoxesLeft = g.World.Remaining()
	return s
}
