package game

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/boxarena/internal/config"
	"github.com/taigrr/boxarena/pkg/math3d"
	"github.com/taigrr/boxarena/pkg/render"
)

// testClock is a manually advanced clock.
type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestGame(t *testing.T, preset string) (*Game, *testClock) {
	t.Helper()
	cfg, err := config.Preset(preset)
	require.NoError(t, err)
	cfg.Seed = 1
	cfg.Boxes.Count = 0

	g := New(cfg, nil)
	clock := &testClock{t: time.Unix(1000, 0)}
	g.now = clock.Now
	return g, clock
}

func addBox(g *Game, center, size math3d.Vec3) *Box {
	b := &Box{
		ID:     [16]byte{byte(len(g.World.Boxes) + 1)},
		Bounds: math3d.AABBFromCenter(center, size),
		Color:  g.cfg.BoxColor(),
	}
	g.World.Boxes = append(g.World.Boxes, b)
	return b
}

func TestNewWorldIsReproducible(t *testing.T) {
	cfg := config.DefaultConfig()

	a := NewWorld(cfg, rand.New(rand.NewSource(42)))
	b := NewWorld(cfg, rand.New(rand.NewSource(42)))
	c := NewWorld(cfg, rand.New(rand.NewSource(43)))

	require.Len(t, a.Boxes, 20)
	for i := range a.Boxes {
		assert.Equal(t, a.Boxes[i].ID, b.Boxes[i].ID)
		assert.Equal(t, a.Boxes[i].Bounds, b.Boxes[i].Bounds)
	}
	assert.NotEqual(t, a.Boxes[0].Bounds, c.Boxes[0].Bounds)
}

func TestNewWorldPlacesBoxesOnFloor(t *testing.T) {
	cfg := config.DefaultConfig()
	w := NewWorld(cfg, rand.New(rand.NewSource(7)))

	ids := map[string]bool{}
	for _, b := range w.Boxes {
		c := b.Bounds.Center()
		assert.InDelta(t, 0, b.Bounds.Min.Y, 1e-9, "box should rest on the floor")
		assert.InDelta(t, 4, b.Bounds.Size().Y, 1e-9)
		assert.True(t, c.X >= -25 && c.X < 25, "x=%v out of spread", c.X)
		assert.True(t, c.Z >= -25 && c.Z < 25, "z=%v out of spread", c.Z)
		assert.Equal(t, render.Hex(0x880000), b.Color)
		ids[b.ID.String()] = true
	}
	assert.Len(t, ids, len(w.Boxes), "box IDs should be unique")
	assert.Equal(t, 20, w.Remaining())
}

func TestWorldRaycastPicksNearest(t *testing.T) {
	g, _ := newTestGame(t, config.PresetShooter)
	far := addBox(g, math3d.V3(0, 1, -10), math3d.V3(2, 2, 2))
	near := addBox(g, math3d.V3(0, 1, -5), math3d.V3(2, 2, 2))
	addBox(g, math3d.V3(10, 1, 0), math3d.V3(2, 2, 2))

	ray := math3d.NewRay(math3d.V3(0, 1.6, 0), math3d.V3(0, 0, -1))

	box, dist, ok := g.World.Raycast(ray, 0)
	require.True(t, ok)
	assert.Same(t, near, box)
	assert.InDelta(t, 4, dist, 1e-9)

	_, _, ok = g.World.Raycast(ray, 3)
	assert.False(t, ok, "range should stop short of the first box")

	require.True(t, g.World.Remove(near.ID))
	box, _, ok = g.World.Raycast(ray, 0)
	require.True(t, ok)
	assert.Same(t, far, box)
	assert.False(t, g.World.Remove(near.ID))
	assert.NotContains(t, g.World.Boxes, near)
}

func TestInputLatchesWithoutReleases(t *testing.T) {
	in := NewInput(150*time.Millisecond, 500*time.Millisecond)
	now := time.Unix(0, 0)
	at := func(ms int) time.Time { return now.Add(time.Duration(ms) * time.Millisecond) }

	in.Press(KeyForward, now)
	assert.True(t, in.Held(KeyForward, at(100)))
	assert.False(t, in.Held(KeyBackward, at(100)))
	assert.False(t, in.Held(KeyForward, at(600)), "a tap ends after the repeat delay")

	// A fresh press bridges the gap until auto-repeat starts
	in.Press(KeyForward, at(1000))
	assert.True(t, in.Held(KeyForward, at(1400)), "waiting for the first repeat")

	// Once repeating, each repeat only holds for the short window
	in.Press(KeyForward, at(1450))
	assert.True(t, in.Held(KeyForward, at(1550)))
	in.Press(KeyForward, at(1580))
	assert.True(t, in.Held(KeyForward, at(1700)))
	assert.False(t, in.Held(KeyForward, at(1800)), "released when repeats stop")
}

func TestInputTrustsReleasesOnceSeen(t *testing.T) {
	in := NewInput(150*time.Millisecond, 500*time.Millisecond)
	now := time.Unix(0, 0)

	in.Press(KeyLeft, now)
	in.Release(KeyLeft)
	assert.False(t, in.Held(KeyLeft, now))

	in.Press(KeyLeft, now)
	assert.True(t, in.Held(KeyLeft, now.Add(10*time.Second)), "held until released")
	in.Release(KeyLeft)
	assert.False(t, in.Held(KeyLeft, now.Add(10*time.Second)))
}

func TestLookupKey(t *testing.T) {
	for name, want := range map[string]Key{"w": KeyForward, "up": KeyForward, "a": KeyLeft, "right": KeyRight, "s": KeyBackward} {
		got, ok := LookupKey(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := LookupKey("x")
	assert.False(t, ok)
}

func TestPlayerAcceleratesForward(t *testing.T) {
	g, _ := newTestGame(t, config.PresetClassic)
	g.Lock()
	g.KeyDown("w")

	g.Update(0.1)

	// v.z = -100*0.1 = -10, moved 10*0.1 = 1 along -Z
	assert.InDelta(t, -10, g.Player.Velocity.Z, 1e-9)
	assert.InDelta(t, -1, g.Camera.Position.Z, 1e-9)
	assert.InDelta(t, 1.6, g.Camera.Position.Y, 1e-9)
}

func TestPlayerFrictionDecays(t *testing.T) {
	p := &Player{Acceleration: 100, Friction: 10}
	p.Velocity = math3d.V3(0, 0, -10)
	cam := render.NewCamera()

	p.Update(cam, MoveState{}, 0.05, nil)

	assert.InDelta(t, -5, p.Velocity.Z, 1e-9)
	assert.InDelta(t, -0.25, cam.Position.Z, 1e-9)
}

func TestPlayerDiagonalIsNormalized(t *testing.T) {
	p := &Player{Acceleration: 100, Friction: 10}
	cam := render.NewCamera()

	p.Update(cam, MoveState{Forward: true, Right: true}, 0.1, nil)

	assert.InDelta(t, 1, math.Hypot(cam.Position.X, cam.Position.Z), 1e-9)
	assert.InDelta(t, cam.Position.X, -cam.Position.Z, 1e-9)
	assert.Greater(t, cam.Position.X, 0.0)
}

func TestPlayerOpposingKeysCancel(t *testing.T) {
	p := &Player{Acceleration: 100, Friction: 10}
	cam := render.NewCamera()

	p.Update(cam, MoveState{Forward: true, Backward: true}, 0.1, nil)

	assert.Equal(t, math3d.Zero3(), cam.Position)
}

func TestPlayerCollisionPushesOut(t *testing.T) {
	g, _ := newTestGame(t, config.PresetClassic)
	g.Player.Collision = true
	addBox(g, math3d.V3(0, 2, -2), math3d.V3(2, 4, 2))
	g.Lock()

	for range 20 {
		g.KeyDown("w")
		g.Update(0.05)
	}

	assert.GreaterOrEqual(t, g.Camera.Position.Z, -1-g.Player.Radius-1e-9, "eye entered the box")
}

func TestUpdateIgnoredWhileUnlocked(t *testing.T) {
	g, _ := newTestGame(t, config.PresetClassic)
	g.KeyDown("w")
	g.Update(0.1)
	g.Look(10, 10)

	assert.Equal(t, math3d.V3(0, 1.6, 0), g.Camera.Position)
	assert.Zero(t, g.Camera.Yaw)
}

func TestUpdateClampsDelta(t *testing.T) {
	a, _ := newTestGame(t, config.PresetClassic)
	b, _ := newTestGame(t, config.PresetClassic)
	for _, g := range []*Game{a, b} {
		g.Lock()
		g.KeyDown("d")
	}

	a.Update(5)
	b.Update(MaxDelta)

	assert.InDelta(t, b.Camera.Position.X, a.Camera.Position.X, 1e-12)
	assert.Greater(t, a.Camera.Position.X, 0.0)
}

func TestUnlockStopsPlayer(t *testing.T) {
	g, _ := newTestGame(t, config.PresetClassic)
	g.Lock()
	g.KeyDown("w")
	g.Update(0.1)
	require.True(t, g.Locked())

	g.Unlock()
	assert.False(t, g.Locked())
	assert.Equal(t, math3d.Zero3(), g.Player.Velocity)
}

func TestLookTurnsWithMouse(t *testing.T) {
	g, _ := newTestGame(t, config.PresetClassic)
	g.Lock()

	g.Look(10, 0)
	assert.Less(t, g.Camera.Yaw, 0.0, "moving right should turn right")

	g.Look(0, 10)
	assert.Less(t, g.Camera.Pitch, 0.0, "moving down should look down")
}

func TestShootRecolorsHitBox(t *testing.T) {
	g, clock := newTestGame(t, config.PresetShooter)
	box := addBox(g, math3d.V3(0, 1, -5), math3d.V3(2, 2, 2))
	g.Lock()

	res := g.Shoot()
	require.True(t, res.Fired)
	require.Same(t, box, res.Hit)
	assert.True(t, box.Hit)
	assert.Equal(t, g.cfg.HitColor(), box.Color)
	assert.False(t, res.Removed)
	assert.Len(t, g.World.Boxes, 1, "boxes stay by default")

	// Cooling down
	res = g.Shoot()
	assert.False(t, res.Fired)

	clock.Advance(time.Second)
	g.Camera.Rotate(0, math.Pi) // face away
	res = g.Shoot()
	assert.True(t, res.Fired)
	assert.Nil(t, res.Hit)

	assert.Equal(t, Stats{Shots: 2, Hits: 1, BoxesLeft: 0}, g.Stats())
}

func TestShootRemovesWhenConfigured(t *testing.T) {
	g, _ := newTestGame(t, config.PresetShooter)
	g.Weapon.RemoveOnHit = true
	addBox(g, math3d.V3(0, 1, -5), math3d.V3(2, 2, 2))
	g.Lock()

	res := g.Shoot()
	assert.True(t, res.Removed)
	assert.Empty(t, g.World.Boxes)
	assert.Equal(t, 1, g.Stats().Removed)
}

func TestShootRequiresWeaponAndLock(t *testing.T) {
	g, _ := newTestGame(t, config.PresetClassic)
	addBox(g, math3d.V3(0, 1, -5), math3d.V3(2, 2, 2))

	assert.False(t, g.Shoot().Fired, "unlocked")
	g.Lock()
	assert.False(t, g.Shoot().Fired, "classic has no weapon")
	assert.Zero(t, g.Stats().Shots)
}

func TestWeaponFlashDecays(t *testing.T) {
	g, _ := newTestGame(t, config.PresetFlash)
	g.Lock()
	g.Shoot()

	assert.Equal(t, 1.0, g.Weapon.Flash())

	g.Update(0.05)
	assert.Equal(t, 1.0, g.Weapon.Flash(), "holds for the flash duration")

	for range 120 {
		g.Update(1.0 / 60)
	}
	assert.Zero(t, g.Weapon.Flash())
}

func TestWeaponFlashDecayIgnoresFrameRate(t *testing.T) {
	fire := func() *Weapon {
		w := NewWeapon(60)
		w.Enabled = true
		w.FlashEnabled = true
		require.True(t, w.Fire(render.NewCamera(), &World{}, time.Unix(0, 0)).Fired)
		return w
	}

	smooth := fire()
	for range 12 {
		smooth.Update(1.0 / 60)
	}
	choppy := fire()
	for range 3 {
		choppy.Update(1.0 / 15)
	}

	// Critically damped from 1 at omega 12: (1+12t)e^(-12t) at t=0.2
	want := 3.4 * math.Exp(-2.4)
	assert.InDelta(t, want, smooth.Flash(), 1e-3)
	assert.InDelta(t, want, choppy.Flash(), 1e-3)
}

func TestShooterHasNoFlash(t *testing.T) {
	g, _ := newTestGame(t, config.PresetShooter)
	g.Lock()
	require.True(t, g.Shoot().Fired)
	assert.Zero(t, g.Weapon.Flash())
}

func TestRegenerate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Seed = 99
	g := New(cfg, nil)
	first := g.World.Boxes[0].Bounds

	g.Lock()
	g.KeyDown("w")
	g.Update(0.1)

	g.Regenerate(99)
	assert.Equal(t, first, g.World.Boxes[0].Bounds)
	assert.Equal(t, int64(99), g.Seed())
	assert.Equal(t, math3d.V3(0, 1.6, 0), g.Camera.Position)

	g.Regenerate(0)
	assert.NotZero(t, g.Seed())
}

func TestResizeSetsAspect(t *testing.T) {
	g, _ := newTestGame(t, config.PresetClassic)
	g.Resize(160, 90)
	assert.InDelta(t, 16.0/9.0, g.Camera.AspectRatio, 1e-9)

	g.Resize(0, 10)
	assert.InDelta(t, 16.0/9.0, g.Camera.AspectRatio, 1e-9)
}
