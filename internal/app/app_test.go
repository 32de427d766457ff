package app

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/boxarena/internal/config"
	"github.com/taigrr/boxarena/internal/stats"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestApp(t *testing.T, preset string) *App {
	t.Helper()
	cfg, err := config.Preset(preset)
	require.NoError(t, err)
	cfg.Seed = 1
	cfg.Render.FPS = 200

	a, err := New(cfg, nil, nil)
	require.NoError(t, err)
	return a
}

func key(code rune) uv.KeyPressEvent {
	return uv.KeyPressEvent{Code: code}
}

func click(x, y int) uv.MouseClickEvent {
	return uv.MouseClickEvent{X: x, Y: y, Button: uv.MouseLeft}
}

func TestHandleEventLockAndEscape(t *testing.T) {
	a := newTestApp(t, config.PresetShooter)

	assert.False(t, a.HandleEvent(click(10, 5)))
	assert.True(t, a.game.Locked(), "click locks")

	assert.False(t, a.HandleEvent(key(uv.KeyEscape)), "first escape only unlocks")
	assert.False(t, a.game.Locked())

	assert.True(t, a.HandleEvent(key(uv.KeyEscape)), "escape while unlocked quits")
}

func TestHandleEventCtrlCQuits(t *testing.T) {
	a := newTestApp(t, config.PresetClassic)
	a.HandleEvent(click(0, 0))
	assert.True(t, a.HandleEvent(uv.KeyPressEvent{Code: 'c', Mod: uv.ModCtrl}))
}

func TestHandleEventClickShootsWhenLocked(t *testing.T) {
	a := newTestApp(t, config.PresetShooter)

	a.HandleEvent(click(10, 5))
	assert.Zero(t, a.game.Stats().Shots, "locking click does not shoot")

	a.HandleEvent(click(10, 5))
	assert.Equal(t, 1, a.game.Stats().Shots)

	a.HandleEvent(uv.MouseClickEvent{X: 10, Y: 5, Button: uv.MouseRight})
	assert.Equal(t, 1, a.game.Stats().Shots, "only the left button shoots")
}

func TestHandleEventSpaceShoots(t *testing.T) {
	a := newTestApp(t, config.PresetShooter)
	a.HandleEvent(click(0, 0))
	a.HandleEvent(key(uv.KeySpace))
	assert.Equal(t, 1, a.game.Stats().Shots)
}

func TestHandleEventMouseLook(t *testing.T) {
	a := newTestApp(t, config.PresetClassic)

	a.HandleEvent(uv.MouseMotionEvent{X: 50, Y: 10})
	assert.Zero(t, a.game.Camera.Yaw, "no look while unlocked")

	a.HandleEvent(click(20, 10))
	a.HandleEvent(uv.MouseMotionEvent{X: 30, Y: 10})
	assert.Less(t, a.game.Camera.Yaw, 0.0, "moving right turns right")

	yaw := a.game.Camera.Yaw
	a.HandleEvent(key('q'))
	assert.Greater(t, a.game.Camera.Yaw, yaw, "q turns left")
}

func TestHandleEventToggles(t *testing.T) {
	a := newTestApp(t, config.PresetClassic)
	require.True(t, a.view.ShowHUD)

	a.HandleEvent(key('x'))
	assert.True(t, a.view.XRay)
	a.HandleEvent(key('x'))
	assert.False(t, a.view.XRay)

	a.HandleEvent(key('?'))
	assert.False(t, a.view.ShowHUD)
}

func TestHandleEventRegenerate(t *testing.T) {
	a := newTestApp(t, config.PresetClassic)
	first := a.game.World.Boxes[0].Bounds

	a.HandleEvent(key('r'))
	assert.NotEqual(t, int64(1), a.game.Seed())
	assert.NotEqual(t, first, a.game.World.Boxes[0].Bounds)
}

func TestHandleEventMovementKeys(t *testing.T) {
	a := newTestApp(t, config.PresetClassic)
	a.HandleEvent(click(0, 0))

	a.HandleEvent(key('w'))
	a.HandleEvent(key(uv.KeyLeft))
	st := a.game.Input.State(time.Now())
	assert.True(t, st.Forward)
	assert.True(t, st.Left)

	a.HandleEvent(uv.KeyReleaseEvent{Code: 'w'})
	assert.False(t, a.game.Input.State(time.Now()).Forward)
}

func TestHandleEventResize(t *testing.T) {
	a := newTestApp(t, config.PresetClassic)
	a.HandleEvent(uv.WindowSizeEvent{Width: 100, Height: 30})

	require.NotNil(t, a.fb)
	assert.Equal(t, 100, a.fb.Width)
	assert.Equal(t, 60, a.fb.Height)
	assert.InDelta(t, 100.0/60.0, a.game.Camera.AspectRatio, 1e-9)
}

func TestLoopPresentsFrames(t *testing.T) {
	a := newTestApp(t, config.PresetFlash)
	events := make(chan uv.Event, 1)
	events <- uv.WindowSizeEvent{Width: 40, Height: 12}

	frames := make(chan *frame, 16)
	present := func(f *frame) error {
		select {
		case frames <- f:
		default:
		}
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- a.loop(context.Background(), events, present) }()

	first := <-frames
	assert.True(t, first.resized)
	assert.Equal(t, 40, first.fb.Width)
	assert.Equal(t, 24, first.fb.Height)
	assert.Contains(t, string(first.hud), "Click to play")

	second := <-frames
	assert.False(t, second.resized)

	close(events)
	require.NoError(t, <-done)
}

func TestLoopQuitsOnEscape(t *testing.T) {
	a := newTestApp(t, config.PresetClassic)
	events := make(chan uv.Event, 2)
	events <- uv.WindowSizeEvent{Width: 20, Height: 10}
	events <- key(uv.KeyEscape)

	err := a.loop(context.Background(), events, func(*frame) error { return nil })
	assert.NoError(t, err)
}

func TestLoopStopsOnCancel(t *testing.T) {
	a := newTestApp(t, config.PresetClassic)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := a.loop(ctx, make(chan uv.Event), func(*frame) error { return nil })
	assert.NoError(t, err)
}

func TestLoopReturnsPresentError(t *testing.T) {
	a := newTestApp(t, config.PresetClassic)
	a.Resize(20, 10)
	boom := errors.New("tty gone")

	err := a.loop(context.Background(), make(chan uv.Event), func(*frame) error { return boom })
	assert.ErrorIs(t, err, boom)
}

type fakeDisplay struct {
	uv.ScreenBuffer
	erases   int
	displays int
}

func newFakeDisplay(cols, rows int) *fakeDisplay {
	return &fakeDisplay{ScreenBuffer: uv.NewScreenBuffer(cols, rows)}
}

func (d *fakeDisplay) Erase() {
	d.erases++
	d.Clear()
}

func (d *fakeDisplay) Resize(width, height int) error {
	d.ScreenBuffer.Resize(width, height)
	return nil
}

func (d *fakeDisplay) Display() error {
	d.displays++
	return nil
}

func TestPresentRepaintsWhenBlockerHides(t *testing.T) {
	a := newTestApp(t, config.PresetShooter)
	a.Resize(60, 12)
	disp := newFakeDisplay(60, 12)
	var out bytes.Buffer
	p := newPresenter(disp, &out, 60, 12)

	first, err := a.step(0.01)
	require.NoError(t, err)
	require.NoError(t, p.present(first))
	assert.Contains(t, out.String(), "Click to play")
	assert.Equal(t, 1, disp.erases, "resize repaints")

	a.HandleEvent(click(30, 6))
	out.Reset()
	second, err := a.step(0.01)
	require.NoError(t, err)
	assert.True(t, second.redraw)
	require.NoError(t, p.present(second))
	assert.NotContains(t, out.String(), "Click to play")
	assert.Equal(t, 2, disp.erases, "blocker row is repainted")
	assert.Equal(t, "▀", disp.CellAt(30, 6).Content)

	third, err := a.step(0.01)
	require.NoError(t, err)
	assert.False(t, third.redraw)
	require.NoError(t, p.present(third))
	assert.Equal(t, 2, disp.erases, "steady frames only send changes")
	assert.Equal(t, 3, disp.displays)

	a.HandleEvent(key('?'))
	fourth, err := a.step(0.01)
	require.NoError(t, err)
	assert.True(t, fourth.redraw, "hiding the HUD rows repaints too")
}

func TestSessionAndRecord(t *testing.T) {
	cfg, err := config.Preset(config.PresetShooter)
	require.NoError(t, err)
	cfg.Seed = 5
	cfg.Boxes.Count = 0

	store, err := stats.Open(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	defer store.Close()

	a, err := New(cfg, nil, store)
	require.NoError(t, err)
	a.HandleEvent(click(0, 0))
	a.HandleEvent(click(0, 0))

	sess := a.Session()
	assert.Equal(t, int64(5), sess.Seed)
	assert.Equal(t, config.PresetShooter, sess.Preset)
	assert.Equal(t, 1, sess.Shots)

	a.record()
	got, err := store.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Shots)
}

func TestSnapshot(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Seed = 3
	path := filepath.Join(t.TempDir(), "arena.png")

	require.NoError(t, Snapshot(cfg, nil, path, 64, 48, true))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())

	assert.Error(t, Snapshot(cfg, nil, path, 0, 10, false))
}
