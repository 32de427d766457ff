// Package app runs boxarena in a terminal: it turns terminal events into
// game actions and drives the frame loop.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/boxarena/internal/config"
	"github.com/taigrr/boxarena/internal/game"
	"github.com/taigrr/boxarena/internal/scene"
	"github.com/taigrr/boxarena/internal/stats"
	"github.com/taigrr/boxarena/pkg/render"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// turnCells is how far q/e turn, in mouse cells, for when the mouse runs
// out of terminal.
const turnCells = 4

// errQuit stops the loop without being reported as a failure.
var errQuit = errors.New("quit")

// movementKeys are fed to the game's input latch.
var movementKeys = []string{"w", "a", "s", "d", "up", "down", "left", "right"}

// App is one play session. Game state is shared by the input goroutine and
// the frame loop and is guarded by mu.
type App struct {
	cfg   *config.Config
	log   *zap.Logger
	store *stats.Store

	mu       sync.Mutex
	game     *game.Game
	renderer *scene.Renderer
	hud      *scene.HUD
	view     scene.ViewState
	fb       *render.Framebuffer
	cols     int
	rows     int
	resized  bool
	overlay  overlayState

	mouseX, mouseY int
	haveMouse      bool

	started time.Time
}

// New builds a session from cfg. store may be nil.
func New(cfg *config.Config, log *zap.Logger, store *stats.Store) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	renderer, err := scene.NewRenderer(cfg)
	if err != nil {
		return nil, err
	}

	g := game.New(cfg, log)
	a := &App{
		cfg:      cfg,
		log:      log,
		store:    store,
		game:     g,
		renderer: renderer,
		view:     scene.ViewState{ShowHUD: true},
		started:  time.Now(),
	}
	a.hud = scene.NewHUD(a.title())
	return a, nil
}

func (a *App) title() string {
	return fmt.Sprintf("boxarena · %s · seed %d", a.cfg.Preset, a.game.Seed())
}

// Resize sets the terminal size in cells and rebuilds the framebuffer.
func (a *App) Resize(cols, rows int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resize(cols, rows)
}

func (a *App) resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	a.cols, a.rows = cols, rows
	w, h := render.FramebufferSizeForTerminal(cols, rows)
	a.fb = render.NewFramebuffer(w, h)
	a.game.Resize(w, h)
	a.resized = true
	a.log.Debug("resized", zap.Int("cols", cols), zap.Int("rows", rows))
}

// HandleEvent applies one terminal event. It reports true when the player
// asked to quit.
func (a *App) HandleEvent(ev uv.Event) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	g := a.game

	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		a.resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("ctrl+c"):
			return true
		case ev.MatchString("escape"):
			if !g.Locked() {
				return true
			}
			g.Unlock()
			a.haveMouse = false
		case ev.MatchString("space"):
			a.shoot()
		case ev.MatchString("x"):
			a.view.XRay = !a.view.XRay
		case ev.MatchString("?"), ev.MatchString("shift+/"):
			a.view.ShowHUD = !a.view.ShowHUD
		case ev.MatchString("r"):
			g.Regenerate(0)
			a.hud.SetTitle(a.title())
		case ev.MatchString("q"):
			g.Look(-turnCells, 0)
		case ev.MatchString("e"):
			g.Look(turnCells, 0)
		default:
			for _, k := range movementKeys {
				if ev.MatchString(k) {
					g.KeyDown(k)
					break
				}
			}
		}

	case uv.KeyReleaseEvent:
		for _, k := range movementKeys {
			if ev.MatchString(k) {
				g.KeyUp(k)
				break
			}
		}

	case uv.MouseClickEvent:
		if ev.Button != uv.MouseLeft {
			break
		}
		if !g.Locked() {
			g.Lock()
			a.mouseX, a.mouseY, a.haveMouse = ev.X, ev.Y, true
			break
		}
		a.shoot()

	case uv.MouseMotionEvent:
		if !g.Locked() {
			break
		}
		if a.haveMouse {
			g.Look(float64(ev.X-a.mouseX), float64(ev.Y-a.mouseY))
		}
		a.mouseX, a.mouseY, a.haveMouse = ev.X, ev.Y, true
	}

	return false
}

func (a *App) shoot() {
	res := a.game.Shoot()
	if res.Fired {
		a.log.Debug("shot", zap.Bool("hit", res.Hit != nil))
	}
}

// overlayState is what the HUD draws outside the cell buffer.
type overlayState struct {
	blocker bool
	hud     bool
}

// frame is one rendered frame ready to present. redraw asks for a full
// repaint because the overlay changed shape since the last frame.
type frame struct {
	fb      *render.Framebuffer
	cols    int
	rows    int
	hud     []byte
	resized bool
	redraw  bool
}

// step advances the game by dt and renders a frame. It returns nil before
// the first resize.
func (a *App) step(dt float64) (*frame, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.fb == nil {
		return nil, nil
	}

	a.game.Update(dt)
	a.hud.SetCulling(a.renderer.Draw(a.fb, a.game, a.view))
	a.hud.UpdateFPS()

	var buf bytes.Buffer
	if err := a.hud.Render(&buf, a.cols, a.rows, a.game, a.view); err != nil {
		return nil, fmt.Errorf("render hud: %w", err)
	}

	overlay := overlayState{blocker: !a.game.Locked(), hud: a.view.ShowHUD}
	f := &frame{
		fb:      a.fb,
		cols:    a.cols,
		rows:    a.rows,
		hud:     buf.Bytes(),
		resized: a.resized,
		redraw:  overlay != a.overlay,
	}
	a.resized = false
	a.overlay = overlay
	return f, nil
}

// loop runs the input and frame goroutines until ctx is done, events
// closes, or the player quits. present runs on the frame goroutine only.
func (a *App) loop(ctx context.Context, events <-chan uv.Event, present func(*frame) error) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return errQuit
				}
				if a.HandleEvent(ev) {
					return errQuit
				}
			}
		}
	})

	eg.Go(func() error {
		ticker := time.NewTicker(time.Second / time.Duration(a.cfg.Render.FPS))
		defer ticker.Stop()

		last := time.Now()
		for {
			select {
			case <-ctx.Done():
				return nil
			case now := <-ticker.C:
				dt := now.Sub(last).Seconds()
				last = now

				f, err := a.step(dt)
				if err != nil {
					return err
				}
				if f == nil {
					continue
				}
				if err := present(f); err != nil {
					return fmt.Errorf("present: %w", err)
				}
			}
		}
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

// Session summarizes the play session so far.
func (a *App) Session() stats.Session {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := a.game.Stats()
	return stats.Session{
		Seed:     a.game.Seed(),
		Preset:   a.cfg.Preset,
		Started:  a.started,
		Duration: time.Since(a.started),
		Shots:    st.Shots,
		Hits:     st.Hits,
		Removed:  st.Removed,
	}
}

// record saves the session. ctx is usually already cancelled at shutdown, so
// it gets a fresh deadline.
func (a *App) record() {
	if !a.store.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	sess := a.Session()
	if err := a.store.Record(ctx, &sess); err != nil {
		a.log.Warn("failed to record session", zap.Error(err))
		return
	}
	a.log.Info("session recorded",
		zap.String("id", sess.ID.String()),
		zap.Int("shots", sess.Shots),
		zap.Int("hits", sess.Hits),
		zap.Duration("duration", sess.Duration))
}
