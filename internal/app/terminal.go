package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/boxarena/pkg/render"
	"go.uber.org/zap"
)

// Mouse reporting: any-event tracking plus SGR extended coordinates.
const (
	mouseOn  = "\x1b[?1003h\x1b[?1006h"
	mouseOff = "\x1b[?1003l\x1b[?1006l"
)

// Run plays in the controlling terminal until the player quits, ctx is
// cancelled, or SIGINT/SIGTERM arrives. The session is recorded on exit.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(width, height); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}
	fmt.Fprint(os.Stdout, mouseOn)

	cleanup := func() {
		fmt.Fprint(os.Stdout, mouseOff)
		term.ExitAltScreen()
		term.ShowCursor()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := term.Shutdown(shutdownCtx); err != nil {
			a.log.Warn("terminal shutdown", zap.Error(err))
		}
	}

	a.Resize(width, height)
	a.log.Info("session started",
		zap.String("preset", a.cfg.Preset),
		zap.Int64("seed", a.game.Seed()),
		zap.Int("cols", width),
		zap.Int("rows", height))

	p := newPresenter(term, os.Stdout, width, height)

	err = a.loop(ctx, term.Events(), p.present)
	cleanup()
	a.record()

	if err != nil {
		a.log.Error("session ended with error", zap.Error(err))
		return err
	}
	a.log.Info("session ended")
	return nil
}

// display is the part of *uv.Terminal a presenter drives.
type display interface {
	render.Screen
	Erase()
	Resize(width, height int) error
}

// presenter flushes frames to a display and writes the HUD overlay after
// the cells.
type presenter struct {
	disp display
	out  io.Writer
	tr   *render.TerminalRenderer
}

func newPresenter(disp display, out io.Writer, cols, rows int) *presenter {
	return &presenter{disp: disp, out: out, tr: render.NewTerminalRenderer(disp, cols, rows)}
}

func (p *presenter) present(f *frame) error {
	switch {
	case f.resized:
		p.disp.Erase()
		if err := p.disp.Resize(f.cols, f.rows); err != nil {
			return fmt.Errorf("resize terminal: %w", err)
		}
		p.tr = render.NewTerminalRenderer(p.disp, f.cols, f.rows)
	case f.redraw:
		// The overlay bypasses the cell buffer, so cells under text that
		// is no longer drawn only come back on a full repaint.
		p.disp.Erase()
	}

	p.tr.Render(f.fb)
	if err := p.tr.Flush(); err != nil {
		return err
	}
	_, err := p.out.Write(f.hud)
	return err
}
