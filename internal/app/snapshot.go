package app

import (
	"fmt"

	"github.com/taigrr/boxarena/internal/config"
	"github.com/taigrr/boxarena/internal/game"
	"github.com/taigrr/boxarena/internal/scene"
	"github.com/taigrr/boxarena/pkg/render"
	"go.uber.org/zap"
)

// Snapshot renders the opening view of cfg's world to a width x height PNG
// without a terminal.
func Snapshot(cfg *config.Config, log *zap.Logger, path string, width, height int, xray bool) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid snapshot size %dx%d", width, height)
	}

	renderer, err := scene.NewRenderer(cfg)
	if err != nil {
		return err
	}

	g := game.New(cfg, log)
	fb := render.NewFramebuffer(width, height)
	renderer.Draw(fb, g, scene.ViewState{XRay: xray})

	if err := fb.SavePNG(path); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
