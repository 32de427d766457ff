// Package scene draws a game into a framebuffer and overlays the HUD.
package scene

import (
	"fmt"

	"github.com/taigrr/boxarena/internal/config"
	"github.com/taigrr/boxarena/internal/game"
	"github.com/taigrr/boxarena/pkg/math3d"
	"github.com/taigrr/boxarena/pkg/models"
	"github.com/taigrr/boxarena/pkg/render"
)

// floorSegments subdivides the floor so near clipping stays local.
const floorSegments = 16

// Overlay colors.
var (
	XRayColor      = render.RGB(0, 255, 128)
	CrosshairColor = render.RGB(230, 230, 230)
)

// ViewState holds UI toggles (not game state).
type ViewState struct {
	XRay    bool // Draw box wireframes through walls
	ShowHUD bool // Show the HUD overlay
}

// Renderer draws the arena. It owns the rasterizer so the depth buffer is
// reused between frames.
type Renderer struct {
	cfg    *config.Config
	raster *render.Rasterizer
	floor  *models.Mesh
	model  *models.Mesh // optional custom box mesh, fitted to the box size
}

// NewRenderer builds the floor mesh and loads the optional box model.
func NewRenderer(cfg *config.Config) (*Renderer, error) {
	r := &Renderer{
		cfg:   cfg,
		floor: models.NewPlaneMesh(cfg.Scene.FloorSize, cfg.Scene.FloorSize, floorSegments),
	}

	if cfg.Boxes.Model != "" {
		mesh, err := models.LoadGLB(cfg.Boxes.Model)
		if err != nil {
			return nil, fmt.Errorf("load box model: %w", err)
		}
		mesh.FitTo(cfg.BoxSize())
		r.model = mesh
	}

	return r, nil
}

// rasterizer returns a rasterizer bound to fb and cam.
func (r *Renderer) rasterizer(fb *render.Framebuffer, cam *render.Camera) *render.Rasterizer {
	switch {
	case r.raster == nil || r.raster.Camera() != cam:
		r.raster = render.NewRasterizer(cam, fb)
		r.raster.Fog = r.cfg.Fog()
		r.raster.Lighting = r.cfg.Light()
	case r.raster.Framebuffer() != fb:
		r.raster.SetFramebuffer(fb)
	}
	return r.raster
}

// Draw renders one frame of g into fb and returns the culling counters.
func (r *Renderer) Draw(fb *render.Framebuffer, g *game.Game, view ViewState) render.CullingStats {
	g.Resize(fb.Width, fb.Height)
	ras := r.rasterizer(fb, g.Camera)
	ras.BeginFrame(r.cfg.BackgroundColor())

	ras.DrawMesh(r.floor, math3d.Identity(), g.World.FloorColor)

	for _, b := range g.World.Boxes {
		if r.model != nil {
			ras.DrawMesh(r.model, math3d.Translate(b.Bounds.Center()), b.Color)
			continue
		}
		ras.DrawBox(b.Bounds, b.Color)
	}

	if view.XRay {
		for _, b := range g.World.Boxes {
			ras.DrawAABBWireframe(b.Bounds, XRayColor)
		}
	}

	if g.Locked() {
		drawCrosshair(fb)
	}

	if a := g.Weapon.Flash(); a > 0 {
		drawFlash(fb, a)
	}

	return ras.CullingStats
}

// drawCrosshair draws a small plus at the screen centre.
func drawCrosshair(fb *render.Framebuffer) {
	cx, cy := fb.Width/2, fb.Height/2
	fb.DrawLine(cx-2, cy, cx+2, cy, CrosshairColor)
	fb.DrawLine(cx, cy-2, cx, cy+2, CrosshairColor)
}

// drawFlash blends the muzzle flash into the lower middle of the frame.
func drawFlash(fb *render.Framebuffer, alpha float64) {
	w := max(fb.Width/5, 4)
	h := max(fb.Height/4, 4)
	x := fb.Width/2 - w/2
	y := fb.Height - h
	fb.BlendRect(x, y, w, h, render.ColorFlash, alpha)
	// Hot core
	fb.BlendRect(x+w/4, y+h/4, w/2, h-h/4, render.ColorWhite, alpha*0.6)
}
