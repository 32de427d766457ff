package render

import (
	"fmt"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Each terminal row shows 2 framebuffer rows: ▀ with fg=top color
// and bg=bottom color.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(col, topY)),
					Bg: rgbaToColor(fb.GetPixel(col, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Screen is a cell screen that can flush pending changes, such as
// *uv.Terminal.
type Screen interface {
	uv.Screen
	Display() error
}

// TerminalRenderer presents framebuffers on a terminal screen.
type TerminalRenderer struct {
	scr        Screen
	cols, rows int
}

// NewTerminalRenderer creates a renderer covering cols x rows cells.
func NewTerminalRenderer(scr Screen, cols, rows int) *TerminalRenderer {
	return &TerminalRenderer{scr: scr, cols: cols, rows: rows}
}

// Render copies fb into the terminal's cell buffer.
func (r *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(r.scr, uv.Rect(0, 0, r.cols, r.rows))
}

// Flush writes the pending cell changes to the terminal.
func (r *TerminalRenderer) Flush() error {
	if err := r.scr.Display(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}
