package scene

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/taigrr/boxarena/internal/game"
	"github.com/taigrr/boxarena/pkg/render"
)

// ANSI escape codes for positioning and styling.
const (
	reset     = "\x1b[0m"
	bold      = "\x1b[1m"
	dim       = "\x1b[2m"
	bgBlack   = "\x1b[40m"
	fgWhite   = "\x1b[97m"
	fgGreen   = "\x1b[92m"
	fgYellow  = "\x1b[93m"
	fgCyan    = "\x1b[96m"
	fgRed     = "\x1b[91m"
	clearLine = "\x1b[2K"
)

// moveTo positions the cursor (1-based).
func moveTo(row, col int) string {
	return fmt.Sprintf("\x1b[%d;%dH", row, col)
}

// HUD writes an ANSI overlay on top of the rendered cells.
type HUD struct {
	title   string
	frames  []time.Time // frame times within the last second, oldest first
	culling render.CullingStats
	now     func() time.Time
}

// NewHUD creates a HUD with the given title.
func NewHUD(title string) *HUD {
	return &HUD{title: title, now: time.Now}
}

// SetTitle replaces the title, e.g. after the world is regenerated.
func (h *HUD) SetTitle(title string) {
	h.title = title
}

// UpdateFPS records a frame and drops frames older than one second.
func (h *HUD) UpdateFPS() {
	now := h.now()
	h.frames = append(h.frames, now)

	stale := 0
	for stale < len(h.frames) && now.Sub(h.frames[stale]) >= time.Second {
		stale++
	}
	h.frames = h.frames[stale:]
}

// fps averages the frame intervals in the window.
func (h *HUD) fps() float64 {
	n := len(h.frames)
	if n < 2 {
		return 0
	}
	span := h.frames[n-1].Sub(h.frames[0])
	if span <= 0 {
		return 0
	}
	return float64(n-1) / span.Seconds()
}

// SetCulling records the last frame's culling counters.
func (h *HUD) SetCulling(s render.CullingStats) {
	h.culling = s
}

// Render writes the overlay for a width x height cell terminal. The top and
// bottom rows are always cleared so toggling the HUD off works. The
// click-to-play blocker shows whenever the pointer is free, HUD or not.
func (h *HUD) Render(w io.Writer, width, height int, g *game.Game, view ViewState) error {
	if width <= 0 || height <= 0 {
		return nil
	}

	var out []byte
	put := func(format string, args ...any) {
		out = fmt.Appendf(out, format, args...)
	}

	put("%s%s%s%s", moveTo(1, 1), clearLine, moveTo(height, 1), clearLine)

	if !g.Locked() {
		msg := " Click to play  ·  WASD/arrows move  ·  mouse look  ·  Esc quit "
		if g.Weapon.Enabled {
			msg = " Click to play  ·  WASD/arrows move  ·  mouse look  ·  click/space shoot  ·  Esc quit "
		}
		col := max((width-ansi.StringWidth(msg))/2, 1)
		row := max(height/2, 1)
		put("%s%s%s%s%s%s", moveTo(row, col), bgBlack, bold, fgYellow, msg, reset)
	}

	if !view.ShowHUD {
		_, err := w.Write(out)
		return err
	}

	// Top left: FPS
	put("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps(), reset)

	// Top middle: title
	titleCol := max((width-ansi.StringWidth(h.title)-2)/2, 1)
	put("%s%s%s%s %s %s", moveTo(1, titleCol), bold, bgBlack, fgWhite, h.title, reset)

	// Top right: score
	st := g.Stats()
	score := fmt.Sprintf(" %d/%d hits  %d boxes ", st.Hits, st.Shots, st.BoxesLeft)
	put("%s%s%s%s%s%s", moveTo(1, max(width-ansi.StringWidth(score)+1, 1)), bgBlack, fgCyan, bold, score, reset)

	// Bottom: mode checkbox and cull counters
	checkXRay := "[ ]"
	if view.XRay {
		checkXRay = "[✓]"
	}
	put("%s%s%s %s X-Ray  %s%d/%d culled %s",
		moveTo(height, 1), bgBlack, fgWhite, checkXRay, dim, h.culling.MeshesCulled, h.culling.MeshesTested, reset)

	if g.Weapon.Enabled && !g.Weapon.Ready(time.Now()) {
		put("%s%s%s ● %s", moveTo(height, max(width/2, 1)), bgBlack, fgRed, reset)
	}

	hint := " R: new arena  ?: HUD "
	put("%s%s%s%s%s%s", moveTo(height, max(width-ansi.StringWidth(hint)+1, 1)), bgBlack, dim, fgYellow, hint, reset)

	_, err := w.Write(out)
	return err
}
