package ui

import (
	"fmt"
	"image/color"

	"github.com/1siamBot/whiteboard/engine/tuning"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const rowHeight = 20

// TuningPanel is the debug panel for live motion tuning. Edits take effect
// on the next play; the running one keeps the values it locked.
type TuningPanel struct {
	Visible bool
	Cursor  int
	Tuning  tuning.MotionTuning
	Changed bool // set on edit, cleared by the owner once applied
	fields  []tuning.Field
}

// NewTuningPanel creates a hidden panel editing t
func NewTuningPanel(t tuning.MotionTuning) *TuningPanel {
	return &TuningPanel{Tuning: t.Sanitized(), fields: tuning.Fields()}
}

// Toggle shows or hides the panel
func (p *TuningPanel) Toggle() { p.Visible = !p.Visible }

// Move moves the cursor by delta rows, wrapping around
func (p *TuningPanel) Move(delta int) {
	n := len(p.fields)
	p.Cursor = ((p.Cursor+delta)%n + n) % n
}

// Selected is the field under the cursor
func (p *TuningPanel) Selected() tuning.Field {
	return p.fields[p.Cursor]
}

// Adjust changes the selected field by a number of steps
func (p *TuningPanel) Adjust(steps int) {
	before := p.Tuning
	p.Tuning = tuning.Adjust(p.Tuning, p.Selected().Name, steps)
	p.Changed = p.Changed || p.Tuning != before
}

// ResetField restores the selected field to its default
func (p *TuningPanel) ResetField() {
	f := p.Selected()
	before := p.Tuning
	p.Tuning = f.With(p.Tuning, f.Default)
	p.Changed = p.Changed || p.Tuning != before
}

// Lines is the text of each row
func (p *TuningPanel) Lines() []string {
	out := make([]string, len(p.fields))
	for i, f := range p.fields {
		mark := " "
		if i == p.Cursor {
			mark = ">"
		}
		out[i] = fmt.Sprintf("%s %-20s %6.3f", mark, f.Name, f.Get(p.Tuning))
	}
	return out
}

// HUD is the overlay drawn above the court
type HUD struct {
	ScreenW, ScreenH int
	PanelWidth       int
	TopBarHeight     int
	Panel            *TuningPanel
}

func NewHUD(sw, sh int, panel *TuningPanel) *HUD {
	return &HUD{
		ScreenW:      sw,
		ScreenH:      sh,
		PanelWidth:   240,
		TopBarHeight: 24,
		Panel:        panel,
	}
}

// Draw renders the status bar and, when visible, the tuning panel
func (h *HUD) Draw(screen *ebiten.Image, status string) {
	vector.DrawFilledRect(screen, 0, 0, float32(h.ScreenW), float32(h.TopBarHeight), color.RGBA{0, 0, 0, 180}, false)
	ebitenutil.DebugPrintAt(screen, status, 10, 4)
	if h.Panel != nil && h.Panel.Visible {
		h.drawPanel(screen)
	}
}

func (h *HUD) drawPanel(screen *ebiten.Image) {
	lines := h.Panel.Lines()
	sx := float32(h.ScreenW - h.PanelWidth)
	sy := float32(h.TopBarHeight)
	ph := float32(len(lines)*rowHeight + 40)
	vector.DrawFilledRect(screen, sx, sy, float32(h.PanelWidth), ph, color.RGBA{20, 20, 40, 220}, false)
	vector.StrokeRect(screen, sx, sy, float32(h.PanelWidth), ph, 1, color.RGBA{100, 100, 160, 255}, false)

	for i, l := range lines {
		y := int(sy) + 10 + i*rowHeight
		if i == h.Panel.Cursor {
			vector.DrawFilledRect(screen, sx+4, float32(y-2), float32(h.PanelWidth-8), rowHeight-2, color.RGBA{60, 60, 100, 255}, false)
		}
		ebitenutil.DebugPrintAt(screen, l, int(sx)+8, y)
	}
	ebitenutil.DebugPrintAt(screen, "up/down select  left/right adjust", int(sx)+8, int(sy)+len(lines)*rowHeight+16)
}

// HandleClick selects a panel row. Returns true if the click was consumed.
func (h *HUD) HandleClick(mx, my int) bool {
	if h.Panel == nil || !h.Panel.Visible || !h.IsInPanel(mx, my) {
		return false
	}
	row := (my - h.TopBarHeight - 8) / rowHeight
	if row >= 0 && row < len(h.Panel.fields) {
		h.Panel.Cursor = row
	}
	return true
}

// IsInPanel returns true if the mouse position is over the open panel
func (h *HUD) IsInPanel(mx, my int) bool {
	if h.Panel == nil || !h.Panel.Visible {
		return false
	}
	bottom := h.TopBarHeight + len(h.Panel.fields)*rowHeight + 40
	return mx >= h.ScreenW-h.PanelWidth && my >= h.TopBarHeight && my < bottom
}
