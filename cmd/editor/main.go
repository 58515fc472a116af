package main

import (
	"fmt"
	"image/color"
	"image/png"
	"log"
	"os"
	"strings"

	"github.com/1siamBot/whiteboard/editor"
	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/1siamBot/whiteboard/engine/input"
	"github.com/1siamBot/whiteboard/engine/render"
	"github.com/1siamBot/whiteboard/engine/tuning"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
	SidebarWidth = 220
)

type EditorApp struct {
	editor   *editor.Editor
	renderer *render.CourtRenderer
	input    *input.InputState
	roster   *core.Roster
	tuning   tuning.MotionTuning
	message  string
}

func NewEditorApp() (*EditorApp, error) {
	r, err := render.NewCourtRenderer(ScreenWidth-SidebarWidth, ScreenHeight)
	if err != nil {
		return nil, err
	}
	a := &EditorApp{
		editor:   editor.NewEditor(nil),
		renderer: r,
		input:    input.NewInputState(),
		roster:   core.NewRoster(),
		tuning:   tuning.Default(),
	}

	// Load file from command line if provided
	if len(os.Args) > 1 {
		if err := a.editor.Load(os.Args[1]); err != nil {
			log.Printf("Failed to load board: %v", err)
		}
	}
	return a, nil
}

func (a *EditorApp) Update() error {
	a.input.Update()
	in := a.input
	cam := a.renderer.Camera

	if in.ScrollY != 0 {
		cam.ZoomAt(in.ScrollY*0.1, in.MouseX, in.MouseY)
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		cam.Pan(float64(-in.MouseDX), float64(-in.MouseDY))
	}

	p := cam.ScreenToCourt(in.MouseX, in.MouseY)
	overCourt := in.MouseX < ScreenWidth-SidebarWidth

	// Place a role at the cursor with 1-7
	if i := in.DigitJustPressed(); i >= 0 && overCourt {
		r := core.Role(i)
		var err error
		if in.Shift() {
			err = a.editor.Remove(r)
		} else {
			err = a.editor.Place(r, p)
			a.editor.Selected = r
		}
		a.report(err)
	}

	// Tool selection
	switch {
	case in.IsKeyJustPressed(ebiten.KeyM):
		a.editor.Tool = editor.ToolMove
	case in.IsKeyJustPressed(ebiten.KeyY):
		a.editor.Tool = editor.ToolArrow
	case in.IsKeyJustPressed(ebiten.KeyP):
		a.editor.ShowPlan = !a.editor.ShowPlan
		a.renderer.ShowHandles = a.editor.ShowPlan
	}

	if sel := a.editor.Selected; sel != core.NoRole {
		if in.IsKeyJustPressed(ebiten.KeyDelete) {
			a.report(a.editor.Remove(sel))
			a.editor.Selected = core.NoRole
		}
		if in.IsKeyJustPressed(ebiten.KeyBackspace) {
			a.report(a.editor.ClearTarget(sel))
		}
		if in.IsKeyJustPressed(ebiten.KeyC) {
			a.report(a.editor.ClearControl(sel))
		}
	}

	// Pointer gestures
	if overCourt {
		for _, b := range []input.Button{input.Left, input.Right} {
			if in.JustPressed[b] {
				a.editor.Press(p, b == input.Right, a.tuning.CollisionRadius, a.tuning)
			}
		}
	}
	if a.editor.Active() != editor.GestureNone && (in.Dragging(input.Left) || in.Dragging(input.Right)) {
		a.report(a.editor.DragTo(p))
	}
	if in.JustReleased[input.Left] || in.JustReleased[input.Right] {
		a.editor.Release()
	}

	// Undo/Redo (Ctrl+Z / Ctrl+Shift+Z)
	if in.Ctrl() && in.IsKeyJustPressed(ebiten.KeyZ) {
		if in.Shift() {
			a.editor.Redo()
		} else {
			a.editor.Undo()
		}
	}

	// Save (Ctrl+S)
	if in.Ctrl() && in.IsKeyJustPressed(ebiten.KeyS) {
		if err := a.editor.Save(""); err != nil {
			log.Printf("Save failed: %v", err)
			a.message = "save failed"
		} else {
			log.Printf("Saved to %s", a.editor.FilePath)
			a.message = "saved " + a.editor.FilePath
		}
	}

	// Export a picture of the board (Ctrl+E)
	if in.Ctrl() && in.IsKeyJustPressed(ebiten.KeyE) {
		path, err := a.export()
		if err != nil {
			log.Printf("Export failed: %v", err)
			a.message = "export failed"
		} else {
			a.message = "exported " + path
		}
	}

	// New board (Ctrl+N)
	if in.Ctrl() && in.IsKeyJustPressed(ebiten.KeyN) {
		a.editor.NewBoard("Untitled")
	}
	return nil
}

func (a *EditorApp) report(err error) {
	if err != nil {
		a.message = err.Error()
	}
}

func (a *EditorApp) export() (string, error) {
	scene := render.IdleScene(a.editor.Board, a.tuning, a.roster, core.NoRole, core.NoRole)
	img, err := render.Rasterize(scene, 1024)
	if err != nil {
		return "", err
	}
	base := a.editor.FilePath
	if base == "" {
		base = "untitled.board.json"
	}
	path := strings.TrimSuffix(base, ".json") + ".png"
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", err
	}
	return path, nil
}

func (a *EditorApp) Draw(screen *ebiten.Image) {
	scene := render.IdleScene(a.editor.Board, a.tuning, a.roster, a.editor.Selected, a.editor.Dragged())
	if !a.editor.ShowPlan {
		scene.Arrows = nil
	}
	a.renderer.Draw(screen, scene)
	a.drawSidebar(screen)

	info := fmt.Sprintf("Board Editor | %s | tool: %s | [Scroll]Zoom [1-7]Place [Shift+1-7]Remove [M]Move [Y]Arrow [P]Plan [Ctrl+Z]Undo [Ctrl+S]Save [Ctrl+E]PNG",
		a.editor.Board.Name, a.editor.Tool)
	ebitenutil.DebugPrintAt(screen, info, 5, ScreenHeight-20)
}

func (a *EditorApp) drawSidebar(screen *ebiten.Image) {
	sx := float32(ScreenWidth - SidebarWidth)
	vector.DrawFilledRect(screen, sx, 0, SidebarWidth, float32(ScreenHeight), color.RGBA{20, 20, 40, 220}, false)

	y := 10
	ebitenutil.DebugPrintAt(screen, "=== ROLES ===", int(sx)+10, y)
	y += 20
	for i, r := range core.AllRoles() {
		clr := color.RGBA{50, 50, 80, 255}
		if r == a.editor.Selected {
			clr = color.RGBA{100, 100, 200, 255}
		}
		vector.DrawFilledRect(screen, sx+10, float32(y), SidebarWidth-20, 20, clr, false)
		label := fmt.Sprintf("[%d] %-4s", i+1, r)
		if tok, ok := a.editor.Board.Token(r); ok {
			label += fmt.Sprintf(" %.2f,%.2f", tok.Home.X, tok.Home.Y)
			if tok.HasArrow() {
				label += " >"
			}
		}
		ebitenutil.DebugPrintAt(screen, label, int(sx)+15, y+3)
		y += 22
	}

	y += 10
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("undo %d  redo %d", len(a.editor.UndoStack), len(a.editor.RedoStack)), int(sx)+10, y)
	if a.editor.Modified {
		ebitenutil.DebugPrintAt(screen, "* MODIFIED *", int(sx)+10, y+20)
	}
	if a.message != "" {
		ebitenutil.DebugPrintAt(screen, a.message, int(sx)+10, y+40)
	}
}

func (a *EditorApp) Layout(_, _ int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func main() {
	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("Whiteboard Editor")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	app, err := NewEditorApp()
	if err != nil {
		log.Fatal(err)
	}
	if err := ebiten.RunGame(app); err != nil {
		log.Fatal(err)
	}
}
