package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/1siamBot/whiteboard/editor"
	"github.com/1siamBot/whiteboard/engine/audio"
	"github.com/1siamBot/whiteboard/engine/board"
	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/1siamBot/whiteboard/engine/input"
	"github.com/1siamBot/whiteboard/engine/monitoring"
	"github.com/1siamBot/whiteboard/engine/motion"
	"github.com/1siamBot/whiteboard/engine/pathfind"
	"github.com/1siamBot/whiteboard/engine/render"
	"github.com/1siamBot/whiteboard/engine/tuning"
	"github.com/1siamBot/whiteboard/engine/ui"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
)

// Game implements ebiten.Game interface
type Game struct {
	editor   *editor.Editor
	renderer *render.CourtRenderer
	hud      *ui.HUD
	panel    *ui.TuningPanel
	input    *input.InputState
	roster   *core.Roster
	audio    *audio.AudioManager
	events   *core.EventBus
	playback tuning.Playback

	reducedMotion bool
	loop          *core.PlayLoop
	paths         []motion.LockedPathDefinition
	lastSteps     int
}

func NewGame(b *board.Board, t tuning.MotionTuning, pb tuning.Playback, reduced bool) (*Game, error) {
	r, err := render.NewCourtRenderer(ScreenWidth, ScreenHeight)
	if err != nil {
		return nil, err
	}
	panel := ui.NewTuningPanel(t)
	g := &Game{
		editor:        editor.NewEditor(b),
		renderer:      r,
		panel:         panel,
		hud:           ui.NewHUD(ScreenWidth, ScreenHeight, panel),
		input:         input.NewInputState(),
		roster:        core.NewRoster(),
		audio:         audio.NewAudioManager(),
		events:        core.NewEventBus(),
		playback:      pb,
		reducedMotion: reduced,
	}
	g.events.On(core.EvtPlayFinished, func(e core.Event) {
		g.finish(e.Payload.(core.Snapshot))
	})
	g.events.On(core.EvtPlayAborted, func(e core.Event) {
		monitoring.Logf("play aborted at tick %d", e.Tick)
		g.loop = nil
	})
	g.events.On(core.EvtAgentArrived, func(core.Event) {
		g.audio.Play(audio.SndClick)
	})
	g.events.On(core.EvtTuningChanged, func(core.Event) {
		g.retune()
	})
	return g, nil
}

func (g *Game) playing() bool {
	return g.loop != nil
}

// startPlay locks every arrow against the current homes and sets the
// players running
func (g *Game) startPlay() {
	b := g.editor.Board
	t := g.panel.Tuning
	positions := b.Positions()
	g.paths = pathfind.LockPaths(b.Requests(), positions, t)
	eng := motion.NewEngine(b.ActiveRoles(), positions, g.paths, t, b.PrioritiesOrDefault())
	monitoring.Logf("play started: %d moving of %d", eng.AgentCount(), len(b.Tokens))

	if g.reducedMotion {
		final, steps := core.RunToCompletion(eng, g.playback.FixedDt, g.playback.ReducedMotionStepCap)
		g.lastSteps = steps
		if !final.Done {
			monitoring.Logf("play stopped at step cap %d", steps)
		}
		g.finish(final)
		return
	}
	g.loop = core.NewPlayLoop(eng, g.playback, g.events)
}

// retune pushes the panel's tuning into a running play
func (g *Game) retune() {
	if g.playing() && g.loop.Retune(g.panel.Tuning) {
		monitoring.Logf("tuning applied at tick %d: %+v", g.loop.CurrentTick(), g.panel.Tuning)
		return
	}
	monitoring.Logf("tuning changed: %+v", g.panel.Tuning)
}

// radius is the collision radius the tokens are drawn with
func (g *Game) radius() float64 {
	if g.playing() {
		if t, ok := g.loop.Tuning(); ok {
			return t.CollisionRadius
		}
	}
	return g.panel.Tuning.CollisionRadius
}

func (g *Game) finish(final core.Snapshot) {
	monitoring.Logf("play finished at tick %d", final.Tick)
	g.editor.ApplyPlay(final)
	g.loop = nil
	g.audio.Play(audio.SndWhistle)
}

func (g *Game) Update() error {
	g.input.Update()
	g.handleKeys()
	g.handleCamera()

	if g.playing() {
		g.loop.Update()
	} else {
		g.handleMouse()
	}
	g.events.Dispatch()
	return nil
}

func (g *Game) handleKeys() {
	in := g.input
	if in.IsKeyJustPressed(ebiten.KeyTab) {
		g.panel.Toggle()
	}
	if in.IsKeyJustPressed(ebiten.KeyR) {
		g.reducedMotion = !g.reducedMotion
	}
	if in.IsKeyJustPressed(ebiten.KeyM) {
		g.audio.ToggleMute()
	}
	if in.IsKeyJustPressed(ebiten.KeyH) {
		g.renderer.ShowHandles = !g.renderer.ShowHandles
	}
	if in.IsKeyJustPressed(ebiten.KeyEscape) {
		if g.playing() {
			g.loop.Abort()
		} else {
			g.editor.Release()
			g.editor.Selected = core.NoRole
		}
	}

	if g.panel.Visible {
		step := 1
		if in.Shift() {
			step = 5
		}
		switch {
		case in.IsKeyJustPressed(ebiten.KeyUp):
			g.panel.Move(-1)
		case in.IsKeyJustPressed(ebiten.KeyDown):
			g.panel.Move(1)
		case in.IsKeyJustPressed(ebiten.KeyLeft):
			g.panel.Adjust(-step)
		case in.IsKeyJustPressed(ebiten.KeyRight):
			g.panel.Adjust(step)
		case in.IsKeyJustPressed(ebiten.KeyBackspace):
			g.panel.ResetField()
		}
		if g.panel.Changed {
			g.panel.Changed = false
			g.events.Emit(core.Event{Type: core.EvtTuningChanged, Role: core.NoRole})
		}
	}

	if g.playing() {
		return
	}
	if in.IsKeyJustPressed(ebiten.KeySpace) {
		g.startPlay()
	}
	if in.Ctrl() && in.IsKeyJustPressed(ebiten.KeyZ) {
		if in.Shift() {
			g.editor.Redo()
		} else {
			g.editor.Undo()
		}
	}
	if sel := g.editor.Selected; sel != core.NoRole {
		if in.IsKeyJustPressed(ebiten.KeyC) {
			if err := g.editor.ClearControl(sel); err != nil {
				monitoring.Logf("clear control: %v", err)
			}
		}
		if in.IsKeyJustPressed(ebiten.KeyDelete) {
			if err := g.editor.ClearTarget(sel); err != nil {
				monitoring.Logf("clear target: %v", err)
			}
		}
	}
}

func (g *Game) handleCamera() {
	cam := g.renderer.Camera
	if g.input.ScrollY != 0 {
		cam.ZoomAt(g.input.ScrollY*0.1, g.input.MouseX, g.input.MouseY)
	}
	if g.panel.Visible {
		return
	}
	const speed = 8.0
	if g.input.KeysPressed[ebiten.KeyUp] {
		cam.Pan(0, -speed)
	}
	if g.input.KeysPressed[ebiten.KeyDown] {
		cam.Pan(0, speed)
	}
	if g.input.KeysPressed[ebiten.KeyLeft] {
		cam.Pan(-speed, 0)
	}
	if g.input.KeysPressed[ebiten.KeyRight] {
		cam.Pan(speed, 0)
	}
}

func (g *Game) handleMouse() {
	in := g.input
	p := g.renderer.Camera.ScreenToCourt(in.MouseX, in.MouseY)
	t := g.panel.Tuning

	for _, b := range []input.Button{input.Left, input.Right} {
		if !in.JustPressed[b] {
			continue
		}
		if b == input.Left && g.hud.HandleClick(in.MouseX, in.MouseY) {
			continue
		}
		g.editor.Press(p, b == input.Right, t.CollisionRadius, t)
	}
	if g.editor.Active() != editor.GestureNone && (in.Dragging(input.Left) || in.Dragging(input.Right)) {
		if err := g.editor.DragTo(p); err != nil {
			monitoring.Logf("drag: %v", err)
		}
	}
	if in.JustReleased[input.Left] || in.JustReleased[input.Right] {
		g.editor.Release()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	var scene render.Scene
	if g.playing() {
		scene = render.PlayScene(g.paths, g.loop.Interpolated(), g.roster, g.radius())
	} else {
		scene = render.IdleScene(g.editor.Board, g.panel.Tuning, g.roster, g.editor.Selected, g.editor.Dragged())
	}
	g.renderer.Draw(screen, scene)
	g.hud.Draw(screen, g.status())
}

func (g *Game) status() string {
	mode := "idle"
	if g.playing() {
		mode = fmt.Sprintf("playing tick %d", g.loop.CurrentTick())
	}
	motionMode := "animated"
	if g.reducedMotion {
		motionMode = fmt.Sprintf("reduced (last %d steps)", g.lastSteps)
	}
	return fmt.Sprintf("%s | %s | %s | FPS %.0f | [Space] play [Esc] stop [R] motion [Tab] tuning [Ctrl+Z] undo",
		g.editor.Board.Name, mode, motionMode, ebiten.ActualFPS())
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func main() {
	boardPath := flag.String("board", "", "board JSON file (default: built-in formation)")
	tuningPath := flag.String("tuning", "", "tuning override JSON file")
	reduced := flag.Bool("reduced-motion", false, "show only the final position of each play")
	flag.Parse()

	b := board.Default()
	if *boardPath != "" {
		var err error
		if b, err = board.LoadJSON(*boardPath); err != nil {
			log.Fatalf("load board: %v", err)
		}
	}

	t, pb := tuning.Default(), tuning.DefaultPlayback()
	if *tuningPath != "" {
		cfg, err := tuning.LoadConfig(*tuningPath)
		if err != nil {
			log.Fatalf("load tuning: %v", err)
		}
		var adjusted []string
		t, adjusted = cfg.Apply(t)
		monitoring.Clamped(*tuningPath, adjusted)
		pb = cfg.ApplyPlayback(pb)
	}

	g, err := NewGame(b, t, pb, *reduced)
	if err != nil {
		log.Fatal(err)
	}
	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("Whiteboard")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
