// Command courtterm previews a whiteboard play in the terminal.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/1siamBot/whiteboard/engine/audio"
	"github.com/1siamBot/whiteboard/engine/board"
	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/1siamBot/whiteboard/engine/geom"
	"github.com/1siamBot/whiteboard/engine/monitoring"
	"github.com/1siamBot/whiteboard/engine/motion"
	"github.com/1siamBot/whiteboard/engine/pathfind"
	"github.com/1siamBot/whiteboard/engine/render"
	"github.com/1siamBot/whiteboard/engine/tuning"
	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const statusRows = 2

// grid maps the extended court onto terminal cells. Cells are about twice
// as tall as they are wide, so the court gets two columns per row.
type grid struct {
	cols, rows int
	left, top  int
}

func newGrid(width, height int) grid {
	rows := height - statusRows
	cols := width
	if cols > 2*rows {
		cols = 2 * rows
	} else {
		rows = cols / 2
	}
	return grid{cols: cols, rows: rows, left: (width - cols) / 2}
}

func (g grid) cell(p geom.Position) (int, int) {
	ext := geom.ExtendedCourt
	fx := (p.X - ext.Min[0]) / (ext.Max[0] - ext.Min[0])
	fy := (p.Y - ext.Min[1]) / (ext.Max[1] - ext.Min[1])
	x := int(math.Floor(fx * float64(g.cols)))
	y := int(math.Floor(fy * float64(g.rows)))
	return g.left + min(max(x, 0), g.cols-1), g.top + min(max(y, 0), g.rows-1)
}

type Game struct {
	screen tcell.Screen
	board  *board.Board
	roster *core.Roster
	tuning tuning.MotionTuning
	pb     tuning.Playback

	loop    *core.PlayLoop
	paths   []motion.LockedPathDefinition
	events  *core.EventBus
	reduced bool
	status  string

	audioInit bool
}

func NewGame(b *board.Board, t tuning.MotionTuning, pb tuning.Playback) (*Game, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	g := &Game{
		screen: screen,
		board:  b,
		roster: core.NewRoster(),
		tuning: t,
		pb:     pb,
		events: core.NewEventBus(),
		status: "[space] play  [r] reduced motion  [q] quit",
	}
	g.events.On(core.EvtPlayFinished, func(e core.Event) {
		g.finish(e.Payload.(core.Snapshot))
	})

	// Non-fatal, the preview runs without sound
	if err := g.initAudio(); err != nil {
		monitoring.Logf("audio initialization failed: %v", err)
	}
	return g, nil
}

func (g *Game) initAudio() error {
	sampleRate := beep.SampleRate(audio.SampleRate)
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		g.audioInit = true
	}
	return err
}

func (g *Game) playWhistle() {
	if !g.audioInit {
		return
	}
	speaker.Play(audio.NewWhistle(beep.SampleRate(audio.SampleRate), audio.WhistleDuration, 1))
}

func (g *Game) start() {
	positions := g.board.Positions()
	g.paths = pathfind.LockPaths(g.board.Requests(), positions, g.tuning)
	eng := motion.NewEngine(g.board.ActiveRoles(), positions, g.paths, g.tuning, g.board.PrioritiesOrDefault())
	if g.reduced {
		final, steps := core.RunToCompletion(eng, g.pb.FixedDt, g.pb.ReducedMotionStepCap)
		g.status = fmt.Sprintf("finished in %d steps", steps)
		g.finish(final)
		return
	}
	g.loop = core.NewPlayLoop(eng, g.pb, g.events)
	g.status = "playing"
}

func (g *Game) finish(final core.Snapshot) {
	g.board.Commit(final)
	g.loop = nil
	if !g.reduced {
		g.status = fmt.Sprintf("finished at %.2fs", float64(final.Tick)*g.pb.FixedDt)
	}
	g.playWhistle()
}

func (g *Game) draw() {
	g.screen.Clear()
	w, h := g.screen.Size()
	gr := newGrid(w, h)

	courtStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	x0, y0 := gr.cell(geom.Pos(0, 0))
	x1, y1 := gr.cell(geom.Pos(1, 1))
	for x := x0; x <= x1; x++ {
		g.screen.SetContent(x, y0, '=', nil, tcell.StyleDefault.Foreground(tcell.ColorWhite))
		g.screen.SetContent(x, y1, '─', nil, courtStyle)
	}
	for y := y0 + 1; y < y1; y++ {
		g.screen.SetContent(x0, y, '│', nil, courtStyle)
		g.screen.SetContent(x1, y, '│', nil, courtStyle)
	}
	_, ay := gr.cell(geom.Pos(0, render.AttackLine))
	for x := x0 + 1; x < x1; x++ {
		g.screen.SetContent(x, ay, '┄', nil, courtStyle)
	}

	var scene render.Scene
	if g.loop != nil {
		scene = render.PlayScene(g.paths, g.loop.Interpolated(), g.roster, g.tuning.CollisionRadius)
	} else {
		scene = render.IdleScene(g.board, g.tuning, g.roster, core.NoRole, core.NoRole)
	}
	for _, a := range scene.Arrows {
		st := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(a.Color.R), int32(a.Color.G), int32(a.Color.B)))
		for _, p := range a.Points {
			x, y := gr.cell(p)
			g.screen.SetContent(x, y, '·', nil, st)
		}
		x, y := gr.cell(a.Head)
		g.screen.SetContent(x, y, '+', nil, st)
	}
	for _, t := range scene.Tokens {
		st := tcell.StyleDefault.
			Background(tcell.NewRGBColor(int32(t.Color.R), int32(t.Color.G), int32(t.Color.B))).
			Foreground(tcell.ColorBlack)
		x, y := gr.cell(t.Pos)
		for i, r := range t.Label {
			g.screen.SetContent(x+i, y, r, nil, st)
		}
	}

	mode := "animated"
	if g.reduced {
		mode = "reduced"
	}
	line := fmt.Sprintf("%s | %s | %s", g.board.Name, mode, g.status)
	for i, r := range line {
		g.screen.SetContent(i, h-1, r, nil, tcell.StyleDefault)
	}
	g.screen.Show()
}

func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			if g.loop != nil && ev.Key() == tcell.KeyEscape {
				g.loop.Abort()
				g.loop = nil
				g.status = "aborted"
				return true
			}
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case 'r':
			g.reduced = !g.reduced
		case ' ':
			if g.loop == nil {
				g.start()
			}
		}
	case *tcell.EventResize:
		g.screen.Sync()
	}
	return true
}

func (g *Game) run() {
	ticker := time.NewTicker(16 * time.Millisecond) // ~60 FPS
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- g.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return
			}
		case <-ticker.C:
			if g.loop != nil {
				g.loop.Update()
			}
			g.events.Dispatch()
			g.draw()
		}
	}
}

func (g *Game) cleanup() {
	if g.audioInit {
		speaker.Close()
	}
	g.screen.Fini()
}

func main() {
	boardPath := flag.String("board", "", "board JSON file (default: built-in formation)")
	tuningPath := flag.String("tuning", "", "tuning override JSON file")
	flag.Parse()

	// tcell owns the terminal; diagnostics go to a file or nowhere
	monitoring.SetLogger(nil)
	if lf := os.Getenv("COURTTERM_LOG"); lf != "" {
		f, err := os.Create(lf)
		if err == nil {
			defer f.Close()
			logger := log.New(f, "courtterm ", log.LstdFlags)
			monitoring.SetLogger(logger.Printf)
		}
	}

	b := board.Default()
	if *boardPath != "" {
		var err error
		if b, err = board.LoadJSON(*boardPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load board: %v\n", err)
			os.Exit(1)
		}
	}
	t, pb := tuning.Default(), tuning.DefaultPlayback()
	if *tuningPath != "" {
		cfg, err := tuning.LoadConfig(*tuningPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load tuning: %v\n", err)
			os.Exit(1)
		}
		t, _ = cfg.Apply(t)
		pb = cfg.ApplyPlayback(pb)
	}

	game, err := NewGame(b, t, pb)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer game.cleanup()

	game.run()
}
