// Command playsim runs a whiteboard play headless and prints a summary.
//
//	playsim -board receive.board.json -tuning fast.json -record play.wbpl -plot speeds.png
//	playsim -verify play.wbpl
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"

	"github.com/1siamBot/whiteboard/engine/board"
	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/1siamBot/whiteboard/engine/monitoring"
	"github.com/1siamBot/whiteboard/engine/pathfind"
	"github.com/1siamBot/whiteboard/engine/record"
	"github.com/1siamBot/whiteboard/engine/render"
	"github.com/1siamBot/whiteboard/engine/report"
	"github.com/1siamBot/whiteboard/engine/tuning"
)

type options struct {
	board   string
	tuning  string
	record  string
	verify  string
	plot    string
	html    string
	picture string
	steps   int
}

// Result is printed as JSON on stdout
type Result struct {
	Board    string               `json:"board"`
	Ticks    uint64               `json:"ticks"`
	Seconds  float64              `json:"seconds"`
	Done     bool                 `json:"done"`
	Moving   int                  `json:"moving"`
	Roles    []report.RoleSummary `json:"roles"`
	Recorded int                  `json:"recorded_frames,omitempty"`
}

func main() {
	var o options
	flag.StringVar(&o.board, "board", "", "board JSON file (default: built-in formation)")
	flag.StringVar(&o.tuning, "tuning", "", "tuning override JSON file")
	flag.StringVar(&o.record, "record", "", "write a play recording to this file")
	flag.StringVar(&o.verify, "verify", "", "replay a recording and check it matches")
	flag.StringVar(&o.plot, "plot", "", "write a speed chart image (png, svg, pdf)")
	flag.StringVar(&o.html, "html", "", "write an interactive speed chart")
	flag.StringVar(&o.picture, "png", "", "write a picture of the board after the play")
	flag.IntVar(&o.steps, "steps", 0, "step cap (default: the reduced-motion cap)")
	flag.Parse()

	if o.verify != "" {
		if err := verify(o.verify, os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := run(o, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func verify(path string, out io.Writer) error {
	rec, err := record.LoadFile(path)
	if err != nil {
		return err
	}
	tick, ok := record.Verify(rec)
	if !ok {
		return fmt.Errorf("%s: replay diverged at tick %d", path, tick)
	}
	fmt.Fprintf(out, "%s: %d frames replayed identically\n", path, len(rec.Frames))
	return nil
}

func load(o options) (*board.Board, tuning.MotionTuning, tuning.Playback, error) {
	b := board.Default()
	if o.board != "" {
		var err error
		if b, err = board.LoadJSON(o.board); err != nil {
			return nil, tuning.MotionTuning{}, tuning.Playback{}, err
		}
	}
	t, pb := tuning.Default(), tuning.DefaultPlayback()
	if o.tuning != "" {
		cfg, err := tuning.LoadConfig(o.tuning)
		if err != nil {
			return nil, t, pb, err
		}
		var adjusted []string
		t, adjusted = cfg.Apply(t)
		monitoring.Clamped(o.tuning, adjusted)
		pb = cfg.ApplyPlayback(pb)
	}
	return b, t, pb, nil
}

func run(o options, out io.Writer) error {
	b, t, pb, err := load(o)
	if err != nil {
		return err
	}
	positions := b.Positions()
	h := record.Header{
		FixedDt:    pb.FixedDt,
		Tuning:     t,
		Priorities: b.PrioritiesOrDefault(),
		Active:     b.ActiveRoles(),
		Initial:    positions,
		Paths:      pathfind.LockPaths(b.Requests(), positions, t),
	}

	var rec *record.Recorder
	if o.record != "" {
		if rec, err = record.Create(o.record, h); err != nil {
			return err
		}
		defer rec.Close()
	}

	steps := o.steps
	if steps <= 0 {
		steps = pb.ReducedMotionStepCap
	}
	eng := h.NewEngine()
	profile := report.NewProfile(pb.FixedDt)
	snap := eng.Snapshot()
	profile.Add(snap)
	for i := 0; i < steps && !snap.Done; i++ {
		snap = eng.Step(pb.FixedDt)
		profile.Add(snap)
		if rec != nil {
			if err := rec.Record(snap); err != nil {
				return err
			}
		}
	}
	if !snap.Done {
		monitoring.Logf("play stopped at step cap %d", steps)
	}

	res := Result{
		Board:   b.Name,
		Ticks:   snap.Tick,
		Seconds: float64(snap.Tick) * pb.FixedDt,
		Done:    snap.Done,
		Moving:  eng.AgentCount(),
		Roles:   profile.Summary(),
	}
	if rec != nil {
		res.Recorded = rec.Frames()
		if err := rec.Close(); err != nil {
			return err
		}
	}

	if err := writeCharts(o, profile, b.Name); err != nil {
		return err
	}
	if o.picture != "" {
		if err := writePicture(o.picture, b, snap, t); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func writeCharts(o options, p *report.Profile, title string) error {
	if o.plot != "" {
		if err := p.SavePlot(o.plot, title); err != nil {
			return err
		}
	}
	if o.html != "" {
		f, err := os.Create(o.html)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := p.WriteHTML(f, title); err != nil {
			return err
		}
	}
	return nil
}

func writePicture(path string, b *board.Board, final core.Snapshot, t tuning.MotionTuning) error {
	after := b.Clone()
	after.Commit(final)
	img, err := render.Rasterize(render.IdleScene(after, t, core.NewRoster(), core.NoRole, core.NoRole), 1024)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
