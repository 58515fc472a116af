package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/1siamBot/whiteboard/engine/core"
)

// Recording is a loaded play
type Recording struct {
	Header Header
	Frames []Frame
}

// Recorder streams a play to a writer as it runs
type Recorder struct {
	w      *bufio.Writer
	closer io.Closer
	frames int
}

// NewRecorder writes the header and returns a recorder for the frames
func NewRecorder(w io.Writer, h Header) (*Recorder, error) {
	rec := &Recorder{w: bufio.NewWriter(w)}
	if err := h.Encode(rec.w); err != nil {
		return nil, fmt.Errorf("record: write header: %w", err)
	}
	return rec, nil
}

// Create opens a recording file at path
func Create(path string, h Header) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	rec, err := NewRecorder(f, h)
	if err != nil {
		f.Close()
		return nil, err
	}
	rec.closer = f
	return rec, nil
}

// Record appends the frame for one step
func (r *Recorder) Record(s core.Snapshot) error {
	f := FrameOf(s)
	if err := f.Encode(r.w); err != nil {
		return fmt.Errorf("record: write frame %d: %w", s.Tick, err)
	}
	r.frames++
	return nil
}

// Frames is the number of frames recorded so far
func (r *Recorder) Frames() int {
	return r.frames
}

// Close flushes buffered frames and closes the file if the recorder
// opened it. Calling it again is a no-op.
func (r *Recorder) Close() error {
	err := r.w.Flush()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
		r.closer = nil
	}
	return err
}

// Load reads a whole recording
func Load(r io.Reader) (*Recording, error) {
	br := bufio.NewReader(r)
	rec := &Recording{}
	if err := rec.Header.Decode(br); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("record: read header: %w", err)
	}
	for {
		var f Frame
		err := f.Decode(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("record: read frame %d: %w", len(rec.Frames), err)
		}
		rec.Frames = append(rec.Frames, f)
	}
	return rec, nil
}

// LoadFile reads a recording from disk
func LoadFile(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Capture runs the play described by h to completion, or at most
// maxSteps, and returns it as a recording
func Capture(h Header, maxSteps int) *Recording {
	e := h.NewEngine()
	rec := &Recording{Header: h}
	for i := 0; i < maxSteps && !e.Done(); i++ {
		rec.Frames = append(rec.Frames, FrameOf(e.Step(h.FixedDt)))
	}
	return rec
}

// Tolerance is the largest difference Verify accepts between a recorded
// and a replayed value
const Tolerance = 1e-12

// Verify replays the recording from its header and compares every frame.
// It returns the tick of the first frame that differs, or ok when all of
// them match.
func Verify(rec *Recording) (diverged uint64, ok bool) {
	e := rec.Header.NewEngine()
	for _, want := range rec.Frames {
		got := FrameOf(e.Step(rec.Header.FixedDt))
		if !framesMatch(got, want) {
			return want.Tick, false
		}
	}
	return 0, true
}

func framesMatch(a, b Frame) bool {
	if a.Tick != b.Tick || len(a.Agents) != len(b.Agents) {
		return false
	}
	for i := range a.Agents {
		x, y := a.Agents[i], b.Agents[i]
		if x.Role != y.Role ||
			!near(x.Distance, y.Distance) ||
			!near(x.Position.X, y.Position.X) ||
			!near(x.Position.Y, y.Position.Y) {
			return false
		}
	}
	return true
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance
}
