package audio

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// tone is a sine oscillator with an optional vibrato, the trill of a pea
// whistle
type tone struct {
	freq      float64
	trillFreq float64
	trillHz   float64
	phase     float64
	trill     float64
	pos, n    int
	rate      beep.SampleRate
}

func (o *tone) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if o.pos >= o.n {
			return i, i > 0
		}
		v := math.Sin(2 * math.Pi * o.phase)
		samples[i][0] = v
		samples[i][1] = v

		f := o.freq + o.trillFreq*math.Sin(2*math.Pi*o.trill)
		o.phase += f / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.trill += o.trillHz / float64(o.rate)
		o.trill -= math.Floor(o.trill)
		o.pos++
	}
	return len(samples), true
}

func (o *tone) Err() error { return nil }

// envelope ramps a stream in and out linearly
type envelope struct {
	s               beep.Streamer
	pos, total      int
	attack, release int
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.pos < e.attack {
			vol = float64(e.pos) / float64(e.attack)
		}
		if left := e.total - e.pos; left < e.release {
			vol = math.Min(vol, float64(left)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

func shaped(o *tone, attack, release time.Duration) beep.Streamer {
	return &envelope{s: o, total: o.n, attack: o.rate.N(attack), release: o.rate.N(release)}
}

func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

// NewWhistle is the referee whistle played when a play ends
func NewWhistle(rate beep.SampleRate, d time.Duration, vol float64) beep.Streamer {
	n := rate.N(d)
	body := &tone{freq: 2900, trillFreq: 180, trillHz: 32, n: n, rate: rate}
	over := &tone{freq: 5800, trillFreq: 360, trillHz: 32, n: n, rate: rate}
	mixed := beep.Mix(
		volume(shaped(body, 15*time.Millisecond, 60*time.Millisecond), 0.8),
		volume(shaped(over, 15*time.Millisecond, 60*time.Millisecond), 0.2),
	)
	return volume(mixed, vol)
}

// NewClick is the short tick played when a player arrives
func NewClick(rate beep.SampleRate, vol float64) beep.Streamer {
	o := &tone{freq: 1400, n: rate.N(25 * time.Millisecond), rate: rate}
	return volume(shaped(o, 2*time.Millisecond, 15*time.Millisecond), vol)
}

// EncodeF32 drains s into interleaved little-endian float32 stereo PCM,
// clipping to [-1, 1]
func EncodeF32(s beep.Streamer) []byte {
	var out []byte
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, frame := range buf[:n] {
			for _, v := range frame {
				out = binary.LittleEndian.AppendUint32(out, math.Float32bits(float32(math.Max(-1, math.Min(1, v)))))
			}
		}
		if !ok || n == 0 {
			return out
		}
	}
}
