package audio

import (
	"time"

	"github.com/gopxl/beep"
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// SampleRate is shared by the synthesizer and the output context
const SampleRate = 48000

// SoundID identifies a sound effect
type SoundID string

const (
	SndWhistle SoundID = "whistle"
	SndClick   SoundID = "click"
)

// WhistleDuration is how long the end-of-play whistle lasts
const WhistleDuration = 450 * time.Millisecond

// AudioManager plays synthesized effects through Ebitengine's audio
// context. Effects are rendered to PCM once and cached.
type AudioManager struct {
	MasterVolume float64
	SFXVolume    float64
	Muted        bool

	ctx   *ebaudio.Context
	cache map[SoundID][]byte
}

func NewAudioManager() *AudioManager {
	return &AudioManager{
		MasterVolume: 1.0,
		SFXVolume:    0.8,
		cache:        make(map[SoundID][]byte),
	}
}

// PCM returns the rendered samples of a sound effect
func (am *AudioManager) PCM(id SoundID) []byte {
	if b, ok := am.cache[id]; ok {
		return b
	}
	rate := beep.SampleRate(SampleRate)
	var s beep.Streamer
	switch id {
	case SndWhistle:
		s = NewWhistle(rate, WhistleDuration, 1)
	case SndClick:
		s = NewClick(rate, 0.6)
	default:
		return nil
	}
	b := EncodeF32(s)
	am.cache[id] = b
	return b
}

// Play starts a sound effect. The audio context is created on first use
// since Ebitengine allows only one per process.
func (am *AudioManager) Play(id SoundID) {
	vol := am.volume()
	if vol <= 0 {
		return
	}
	pcm := am.PCM(id)
	if len(pcm) == 0 {
		return
	}
	if am.ctx == nil {
		am.ctx = ebaudio.CurrentContext()
		if am.ctx == nil {
			am.ctx = ebaudio.NewContext(SampleRate)
		}
	}
	p := am.ctx.NewPlayerF32FromBytes(pcm)
	p.SetVolume(vol)
	p.Play()
}

func (am *AudioManager) volume() float64 {
	if am.Muted {
		return 0
	}
	return am.SFXVolume * am.MasterVolume
}

// SetVolume sets master volume (0-1)
func (am *AudioManager) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	am.MasterVolume = v
}

// ToggleMute flips the mute switch and reports the new state
func (am *AudioManager) ToggleMute() bool {
	am.Muted = !am.Muted
	return am.Muted
}
