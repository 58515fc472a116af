package input

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Button is a mouse button that can start a drag
type Button int

const (
	Left Button = iota
	Right
	buttonCount
)

// Frame is the raw device state sampled once per tick
type Frame struct {
	MouseX, MouseY int
	Buttons        [buttonCount]bool
	ScrollY        float64
	Keys           map[ebiten.Key]bool
}

// Keys is the set of keys the whiteboard listens to
var Keys = []ebiten.Key{
	ebiten.KeySpace, ebiten.KeyR, ebiten.KeyTab, ebiten.KeyEscape, ebiten.KeyEnter,
	ebiten.KeyUp, ebiten.KeyDown, ebiten.KeyLeft, ebiten.KeyRight,
	ebiten.KeyShift, ebiten.KeyControl,
	ebiten.KeyZ, ebiten.KeyY, ebiten.KeyS, ebiten.KeyC, ebiten.KeyE, ebiten.KeyN, ebiten.KeyP, ebiten.KeyH, ebiten.KeyM,
	ebiten.KeyDelete, ebiten.KeyBackspace,
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6, ebiten.Key7,
}

// Drag tracks one button held down and moved past the threshold
type Drag struct {
	StartX, StartY int
	Active         bool
	pressed        bool
}

// InputState tracks mouse and keyboard state per frame
type InputState struct {
	// Mouse
	MouseX, MouseY   int
	MouseDX, MouseDY int // delta since last frame
	Pressed          [buttonCount]bool
	JustPressed      [buttonCount]bool
	JustReleased     [buttonCount]bool
	ScrollY          float64

	Drags         [buttonCount]Drag
	DragThreshold int

	// Keyboard
	KeysPressed map[ebiten.Key]bool
	justPressed map[ebiten.Key]bool
}

func NewInputState() *InputState {
	return &InputState{
		DragThreshold: 5,
		KeysPressed:   make(map[ebiten.Key]bool),
		justPressed:   make(map[ebiten.Key]bool),
	}
}

// Sample reads the current device state from Ebitengine
func Sample() Frame {
	f := Frame{Keys: make(map[ebiten.Key]bool, len(Keys))}
	f.MouseX, f.MouseY = ebiten.CursorPosition()
	f.Buttons[Left] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	f.Buttons[Right] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	_, f.ScrollY = ebiten.Wheel()
	for _, k := range Keys {
		f.Keys[k] = ebiten.IsKeyPressed(k)
	}
	return f
}

// Update should be called every frame
func (s *InputState) Update() {
	s.Apply(Sample())
}

// Apply advances the state by one sampled frame
func (s *InputState) Apply(f Frame) {
	s.MouseDX = f.MouseX - s.MouseX
	s.MouseDY = f.MouseY - s.MouseY
	s.MouseX, s.MouseY = f.MouseX, f.MouseY
	s.ScrollY = f.ScrollY

	for b := Left; b < buttonCount; b++ {
		down := f.Buttons[b]
		s.JustPressed[b] = down && !s.Pressed[b]
		s.JustReleased[b] = !down && s.Pressed[b]
		s.Pressed[b] = down
		s.track(b, down)
	}

	for k := range s.justPressed {
		delete(s.justPressed, k)
	}
	for k, down := range f.Keys {
		if down && !s.KeysPressed[k] {
			s.justPressed[k] = true
		}
		s.KeysPressed[k] = down
	}
}

func (s *InputState) track(b Button, down bool) {
	d := &s.Drags[b]
	if s.JustPressed[b] {
		*d = Drag{StartX: s.MouseX, StartY: s.MouseY, pressed: true}
	}
	if down && d.pressed && !d.Active {
		dx := s.MouseX - d.StartX
		dy := s.MouseY - d.StartY
		if dx*dx+dy*dy > s.DragThreshold*s.DragThreshold {
			d.Active = true
		}
	}
	if !down {
		d.pressed = false
	}
}

// IsKeyJustPressed returns true if key was just pressed this frame
func (s *InputState) IsKeyJustPressed(key ebiten.Key) bool {
	return s.justPressed[key]
}

// Dragging reports whether b is held and has moved past the threshold
func (s *InputState) Dragging(b Button) bool {
	return s.Pressed[b] && s.Drags[b].Active
}

// DragEnded reports whether a drag with b finished this frame
func (s *InputState) DragEnded(b Button) bool {
	return s.JustReleased[b] && s.Drags[b].Active
}

// Clicked reports whether b was released without dragging
func (s *InputState) Clicked(b Button) bool {
	return s.JustReleased[b] && !s.Drags[b].Active
}

// Ctrl reports whether a control key is held
func (s *InputState) Ctrl() bool {
	return s.KeysPressed[ebiten.KeyControl]
}

// Shift reports whether a shift key is held
func (s *InputState) Shift() bool {
	return s.KeysPressed[ebiten.KeyShift]
}

// DigitJustPressed maps the number keys 1-7 to 0-6, or -1
func (s *InputState) DigitJustPressed() int {
	for i, k := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6, ebiten.Key7} {
		if s.justPressed[k] {
			return i
		}
	}
	return -1
}
