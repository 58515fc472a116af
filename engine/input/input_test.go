package input

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
)

func mouse(x, y int, left, right bool) Frame {
	f := Frame{MouseX: x, MouseY: y}
	f.Buttons[Left] = left
	f.Buttons[Right] = right
	return f
}

func TestClickIsNotDrag(t *testing.T) {
	s := NewInputState()
	s.Apply(mouse(10, 10, false, false))
	s.Apply(mouse(10, 10, true, false))
	assert.True(t, s.JustPressed[Left])
	s.Apply(mouse(12, 11, true, false))
	assert.False(t, s.JustPressed[Left])
	assert.False(t, s.Dragging(Left))
	s.Apply(mouse(12, 11, false, false))
	assert.True(t, s.Clicked(Left))
	assert.False(t, s.DragEnded(Left))
}

func TestDragPastThreshold(t *testing.T) {
	s := NewInputState()
	s.Apply(mouse(100, 100, false, false))
	s.Apply(mouse(100, 100, false, true))
	s.Apply(mouse(110, 100, false, true))
	assert.True(t, s.Dragging(Right))
	assert.False(t, s.Dragging(Left))
	assert.Equal(t, 100, s.Drags[Right].StartX)
	assert.Equal(t, 10, s.MouseDX)

	s.Apply(mouse(120, 105, false, false))
	assert.True(t, s.DragEnded(Right))
	assert.False(t, s.Clicked(Right))
	assert.False(t, s.Dragging(Right))

	// a new press starts fresh
	s.Apply(mouse(120, 105, false, true))
	assert.False(t, s.Drags[Right].Active)
}

func TestKeyEdges(t *testing.T) {
	s := NewInputState()
	s.Apply(Frame{Keys: map[ebiten.Key]bool{ebiten.KeySpace: true, ebiten.KeyControl: true}})
	assert.True(t, s.IsKeyJustPressed(ebiten.KeySpace))
	assert.True(t, s.Ctrl())
	assert.False(t, s.Shift())

	s.Apply(Frame{Keys: map[ebiten.Key]bool{ebiten.KeySpace: true, ebiten.Key3: true}})
	assert.False(t, s.IsKeyJustPressed(ebiten.KeySpace))
	assert.Equal(t, 2, s.DigitJustPressed())
	assert.True(t, s.Ctrl(), "keys absent from a frame keep their state")

	s.Apply(Frame{Keys: map[ebiten.Key]bool{ebiten.KeySpace: false, ebiten.Key3: false}})
	assert.Equal(t, -1, s.DigitJustPressed())
}
