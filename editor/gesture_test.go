package editor

import (
	"testing"

	"github.com/1siamBot/whiteboard/engine/board"
	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/1siamBot/whiteboard/engine/geom"
	"github.com/1siamBot/whiteboard/engine/tuning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragHome(t *testing.T) {
	e := NewEditor(board.Default())
	tn := tuning.Default()
	require.True(t, e.Press(geom.Pos(0.5, 0.61), false, 0.05, tn))
	assert.Equal(t, GestureHome, e.Active())
	assert.Equal(t, core.RoleLibero, e.Selected)
	assert.Equal(t, core.RoleLibero, e.Dragged())

	require.NoError(t, e.DragTo(geom.Pos(0.45, 0.62)))
	require.NoError(t, e.DragTo(geom.Pos(0.4, 0.65)))
	e.Release()
	assert.Equal(t, GestureNone, e.Active())
	assert.Equal(t, core.NoRole, e.Dragged())
	assert.Equal(t, geom.Pos(0.4, 0.65), home(t, e, core.RoleLibero))
	assert.Len(t, e.UndoStack, 1)
}

func TestSecondaryDragDrawsArrow(t *testing.T) {
	e := NewEditor(nil)
	tn := tuning.Default()
	require.NoError(t, e.Place(core.RoleSetter, geom.Pos(0.2, 0.2)))
	require.True(t, e.Press(geom.Pos(0.2, 0.2), true, 0.05, tn))
	assert.Equal(t, GestureTarget, e.Active())
	assert.Equal(t, core.NoRole, e.Dragged())
	require.NoError(t, e.DragTo(geom.Pos(0.7, 0.3)))
	e.Release()

	tok, _ := e.Board.Token(core.RoleSetter)
	require.True(t, tok.HasArrow())
	assert.Equal(t, geom.Pos(0.7, 0.3), *tok.Target)
	assert.Equal(t, geom.Pos(0.2, 0.2), tok.Home)
}

func TestArrowToolUsesPrimary(t *testing.T) {
	e := NewEditor(nil)
	e.Tool = ToolArrow
	require.NoError(t, e.Place(core.RoleSetter, geom.Pos(0.2, 0.2)))
	require.True(t, e.Press(geom.Pos(0.2, 0.2), false, 0.05, tuning.Default()))
	assert.Equal(t, GestureTarget, e.Active())
}

func TestHandleDragBendsArrow(t *testing.T) {
	e := NewEditor(nil)
	tn := tuning.Default()
	require.NoError(t, e.Place(core.RoleSetter, geom.Pos(0.2, 0.5)))
	require.NoError(t, e.SetTarget(core.RoleSetter, geom.Pos(0.8, 0.5)))
	h, ok := e.Handle(core.RoleSetter, tn)
	require.True(t, ok)

	require.True(t, e.Press(h, false, 0.03, tn))
	assert.Equal(t, GestureHandle, e.Active())
	require.NoError(t, e.DragTo(geom.Pos(0.5, 0.3)))
	e.Release()

	tok, _ := e.Board.Token(core.RoleSetter)
	require.NotNil(t, tok.Control)
	mid := geom.CurveMidpoint(tok.Home, *tok.Control, *tok.Target)
	assert.InDelta(t, 0.5, mid.X, 1e-9)
	assert.InDelta(t, 0.3, mid.Y, 1e-9)
}

func TestPressOnNothingClearsSelection(t *testing.T) {
	e := NewEditor(board.Default())
	e.Selected = core.RoleSetter
	assert.False(t, e.Press(geom.Pos(1.1, -0.1), false, 0.05, tuning.Default()))
	assert.Equal(t, core.NoRole, e.Selected)
	assert.NoError(t, e.DragTo(geom.Pos(0.5, 0.5)))
	assert.Empty(t, e.UndoStack)
}
