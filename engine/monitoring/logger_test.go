package monitoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	orig := Logf
	defer func() { Logf = orig }()

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})
	Logf("dropped %d paths", 2)
	assert.Equal(t, []string{"dropped 2 paths"}, lines)

	SetLogger(nil)
	assert.NotPanics(t, func() { Logf("muted") })
	assert.Len(t, lines, 1)
}

type role string

func (r role) String() string { return string(r) }

func TestClampedAndDropped(t *testing.T) {
	orig := Logf
	defer func() { Logf = orig }()

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})
	Clamped("motion", nil)
	assert.Empty(t, lines, "nothing clamped, nothing logged")

	Clamped("motion", []string{"speed", "acceleration"})
	Dropped(role("S"), "duplicate")
	assert.Equal(t, []string{
		"motion: tuning clamped: speed, acceleration",
		"motion: dropping path for S: duplicate",
	}, lines)
}
