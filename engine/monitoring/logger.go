// Package monitoring is the diagnostic log of the whiteboard. The engine
// writes to it only at its boundaries: when tuning values are clamped into
// range and when a path is dropped before a play starts. Hosts add play
// lifecycle lines. Nothing is logged from inside a simulation step.
package monitoring

import (
	"fmt"
	"log"
	"strings"
)

// Logf is the sink every line goes through. It defaults to log.Printf.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the sink. Passing nil mutes the log.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Clamped records tuning fields that were pulled back into range by source
func Clamped(source string, fields []string) {
	if len(fields) == 0 {
		return
	}
	Logf("%s: tuning clamped: %s", source, strings.Join(fields, ", "))
}

// Dropped records a path that will not move in the coming play
func Dropped(role fmt.Stringer, reason string) {
	Logf("motion: dropping path for %v: %s", role, reason)
}
