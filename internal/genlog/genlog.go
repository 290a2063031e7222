/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

// Package genlog is the toolchain's small logging wrapper: plain
// log.Printf to stderr, gated by a verbosity level the caller sets once at
// startup. No structured fields, no fancy levels - the teacher's own CLI
// commands logged the same way.
package genlog

import (
	"log"
	"os"
)

// Logger writes Info at level >= 1 and Debug at level >= 2. Level 0 is
// silent.
type Logger struct {
	Level int
	std   *log.Logger
}

// New returns a Logger writing to stderr with no timestamp prefix, matching
// a CLI's convention of leaving timestamps to the invoking shell or CI log
// collector.
func New(level int) *Logger {
	return &Logger{Level: level, std: log.New(os.Stderr, "", 0)}
}

// Infof logs when Level >= 1.
func (l *Logger) Infof(format string, args ...any) {
	if l.Level < 1 {
		return
	}
	l.std.Printf(format, args...)
}

// Debugf logs when Level >= 2.
func (l *Logger) Debugf(format string, args ...any) {
	if l.Level < 2 {
		return
	}
	l.std.Printf("[debug] "+format, args...)
}
