// Package logging provides the small leveled wrapper every package in this
// module logs through, instead of reaching for the global log package
// directly.
package logging

import (
	"log"
	"os"
)

// Logger is the minimal leveled sink used across the graph engine. It
// mirrors the shape of badger's own Logger interface (Errorf/Warningf/
// Infof/Debugf) so a *Logger can be handed straight to badger.Options.
type Logger struct {
	out   *log.Logger
	debug bool
}

// New builds a Logger writing to stderr with the given prefix.
func New(prefix string) *Logger {
	return &Logger{out: log.New(os.Stderr, prefix, log.LstdFlags)}
}

// NewWithDebug builds a Logger that also emits Debugf output.
func NewWithDebug(prefix string) *Logger {
	return &Logger{out: log.New(os.Stderr, prefix, log.LstdFlags), debug: true}
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.out.Printf("ERROR "+format, args...)
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.out.Printf("WARN "+format, args...)
}

// Warnf is the side channel the export size guard writes its human-visible
// warning to (spec §4.8: "emit a human-visible warning on the side
// channel").
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Warningf(format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.out.Printf("INFO "+format, args...)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.out.Printf("DEBUG "+format, args...)
}
