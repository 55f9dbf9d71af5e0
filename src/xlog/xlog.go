// Package xlog wraps the standard log.Logger with the same hand-rolled
// level prefixes the teacher writes by hand (log.Printf("\tprocessors:
// %d", ...)). It exists because SPEC_FULL.md's façade surfaces a
// core.Warning channel that every subcommand needs to drain the same
// way; this package gives that draining one shared home instead of
// repeating it in every cmd/*.go file. No structured-logging library is
// introduced - the teacher never reaches for one, so neither do we (see
// DESIGN.md).
package xlog

import (
	"log"

	"github.com/marschall-lab/panacus-go/src/core"
)

// Logger prefixes every line with a level tag, the same shape as the
// teacher's hand-written "\t<field>: <value>" log lines, just with a
// level marker in front instead of a leading tab.
type Logger struct {
	l *log.Logger
}

// New wraps an existing *log.Logger (already pointed at the CLI's log
// file handle, per misc.StartLogging).
func New(l *log.Logger) *Logger {
	return &Logger{l: l}
}

// Info logs an informational line.
func (lg *Logger) Info(format string, args ...interface{}) {
	lg.l.Printf("INFO  "+format, args...)
}

// Warn logs a recoverable condition.
func (lg *Logger) Warn(format string, args ...interface{}) {
	lg.l.Printf("WARN  "+format, args...)
}

// Error logs a fatal condition without exiting; the caller decides the
// exit code (the CLI maps error kinds to distinct codes).
func (lg *Logger) Error(format string, args ...interface{}) {
	lg.l.Printf("ERROR "+format, args...)
}

// DrainWarnings logs every warning a core.Run call returned (spec §7,
// "Warnings accumulate in a collaborator-visible channel"). The façade
// never writes to a log itself; this is the one place that channel gets
// surfaced to the user.
func (lg *Logger) DrainWarnings(warnings []core.Warning) {
	for _, w := range warnings {
		lg.Warn("%s: %s", w.Kind, w.Msg)
	}
}
