// Package stdlogger exposes the global zerolog logger through printf style methods.
// gorm's logger.Writer is one of the consumers.
package stdlogger

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger forwards formatted messages to zerolog.
type Logger struct {
	printLevel zerolog.Level
	component  string
}

// New returns a Logger whose Printf logs at info level.
func New() *Logger {
	return NewWithLevel("", zerolog.InfoLevel)
}

// NewWithLevel returns a Logger tagged with component whose Printf logs at l.
func NewWithLevel(component string, l zerolog.Level) *Logger {
	return &Logger{printLevel: l, component: component}
}

func (l *Logger) event(level zerolog.Level) *zerolog.Event {
	e := log.WithLevel(level)
	if l.component != "" {
		e = e.Str("component", l.component)
	}

	return e
}

// Printf implements gorm.io/gorm/logger.Writer.
func (l *Logger) Printf(format string, args ...interface{}) {
	l.event(l.printLevel).Msgf(format, args...)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.event(zerolog.DebugLevel).Msgf(format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.event(zerolog.InfoLevel).Msgf(format, args...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.event(zerolog.WarnLevel).Msgf(format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.event(zerolog.ErrorLevel).Msgf(format, args...)
}
