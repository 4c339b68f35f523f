package generator

import (
	"fmt"
	"io"
	"os"
)

// Logger provides verbose output for the random decisions taken while
// generating.
type Logger struct {
	enabled bool
	out     io.Writer
}

// NewLogger creates a new logger instance.
func NewLogger(enabled bool) *Logger {
	return &Logger{
		enabled: enabled,
		out:     os.Stderr,
	}
}

// SetOutput sets the output writer for the logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.out = w
}

// Log prints a formatted message if verbose mode is enabled.
func (l *Logger) Log(format string, args ...interface{}) {
	if l.Enabled() {
		fmt.Fprintf(l.out, "[unmatcher] "+format+"\n", args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func (l *Logger) Section(name string) {
	if l.Enabled() {
		fmt.Fprintf(l.out, "\n[unmatcher] === %s ===\n", name)
	}
}

// Enabled returns whether the logger is enabled. A nil logger is disabled.
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}
