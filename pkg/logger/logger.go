package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// VerboseLevel represents the verbosity level for logging
type VerboseLevel int

const (
	// VerboseSilent means no verbose output
	VerboseSilent VerboseLevel = 0
	// VerboseNormal means standard verbose output (-v)
	VerboseNormal VerboseLevel = 1
	// VerboseVery means detailed debugging output (-vv)
	VerboseVery VerboseLevel = 2
)

// Logger handles verbose output at different levels
type Logger struct {
	level VerboseLevel
	out   io.Writer
	mu    sync.Mutex
}

// NewLogger creates a new logger with the specified verbosity level that
// writes to stderr
func NewLogger(level int) *Logger {
	return NewLoggerTo(os.Stderr, level)
}

// NewLoggerTo creates a logger writing to w. Pass io.Discard to mute
// Info and Error as well.
func NewLoggerTo(w io.Writer, level int) *Logger {
	return &Logger{level: VerboseLevel(level), out: w}
}

// Level returns the configured verbosity
func (l *Logger) Level() VerboseLevel {
	return l.level
}

// IsVerbose returns true if verbose mode is enabled (-v or -vv)
func (l *Logger) IsVerbose() bool {
	return l.level >= VerboseNormal
}

// IsVeryVerbose returns true if very verbose mode is enabled (-vv)
func (l *Logger) IsVeryVerbose() bool {
	return l.level >= VerboseVery
}

func (l *Logger) printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, format, args...)
}

// V logs a message at verbose level (-v)
func (l *Logger) V(format string, args ...interface{}) {
	if l.IsVerbose() {
		l.printf("[*] "+format+"\n", args...)
	}
}

// VV logs a message at very verbose level (-vv)
func (l *Logger) VV(format string, args ...interface{}) {
	if l.IsVeryVerbose() {
		l.printf("[VV] "+format+"\n", args...)
	}
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.printf("[+] "+format+"\n", args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.printf("[!] "+format+"\n", args...)
}

// Section logs a section header for very verbose mode
func (l *Logger) Section(title string) {
	if l.IsVeryVerbose() {
		l.printf("\n[VV] === %s ===\n", title)
	}
}

// Detail logs a detail line for very verbose mode with indentation
func (l *Logger) Detail(format string, args ...interface{}) {
	if l.IsVeryVerbose() {
		l.printf("[VV] → "+format+"\n", args...)
	}
}
