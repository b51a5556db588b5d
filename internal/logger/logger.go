// Package logger provides leveled logging for the OMR server and CLI.
//
// Output goes to stderr through the standard log package because stdout carries
// the MCP protocol. Debug messages are dropped unless verbose mode is enabled,
// either by the --verbose flag or OMR_MCP_LOG_LEVEL=debug.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// EnvLogLevel is the environment variable that enables debug output when set to "debug".
const EnvLogLevel = "OMR_MCP_LOG_LEVEL"

var (
	mu      sync.RWMutex
	verbose = os.Getenv(EnvLogLevel) == "debug"
	std     = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lshortfile)
)

// SetVerbose enables or disables debug logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if debug logging is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects all log output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
}

// SetFlags changes the standard log flags, e.g. 0 for stable test output.
func SetFlags(flags int) {
	mu.Lock()
	defer mu.Unlock()
	std.SetFlags(flags)
}

// Debug logs a message only in verbose mode.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		emit("DEBUG", format, args...)
	}
}

// Info logs an informational message.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	emit("INFO", format, args...)
}

// Warn logs a warning.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	emit("WARN", format, args...)
}

// emit must be called with mu held.
func emit(level, format string, args ...any) {
	// depth 3: emit -> Debug/Info/Warn -> caller
	std.Output(3, fmt.Sprintf("["+level+"] "+format, args...)) //nolint:errcheck
}
