// Package logger provides the leveled logging used throughout the bundler.
// Messages go to stdout and, when a log file is configured, to that file as well.
// Silent mode suppresses everything below the error level on every sink.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Package-level logger configuration
var (
	mu          sync.Mutex
	logFile     string    // Path to log file (if logging to file)
	logFileDest *os.File  // Open log file (nil if not set)
	console     io.Writer // Console destination, stdout unless replaced
	fields      []any     // Key/value pairs attached to every message
	level       log.Level // Minimum level written to every sink

	dest *log.Logger
)

func init() {
	console = os.Stdout
	level = log.InfoLevel
	dest = newLogger()
}

// newLogger builds the charmbracelet logger from the current configuration.
// Callers must hold mu, except during init.
func newLogger() *log.Logger {
	var out io.Writer = console
	if logFileDest != nil {
		out = io.MultiWriter(console, logFileDest)
	}

	l := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	if len(fields) > 0 {
		l = l.With(fields...)
	}
	return l
}

func rebuild() {
	dest = newLogger()
}

func current() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return dest
}

// SetSilent enables or disables silent mode.
// When silent mode is enabled, only error messages are displayed.
func SetSilent(isSilent bool) {
	mu.Lock()
	defer mu.Unlock()

	if isSilent {
		level = log.ErrorLevel
	} else if level == log.ErrorLevel {
		level = log.InfoLevel
	}
	rebuild()
}

// SetVerbose enables debug messages.
func SetVerbose(isVerbose bool) {
	mu.Lock()
	defer mu.Unlock()

	if isVerbose {
		level = log.DebugLevel
	} else if level == log.DebugLevel {
		level = log.InfoLevel
	}
	rebuild()
}

// SetOutput replaces the console destination. Tests use it to capture output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	console = w
	rebuild()
}

// With attaches a key/value pair to every subsequent message, e.g. the run id.
// A key that is already attached gets the new value.
func With(key string, value any) {
	mu.Lock()
	defer mu.Unlock()

	for i := 0; i+1 < len(fields); i += 2 {
		if fields[i] == key {
			fields[i+1] = value
			rebuild()
			return
		}
	}
	fields = append(fields, key, value)
	rebuild()
}

// Reset restores the default configuration and closes any open log file.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	if logFileDest != nil {
		_ = logFileDest.Close()
	}
	logFile = ""
	logFileDest = nil
	console = os.Stdout
	fields = nil
	level = log.InfoLevel
	rebuild()
}

// Debug logs a debug message (detailed information for developers).
func Debug(format string, values ...any) {
	current().Debug(message(format, values))
}

// Info logs an informational message about the progress of the bundler.
func Info(format string, values ...any) {
	current().Info(message(format, values))
}

// Warn logs a warning message. Execution continues after a warning.
func Warn(format string, values ...any) {
	current().Warn(message(format, values))
}

// Error logs an error. It never stops the program: the caller decides how the
// error propagates.
func Error(err error) {
	if err == nil {
		return
	}
	current().Error(err.Error())
}

func message(format string, values []any) string {
	if len(values) == 0 {
		return format
	}
	return fmt.Sprintf(format, values...)
}

// SetLogFile sets up logging to a file in addition to stdout.
// The log file will be created with a name based on the application name and current date/time.
// Format: <appName>_YYYY-MM-DD_HH-MM-SS.log
// If logDir is empty, the file will be created in the current directory.
//
// Parameters:
//   - appName: Name of the application (used in filename)
//   - logDir: Directory where the log file should be created (empty string = current directory)
//
// Returns an error if the log file cannot be created or opened.
func SetLogFile(appName string, logDir string) error {
	fileName := fmt.Sprintf("%s_%s.log", appName, time.Now().Format("2006-01-02_15-04-05"))

	filePath := fileName
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		filePath = filepath.Join(logDir, fileName)
	}

	return SetLogFileWithPath(filePath)
}

// SetLogFileWithPath sets up logging to a specific file path.
// If a log file is already set, it is closed and replaced.
func SetLogFileWithPath(filePath string) error {
	dir := filepath.Dir(filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	file, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if logFileDest != nil {
		_ = logFileDest.Close()
	}
	logFile = filePath
	logFileDest = file
	rebuild()

	return nil
}

// GetLogFilePath returns the current log file path, or empty string if no log file is set.
func GetLogFilePath() string {
	mu.Lock()
	defer mu.Unlock()
	return logFile
}
