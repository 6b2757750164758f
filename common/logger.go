package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Severity represents log message severity levels
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	// SeverityCritical marks conditions that make the recorder itself untrustworthy
	// (inconsistent key registry, layout overflow).
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Logger interface defines the logging contract for the recorder
type Logger interface {
	// Log logs a message with the specified severity
	Log(severity Severity, msg string)

	// Logf logs a formatted message with the specified severity
	Logf(severity Severity, format string, args ...interface{})

	// Error logs an error
	Error(err error)

	// Debug logs a debug message
	Debug(msg string)

	// Info logs an info message
	Info(msg string)

	// Warning logs a warning message
	Warning(msg string)

	// Critical logs a message that invalidates the diagnostic store
	Critical(msg string)
}

// OrNoOp returns l, or a NoOpLogger when l is nil.
func OrNoOp(l Logger) Logger {
	if l == nil {
		return NewNoOpLogger()
	}
	return l
}

// StdLogger implements the Logger interface using Go's standard logger
type StdLogger struct {
	debugLog    *log.Logger
	infoLog     *log.Logger
	warningLog  *log.Logger
	errorLog    *log.Logger
	criticalLog *log.Logger
	minLevel    Severity
}

// NewStdLogger creates a new standard logger
func NewStdLogger(minLevel Severity) *StdLogger {
	return NewStdLoggerWithWriter(os.Stdout, os.Stderr, minLevel)
}

// NewStdLoggerWithWriter creates a new standard logger with custom writers
func NewStdLoggerWithWriter(stdout, stderr io.Writer, minLevel Severity) *StdLogger {
	return &StdLogger{
		debugLog:    log.New(stdout, "DEBUG: ", log.Ltime|log.Lshortfile),
		infoLog:     log.New(stdout, "INFO: ", log.Ltime),
		warningLog:  log.New(stdout, "WARNING: ", log.Ltime),
		errorLog:    log.New(stderr, "ERROR: ", log.Ltime|log.Lshortfile),
		criticalLog: log.New(stderr, "CRITICAL: ", log.Ltime|log.Lshortfile),
		minLevel:    minLevel,
	}
}

// Log logs a message with the specified severity
func (l *StdLogger) Log(severity Severity, msg string) {
	if severity < l.minLevel {
		return
	}

	switch severity {
	case SeverityDebug:
		l.debugLog.Output(2, msg)
	case SeverityInfo:
		l.infoLog.Output(2, msg)
	case SeverityWarning:
		l.warningLog.Output(2, msg)
	case SeverityError:
		l.errorLog.Output(2, msg)
	case SeverityCritical:
		l.criticalLog.Output(2, msg)
	}
}

// Logf logs a formatted message with the specified severity
func (l *StdLogger) Logf(severity Severity, format string, args ...interface{}) {
	l.Log(severity, fmt.Sprintf(format, args...))
}

// Error logs an error
func (l *StdLogger) Error(err error) {
	if err != nil {
		l.Log(SeverityError, err.Error())
	}
}

// Debug logs a debug message
func (l *StdLogger) Debug(msg string) {
	l.Log(SeverityDebug, msg)
}

// Info logs an info message
func (l *StdLogger) Info(msg string) {
	l.Log(SeverityInfo, msg)
}

// Warning logs a warning message
func (l *StdLogger) Warning(msg string) {
	l.Log(SeverityWarning, msg)
}

// Critical logs a critical message
func (l *StdLogger) Critical(msg string) {
	l.Log(SeverityCritical, msg)
}

// NoOpLogger is a logger that doesn't log anything
type NoOpLogger struct{}

// NewNoOpLogger creates a new no-op logger
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Log does nothing
func (l *NoOpLogger) Log(severity Severity, msg string) {}

// Logf does nothing
func (l *NoOpLogger) Logf(severity Severity, format string, args ...interface{}) {}

// Error does nothing
func (l *NoOpLogger) Error(err error) {}

// Debug does nothing
func (l *NoOpLogger) Debug(msg string) {}

// Info does nothing
func (l *NoOpLogger) Info(msg string) {}

// Warning does nothing
func (l *NoOpLogger) Warning(msg string) {}

// Critical does nothing
func (l *NoOpLogger) Critical(msg string) {}

// Entry is one message captured by a MemLogger.
type Entry struct {
	Severity Severity
	Msg      string
}

// MemLogger keeps every message in memory. It is safe for concurrent use.
type MemLogger struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemLogger creates an empty in-memory logger
func NewMemLogger() *MemLogger {
	return &MemLogger{}
}

func (l *MemLogger) Log(severity Severity, msg string) {
	l.mu.Lock()
	l.entries = append(l.entries, Entry{Severity: severity, Msg: msg})
	l.mu.Unlock()
}

func (l *MemLogger) Logf(severity Severity, format string, args ...interface{}) {
	l.Log(severity, fmt.Sprintf(format, args...))
}

func (l *MemLogger) Error(err error) {
	if err != nil {
		l.Log(SeverityError, err.Error())
	}
}

func (l *MemLogger) Debug(msg string)    { l.Log(SeverityDebug, msg) }
func (l *MemLogger) Info(msg string)     { l.Log(SeverityInfo, msg) }
func (l *MemLogger) Warning(msg string)  { l.Log(SeverityWarning, msg) }
func (l *MemLogger) Critical(msg string) { l.Log(SeverityCritical, msg) }

// Entries returns a copy of the captured messages.
func (l *MemLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Count returns how many messages were logged at severity sev.
func (l *MemLogger) Count(sev Severity) int {
	n := 0
	for _, e := range l.Entries() {
		if e.Severity == sev {
			n++
		}
	}
	return n
}
