package common

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestSeverityString(t *testing.T) {
	tests := []struct {
		severity Severity
		expected string
	}{
		{SeverityDebug, "DEBUG"},
		{SeverityInfo, "INFO"},
		{SeverityWarning, "WARNING"},
		{SeverityError, "ERROR"},
		{SeverityCritical, "CRITICAL"},
		{Severity(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.expected {
				t.Errorf("Severity.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// Routine messages go to stdout, failures of the recorder itself to stderr.
func TestStdLoggerRouting(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := NewStdLoggerWithWriter(&stdout, &stderr, SeverityDebug)

	tests := []struct {
		name     string
		log      func()
		want     string
		toStderr bool
	}{
		{"debug", func() { logger.Debug("slot PC found") }, "DEBUG: ", false},
		{"info", func() { logger.Info("store not ready") }, "INFO: ", false},
		{"warning", func() { logger.Warning("key=PANIC; truncated") }, "WARNING: ", false},
		{"error", func() { logger.Error(errors.New("map window")) }, "ERROR: ", true},
		{"critical", func() { logger.Critical("registry inconsistent") }, "CRITICAL: ", true},
		{"logf", func() { logger.Logf(SeverityWarning, "view %s truncated at %d", "A", 2047) }, "view A truncated at 2047", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout.Reset()
			stderr.Reset()
			tt.log()

			got, other := stdout.String(), stderr.String()
			if tt.toStderr {
				got, other = other, got
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("output %q does not contain %q", got, tt.want)
			}
			if other != "" {
				t.Errorf("unexpected output on the other stream: %q", other)
			}
		})
	}
}

func TestStdLoggerMinLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := NewStdLoggerWithWriter(&stdout, &stderr, SeverityWarning)

	logger.Debug("slot scan")
	logger.Info("cold boot")
	logger.Error(nil)
	if stdout.Len() != 0 || stderr.Len() != 0 {
		t.Errorf("messages below Warning were logged: %q %q", stdout.String(), stderr.String())
	}

	logger.Warning("layout overflow")
	if !strings.Contains(stdout.String(), "layout overflow") {
		t.Errorf("Warning should be logged, got: %q", stdout.String())
	}
}

func TestNoOpLogger(t *testing.T) {
	var logger Logger = NewNoOpLogger()
	logger.Log(SeverityInfo, "test")
	logger.Logf(SeverityInfo, "test %s", "formatted")
	logger.Error(errors.New("test error"))
	logger.Debug("debug")
	logger.Info("info")
	logger.Warning("warning")
	logger.Critical("critical")
}

func TestOrNoOp(t *testing.T) {
	if _, ok := OrNoOp(nil).(*NoOpLogger); !ok {
		t.Errorf("OrNoOp(nil) should return a *NoOpLogger")
	}
	mem := NewMemLogger()
	if got := OrNoOp(mem); got != Logger(mem) {
		t.Errorf("OrNoOp(mem) should return the logger unchanged")
	}
}

func TestMemLogger(t *testing.T) {
	logger := NewMemLogger()
	logger.Debug("slot scan")
	logger.Warning("value truncated")
	logger.Logf(SeverityWarning, "view %s truncated at %d", "A", 2047)
	logger.Critical("registry inconsistent")
	logger.Error(nil)

	entries := logger.Entries()
	if len(entries) != 4 {
		t.Fatalf("Entries() len = %d, want 4", len(entries))
	}
	if entries[2].Msg != "view A truncated at 2047" {
		t.Errorf("Entries()[2].Msg = %q", entries[2].Msg)
	}
	if got := logger.Count(SeverityWarning); got != 2 {
		t.Errorf("Count(Warning) = %d, want 2", got)
	}
	if got := logger.Count(SeverityCritical); got != 1 {
		t.Errorf("Count(Critical) = %d, want 1", got)
	}

	entries[0].Msg = "changed"
	if logger.Entries()[0].Msg != "slot scan" {
		t.Errorf("Entries() should return a copy")
	}
}

func TestMemLoggerConcurrent(t *testing.T) {
	logger := NewMemLogger()
	var wg sync.WaitGroup
	for cpu := 0; cpu < 8; cpu++ {
		wg.Add(1)
		go func(cpu int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				logger.Warning(fmt.Sprintf("cpu%d event %d", cpu, i))
			}
		}(cpu)
	}
	wg.Wait()
	if got := logger.Count(SeverityWarning); got != 800 {
		t.Errorf("Count(Warning) = %d, want 800", got)
	}
}
