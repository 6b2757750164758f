package common

import (
	"errors"
	"fmt"
	"testing"

	"secdebug/internal/xinfo"
)

func TestErrorStrings(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "Invalid SevNone",
			err:      NewError(xinfo.ErrSevNone, xinfo.OK),
			expected: "RECORDER INTERNAL ERROR: Invalid Error Object",
		},
		{
			name:     "Invalid Sev Out of Bounds",
			err:      NewError(xinfo.ErrSeverity(99), xinfo.OK),
			expected: "RECORDER INTERNAL ERROR: Invalid Error Object",
		},
		{
			name:     "Error Basic",
			err:      NewError(xinfo.ErrSevError, xinfo.ErrFail),
			expected: "ERROR:0x0001 (XI_ERR_FAIL) [General failure.]; ",
		},
		{
			name:     "Warning with key",
			err:      NewErrorKey(xinfo.ErrSevWarn, xinfo.ErrValueTooLong, "PANIC"),
			expected: "WARN :0x0004 (XI_ERR_VALUE_TOO_LONG) [Value truncated to record capacity.]; key=PANIC; ",
		},
		{
			name:     "Info with key and msg",
			err:      NewErrorKeyMsg(xinfo.ErrSevInfo, xinfo.ErrKeyNotFound, "NOPE", "live region"),
			expected: "INFO :0x0003 (XI_ERR_KEY_NOT_FOUND) [Key has no record in the region.]; key=NOPE; live region",
		},
		{
			name:     "Error with msg",
			err:      NewErrorMsg(xinfo.ErrSevError, xinfo.ErrLayoutOverflow, "footprint 0xf000 > 0x7000"),
			expected: "ERROR:0x0002 (XI_ERR_LAYOUT_OVERFLOW) [Slot classes do not fit in half of the extra-info region.]; footprint 0xf000 > 0x7000",
		},
		{
			name:     "Errorf",
			err:      Errorf(xinfo.ErrUnknownView, "view %q", "Z"),
			expected: "ERROR:0x000c (XI_ERR_UNKNOWN_VIEW) [No view with that name in the registry.]; view \"Z\"",
		},
		{
			name:     "Unknown error code",
			err:      NewError(xinfo.ErrSevError, 9999),
			expected: "ERROR:0x270f (unknown); ",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.err.Error()
			if got != tc.expected {
				t.Errorf("Expected string: %q, got: %q", tc.expected, got)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := NewErrorKey(xinfo.ErrSevWarn, xinfo.ErrValueTooLong, "STACK")
	wrapped := fmt.Errorf("set STACK: %w", err)

	if !errors.Is(wrapped, CodeErr(xinfo.ErrValueTooLong)) {
		t.Errorf("errors.Is should match by code through wrapping")
	}
	if errors.Is(wrapped, CodeErr(xinfo.ErrKeyNotFound)) {
		t.Errorf("errors.Is should not match a different code")
	}

	joined := errors.Join(CodeErr(xinfo.ErrClassCapacity), CodeErr(xinfo.ErrDuplicateKeyInRegistry))
	if !errors.Is(joined, CodeErr(xinfo.ErrDuplicateKeyInRegistry)) {
		t.Errorf("errors.Is should find a code inside errors.Join")
	}
}

func TestErrCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want xinfo.Err
	}{
		{"nil", nil, xinfo.OK},
		{"recorder error", CodeErr(xinfo.ErrOutOfRange), xinfo.ErrOutOfRange},
		{"foreign error", errors.New("boom"), xinfo.ErrFail},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ErrCode(tc.err); got != tc.want {
				t.Errorf("ErrCode() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestErrorCodes(t *testing.T) {
	codes := ErrorCodes()
	if len(codes) != int(xinfo.ErrLast)+1 {
		t.Fatalf("ErrorCodes() has %d codes, want %d", len(codes), xinfo.ErrLast+1)
	}
	for i, c := range codes {
		if c != xinfo.Err(i) {
			t.Errorf("ErrorCodes()[%d] = %d", i, c)
		}
	}
	if name, _, ok := Describe(xinfo.ErrKeyClaimed); !ok || name != "XI_ERR_KEY_CLAIMED" {
		t.Errorf("Describe(ErrKeyClaimed) = %q, %v", name, ok)
	}
	if _, _, ok := Describe(999); ok {
		t.Errorf("Describe(999) should not be found")
	}
}
