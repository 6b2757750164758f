package common

import (
	"fmt"
	"slices"
	"strings"

	"secdebug/internal/xinfo"
)

// Error represents the recorder error object.
type Error struct {
	Code    xinfo.Err
	Sev     xinfo.ErrSeverity
	Key     string
	Message string
}

func NewError(sev xinfo.ErrSeverity, code xinfo.Err) *Error {
	return &Error{
		Code: code,
		Sev:  sev,
	}
}

func NewErrorMsg(sev xinfo.ErrSeverity, code xinfo.Err, msg string) *Error {
	return &Error{
		Code:    code,
		Sev:     sev,
		Message: msg,
	}
}

func NewErrorKey(sev xinfo.ErrSeverity, code xinfo.Err, key string) *Error {
	return &Error{
		Code: code,
		Sev:  sev,
		Key:  key,
	}
}

func NewErrorKeyMsg(sev xinfo.ErrSeverity, code xinfo.Err, key, msg string) *Error {
	return &Error{
		Code:    code,
		Sev:     sev,
		Key:     key,
		Message: msg,
	}
}

// Errorf builds an error-severity Error with a formatted message.
func Errorf(code xinfo.Err, format string, args ...any) *Error {
	return NewErrorMsg(xinfo.ErrSevError, code, fmt.Sprintf(format, args...))
}

// CodeErr returns a bare Error usable as an errors.Is target.
func CodeErr(code xinfo.Err) *Error {
	return &Error{Code: code, Sev: xinfo.ErrSevError}
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Error implements the standard error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	switch e.Sev {
	case xinfo.ErrSevNone:
		return "RECORDER INTERNAL ERROR: Invalid Error Object"
	case xinfo.ErrSevError:
		sb.WriteString("ERROR:")
	case xinfo.ErrSevWarn:
		sb.WriteString("WARN :")
	case xinfo.ErrSevInfo:
		sb.WriteString("INFO :")
	default:
		return "RECORDER INTERNAL ERROR: Invalid Error Object"
	}

	sb.WriteString(fmt.Sprintf("0x%04x ", e.Code))

	if desc, ok := errorCodeDesc[e.Code]; ok {
		sb.WriteString(fmt.Sprintf("(%s) [%s]; ", desc.name, desc.msg))
	} else {
		sb.WriteString("(unknown); ")
	}

	if e.Key != "" {
		sb.WriteString(fmt.Sprintf("key=%s; ", e.Key))
	}

	sb.WriteString(e.Message)
	return sb.String()
}

// ErrCode extracts the code of err, or xinfo.ErrFail for foreign errors and
// xinfo.OK for nil.
func ErrCode(err error) xinfo.Err {
	if err == nil {
		return xinfo.OK
	}
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return xinfo.ErrFail
}

type errDesc struct {
	name string
	msg  string
}

var errorCodeDesc = map[xinfo.Err]errDesc{
	xinfo.OK:                        {"XI_OK", "No Error."},
	xinfo.ErrFail:                   {"XI_ERR_FAIL", "General failure."},
	xinfo.ErrLayoutOverflow:         {"XI_ERR_LAYOUT_OVERFLOW", "Slot classes do not fit in half of the extra-info region."},
	xinfo.ErrKeyNotFound:            {"XI_ERR_KEY_NOT_FOUND", "Key has no record in the region."},
	xinfo.ErrValueTooLong:           {"XI_ERR_VALUE_TOO_LONG", "Value truncated to record capacity."},
	xinfo.ErrDuplicateKeyInRegistry: {"XI_ERR_DUP_KEY", "Key registry is internally inconsistent."},
	xinfo.ErrClassCapacity:          {"XI_ERR_CLASS_CAPACITY", "More registry keys than records in slot class."},
	xinfo.ErrAlreadyWritten:         {"XI_ERR_ALREADY_WRITTEN", "Value already written this boot."},
	xinfo.ErrOutOfRange:             {"XI_ERR_OUT_OF_RANGE", "Record index or offset outside the window."},
	xinfo.ErrBadHeader:              {"XI_ERR_BAD_HEADER", "Window header missing or does not match layout."},
	xinfo.ErrNotReady:               {"XI_ERR_NOT_READY", "Store not initialised."},
	xinfo.ErrKeyClaimed:             {"XI_ERR_KEY_CLAIMED", "Key already owned by another fault adapter."},
	xinfo.ErrUnknownView:            {"XI_ERR_UNKNOWN_VIEW", "No view with that name in the registry."},
	xinfo.ErrRegistryParse:          {"XI_ERR_REGISTRY_PARSE", "Key registry configuration could not be parsed."},
	xinfo.ErrFileError:              {"XI_ERR_FILE_ERROR", "File access error."},
	xinfo.ErrLast:                   {"XI_ERR_LAST", "No error - error code end marker"},
}

// ErrorCodes lists every described code in ascending order.
func ErrorCodes() []xinfo.Err {
	codes := make([]xinfo.Err, 0, len(errorCodeDesc))
	for c := range errorCodeDesc {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	return codes
}

// Describe returns the symbolic name and description of code.
func Describe(code xinfo.Err) (name, msg string, ok bool) {
	d, ok := errorCodeDesc[code]
	return d.name, d.msg, ok
}
