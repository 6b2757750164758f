// Package xinfo holds the error codes and shared constants of the extra-info recorder.
package xinfo

// General Library Return and Error Codes

// Err represents the recorder error return type
type Err uint32

const (
	OK                        Err = 0
	ErrFail                   Err = 1
	ErrLayoutOverflow         Err = 2
	ErrKeyNotFound            Err = 3
	ErrValueTooLong           Err = 4
	ErrDuplicateKeyInRegistry Err = 5
	ErrClassCapacity          Err = 6
	ErrAlreadyWritten         Err = 7
	ErrOutOfRange             Err = 8
	ErrBadHeader              Err = 9
	ErrNotReady               Err = 10
	ErrKeyClaimed             Err = 11
	ErrUnknownView            Err = 12
	ErrRegistryParse          Err = 13
	ErrFileError              Err = 14
	ErrLast                   Err = 15
)

// ErrSeverity used to indicate the severity of an error
type ErrSeverity uint32

const (
	ErrSevNone  ErrSeverity = 0
	ErrSevError ErrSeverity = 1
	ErrSevWarn  ErrSeverity = 2
	ErrSevInfo  ErrSeverity = 3
)

// Region identifies which half of the extra-info sub-region an access targets.
type Region int

const (
	// Live is written during the current boot session.
	Live Region = iota
	// Shadow holds the copy taken at store initialization.
	Shadow
)

func (r Region) String() string {
	switch r {
	case Live:
		return "live"
	case Shadow:
		return "shadow"
	default:
		return "unknown"
	}
}

// BufID names a buffer inside the memory window, as handed out by the buffer locator.
type BufID int

const (
	BufHeader BufID = iota
	BufExtraInfo
)

// Well-known keys the recorder itself interprets.
const (
	KeyOrder       = "ODR"
	KeyID          = "ID"
	KeyResetReason = "RR"
	KeyPowerOn     = "PWR"
	KeyPowerOff    = "PWROFF"
)
