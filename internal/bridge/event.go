// Package bridge delivers fault events from the platform into the extra-info
// store.
//
// Each Hook owns a fixed set of keys. A Chain refuses to register two hooks
// that claim the same key, so every key has a single writer. Hooks are called
// one after another for each event and a hook that panics is skipped.
package bridge

import "fmt"

// Kind is the source of a fault event.
type Kind int

const (
	KindPanic Kind = iota
	KindDie
	KindLockup
	KindFreezer
	KindProgress
	KindBattery
)

func (k Kind) String() string {
	switch k {
	case KindPanic:
		return "panic"
	case KindDie:
		return "die"
	case KindLockup:
		return "lockup"
	case KindFreezer:
		return "freezer"
	case KindProgress:
		return "progress"
	case KindBattery:
		return "battery"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Event is one fault observation. Only the fields of its Kind are meaningful.
type Event struct {
	Kind Kind
	CPU  int

	// KindPanic
	Reason string
	PC     uint64
	LR     uint64
	Stack  []string

	// KindDie
	Fault     string
	ESR       uint32
	FaultType string
	Bug       string

	// KindLockup
	LockupType string
	LockupData string
	FreqKHz    uint32
	EHLD       string

	// KindFreezer
	Task string
	PID  int

	// KindProgress: bitmask of reached boot steps.
	Step uint64

	// KindBattery
	Battery string
}
