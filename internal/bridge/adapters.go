package bridge

import (
	"strings"

	"secdebug/common"
)

// Adapter is a Hook built from a handler function that only sees events of
// one kind.
type Adapter struct {
	name string
	kind Kind
	keys []string
	fn   func(s Setter, ev *Event)
}

// NewAdapter creates a Hook for events of kind.
func NewAdapter(name string, kind Kind, keys []string, fn func(s Setter, ev *Event)) *Adapter {
	return &Adapter{name: name, kind: kind, keys: keys, fn: fn}
}

func (a *Adapter) Name() string   { return a.name }
func (a *Adapter) Keys() []string { return a.keys }

func (a *Adapter) Handle(s Setter, ev *Event) {
	if ev.Kind != a.kind {
		return
	}
	a.fn(s, ev)
}

const stackSep = ":"

// PanicAdapter records the panic cause, the faulting registers and the call
// stack.
func PanicAdapter() *Adapter {
	return NewAdapter("panic", KindPanic, []string{"PANIC", "PC", "LR", "STACK", "CPU"},
		func(s Setter, ev *Event) {
			s.SetValue("PANIC", "%s", ev.Reason)
			s.SetValue("CPU", "%d", ev.CPU)
			if ev.PC != 0 {
				s.SetValue("PC", "0x%x", ev.PC)
			}
			if ev.LR != 0 {
				s.SetValue("LR", "0x%x", ev.LR)
			}
			if len(ev.Stack) > 0 {
				s.SetValue("STACK", "%s", strings.Join(ev.Stack, stackSep))
			}
		})
}

// DieAdapter records architecture exception data.
func DieAdapter() *Adapter {
	return NewAdapter("die", KindDie, []string{"FAULT", "ESR", "FTYPE", "BUG"},
		func(s Setter, ev *Event) {
			s.SetValue("FAULT", "%s", ev.Fault)
			s.SetValue("ESR", "0x%08x", ev.ESR)
			if ev.FaultType != "" {
				s.SetValue("FTYPE", "%s", ev.FaultType)
			}
			if ev.Bug != "" {
				s.SetValue("BUG", "%s", ev.Bug)
			}
		})
}

// LockupAdapter records hard lockup details. HLFREQ keeps the most recent
// per-CPU frequencies.
func LockupAdapter() *Adapter {
	return NewAdapter("lockup", KindLockup, []string{"HLTYPE", "HLDATA", "HLFREQ", "HLEHLD"},
		func(s Setter, ev *Event) {
			s.SetValue("HLTYPE", "%s", ev.LockupType)
			if ev.LockupData != "" {
				s.SetValue("HLDATA", "cpu%d %s", ev.CPU, ev.LockupData)
			}
			s.SetValue("HLFREQ", "%d:%d", ev.CPU, ev.FreqKHz)
			if ev.EHLD != "" {
				s.SetValue("HLEHLD", "%s", ev.EHLD)
			}
		})
}

// FreezerAdapter appends each task that failed to freeze.
func FreezerAdapter() *Adapter {
	return NewAdapter("freezer", KindFreezer, []string{"UFZ"},
		func(s Setter, ev *Event) {
			s.SetValue("UFZ", "%s:%d ", ev.Task, ev.PID)
		})
}

// ProgressAdapter accumulates boot step bits.
func ProgressAdapter() *Adapter {
	return NewAdapter("progress", KindProgress, []string{"STEP"},
		func(s Setter, ev *Event) {
			s.SetValue("STEP", "%x", ev.Step)
		})
}

// BatteryAdapter keeps the latest battery state.
func BatteryAdapter() *Adapter {
	return NewAdapter("battery", KindBattery, []string{"BAT"},
		func(s Setter, ev *Event) {
			s.ClearValue("BAT")
			s.SetValue("BAT", "%s", ev.Battery)
		})
}

// DefaultAdapters returns the built-in hooks in delivery order.
func DefaultAdapters() []Hook {
	return []Hook{
		PanicAdapter(),
		DieAdapter(),
		LockupAdapter(),
		FreezerAdapter(),
		ProgressAdapter(),
		BatteryAdapter(),
	}
}

// NewDefaultChain registers DefaultAdapters on a new chain.
func NewDefaultChain(log common.Logger) (*Chain, error) {
	c := NewChain(log)
	for _, h := range DefaultAdapters() {
		if err := c.Register(h); err != nil {
			return nil, err
		}
	}
	return c, nil
}
