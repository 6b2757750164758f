package tool

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"secdebug/internal/bridge"
	"secdebug/internal/layout"
	"secdebug/internal/printers"
	"secdebug/internal/procfs"
	"secdebug/internal/recorder"
	"secdebug/internal/xinfo"
)

type command struct {
	usage   string
	minArgs int
	boot    bool
	run     func(s *session, args []string) error
}

var commands = map[string]command{
	"boot":   {usage: "", boot: true, run: runBoot},
	"set":    {usage: "KEY VALUE...", minArgs: 2, run: runSet},
	"clear":  {usage: "KEY", minArgs: 1, run: runClear},
	"get":    {usage: "KEY", minArgs: 1, run: runGet},
	"shadow": {usage: "KEY", minArgs: 1, run: runShadow},
	"view":   {usage: "NAME", minArgs: 1, run: runView},
	"views":  {usage: "", run: runViews},
	"dump":   {usage: "[live|shadow]", run: runDump},
	"crash":  {usage: "KIND ARGS...", minArgs: 1, run: runCrash},
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func runBoot(s *session, _ []string) error {
	st, err := s.rec.Store()
	if err != nil {
		return err
	}
	state := "cold"
	if st.Warm() {
		state = "warm"
	}
	fmt.Fprintf(s.out, "Extra Info Recorder : %s boot of window %s\n", state, s.set.WindowPath)

	if s.set.BootID != "" {
		if err := s.report(s.rec.SetBootID(s.set.BootID)); err != nil {
			return err
		}
	}
	return s.report(s.rec.ApplyPowerSource(recorder.PowerSource(s.set.PowerSource)))
}

func runSet(s *session, args []string) error {
	return s.report(s.rec.SetValue(args[0], "%s", strings.Join(args[1:], " ")))
}

func runClear(s *session, args []string) error {
	return s.rec.ClearValue(args[0])
}

func runGet(s *session, args []string) error {
	v, ok := s.rec.GetValue(args[0])
	if !ok {
		return fmt.Errorf("key %s not found", args[0])
	}
	fmt.Fprintln(s.out, v)
	return nil
}

func runShadow(s *session, args []string) error {
	v, ok := s.rec.GetValueShadow(args[0])
	if !ok {
		return fmt.Errorf("key %s not found", args[0])
	}
	fmt.Fprintln(s.out, v)
	return nil
}

// runView accepts a view letter or an endpoint name.
func runView(s *session, args []string) error {
	dir := procfs.New(s.reg, s.rec)
	name := args[0]
	if v, ok := s.reg.View(name); ok {
		name = v.Proc
	}
	ep, ok := dir.Lookup(name)
	if !ok {
		return fmt.Errorf("no view %s", args[0])
	}
	if _, err := ep.WriteTo(s.out); err != nil {
		return err
	}
	fmt.Fprintln(s.out)
	return nil
}

func runViews(s *session, _ []string) error {
	for _, v := range s.reg.Views {
		fmt.Fprintf(s.out, "%s %-6s %s\n", v.Name, v.Proc, strings.Join(v.Keys, ","))
	}
	return nil
}

func runDump(s *session, args []string) error {
	region := xinfo.Shadow
	if len(args) > 0 {
		switch args[0] {
		case "live":
			region = xinfo.Live
		case "shadow":
		default:
			return fmt.Errorf("unknown region %q", args[0])
		}
	}
	st, err := s.rec.Store()
	if err != nil {
		return err
	}

	if s.cfg.Raw {
		rp := printers.NewRawPrinter(s.out)
		if s.cfg.LogDump {
			rp.SetMessageLogger(s.log)
		}
		win := s.region.Bytes()
		rp.PrintSpan("header", 0, win[:layout.HeaderSize])
		for _, rec := range st.Records(region) {
			d := st.Descriptors(region)[rec.Class]
			off := uint64(d.Base) + uint64(rec.Index)*uint64(d.Stride)
			if rec.Value == "" && !s.cfg.ShowEmpty {
				continue
			}
			b, err := s.region.Slice(off, uint64(d.Stride))
			if err != nil {
				return err
			}
			rp.PrintSpan(rec.Key, off, b)
		}
		return nil
	}

	h, err := layout.DecodeHeader(s.region.Bytes())
	if err != nil {
		return err
	}
	p := printers.NewRecordPrinter(s.out)
	if s.cfg.LogDump {
		p.SetMessageLogger(s.log)
	}
	p.SetShowEmpty(s.cfg.ShowEmpty)
	p.SetCollectStats()
	p.PrintHeader(h)
	p.ItemPrintLine(fmt.Sprintf("Records; %s region\n", region))
	p.PrintRecords(st.Records(region))
	p.PrintStats()
	return nil
}

// runCrash delivers a synthetic fault event through the default hooks.
//
//	crash panic REASON...
//	crash die FAULT...
//	crash lockup TYPE CPU:KHZ...
//	crash freezer TASK:PID...
//	crash progress HEXBITS
//	crash battery STATE
func runCrash(s *session, args []string) error {
	chain, err := bridge.NewDefaultChain(s.rec.Logger())
	if err != nil {
		return err
	}
	if err := chain.CheckKeys(s.reg); err != nil {
		s.log.Warning(err.Error())
	}

	kind, rest := args[0], args[1:]
	var events []bridge.Event
	switch kind {
	case "panic":
		events = append(events, bridge.Event{Kind: bridge.KindPanic, Reason: strings.Join(rest, " ")})
	case "die":
		events = append(events, bridge.Event{Kind: bridge.KindDie, Fault: strings.Join(rest, " ")})
	case "lockup":
		if len(rest) < 2 {
			return fmt.Errorf("lockup: want TYPE CPU:KHZ...")
		}
		for _, arg := range rest[1:] {
			cpu, khz, err := pair(arg)
			if err != nil {
				return err
			}
			events = append(events, bridge.Event{Kind: bridge.KindLockup, CPU: int(cpu), LockupType: rest[0], FreqKHz: uint32(khz)})
		}
	case "freezer":
		for _, arg := range rest {
			task, pid, ok := strings.Cut(arg, ":")
			n, err := strconv.Atoi(pid)
			if !ok || err != nil {
				return fmt.Errorf("freezer: bad TASK:PID %q", arg)
			}
			events = append(events, bridge.Event{Kind: bridge.KindFreezer, Task: task, PID: n})
		}
	case "progress":
		if len(rest) != 1 {
			return fmt.Errorf("progress: want HEXBITS")
		}
		bits, err := strconv.ParseUint(strings.TrimPrefix(rest[0], "0x"), 16, 64)
		if err != nil {
			return fmt.Errorf("progress: %v", err)
		}
		events = append(events, bridge.Event{Kind: bridge.KindProgress, Step: bits})
	case "battery":
		events = append(events, bridge.Event{Kind: bridge.KindBattery, Battery: strings.Join(rest, " ")})
	default:
		return fmt.Errorf("unknown event kind %q", kind)
	}

	// A lockup is reported by every CPU at once.
	if kind == "lockup" {
		return bridge.Cascade(context.Background(), chain, s.rec, events)
	}
	for i := range events {
		chain.Call(s.rec, &events[i])
	}
	return nil
}

func pair(arg string) (uint64, uint64, error) {
	a, b, ok := strings.Cut(arg, ":")
	if !ok {
		return 0, 0, fmt.Errorf("bad pair %q", arg)
	}
	x, err := strconv.ParseUint(a, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad pair %q: %v", arg, err)
	}
	y, err := strconv.ParseUint(b, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad pair %q: %v", arg, err)
	}
	return x, y, nil
}
