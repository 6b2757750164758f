package tool

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"secdebug/common"
	"secdebug/internal/config"
)

func newSettings(t *testing.T) *config.Config {
	t.Helper()
	set := config.Default()
	set.WindowPath = filepath.Join(t.TempDir(), "window.bin")
	set.BootID = "000000001VE12"
	set.PowerSource = 0x1
	return set
}

func run(t *testing.T, set *config.Config, cmd string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := Run(Config{
		Settings:     set,
		Command:      cmd,
		Args:         args,
		OutputWriter: &buf,
		Logger:       common.NewMemLogger(),
	})
	return buf.String(), err
}

func mustRun(t *testing.T, set *config.Config, cmd string, args ...string) string {
	t.Helper()
	out, err := run(t, set, cmd, args...)
	if err != nil {
		t.Fatalf("Run(%s %v) error = %v", cmd, args, err)
	}
	return out
}

func TestRunBootAndView(t *testing.T) {
	set := newSettings(t)

	out := mustRun(t, set, "boot")
	if want := "Extra Info Recorder : cold boot of window " + set.WindowPath + "\n"; out != want {
		t.Errorf("boot output = %q, want %q", out, want)
	}
	want := `"ID":"000000001VE12","RR":"KP","PWR":"00","PWROFF":"00"` + "\n"
	for _, name := range []string{"A", "extra"} {
		if out := mustRun(t, set, "view", name); out != want {
			t.Errorf("view %s = %q, want %q", name, out, want)
		}
	}
	if out := mustRun(t, set, "view", "C"); out != `"ID":"000000001VE12","RR":"KP"`+"\n" {
		t.Errorf("view C = %q", out)
	}

	mustRun(t, set, "set", "PANIC", "kernel", "panic")
	if out := mustRun(t, set, "get", "PANIC"); out != "kernel panic\n" {
		t.Errorf("get PANIC = %q", out)
	}
	if out := mustRun(t, set, "get", "ODR"); out != "PANIC\n" {
		t.Errorf("get ODR = %q", out)
	}
	if out := mustRun(t, set, "shadow", "PANIC"); out != "\n" {
		t.Errorf("shadow PANIC = %q, want empty line", out)
	}

	out = mustRun(t, set, "boot")
	if !strings.Contains(out, "warm boot") {
		t.Errorf("second boot output = %q", out)
	}
	if out := mustRun(t, set, "shadow", "PANIC"); out != "kernel panic\n" {
		t.Errorf("shadow PANIC after reboot = %q", out)
	}
}

func TestRunClear(t *testing.T) {
	set := newSettings(t)
	mustRun(t, set, "boot")
	mustRun(t, set, "set", "BAT", "chg:80")
	mustRun(t, set, "clear", "BAT")
	mustRun(t, set, "set", "BAT", "dis:79")
	if out := mustRun(t, set, "get", "BAT"); out != "dis:79\n" {
		t.Errorf("get BAT = %q", out)
	}
}

func TestRunSetTruncationWarns(t *testing.T) {
	set := newSettings(t)
	mustRun(t, set, "boot")
	out := mustRun(t, set, "set", "BIN", strings.Repeat("b", 40))
	if !strings.HasPrefix(out, "Warning: WARN :0x0004") {
		t.Errorf("set output = %q", out)
	}
	if out := mustRun(t, set, "get", "BIN"); out != strings.Repeat("b", 23)+"\n" {
		t.Errorf("get BIN = %q", out)
	}
}

func TestRunCrash(t *testing.T) {
	set := newSettings(t)
	mustRun(t, set, "boot")

	mustRun(t, set, "crash", "lockup", "hard", "0:1000", "1:1200", "2:900")
	out := mustRun(t, set, "get", "HLFREQ")
	got := strings.Split(strings.TrimSpace(out), ",")
	want := []string{"0:1000", "1:1200", "2:900"}
	if diff := cmp.Diff(want, got, cmpSorted); diff != "" {
		t.Errorf("HLFREQ mismatch (-want +got):\n%s", diff)
	}

	mustRun(t, set, "crash", "panic", "Oops")
	mustRun(t, set, "crash", "freezer", "kworker:77", "binder:512")
	mustRun(t, set, "crash", "progress", "0x11")
	mustRun(t, set, "crash", "battery", "chg:80")
	tests := map[string]string{
		"PANIC":  "Oops",
		"HLTYPE": "hard",
		"UFZ":    "kworker:77 binder:512 ",
		"STEP":   "00000011",
		"BAT":    "chg:80",
	}
	for key, want := range tests {
		if out := mustRun(t, set, "get", key); out != want+"\n" {
			t.Errorf("get %s = %q, want %q", key, out, want)
		}
	}
}

func TestRunDump(t *testing.T) {
	set := newSettings(t)
	mustRun(t, set, "boot")
	mustRun(t, set, "set", "PC", "0x10")

	out := mustRun(t, set, "dump", "live")
	for _, want := range []string{
		"Header; magic valid\n",
		"Records; live region\n",
		"Idx:0; SZ32; ID     = \"000000001VE12\"\n",
		"Idx:2; SZ64; PC     = \"0x10\"\n",
		"SZ64 : 14 (1 with value)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump live missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "KTIME") {
		t.Errorf("dump listed an empty record:\n%s", out)
	}

	out = mustRun(t, set, "dump")
	if !strings.Contains(out, "Records; shadow region\n") || !strings.Contains(out, `RR     = "KP"`) {
		t.Errorf("dump shadow output:\n%s", out)
	}

	var buf bytes.Buffer
	err := Run(Config{Settings: set, Command: "dump", Args: []string{"live"}, Raw: true, OutputWriter: &buf, Logger: common.NewMemLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Raw Data; header; Offset 0x000000; Size 0x100\n") ||
		!strings.Contains(buf.String(), "Raw Data; PC; Offset 0x") {
		t.Errorf("raw dump output:\n%s", buf.String())
	}
}

func TestRunDumpToLogger(t *testing.T) {
	set := newSettings(t)
	mustRun(t, set, "boot")
	mustRun(t, set, "set", "PC", "0x10")

	for _, raw := range []bool{false, true} {
		var buf bytes.Buffer
		log := common.NewMemLogger()
		err := Run(Config{Settings: set, Command: "dump", Args: []string{"live"}, Raw: raw, LogDump: true, OutputWriter: &buf, Logger: log})
		if err != nil {
			t.Fatal(err)
		}
		logged := 0
		for _, e := range log.Entries() {
			if e.Severity == common.SeverityInfo && strings.Contains(buf.String(), e.Msg) {
				logged++
			}
		}
		if logged == 0 || !strings.Contains(buf.String(), "PC") {
			t.Errorf("raw=%v: dump lines not mirrored to the logger:\n%s", raw, buf.String())
		}
	}

	log := common.NewMemLogger()
	var buf bytes.Buffer
	if err := Run(Config{Settings: set, Command: "dump", OutputWriter: &buf, Logger: log}); err != nil {
		t.Fatal(err)
	}
	for _, e := range log.Entries() {
		if strings.Contains(e.Msg, "Records; ") {
			t.Errorf("dump logged without LogDump: %q", e.Msg)
		}
	}
}

func TestRunViews(t *testing.T) {
	set := newSettings(t)
	mustRun(t, set, "boot")
	out := mustRun(t, set, "views")
	if !strings.HasPrefix(out, "A extra  ID,RR,") || strings.Count(out, "\n") != 6 {
		t.Errorf("views output:\n%s", out)
	}
}

func TestRunErrors(t *testing.T) {
	set := newSettings(t)

	tests := []struct {
		name string
		cmd  string
		args []string
		want string
	}{
		{"unknown command", "reboot", nil, "unknown command"},
		{"missing args", "set", []string{"PANIC"}, "usage: set KEY VALUE..."},
		{"attach before boot", "get", []string{"PANIC"}, "XI_ERR_BAD_HEADER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, set, tt.cmd, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Run() error = %v, want mention of %q", err, tt.want)
			}
		})
	}

	mustRun(t, set, "boot")
	after := []struct {
		name string
		cmd  string
		args []string
		want string
	}{
		{"unknown key", "get", []string{"NOPE"}, "key NOPE not found"},
		{"unknown view", "view", []string{"Z"}, "no view Z"},
		{"bad region", "dump", []string{"middle"}, "unknown region"},
		{"bad event", "crash", []string{"meltdown"}, "unknown event kind"},
		{"bad lockup", "crash", []string{"lockup", "hard", "x"}, "bad pair"},
		{"set unknown key", "set", []string{"NOPE", "x"}, ""},
	}
	for _, tt := range after {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, set, tt.cmd, tt.args...)
			if tt.want == "" {
				if err != nil || !strings.Contains(out, "XI_ERR_KEY_NOT_FOUND") {
					t.Errorf("Run() = %q, %v", out, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Run() error = %v, want mention of %q", err, tt.want)
			}
		})
	}

	noPath := config.Default()
	if _, err := run(t, noPath, "boot"); err == nil {
		t.Errorf("Run() without a window file should fail")
	}
}

var cmpSorted = cmpopts.SortSlices(func(a, b string) bool { return a < b })
