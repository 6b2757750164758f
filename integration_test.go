package secdebug_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"secdebug/common"
	"secdebug/internal/config"
	"secdebug/internal/tool"
)

type step struct {
	bootID string
	pwrsrc uint32
	args   []string
}

func runSteps(t *testing.T, set *config.Config, steps []step) string {
	t.Helper()
	var transcript bytes.Buffer
	for _, st := range steps {
		if st.bootID != "" {
			set.BootID = st.bootID
			set.PowerSource = st.pwrsrc
		}
		fmt.Fprintf(&transcript, "$ extrainfo %s\n", strings.Join(st.args, " "))
		err := tool.Run(tool.Config{
			Settings:     set,
			Command:      st.args[0],
			Args:         st.args[1:],
			OutputWriter: &transcript,
			Logger:       common.NewMemLogger(),
		})
		if err != nil {
			t.Fatalf("extrainfo %v: %v", st.args, err)
		}
	}
	return strings.ReplaceAll(transcript.String(), set.WindowPath, "<window>")
}

// Three boots against one window file: every boot sees exactly what the
// previous boot left in its live region.
func TestIntegrationBootCycle(t *testing.T) {
	goldenPath := filepath.Join("testdata", "boot_cycle.golden")
	expected, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("Could not read golden file %s: %v", goldenPath, err)
	}

	set := config.Default()
	set.WindowPath = filepath.Join(t.TempDir(), "window.bin")

	actual := runSteps(t, set, []step{
		{bootID: "000000001VE12", pwrsrc: 0x0, args: []string{"boot"}},
		{args: []string{"crash", "panic", "kernel", "panic", "-", "not", "syncing", "Oops"}},
		{args: []string{"view", "A"}},

		{bootID: "000000002VE12", pwrsrc: 0x101, args: []string{"boot"}},
		{args: []string{"shadow", "PANIC"}},
		{args: []string{"view", "A"}},
		{args: []string{"set", "PANIC", "new", "panic"}},
		{args: []string{"get", "PANIC"}},

		{bootID: "000000003VE12", pwrsrc: 0x0, args: []string{"boot"}},
		{args: []string{"shadow", "PANIC"}},
		{args: []string{"shadow", "CPU"}},
		{args: []string{"view", "A"}},
		{args: []string{"view", "T"}},
	})

	expectedStr := strings.ReplaceAll(string(expected), "\r\n", "\n")
	if diff := cmp.Diff(expectedStr, actual); diff != "" {
		debugFile := filepath.Join(t.TempDir(), "boot_cycle_actual.txt")
		_ = os.WriteFile(debugFile, []byte(actual), 0o644)
		t.Errorf("Output did not match golden file (-want +got):\n%s\nSee %s for details.", diff, debugFile)
	}
}

// A product registry loaded through the INI configuration.
func TestIntegrationProductRegistry(t *testing.T) {
	regPath, err := filepath.Abs(filepath.Join("internal", "registry", "testdata", "tablet.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	ini := fmt.Sprintf(`[window]
path = window.bin

[recorder]
boot_id = 000000001VE12
pwrsrc = 0x1
registry = %s
`, regPath)
	iniPath := filepath.Join(dir, "board.ini")
	if err := os.WriteFile(iniPath, []byte(ini), 0o644); err != nil {
		t.Fatal(err)
	}
	set, err := config.LoadFile(iniPath)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	actual := runSteps(t, set, []step{
		{args: []string{"boot"}},
		{args: []string{"crash", "panic", "Oops"}},
		{args: []string{"crash", "progress", "0x10"}},
		{args: []string{"crash", "progress", "0x3"}},
		{args: []string{"get", "STEP"}},
		{args: []string{"boot"}},
		{args: []string{"view", "extra"}},
		{args: []string{"view", "extrt"}},
	})
	want := `$ extrainfo boot
Extra Info Recorder : cold boot of window <window>
$ extrainfo crash panic Oops
$ extrainfo crash progress 0x10
$ extrainfo crash progress 0x3
$ extrainfo get STEP
0013
$ extrainfo boot
Extra Info Recorder : warm boot of window <window>
$ extrainfo view extra
"ID":"000000001VE12","RR":"KP","PANIC":"Oops","ODR":"PANIC"
$ extrainfo view extrt
"ID":"000000001VE12","RR":"KP","STEP":"0013","PWR":"00","PWROFF":"00"
`
	if diff := cmp.Diff(want, actual); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
}
