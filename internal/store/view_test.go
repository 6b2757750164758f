package store

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"secdebug/common"
	icommon "secdebug/internal/common"
	"secdebug/internal/layout"
	"secdebug/internal/registry"
	"secdebug/internal/xinfo"
)

var cmpSorted = cmpopts.SortSlices(func(a, b string) bool { return a < b })

func smallRegistry(size int) *registry.Registry {
	return &registry.Registry{
		Version: "v1.0.0",
		Classes: [layout.NumClasses][]string{
			layout.Class32: {"A1", "A2", "A3"},
		},
		Views: []registry.View{
			{Name: "X", Proc: "extrx", Size: size, Keys: []string{"A1", "A2", "A3"}},
		},
	}
}

func TestFormatViewIdentity(t *testing.T) {
	win, tbl := newWindow(t)
	s := mustInit(t, win, tbl, registry.Default())

	s.SetShadowValue("ID", "000000001VE12")
	s.SetShadowValue("RR", "KP")
	want := `"ID":"000000001VE12","RR":"KP"`
	for _, name := range []string{"A", "B", "C", "F", "M", "T"} {
		if got := s.FormatView(name); got != want {
			t.Errorf("FormatView(%s) = %q, want %q", name, got, want)
		}
	}
	if got := s.FormatView("Z"); got != "" {
		t.Errorf("FormatView(Z) = %q, want empty", got)
	}
}

func TestFormatViewPreviousBoot(t *testing.T) {
	win, tbl := newWindow(t)
	reg := registry.Default()

	s := mustInit(t, win, tbl, reg)
	s.SetValue("PANIC", "boom")
	s.SetValue("PC", "0x10")
	s.SetValue("HLTYPE", "hard")

	s = mustInit(t, win, tbl, reg)
	if got, want := s.FormatView("A"), `"PC":"0x10","PANIC":"boom","ODR":"HLTYPE,PC,PANIC"`; got != want {
		t.Errorf("FormatView(A) = %q, want %q", got, want)
	}
	if got, want := s.FormatView("T"), `"HLTYPE":"hard"`; got != want {
		t.Errorf("FormatView(T) = %q, want %q", got, want)
	}
	if got := s.FormatView("B"); got != "" {
		t.Errorf("FormatView(B) = %q, want empty", got)
	}
}

func TestFormatViewTruncation(t *testing.T) {
	win, tbl := newWindow(t)
	log := common.NewMemLogger()
	s, err := Init(win, tbl, smallRegistry(24), Options{Logger: log})
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"A1", "A2", "A3"} {
		s.SetShadowValue(k, "aaaa")
	}

	got := s.FormatView("X")
	if want := `"A1":"aaaa","A2":"aaaa"`; got != want {
		t.Errorf("FormatView(X) = %q, want %q", got, want)
	}
	if log.Count(common.SeverityWarning) != 1 {
		t.Errorf("truncation logged %d warnings, want 1", log.Count(common.SeverityWarning))
	}
}

func TestFormatViewBoundedWhenFull(t *testing.T) {
	win, tbl := newWindow(t)
	reg := registry.Default()
	s := mustInit(t, win, tbl, reg)

	for _, rec := range s.Records(xinfo.Shadow) {
		s.SetShadowValue(rec.Key, "%s", strings.Repeat("v", 2000))
	}
	for _, v := range reg.Views {
		got := s.FormatView(v.Name)
		if len(got) >= v.Size {
			t.Errorf("FormatView(%s) len %d, view size %d", v.Name, len(got), v.Size)
		}
		if !strings.HasPrefix(got, `"ID":"`) {
			t.Errorf("FormatView(%s) does not start with ID: %.20q", v.Name, got)
		}
	}
}

func TestReadView(t *testing.T) {
	win, tbl := newWindow(t)
	s := mustInit(t, win, tbl, smallRegistry(64))
	s.SetShadowValue("A1", "aaaa")
	s.SetShadowValue("A3", "cc")

	tests := []struct {
		name    string
		dst     int
		want    string
		wantErr xinfo.Err
	}{
		{"fits", 64, `"A1":"aaaa","A3":"cc"`, xinfo.OK},
		{"caller bound", 16, `"A1":"aaaa"`, xinfo.OK},
		{"too small for a pair", 8, "", xinfo.OK},
		{"empty buffer", 0, "", xinfo.OK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := bytes.Repeat([]byte{0xAA}, tt.dst)
			n, err := s.ReadView("X", dst)
			if icommon.ErrCode(err) != tt.wantErr {
				t.Fatalf("ReadView() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, string(dst[:n])); diff != "" {
				t.Errorf("ReadView() text mismatch (-want +got):\n%s", diff)
			}
			if tt.dst > 0 && dst[n] != 0 {
				t.Errorf("ReadView() did not NUL-terminate at %d", n)
			}
		})
	}

	if _, err := s.ReadView("Q", make([]byte, 8)); !errors.Is(err, icommon.CodeErr(xinfo.ErrUnknownView)) {
		t.Errorf("ReadView(Q) error = %v, want ErrUnknownView", err)
	}
}
