// Package procfs exposes the views of the extra-info store as read-only,
// bounded text endpoints named after the kernel proc entries.
package procfs

import (
	"io"
	"sort"

	"secdebug/internal/registry"
)

// Source renders a view. *recorder.Recorder and *store.Store satisfy it.
type Source interface {
	FormatView(name string) string
}

// Endpoint serves one view.
type Endpoint struct {
	// Name is the endpoint name, such as "extra".
	Name string
	View string
	// Size bounds the text, NUL terminator included.
	Size int
	src  Source
}

// ReadAt implements io.ReaderAt over the current rendering of the view.
// Every call renders afresh, so reads at different offsets may straddle a
// change of the shadow region.
func (e *Endpoint) ReadAt(p []byte, off int64) (int, error) {
	text := e.text()
	if off < 0 {
		return 0, io.ErrUnexpectedEOF
	}
	if off >= int64(len(text)) {
		return 0, io.EOF
	}
	n := copy(p, text[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteTo writes the whole view to w.
func (e *Endpoint) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, e.text())
	return int64(n), err
}

// Len is the length of the current rendering.
func (e *Endpoint) Len() int {
	return len(e.text())
}

func (e *Endpoint) text() string {
	t := e.src.FormatView(e.View)
	if e.Size > 0 && len(t) >= e.Size {
		t = t[:e.Size-1]
	}
	return t
}

// Dir is the set of endpoints of one registry.
type Dir struct {
	endpoints map[string]*Endpoint
}

// New creates one endpoint per view of reg. Views without an endpoint name
// are not exposed.
func New(reg *registry.Registry, src Source) *Dir {
	d := &Dir{endpoints: make(map[string]*Endpoint)}
	for _, v := range reg.Views {
		if v.Proc == "" {
			continue
		}
		d.endpoints[v.Proc] = &Endpoint{Name: v.Proc, View: v.Name, Size: v.Size, src: src}
	}
	return d
}

// Lookup returns the endpoint called name.
func (d *Dir) Lookup(name string) (*Endpoint, bool) {
	e, ok := d.endpoints[name]
	return e, ok
}

// Names lists the endpoint names in sorted order.
func (d *Dir) Names() []string {
	names := make([]string, 0, len(d.endpoints))
	for n := range d.endpoints {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
