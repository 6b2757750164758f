// Package layout computes where the slot classes of the extra-info region live
// and encodes the header that describes them.
package layout

import (
	"fmt"

	"secdebug/internal/common"
	"secdebug/internal/xinfo"
)

// KeyWidth is the size of the NUL-padded key field at the start of every record.
const KeyWidth = 8

// Class selects one of the fixed-stride record arrays.
type Class int

const (
	Class32 Class = iota
	Class64
	Class256
	Class1024
	NumClasses = 4
)

func (c Class) String() string {
	if c < 0 || c >= NumClasses {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return fmt.Sprintf("SZ%d", DefaultClasses[c].Stride)
}

// ClassDesc is the geometry of one slot class.
type ClassDesc struct {
	Stride uint32
	Count  uint32
}

// Footprint is the number of bytes the class occupies.
func (d ClassDesc) Footprint() uint64 {
	return uint64(d.Stride) * uint64(d.Count)
}

// ValueCap is the longest value a record of this class can hold, leaving room
// for the key field and a terminating NUL.
func (d ClassDesc) ValueCap() int {
	if d.Stride <= KeyWidth {
		return 0
	}
	return int(d.Stride) - KeyWidth - 1
}

// DefaultClasses is the observed production geometry.
var DefaultClasses = [NumClasses]ClassDesc{
	Class32:   {Stride: 32, Count: 128},
	Class64:   {Stride: 64, Count: 128},
	Class256:  {Stride: 256, Count: 64},
	Class1024: {Stride: 1024, Count: 32},
}

// ClassForStride maps a record stride back to its class.
func ClassForStride(stride uint32) (Class, bool) {
	for c, d := range DefaultClasses {
		if d.Stride == stride {
			return Class(c), true
		}
	}
	return 0, false
}

// ClassLayout places one class in the window.
type ClassLayout struct {
	ClassDesc
	// Base is the window offset of record 0.
	Base uint64
}

// End is the window offset just past the last record.
func (l ClassLayout) End() uint64 {
	return l.Base + l.Footprint()
}

// Table is the computed layout of the live half of the extra-info region.
type Table struct {
	Classes [NumClasses]ClassLayout
	// Base and Size describe the whole extra-info region (live and shadow).
	Base uint64
	Size uint64
}

// Initialize lays out DefaultClasses starting at base.
func Initialize(base, size uint64) (*Table, error) {
	return InitializeWith(base, size, DefaultClasses)
}

// InitializeWith lays out descs back to back starting at base. The live span
// must fit in half of size so that the shadow copy fits in the other half. On
// overflow the table is still returned together with an ErrLayoutOverflow so a
// production caller can decide to carry on.
func InitializeWith(base, size uint64, descs [NumClasses]ClassDesc) (*Table, error) {
	t := &Table{Base: base, Size: size}
	off := base
	for c := range descs {
		t.Classes[c] = ClassLayout{ClassDesc: descs[c], Base: off}
		off += descs[c].Footprint()
	}
	if fp := t.Footprint(); fp > size/2 {
		return t, common.Errorf(xinfo.ErrLayoutOverflow,
			"footprint 0x%X exceeds half of region size 0x%X", fp, size)
	}
	return t, nil
}

// Footprint is the byte size of the live span, the sum of all class footprints.
func (t *Table) Footprint() uint64 {
	var n uint64
	for _, c := range t.Classes {
		n += c.Footprint()
	}
	return n
}

// Fits reports whether the live and shadow spans fit in the region.
func (t *Table) Fits() bool {
	return t.Footprint() <= t.Size/2
}

// LiveSpan returns the window offset and length of the live span.
func (t *Table) LiveSpan() (off, n uint64) {
	return t.Classes[0].Base, t.Footprint()
}

// ShadowBase is the window offset where the shadow span starts.
func (t *Table) ShadowBase() uint64 {
	return t.Classes[0].Base + t.Footprint()
}

// SlotAddress returns the window offset of record idx in class c.
func (t *Table) SlotAddress(c Class, idx uint32) (uint64, error) {
	if c < 0 || c >= NumClasses {
		return 0, common.Errorf(xinfo.ErrOutOfRange, "no slot class %d", int(c))
	}
	cl := t.Classes[c]
	if idx >= cl.Count {
		return 0, common.Errorf(xinfo.ErrOutOfRange, "%s index %d >= count %d", c, idx, cl.Count)
	}
	return cl.Base + uint64(idx)*uint64(cl.Stride), nil
}
