package layout

import (
	"encoding/binary"

	"secdebug/internal/common"
	"secdebug/internal/xinfo"
)

// Magic is written once the store has completed initialization.
var Magic = [4]uint32{0xFFFFFFFF, 0x95308180, 0x14F014F0, 0x00010001}

const (
	magicSize      = 4 * 4
	descriptorSize = 4 * 4
	// HeaderSize is the reserved header area at the start of the window.
	HeaderSize = 0x100
)

// Descriptor is the persisted form of one class in one region.
type Descriptor struct {
	Base      uint32
	Stride    uint32
	Count     uint32
	Populated uint32
}

// Header is the fixed structure at the start of the window.
type Header struct {
	Magic  [4]uint32
	Live   [NumClasses]Descriptor
	Shadow [NumClasses]Descriptor
}

// MagicCheck reports whether all sentinel words in b match Magic.
func MagicCheck(b []byte) bool {
	if len(b) < magicSize {
		return false
	}
	for i, m := range Magic {
		if binary.LittleEndian.Uint32(b[i*4:]) != m {
			return false
		}
	}
	return true
}

// DecodeHeader reads a header from the first HeaderSize bytes of b.
func DecodeHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < HeaderSize {
		return h, common.Errorf(xinfo.ErrBadHeader, "header needs 0x%X bytes, have 0x%X", HeaderSize, len(b))
	}
	for i := range h.Magic {
		h.Magic[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	off := magicSize
	for i := range h.Live {
		h.Live[i] = decodeDescriptor(b[off:])
		off += descriptorSize
	}
	for i := range h.Shadow {
		h.Shadow[i] = decodeDescriptor(b[off:])
		off += descriptorSize
	}
	return h, nil
}

// Encode writes h into the first HeaderSize bytes of b.
func (h *Header) Encode(b []byte) error {
	if len(b) < HeaderSize {
		return common.Errorf(xinfo.ErrBadHeader, "header needs 0x%X bytes, have 0x%X", HeaderSize, len(b))
	}
	for i, m := range h.Magic {
		binary.LittleEndian.PutUint32(b[i*4:], m)
	}
	off := magicSize
	for _, d := range h.Live {
		encodeDescriptor(b[off:], d)
		off += descriptorSize
	}
	for _, d := range h.Shadow {
		encodeDescriptor(b[off:], d)
		off += descriptorSize
	}
	return nil
}

// Descriptors returns the live descriptors of t with zero populated counts.
func (t *Table) Descriptors() [NumClasses]Descriptor {
	var ds [NumClasses]Descriptor
	for c, cl := range t.Classes {
		ds[c] = Descriptor{Base: uint32(cl.Base), Stride: cl.Stride, Count: cl.Count}
	}
	return ds
}

// SameGeometry reports whether ds describes the same class bases, strides and
// counts as t, ignoring populated counts.
func (t *Table) SameGeometry(ds [NumClasses]Descriptor) bool {
	for c, d := range t.Descriptors() {
		if ds[c].Base != d.Base || ds[c].Stride != d.Stride || ds[c].Count != d.Count {
			return false
		}
	}
	return true
}

// Rebase shifts every descriptor base by delta.
func Rebase(ds [NumClasses]Descriptor, delta uint64) [NumClasses]Descriptor {
	for i := range ds {
		ds[i].Base += uint32(delta)
	}
	return ds
}

func decodeDescriptor(b []byte) Descriptor {
	return Descriptor{
		Base:      binary.LittleEndian.Uint32(b[0:]),
		Stride:    binary.LittleEndian.Uint32(b[4:]),
		Count:     binary.LittleEndian.Uint32(b[8:]),
		Populated: binary.LittleEndian.Uint32(b[12:]),
	}
}

func encodeDescriptor(b []byte, d Descriptor) {
	binary.LittleEndian.PutUint32(b[0:], d.Base)
	binary.LittleEndian.PutUint32(b[4:], d.Stride)
	binary.LittleEndian.PutUint32(b[8:], d.Count)
	binary.LittleEndian.PutUint32(b[12:], d.Populated)
}
