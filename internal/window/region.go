// Package window models the firmware-preserved memory window backing the recorder.
//
// A Region is a contiguous byte range identified by the physical address of its
// first byte. Every access is bounds-checked against the region; nothing here
// uses pointer arithmetic.
package window

import (
	"github.com/pkg/errors"
)

// Region is a single contiguous, byte-addressable window.
type Region struct {
	// PhysBase is the physical address of Data[0].
	PhysBase uint64
	// Data holds the window contents.
	Data []byte

	closer func() error
	syncer func() error
}

// NewRegion wraps data as a window starting at physBase.
func NewRegion(physBase uint64, data []byte) *Region {
	return &Region{
		PhysBase: physBase,
		Data:     data,
	}
}

// Size returns the window length in bytes.
func (r *Region) Size() uint64 {
	return uint64(len(r.Data))
}

// Contains checks if the given physical address falls within this window.
func (r *Region) Contains(phys uint64) bool {
	return phys >= r.PhysBase && phys < r.PhysBase+uint64(len(r.Data))
}

// EndAddr returns the physical address immediately after the last byte.
func (r *Region) EndAddr() uint64 {
	return r.PhysBase + uint64(len(r.Data))
}

// NCVA translates a physical address into an offset usable with Bytes and Slice.
func (r *Region) NCVA(phys uint64) (uint64, error) {
	if !r.Contains(phys) {
		return 0, errors.Errorf("physical address 0x%X outside window (0x%X - 0x%X)",
			phys, r.PhysBase, r.EndAddr())
	}
	return phys - r.PhysBase, nil
}

// Slice returns the n bytes at offset off, or an error if any of them lie
// outside the window.
func (r *Region) Slice(off, n uint64) ([]byte, error) {
	size := uint64(len(r.Data))
	if off > size || n > size-off {
		return nil, errors.Errorf("range 0x%X+0x%X beyond window size 0x%X", off, n, size)
	}
	return r.Data[off : off+n : off+n], nil
}

// Bytes returns the whole window.
func (r *Region) Bytes() []byte {
	return r.Data
}

// Sync flushes a mapped window to its backing file. It is a no-op for
// in-memory regions.
func (r *Region) Sync() error {
	if r.syncer == nil {
		return nil
	}
	return r.syncer()
}

// Close releases a mapped window. It is a no-op for in-memory regions.
func (r *Region) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer()
	r.closer = nil
	r.syncer = nil
	r.Data = nil
	return err
}
