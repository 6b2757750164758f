package window

import (
	"fmt"

	"github.com/pkg/errors"

	"secdebug/internal/xinfo"
)

// Locator hands out the physical base and size of the named buffers carved
// from the window by firmware.
type Locator interface {
	BufBase(id xinfo.BufID) (uint64, error)
	BufSize(id xinfo.BufID) (uint64, error)
}

// Buf is one located buffer.
type Buf struct {
	Base uint64
	Size uint64
}

func (b Buf) String() string {
	return fmt.Sprintf("0x%X+0x%X", b.Base, b.Size)
}

// StaticLocator is a Locator backed by a fixed table.
type StaticLocator struct {
	bufs map[xinfo.BufID]Buf
}

// NewStaticLocator creates an empty locator.
func NewStaticLocator() *StaticLocator {
	return &StaticLocator{bufs: make(map[xinfo.BufID]Buf)}
}

// Set registers the buffer id.
func (l *StaticLocator) Set(id xinfo.BufID, base, size uint64) *StaticLocator {
	l.bufs[id] = Buf{Base: base, Size: size}
	return l
}

func (l *StaticLocator) BufBase(id xinfo.BufID) (uint64, error) {
	b, ok := l.bufs[id]
	if !ok {
		return 0, errors.Errorf("no buffer with id %d", id)
	}
	return b.Base, nil
}

func (l *StaticLocator) BufSize(id xinfo.BufID) (uint64, error) {
	b, ok := l.bufs[id]
	if !ok {
		return 0, errors.Errorf("no buffer with id %d", id)
	}
	return b.Size, nil
}

// Locate resolves buffer id to an offset and size inside r.
func Locate(r *Region, loc Locator, id xinfo.BufID) (off, size uint64, err error) {
	base, err := loc.BufBase(id)
	if err != nil {
		return 0, 0, errors.Wrap(err, "buffer base")
	}
	size, err = loc.BufSize(id)
	if err != nil {
		return 0, 0, errors.Wrap(err, "buffer size")
	}
	off, err = r.NCVA(base)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "buffer %d at %s", id, Buf{Base: base, Size: size})
	}
	return off, size, nil
}
