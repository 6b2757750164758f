// Package store implements the extra-info key/value store kept inside the
// memory window.
//
// The extra-info region is split into a live half, written during the current
// boot, and a shadow half holding the live half as it was when the store was
// last initialized. A *Store only exists after Init or Attach succeeded, so
// holding one means the window is ready for accessors.
package store

import (
	"sync"

	"secdebug/common"
	icommon "secdebug/internal/common"
	"secdebug/internal/layout"
	"secdebug/internal/registry"
	"secdebug/internal/xinfo"
)

// Options configures Init and Attach.
type Options struct {
	// Production tolerates a layout overflow instead of failing.
	Production bool
	Logger     common.Logger
}

// Store is an initialized extra-info store.
type Store struct {
	win []byte
	reg *registry.Registry
	log common.Logger

	live   [layout.NumClasses]layout.Descriptor
	shadow [layout.NumClasses]layout.Descriptor
	warm   bool

	// odrMu guards the write-order record and odrSeen.
	odrMu   sync.Mutex
	odrSeen map[string]bool
}

// MagicCheck reports whether win carries the header written by a completed Init.
func MagicCheck(win []byte) bool {
	return layout.MagicCheck(win)
}

// Init runs the once-per-boot initialization of the store in win.
//
// When the window holds a previous session (valid magic, same geometry) the
// live span and its descriptors are first copied into the shadow half. The
// live span is then cleared and every registry key is written into a fresh
// record. On a cold window the freshly keyed live span is copied instead, so
// the shadow always has the same keys as the live half.
//
// A table that does not fit fails with ErrLayoutOverflow unless
// opts.Production is set, in which case the overflow is logged and every access
// stays clamped to the window.
func Init(win []byte, tbl *layout.Table, reg *registry.Registry, opts Options) (*Store, error) {
	s, err := newStore(win, tbl, reg, opts)
	if err != nil {
		return nil, err
	}

	prev, _ := layout.DecodeHeader(win)
	warm := MagicCheck(win) && tbl.SameGeometry(prev.Live)
	liveOff, span := tbl.LiveSpan()
	shadowOff := tbl.ShadowBase()

	if warm {
		s.copySpan(shadowOff, liveOff, span)
		s.shadow = layout.Rebase(prev.Live, span)
	}

	// A crash before the header is rewritten must look like a cold window.
	clear(win[:layout.HeaderSize])
	clear(s.span(liveOff, span))

	s.live = tbl.Descriptors()
	for c, keys := range reg.Classes {
		d := &s.live[c]
		for _, key := range keys {
			rec, err := s.recordBytes(*d, d.Populated)
			if err != nil {
				s.log.Warning(err.Error())
				break
			}
			writeKey(rec, key)
			d.Populated++
		}
	}

	if !warm {
		s.copySpan(shadowOff, liveOff, span)
		s.shadow = layout.Rebase(s.live, span)
	}

	h := layout.Header{Magic: layout.Magic, Live: s.live, Shadow: s.shadow}
	if err := h.Encode(win); err != nil {
		return nil, err
	}
	s.warm = warm
	s.log.Logf(common.SeverityInfo, "extra-info store ready (warm=%v, live 0x%X+0x%X, shadow 0x%X)",
		warm, liveOff, span, shadowOff)
	return s, nil
}

// Attach opens a window that a previous Init in this boot already prepared.
func Attach(win []byte, tbl *layout.Table, reg *registry.Registry, opts Options) (*Store, error) {
	s, err := newStore(win, tbl, reg, opts)
	if err != nil {
		return nil, err
	}
	if !MagicCheck(win) {
		return nil, icommon.Errorf(xinfo.ErrBadHeader, "window not initialised")
	}
	h, err := layout.DecodeHeader(win)
	if err != nil {
		return nil, err
	}
	if !tbl.SameGeometry(h.Live) {
		return nil, icommon.Errorf(xinfo.ErrBadHeader, "window geometry differs from layout")
	}
	s.live = h.Live
	s.shadow = h.Shadow
	s.warm = true
	s.seedOrderSeen()
	return s, nil
}

func newStore(win []byte, tbl *layout.Table, reg *registry.Registry, opts Options) (*Store, error) {
	log := common.OrNoOp(opts.Logger)
	if len(win) < layout.HeaderSize {
		return nil, icommon.Errorf(xinfo.ErrBadHeader, "window of 0x%X bytes has no room for the header", len(win))
	}
	if tbl.Classes[0].Base < layout.HeaderSize {
		return nil, icommon.Errorf(xinfo.ErrBadHeader, "extra-info region at 0x%X overlaps the header", tbl.Classes[0].Base)
	}
	if !tbl.Fits() || tbl.Base+tbl.Size > uint64(len(win)) {
		err := icommon.Errorf(xinfo.ErrLayoutOverflow, "live span 0x%X, region 0x%X+0x%X, window 0x%X",
			tbl.Footprint(), tbl.Base, tbl.Size, len(win))
		if !opts.Production {
			log.Critical(err.Error())
			return nil, err
		}
		log.Warning(err.Error() + "; continuing")
	}
	return &Store{
		win:     win,
		reg:     reg,
		log:     log,
		odrSeen: make(map[string]bool),
	}, nil
}

// Warm reports whether the shadow half holds a previous session.
func (s *Store) Warm() bool {
	return s.warm
}

// Registry returns the key registry of the store.
func (s *Store) Registry() *registry.Registry {
	return s.reg
}

// Descriptors returns the persisted class descriptors of region.
func (s *Store) Descriptors(region xinfo.Region) [layout.NumClasses]layout.Descriptor {
	return *s.descs(region)
}

func (s *Store) descs(region xinfo.Region) *[layout.NumClasses]layout.Descriptor {
	if region == xinfo.Shadow {
		return &s.shadow
	}
	return &s.live
}

// span returns win[off:off+n] clamped to the window.
func (s *Store) span(off, n uint64) []byte {
	size := uint64(len(s.win))
	if off >= size {
		return nil
	}
	if n > size-off {
		n = size - off
	}
	return s.win[off : off+n]
}

func (s *Store) copySpan(dst, src, n uint64) {
	d := s.span(dst, n)
	copy(d, s.span(src, uint64(len(d))))
}
