// Package recorder owns the lifecycle of the extra-info store.
//
// A Recorder starts out not ready. Boot or Attach turns it ready by
// publishing a *store.Store; until then every accessor degrades to a
// key-not-found result, so fault handlers that run before the store exists
// never fault themselves.
package recorder

import (
	"fmt"
	"sync"
	"sync/atomic"

	"secdebug/common"
	icommon "secdebug/internal/common"
	"secdebug/internal/layout"
	"secdebug/internal/registry"
	"secdebug/internal/store"
	"secdebug/internal/window"
	"secdebug/internal/xinfo"
)

// Platform receives the recorder's fatal escalations.
type Platform interface {
	// Panic stops the system. It normally does not return.
	Panic(reason string)
}

// PanicPlatform escalates with a Go panic.
type PanicPlatform struct{}

func (PanicPlatform) Panic(reason string) {
	panic("extra-info: " + reason)
}

// Options configures a Recorder.
type Options struct {
	// Production logs layout overflow and registry inconsistencies instead
	// of escalating them to the platform.
	Production bool
	// Registry defaults to registry.Default().
	Registry *registry.Registry
	// Classes defaults to layout.DefaultClasses.
	Classes  *[layout.NumClasses]layout.ClassDesc
	Logger   common.Logger
	Platform Platform
}

// Recorder is a handle to a store that may not be initialized yet.
type Recorder struct {
	production bool
	reg        *registry.Registry
	classes    [layout.NumClasses]layout.ClassDesc
	log        common.Logger
	plat       Platform

	bootMu sync.Mutex
	st     atomic.Pointer[store.Store]
}

// New creates a recorder that is not ready.
func New(opts Options) *Recorder {
	r := &Recorder{
		production: opts.Production,
		reg:        opts.Registry,
		classes:    layout.DefaultClasses,
		log:        common.OrNoOp(opts.Logger),
		plat:       opts.Platform,
	}
	if r.reg == nil {
		r.reg = registry.Default()
	}
	if opts.Classes != nil {
		r.classes = *opts.Classes
	}
	if r.plat == nil {
		r.plat = PanicPlatform{}
	}
	return r
}

// Boot runs the once-per-boot store initialization on win and makes the
// recorder ready.
//
// An inconsistent registry or a layout that does not fit is escalated to the
// platform unless the recorder is in production mode. If the extra-info
// buffer cannot be located the recorder stays not ready.
func (r *Recorder) Boot(win *window.Region, loc window.Locator) error {
	return r.open(win, loc, store.Init)
}

// Attach makes the recorder ready on a window that Boot already prepared
// during this boot session.
func (r *Recorder) Attach(win *window.Region, loc window.Locator) error {
	return r.open(win, loc, store.Attach)
}

type openFunc func([]byte, *layout.Table, *registry.Registry, store.Options) (*store.Store, error)

func (r *Recorder) open(win *window.Region, loc window.Locator, open openFunc) error {
	r.bootMu.Lock()
	defer r.bootMu.Unlock()

	if r.st.Load() != nil {
		return icommon.NewErrorMsg(xinfo.ErrSevWarn, xinfo.ErrFail, "store already initialised")
	}
	if err := r.checkRegistry(); err != nil {
		return err
	}
	if err := checkHeaderBuf(win, loc); err != nil {
		r.log.Error(err)
		return err
	}

	off, size, err := window.Locate(win, loc, xinfo.BufExtraInfo)
	if err != nil {
		e := icommon.Errorf(xinfo.ErrOutOfRange, "extra-info buffer: %v", err)
		r.log.Error(e)
		return e
	}
	// The overflow is judged again by the store against the window.
	tbl, _ := layout.InitializeWith(off, size, r.classes)

	s, err := open(win.Bytes(), tbl, r.reg, store.Options{
		Production: r.production,
		Logger:     r.log,
	})
	if err != nil {
		if icommon.ErrCode(err) == xinfo.ErrLayoutOverflow {
			r.plat.Panic(err.Error())
		}
		return err
	}
	r.st.Store(s)
	return nil
}

// checkRegistry runs the registry self-check and applies the fatal policy.
func (r *Recorder) checkRegistry() error {
	err := r.reg.SelfCheck(r.classes)
	if err == nil {
		return nil
	}
	r.log.Critical(fmt.Sprintf("extra-info: key registry inconsistent: %v", err))
	if r.production {
		return nil
	}
	r.plat.Panic(err.Error())
	return err
}

// checkHeaderBuf verifies that a located header buffer sits at the start of
// the window. Locators that do not know the header are accepted.
func checkHeaderBuf(win *window.Region, loc window.Locator) error {
	off, size, err := window.Locate(win, loc, xinfo.BufHeader)
	if err != nil {
		return nil
	}
	if off != 0 || size < layout.HeaderSize {
		return icommon.Errorf(xinfo.ErrBadHeader, "header buffer at offset 0x%X size 0x%X", off, size)
	}
	return nil
}

// Ready reports whether Boot or Attach succeeded.
func (r *Recorder) Ready() bool {
	return r.st.Load() != nil
}

// Store returns the underlying store, or ErrNotReady.
func (r *Recorder) Store() (*store.Store, error) {
	s := r.st.Load()
	if s == nil {
		return nil, icommon.NewError(xinfo.ErrSevWarn, xinfo.ErrNotReady)
	}
	return s, nil
}

// Registry returns the key registry in use.
func (r *Recorder) Registry() *registry.Registry {
	return r.reg
}

// Logger returns the logger the recorder reports through.
func (r *Recorder) Logger() common.Logger {
	return r.log
}
