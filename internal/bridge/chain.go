package bridge

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"secdebug/common"
	icommon "secdebug/internal/common"
	"secdebug/internal/registry"
	"secdebug/internal/xinfo"
)

// Setter is the write side of the store used by hooks.
type Setter interface {
	SetValue(key, format string, args ...any) error
	ClearValue(key string) error
}

// Hook reacts to fault events by writing the keys it owns.
type Hook interface {
	Name() string
	Keys() []string
	Handle(s Setter, ev *Event)
}

type entry struct {
	hook Hook
	keys map[string]bool
	// mu keeps a hook from running on two CPUs at once.
	mu sync.Mutex
}

// Chain is an ordered list of hooks with exclusive key ownership.
type Chain struct {
	mu      sync.RWMutex
	entries []*entry
	names   map[string]bool
	owners  map[string]string
	log     common.Logger
}

// NewChain creates an empty chain.
func NewChain(log common.Logger) *Chain {
	return &Chain{
		names:  make(map[string]bool),
		owners: make(map[string]string),
		log:    common.OrNoOp(log),
	}
}

// Register appends h to the chain. It fails if the name is taken or if one of
// the keys of h is already owned by another hook; nothing is registered then.
func (c *Chain) Register(h Hook) error {
	if h == nil {
		return icommon.NewErrorMsg(xinfo.ErrSevError, xinfo.ErrFail, "nil hook")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.names[h.Name()] {
		return icommon.Errorf(xinfo.ErrFail, "hook %s already registered", h.Name())
	}
	keys := make(map[string]bool)
	for _, k := range h.Keys() {
		if owner, ok := c.owners[k]; ok {
			return icommon.NewErrorKeyMsg(xinfo.ErrSevError, xinfo.ErrKeyClaimed, k,
				fmt.Sprintf("hook %s: owned by %s", h.Name(), owner))
		}
		keys[k] = true
	}
	for k := range keys {
		c.owners[k] = h.Name()
	}
	c.names[h.Name()] = true
	c.entries = append(c.entries, &entry{hook: h, keys: keys})
	return nil
}

// Owner returns the name of the hook owning key.
func (c *Chain) Owner(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.owners[key]
	return name, ok
}

// CheckKeys reports every owned key missing from reg.
func (c *Chain) CheckKeys(reg *registry.Registry) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var missing []string
	for k := range c.owners {
		if !reg.Has(k) {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return icommon.Errorf(xinfo.ErrKeyNotFound, "hook keys not in registry: %v", missing)
}

// Call delivers ev to every hook in registration order.
func (c *Chain) Call(s Setter, ev *Event) {
	c.mu.RLock()
	entries := c.entries
	c.mu.RUnlock()

	for _, e := range entries {
		c.call(e, s, ev)
	}
}

func (c *Chain) call(e *entry, s Setter, ev *Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			c.log.Logf(common.SeverityError, "extra-info: hook %s panicked on %s event: %v",
				e.hook.Name(), ev.Kind, r)
		}
	}()
	e.hook.Handle(&ownedSetter{s: s, e: e, log: c.log}, ev)
}

// ownedSetter limits a hook to the keys it registered.
type ownedSetter struct {
	s   Setter
	e   *entry
	log common.Logger
}

func (o *ownedSetter) claim(key string) error {
	if o.e.keys[key] {
		return nil
	}
	err := icommon.NewErrorKeyMsg(xinfo.ErrSevWarn, xinfo.ErrKeyClaimed, key,
		fmt.Sprintf("hook %s does not own key", o.e.hook.Name()))
	o.log.Warning(err.Error())
	return err
}

func (o *ownedSetter) SetValue(key, format string, args ...any) error {
	if err := o.claim(key); err != nil {
		return err
	}
	return o.s.SetValue(key, format, args...)
}

func (o *ownedSetter) ClearValue(key string) error {
	if err := o.claim(key); err != nil {
		return err
	}
	return o.s.ClearValue(key)
}

// Cascade delivers events concurrently, one goroutine per event, the way
// several CPUs report a fault at the same time. Events not yet delivered when
// ctx is cancelled are dropped and ctx's error returned.
func Cascade(ctx context.Context, c *Chain, s Setter, events []Event) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range events {
		ev := &events[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c.Call(s, ev)
			return nil
		})
	}
	return g.Wait()
}
