package registry

import (
	"errors"
	"fmt"

	"secdebug/internal/common"
	"secdebug/internal/layout"
	"secdebug/internal/xinfo"
)

// SelfCheck cross-validates the registry against the slot class geometry.
//
// Every key referenced by a view, an append rule or an order list must be
// declared in exactly one class table; keys in AllowDuplicate may be declared
// in two. No class may declare more keys than it has records, and no class may
// declare the same key twice. All problems are returned joined.
func (r *Registry) SelfCheck(descs [layout.NumClasses]layout.ClassDesc) error {
	var errs []error

	for c, keys := range r.Classes {
		if uint32(len(keys)) > descs[c].Count {
			errs = append(errs, common.Errorf(xinfo.ErrClassCapacity,
				"%s declares %d keys for %d records", layout.Class(c), len(keys), descs[c].Count))
		}
		seen := make(map[string]bool, len(keys))
		for _, k := range keys {
			if err := validKey(k); err != nil {
				errs = append(errs, common.NewErrorKeyMsg(xinfo.ErrSevError, xinfo.ErrRegistryParse, k, err.Error()))
			}
			if seen[k] {
				errs = append(errs, common.NewErrorKeyMsg(xinfo.ErrSevError, xinfo.ErrDuplicateKeyInRegistry, k,
					fmt.Sprintf("declared twice in %s", layout.Class(c))))
			}
			seen[k] = true
		}
	}

	checked := make(map[string]bool)
	check := func(key, where string) {
		if checked[key] {
			return
		}
		checked[key] = true
		n := len(r.ClassesOf(key))
		allowed := 1
		if r.AllowDuplicate[key] {
			allowed = 2
		}
		if n == 0 || n > allowed {
			errs = append(errs, common.NewErrorKeyMsg(xinfo.ErrSevError, xinfo.ErrDuplicateKeyInRegistry, key,
				fmt.Sprintf("referenced by %s but declared in %d class tables", where, n)))
		}
	}

	viewNames := make(map[string]bool)
	for _, v := range r.Views {
		if viewNames[v.Name] {
			errs = append(errs, common.Errorf(xinfo.ErrDuplicateKeyInRegistry, "view %q declared twice", v.Name))
		}
		viewNames[v.Name] = true
		inView := make(map[string]bool)
		for _, k := range v.Keys {
			if inView[k] {
				errs = append(errs, common.NewErrorKeyMsg(xinfo.ErrSevError, xinfo.ErrDuplicateKeyInRegistry, k,
					fmt.Sprintf("listed twice in view %s", v.Name)))
			}
			inView[k] = true
			check(k, "view "+v.Name)
		}
	}
	for k := range r.Append {
		check(k, "append rule")
	}
	for k := range r.OrderOnce {
		check(k, "order-once list")
	}

	return errors.Join(errs...)
}

func validKey(k string) error {
	if k == "" || len(k) > layout.KeyWidth {
		return fmt.Errorf("key length %d not in 1..%d", len(k), layout.KeyWidth)
	}
	for i := 0; i < len(k); i++ {
		if k[i] <= ' ' || k[i] > '~' {
			return fmt.Errorf("key byte %d is not printable ASCII", i)
		}
	}
	return nil
}
