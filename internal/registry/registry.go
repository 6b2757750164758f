// Package registry holds the static key tables of the extra-info recorder: which
// keys exist, which slot class each one lives in, and how keys are grouped into
// the lettered views.
package registry

import (
	"sort"

	"secdebug/internal/layout"
)

// AppendMode says how a key may be updated after its first write in a boot.
type AppendMode int

const (
	// AppendNone keys are written at most once per boot.
	AppendNone AppendMode = iota
	// AppendTail concatenates new text after the existing value.
	AppendTail
	// AppendPrepend puts the newest entry first, dropping whole old entries
	// when the record is full.
	AppendPrepend
	// AppendHexOr ORs a hex bitmask into a fixed-width hex value.
	AppendHexOr
)

func (m AppendMode) String() string {
	switch m {
	case AppendNone:
		return "none"
	case AppendTail:
		return "tail"
	case AppendPrepend:
		return "prepend"
	case AppendHexOr:
		return "hexor"
	default:
		return "unknown"
	}
}

// AppendRule configures an allow-listed key.
type AppendRule struct {
	Mode AppendMode
	// Sep separates entries for AppendPrepend.
	Sep string
	// Width is the number of hex digits for AppendHexOr.
	Width int
}

// View is an ordered group of keys rendered together.
type View struct {
	Name string
	// Proc is the exposition endpoint name.
	Proc string
	// Size bounds the rendered text, NUL terminator included.
	Size int
	Keys []string
}

// DefaultViewSize is the historical bound of a view endpoint.
const DefaultViewSize = 0x800

// Registry is the full key configuration of one product.
type Registry struct {
	Version string
	// Classes lists the keys of each slot class in declaration order.
	Classes        [layout.NumClasses][]string
	Views          []View
	Append         map[string]AppendRule
	OrderExclude   map[string]bool
	OrderOnce      map[string]bool
	AllowDuplicate map[string]bool
}

// View looks up a view by name.
func (r *Registry) View(name string) (View, bool) {
	for _, v := range r.Views {
		if v.Name == name {
			return v, true
		}
	}
	return View{}, false
}

// AppendRuleFor returns the rule of key, AppendNone if it has none.
func (r *Registry) AppendRuleFor(key string) AppendRule {
	if rule, ok := r.Append[key]; ok {
		return rule
	}
	return AppendRule{Mode: AppendNone}
}

// OrderExcluded reports whether writes to key stay out of the write-order record.
func (r *Registry) OrderExcluded(key string) bool {
	return r.OrderExclude[key]
}

// OrderOnceOnly reports whether key enters the write-order record at most once per boot.
func (r *Registry) OrderOnceOnly(key string) bool {
	return r.OrderOnce[key]
}

// ClassesOf returns the classes key is declared in, in class order.
func (r *Registry) ClassesOf(key string) []layout.Class {
	var out []layout.Class
	for c, keys := range r.Classes {
		for _, k := range keys {
			if k == key {
				out = append(out, layout.Class(c))
				break
			}
		}
	}
	return out
}

// Has reports whether key is declared in any class.
func (r *Registry) Has(key string) bool {
	return len(r.ClassesOf(key)) > 0
}

// Orphans returns declared keys that no view references, sorted.
func (r *Registry) Orphans() []string {
	inView := make(map[string]bool)
	for _, v := range r.Views {
		for _, k := range v.Keys {
			inView[k] = true
		}
	}
	seen := make(map[string]bool)
	var out []string
	for _, keys := range r.Classes {
		for _, k := range keys {
			if !inView[k] && !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out
}

func setOf(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}
