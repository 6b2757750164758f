package store

import (
	"strings"

	"secdebug/common"
	icommon "secdebug/internal/common"
	"secdebug/internal/registry"
	"secdebug/internal/xinfo"
)

// FormatView renders view name from the shadow region as comma-separated
// "KEY":"VALUE" pairs in view order. Keys without a shadow value are skipped.
// The text is bounded by the view size minus one byte for a terminating NUL;
// pairs that would cross the bound are dropped and the truncation logged. An
// unknown view renders as the empty string.
func (s *Store) FormatView(name string) string {
	v, ok := s.reg.View(name)
	if !ok {
		s.log.Logf(common.SeverityDebug, "extra-info: no view %s", name)
		return ""
	}
	return s.formatView(v, v.Size)
}

// ReadView renders view name into dst, NUL-terminated, and returns the number
// of text bytes written.
func (s *Store) ReadView(name string, dst []byte) (int, error) {
	v, ok := s.reg.View(name)
	if !ok {
		return 0, icommon.Errorf(xinfo.ErrUnknownView, "view %q", name)
	}
	if len(dst) == 0 {
		return 0, nil
	}
	text := s.formatView(v, min(len(dst), v.Size))
	n := copy(dst, text)
	dst[n] = 0
	return n, nil
}

func (s *Store) formatView(v registry.View, size int) string {
	limit := size - 1
	if limit <= 0 {
		return ""
	}
	var sb strings.Builder
	for _, key := range v.Keys {
		val, ok := s.GetValueShadow(key)
		if !ok || val == "" {
			continue
		}
		need := len(key) + len(val) + 5
		if sb.Len() > 0 {
			need++
		}
		if sb.Len()+need > limit {
			s.log.Logf(common.SeverityWarning, "extra-info: view %s truncated at %d bytes before %s",
				v.Name, sb.Len(), key)
			break
		}
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(key)
		sb.WriteString(`":"`)
		sb.WriteString(val)
		sb.WriteByte('"')
	}
	return sb.String()
}
