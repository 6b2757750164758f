package recorder

import (
	icommon "secdebug/internal/common"
	"secdebug/internal/xinfo"
)

func notReady(key string) error {
	return icommon.NewErrorKeyMsg(xinfo.ErrSevInfo, xinfo.ErrKeyNotFound, key, "store not ready")
}

// SetValue writes key in the live region. See store.Store.SetValue.
func (r *Recorder) SetValue(key, format string, args ...any) error {
	s := r.st.Load()
	if s == nil {
		return notReady(key)
	}
	return s.SetValue(key, format, args...)
}

// ClearValue empties key in the live region.
func (r *Recorder) ClearValue(key string) error {
	s := r.st.Load()
	if s == nil {
		return notReady(key)
	}
	return s.ClearValue(key)
}

func (r *Recorder) GetValue(key string) (string, bool) {
	s := r.st.Load()
	if s == nil {
		return "", false
	}
	return s.GetValue(key)
}

func (r *Recorder) GetValueShadow(key string) (string, bool) {
	s := r.st.Load()
	if s == nil {
		return "", false
	}
	return s.GetValueShadow(key)
}

// SetShadowValue fills key in the shadow region if it is empty.
func (r *Recorder) SetShadowValue(key, format string, args ...any) (bool, error) {
	s := r.st.Load()
	if s == nil {
		return false, notReady(key)
	}
	return s.SetShadowValue(key, format, args...)
}

func (r *Recorder) RecordWriteOrder(key string) {
	if s := r.st.Load(); s != nil {
		s.RecordWriteOrder(key)
	}
}

// FormatView renders a view, or "" while the store is not ready.
func (r *Recorder) FormatView(name string) string {
	s := r.st.Load()
	if s == nil {
		return ""
	}
	return s.FormatView(name)
}

// ReadView renders a view into dst. A recorder that is not ready renders
// the empty string.
func (r *Recorder) ReadView(name string, dst []byte) (int, error) {
	s := r.st.Load()
	if s == nil {
		if len(dst) > 0 {
			dst[0] = 0
		}
		return 0, nil
	}
	return s.ReadView(name, dst)
}
