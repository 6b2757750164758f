package store

import (
	"fmt"
	"strconv"
	"strings"

	"secdebug/common"
	icommon "secdebug/internal/common"
	"secdebug/internal/registry"
	"secdebug/internal/xinfo"
)

// SetValue writes the formatted text into key's live record.
//
// A key is written at most once per boot: once its value is non-empty further
// calls are silent no-ops, unless the registry gives the key an append rule.
// The first write of a key that is not order-excluded is recorded in the
// write-order record. Text that does not fit is truncated and reported as an
// ErrValueTooLong warning; the truncated value is still stored.
func (s *Store) SetValue(key, format string, args ...any) error {
	h, ok := s.FindRecord(xinfo.Live, key)
	if !ok {
		return icommon.NewErrorKeyMsg(xinfo.ErrSevInfo, xinfo.ErrKeyNotFound, key, "live region")
	}
	rec, err := s.record(h)
	if err != nil {
		s.log.Error(err)
		return err
	}
	if key == xinfo.KeyOrder {
		s.odrMu.Lock()
		defer s.odrMu.Unlock()
	}

	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}

	cur := readValue(rec)
	rule := s.reg.AppendRuleFor(key)
	if cur != "" && rule.Mode == registry.AppendNone {
		s.log.Logf(common.SeverityDebug, "extra-info: %s already set", key)
		return nil
	}

	next := text
	switch rule.Mode {
	case registry.AppendTail:
		next = cur + text
	case registry.AppendPrepend:
		next = prependBounded(cur, text, rule.Sep, valueCap(rec))
	case registry.AppendHexOr:
		next, err = hexOr(cur, text, rule.Width)
		if err != nil {
			e := icommon.NewErrorKeyMsg(xinfo.ErrSevWarn, xinfo.ErrFail, key, err.Error())
			s.log.Warning(e.Error())
			return e
		}
	}

	truncated := writeValue(rec, next)
	if cur == "" && key != xinfo.KeyOrder {
		s.RecordWriteOrder(key)
	}
	if truncated {
		e := icommon.NewErrorKeyMsg(xinfo.ErrSevWarn, xinfo.ErrValueTooLong, key,
			fmt.Sprintf("%d bytes truncated to %d", len(next), valueCap(rec)))
		s.log.Warning(e.Error())
		return e
	}
	return nil
}

// ClearValue zeroes the value field of key's live record, leaving the key.
func (s *Store) ClearValue(key string) error {
	h, ok := s.FindRecord(xinfo.Live, key)
	if !ok {
		return icommon.NewErrorKeyMsg(xinfo.ErrSevInfo, xinfo.ErrKeyNotFound, key, "live region")
	}
	rec, err := s.record(h)
	if err != nil {
		return err
	}
	if key == xinfo.KeyOrder {
		s.odrMu.Lock()
		defer s.odrMu.Unlock()
	}
	clearValue(rec)
	return nil
}

// GetValue reads key from the live region.
func (s *Store) GetValue(key string) (string, bool) {
	if key == xinfo.KeyOrder {
		s.odrMu.Lock()
		defer s.odrMu.Unlock()
	}
	return s.get(xinfo.Live, key)
}

// GetValueShadow reads key as it was when the store was initialized.
func (s *Store) GetValueShadow(key string) (string, bool) {
	return s.get(xinfo.Shadow, key)
}

// SetShadowValue writes into the shadow record of key if it is still empty.
// It is meant for facts about the previous session that only become known
// during this boot, such as why the previous session ended.
func (s *Store) SetShadowValue(key, format string, args ...any) (bool, error) {
	h, ok := s.FindRecord(xinfo.Shadow, key)
	if !ok {
		return false, icommon.NewErrorKeyMsg(xinfo.ErrSevInfo, xinfo.ErrKeyNotFound, key, "shadow region")
	}
	rec, err := s.record(h)
	if err != nil {
		return false, err
	}
	if readValue(rec) != "" {
		return false, nil
	}
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	if writeValue(rec, text) {
		e := icommon.NewErrorKeyMsg(xinfo.ErrSevWarn, xinfo.ErrValueTooLong, key, "shadow region")
		s.log.Warning(e.Error())
		return true, e
	}
	return true, nil
}

func (s *Store) get(region xinfo.Region, key string) (string, bool) {
	h, ok := s.FindRecord(region, key)
	if !ok {
		return "", false
	}
	rec, err := s.record(h)
	if err != nil {
		return "", false
	}
	return readValue(rec), true
}

// prependBounded puts item in front of cur and drops whole trailing entries
// until the result fits in capacity.
func prependBounded(cur, item, sep string, capacity int) string {
	if capacity <= 0 {
		return ""
	}
	if sep == "" {
		sep = ","
	}
	if len(item) >= capacity {
		return item[:capacity]
	}
	out := item
	if cur != "" {
		out = item + sep + cur
	}
	for len(out) > capacity {
		i := strings.LastIndex(out, sep)
		if i < len(item) {
			return item
		}
		out = out[:i]
	}
	return out
}

// hexOr ORs the hex bitmask in text into cur and renders it zero-padded to
// width digits. Bits above width digits are dropped.
func hexOr(cur, text string, width int) (string, error) {
	if width <= 0 || width > 16 {
		width = 16
	}
	a, err := parseHex(cur)
	if err != nil {
		return "", fmt.Errorf("current value: %w", err)
	}
	b, err := parseHex(text)
	if err != nil {
		return "", fmt.Errorf("new value: %w", err)
	}
	v := a | b
	if width < 16 {
		v &= 1<<(4*uint(width)) - 1
	}
	return fmt.Sprintf("%0*x", width, v), nil
}

func parseHex(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 16, 64)
}
