package store

import (
	"strings"

	"secdebug/internal/xinfo"
)

const orderSep = ","

// RecordWriteOrder puts key at the front of the write-order record.
//
// The record lists keys most recent first. When it is full the oldest whole
// entries are dropped. A key equal to the current head is not repeated, and
// order-once keys enter the record at most once per boot. Safe for concurrent
// use.
func (s *Store) RecordWriteOrder(key string) {
	if key == "" || key == xinfo.KeyOrder || s.reg.OrderExcluded(key) {
		return
	}

	s.odrMu.Lock()
	defer s.odrMu.Unlock()

	if s.reg.OrderOnceOnly(key) {
		if s.odrSeen[key] {
			return
		}
		s.odrSeen[key] = true
	}

	h, ok := s.FindRecord(xinfo.Live, xinfo.KeyOrder)
	if !ok {
		return
	}
	rec, err := s.record(h)
	if err != nil {
		return
	}
	cur := readValue(rec)
	if head, _, _ := strings.Cut(cur, orderSep); head == key {
		return
	}
	writeValue(rec, prependBounded(cur, key, orderSep, valueCap(rec)))
}

// seedOrderSeen marks the order-once keys already present in the live
// write-order record, so a store attached later in the same boot does not
// record them again. A key that was dropped from a full record is forgotten.
func (s *Store) seedOrderSeen() {
	h, ok := s.FindRecord(xinfo.Live, xinfo.KeyOrder)
	if !ok {
		return
	}
	rec, err := s.record(h)
	if err != nil {
		return
	}
	s.odrMu.Lock()
	defer s.odrMu.Unlock()
	for _, key := range strings.Split(readValue(rec), orderSep) {
		if s.reg.OrderOnceOnly(key) {
			s.odrSeen[key] = true
		}
	}
}
