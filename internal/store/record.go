package store

import (
	"bytes"

	"secdebug/common"
	icommon "secdebug/internal/common"
	"secdebug/internal/layout"
	"secdebug/internal/xinfo"
)

// Handle addresses one record.
type Handle struct {
	Region xinfo.Region
	Class  layout.Class
	Index  uint32
}

// Record is a decoded record.
type Record struct {
	Handle
	Key   string
	Value string
}

// FindRecord scans the populated records of every class of region for key and
// returns the first match.
func (s *Store) FindRecord(region xinfo.Region, key string) (Handle, bool) {
	if key == "" || len(key) > layout.KeyWidth {
		return Handle{}, false
	}
	ds := s.descs(region)
	for c, d := range ds {
		n := min(d.Populated, d.Count)
		for i := uint32(0); i < n; i++ {
			rec, err := s.recordBytes(d, i)
			if err != nil {
				break
			}
			if keyEquals(rec, key) {
				return Handle{Region: region, Class: layout.Class(c), Index: i}, true
			}
		}
	}
	s.log.Logf(common.SeverityDebug, "extra-info: key %s not in %s region", key, region)
	return Handle{}, false
}

// Records decodes every populated record of region in class order.
func (s *Store) Records(region xinfo.Region) []Record {
	var out []Record
	for c, d := range s.descs(region) {
		n := min(d.Populated, d.Count)
		for i := uint32(0); i < n; i++ {
			rec, err := s.recordBytes(d, i)
			if err != nil {
				break
			}
			out = append(out, Record{
				Handle: Handle{Region: region, Class: layout.Class(c), Index: i},
				Key:    readKey(rec),
				Value:  readValue(rec),
			})
		}
	}
	return out
}

func (s *Store) record(h Handle) ([]byte, error) {
	if h.Class < 0 || h.Class >= layout.NumClasses {
		return nil, icommon.Errorf(xinfo.ErrOutOfRange, "no slot class %d", int(h.Class))
	}
	return s.recordBytes(s.descs(h.Region)[h.Class], h.Index)
}

// recordBytes returns the bytes of record idx described by d, bounds-checked
// against both the class and the window.
func (s *Store) recordBytes(d layout.Descriptor, idx uint32) ([]byte, error) {
	if idx >= d.Count {
		return nil, icommon.Errorf(xinfo.ErrOutOfRange, "record %d of stride %d beyond count %d", idx, d.Stride, d.Count)
	}
	if d.Stride <= layout.KeyWidth {
		return nil, icommon.Errorf(xinfo.ErrOutOfRange, "stride %d leaves no value field", d.Stride)
	}
	off := uint64(d.Base) + uint64(idx)*uint64(d.Stride)
	end := off + uint64(d.Stride)
	if end > uint64(len(s.win)) {
		return nil, icommon.Errorf(xinfo.ErrOutOfRange, "record at 0x%X+0x%X beyond window 0x%X", off, d.Stride, len(s.win))
	}
	return s.win[off:end:end], nil
}

func keyEquals(rec []byte, key string) bool {
	k := rec[:layout.KeyWidth]
	if string(k[:len(key)]) != key {
		return false
	}
	return len(key) == layout.KeyWidth || k[len(key)] == 0
}

func readKey(rec []byte) string {
	k := rec[:layout.KeyWidth]
	if i := bytes.IndexByte(k, 0); i >= 0 {
		k = k[:i]
	}
	return string(k)
}

func writeKey(rec []byte, key string) {
	clear(rec[:layout.KeyWidth])
	copy(rec[:layout.KeyWidth], key)
}

func valueCap(rec []byte) int {
	return len(rec) - layout.KeyWidth - 1
}

func readValue(rec []byte) string {
	v := rec[layout.KeyWidth:]
	if i := bytes.IndexByte(v, 0); i >= 0 {
		v = v[:i]
	} else {
		v = v[:len(v)-1]
	}
	return string(v)
}

// writeValue stores val NUL-terminated in the value field, truncating it to
// fit. The rest of the field is zeroed.
func writeValue(rec []byte, val string) (truncated bool) {
	v := rec[layout.KeyWidth:]
	if c := len(v) - 1; len(val) > c {
		val = val[:c]
		truncated = true
	}
	n := copy(v, val)
	clear(v[n:])
	return truncated
}

func clearValue(rec []byte) {
	clear(rec[layout.KeyWidth:])
}
