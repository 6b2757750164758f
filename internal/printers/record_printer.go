package printers

import (
	"fmt"
	"io"
	"strings"

	"secdebug/internal/layout"
	"secdebug/internal/store"
)

// RecordPrinter lists decoded records, one per line.
type RecordPrinter struct {
	ItemPrinter
	showEmpty    bool
	collectStats bool
	counts       [layout.NumClasses]int
	filled       [layout.NumClasses]int
}

// NewRecordPrinter creates a printer that skips records without a value.
func NewRecordPrinter(writer io.Writer) *RecordPrinter {
	return &RecordPrinter{
		ItemPrinter: *NewItemPrinter(writer),
	}
}

// SetShowEmpty also prints records whose value is empty.
func (p *RecordPrinter) SetShowEmpty(show bool) { p.showEmpty = show }

// SetCollectStats turns on statistics collections.
func (p *RecordPrinter) SetCollectStats() { p.collectStats = true }

// RecordIn prints one record.
func (p *RecordPrinter) RecordIn(rec store.Record) {
	if p.collectStats && rec.Class >= 0 && rec.Class < layout.NumClasses {
		p.counts[rec.Class]++
		if rec.Value != "" {
			p.filled[rec.Class]++
		}
	}
	if p.IsMuted() || (rec.Value == "" && !p.showEmpty) {
		return
	}

	var sb strings.Builder
	if !p.IndexPrintMuted() {
		sb.WriteString(fmt.Sprintf("Idx:%d; %s; ", rec.Index, rec.Class))
	}
	sb.WriteString(fmt.Sprintf("%-6s = %q\n", rec.Key, rec.Value))
	p.ItemPrintLine(sb.String())
}

// PrintRecords prints recs in order.
func (p *RecordPrinter) PrintRecords(recs []store.Record) {
	for _, rec := range recs {
		p.RecordIn(rec)
	}
}

// PrintStats outputs per-class record counts.
func (p *RecordPrinter) PrintStats() {
	var sb strings.Builder
	sb.WriteString("Records processed:-\n")
	for c := 0; c < layout.NumClasses; c++ {
		sb.WriteString(fmt.Sprintf("%s : %d (%d with value)\n", layout.Class(c), p.counts[c], p.filled[c]))
	}
	p.ItemPrintLine(sb.String())
}

// PrintHeader describes the window header.
func (p *RecordPrinter) PrintHeader(h layout.Header) {
	var sb strings.Builder
	magic := "invalid"
	if h.Magic == layout.Magic {
		magic = "valid"
	}
	sb.WriteString(fmt.Sprintf("Header; magic %s\n", magic))
	for _, r := range []struct {
		name  string
		descs [layout.NumClasses]layout.Descriptor
	}{{"live", h.Live}, {"shadow", h.Shadow}} {
		for c, d := range r.descs {
			sb.WriteString(fmt.Sprintf("%-6s %-6s base 0x%06X; stride %4d; count %3d; populated %3d\n",
				r.name, layout.Class(c), d.Base, d.Stride, d.Count, d.Populated))
		}
	}
	p.ItemPrintLine(sb.String())
}
