package printers

import (
	"fmt"
	"io"
	"strings"
)

// RawPrinter hex dumps spans of the window.
type RawPrinter struct {
	ItemPrinter
}

// NewRawPrinter creates a new printer for raw window bytes.
func NewRawPrinter(writer io.Writer) *RawPrinter {
	return &RawPrinter{
		ItemPrinter: *NewItemPrinter(writer),
	}
}

// PrintSpan dumps data, which starts at window offset off, 16 bytes per line.
func (p *RawPrinter) PrintSpan(label string, off uint64, data []byte) {
	if p.IsMuted() {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Raw Data; %s; Offset 0x%06X; Size 0x%X\n", label, off, len(data)))
	for i := 0; i < len(data); i += 16 {
		line := data[i:min(i+16, len(data))]
		sb.WriteString(fmt.Sprintf("%06x: ", off+uint64(i)))
		for _, b := range line {
			sb.WriteString(fmt.Sprintf("%02x ", b))
		}
		sb.WriteString(strings.Repeat("   ", 16-len(line)))
		sb.WriteString(" |")
		for _, b := range line {
			if b >= 0x20 && b < 0x7f {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("|\n")
	}
	p.ItemPrintLine(sb.String())
}
