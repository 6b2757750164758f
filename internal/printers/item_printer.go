package printers

import (
	"fmt"
	"io"

	"secdebug/common"
)

// ItemPrinter is the shared output side of the record printers.
type ItemPrinter struct {
	writer       io.Writer
	log          common.Logger
	muted        bool
	idxPrintMute bool
}

// NewItemPrinter constructs an ItemPrinter using the given io.Writer.
func NewItemPrinter(writer io.Writer) *ItemPrinter {
	return &ItemPrinter{
		writer: writer,
	}
}

// SetMessageLogger sets the optional logger that receives every printed line.
func (p *ItemPrinter) SetMessageLogger(logger common.Logger) {
	p.log = logger
}

// ItemPrintLine writes the given message to the writer and optionally logs it.
func (p *ItemPrinter) ItemPrintLine(msg string) {
	if p.writer != nil {
		fmt.Fprint(p.writer, msg)
	}
	if p.log != nil {
		p.log.Log(common.SeverityInfo, msg)
	}
}

// SetMute sets the printer to mute (avoids output).
func (p *ItemPrinter) SetMute(mute bool) { p.muted = mute }

// IsMuted returns true if the printer is muted.
func (p *ItemPrinter) IsMuted() bool { return p.muted }

// MuteIndexPrint mutes or unmutes printing the record index in the output lines.
func (p *ItemPrinter) MuteIndexPrint(mute bool) { p.idxPrintMute = mute }

// IndexPrintMuted returns whether record index printing is muted.
func (p *ItemPrinter) IndexPrintMuted() bool { return p.idxPrintMute }
