package recorder

import (
	"fmt"

	"secdebug/common"
	"secdebug/internal/xinfo"
)

// PowerSource is the raw power-source bitfield the boot loader hands over.
//
//	bits  0-7   reset reason code of the previous session
//	bits  8-15  power-on source
//	bits 16-23  power-off reason
type PowerSource uint32

var resetReasons = [...]string{
	0: "NP", // no panic, normal reset
	1: "KP", // kernel panic
	2: "WP", // watchdog
	3: "TP", // thermal
	4: "MP", // modem panic
	5: "UP", // user-forced upload
	6: "SP", // secure world panic
	7: "DP", // debug reset
	8: "PP", // power-off
}

// ResetReason returns the two-letter code of the reset reason, or the code in
// hex when it is unknown.
func (p PowerSource) ResetReason() string {
	c := uint8(p)
	if int(c) < len(resetReasons) {
		return resetReasons[c]
	}
	return fmt.Sprintf("%02X", c)
}

func (p PowerSource) PowerOn() uint8 {
	return uint8(p >> 8)
}

func (p PowerSource) PowerOff() uint8 {
	return uint8(p >> 16)
}

// ApplyPowerSource records why the previous session ended in the shadow
// region. Keys already carried over from the previous session are kept.
func (r *Recorder) ApplyPowerSource(p PowerSource) error {
	vals := []struct {
		key, val string
	}{
		{xinfo.KeyResetReason, p.ResetReason()},
		{xinfo.KeyPowerOn, fmt.Sprintf("%02X", p.PowerOn())},
		{xinfo.KeyPowerOff, fmt.Sprintf("%02X", p.PowerOff())},
	}
	var first error
	for _, v := range vals {
		wrote, err := r.SetShadowValue(v.key, "%s", v.val)
		if err != nil && first == nil {
			first = err
		}
		if wrote {
			r.log.Logf(common.SeverityInfo, "extra-info: previous session %s=%s", v.key, v.val)
		}
	}
	return first
}

// SetBootID stamps the boot identity into the live region and, when the
// previous session left none, into the shadow region.
func (r *Recorder) SetBootID(id string) error {
	if err := r.SetValue(xinfo.KeyID, "%s", id); err != nil {
		return err
	}
	_, err := r.SetShadowValue(xinfo.KeyID, "%s", id)
	return err
}
