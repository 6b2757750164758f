package registry

import "secdebug/internal/layout"

// Default returns the built-in key registry.
func Default() *Registry {
	return &Registry{
		Version: "v1.0.0",
		Classes: [layout.NumClasses][]string{
			layout.Class32: {
				"ID", "KTIME", "BIN", "FTYPE", "RR", "PWR", "PWROFF",
				"PINT1", "PINT2", "PINT5", "PINT6", "PSITE", "DDRID",
				"RST1", "RST2", "RST3", "ESR", "SMP", "MER", "PCB",
				"SMD", "CHI", "LPI", "CDI", "LPM", "CPU", "STEP",
				"DCN", "BAT", "ASB", "MOCP", "SOCP",
			},
			layout.Class64: {
				"FAULT", "BUG", "PC", "LR", "SMU", "BUS", "DPM", "ETC",
				"HLTYPE", "HLDATA", "HLEHLD", "WDGC", "MFC", "BMC",
			},
			layout.Class256: {
				"PANIC", "PINFO", "ODR", "HLFREQ", "UFZ", "DSTATE", "EPD",
			},
			layout.Class1024: {
				"STACK", "REGS",
			},
		},
		Views: []View{
			{Name: "A", Proc: "extra", Size: DefaultViewSize, Keys: []string{
				"ID", "RR", "KTIME", "BIN", "FTYPE", "FAULT", "BUG", "PC", "LR",
				"STACK", "PANIC", "PINFO", "SMU", "BUS", "DPM", "SMP", "ETC",
				"ESR", "MER", "PCB", "SMD", "CHI", "LPI", "CDI", "LPM", "CPU",
				"PWR", "PWROFF", "ODR",
			}},
			{Name: "B", Proc: "extrb", Size: DefaultViewSize, Keys: []string{
				"ID", "RR", "RST1", "RST2", "RST3", "PINT1", "PINT2", "PINT5",
				"PINT6", "PSITE", "DDRID", "MOCP", "SOCP", "BAT", "ASB", "STEP", "DCN",
			}},
			{Name: "C", Proc: "extrc", Size: DefaultViewSize, Keys: []string{
				"ID", "RR", "REGS",
			}},
			{Name: "F", Proc: "extrf", Size: DefaultViewSize, Keys: []string{
				"ID", "RR", "UFZ", "DSTATE", "EPD",
			}},
			{Name: "M", Proc: "extrm", Size: DefaultViewSize, Keys: []string{
				"ID", "RR", "MFC", "BMC", "WDGC",
			}},
			{Name: "T", Proc: "extrt", Size: DefaultViewSize, Keys: []string{
				"ID", "RR", "HLTYPE", "HLDATA", "HLFREQ", "HLEHLD",
			}},
		},
		Append: map[string]AppendRule{
			"UFZ":    {Mode: AppendTail},
			"EPD":    {Mode: AppendTail},
			"HLFREQ": {Mode: AppendPrepend, Sep: ","},
			"STEP":   {Mode: AppendHexOr, Width: 8},
		},
		OrderExclude: setOf(
			"ODR", "ID", "RR", "PWR", "PWROFF", "KTIME", "STEP", "UFZ", "EPD", "HLFREQ", "BAT",
		),
		OrderOnce:      setOf("BUS", "SMU", "ETC", "HLDATA"),
		AllowDuplicate: setOf("ID", "RR"),
	}
}
