package config

const (
	WindowSectionName = "window"
	WindowPathKey     = "path"
	WindowPhysKey     = "phys_base"
	WindowSizeKey     = "size"

	ExtraInfoSectionName = "extra_info"
	ExtraInfoBaseKey     = "base"
	ExtraInfoSizeKey     = "size"

	RecorderSectionName = "recorder"
	ProductionKey       = "production"
	PowerSourceKey      = "pwrsrc"
	BootIDKey           = "boot_id"
	RegistryKey         = "registry"
)

// Defaults match the reserved region of the reference board.
const (
	DefaultWindowPhys = 0x80000000
	DefaultWindowSize = 0x1E100
	DefaultXinfoBase  = 0x80000100
	DefaultXinfoSize  = 0x1E000
)
