// Package config loads the INI configuration of the extra-info tools.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"secdebug/internal/layout"
	"secdebug/internal/registry"
	"secdebug/internal/window"
	"secdebug/internal/xinfo"
)

// Config describes where the window lives and how the recorder behaves.
type Config struct {
	// WindowPath is the file or device node backing the window.
	WindowPath string
	WindowPhys uint64
	WindowSize uint64

	XinfoBase uint64
	XinfoSize uint64

	Production  bool
	PowerSource uint32
	BootID      string
	// RegistryPath names a YAML key registry. Empty selects the built-in one.
	RegistryPath string
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		WindowPhys: DefaultWindowPhys,
		WindowSize: DefaultWindowSize,
		XinfoBase:  DefaultXinfoBase,
		XinfoSize:  DefaultXinfoSize,
	}
}

// Parse reads an INI configuration on top of Default.
func Parse(r io.Reader) (*Config, error) {
	ini, err := ParseIni(r)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := Default()
	p := &fieldParser{}

	if sec := ini.GetSection(WindowSectionName); sec != nil {
		if v, ok := sec[WindowPathKey]; ok {
			cfg.WindowPath = v
		}
		p.uint(sec, WindowSectionName, WindowPhysKey, &cfg.WindowPhys)
		p.uint(sec, WindowSectionName, WindowSizeKey, &cfg.WindowSize)
	}
	if sec := ini.GetSection(ExtraInfoSectionName); sec != nil {
		p.uint(sec, ExtraInfoSectionName, ExtraInfoBaseKey, &cfg.XinfoBase)
		p.uint(sec, ExtraInfoSectionName, ExtraInfoSizeKey, &cfg.XinfoSize)
	}
	if sec := ini.GetSection(RecorderSectionName); sec != nil {
		if v, ok := sec[ProductionKey]; ok {
			b, err := strconv.ParseBool(v)
			p.set(err, RecorderSectionName, ProductionKey)
			cfg.Production = b
		}
		var pwr uint64
		p.uint(sec, RecorderSectionName, PowerSourceKey, &pwr)
		if pwr > 0xFFFFFFFF {
			p.set(errors.New("value out of range"), RecorderSectionName, PowerSourceKey)
		}
		cfg.PowerSource = uint32(pwr)
		cfg.BootID = sec[BootIDKey]
		cfg.RegistryPath = sec[RegistryKey]
	}
	if p.err != nil {
		return nil, p.err
	}
	return cfg, nil
}

// LoadFile parses the configuration at path. A relative registry path is
// resolved against the directory of the configuration file.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	if cfg.RegistryPath != "" && !filepath.IsAbs(cfg.RegistryPath) {
		cfg.RegistryPath = filepath.Join(filepath.Dir(path), cfg.RegistryPath)
	}
	if cfg.WindowPath != "" && !filepath.IsAbs(cfg.WindowPath) {
		cfg.WindowPath = filepath.Join(filepath.Dir(path), cfg.WindowPath)
	}
	return cfg, nil
}

// Locator returns the buffer locator described by the configuration.
func (c *Config) Locator() *window.StaticLocator {
	return window.NewStaticLocator().
		Set(xinfo.BufHeader, c.WindowPhys, layout.HeaderSize).
		Set(xinfo.BufExtraInfo, c.XinfoBase, c.XinfoSize)
}

// Registry loads the configured key registry.
func (c *Config) Registry() (*registry.Registry, error) {
	if c.RegistryPath == "" {
		return registry.Default(), nil
	}
	return registry.LoadFile(c.RegistryPath)
}

// fieldParser keeps the first conversion error.
type fieldParser struct {
	err error
}

func (p *fieldParser) set(err error, section, key string) {
	if err != nil && p.err == nil {
		p.err = errors.Wrapf(err, "[%s] %s", section, key)
	}
}

func (p *fieldParser) uint(sec map[string]string, section, key string, dst *uint64) {
	s, ok := sec[key]
	if !ok {
		return
	}
	v, err := strconv.ParseUint(s, 0, 64)
	p.set(err, section, key)
	if err == nil {
		*dst = v
	}
}
