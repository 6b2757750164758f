// Package tool runs the extra-info commands against a mapped window file.
// Each Run is one process: "boot" starts a new session of the window, every
// other command attaches to the session the last boot prepared.
package tool

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"secdebug/common"
	icommon "secdebug/internal/common"
	"secdebug/internal/config"
	"secdebug/internal/recorder"
	"secdebug/internal/registry"
	"secdebug/internal/window"
	"secdebug/internal/xinfo"
)

// Config mirrors the command line of the extrainfo tool.
type Config struct {
	// Settings describes the window; nil selects config.Default().
	Settings *config.Config
	Command  string
	Args     []string
	// Raw dumps record bytes instead of decoded records.
	Raw bool
	// ShowEmpty lists records without a value.
	ShowEmpty bool
	// LogDump also sends dump output to Logger at Info severity.
	LogDump      bool
	OutputWriter io.Writer
	Logger       common.Logger
	Platform     recorder.Platform
}

type session struct {
	cfg    Config
	set    *config.Config
	out    io.Writer
	log    common.Logger
	region *window.Region
	reg    *registry.Registry
	rec    *recorder.Recorder
}

// Run executes one command.
func Run(cfg Config) (err error) {
	s := &session{cfg: cfg, set: cfg.Settings, out: cfg.OutputWriter, log: cfg.Logger}
	if s.set == nil {
		s.set = config.Default()
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.log == nil {
		s.log = common.NewStdLogger(common.SeverityWarning)
	}

	cmd, ok := commands[cfg.Command]
	if !ok {
		return fmt.Errorf("unknown command %q (want one of %s)", cfg.Command, strings.Join(commandNames(), ", "))
	}
	if len(cfg.Args) < cmd.minArgs {
		return fmt.Errorf("%s: usage: %s %s", cfg.Command, cfg.Command, cmd.usage)
	}

	if err := s.open(); err != nil {
		return err
	}
	defer func() {
		if cerr := s.region.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if cmd.boot {
		err = s.rec.Boot(s.region, s.set.Locator())
	} else {
		err = s.rec.Attach(s.region, s.set.Locator())
	}
	if err != nil {
		return fmt.Errorf("%s: %v", cfg.Command, err)
	}
	if err := cmd.run(s, cfg.Args); err != nil {
		return fmt.Errorf("%s: %v", cfg.Command, err)
	}
	return s.region.Sync()
}

func (s *session) open() error {
	if s.set.WindowPath == "" {
		return fmt.Errorf("no window file configured")
	}
	reg, err := s.set.Registry()
	if err != nil {
		return fmt.Errorf("load registry: %v", err)
	}
	s.reg = reg
	s.region, err = window.MapFile(s.set.WindowPath, s.set.WindowPhys, s.set.WindowSize)
	if err != nil {
		return fmt.Errorf("map window: %v", err)
	}
	s.rec = recorder.New(recorder.Options{
		Production: s.set.Production,
		Registry:   reg,
		Logger:     s.log,
		Platform:   s.cfg.Platform,
	})
	return nil
}

// report keeps going on warnings and fails on anything else.
func (s *session) report(err error) error {
	if err == nil {
		return nil
	}
	var e *icommon.Error
	if errors.As(err, &e) && e.Sev != xinfo.ErrSevError {
		fmt.Fprintf(s.out, "Warning: %v\n", err)
		return nil
	}
	return err
}
