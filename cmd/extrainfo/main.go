package main

import (
	"flag"
	"fmt"
	"os"

	"secdebug/common"
	"secdebug/internal/config"
	"secdebug/internal/tool"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `usage: extrainfo [flags] COMMAND [ARGS...]

commands:
  boot                    start a new session of the window
  set KEY VALUE...        write KEY in the live region
  clear KEY               empty KEY in the live region
  get KEY                 read KEY from the live region
  shadow KEY              read KEY as the previous session left it
  view NAME               render a view (letter or endpoint name)
  views                   list the views
  dump [live|shadow]      list the records of a region
  crash KIND ARGS...      deliver a fault event (panic, die, lockup, freezer, progress, battery)

flags:
`)
	flag.PrintDefaults()
}

func main() {
	cfgPath := flag.String("config", "", "INI configuration file")
	winPath := flag.String("window", "", "window file, overrides the configuration")
	bootID := flag.String("boot_id", "", "boot identity written by boot")
	pwrsrc := flag.Uint("pwrsrc", 0, "raw power-source bitfield decoded by boot")
	production := flag.Bool("production", false, "log layout and registry faults instead of aborting")
	raw := flag.Bool("raw", false, "dump raw record bytes")
	showEmpty := flag.Bool("show_empty", false, "dump records without a value")
	logDump := flag.Bool("log_dump", false, "copy dump output to the log, shown with -v")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	set := config.Default()
	if *cfgPath != "" {
		var err error
		set, err = config.LoadFile(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Extra Info : Error: %v\n", err)
			os.Exit(1)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "window":
			set.WindowPath = *winPath
		case "boot_id":
			set.BootID = *bootID
		case "pwrsrc":
			set.PowerSource = uint32(*pwrsrc)
		case "production":
			set.Production = *production
		}
	})

	level := common.SeverityWarning
	if *verbose {
		level = common.SeverityDebug
	}

	cfg := tool.Config{
		Settings:     set,
		Command:      flag.Arg(0),
		Args:         flag.Args()[1:],
		Raw:          *raw,
		LogDump:      *logDump,
		ShowEmpty:    *showEmpty,
		OutputWriter: os.Stdout,
		Logger:       common.NewStdLoggerWithWriter(os.Stderr, os.Stderr, level),
	}

	if err := tool.Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
