package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Makepad-fr/localtodo/internal/app"
	"github.com/Makepad-fr/localtodo/internal/cli"
	"github.com/Makepad-fr/localtodo/internal/config"
	"github.com/Makepad-fr/localtodo/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Root flags (apply to every subcommand)
	groupPending := flag.Bool("group", false, "group output by pending/done")
	configFile := flag.String("config", "", "TOML config file")
	backend := flag.String("backend", "", "storage backend: file, sqlite or memory")
	dataDir := flag.String("data-dir", "", "directory holding local storage")
	theme := flag.String("theme", "", "classic, neon or mono")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Usage = func() { cli.PrintHelp(os.Stderr) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		return 2
	}

	cfg, err := config.Loader{File: *configFile}.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}
	// Flags override everything else, but only when given.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = *backend
		case "data-dir":
			cfg.DataDir = *dataDir
		case "theme":
			cfg.Theme = *theme
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 2
	}

	th, err := ui.ThemeByName(cfg.Theme)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 2
	}
	mode := ui.ColorAuto
	if *noColor || os.Getenv("NO_COLOR") != "" {
		mode = ui.ColorNever
	}

	a, err := app.New(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup:", err)
		return 1
	}
	code := cli.Run(args, cli.Options{
		Group:   *groupPending,
		App:     a,
		Printer: ui.NewPrinter(os.Stdout, os.Stderr, th, mode),
	})
	if err := a.Close(); err != nil {
		a.Logger.Error("shutdown", "err", err)
		if code == 0 {
			code = 1
		}
	}
	return code
}
