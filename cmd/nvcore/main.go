// Command nvcore is a thin demonstration driver over this module's
// elaborate/run pipeline. The full CLI surface (argument parsing,
// --install vendor library fetch, waveform sink selection by file
// extension) is out of scope for this module (spec §1); this binary
// only exercises config.Session, library.Set, elab.Builder, kernel, and
// shell end to end, the way the teacher's samples/*/main.go programs
// exercise config.DeviceBuilder/api.Driver end to end rather than
// implementing a general-purpose CLI.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tebeka/atexit"
	"gopkg.in/yaml.v3"

	"github.com/nvc-project/nvc-core/config"
	"github.com/nvc-project/nvc-core/elab"
	"github.com/nvc-project/nvc-core/kernel"
	"github.com/nvc-project/nvc-core/library"
	"github.com/nvc-project/nvc-core/objstore"
	"github.com/nvc-project/nvc-core/shell"
)

// stimulusScript is the YAML "stimulus script" format the domain-stack
// wiring names: a flat list of shell commands to run in order, the
// developer-facing analogue of the teacher's core.LoadProgramFileFromYAML
// structured program file.
type stimulusScript struct {
	Commands []string `yaml:"commands"`
}

func main() {
	var (
		stdFlag    = flag.String("std", "2008", "VHDL language revision (1993|2002|2008|2019)")
		searchPath = flag.String("L", ".", "library search path")
		top        = flag.String("top", "", "top unit as LIBRARY.UNIT")
		stimFile   = flag.String("stimulus", "", "path to a YAML stimulus script")
		noColor    = flag.Bool("no-color", os.Getenv("NO_COLOR") != "", "disable colored output")
	)
	flag.Parse()

	std, err := config.ParseStd(*stdFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	lib, unit, err := splitTop(*top)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	session := config.NewBuilder().
		WithStd(std).
		WithSearchPath(*searchPath).
		WithNoColor(*noColor).
		WithTop(lib, unit).
		Build()

	slog.Debug("session configured", "std", session.Std, "searchPath", session.SearchPath, "top", lib+"."+unit)

	store := objstore.NewStore()
	libs := library.NewSet(store, session.SearchPath)

	design, err := elab.NewBuilder().
		WithSearchPath(session.SearchPath).
		WithStd(session.Std.String()).
		WithTop(session.TopLibrary, session.TopUnit).
		Build(store, libs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "elaborate:", err)
		os.Exit(1)
	}

	atexit.Register(func() {
		store.GC(nil)
	})

	sh := shell.New(design, shell.OutputHandlers{
		Stdout: func(text string) { fmt.Fprintln(os.Stdout, text) },
		Stderr: func(text string) { fmt.Fprintln(os.Stderr, text) },
		SignalUpdate: func(sig *kernel.Signal) {
			slog.Debug("signal update", "signal", sig.Name, "scope", sig.Scope)
		},
	})

	if *stimFile != "" {
		if err := runStimulus(sh, *stimFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			atexit.Exit(2)
		}
	}

	if !sh.Diags.OK() {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func runStimulus(sh *shell.Shell, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading stimulus script: %w", err)
	}
	var script stimulusScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return fmt.Errorf("parsing stimulus script: %w", err)
	}
	for _, line := range script.Commands {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := sh.Dispatch(fields[0], fields[1:]); err != nil {
			if err == shell.ErrQuit {
				return nil
			}
			return err
		}
	}
	return nil
}

func splitTop(top string) (lib, unit string, err error) {
	if top == "" {
		return "WORK", "", fmt.Errorf("-top is required")
	}
	parts := strings.SplitN(top, ".", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("-top must be LIBRARY.UNIT, got %q", top)
	}
	return parts[0], parts[1], nil
}
