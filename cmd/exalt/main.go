// Command exalt lowers type-checked compilation units (serialized as JSON
// by the frontend) into target modules on disk.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/exalt-lang/exalt/internal/cli"
	"github.com/exalt-lang/exalt/internal/diagnostics"
	"github.com/exalt-lang/exalt/internal/lower"
	"github.com/exalt-lang/exalt/internal/manifest"
	"github.com/exalt-lang/exalt/internal/source"
	"github.com/exalt-lang/exalt/internal/target"
	"github.com/exalt-lang/exalt/internal/vfs"
)

func main() {
	var (
		showVersion  = flag.Bool("version", false, "show version information")
		verbose      = flag.Bool("verbose", false, "record informational diagnostics (pattern fallbacks, exit patterns)")
		outDir       = flag.String("out", "", "output directory (overrides the manifest)")
		manifestPath = flag.String("manifest", "", "path to exalt.json")
		watch        = flag.Bool("watch", false, "stay running and re-lower units when their files change")
		runtimeVer   = flag.String("runtime", "", "target runtime version to validate against the manifest constraint")
	)
	flag.Parse()

	if *showVersion {
		cli.PrintVersion("exalt")
		return
	}

	units := flag.Args()
	if len(units) == 0 {
		fmt.Fprintln(os.Stderr, "usage: exalt [flags] <unit.json> [...]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	out := *outDir
	if *manifestPath != "" {
		m, err := manifest.Load(*manifestPath)
		if err != nil {
			fatal(err)
		}
		if out == "" {
			out = m.OutDir
		}
		if *runtimeVer != "" {
			if err := m.CheckRuntime(*runtimeVer); err != nil {
				fatal(err)
			}
		}
	}
	if out == "" {
		out = "."
	}

	if err := lowerAll(units, out, *verbose); err != nil {
		fatal(err)
	}
	if *watch {
		if err := watchLoop(units, out, *verbose); err != nil {
			fatal(err)
		}
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "exalt:", err)
	os.Exit(1)
}

func lowerAll(units []string, outDir string, verbose bool) error {
	for _, path := range units {
		if err := lowerOne(path, outDir, verbose); err != nil {
			return err
		}
	}
	return nil
}

func lowerOne(path, outDir string, verbose bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	unit, err := source.DecodeUnit(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	sink := diagnostics.NewCollector(verbose)
	eng := lower.NewEngine(lower.Options{Verbose: verbose}, sink)
	mod, err := eng.LowerUnit(unit)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	sink.WriteText(os.Stderr, diagnostics.IsTerminal(os.Stderr.Fd()))

	outPath := filepath.Join(outDir, moduleFileName(unit.Module))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, []byte(target.Render(mod)), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exalt: wrote %s\n", outPath)
	return nil
}

// moduleFileName maps a target module name like MyApp.TodoLive to
// my_app.todo_live.ex.
func moduleFileName(module string) string {
	parts := strings.Split(module, ".")
	for i, p := range parts {
		parts[i] = lower.Normalize(p)
	}
	return strings.Join(parts, ".") + ".ex"
}

// watchLoop re-lowers a unit whenever its file changes. Events are
// debounced per path so editors that write twice do not trigger double
// builds.
func watchLoop(units []string, outDir string, verbose bool) error {
	w, err := vfs.NewFSWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	watched := make(map[string]bool, len(units))
	for _, u := range units {
		abs, err := filepath.Abs(u)
		if err != nil {
			return err
		}
		watched[abs] = true
		if err := w.Add(abs); err != nil {
			return err
		}
	}
	fmt.Fprintln(os.Stderr, "exalt: watching for changes")
	debounce := vfs.NewDebouncer(100 * time.Millisecond)
	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if !ev.Relevant() || !watched[ev.Path] {
				continue
			}
			if !debounce.Allow(ev.Path, time.Now()) {
				continue
			}
			if err := lowerOne(ev.Path, outDir, verbose); err != nil {
				fmt.Fprintln(os.Stderr, "exalt:", err)
			}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, "exalt: watch:", err)
		}
	}
}
