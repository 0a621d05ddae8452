// Command brushc compiles brush programs to STL or JSON.
//
//	brushc [-config brushwork.yaml] [-kernel hull|sdfx] [-format stl|json] [-o dir] [-inspect] file.brush...
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/brushwork/pkg/config"
	"github.com/chazu/brushwork/pkg/engine"
	"github.com/chazu/brushwork/pkg/export"
	"github.com/chazu/brushwork/pkg/graph"
	"github.com/chazu/brushwork/pkg/inspect"
	"github.com/chazu/brushwork/pkg/kernel"
	"github.com/chazu/brushwork/pkg/tessellate"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

type brushc struct {
	cfg     config.Config
	kernel  kernel.Kernel
	engine  *engine.Engine
	logger  *slog.Logger
	inspect bool

	stdout io.Writer
	stderr io.Writer
}

func (c *brushc) Main(args []string) error {
	fs := flag.NewFlagSet("brushc", flag.ContinueOnError)
	fs.SetOutput(c.stderr)

	configPath := fs.String("config", config.Filename, "Config file; a missing default file is ignored")
	kernelName := fs.String("kernel", "", "Geometry kernel: hull or sdfx (overrides config)")
	format := fs.String("format", "", "Export format: stl or json (overrides config)")
	outDir := fs.String("o", "", "Output directory (overrides config)")
	cells := fs.Int("cells", 0, "sdfx marching cubes resolution (overrides config)")
	doInspect := fs.Bool("inspect", false, "Print mesh diagnostics for every part")
	verbose := fs.Bool("v", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(c.stderr, "usage: brushc [flags] file.brush...\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("no input files")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	c.logger = slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: level}))

	explicit := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})
	var err error
	if explicit {
		c.cfg, err = config.Load(*configPath)
	} else {
		c.cfg, err = config.LoadOrDefault(*configPath)
	}
	if err != nil {
		return err
	}

	if *kernelName != "" {
		c.cfg.Kernel = *kernelName
	}
	if *format != "" {
		c.cfg.Export.Format = *format
	}
	if *outDir != "" {
		c.cfg.Export.Dir = *outDir
	}
	if *cells > 0 {
		c.cfg.MeshCells = *cells
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	c.kernel, err = c.cfg.NewKernel()
	if err != nil {
		return err
	}
	c.engine = engine.NewEngine()
	c.inspect = *doInspect

	if err := os.MkdirAll(c.cfg.Export.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", c.cfg.Export.Dir, err)
	}

	c.logger.Debug("compiling", "files", fs.NArg(), "kernel", c.cfg.Kernel, "format", c.cfg.Export.Format, "dir", c.cfg.Export.Dir)

	bar := c.progress(fs.NArg())
	var errs []error
	for _, path := range fs.Args() {
		if bar != nil {
			bar.Describe(filepath.Base(path))
		}
		if err := c.compile(path); err != nil {
			c.logger.Error("compile failed", "file", path, "error", err)
			errs = append(errs, err)
		}
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d files failed: %w", len(errs), fs.NArg(), errors.Join(errs...))
	}
	return nil
}

// progress returns a file progress bar when stderr is a terminal.
func (c *brushc) progress(n int) *progressbar.ProgressBar {
	f, ok := c.stderr.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) || n < 2 {
		return nil
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(c.stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// outputPath maps an input file to its export path.
func (c *brushc) outputPath(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(c.cfg.Export.Dir, base+export.Ext(c.cfg.Export.Format))
}

// compile evaluates, validates, tessellates and exports one file.
func (c *brushc) compile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	g, evalErrs, err := c.engine.Evaluate(string(source))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, e := range evalErrs {
			errs[i] = fmt.Errorf("%s:%d: %s", path, e.Line, e.Message)
		}
		return errors.Join(errs...)
	}

	vr := graph.ValidateAllTol(g, c.cfg.Tolerance)
	for _, w := range vr.Warnings {
		c.logger.Warn(w.Message, "file", path, "node", w.NodeID.Short())
	}
	if len(vr.Errors) > 0 {
		errs := make([]error, len(vr.Errors))
		for i, e := range vr.Errors {
			errs[i] = fmt.Errorf("%s: %w", path, e)
		}
		return errors.Join(errs...)
	}

	res, err := tessellate.Tessellate(g, c.kernel)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	out := c.outputPath(path)
	if err := export.WriteFile(out, c.cfg, res); err != nil {
		return err
	}
	c.logger.Info("wrote", "file", path, "output", out, "parts", len(res.Parts))

	if c.inspect {
		for _, r := range inspect.InspectAll(res.Meshes()) {
			fmt.Fprintf(c.stdout, "%s: %s\n", path, r)
		}
	}
	return nil
}

func main() {
	c := &brushc{stdout: os.Stdout, stderr: os.Stderr}
	if err := c.Main(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "brushc: %v\n", err)
		os.Exit(1)
	}
}
