package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/raymyers/isacc/pkg/config"
	"github.com/raymyers/isacc/pkg/isa"
	"github.com/raymyers/isacc/pkg/report"
)

var version = "0.1.0"

// errCompileFailed reports that at least one (ISA, file) pair did not
// compile. The individual errors have already been logged.
var errCompileFailed = errors.New("compilation failed")

// exprName is the file name shown for --expr input.
const exprName = "<expr>"

type options struct {
	isas       isaList
	expr       string
	outDir     string
	summary    bool
	configPath string
	debug      bool
	progress   bool
}

// isaList is a repeatable, comma separated --isa flag.
type isaList []isa.ID

var _ pflag.Value = (*isaList)(nil)

func (l *isaList) String() string {
	names := make([]string, len(*l))
	for i, id := range *l {
		names[i] = id.String()
	}
	return strings.Join(names, ",")
}

func (l *isaList) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "all" {
			*l = append(*l, isa.All()...)
			continue
		}
		id, err := isa.Parse(part)
		if err != nil {
			return err
		}
		*l = append(*l, id)
	}
	return nil
}

func (l *isaList) Type() string { return "isa" }

// ids returns the selected ISAs without duplicates, or all of them.
func (l isaList) ids() []isa.ID {
	if len(l) == 0 {
		return isa.All()
	}
	seen := make(map[isa.ID]bool)
	var ids []isa.ID
	for _, id := range l {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errCompileFailed) {
			fmt.Fprintf(os.Stderr, "isacc: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "isacc [file...]",
		Short: "isacc compiles a small C subset for five instruction-set styles",
		Long: `isacc translates a small subset of C (assignments, arithmetic,
arrays, if/else, while, switch, goto and simple functions) into
textual assembly for 4-address, 3-address, accumulator, stack and
load/store machines, and reports instruction count, code size and
memory accesses for each.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.expr == "" {
				cmd.Help()
				return nil
			}
			return compileAll(cmd.Context(), opts, args, out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().Var(&opts.isas, "isa", "Target ISA: mm4, mm3, acc, stack, ls or all (repeatable, comma separated; default all)")
	rootCmd.Flags().StringVarP(&opts.expr, "expr", "e", "", "Compile source given on the command line")
	rootCmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "Write <file>.<isa>.s listings into this directory instead of stdout")
	rootCmd.Flags().BoolVar(&opts.summary, "summary", false, "Print a metrics table after the listings")
	rootCmd.Flags().StringVar(&opts.configPath, "config", "", "Config file (default ./"+config.Filename+" if present)")
	rootCmd.Flags().BoolVar(&opts.debug, "debug", false, "Trace every lowered statement")
	rootCmd.Flags().BoolVar(&opts.progress, "progress", false, "Show a progress bar on stderr")

	return rootCmd
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.LoadOptional(config.Filename)
	}
	return config.Load(path)
}

func readSources(files []string, expr string) ([]report.Source, error) {
	var sources []report.Source
	if expr != "" {
		sources = append(sources, report.Source{Name: exprName, Text: expr})
	}
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", f, err)
		}
		sources = append(sources, report.Source{Name: f, Text: string(data)})
	}
	return sources, nil
}

func compileAll(ctx context.Context, opts *options, files []string, out, errOut io.Writer) error {
	logger := newLogger(errOut, opts.debug)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	sources, err := readSources(files, opts.expr)
	if err != nil {
		return err
	}
	if opts.outDir != "" {
		if err := checkOutputNames(sources); err != nil {
			return err
		}
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return err
		}
	}

	runner := &report.Runner{Config: cfg, Logger: logger}
	if opts.progress {
		runner.Progress = errOut
	}
	results := runner.Run(ctx, report.Jobs(opts.isas.ids(), sources))

	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if opts.outDir != "" {
			path := outputFilename(opts.outDir, r.Source.Name, r.ISA)
			if err := os.WriteFile(path, []byte(r.Output), 0o644); err != nil {
				return fmt.Errorf("error writing %s: %w", path, err)
			}
			logger.Debug("wrote listing", "path", path)
			continue
		}
		fmt.Fprintf(out, "Architecture: %s\nFile: %s\nCode:\n%s\n", r.ISA.Title(), r.Source.Name, r.Output)
	}

	if opts.summary {
		if err := report.WriteTable(out, results, tableOptions(out)); err != nil {
			return err
		}
	}
	if n := report.Failed(results); n > 0 {
		fmt.Fprintf(errOut, "isacc: %d of %d compilations failed\n", n, len(results))
		return errCompileFailed
	}
	return nil
}

// tableOptions sizes and styles the summary for a terminal.
func tableOptions(out io.Writer) report.TableOptions {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return report.TableOptions{}
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		width = 0
	}
	return report.TableOptions{Width: width, Bold: true}
}

// outputFilename maps dir, prog.c and an ISA to dir/prog.<isa>.s.
func outputFilename(dir, name string, id isa.ID) string {
	return filepath.Join(dir, outputBase(name)+"."+id.String()+".s")
}

func outputBase(name string) string {
	if name == exprName {
		return "expr"
	}
	return strings.TrimSuffix(filepath.Base(name), ".c")
}

// checkOutputNames rejects sources whose listings would land on the same
// file in the output directory.
func checkOutputNames(sources []report.Source) error {
	owner := make(map[string]string)
	for _, src := range sources {
		base := outputBase(src.Name)
		if prev, ok := owner[base]; ok && prev != src.Name {
			return fmt.Errorf("%s and %s would both be written as %s.<isa>.s", prev, src.Name, base)
		}
		owner[base] = src.Name
	}
	return nil
}
