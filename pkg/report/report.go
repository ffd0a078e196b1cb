// Package report runs compilations over every (ISA, source) pair and
// summarizes their metrics.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/schollz/progressbar/v3"

	"github.com/raymyers/isacc/pkg/backend"
	"github.com/raymyers/isacc/pkg/config"
	"github.com/raymyers/isacc/pkg/emit"
	"github.com/raymyers/isacc/pkg/isa"
	"github.com/raymyers/isacc/pkg/lexer"
	"github.com/raymyers/isacc/pkg/lower"
)

// Source is one program to compile.
type Source struct {
	Name string
	Text string
}

// Job is one (ISA, source) pair.
type Job struct {
	ISA    isa.ID
	Source Source
}

// Result is the outcome of a Job. Output is empty when Err is set.
type Result struct {
	Job
	Output string
	Cost   emit.Cost
	Err    error
}

// Jobs builds the ISA-major matrix of ids × sources.
func Jobs(ids []isa.ID, sources []Source) []Job {
	jobs := make([]Job, 0, len(ids)*len(sources))
	for _, id := range ids {
		for _, src := range sources {
			jobs = append(jobs, Job{ISA: id, Source: src})
		}
	}
	return jobs
}

// Runner compiles jobs one after another. A failed job is logged and
// recorded; the remaining jobs still run.
type Runner struct {
	Config config.Config
	Logger *slog.Logger
	// Progress receives a progress bar when non-nil.
	Progress io.Writer
}

// Run executes jobs in order and returns one result per job.
func (r *Runner) Run(ctx context.Context, jobs []Job) []Result {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var bar *progressbar.ProgressBar
	if r.Progress != nil {
		bar = progressbar.NewOptions(len(jobs),
			progressbar.OptionSetWriter(r.Progress),
			progressbar.OptionSetDescription("compiling"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Close()
	}

	compilers := make(map[isa.ID]*lower.Compiler)
	results := make([]Result, 0, len(jobs))
	for _, job := range jobs {
		res := Result{Job: job}
		if err := ctx.Err(); err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}

		c, ok := compilers[job.ISA]
		if !ok {
			opts := append(r.Config.Options(job.ISA), lower.WithLogger(logger))
			c = lower.New(backend.New(job.ISA, r.Config.Layout()), opts...)
			compilers[job.ISA] = c
		}
		if bar != nil {
			bar.Describe(fmt.Sprintf("%s %s", job.ISA, job.Source.Name))
		}

		out, err := c.Compile(job.Source.Text)
		if err != nil {
			logger.Warn("compile failed", "isa", job.ISA.String(), "file", job.Source.Name, "error", err)
			res.Err = err
		} else {
			res.Output = out
			res.Cost = c.Cost()
			logger.Debug("compiled", "isa", job.ISA.String(), "file", job.Source.Name,
				"statements", len(lexer.SegmentStatements(job.Source.Text)),
				"instructions", res.Cost.Instructions, "bits", res.Cost.Bits, "accesses", res.Cost.MemoryAccesses)
		}
		results = append(results, res)

		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}
	return results
}

// Failed counts the results carrying an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

var headers = []string{"ISA", "File", "Instructions", "Bits", "Accesses", "Status"}

// maxFileWidth caps the File column when a line width is given.
const maxFileWidth = 32

// TableOptions controls WriteTable.
type TableOptions struct {
	// Width truncates file names so rows fit; 0 means unlimited.
	Width int
	// Bold renders the header row with SGR bold.
	Bold bool
}

// WriteTable writes one aligned row per result.
func WriteTable(w io.Writer, results []Result, opts TableOptions) error {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = "error"
		}
		row := []string{r.ISA.String(), r.Source.Name, "-", "-", "-", status}
		if r.Err == nil {
			row[2] = strconv.Itoa(r.Cost.Instructions)
			row[3] = strconv.Itoa(r.Cost.Bits)
			row[4] = strconv.Itoa(r.Cost.MemoryAccesses)
		}
		rows = append(rows, row)
	}

	if opts.Width > 0 {
		limit := opts.Width - fixedWidth(rows)
		if limit > maxFileWidth {
			limit = maxFileWidth
		}
		if limit < len(headers[1]) {
			limit = len(headers[1])
		}
		for _, row := range rows {
			row[1] = ansi.Truncate(row[1], limit, "…")
		}
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = ansi.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], ansi.StringWidth(cell))
		}
	}

	head := make([]string, len(headers))
	for i, h := range headers {
		head[i] = pad(h, widths[i], i >= 2 && i <= 4)
		if opts.Bold {
			head[i] = ansi.Style{}.Bold().Styled(head[i])
		}
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(head, "  "), " ")); err != nil {
		return err
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = pad(cell, widths[i], i >= 2 && i <= 4)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return err
		}
	}
	return nil
}

// fixedWidth is the width of every column except File, separators included.
func fixedWidth(rows [][]string) int {
	total := 2 * (len(headers) - 1)
	for i, h := range headers {
		if i == 1 {
			continue
		}
		w := ansi.StringWidth(h)
		for _, row := range rows {
			w = max(w, ansi.StringWidth(row[i]))
		}
		total += w
	}
	return total
}

func pad(s string, width int, right bool) string {
	gap := width - ansi.StringWidth(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}
