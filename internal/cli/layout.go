package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/ntgraph/pkg/graph"
	"github.com/matzehuels/ntgraph/pkg/pipeline"
)

// layoutFlags holds the flags of the layout command. Zero values for the
// numeric flags keep the configured defaults.
type layoutFlags struct {
	output     string
	noCache    bool
	refresh    bool
	force      bool
	fallback   bool
	widthScale float64
	nodeSep    float64
	timeout    int
	jobs       int
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [graph.json...]",
		Short: "Compute layouts for nested graph files",
		Long: `Compute layouts for nested graph files.

Each input is written back with a layout on every node, by default to
<input>.layout.json. A graph that already carries a layout is backed up and
re-solved minimally: only the top-level entities are solved, pinned to the
order of the previous layout, so an edited graph keeps its look. Use --force
to solve from scratch instead.

Several files are laid out concurrently (see --jobs). Results are cached.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.output != "" && len(args) > 1 {
				return fmt.Errorf("--output needs a single input, got %d", len(args))
			}
			return c.runLayout(cmd.Context(), args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "ignore layout backups and solve every node")
	cmd.Flags().BoolVar(&flags.fallback, "fallback", true, "retry a failed minimal layout on the full path")
	cmd.Flags().Float64Var(&flags.widthScale, "width-scale", 0, "solver extent to half-extent factor (default from config)")
	cmd.Flags().Float64Var(&flags.nodeSep, "node-sep", 0, "solver node separation (default from config)")
	cmd.Flags().IntVar(&flags.timeout, "timeout", 0, "solver timeout in seconds (default from config)")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", runtime.NumCPU(), "files laid out concurrently")

	return cmd
}

// options merges the flags over the configured defaults.
func (f layoutFlags) options(defaults pipeline.Options) pipeline.Options {
	opts := defaults
	opts.Force = f.force
	opts.Fallback = f.fallback
	opts.Refresh = f.refresh
	if f.widthScale > 0 {
		opts.WidthScale = f.widthScale
	}
	if f.nodeSep > 0 {
		opts.NodeSep = f.nodeSep
	}
	if f.timeout > 0 {
		opts.SolverTimeout = time.Duration(f.timeout) * time.Second
	}
	return opts
}

// layoutOutcome is the result of laying out one input file.
type layoutOutcome struct {
	input  string
	output string
	result *pipeline.Result
}

// runLayout lays out every input and writes the results.
func (c *CLI) runLayout(ctx context.Context, inputs []string, flags layoutFlags) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts := flags.options(cfg.PipelineOptions())

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	msg := "Computing layout..."
	if len(inputs) > 1 {
		msg = fmt.Sprintf("Computing %d layouts...", len(inputs))
	}
	spinner := newSpinnerWithContext(ctx, msg)
	spinner.Start()

	outcomes := make([]layoutOutcome, len(inputs))
	var completed atomic.Int32
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(flags.jobs, 1))
	for i, input := range inputs {
		eg.Go(func() error {
			output := flags.output
			if output == "" {
				output = defaultOutput(input)
			}
			fileCtx := withLogger(egCtx, c.Logger.With("file", filepath.Base(input)))
			res, err := layoutFile(fileCtx, runner, input, output, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			outcomes[i] = layoutOutcome{input: input, output: output, result: res}
			if len(inputs) > 1 {
				spinner.SetMessage(fmt.Sprintf("%s %d/%d", msg, completed.Add(1), len(inputs)))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, o := range outcomes {
		printLayoutOutcome(o)
	}
	printNewline()
	printNextStep("Check order", appName+" check "+outcomes[0].output)
	return nil
}

// layoutFile runs one pass over the graph stored at input and writes it to
// output.
func layoutFile(ctx context.Context, runner *pipeline.Runner, input, output string, opts pipeline.Options) (*pipeline.Result, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	g, err := graph.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}

	opts.Logger = logger
	res, err := runner.Execute(ctx, g, opts)
	if err != nil {
		return nil, err
	}

	if err := graph.WriteFile(res.Graph, output); err != nil {
		return nil, fmt.Errorf("write output %s: %w", output, err)
	}
	prog.done("Laid out " + input)
	return res, nil
}

func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}

func printLayoutOutcome(o layoutOutcome) {
	res := o.result
	if res.FellBack {
		printWarning("%s: minimal layout failed, fell back to full layout", o.input)
	}
	printSuccess("Layout complete (%s)", res.Mode)
	printFile(o.output)
	printStats(res.Stats, res.CacheHit)
	for _, m := range res.Mismatches {
		printWarning("order changed at %s", m)
	}
	if len(res.Missing) > 0 {
		printWarning("solver placed no position for %d nodes: %s", len(res.Missing), strings.Join(res.Missing, ", "))
	}
}
