package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nloeffler/chaosgame/pkg/chaos"
	apperrors "github.com/nloeffler/chaosgame/pkg/errors"
	"github.com/nloeffler/chaosgame/pkg/observability"
	"github.com/nloeffler/chaosgame/pkg/pipeline"
	"github.com/nloeffler/chaosgame/pkg/sink"
	"github.com/nloeffler/chaosgame/pkg/store"
)

// runOpts holds the command-line flags for the run command.
// Generation flags override the same fields of a preset or config file;
// the rest control where and how the stream is written.
type runOpts struct {
	preset      string // embedded preset name
	configFile  string // TOML config file path
	output      string // output file path (stdout if empty)
	format      string // output format override: "csv" or "ndjson"
	points      int    // points to generate
	batchSize   int    // points per batch
	seed        uint64 // RNG seed
	targets     int    // polygon vertex count
	quality     string // quality tier name
	interactive bool   // prompt for more points after the run
	session     string // named session in the file store
}

// runCommand creates the run command for generating point streams.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate chaos game points and stream them out",
		Long: `Generate chaos game points and stream them out in batches.

Without flags, runs the default configuration (a hexagon with uniform
selection) and writes NDJSON to stdout. A preset or a TOML config file
replaces the defaults; generation flags override either one field-wise.

With --session NAME the run snapshots to the file store after every
batch and a later run with the same name continues the exact sequence.
With --interactive a prompt after the run asks for more points; enter a
number to extend the stream, or n to finish.`,
		Example: `  # Stream the classic Sierpinski triangle to a file
  chaosgame run --preset sierpinski -o triangle.csv

  # The hexagon web, shortened to a quick look
  chaosgame run --preset hexweb -n 50000 --quality low

  # Resumable run: interrupt freely, rerun to continue
  chaosgame run --config examples/web.toml --session web -o web.ndjson`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pOpts, err := buildOptions(cmd, &opts)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), pOpts, &opts)
		},
	}

	registerRunFlags(cmd, &opts)

	return cmd
}

// registerRunFlags binds the run command's flags to opts.
func registerRunFlags(cmd *cobra.Command, opts *runOpts) {
	// Source flags
	cmd.Flags().StringVarP(&opts.preset, "preset", "p", "", "embedded preset name (see 'chaosgame presets')")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "TOML config file")

	// Generation flags
	cmd.Flags().IntVarP(&opts.points, "points", "n", 0, "points to generate")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 0, "points per batch")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed")
	cmd.Flags().IntVar(&opts.targets, "targets", 0, "polygon vertex count")
	cmd.Flags().StringVarP(&opts.quality, "quality", "q", "", "quality tier: rough, low, medium, fine")

	// Output flags
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: ndjson (default), csv")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "prompt for more points after the run")
	cmd.Flags().StringVarP(&opts.session, "session", "s", "", "named session in the file store; resumes if present")
}

// buildOptions resolves the run configuration: preset or config file first,
// then generation flags override whatever fields the user set explicitly.
func buildOptions(cmd *cobra.Command, opts *runOpts) (pipeline.Options, error) {
	if opts.preset != "" && opts.configFile != "" {
		return pipeline.Options{}, fmt.Errorf("--preset and --config are mutually exclusive")
	}

	var (
		pOpts pipeline.Options
		err   error
	)
	switch {
	case opts.preset != "":
		pOpts, err = pipeline.LoadPreset(opts.preset)
	case opts.configFile != "":
		pOpts, err = pipeline.LoadFile(opts.configFile)
	}
	if err != nil {
		return pipeline.Options{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("points") {
		pOpts.Points = opts.points
	}
	if flags.Changed("batch-size") {
		pOpts.BatchSize = opts.batchSize
	}
	if flags.Changed("seed") {
		pOpts.Seed = opts.seed
	}
	if flags.Changed("targets") {
		pOpts.NumTargets = opts.targets
	}
	if flags.Changed("quality") {
		pOpts.Quality = opts.quality
	}

	return pOpts, nil
}

// runGenerate drives the full run: resolve the sink, build or resume the
// session, stream the batches, and loop on the interactive prompt.
func (c *CLI) runGenerate(ctx context.Context, pOpts pipeline.Options, opts *runOpts) error {
	if err := pOpts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	format, err := resolveFormat(opts.format, opts.output)
	if err != nil {
		return err
	}
	out, err := openOutput(opts.output)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer out.Close()

	snk, err := sink.New(format, out)
	if err != nil {
		return err
	}

	cfg := pOpts.GeneratorConfig()
	for _, warn := range cfg.Warnings() {
		c.Logger.Warn("configuration hazard", "detail", warn)
	}

	var (
		sess       *chaos.Session
		checkpoint func(*chaos.Session) error
		resumed    bool
	)
	if opts.session != "" {
		st, serr := store.NewFileStore("")
		if serr != nil {
			return fmt.Errorf("open session store: %w", serr)
		}
		defer st.Close()
		sess, checkpoint, resumed, err = c.resumeOrCreate(ctx, st, opts.session, pOpts)
	} else {
		sess, err = chaos.NewSession(cfg)
	}
	if err != nil {
		return err
	}

	// The spinner and the runner's per-run info lines share stderr; keep
	// the runner at warnings while a spinner owns the line.
	showSpinner := (opts.output != "" || opts.interactive) && c.Logger.GetLevel() >= log.InfoLevel
	runner := c.newRunner()
	if showSpinner {
		runner = pipeline.NewRunner(newLogger(os.Stderr, log.WarnLevel))
	}

	generate := func(n int) (*pipeline.Result, error) {
		var sp *Spinner
		if showSpinner {
			sp = newSpinnerWithContext(ctx, fmt.Sprintf("Generating %d points...", n))
			observability.SetGenerationHooks(&spinnerHooks{spinner: sp})
			sp.Start()
		}

		var (
			res *pipeline.Result
			err error
		)
		if checkpoint != nil {
			res, err = runner.RunCheckpointed(ctx, pOpts.Source(), sess, n, pOpts.BatchSize, snk, checkpoint)
		} else {
			res, err = runner.RunSession(ctx, pOpts.Source(), sess, n, pOpts.BatchSize, snk)
		}

		if sp != nil {
			observability.SetGenerationHooks(observability.NoopGenerationHooks{})
			if err != nil {
				sp.StopWithError("Generation failed")
			} else {
				sp.Stop()
			}
		}
		return res, err
	}

	result, err := generate(pOpts.Points)
	if err != nil {
		return fmt.Errorf("generate points: %w", err)
	}
	total, batches := result.Points, result.Stats.Batches

	for opts.interactive {
		count, quit, err := promptForCount(total)
		if err != nil {
			return err
		}
		if quit {
			break
		}
		res, err := generate(count)
		if err != nil {
			return fmt.Errorf("generate points: %w", err)
		}
		total += res.Points
		batches += res.Stats.Batches
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	// Stdout runs carry the data stream; the summary would corrupt it.
	if opts.output != "" {
		printSuccess("Generated %d points", total)
		printFile(opts.output)
		printRunStats(total, batches, resumed)
		if opts.session != "" {
			printNewline()
			printNextStep("Continue", fmt.Sprintf("%s run --session %s -n <more>", appName, opts.session))
		}
	}

	return nil
}

// resumeOrCreate builds the session behind --session NAME. An existing
// snapshot under the name resumes (its stored configuration wins over
// flags), otherwise a fresh session starts, and either way the returned
// checkpoint persists a snapshot after every batch.
func (c *CLI) resumeOrCreate(ctx context.Context, st store.Store, name string, pOpts pipeline.Options) (*chaos.Session, func(*chaos.Session) error, bool, error) {
	if err := apperrors.ValidateSessionID(name); err != nil {
		return nil, nil, false, err
	}

	var (
		sess    *chaos.Session
		resumed bool
		created = time.Now().UTC()
	)
	rec, err := st.Get(ctx, name)
	switch {
	case err == nil:
		sess, err = chaos.Resume(rec.Config, rec.State)
		if err != nil {
			return nil, nil, false, fmt.Errorf("resume session %q: %w", name, err)
		}
		resumed = true
		created = rec.CreatedAt
		c.Logger.Info("resumed session", "session", name, "points", sess.Steps())
	case errors.Is(err, store.ErrNotFound):
		sess, err = chaos.NewSession(pOpts.GeneratorConfig())
		if err != nil {
			return nil, nil, false, err
		}
	default:
		return nil, nil, false, fmt.Errorf("load session %q: %w", name, err)
	}

	checkpoint := func(s *chaos.Session) error {
		snap, err := s.Snapshot()
		if err != nil {
			return fmt.Errorf("snapshot session: %w", err)
		}
		rec := store.NewRecord(name, s.Config(), snap)
		rec.CreatedAt = created
		return st.Put(ctx, rec)
	}

	return sess, checkpoint, resumed, nil
}

// resolveFormat picks the sink encoding: the explicit flag wins, otherwise
// the output extension, otherwise NDJSON.
func resolveFormat(format, output string) (sink.Format, error) {
	if format == "" {
		if ext := strings.TrimPrefix(filepath.Ext(output), "."); sink.ValidFormats[sink.Format(ext)] {
			return sink.Format(ext), nil
		}
		return sink.FormatNDJSON, nil
	}
	f := sink.Format(format)
	if !sink.ValidFormats[f] {
		return "", fmt.Errorf("invalid format: %s (must be 'csv' or 'ndjson')", format)
	}
	return f, nil
}

// spinnerHooks feeds batch completions into the spinner message, so long
// runs show a live point count instead of a frozen label.
type spinnerHooks struct {
	observability.NoopGenerationHooks
	spinner *Spinner

	mu     sync.Mutex
	points int
}

func (h *spinnerHooks) OnBatchComplete(_ context.Context, _, size int, _ time.Duration, err error) {
	if err != nil {
		return
	}
	h.mu.Lock()
	h.points += size
	n := h.points
	h.mu.Unlock()
	h.spinner.SetMessage(fmt.Sprintf("Generating... %d points", n))
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
