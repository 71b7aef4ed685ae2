package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nloeffler/chaosgame/pkg/chaos"
	"github.com/nloeffler/chaosgame/pkg/observability"
	"github.com/nloeffler/chaosgame/pkg/sink"
)

// Runner executes generation runs: it drives a session batch by batch on a
// producer goroutine and streams each batch into a sink.
//
// The Runner is stateless except for the logger - it doesn't store run
// results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, the default logger is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Result contains the outputs of a run.
type Result struct {
	// Session is the driven session, positioned after the final batch.
	// Callers snapshot it to persist the run.
	Session *chaos.Session

	// Points is the number of points produced and written.
	Points int

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains run execution statistics.
type Stats struct {
	Batches      int
	GenerateTime time.Duration
	WriteTime    time.Duration
}

// Run builds a session from the options and streams opts.Points points
// into snk. Configuration hazards (such as non-contracting transforms) are
// logged as warnings; they do not stop the run.
func (r *Runner) Run(ctx context.Context, opts Options, snk sink.Sink) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	cfg := opts.GeneratorConfig()
	for _, warn := range cfg.Warnings() {
		r.Logger.Warn("configuration hazard", "detail", warn)
	}

	sess, err := chaos.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("build session: %w", err)
	}

	return r.RunSession(ctx, opts.Source(), sess, opts.Points, opts.BatchSize, snk)
}

// RunSession streams points freshly generated points from sess into snk in
// batches of batchSize. The session may be new or resumed; generation
// continues from wherever it stands. Cancellation is honored between
// batches, and the sink is flushed before returning even on a partial run.
func (r *Runner) RunSession(ctx context.Context, source string, sess *chaos.Session, points, batchSize int, snk sink.Sink) (*Result, error) {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	start := time.Now()
	observability.Generation().OnRunStart(ctx, source, points)
	r.Logger.Info("starting run", "source", source, "points", points, "batch_size", batchSize)

	result := &Result{Session: sess}
	runErr := r.stream(ctx, sess, points, batchSize, snk, result)

	if err := snk.Flush(); err != nil && runErr == nil {
		runErr = fmt.Errorf("flush sink: %w", err)
	}

	duration := time.Since(start)
	observability.Generation().OnRunComplete(ctx, result.Points, duration, runErr)
	if runErr != nil {
		return result, runErr
	}

	r.Logger.Info("run complete",
		"points", result.Points,
		"batches", result.Stats.Batches,
		"duration", duration)
	return result, nil
}

// RunCheckpointed streams like RunSession but calls checkpoint after every
// written batch, so an interrupted run can resume from the last batch
// boundary. Generation and writing do not overlap here: the checkpoint
// must observe a quiescent session, so batches run strictly in sequence.
func (r *Runner) RunCheckpointed(ctx context.Context, source string, sess *chaos.Session, points, batchSize int, snk sink.Sink, checkpoint func(*chaos.Session) error) (*Result, error) {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	start := time.Now()
	observability.Generation().OnRunStart(ctx, source, points)
	r.Logger.Info("starting checkpointed run", "source", source, "points", points, "batch_size", batchSize)

	result := &Result{Session: sess}
	runErr := r.sequential(ctx, sess, points, batchSize, snk, checkpoint, result)

	if err := snk.Flush(); err != nil && runErr == nil {
		runErr = fmt.Errorf("flush sink: %w", err)
	}

	duration := time.Since(start)
	observability.Generation().OnRunComplete(ctx, result.Points, duration, runErr)
	if runErr != nil {
		return result, runErr
	}

	r.Logger.Info("run complete",
		"points", result.Points,
		"batches", result.Stats.Batches,
		"duration", duration)
	return result, nil
}

// sequential is the non-overlapping core behind RunCheckpointed.
func (r *Runner) sequential(ctx context.Context, sess *chaos.Session, points, batchSize int, snk sink.Sink, checkpoint func(*chaos.Session) error, result *Result) error {
	for remaining := points; remaining > 0; {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := min(batchSize, remaining)
		genStart := time.Now()
		batch, genErr := sess.Generate(n)
		result.Stats.GenerateTime += time.Since(genStart)

		if batch.Len() > 0 {
			writeStart := time.Now()
			err := snk.Write(batch)
			elapsed := time.Since(writeStart)

			result.Stats.Batches++
			result.Stats.WriteTime += elapsed
			observability.Generation().OnBatchComplete(ctx, result.Stats.Batches, batch.Len(), elapsed, err)

			if err != nil {
				return fmt.Errorf("write batch: %w", err)
			}
			result.Points += batch.Len()

			if err := checkpoint(sess); err != nil {
				return fmt.Errorf("checkpoint: %w", err)
			}
		}
		if genErr != nil {
			return fmt.Errorf("generate batch: %w", genErr)
		}
		remaining -= batch.Len()
	}
	return nil
}

// stream is the producer/consumer core. The producer goroutine generates
// batches into a small buffered channel; the caller's goroutine encodes
// them into the sink. A sink failure cancels the producer, and the channel
// is always drained so the producer never leaks.
func (r *Runner) stream(ctx context.Context, sess *chaos.Session, points, batchSize int, snk sink.Sink, result *Result) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	batches := make(chan chaos.Batch, 2)
	errc := make(chan error, 1)

	go func() {
		// LIFO: the stat lands before close(batches) publishes it.
		var genTime time.Duration
		defer close(batches)
		defer func() { result.Stats.GenerateTime = genTime }()

		for remaining := points; remaining > 0; {
			if err := ctx.Err(); err != nil {
				errc <- err
				return
			}

			n := min(batchSize, remaining)
			genStart := time.Now()
			batch, err := sess.Generate(n)
			genTime += time.Since(genStart)
			if batch.Len() > 0 {
				select {
				case batches <- batch:
				case <-ctx.Done():
					errc <- ctx.Err()
					return
				}
			}
			if err != nil {
				errc <- fmt.Errorf("generate batch: %w", err)
				return
			}
			remaining -= batch.Len()
		}
		errc <- nil
	}()

	var writeErr error
	for batch := range batches {
		if writeErr != nil {
			continue // drain
		}

		writeStart := time.Now()
		err := snk.Write(batch)
		elapsed := time.Since(writeStart)

		result.Stats.Batches++
		result.Stats.WriteTime += elapsed
		observability.Generation().OnBatchComplete(ctx, result.Stats.Batches, batch.Len(), elapsed, err)

		if err != nil {
			writeErr = fmt.Errorf("write batch: %w", err)
			cancel()
			continue
		}
		result.Points += batch.Len()
		r.Logger.Debug("batch written", "batch", result.Stats.Batches, "size", batch.Len())
	}

	genErr := <-errc
	if writeErr != nil {
		return writeErr
	}
	return genErr
}
