package pipeline

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/nloeffler/chaosgame/pkg/chaos"
	"github.com/nloeffler/chaosgame/pkg/sink"
)

func newTestRunner() *Runner {
	return NewRunner(log.NewWithOptions(io.Discard, log.Options{}))
}

func TestRunnerRun(t *testing.T) {
	opts := Options{NumTargets: 3, Seed: 7, Points: 1000, BatchSize: 128}
	snk := sink.NewMemorySink()

	result, err := newTestRunner().Run(context.Background(), opts, snk)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if result.Points != 1000 {
		t.Errorf("Points = %d, want 1000", result.Points)
	}
	if snk.Len() != 1000 {
		t.Errorf("sink holds %d points, want 1000", snk.Len())
	}
	if want := 8; result.Stats.Batches != want {
		t.Errorf("Batches = %d, want %d", result.Stats.Batches, want)
	}
	if got := result.Session.Steps(); got != 1000 {
		t.Errorf("Session.Steps() = %d, want 1000", got)
	}
}

func TestRunnerMatchesDirectGeneration(t *testing.T) {
	opts := Options{NumTargets: 4, Seed: 99, Points: 500, BatchSize: 64}
	snk := sink.NewMemorySink()
	if _, err := newTestRunner().Run(context.Background(), opts, snk); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	cfg := chaos.Config{NumTargets: 4, Seed: 99}
	cfg.SetDefaults()
	sess, err := chaos.NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}
	want, err := sess.Generate(500)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	points := snk.Points()
	if len(points) != want.Len() {
		t.Fatalf("sink holds %d points, want %d", len(points), want.Len())
	}
	for i := range points {
		if points[i] != want.Points[i] {
			t.Fatalf("point %d = %v, want %v", i, points[i], want.Points[i])
		}
	}
}

func TestRunnerInvalidOptions(t *testing.T) {
	opts := Options{NumTargets: 2}
	if _, err := newTestRunner().Run(context.Background(), opts, sink.NewMemorySink()); err == nil {
		t.Error("Run() with 2 targets should return error")
	}
}

func TestRunnerCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := Options{NumTargets: 3, Points: 10000}
	_, err := newTestRunner().Run(ctx, opts, sink.NewMemorySink())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

// failingSink accepts writes until failOn, then rejects every write.
type failingSink struct {
	writes int
	failOn int
}

func (s *failingSink) Write(chaos.Batch) error {
	s.writes++
	if s.writes >= s.failOn {
		return errors.New("disk full")
	}
	return nil
}

func (s *failingSink) Flush() error { return nil }

func TestRunnerSinkWriteError(t *testing.T) {
	opts := Options{NumTargets: 3, Points: 1000, BatchSize: 100}
	snk := &failingSink{failOn: 2}

	result, err := newTestRunner().Run(context.Background(), opts, snk)
	if err == nil {
		t.Fatal("Run() with failing sink should return error")
	}
	if result.Points != 100 {
		t.Errorf("Points = %d, want 100 (one successful batch)", result.Points)
	}
}

func TestRunSessionContinuesResumedSession(t *testing.T) {
	r := newTestRunner()

	opts := Options{NumTargets: 3, Seed: 11, Points: 400, BatchSize: 128}
	first := sink.NewMemorySink()
	result, err := r.Run(context.Background(), opts, first)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	st, err := result.Session.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	resumed, err := chaos.Resume(opts.GeneratorConfig(), st)
	if err != nil {
		t.Fatalf("Resume() error: %v", err)
	}

	second := sink.NewMemorySink()
	if _, err := r.RunSession(context.Background(), "resume", resumed, 600, 128, second); err != nil {
		t.Fatalf("RunSession() error: %v", err)
	}

	whole := Options{NumTargets: 3, Seed: 11, Points: 1000, BatchSize: 250}
	full := sink.NewMemorySink()
	if _, err := r.Run(context.Background(), whole, full); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	combined := append(append([]chaos.Point(nil), first.Points()...), second.Points()...)
	if len(combined) != full.Len() {
		t.Fatalf("combined runs hold %d points, want %d", len(combined), full.Len())
	}
	for i := range combined {
		if combined[i] != full.Points()[i] {
			t.Fatalf("point %d = %v, want %v", i, combined[i], full.Points()[i])
		}
	}
}

func TestRunSessionDefaultBatchSize(t *testing.T) {
	cfg := chaos.Config{NumTargets: 3}
	cfg.SetDefaults()
	sess, err := chaos.NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}

	result, err := newTestRunner().RunSession(context.Background(), "custom", sess, 100, 0, sink.NewMemorySink())
	if err != nil {
		t.Fatalf("RunSession() error: %v", err)
	}
	if result.Stats.Batches != 1 {
		t.Errorf("Batches = %d, want 1", result.Stats.Batches)
	}
	if result.Points != 100 {
		t.Errorf("Points = %d, want 100", result.Points)
	}
}
