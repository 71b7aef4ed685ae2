package server

import (
	"context"
	"sync"
	"testing"

	"github.com/nloeffler/chaosgame/pkg/pipeline"
	"github.com/nloeffler/chaosgame/pkg/store"
)

// Concurrent generate calls for one session must serialize, not corrupt
// the sequence or drop points.
func TestRegistryConcurrentGenerate(t *testing.T) {
	r := NewRegistry(store.NewMemoryStore(), 0)
	si, err := r.Create(context.Background(), pipeline.Options{NumTargets: 3, Seed: 7})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	const workers = 4
	const perWorker = 25

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = r.Generate(context.Background(), si.ID, perWorker)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d: Generate() error: %v", i, err)
		}
	}

	info, err := r.Info(context.Background(), si.ID)
	if err != nil {
		t.Fatalf("Info() error: %v", err)
	}
	if want := workers * perWorker; info.Total != want {
		t.Errorf("Total = %d, want %d", info.Total, want)
	}
}

func TestRegistryBatchCap(t *testing.T) {
	r := NewRegistry(store.NewMemoryStore(), 10)
	si, err := r.Create(context.Background(), pipeline.Options{NumTargets: 3})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if _, _, err := r.Generate(context.Background(), si.ID, 11); err == nil {
		t.Error("Generate() above the cap should return error")
	}
	if _, _, err := r.Generate(context.Background(), si.ID, 10); err != nil {
		t.Errorf("Generate() at the cap error: %v", err)
	}
}

func TestRegistryDeletedSessionStaysGone(t *testing.T) {
	st := store.NewMemoryStore()
	r := NewRegistry(st, 0)
	si, err := r.Create(context.Background(), pipeline.Options{NumTargets: 3})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := r.Delete(context.Background(), si.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	// Neither the live map nor the store may resurrect it.
	if _, err := r.Info(context.Background(), si.ID); err == nil {
		t.Error("Info() after delete should return error")
	}
	if _, _, err := r.Generate(context.Background(), si.ID, 5); err == nil {
		t.Error("Generate() after delete should return error")
	}
}
