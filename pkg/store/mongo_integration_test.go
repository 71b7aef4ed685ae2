//go:build integration

package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func mongoTestStore(t *testing.T, ctx context.Context) *MongoStore {
	t.Helper()

	uri := os.Getenv("CHAOSGAME_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	st, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "chaosgame_test"})
	if err != nil {
		t.Skipf("mongo unavailable at %s: %v", uri, err)
	}
	return st
}

func TestMongoStore_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st := mongoTestStore(t, ctx)
	defer st.Close()

	id := "integration-" + NewID()
	defer st.Delete(ctx, id)

	if _, err := st.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(%s) error = %v, want ErrNotFound", id, err)
	}

	rec := testRecord(t, id)
	if err := st.Put(ctx, rec); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	// Upsert path: second Put must replace, not duplicate.
	if err := st.Put(ctx, rec); err != nil {
		t.Fatalf("Put() twice error: %v", err)
	}

	got, err := st.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.State.Steps != rec.State.Steps {
		t.Errorf("State.Steps = %d, want %d", got.State.Steps, rec.State.Steps)
	}

	ids, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	count := 0
	for _, v := range ids {
		if v == id {
			count++
		}
	}
	if count != 1 {
		t.Errorf("List() contains %s %d times, want 1", id, count)
	}

	if err := st.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := st.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}
