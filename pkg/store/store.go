// Package store persists chaos game sessions across restarts.
//
// This package defines the Store interface for session persistence, with
// implementations for different backends:
//   - memory: In-memory storage for development/testing
//   - file: File-based storage for CLI workflows
//   - redis: Redis-backed storage for production multi-instance deployments
//   - mongo: MongoDB-backed storage for durable server deployments
//
// # Architecture
//
// A stored record pairs a generator configuration with a point-in-time
// state snapshot. The snapshot carries the serialized generator internals,
// so a resumed session continues the exact sequence the uninterrupted run
// would have produced. The Store interface supports:
//   - Put/Get/Delete operations keyed by session ID
//   - Listing stored session IDs
//   - Closing backend connections
//
// All backends serialize records as JSON, so a session written by one
// backend can be imported into another.
//
// # Usage
//
// Create a store:
//
//	// Development
//	st := store.NewMemoryStore()
//
//	// CLI
//	st, err := store.NewFileStore("") // Uses ~/.config/chaosgame/sessions/
//
//	// Production
//	st, err := store.NewRedisStore(ctx, store.RedisConfig{
//	    Addr: "localhost:6379",
//	})
//
// Persist and resume a session:
//
//	snap, err := sess.Snapshot()
//	if err != nil {
//	    return err
//	}
//	rec := store.NewRecord(store.NewID(), sess.Config(), snap)
//	if err := st.Put(ctx, rec); err != nil {
//	    return err
//	}
//
//	rec, err := st.Get(ctx, rec.ID)
//	if err != nil {
//	    return err
//	}
//	sess, err := chaos.Resume(rec.Config, rec.State)
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nloeffler/chaosgame/pkg/chaos"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a session record does not exist.
	ErrNotFound = errors.New("session not found")
)

// Record is a persisted session: the configuration it was created with and
// the state snapshot it can be resumed from.
type Record struct {
	ID        string       `json:"id"`
	Config    chaos.Config `json:"config"`
	State     chaos.State  `json:"state"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewRecord creates a record with both timestamps set to now.
func NewRecord(id string, cfg chaos.Config, st chaos.State) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:        id,
		Config:    cfg,
		State:     st,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewID creates a unique session ID.
func NewID() string {
	return uuid.NewString()
}

// Store is the interface for session storage backends.
type Store interface {
	// Put persists a record, refreshing its UpdatedAt stamp.
	Put(ctx context.Context, rec *Record) error

	// Get retrieves a record by session ID.
	// Returns ErrNotFound if no record exists under the ID.
	Get(ctx context.Context, id string) (*Record, error)

	// Delete removes a record. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)

	// Close releases backend connections.
	Close() error
}

// Kind selects a storage backend.
type Kind string

// Supported backends.
const (
	KindMemory Kind = "memory"
	KindFile   Kind = "file"
	KindRedis  Kind = "redis"
	KindMongo  Kind = "mongo"
)

// ValidKinds enumerates the supported backend kinds.
var ValidKinds = map[Kind]bool{
	KindMemory: true,
	KindFile:   true,
	KindRedis:  true,
	KindMongo:  true,
}

// Config selects and parameterizes a backend for Open.
type Config struct {
	Kind Kind

	// Dir is the base directory for the file backend.
	// Empty means the default config directory.
	Dir string

	// Redis backend settings.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Mongo backend settings.
	MongoURI      string
	MongoDatabase string
}

// Open creates the backend selected by cfg.Kind. An empty kind opens the
// in-memory backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Kind {
	case KindMemory, "":
		return NewMemoryStore(), nil
	case KindFile:
		return NewFileStore(cfg.Dir)
	case KindRedis:
		return NewRedisStore(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case KindMongo:
		return NewMongoStore(ctx, MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
	}
}
