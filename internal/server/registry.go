package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nloeffler/chaosgame/pkg/chaos"
	apperrors "github.com/nloeffler/chaosgame/pkg/errors"
	"github.com/nloeffler/chaosgame/pkg/pipeline"
	"github.com/nloeffler/chaosgame/pkg/store"
)

// Registry owns the live sessions behind the HTTP surface. Every live
// session is shadowed by a snapshot in the Store: snapshots are written
// through after each generate call, and a request for an id that is not
// live falls back to resuming from the Store. Restarting the server (or
// spreading sessions over several instances sharing one Redis or Mongo
// store) therefore loses nothing.
type Registry struct {
	store    store.Store
	maxBatch int

	mu       sync.Mutex
	sessions map[string]*liveSession
}

// liveSession serializes access to one session. Generation is strictly
// sequential, so concurrent requests for the same id queue on mu rather
// than erroring.
type liveSession struct {
	mu      sync.Mutex
	id      string
	created time.Time
	sess    *chaos.Session
	deleted bool
}

// SessionInfo describes a session to API clients.
type SessionInfo struct {
	ID         string
	NumTargets int
	PointSize  float64
	Seed       uint64
	Vertices   []chaos.Point
	Total      int
}

// NewRegistry creates a registry persisting through st. maxBatch caps the
// points a single generate request may ask for; 0 disables the cap.
func NewRegistry(st store.Store, maxBatch int) *Registry {
	return &Registry{
		store:    st,
		maxBatch: maxBatch,
		sessions: make(map[string]*liveSession),
	}
}

// Create validates the options, builds a fresh session, persists its
// initial snapshot, and registers it under a new id.
func (r *Registry) Create(ctx context.Context, opts pipeline.Options) (*SessionInfo, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "invalid session configuration")
	}

	sess, err := chaos.NewSession(opts.GeneratorConfig())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "invalid session configuration")
	}

	id := store.NewID()
	rec, err := newSnapshot(id, sess)
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, rec); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "persist session %q", id)
	}

	ls := &liveSession{id: id, created: rec.CreatedAt, sess: sess}
	si := info(ls)
	r.mu.Lock()
	r.sessions[id] = ls
	r.mu.Unlock()

	return si, nil
}

// Generate produces count more points for the session, persists the new
// snapshot, and returns the freshly appended suffix plus the lifetime
// total.
func (r *Registry) Generate(ctx context.Context, id string, count int) (chaos.Batch, int, error) {
	if err := apperrors.ValidateBatchSize(count, r.maxBatch); err != nil {
		return chaos.Batch{}, 0, err
	}

	ls, err := r.acquire(ctx, id)
	if err != nil {
		return chaos.Batch{}, 0, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.deleted {
		return chaos.Batch{}, 0, notFound(id)
	}

	batch, err := ls.sess.Generate(count)
	if err != nil {
		switch {
		case errors.Is(err, chaos.ErrBatchSize):
			return chaos.Batch{}, 0, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid point count")
		case errors.Is(err, chaos.ErrConfig):
			return chaos.Batch{}, 0, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "generation failed")
		default:
			return chaos.Batch{}, 0, apperrors.Wrap(apperrors.ErrCodeInternal, err, "generation failed")
		}
	}

	rec, err := newSnapshot(id, ls.sess)
	if err != nil {
		return chaos.Batch{}, 0, err
	}
	rec.CreatedAt = ls.created
	if err := r.store.Put(ctx, rec); err != nil {
		return chaos.Batch{}, 0, apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "persist session %q", id)
	}

	return batch, int(ls.sess.Steps()), nil
}

// Info returns the session's metadata and lifetime point total.
func (r *Registry) Info(ctx context.Context, id string) (*SessionInfo, error) {
	ls, err := r.acquire(ctx, id)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.deleted {
		return nil, notFound(id)
	}
	return info(ls), nil
}

// Delete removes the live session and its stored snapshot. Deleting an id
// that is neither live nor stored reports not-found.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	ls, live := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if live {
		ls.mu.Lock()
		ls.deleted = true
		ls.mu.Unlock()
	} else {
		if _, err := r.store.Get(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFound(id)
			}
			return apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "load session %q", id)
		}
	}

	if err := r.store.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "delete session %q", id)
	}
	return nil
}

// acquire returns the live session for id, resuming it from the store
// when the id is known but not live. The registry lock covers the resume
// so two concurrent misses cannot both register a session.
func (r *Registry) acquire(ctx context.Context, id string) (*liveSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ls, ok := r.sessions[id]; ok {
		return ls, nil
	}

	rec, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "load session %q", id)
	}

	sess, err := chaos.Resume(rec.Config, rec.State)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "resume session %q", id)
	}

	ls := &liveSession{id: id, created: rec.CreatedAt, sess: sess}
	r.sessions[id] = ls
	return ls, nil
}

// newSnapshot captures the session into a fresh store record.
func newSnapshot(id string, sess *chaos.Session) (*store.Record, error) {
	st, err := sess.Snapshot()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "snapshot session %q", id)
	}
	return store.NewRecord(id, sess.Config(), st), nil
}

// info reads the session's metadata. Callers hold ls.mu, or have not yet
// published the session.
func info(ls *liveSession) *SessionInfo {
	return &SessionInfo{
		ID:         ls.id,
		NumTargets: ls.sess.Config().NumTargets,
		PointSize:  ls.sess.PointSize(),
		Seed:       ls.sess.Seed(),
		Vertices:   ls.sess.Vertices(),
		Total:      int(ls.sess.Steps()),
	}
}

func notFound(id string) error {
	return apperrors.New(apperrors.ErrCodeSessionNotFound, "session %q not found", id)
}
