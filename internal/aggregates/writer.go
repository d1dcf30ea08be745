package aggregates

import (
	"context"
	"errors"
	"time"

	"commitbot/internal/models"

	"github.com/rs/zerolog"
)

// DefaultRedelete is how long after an upsert the cached view is deleted a
// second time. A Reader that read the store before the write and fills the
// cache after the first delete is overwritten by then.
const DefaultRedelete = 500 * time.Millisecond

// Writer merges normalized push records into stored aggregates.
type Writer struct {
	store    Store
	cache    Cache
	redelete time.Duration
	log      zerolog.Logger
}

// NewWriter builds a Writer. cache may be nil.
func NewWriter(store Store, cache Cache, log zerolog.Logger) *Writer {
	return &Writer{
		store:    store,
		cache:    cache,
		redelete: DefaultRedelete,
		log:      log.With().Str("component", "aggregates.writer").Logger(),
	}
}

// Upsert inserts rec as a new aggregate when its (repository, username) pair
// is unseen, or appends its commits and adds its commit count to the existing
// aggregate. A write is issued even when rec carries no commits.
func (w *Writer) Upsert(ctx context.Context, rec models.PushRecord) error {
	key := KeyOf(rec)

	var err error
	if m, ok := w.store.(Merger); ok {
		err = m.Merge(ctx, rec)
	} else {
		err = w.readThenWrite(ctx, key, rec)
	}
	if err != nil {
		return unavailable("upsert", err)
	}

	w.invalidate(ctx, key)

	w.log.Debug().
		Str("repo", key.RepoFullName).
		Str("username", key.Username).
		Int("accepted", rec.NumCommits).
		Msg("aggregate upserted")

	return nil
}

// readThenWrite is the two-step upsert used for stores without Merger.
// Overlapping deliveries for the same key can lose an update here.
func (w *Writer) readThenWrite(ctx context.Context, key Key, rec models.PushRecord) error {
	existing, err := w.store.FindOne(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return w.store.InsertOne(ctx, rec.Aggregate())
	}
	if err != nil {
		return err
	}

	commits := make([]models.CommitEntry, 0, len(existing.Commits)+len(rec.Commits))
	commits = append(commits, existing.Commits...)
	commits = append(commits, rec.Commits...)

	return w.store.UpdateFields(ctx, key, existing.NumCommits+rec.NumCommits, commits)
}

// invalidate drops the cached view of key now and again after w.redelete.
func (w *Writer) invalidate(ctx context.Context, key Key) {
	if w.cache == nil {
		return
	}

	w.drop(ctx, key)

	if w.redelete <= 0 {
		return
	}
	time.AfterFunc(w.redelete, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		w.drop(ctx, key)
	})
}

func (w *Writer) drop(ctx context.Context, key Key) {
	if err := w.cache.Del(ctx, cacheKey(key)); err != nil {
		w.log.Warn().Err(err).Str("key", key.String()).Msg("failed to invalidate cached aggregate")
	}
}
