package aggregates

import (
	"context"
	"encoding/json"
	"time"

	"commitbot/internal/models"

	"github.com/rs/zerolog"
)

// Cache holds serialized aggregates in front of the store.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

func cacheKey(key Key) string {
	return "commitbot:aggregate:" + key.RepoFullName + ":" + key.Username
}

// Reader serves aggregates, reading single ones through the cache.
type Reader struct {
	store Store
	cache Cache
	ttl   time.Duration
	log   zerolog.Logger
}

// NewReader builds a Reader. cache may be nil.
func NewReader(store Store, cache Cache, ttl time.Duration, log zerolog.Logger) *Reader {
	return &Reader{
		store: store,
		cache: cache,
		ttl:   ttl,
		log:   log.With().Str("component", "aggregates.reader").Logger(),
	}
}

// Get returns the aggregate for key, or ErrNotFound. Cache failures fall
// back to the store.
func (r *Reader) Get(ctx context.Context, key Key) (*models.PushAggregate, error) {
	if agg, ok := r.cached(ctx, key); ok {
		return agg, nil
	}

	agg, err := r.store.FindOne(ctx, key)
	if err != nil {
		return nil, err
	}

	r.remember(ctx, key, agg)
	return agg, nil
}

// ListByRepo returns every aggregate of a repository ordered by username.
func (r *Reader) ListByRepo(ctx context.Context, repoFullName string) ([]models.PushAggregate, error) {
	return r.store.FindByRepo(ctx, repoFullName)
}

func (r *Reader) cached(ctx context.Context, key Key) (*models.PushAggregate, bool) {
	if r.cache == nil {
		return nil, false
	}

	data, ok, err := r.cache.Get(ctx, cacheKey(key))
	if err != nil {
		r.log.Warn().Err(err).Str("key", key.String()).Msg("cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var agg models.PushAggregate
	if err := json.Unmarshal(data, &agg); err != nil {
		r.log.Warn().Err(err).Str("key", key.String()).Msg("dropping undecodable cache entry")
		return nil, false
	}
	return &agg, true
}

func (r *Reader) remember(ctx context.Context, key Key, agg *models.PushAggregate) {
	if r.cache == nil {
		return
	}

	data, err := json.Marshal(agg)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(key), data, r.ttl); err != nil {
		r.log.Warn().Err(err).Str("key", key.String()).Msg("cache write failed")
	}
}
