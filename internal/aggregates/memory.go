package aggregates

import (
	"context"
	"slices"
	"sort"
	"sync"

	"commitbot/internal/models"
)

// MemoryStore is an in-process Store for local runs and tests.
type MemoryStore struct {
	mu   sync.Mutex
	aggs map[Key]models.PushAggregate
}

var (
	_ Store  = (*MemoryStore)(nil)
	_ Merger = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{aggs: make(map[Key]models.PushAggregate)}
}

func cloneAggregate(agg models.PushAggregate) models.PushAggregate {
	agg.Commits = slices.Clone(agg.Commits)
	if agg.Commits == nil {
		agg.Commits = []models.CommitEntry{}
	}
	return agg
}

func (s *MemoryStore) FindOne(_ context.Context, key Key) (*models.PushAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	agg, ok := s.aggs[key]
	if !ok {
		return nil, ErrNotFound
	}

	out := cloneAggregate(agg)
	return &out, nil
}

func (s *MemoryStore) InsertOne(_ context.Context, agg models.PushAggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key{RepoFullName: agg.RepoFullName, Username: agg.Username}
	if _, exists := s.aggs[key]; exists {
		return unavailable("insert", errDuplicateKey)
	}

	s.aggs[key] = cloneAggregate(agg)
	return nil
}

func (s *MemoryStore) UpdateFields(_ context.Context, key Key, numCommits int, commits []models.CommitEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	agg, ok := s.aggs[key]
	if !ok {
		return nil
	}

	agg.NumCommits = numCommits
	agg.Commits = slices.Clone(commits)
	s.aggs[key] = cloneAggregate(agg)
	return nil
}

func (s *MemoryStore) FindByRepo(_ context.Context, repoFullName string) ([]models.PushAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.PushAggregate{}
	for key, agg := range s.aggs {
		if key.RepoFullName == repoFullName {
			out = append(out, cloneAggregate(agg))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *MemoryStore) Merge(_ context.Context, rec models.PushRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := KeyOf(rec)
	agg, ok := s.aggs[key]
	if !ok {
		s.aggs[key] = cloneAggregate(rec.Aggregate())
		return nil
	}

	agg.NumCommits += rec.NumCommits
	agg.Commits = append(slices.Clone(agg.Commits), rec.Commits...)
	s.aggs[key] = agg
	return nil
}

// Len reports how many aggregates are stored.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.aggs)
}
