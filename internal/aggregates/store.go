// Package aggregates persists per-(repository, user) commit aggregates and
// merges normalized push records into them.
package aggregates

import (
	"context"
	"errors"
	"fmt"

	"commitbot/internal/models"
)

// ErrNotFound is returned by Store.FindOne when no aggregate matches the key.
var ErrNotFound = errors.New("aggregate not found")

// Key identifies one aggregate.
type Key struct {
	RepoFullName string
	Username     string
}

// KeyOf returns the aggregate key a record is merged into.
func KeyOf(rec models.PushRecord) Key {
	return Key{RepoFullName: rec.RepoFullName, Username: rec.Username}
}

func (k Key) String() string {
	return k.RepoFullName + "@" + k.Username
}

// Store is the document collection holding aggregates.
type Store interface {
	FindOne(ctx context.Context, key Key) (*models.PushAggregate, error)
	InsertOne(ctx context.Context, agg models.PushAggregate) error
	UpdateFields(ctx context.Context, key Key, numCommits int, commits []models.CommitEntry) error
	FindByRepo(ctx context.Context, repoFullName string) ([]models.PushAggregate, error)
}

// Merger is implemented by stores able to fold a record into its aggregate in
// a single atomic operation, creating the aggregate when absent.
type Merger interface {
	Merge(ctx context.Context, rec models.PushRecord) error
}

// StoreUnavailableError wraps a failure to read or write the backing store.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("aggregate store unavailable: %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

func unavailable(op string, err error) error {
	var sue *StoreUnavailableError
	if errors.As(err, &sue) {
		return err
	}
	return &StoreUnavailableError{Op: op, Err: err}
}

var errDuplicateKey = errors.New("duplicate key")
