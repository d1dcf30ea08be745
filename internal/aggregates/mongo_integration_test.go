//go:build integration
// +build integration

package aggregates

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"commitbot/internal/db"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// openMongoStore connects to MONGO_URI and returns a store over a throwaway
// database that is dropped when the test ends.
func openMongoStore(t *testing.T) *MongoStore {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := db.Connect(ctx, uri)
	require.NoError(t, err)

	dbName := fmt.Sprintf("commitbot_it_%d", time.Now().UnixNano())
	t.Cleanup(func() {
		_ = client.Database(dbName).Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	store := NewMongoStore(db.GetCollection(dbName, "commBotCommits", client))
	require.NoError(t, store.EnsureIndexes(ctx))
	return store
}

func countDocs(t *testing.T, store *MongoStore, key Key) int64 {
	t.Helper()

	n, err := store.coll.CountDocuments(context.Background(), keyFilter(key))
	require.NoError(t, err)
	return n
}

func TestMongoMergeFirstSeenInserts(t *testing.T) {
	ctx := context.Background()
	store := openMongoStore(t)

	rec := record("PtatG", entries("a", 3))
	require.NoError(t, store.Merge(ctx, rec))

	got, err := store.FindOne(ctx, KeyOf(rec))
	require.NoError(t, err)
	require.Equal(t, rec.Aggregate(), *got)
}

func TestMongoMergeAccumulates(t *testing.T) {
	ctx := context.Background()
	store := openMongoStore(t)

	first := record("PtatG", entries("a", 3))
	second := record("PtatG", entries("b", 2))
	require.NoError(t, store.Merge(ctx, first))
	require.NoError(t, store.Merge(ctx, second))

	got, err := store.FindOne(ctx, KeyOf(first))
	require.NoError(t, err)
	require.Equal(t, 5, got.NumCommits)
	require.Equal(t, append(first.Commits, second.Commits...), got.Commits)
}

func TestMongoMergeEmptyRecordStillWrites(t *testing.T) {
	ctx := context.Background()
	store := openMongoStore(t)

	empty := record("PtatG", nil)
	empty.Discarded = 2

	// unseen key: the empty record creates the aggregate
	require.NoError(t, store.Merge(ctx, empty))
	got, err := store.FindOne(ctx, KeyOf(empty))
	require.NoError(t, err)
	require.Equal(t, 0, got.NumCommits)
	require.Empty(t, got.Commits)

	full := record("PtatG", entries("a", 2))
	require.NoError(t, store.Merge(ctx, full))
	require.NoError(t, store.Merge(ctx, empty))

	got, err = store.FindOne(ctx, KeyOf(full))
	require.NoError(t, err)
	require.Equal(t, 2, got.NumCommits)
	require.Equal(t, full.Commits, got.Commits)
}

func TestMongoMergeKeepsIdentityFields(t *testing.T) {
	ctx := context.Background()
	store := openMongoStore(t)

	first := record("PtatG", entries("a", 1))
	later := record("PtatG", entries("b", 1))
	later.RepoID = 9999
	later.UserID = 1
	later.RepoURL = "https://github.com/o/renamed"

	require.NoError(t, store.Merge(ctx, first))
	require.NoError(t, store.Merge(ctx, later))

	got, err := store.FindOne(ctx, KeyOf(first))
	require.NoError(t, err)
	require.Equal(t, first.RepoID, got.RepoID)
	require.Equal(t, first.UserID, got.UserID)
	require.Equal(t, first.RepoURL, got.RepoURL)
	require.Equal(t, 2, got.NumCommits)
}

func TestMongoConcurrentMergesLoseNothing(t *testing.T) {
	ctx := context.Background()
	store := openMongoStore(t)

	const deliveries = 50

	errs := make(chan error, deliveries)

	var wg sync.WaitGroup
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- store.Merge(ctx, record("PtatG", entries(fmt.Sprintf("d%d-", i), 2)))
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	key := Key{RepoFullName: "o/r", Username: "PtatG"}
	got, err := store.FindOne(ctx, key)
	require.NoError(t, err)
	require.Equal(t, 2*deliveries, got.NumCommits)
	require.Len(t, got.Commits, 2*deliveries)
	require.Equal(t, int64(1), countDocs(t, store, key))
}

func TestMongoRacingFirstInsertsLeaveOneDocument(t *testing.T) {
	ctx := context.Background()
	store := openMongoStore(t)

	for round := 0; round < 20; round++ {
		user := fmt.Sprintf("racer%d", round)
		start := make(chan struct{})
		errs := make(chan error, 2)

		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				errs <- store.Merge(ctx, record(user, entries(fmt.Sprintf("r%d-", i), 1)))
			}(i)
		}
		close(start)
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		key := Key{RepoFullName: "o/r", Username: user}
		require.Equal(t, int64(1), countDocs(t, store, key))

		got, err := store.FindOne(ctx, key)
		require.NoError(t, err)
		require.Equal(t, 2, got.NumCommits)
	}
}

func TestMongoFindOneMissing(t *testing.T) {
	store := openMongoStore(t)

	_, err := store.FindOne(context.Background(), Key{RepoFullName: "o/r", Username: "nobody"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMongoUniqueIndexRejectsSecondInsert(t *testing.T) {
	ctx := context.Background()
	store := openMongoStore(t)

	agg := record("PtatG", entries("a", 1)).Aggregate()
	require.NoError(t, store.InsertOne(ctx, agg))

	err := store.InsertOne(ctx, agg)
	var sue *StoreUnavailableError
	require.ErrorAs(t, err, &sue)
	require.Equal(t, int64(1), countDocs(t, store, KeyOf(record("PtatG", nil))))
}

func TestMongoTwoStepWriterMerges(t *testing.T) {
	ctx := context.Background()
	store := openMongoStore(t)

	// hide Merge so the Writer takes the find/insert/update path
	w := NewWriter(struct{ Store }{store}, nil, zerolog.Nop())

	first := record("PtatG", entries("a", 3))
	second := record("PtatG", entries("b", 2))
	require.NoError(t, w.Upsert(ctx, first))
	require.NoError(t, w.Upsert(ctx, second))

	got, err := store.FindOne(ctx, KeyOf(first))
	require.NoError(t, err)
	require.Equal(t, 5, got.NumCommits)
	require.Equal(t, append(first.Commits, second.Commits...), got.Commits)
}

func TestMongoFindByRepoOrdersByUsername(t *testing.T) {
	ctx := context.Background()
	store := openMongoStore(t)

	for _, user := range []string{"carol", "alice", "bob"} {
		require.NoError(t, store.Merge(ctx, record(user, entries(user, 1))))
	}

	other := record("alice", entries("x", 1))
	other.RepoFullName = "o/other"
	require.NoError(t, store.Merge(ctx, other))

	aggs, err := store.FindByRepo(ctx, "o/r")
	require.NoError(t, err)
	require.Len(t, aggs, 3)
	require.Equal(t, "alice", aggs[0].Username)
	require.Equal(t, "bob", aggs[1].Username)
	require.Equal(t, "carol", aggs[2].Username)
}

func TestMongoIndexIsUnique(t *testing.T) {
	ctx := context.Background()
	store := openMongoStore(t)

	cursor, err := store.coll.Indexes().List(ctx)
	require.NoError(t, err)

	var indexes []bson.M
	require.NoError(t, cursor.All(ctx, &indexes))

	found := false
	for _, idx := range indexes {
		if idx["name"] == "repo_user_unique" {
			found = true
			require.Equal(t, true, idx["unique"])
		}
	}
	require.True(t, found)
}
