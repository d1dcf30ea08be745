package aggregates

import (
	"context"
	"errors"

	"commitbot/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps aggregates in a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
}

var (
	_ Store  = (*MongoStore)(nil)
	_ Merger = (*MongoStore)(nil)
)

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// EnsureIndexes creates the unique (repo_full_name, username) index that
// keeps a single aggregate per pair.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "repo_full_name", Value: 1},
			{Key: "username", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("repo_user_unique"),
	})
	if err != nil {
		return unavailable("ensure indexes", err)
	}
	return nil
}

func keyFilter(key Key) bson.M {
	return bson.M{
		"repo_full_name": key.RepoFullName,
		"username":       key.Username,
	}
}

func (s *MongoStore) FindOne(ctx context.Context, key Key) (*models.PushAggregate, error) {
	var agg models.PushAggregate
	err := s.coll.FindOne(ctx, keyFilter(key)).Decode(&agg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("find", err)
	}
	return &agg, nil
}

// InsertOne and UpdateFields complete Store. Writer goes through Merge on
// MongoDB, so they only serve callers that use the two-step path.
func (s *MongoStore) InsertOne(ctx context.Context, agg models.PushAggregate) error {
	if agg.Commits == nil {
		agg.Commits = []models.CommitEntry{}
	}
	if _, err := s.coll.InsertOne(ctx, agg); err != nil {
		return unavailable("insert", err)
	}
	return nil
}

func (s *MongoStore) UpdateFields(ctx context.Context, key Key, numCommits int, commits []models.CommitEntry) error {
	if commits == nil {
		commits = []models.CommitEntry{}
	}

	update := bson.M{
		"$set": bson.M{
			"num_commits": numCommits,
			"commits":     commits,
		},
	}

	if _, err := s.coll.UpdateOne(ctx, keyFilter(key), update); err != nil {
		return unavailable("update", err)
	}
	return nil
}

func (s *MongoStore) FindByRepo(ctx context.Context, repoFullName string) ([]models.PushAggregate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})

	cursor, err := s.coll.Find(ctx, bson.M{"repo_full_name": repoFullName}, opts)
	if err != nil {
		return nil, unavailable("find by repo", err)
	}
	defer cursor.Close(ctx)

	aggs := []models.PushAggregate{}
	if err := cursor.All(ctx, &aggs); err != nil {
		return nil, unavailable("find by repo", err)
	}
	return aggs, nil
}

// Merge increments num_commits and appends the record's commits in one
// update, inserting the aggregate when the key is new. Two first deliveries
// racing on the unique index leave one of them with a duplicate key error;
// that one is retried and lands on the update path.
func (s *MongoStore) Merge(ctx context.Context, rec models.PushRecord) error {
	agg := rec.Aggregate()

	update := bson.M{
		"$setOnInsert": bson.M{
			"repo_owner": agg.RepoOwner,
			"repo_name":  agg.RepoName,
			"repo_id":    agg.RepoID,
			"repo_url":   agg.RepoURL,
			"user_id":    agg.UserID,
		},
		"$inc": bson.M{
			"num_commits": agg.NumCommits,
		},
		"$push": bson.M{
			"commits": bson.M{"$each": agg.Commits},
		},
	}

	opts := options.Update().SetUpsert(true)
	filter := keyFilter(KeyOf(rec))

	_, err := s.coll.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		_, err = s.coll.UpdateOne(ctx, filter, update, opts)
	}
	if err != nil {
		return unavailable("merge", err)
	}
	return nil
}
