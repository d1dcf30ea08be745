//go:build integration
// +build integration

package events

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"commitbot/internal/db"
	"commitbot/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoSinkStoresEmittedEvents(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx := context.Background()
	client, err := db.Connect(ctx, uri)
	require.NoError(t, err)

	dbName := fmt.Sprintf("commitbot_it_events_%d", time.Now().UnixNano())
	defer func() {
		_ = client.Database(dbName).Drop(context.Background())
		_ = client.Disconnect(context.Background())
	}()

	coll := db.GetCollection(dbName, "events", client)
	em := NewEmitter(NewMongoSink(coll), "test", zerolog.Nop())

	em.PushIngested("delivery-1", models.PushRecord{RepoFullName: "o/r", Username: "PtatG", NumCommits: 2})
	em.PushRejected("delivery-2", "push", fmt.Errorf("boom"))
	em.Close()

	n, err := coll.CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	var stored models.Event
	require.NoError(t, coll.FindOne(ctx, bson.M{"key": "delivery-1"}).Decode(&stored))
	require.Equal(t, "github.push.ingested", stored.Action)
	require.Equal(t, "test", stored.Props["deployment"])
}
