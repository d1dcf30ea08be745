package commits

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"commitbot/internal/aggregates"
	"commitbot/internal/errmsg"
	"commitbot/internal/models"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func seededApp(t *testing.T) *fiber.App {
	t.Helper()

	store := aggregates.NewMemoryStore()
	for _, user := range []string{"zed", "PtatG"} {
		require.NoError(t, store.InsertOne(context.Background(), models.PushAggregate{
			RepoOwner:    "o",
			RepoFullName: "o/r",
			RepoName:     "r",
			Username:     user,
			NumCommits:   1,
			Commits: []models.CommitEntry{{
				ID:        "a1",
				URL:       "https://api.github.com/repos/o/r/commits/a1",
				Timestamp: time.Date(2021, 8, 23, 12, 0, 0, 0, time.UTC),
			}},
		}))
	}

	app := fiber.New()
	New(aggregates.NewReader(store, nil, time.Minute, zerolog.Nop())).Routes(app.Group("/commitbot"))
	return app
}

func get(t *testing.T, app *fiber.App, path string) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)

	res, err := app.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, body
}

func TestListAggregates(t *testing.T) {
	status, body := get(t, seededApp(t), "/commitbot/repos/o/r/commits")
	require.Equal(t, http.StatusOK, status)

	var aggs []models.PushAggregate
	require.NoError(t, json.Unmarshal(body, &aggs))
	require.Len(t, aggs, 2)
	require.Equal(t, "PtatG", aggs[0].Username)
	require.Equal(t, "zed", aggs[1].Username)
}

func TestListUnknownRepoIsEmpty(t *testing.T) {
	status, body := get(t, seededApp(t), "/commitbot/repos/o/unknown/commits")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `[]`, string(body))
}

func TestGetAggregate(t *testing.T) {
	status, body := get(t, seededApp(t), "/commitbot/repos/o/r/users/PtatG")
	require.Equal(t, http.StatusOK, status)

	var agg models.PushAggregate
	require.NoError(t, json.Unmarshal(body, &agg))
	require.Equal(t, "o/r", agg.RepoFullName)
	require.Equal(t, 1, agg.NumCommits)
	require.Equal(t, "a1", agg.Commits[0].ID)
	require.Equal(t, 0, agg.Commits[0].Likes)
}

func TestGetAggregateNotFound(t *testing.T) {
	status, body := get(t, seededApp(t), "/commitbot/repos/o/r/users/nobody")
	require.Equal(t, errmsg.AggregateNotFound.StatusCode, status)

	var msg struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &msg))
	require.Equal(t, errmsg.AggregateNotFound.Message, msg.Message)
}
