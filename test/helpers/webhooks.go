package helpers

import (
	"encoding/json"
	"testing"

	"commitbot/internal/webhooks"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
)

// API_SendWebhook posts payload as a signed GitHub delivery.
func API_SendWebhook(
	t *testing.T,
	app *fiber.App,
	secret string,
	eventType string,
	deliveryID string,
	payload any,
) (bodyBytes []byte, statusCode int) {
	sendBytes, err := json.Marshal(payload)
	require.NoError(t, err)

	return RequestRunner(t, app,
		"POST",
		"/commitbot/github/webhook",
		sendBytes,
		map[string]string{
			webhooks.EventHeader:     eventType,
			webhooks.DeliveryHeader:  deliveryID,
			webhooks.SignatureHeader: webhooks.ComputeSignature(secret, sendBytes),
		},
	)
}

func API_GetAggregate(
	t *testing.T,
	app *fiber.App,
	repoFullName string,
	username string,
) (bodyBytes []byte, statusCode int) {
	return RequestRunner(t, app,
		"GET",
		"/commitbot/repos/"+repoFullName+"/users/"+username,
		nil,
		nil,
	)
}

func API_ListAggregates(
	t *testing.T,
	app *fiber.App,
	repoFullName string,
) (bodyBytes []byte, statusCode int) {
	return RequestRunner(t, app,
		"GET",
		"/commitbot/repos/"+repoFullName+"/commits",
		nil,
		nil,
	)
}

// PushPayload builds a GitHub push body for repo owner/name pushed by sender.
func PushPayload(owner, name, sender string, commits ...map[string]any) map[string]any {
	if commits == nil {
		commits = []map[string]any{}
	}

	return map[string]any{
		"ref": "refs/heads/main",
		"repository": map[string]any{
			"id":          1001,
			"name":        name,
			"full_name":   owner + "/" + name,
			"html_url":    "https://github.com/" + owner + "/" + name,
			"commits_url": "https://api.github.com/repos/" + owner + "/" + name + "/commits{/sha}",
			"owner":       map[string]any{"login": owner},
		},
		"sender":  map[string]any{"login": sender, "id": 2002},
		"commits": commits,
	}
}

// PushCommit builds one raw commit descriptor.
func PushCommit(id string, distinct bool) map[string]any {
	return map[string]any{
		"id":        id,
		"distinct":  distinct,
		"message":   "commit " + id,
		"timestamp": "2021-08-23T12:30:00Z",
	}
}
