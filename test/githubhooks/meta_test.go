package githubhooks

import (
	"net/http"
	"testing"

	"commitbot/test/helpers"

	"github.com/stretchr/testify/require"
)

func TestPing(t *testing.T) {
	body, statusCode := helpers.RequestRunner(t, app, "GET", "/commitbot/ping", nil, nil)
	require.Equal(t, http.StatusOK, statusCode)
	require.Equal(t, "PONG", string(body))
}

func TestVersion(t *testing.T) {
	body, statusCode := helpers.RequestRunner(t, app, "GET", "/commitbot/version", nil, nil)
	require.Equal(t, http.StatusOK, statusCode)
	require.Equal(t, "v0.0.0-test", string(body))
}

func TestGitHubPingEventAccepted(t *testing.T) {
	_, statusCode := helpers.API_SendWebhook(t, app, testSecret, "ping", "delivery-ping",
		map[string]any{"zen": "Keep it logically awesome.", "hook_id": 1})
	require.Equal(t, http.StatusAccepted, statusCode)
}

func TestGitHubUnhandledEventIgnored(t *testing.T) {
	_, statusCode := helpers.API_SendWebhook(t, app, testSecret, "issues", "delivery-issues",
		map[string]any{"action": "opened"})
	require.Equal(t, http.StatusNoContent, statusCode)
}
