package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"commitbot/internal/errmsg"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
)

const requestTimeout = 30 * time.Second

// RequestRunner sends one JSON request through app and returns the raw
// response. headers are applied after the default content type.
func RequestRunner(
	t *testing.T,
	app *fiber.App,
	method string,
	path string,
	sendBytes []byte,
	headers map[string]string,
) (bodyBytes []byte, statusCode int) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(sendBytes))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := app.Test(req, fiber.TestConfig{Timeout: requestTimeout})
	require.NoError(t, err)
	defer res.Body.Close()

	bodyBytes, err = io.ReadAll(res.Body)
	require.NoError(t, err)

	return bodyBytes, res.StatusCode
}

// ResponseErrorCheck asserts the response is exactly serr.
func ResponseErrorCheck(
	t *testing.T,
	serr errmsg.StatusError,
	bodyBytes []byte,
	statusCode int,
) {
	t.Helper()

	require.Equal(t, serr.StatusCode, statusCode)

	var body errmsg.StatusError
	require.NoError(t, json.Unmarshal(bodyBytes, &body))
	require.Equal(t, serr.Message, body.Message)
}
