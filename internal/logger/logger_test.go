package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Format: "json", Service: "commitbot", Writer: &buf})

	log.Debug().Str("repo", "o/r").Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "hello", line["message"])
	require.Equal(t, "commitbot", line["service"])
	require.Equal(t, "o/r", line["repo"])
}

func TestParseLevelFallback(t *testing.T) {
	require.Equal(t, zerolog.InfoLevel, parseLevel(""))
	require.Equal(t, zerolog.InfoLevel, parseLevel("loud"))
	require.Equal(t, zerolog.WarnLevel, parseLevel("WARN"))
}

func TestMiddlewareLogsStatus(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Writer: &buf})

	app := fiber.New()
	app.Use(Middleware(log))
	app.Get("/missing", func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	req, err := http.NewRequest(http.MethodGet, "/missing", nil)
	require.NoError(t, err)

	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, res.StatusCode)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "warn", line["level"])
	require.Equal(t, "/missing", line["path"])
	require.Equal(t, float64(404), line["status"])
}
