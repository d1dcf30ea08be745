// Package commitctl implements the operator commands of the commitctl tool
// against a running commitbot server.
package commitctl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"commitbot/internal/models"
)

// ErrNotFound is returned when the server has no aggregate for the request.
var ErrNotFound = errors.New("no commits recorded")

// Client talks to the commitbot HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient targets host, given as host:port or a full URL.
func NewClient(host string) *Client {
	base := strings.TrimRight(strings.TrimSpace(host), "/")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}

	return &Client{
		baseURL: base + "/commitbot",
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Ping checks that the server answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	body, err := c.get(ctx, "/ping")
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(body)) != "PONG" {
		return fmt.Errorf("unexpected ping reply %q", body)
	}
	return nil
}

// Version returns the version string the server reports.
func (c *Client) Version(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "/version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// Aggregate fetches one user's aggregate for repo ("owner/name").
func (c *Client) Aggregate(ctx context.Context, repo, username string) (models.PushAggregate, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return models.PushAggregate{}, err
	}

	var agg models.PushAggregate
	body, err := c.get(ctx, "/repos/"+url.PathEscape(owner)+"/"+url.PathEscape(name)+"/users/"+url.PathEscape(username))
	if err != nil {
		return agg, err
	}
	if err := json.Unmarshal(body, &agg); err != nil {
		return agg, fmt.Errorf("decode aggregate: %w", err)
	}
	return agg, nil
}

// Aggregates lists every aggregate of repo.
func (c *Client) Aggregates(ctx context.Context, repo string) ([]models.PushAggregate, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, "/repos/"+url.PathEscape(owner)+"/"+url.PathEscape(name)+"/commits")
	if err != nil {
		return nil, err
	}

	var aggs []models.PushAggregate
	if err := json.Unmarshal(body, &aggs); err != nil {
		return nil, fmt.Errorf("decode aggregates: %w", err)
	}
	return aggs, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &msg) == nil && msg.Message != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, msg.Message)
		}
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	return body, nil
}

func splitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(repo), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("repository must be owner/name, got %q", repo)
	}
	return owner, name, nil
}
