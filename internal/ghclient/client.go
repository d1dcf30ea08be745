// Package ghclient builds the outbound GitHub API client handed to webhook handlers.
package ghclient

import (
	"context"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// New returns a GitHub client authenticated with token, or an anonymous one
// when token is empty. requester is sent as the User-Agent.
func New(ctx context.Context, token string, requester string) *github.Client {
	var client *github.Client
	if token == "" {
		client = github.NewClient(nil)
	} else {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		client = github.NewClient(oauth2.NewClient(ctx, ts))
	}

	if requester != "" {
		client.UserAgent = requester
	}
	return client
}
