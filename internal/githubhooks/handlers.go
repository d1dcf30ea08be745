package githubhooks

import (
	"context"

	"commitbot/internal/aggregates"
	"commitbot/internal/events"
	"commitbot/internal/pushevent"
	"commitbot/internal/webhooks"

	"github.com/google/go-github/v57/github"
	"github.com/rs/zerolog"
)

// Event types with a registered handler.
const (
	pushEvent = "push"
	pingEvent = "ping"
)

// NewEventRouter builds the event table served by the webhook endpoint.
func NewEventRouter(
	gh *github.Client,
	writer *aggregates.Writer,
	em *events.Emitter,
	log zerolog.Logger,
) *webhooks.Router {
	return webhooks.NewRouter(gh, map[string]webhooks.HandlerFunc{
		pushEvent: PushHandler(writer, em, log),
		pingEvent: PingHandler(log),
	})
}

// PushHandler normalizes a push delivery and merges it into the pusher's
// aggregate for the repository.
func PushHandler(writer *aggregates.Writer, em *events.Emitter, log zerolog.Logger) webhooks.HandlerFunc {
	return func(ctx context.Context, event webhooks.Event, _ *github.Client) error {
		rec, err := pushevent.FromJSON(event.Data)
		if err != nil {
			return err
		}

		if err := writer.Upsert(ctx, rec); err != nil {
			return err
		}

		em.PushIngested(event.DeliveryID, rec)

		log.Info().
			Str("delivery", event.DeliveryID).
			Str("repo", rec.RepoFullName).
			Str("username", rec.Username).
			Int("accepted", rec.NumCommits).
			Int("discarded", rec.Discarded).
			Msg("push ingested")

		return nil
	}
}

// PingHandler acknowledges the ping GitHub sends when a hook is created.
func PingHandler(log zerolog.Logger) webhooks.HandlerFunc {
	return func(_ context.Context, event webhooks.Event, _ *github.Client) error {
		log.Info().Str("delivery", event.DeliveryID).Msg("webhook ping received")
		return nil
	}
}
