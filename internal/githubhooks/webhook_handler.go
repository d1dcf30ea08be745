package githubhooks

import (
	"errors"

	"commitbot/internal/aggregates"
	"commitbot/internal/errmsg"
	"commitbot/internal/events"
	"commitbot/internal/pushevent"
	"commitbot/internal/utils"
	"commitbot/internal/webhooks"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
)

// Hooks serves the webhook endpoint.
type Hooks struct {
	secret string
	router *webhooks.Router
	em     *events.Emitter
	log    zerolog.Logger
}

func New(secret string, router *webhooks.Router, em *events.Emitter, log zerolog.Logger) *Hooks {
	return &Hooks{
		secret: secret,
		router: router,
		em:     em,
		log:    log.With().Str("component", "githubhooks").Logger(),
	}
}

// webhookHandler verifies a GitHub delivery and dispatches it.
// @Summary Receive a GitHub webhook delivery
// @Description Verifies the delivery signature and dispatches it by X-GitHub-Event. Push events are merged into the pusher's per-repository commit aggregate.
// @Tags Commitbot Webhooks
// @Accept json
// @Produce json
// @Param X-GitHub-Event header string true "GitHub event type"
// @Param X-GitHub-Delivery header string true "GitHub delivery id"
// @Param X-Hub-Signature-256 header string true "sha256 HMAC of the body"
// @Success 202
// @Success 204
// @Failure 400 {object} errmsg._InternalServerError
// @Failure 401 {object} errmsg._InternalServerError
// @Failure 503 {object} errmsg._StoreUnavailable
// @Router /commitbot/github/webhook [post]
func (h *Hooks) webhookHandler(c fiber.Ctx) error {
	header := func(key string) string { return c.Get(key) }

	event, err := webhooks.FromHTTP(header, c.Body(), h.secret)
	if err != nil {
		h.log.Warn().Err(err).Msg("rejected webhook delivery")
		return utils.StatusError(c, intakeError(err))
	}

	err = h.router.Dispatch(c, event)
	if errors.Is(err, webhooks.ErrNoHandler) {
		// Event types we do not subscribe to are acknowledged and ignored.
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err != nil {
		h.em.PushRejected(event.DeliveryID, event.Type, err)
		h.log.Error().
			Err(err).
			Str("delivery", event.DeliveryID).
			Str("event", event.Type).
			Msg("webhook delivery failed")
		return utils.StatusError(c, dispatchError(err))
	}

	return c.SendStatus(fiber.StatusAccepted)
}

func intakeError(err error) errmsg.StatusError {
	switch {
	case errors.Is(err, webhooks.ErrSecretNotConfigured):
		return errmsg.GitHubSecretNotConfigured
	case errors.Is(err, webhooks.ErrSignatureMissing):
		return errmsg.GitHubSignatureMissing
	case errors.Is(err, webhooks.ErrSignatureInvalid):
		return errmsg.GitHubSignatureInvalid
	case errors.Is(err, webhooks.ErrEventMissing):
		return errmsg.GitHubEventMissing
	case errors.Is(err, webhooks.ErrDeliveryMissing):
		return errmsg.GitHubDeliveryMissing
	case errors.Is(err, webhooks.ErrUnsupportedContentType):
		return errmsg.GitHubUnsupportedMediaType
	default:
		return errmsg.GitHubInvalidPayload
	}
}

func dispatchError(err error) errmsg.StatusError {
	var malformed *pushevent.MalformedPayloadError
	if errors.As(err, &malformed) {
		return errmsg.GitHubMalformedPayload(malformed)
	}

	var unavailable *aggregates.StoreUnavailableError
	if errors.As(err, &unavailable) {
		return errmsg.StoreUnavailable(unavailable)
	}

	return errmsg.InternalServerError(err)
}
