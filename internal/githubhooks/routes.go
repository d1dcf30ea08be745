// Package githubhooks exposes handlers for GitHub webhook callbacks.
package githubhooks

import "github.com/gofiber/fiber/v3"

// Routes wires the GitHub webhook endpoints under /commitbot/github.
func (h *Hooks) Routes(app fiber.Router) {
	group := app.Group("/github")

	// POST /commitbot/github/webhook receives every event type the hook is subscribed to.
	group.Post("/webhook", h.webhookHandler)
}
