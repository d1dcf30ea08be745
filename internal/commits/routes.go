// Package commits serves the stored per-user commit aggregates.
package commits

import (
	"commitbot/internal/aggregates"

	"github.com/gofiber/fiber/v3"
)

type API struct {
	reader *aggregates.Reader
}

func New(reader *aggregates.Reader) *API {
	return &API{reader: reader}
}

func (a *API) Routes(app fiber.Router) {
	repos := app.Group("/repos")
	repos.Get("/:owner/:repo/commits", a.listHandler)
	repos.Get("/:owner/:repo/users/:username", a.getHandler)
}
