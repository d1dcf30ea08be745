package commits

import (
	"errors"
	"strings"

	"commitbot/internal/aggregates"
	"commitbot/internal/errmsg"
	"commitbot/internal/utils"

	"github.com/gofiber/fiber/v3"
)

// listHandler returns every user's aggregate for a repository.
// @Summary List commit aggregates of a repository
// @Tags Commitbot Commits
// @Produce json
// @Param owner path string true "repository owner"
// @Param repo path string true "repository name"
// @Success 200 {array} models.PushAggregate
// @Failure 400 {object} errmsg._AggregateInvalidRequest
// @Failure 503 {object} errmsg._StoreUnavailable
// @Router /commitbot/repos/{owner}/{repo}/commits [get]
func (a *API) listHandler(c fiber.Ctx) error {
	fullName, ok := repoFullName(c)
	if !ok {
		return utils.StatusError(c, errmsg.AggregateInvalidRequest)
	}

	aggs, err := a.reader.ListByRepo(c, fullName)
	if err != nil {
		return utils.StatusError(c, errmsg.StoreUnavailable(err))
	}

	return c.JSON(aggs)
}

// getHandler returns one user's aggregate for a repository.
// @Summary Get a user's commit aggregate
// @Tags Commitbot Commits
// @Produce json
// @Param owner path string true "repository owner"
// @Param repo path string true "repository name"
// @Param username path string true "GitHub login of the pusher"
// @Success 200 {object} models.PushAggregate
// @Failure 404 {object} errmsg._AggregateNotFound
// @Failure 503 {object} errmsg._StoreUnavailable
// @Router /commitbot/repos/{owner}/{repo}/users/{username} [get]
func (a *API) getHandler(c fiber.Ctx) error {
	fullName, ok := repoFullName(c)
	username := strings.TrimSpace(c.Params("username"))
	if !ok || username == "" {
		return utils.StatusError(c, errmsg.AggregateInvalidRequest)
	}

	agg, err := a.reader.Get(c, aggregates.Key{
		RepoFullName: fullName,
		Username:     username,
	})
	if errors.Is(err, aggregates.ErrNotFound) {
		return utils.StatusError(c, errmsg.AggregateNotFound)
	}
	if err != nil {
		return utils.StatusError(c, errmsg.StoreUnavailable(err))
	}

	return c.JSON(agg)
}

func repoFullName(c fiber.Ctx) (string, bool) {
	owner := strings.TrimSpace(c.Params("owner"))
	repo := strings.TrimSpace(c.Params("repo"))
	if owner == "" || repo == "" {
		return "", false
	}
	return owner + "/" + repo, true
}
