package errmsg

import "net/http"

var (
	AggregateNotFound = NewStatusError(
		http.StatusNotFound,
		"no commits recorded for this user and repository",
	)
	AggregateInvalidRequest = NewStatusError(
		http.StatusBadRequest,
		"owner, repository and username must be provided",
	)
)

type _AggregateNotFound struct {
	StatusCode int    `json:"statusCode" example:"404"`
	Message    string `json:"message" example:"no commits recorded for this user and repository"`
}

type _AggregateInvalidRequest struct {
	StatusCode int    `json:"statusCode" example:"400"`
	Message    string `json:"message" example:"owner, repository and username must be provided"`
}
