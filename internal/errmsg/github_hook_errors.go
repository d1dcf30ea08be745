package errmsg

import "net/http"

// GitHub webhook specific StatusError helpers surfaced by the handler.
var (
	GitHubSecretNotConfigured  = NewStatusError(http.StatusInternalServerError, "webhook secret not configured")
	GitHubSignatureMissing     = NewStatusError(http.StatusBadRequest, "missing X-Hub-Signature-256 header")
	GitHubSignatureInvalid     = NewStatusError(http.StatusUnauthorized, "invalid webhook signature")
	GitHubEventMissing         = NewStatusError(http.StatusBadRequest, "missing X-GitHub-Event header")
	GitHubDeliveryMissing      = NewStatusError(http.StatusBadRequest, "missing X-GitHub-Delivery header")
	GitHubUnsupportedMediaType = NewStatusError(http.StatusUnsupportedMediaType, "webhook content type must be application/json or application/x-www-form-urlencoded")
	GitHubInvalidPayload       = NewStatusError(http.StatusBadRequest, "invalid webhook payload")
)

// GitHubMalformedPayload reports which part of a push payload was rejected.
func GitHubMalformedPayload(err error) StatusError {
	return NewStatusError(
		http.StatusBadRequest,
		"invalid webhook payload: "+err.Error(),
	)
}
