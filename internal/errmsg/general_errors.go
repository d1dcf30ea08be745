package errmsg

import "net/http"

func InternalServerError(err error) StatusError {
	return NewStatusError(
		http.StatusInternalServerError,
		"internal server error: "+err.Error(),
	)
}

// StoreUnavailable is returned when the aggregate store cannot be read or
// written, so the sender sees a failed delivery.
func StoreUnavailable(err error) StatusError {
	return NewStatusError(
		http.StatusServiceUnavailable,
		"store unavailable: "+err.Error(),
	)
}

type _InternalServerError struct {
	StatusCode int    `json:"statusCode" example:"500"`
	Message    string `json:"message" example:"internal server error: ..."`
}

type _StoreUnavailable struct {
	StatusCode int    `json:"statusCode" example:"503"`
	Message    string `json:"message" example:"store unavailable: ..."`
}
