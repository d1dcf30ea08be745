package errmsg

// StatusError is an error carrying the HTTP status it should be reported
// with. Only the message is part of the response body.
type StatusError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func NewStatusError(statusCode int, message string) StatusError {
	return StatusError{
		StatusCode: statusCode,
		Message:    message,
	}
}

func (se StatusError) Error() string {
	return se.Message
}
