package pushevent

import "fmt"

// MalformedPayloadError reports a push payload that is missing a required
// field or carries one of the wrong shape.
type MalformedPayloadError struct {
	Field  string
	Reason string
}

func (e *MalformedPayloadError) Error() string {
	if e.Field == "" {
		return "malformed push payload: " + e.Reason
	}
	return fmt.Sprintf("malformed push payload: %s: %s", e.Field, e.Reason)
}

func malformed(field, format string, args ...any) *MalformedPayloadError {
	return &MalformedPayloadError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}
