// Package pushevent turns GitHub push webhook payloads into normalized push records.
package pushevent

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Payload models the fields of a GitHub push hook that ingestion depends on.
// Numeric ids and the distinct flag are pointers so that an absent value is
// told apart from a zero one.
type Payload struct {
	Repository Repository `json:"repository" validate:"required"`
	Sender     Sender     `json:"sender" validate:"required"`
	Commits    []Commit   `json:"commits" validate:"required,dive"`
}

// Repository is the subset of repository metadata copied onto aggregates.
type Repository struct {
	Owner      Owner  `json:"owner" validate:"required"`
	FullName   string `json:"full_name" validate:"required"`
	Name       string `json:"name" validate:"required"`
	ID         *int64 `json:"id" validate:"required"`
	HTMLURL    string `json:"html_url" validate:"required"`
	CommitsURL string `json:"commits_url" validate:"required,min=6"`
}

type Owner struct {
	Login string `json:"login" validate:"required"`
}

// Sender is the account that pushed.
type Sender struct {
	Login string `json:"login" validate:"required"`
	ID    *int64 `json:"id" validate:"required"`
}

// Commit is one raw commit descriptor of the push.
type Commit struct {
	ID        string `json:"id" validate:"required"`
	Distinct  *bool  `json:"distinct" validate:"required"`
	Timestamp string `json:"timestamp" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json paths rather than Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		if tag == "" || tag == "-" {
			return fld.Name
		}
		return tag
	})

	return v
}

// Decode parses a raw push body. Any JSON that does not fit Payload is a
// MalformedPayloadError.
func Decode(body []byte) (Payload, error) {
	var p Payload
	if len(body) == 0 {
		return p, malformed("", "empty body")
	}

	if err := json.Unmarshal(body, &p); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return p, malformed(typeErr.Field, "expected %s, got %s", typeErr.Type, typeErr.Value)
		}
		return p, malformed("", "invalid json: %v", err)
	}

	return p, nil
}

// Validate checks every required field and returns the first failure.
func (p Payload) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return malformed(fieldPath(fe.Namespace()), "failed %q check", fe.Tag())
	}

	return malformed("", "%v", err)
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(ns string) string {
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}
