// Package webhooks parses GitHub webhook deliveries and routes them to handlers.
package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"mime"
	"net/url"
	"strings"
)

// GitHub header keys and values that drive webhook validation.
const (
	SignatureHeader   = "X-Hub-Signature-256"
	EventHeader       = "X-GitHub-Event"
	DeliveryHeader    = "X-GitHub-Delivery"
	ContentTypeHeader = "Content-Type"

	signaturePrefix = "sha256="
)

var (
	ErrSecretNotConfigured    = errors.New("webhook secret not configured")
	ErrSignatureMissing       = errors.New("missing " + SignatureHeader + " header")
	ErrSignatureInvalid       = errors.New("invalid webhook signature")
	ErrEventMissing           = errors.New("missing " + EventHeader + " header")
	ErrDeliveryMissing        = errors.New("missing " + DeliveryHeader + " header")
	ErrUnsupportedContentType = errors.New("unsupported webhook content type")
)

// Event is one verified webhook delivery.
type Event struct {
	Type       string
	DeliveryID string
	Data       []byte
}

// FromHTTP builds an Event from a delivery's headers and raw body, checking
// the HMAC signature against secret. Form-encoded deliveries carry their JSON
// in the "payload" field.
func FromHTTP(header func(string) string, body []byte, secret string) (Event, error) {
	if secret == "" {
		return Event{}, ErrSecretNotConfigured
	}

	signature := strings.TrimSpace(header(SignatureHeader))
	if signature == "" {
		return Event{}, ErrSignatureMissing
	}

	// the MAC covers the raw body, whatever its encoding
	if !VerifySignature(secret, signature, body) {
		return Event{}, ErrSignatureInvalid
	}

	eventType := strings.TrimSpace(header(EventHeader))
	if eventType == "" {
		return Event{}, ErrEventMissing
	}

	deliveryID := strings.TrimSpace(header(DeliveryHeader))
	if deliveryID == "" {
		return Event{}, ErrDeliveryMissing
	}

	data, err := decodeBody(header(ContentTypeHeader), body)
	if err != nil {
		return Event{}, err
	}

	return Event{
		Type:       eventType,
		DeliveryID: deliveryID,
		Data:       data,
	}, nil
}

func decodeBody(contentType string, body []byte) ([]byte, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, ErrUnsupportedContentType
	}

	switch mediaType {
	case "application/json":
		return body, nil
	case "application/x-www-form-urlencoded":
		form, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, ErrUnsupportedContentType
		}
		return []byte(form.Get("payload")), nil
	default:
		return nil, ErrUnsupportedContentType
	}
}

// VerifySignature compares a payload MAC against the expected secret-derived value.
func VerifySignature(secret, signature string, payload []byte) bool {
	normalized := strings.ToLower(signature)
	if !strings.HasPrefix(normalized, signaturePrefix) {
		return false
	}

	expected := ComputeSignature(secret, payload)
	return hmac.Equal([]byte(expected), []byte(normalized))
}

// ComputeSignature renders the GitHub sha256= prefixed HMAC in hex form.
func ComputeSignature(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)

	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}
