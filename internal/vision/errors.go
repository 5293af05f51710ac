package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies analysis failures so callers can pick a response.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalidImage means the image was rejected before any API call.
	KindInvalidImage
	// KindAuth means the API key is missing, invalid or expired.
	KindAuth
	// KindRateLimited covers request-rate limits and exhausted quota.
	KindRateLimited
	// KindNetwork means the API could not be reached.
	KindNetwork
	// KindMalformedResponse means the model reply could not be parsed.
	KindMalformedResponse
	// KindNoFood means the reply was valid but listed no foods.
	KindNoFood
)

// String returns a snake_case name, also used as the API error code
// fallback.
func (k Kind) String() string {
	switch k {
	case KindInvalidImage:
		return "invalid_image"
	case KindAuth:
		return "auth"
	case KindRateLimited:
		return "rate_limited"
	case KindNetwork:
		return "network"
	case KindMalformedResponse:
		return "malformed_response"
	case KindNoFood:
		return "no_food"
	default:
		return "unknown"
	}
}

// Error is a classified vision failure.
type Error struct {
	Kind Kind
	// Status is the upstream HTTP status, 0 when none was received.
	Status int
	// Code is the upstream error code, e.g. "insufficient_quota".
	Code string
	Err  error
}

func (e *Error) Error() string {
	msg := "vision: " + e.Kind.String()
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Code != "" {
		msg += " [" + e.Code + "]"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a vision error, or KindUnknown.
func KindOf(err error) Kind {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return KindUnknown
}

// Retryable reports whether err is worth retrying. Only rate limits are.
func Retryable(err error) bool {
	return KindOf(err) == KindRateLimited
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// classifyHTTP maps a non-200 response to an Error.
func classifyHTTP(status int, body []byte) *Error {
	var parsed apiErrorBody
	_ = json.Unmarshal(body, &parsed)

	code := ""
	switch c := parsed.Error.Code.(type) {
	case string:
		code = c
	case float64:
		code = fmt.Sprintf("%.0f", c)
	}
	if code == "" {
		code = parsed.Error.Type
	}
	msg := parsed.Error.Message
	if msg == "" {
		msg = http.StatusText(status)
	}

	e := &Error{Status: status, Code: code, Err: errors.New(msg)}
	switch {
	case code == "invalid_api_key" || status == http.StatusUnauthorized:
		e.Kind = KindAuth
	case code == "insufficient_quota" || code == "rate_limit_exceeded" || status == http.StatusTooManyRequests:
		e.Kind = KindRateLimited
	case status >= 500:
		e.Kind = KindNetwork
	default:
		e.Kind = KindUnknown
	}
	return e
}

// classifyTransport maps a failed round trip to an Error. Cancellation
// by the caller is returned unchanged.
func classifyTransport(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case errors.As(err, &dnsErr):
		return &Error{Kind: KindNetwork, Code: "ENOTFOUND", Err: err}
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return &Error{Kind: KindNetwork, Code: "ETIMEDOUT", Err: err}
	default:
		return &Error{Kind: KindNetwork, Err: err}
	}
}

// UserMessage returns a short message and a suggestion suitable for
// showing to the end user. Every kind has its own wording.
func UserMessage(err error) (message, suggestion string) {
	switch KindOf(err) {
	case KindInvalidImage:
		return "Invalid image format",
			"Send a photo as a data:image/... base64 URL (JPEG, PNG or WebP)."
	case KindAuth:
		return "Invalid vision API key",
			"Check that OPENAI_API_KEY is set correctly."
	case KindRateLimited:
		return "Vision API usage limit reached",
			"Wait a few minutes and try again, or add credits at https://platform.openai.com/account/billing"
	case KindNetwork:
		return "Could not reach the vision service",
			"Check your internet connection and try again."
	case KindMalformedResponse:
		return "Could not understand the analysis result",
			"Try another photo with better lighting and framing."
	case KindNoFood:
		return "No food was identified in the image",
			"Try a clearer photo with the plate in frame."
	default:
		return "Failed to analyze image", ""
	}
}
