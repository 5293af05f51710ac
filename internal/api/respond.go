package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/nutrition"
	"github.com/hammamikhairi/nutriplan/internal/vision"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error      string                 `json:"error"`
	Details    string                 `json:"details,omitempty"`
	Suggestion string                 `json:"suggestion,omitempty"`
	Code       string                 `json:"code,omitempty"`
	Fields     []nutrition.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPaymentRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrQuizIncomplete), errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with the status statusFor picks.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error()}

	var ve *nutrition.ValidationError
	if errors.As(err, &ve) {
		body.Error = "invalid user data"
		body.Fields = ve.Fields
	}
	if status == http.StatusInternalServerError {
		s.log.Error("internal error: %v", err)
		body.Error = "internal error"
	}
	writeJSON(w, status, body)
}

// visionStatus maps an analysis failure kind to an HTTP status.
func visionStatus(kind vision.Kind) int {
	switch kind {
	case vision.KindInvalidImage, vision.KindNoFood:
		return http.StatusBadRequest
	case vision.KindAuth:
		return http.StatusUnauthorized
	case vision.KindRateLimited:
		return http.StatusTooManyRequests
	case vision.KindMalformedResponse:
		return http.StatusBadGateway
	case vision.KindNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeVisionError(w http.ResponseWriter, err error) {
	kind := vision.KindOf(err)
	message, suggestion := vision.UserMessage(err)
	code := kind.String()
	var ve *vision.Error
	if errors.As(err, &ve) && ve.Code != "" {
		code = ve.Code
	}
	s.log.Warn("analysis failed: %v", err)
	writeJSON(w, visionStatus(kind), errorBody{
		Error:      message,
		Details:    err.Error(),
		Suggestion: suggestion,
		Code:       code,
	})
}
