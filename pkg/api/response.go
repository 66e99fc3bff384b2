package api

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/shapegrid/pkg/errors"
)

// ErrorBody is the JSON error document.
type ErrorBody struct {
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

// ErrorDetail is the code and message of an API error.
type ErrorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidSettings,
		errors.ErrCodeUnknownField, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidShareToken,
		errors.ErrCodeInvalidProject:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeProjectNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError writes err as an ErrorBody. Errors without a code are
// reported as INTERNAL_ERROR and their message is not exposed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
		msg = "internal error"
	}
	writeJSON(w, StatusFor(code), ErrorBody{
		Error:     ErrorDetail{Code: code, Message: msg},
		RequestID: RequestID(r.Context()),
	})
}

func notFoundRoute(r *http.Request) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

func writeMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorBody{
		Error: ErrorDetail{
			Code:    errors.ErrCodeInvalidInput,
			Message: "method " + r.Method + " not allowed on " + r.URL.Path,
		},
		RequestID: RequestID(r.Context()),
	})
}
