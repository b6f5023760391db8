package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/mixmini/internal/common"
)

// statusFor maps a service error to an HTTP status and a client-facing
// message. notFound overrides the generic 404 message.
func statusFor(err error, notFound string) (int, string) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, common.ErrorNotFound):
		if notFound == "" {
			notFound = "Not found"
		}
		return http.StatusNotFound, notFound
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, "Already exists"
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict, "Conflict, please retry"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusBadRequest, "Invalid or expired token"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// fail writes a plain text error for page and fragment endpoints.
func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	code, msg := statusFor(err, notFound)
	if code == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	http.Error(w, msg, code)
}

// failJSON writes {"error": message} for the JSON auth API.
func (s *HTTPServer) failJSON(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := statusFor(err, "")
	if code == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
