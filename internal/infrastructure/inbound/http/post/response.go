package post_http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"pinstack-blog-service/internal/custom_errors"
	ports "pinstack-blog-service/internal/domain/ports/output"
)

type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError writes the error body. Anything outside the error taxonomy is
// reported as an internal error.
func respondError(w http.ResponseWriter, log ports.Logger, err error) {
	var cerr *custom_errors.Error
	if !errors.As(err, &cerr) {
		cerr = custom_errors.Internal(err)
	}

	status := cerr.StatusCode()
	if status >= http.StatusInternalServerError {
		log.Error("Request failed",
			slog.Int("status_code", status),
			slog.String("kind", cerr.Kind.String()),
			slog.String("error", err.Error()))
	} else {
		log.Info("Request rejected",
			slog.Int("status_code", status),
			slog.String("kind", cerr.Kind.String()),
			slog.String("message", cerr.Message()))
	}

	respondJSON(w, status, ErrorResponse{StatusCode: status, Message: cerr.Message()})
}
