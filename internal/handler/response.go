package handler

// Every error response has the same shape:
//
//	{"error": "not_found", "message": "post not found with id abc123"}
//
// Status codes follow the board's contract rather than REST habit:
// validation and duplicate-nickname failures are 412, missing or bad
// credentials are 403 like ownership failures, and anything unexpected is a
// 400 carrying a per-operation message instead of the internal error text.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/bulletin-board/internal/apperror"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"` // Human-readable description
}

// MessageResponse acknowledges a mutation.
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code. Headers must
// be set before WriteHeader; Encode writes the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeBadBody(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "invalid_body",
		Message: "request body is not valid JSON",
	})
}

// writeError maps a domain error to its status code. fallback is the
// message sent for errors outside the apperror taxonomy.
func writeError(w http.ResponseWriter, err error, fallback string) {
	writeErrorAs(w, err, fallback, http.StatusNotFound)
}

// writeUpdateError is writeError for update endpoints, which report a
// missing target as a failed precondition (412) instead of 404.
func writeUpdateError(w http.ResponseWriter, err error, fallback string) {
	writeErrorAs(w, err, fallback, http.StatusPreconditionFailed)
}

func writeErrorAs(w http.ResponseWriter, err error, fallback string, notFoundStatus int) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := 0
		errorType := ""

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusPreconditionFailed // 412
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusPreconditionFailed // 412
			errorType = "conflict"
		case errors.Is(err, apperror.ErrNotFound):
			status = notFoundStatus
			errorType = "not_found"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden // 403
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrUnauthenticated):
			status = http.StatusForbidden // 403
			errorType = "unauthenticated"
		}

		if status != 0 {
			writeJSON(w, status, ErrorResponse{
				Error:   errorType,
				Message: appErr.Message,
			})
			return
		}
	}

	// Never expose the raw error: it may carry SQL or file paths.
	slog.Error("operation failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "operation_failed",
		Message: fallback,
	})
}
