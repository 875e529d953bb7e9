package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// apiError is an error that already knows how to render itself. Handlers
// return it out of transaction closures so the rollback happens before the
// response is written.
type apiError struct {
	status int
	detail string
}

func (e *apiError) Error() string {
	return e.detail
}

func errDetail(status int, detail string) *apiError {
	return &apiError{status: status, detail: detail}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeError renders an apiError as-is and anything else as a 500, logging
// the underlying cause.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		writeDetail(w, apiErr.status, apiErr.detail)
		return
	}
	log.Printf("internal error: %v", err)
	writeDetail(w, http.StatusInternalServerError, "Internal server error")
}
