package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/arthome/graphpress/errors"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// readJSON reads and decodes a JSON request body
func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return err
	}
	return nil
}

// statusFor maps the error taxonomy to HTTP status codes. Exactly one
// category matches any engine error; anything uncategorized is treated
// as infrastructure.
func statusFor(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.IsAuth(err):
		return http.StatusUnauthorized
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeEngineError maps a taxonomy error onto the wire. Infrastructure
// details stay in the logs, not the response body.
func writeEngineError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

// optionalQuery returns the "query" URL parameter as a *string, nil when
// absent so the resolver treats it as an unfiltered listing.
func optionalQuery(r *http.Request) *string {
	if !r.URL.Query().Has("query") {
		return nil
	}
	q := r.URL.Query().Get("query")
	return &q
}
