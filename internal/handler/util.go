// Package handler provides the HTTP channel adapters and API endpoints.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/capitalize-ai/realty-chat/internal/model"
	"github.com/capitalize-ai/realty-chat/internal/service"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, &model.ErrorResponse{Error: message})
}

// writeInternalError writes a 500 that still carries a visitor-safe reply.
func writeInternalError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusInternalServerError, &model.ErrorResponse{
		Error:    "internal server error",
		Message:  message,
		Response: service.ApologyReply,
	})
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
