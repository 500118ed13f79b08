// Package api provides HTTP API handlers for the signmatch service.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ayusman/signmatch/internal/gesture"
)

// maxBodyBytes bounds request bodies; recordings may carry encoded images.
const maxBodyBytes = 32 << 20

// Registry is the matching engine the handlers drive. *app.App
// implements it.
type Registry interface {
	Register(ctx context.Context, signID string, rec gesture.Recording, raw json.RawMessage) (*gesture.Profile, error)
	Reload(signID string) error
	Unregister(signID string) bool
	Match(ctx context.Context, rec gesture.Recording, topK int) ([]gesture.Match, error)
	Size() int
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

const timeFormat = "2006-01-02T15:04:05Z07:00"
