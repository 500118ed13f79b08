package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/signmatch/internal/gesture"
	"github.com/ayusman/signmatch/internal/ingest"
)

// MatchHandler ranks a query recording against the sign library.
type MatchHandler struct {
	registry  Registry
	converter *ingest.Converter
	topK      int
}

// NewMatchHandler creates a new MatchHandler returning topK matches when
// the request does not say otherwise.
func NewMatchHandler(registry Registry, converter *ingest.Converter, topK int) *MatchHandler {
	return &MatchHandler{registry: registry, converter: converter, topK: topK}
}

type matchRequest struct {
	Recording *ingest.Request `json:"recording"`
	TopK      *int            `json:"top_k"`
}

type matchResponse struct {
	Matches []gesture.Match `json:"matches"`
}

// ServeHTTP handles POST /api/match.
func (h *MatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req matchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Recording == nil {
		writeError(w, http.StatusBadRequest, "Recording is required")
		return
	}

	topK := h.topK
	if req.TopK != nil {
		topK = *req.TopK
	}

	rec, err := h.converter.Recording("", req.Recording)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	matches, err := h.registry.Match(r.Context(), rec, topK)
	if err != nil {
		switch {
		case errors.Is(err, gesture.ErrInvalidProfile):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusGatewayTimeout, "Matching timed out")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to match")
		}
		return
	}
	if matches == nil {
		matches = []gesture.Match{}
	}

	writeJSON(w, http.StatusOK, matchResponse{Matches: matches})
}
