package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/ayusman/signmatch/internal/gesture"
	"github.com/ayusman/signmatch/internal/ingest"
	"github.com/ayusman/signmatch/internal/store"
)

// RecordingsHandler handles HTTP requests for sign recordings.
type RecordingsHandler struct {
	store     *store.Store
	registry  Registry
	converter *ingest.Converter
}

// NewRecordingsHandler creates a new RecordingsHandler.
func NewRecordingsHandler(s *store.Store, registry Registry, converter *ingest.Converter) *RecordingsHandler {
	return &RecordingsHandler{store: s, registry: registry, converter: converter}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/signs/{id}/recording (POST) and
// /api/signs/{id}/recordings (GET).
func (h *RecordingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/signs/")
	parts := strings.Split(path, "/")

	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	signID := parts[0]

	switch {
	case parts[1] == "recording" && r.Method == http.MethodPost:
		h.create(w, r, signID)
	case parts[1] == "recordings" && r.Method == http.MethodGet:
		h.list(w, r, signID)
	case parts[1] == "recording" || parts[1] == "recordings":
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

type recordingResponse struct {
	ID        int64           `json:"id"`
	SignID    string          `json:"sign_id"`
	Data      json.RawMessage `json:"data"`
	CreatedAt string          `json:"created_at"`
}

type listRecordingsResponse struct {
	Recordings []recordingResponse `json:"recordings"`
}

type registerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OneHanded bool   `json:"one_handed"`
	Frames    int    `json:"frames"`
	Patches   int    `json:"patches"`
}

// list handles GET /api/signs/{id}/recordings.
func (h *RecordingsHandler) list(w http.ResponseWriter, r *http.Request, signID string) {
	if _, err := h.store.Signs().GetByID(signID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Sign not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to verify sign")
		return
	}

	recordings, err := h.store.Recordings().GetBySignID(signID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list recordings")
		return
	}

	response := listRecordingsResponse{
		Recordings: make([]recordingResponse, 0, len(recordings)),
	}
	for _, rec := range recordings {
		response.Recordings = append(response.Recordings, recordingResponse{
			ID:        rec.ID,
			SignID:    rec.SignID,
			Data:      rec.Data,
			CreatedAt: rec.CreatedAt.Format(timeFormat),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/signs/{id}/recording: it builds the sign's
// profile from the recording, stores both and makes the sign matchable.
func (h *RecordingsHandler) create(w http.ResponseWriter, r *http.Request, signID string) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	req, err := ingest.Decode(bytes.NewReader(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	rec, err := h.converter.Recording(signID, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.registry.Register(r.Context(), signID, rec, json.RawMessage(body))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Sign not found")
		case errors.Is(err, gesture.ErrInvalidProfile):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to register recording")
		}
		return
	}

	patches := 0
	for _, s := range gesture.Slots {
		if len(p.Patch(s)) > 0 {
			patches++
		}
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		ID:        p.ID,
		Name:      p.Name,
		OneHanded: p.OneHanded,
		Frames:    len(p.Dominant),
		Patches:   patches,
	})
}
