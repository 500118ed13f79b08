package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/signmatch/internal/store"
)

// SignHandler handles HTTP requests for sign resources.
type SignHandler struct {
	store    *store.Store
	registry Registry
	logger   *slog.Logger
}

// NewSignHandler creates a new SignHandler. Changes to signs are
// propagated to registry.
func NewSignHandler(s *store.Store, registry Registry, logger *slog.Logger) *SignHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SignHandler{store: s, registry: registry, logger: logger}
}

// ServeHTTP routes /api/signs and /api/signs/{id}.
func (h *SignHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/signs")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if strings.Contains(path, "/") {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createSignRequest struct {
	Name      string `json:"name"`
	OneHanded *bool  `json:"one_handed"`
}

type updateSignRequest struct {
	Name      string `json:"name"`
	OneHanded *bool  `json:"one_handed"`
}

type signResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	OneHanded  bool   `json:"one_handed"`
	FrameCount int    `json:"frame_count"`
	Recordings int    `json:"recordings"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type listSignsResponse struct {
	Signs []signResponse `json:"signs"`
}

func toResponse(sg *store.Sign) signResponse {
	return signResponse{
		ID:         sg.ID,
		Name:       sg.Name,
		OneHanded:  sg.OneHanded,
		FrameCount: sg.FrameCount,
		Recordings: sg.Recordings,
		CreatedAt:  sg.CreatedAt.Format(timeFormat),
		UpdatedAt:  sg.UpdatedAt.Format(timeFormat),
	}
}

// list handles GET /api/signs.
func (h *SignHandler) list(w http.ResponseWriter, r *http.Request) {
	signs, err := h.store.Signs().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list signs")
		return
	}

	response := listSignsResponse{
		Signs: make([]signResponse, 0, len(signs)),
	}
	for _, sg := range signs {
		response.Signs = append(response.Signs, toResponse(sg))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/signs/{id}.
func (h *SignHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	sg, err := h.store.Signs().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Sign not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get sign")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(sg))
}

// create handles POST /api/signs. Signs are one-handed unless stated.
func (h *SignHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if h.nameTaken(req.Name, "") {
		writeError(w, http.StatusConflict, "Sign name already exists")
		return
	}

	sg := &store.Sign{
		ID:        uuid.New().String(),
		Name:      req.Name,
		OneHanded: req.OneHanded == nil || *req.OneHanded,
	}

	if err := h.store.Signs().Create(sg); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create sign")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(sg))
}

// update handles PUT /api/signs/{id}.
func (h *SignHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	sg, err := h.store.Signs().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Sign not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get sign")
		return
	}

	var req updateSignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name != "" && req.Name != sg.Name {
		if h.nameTaken(req.Name, id) {
			writeError(w, http.StatusConflict, "Sign name already exists")
			return
		}
		sg.Name = req.Name
	}
	if req.OneHanded != nil {
		sg.OneHanded = *req.OneHanded
	}

	if err := h.store.Signs().Update(sg); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update sign")
		return
	}

	// A handedness change invalidates stored features until re-recorded
	if err := h.registry.Reload(id); err != nil {
		h.logger.Warn("sign no longer matchable", "sign", sg.Name, "error", err)
	}

	writeJSON(w, http.StatusOK, toResponse(sg))
}

// delete handles DELETE /api/signs/{id}.
func (h *SignHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Signs().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Sign not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete sign")
		return
	}
	h.registry.Unregister(id)

	w.WriteHeader(http.StatusNoContent)
}

func (h *SignHandler) nameTaken(name, exceptID string) bool {
	sg, err := h.store.Signs().GetByName(name)
	return err == nil && sg.ID != exceptID
}
