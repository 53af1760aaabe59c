package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"product-panel/internal/export"
	"product-panel/internal/model"
	"product-panel/internal/panel"
	"product-panel/internal/service"

	"github.com/rs/zerolog"
)

// PanelService is the part of the panel the HTTP surface depends on.
type PanelService interface {
	View() panel.View
	SetSource(ctx context.Context, locator string) (<-chan struct{}, error)
	Subscribe() (<-chan service.State, func())
}

// maxSourceBodyBytes caps the PUT /api/panel/source body.
const maxSourceBodyBytes = 4 << 10

// SourceRequest is the body of PUT /api/panel/source.
type SourceRequest struct {
	URL string `json:"url"`
}

// SourceResponse acknowledges a source change.
type SourceResponse struct {
	Source string `json:"source"`
}

// PanelHandler handles panel-related HTTP requests.
type PanelHandler struct {
	panel  PanelService
	logger zerolog.Logger
}

// NewPanelHandler creates a new panel handler.
func NewPanelHandler(panel PanelService, logger zerolog.Logger) *PanelHandler {
	return &PanelHandler{
		panel:  panel,
		logger: logger.With().Str("handler", "panel").Logger(),
	}
}

// View handles GET /api/panel requests.
func (h *PanelHandler) View(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.panel.View())
}

// Page handles GET /panel requests.
func (h *PanelHandler) Page(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var buf bytes.Buffer
	if err := panel.Render(&buf, h.panel.View()); err != nil {
		h.logger.Error().Err(err).Msg("failed to render panel page")
		writeError(w, r, http.StatusInternalServerError, "failed to render panel", h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Export handles GET /api/panel/export.xlsx requests.
func (h *PanelHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	view := h.panel.View()
	if !view.ShowTable {
		writeError(w, r, http.StatusConflict, model.ErrNoPayload.Error(), h.logger)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, view.Table); err != nil {
		h.logger.Error().Err(err).Msg("failed to export products")
		writeError(w, r, http.StatusInternalServerError, "failed to export products", h.logger)
		return
	}

	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", `attachment; filename="products.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// SetSource handles PUT /api/panel/source requests.
func (h *PanelHandler) SetSource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSourceBodyBytes)

	var req SourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large", h.logger)
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	// The fetch outlives this request.
	if _, err := h.panel.SetSource(context.WithoutCancel(r.Context()), req.URL); err != nil {
		if errors.Is(err, model.ErrInvalidSource) {
			writeError(w, r, http.StatusBadRequest, err.Error(), h.logger)
			return
		}
		writeError(w, r, http.StatusInternalServerError, "failed to change source", h.logger)
		return
	}

	writeJSON(w, http.StatusAccepted, SourceResponse{Source: req.URL})
}

// Events handles GET /api/panel/events requests as a server-sent event stream.
// Each event carries the full panel view as JSON.
func (h *PanelHandler) Events(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming unsupported", h.logger)
		return
	}

	updates, cancel := h.panel.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			data, err := json.Marshal(h.panel.View())
			if err != nil {
				h.logger.Error().Err(err).Msg("failed to encode panel view")
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				h.logger.Debug().Err(err).Msg("event stream closed")
				return
			}
			flusher.Flush()
		}
	}
}

// Health handles GET /health requests.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
