package router

import (
	"net/http"

	"product-panel/internal/handler"
	"product-panel/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(panelHandler *handler.PanelHandler, apiKey string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/panel", panelHandler.Page)

	// API routes (API key required)
	mux.HandleFunc("/api/panel", panelHandler.View)
	mux.HandleFunc("/api/panel/export.xlsx", panelHandler.Export)
	mux.HandleFunc("/api/panel/source", panelHandler.SetSource)
	mux.HandleFunc("/api/panel/events", panelHandler.Events)

	// Apply middleware in order: Recovery -> Logging -> CorrelationID -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.CorrelationID(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
