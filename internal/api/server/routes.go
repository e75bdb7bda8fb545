package server

import (
	"net/http"

	"github.com/bz888/saturday/internal/api/server/handlers"
)

// ChatRoute is the relay endpoint chat clients post to.
const ChatRoute = "/api/chat"

func registerRoutes(mux *http.ServeMux, handler *handlers.Handler) {
	mux.HandleFunc("POST "+ChatRoute, handler.RelayHandler)
	mux.HandleFunc("GET /api/models", handler.ModelHandler)
	mux.HandleFunc("GET /api/catalog/models", handler.GalleryHandler)
	mux.HandleFunc("GET /api/catalog/tools", handler.ToolsHandler)
	mux.HandleFunc("GET /api/catalog/history", handler.HistoryHandler)
	mux.HandleFunc("GET /api/catalog/workflow", handler.WorkflowHandler)
	mux.HandleFunc("GET /status", handler.StatusHandler)
}
