package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bz888/saturday/internal/api/server/client"
	"github.com/bz888/saturday/internal/catalog"
	"github.com/bz888/saturday/internal/logger"
)

type Handler struct {
	ollamaClient client.OllamaClientInterface
	model        string
}

// NewHandler builds the relay handlers. model is the upstream model every
// chat is sent to; clients never choose it.
func NewHandler(ollamaClient client.OllamaClientInterface, model string) *Handler {
	return &Handler{
		ollamaClient: ollamaClient,
		model:        model,
	}
}

func (h *Handler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, client.Status{PortWorking: true, ServerWorking: true})
}

// ModelHandler lists the models installed on the upstream server.
func (h *Handler) ModelHandler(w http.ResponseWriter, r *http.Request) {
	localLogger := logger.NewLogger("ModelHandler")

	models, err := h.ollamaClient.GetModels(r.Context())
	if err != nil {
		localLogger.Error("Failed to fetch models: ", err)
		http.Error(w, "Failed to fetch models", http.StatusInternalServerError)
		return
	}

	names := make([]string, len(models))
	for i, model := range models {
		names[i] = model.Name
	}
	writeJSON(w, names)
}

func (h *Handler) GalleryHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, catalog.Models())
}

func (h *Handler) ToolsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, catalog.Tools(catalog.ToolQuery{
		Q:    q.Get("q"),
		Kind: q.Get("kind"),
		Tag:  q.Get("tag"),
	}))
}

func (h *Handler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sessions, err := catalog.History(catalog.HistoryQuery{
		Q:     q.Get("q"),
		Model: q.Get("model"),
		Sort:  catalog.Sort(q.Get("sort")),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, sessions)
}

// WorkflowView is the demo run view: runs, the DAG and the filtered timeline.
type WorkflowView struct {
	Runs   []catalog.Run   `json:"runs"`
	Nodes  []catalog.Node  `json:"nodes"`
	Edges  []catalog.Edge  `json:"edges"`
	Events []catalog.Event `json:"events"`
}

func (h *Handler) WorkflowHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	nodes, edges := catalog.Graph()
	writeJSON(w, WorkflowView{
		Runs:  catalog.Runs(),
		Nodes: nodes,
		Edges: edges,
		Events: catalog.Events(catalog.EventQuery{
			Q:     q.Get("q"),
			Level: q.Get("level"),
		}),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response: "+err.Error(), http.StatusInternalServerError)
	}
}
