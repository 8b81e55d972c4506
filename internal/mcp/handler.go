package mcp

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/wakacore/info-agent-mcp/pkg/types"
)

// Handler adapts the dispatcher to HTTP. Each route is a thin serializer
// around dispatcher/registry state with no protocol logic of its own.
type Handler struct {
	dispatcher *Dispatcher
}

// NewHandler creates the HTTP surface for a dispatcher.
func NewHandler(dispatcher *Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// Routes returns a mux with the four public endpoints.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", h.handleMCP)
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/tools", h.handleTools)
	mux.HandleFunc("/", h.handleIndex)
	return mux
}

func (h *Handler) handleMCP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		body = nil
	}

	resp, status := h.dispatcher.Dispatch(r.Context(), body)
	h.writeJSON(w, status, resp)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	meta := h.dispatcher.Meta()
	h.writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:     "ok",
		Server:     meta.Name,
		Version:    meta.Version,
		ToolsCount: h.dispatcher.Registry().Len(),
	})
}

func (h *Handler) handleTools(w http.ResponseWriter, r *http.Request) {
	registry := h.dispatcher.Registry()
	tools := make([]types.ToolSummary, 0, registry.Len())
	for def := range registry.Tools() {
		tools = append(tools, types.ToolSummary{
			Name:        def.Name,
			Description: def.Description,
		})
	}

	h.writeJSON(w, http.StatusOK, types.ToolsResponse{
		Tools: tools,
		Count: len(tools),
	})
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	meta := h.dispatcher.Meta()
	h.writeJSON(w, http.StatusOK, types.IndexResponse{
		Name:        meta.Name,
		Description: meta.Description,
		Version:     meta.Version,
		Endpoints: map[string]string{
			"mcp":    "/mcp (POST)",
			"health": "/health",
			"tools":  "/tools",
		},
		ToolsCount: h.dispatcher.Registry().Len(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "err", err)
	}
}
