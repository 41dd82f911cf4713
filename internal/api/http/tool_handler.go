package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"toolshare-backend/internal/service"
)

type ToolHandler struct {
	tools service.ToolService
}

func NewToolHandler(tools service.ToolService) *ToolHandler {
	return &ToolHandler{tools: tools}
}

func (h *ToolHandler) GetTool(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	tool, err := h.tools.GetTool(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrToolNotFound) {
			writeError(w, http.StatusNotFound, "TOOL_NOT_FOUND", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tool)
}

func (h *ToolHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	tools, total, err := h.tools.ListTools(r.Context(), category, page, pageSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tools": tools,
		"total": total,
		"page":  page,
	})
}
