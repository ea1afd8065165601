package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fayaebeb/mirai-app-sub001/internal/ctxkeys"
	"github.com/fayaebeb/mirai-app-sub001/internal/model"
	"github.com/fayaebeb/mirai-app-sub001/internal/repository"
	"github.com/fayaebeb/mirai-app-sub001/internal/service"
)

type MindMapHandler struct {
	mindMapService *service.MindMapService
}

func NewMindMapHandler(mindMapService *service.MindMapService) *MindMapHandler {
	return &MindMapHandler{
		mindMapService: mindMapService,
	}
}

func (h *MindMapHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	maps, err := h.mindMapService.MindMaps(user.ID)
	if err != nil {
		slog.Error("failed to get mind maps", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to load mind maps")
		return
	}
	if maps == nil {
		maps = []*model.MindMap{}
	}

	writeJSON(w, http.StatusOK, maps)
}

type generateMindMapRequest struct {
	Topic string `json:"topic"`
}

func (h *MindMapHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req generateMindMapRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	m, err := h.mindMapService.Generate(r.Context(), user.ID, req.Topic)
	if err != nil {
		if errors.Is(err, service.ErrTopicRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to generate mind map", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to generate mind map")
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

func (h *MindMapHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	mapID := r.PathValue("id")

	if err := h.mindMapService.Delete(user.ID, mapID); err != nil {
		if errors.Is(err, repository.ErrMindMapNotFound) {
			writeError(w, http.StatusNotFound, "Mind map not found")
			return
		}
		slog.Error("failed to delete mind map", "error", err, "user_id", user.ID, "map_id", mapID)
		writeError(w, http.StatusInternalServerError, "Failed to delete mind map")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
