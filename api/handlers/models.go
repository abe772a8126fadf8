package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/caldera-labs/agentgraph/api"
	"github.com/caldera-labs/agentgraph/llm"
)

// modelListTimeout 查询后端模型清单的超时时间。
const modelListTimeout = 5 * time.Second

// =============================================================================
// 📦 模型清单处理器
// =============================================================================

// ModelsHandler 返回后端当前可用的模型。后端不可达时退回
// 配置的静态模型清单，全部标记为可用。
type ModelsHandler struct {
	backend  llm.Backend
	fallback []string
	logger   *zap.Logger
}

// NewModelsHandler 创建模型清单处理器
func NewModelsHandler(backend llm.Backend, fallback []string, logger *zap.Logger) *ModelsHandler {
	return &ModelsHandler{
		backend:  backend,
		fallback: fallback,
		logger:   logger.With(zap.String("handler", "models")),
	}
}

// HandleList 列出模型
// GET /api/models
func (h *ModelsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), modelListTimeout)
	defer cancel()

	models, err := h.backend.ListModels(ctx)
	if err != nil {
		h.logger.Warn("backend model listing failed, using fallback roster", zap.Error(err))
		WriteJSON(w, http.StatusOK, h.fallbackResponse())
		return
	}

	entries := make([]api.ModelEntry, 0, len(models))
	for _, m := range models {
		entries = append(entries, api.ModelEntry{Name: m.Name, Available: m.Available})
	}
	if len(entries) == 0 {
		WriteJSON(w, http.StatusOK, h.fallbackResponse())
		return
	}
	WriteJSON(w, http.StatusOK, api.ModelsResponse{Models: entries})
}

func (h *ModelsHandler) fallbackResponse() api.ModelsResponse {
	entries := make([]api.ModelEntry, 0, len(h.fallback))
	for _, name := range h.fallback {
		entries = append(entries, api.ModelEntry{Name: name, Available: true})
	}
	return api.ModelsResponse{Models: entries}
}
