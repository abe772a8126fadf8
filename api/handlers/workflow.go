package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/caldera-labs/agentgraph/api"
	"github.com/caldera-labs/agentgraph/internal/cache"
	"github.com/caldera-labs/agentgraph/store"
	"github.com/caldera-labs/agentgraph/types"
)

// =============================================================================
// 📦 工作流管理处理器
// =============================================================================

// WorkflowHandler 处理工作流定义的增删查请求。
type WorkflowHandler struct {
	store  store.Store
	cache  *cache.Manager // 可为 nil，禁用缓存时
	logger *zap.Logger
}

// NewWorkflowHandler 创建工作流处理器
func NewWorkflowHandler(st store.Store, cacheMgr *cache.Manager, logger *zap.Logger) *WorkflowHandler {
	return &WorkflowHandler{
		store:  st,
		cache:  cacheMgr,
		logger: logger.With(zap.String("handler", "workflow")),
	}
}

// HandleCreate 创建工作流
// POST /api/workflows
func (h *WorkflowHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req api.CreateWorkflowRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, err, h.logger)
		return
	}

	wf := req.Workflow()
	if err := h.store.CreateWorkflow(r.Context(), wf); err != nil {
		WriteError(w, types.NewInternalError("failed to create workflow", err), h.logger)
		return
	}

	if h.cache != nil {
		if err := h.cache.PutWorkflow(r.Context(), wf); err != nil {
			h.logger.Warn("workflow cache write failed", zap.String("workflow_id", wf.ID), zap.Error(err))
		}
	}

	h.logger.Info("workflow created",
		zap.String("workflow_id", wf.ID),
		zap.String("name", wf.Name),
		zap.Int("nodes", len(wf.Nodes)),
		zap.Int("edges", len(wf.Edges)),
	)
	WriteJSON(w, http.StatusCreated, wf)
}

// HandleList 列出工作流
// GET /api/workflows
func (h *WorkflowHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	workflows, err := h.store.ListWorkflows(r.Context())
	if err != nil {
		WriteError(w, types.NewInternalError("failed to list workflows", err), h.logger)
		return
	}
	if workflows == nil {
		workflows = []*types.Workflow{}
	}
	WriteJSON(w, http.StatusOK, workflows)
}

// HandleGet 获取单个工作流
// GET /api/workflows/{id}
func (h *WorkflowHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if h.cache != nil {
		if wf, err := h.cache.GetWorkflow(r.Context(), id); err == nil {
			WriteJSON(w, http.StatusOK, wf)
			return
		} else if !cache.IsCacheMiss(err) {
			h.logger.Warn("workflow cache read failed", zap.String("workflow_id", id), zap.Error(err))
		}
	}

	wf, err := h.store.GetWorkflow(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, types.NewNotFoundError(types.ErrWorkflowNotFound, "Workflow not found"), h.logger)
			return
		}
		WriteError(w, types.NewInternalError("failed to get workflow", err), h.logger)
		return
	}

	if h.cache != nil {
		if err := h.cache.PutWorkflow(r.Context(), wf); err != nil {
			h.logger.Warn("workflow cache write failed", zap.String("workflow_id", id), zap.Error(err))
		}
	}

	WriteJSON(w, http.StatusOK, wf)
}

// HandleDelete 删除工作流
// DELETE /api/workflows/{id}
func (h *WorkflowHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.store.DeleteWorkflow(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, types.NewNotFoundError(types.ErrWorkflowNotFound, "Workflow not found"), h.logger)
			return
		}
		WriteError(w, types.NewInternalError("failed to delete workflow", err), h.logger)
		return
	}

	if h.cache != nil {
		if err := h.cache.InvalidateWorkflow(r.Context(), id); err != nil {
			h.logger.Warn("workflow cache invalidation failed", zap.String("workflow_id", id), zap.Error(err))
		}
	}

	h.logger.Info("workflow deleted", zap.String("workflow_id", id))
	WriteJSON(w, http.StatusOK, api.DeleteWorkflowResponse{Message: "Workflow deleted successfully"})
}
