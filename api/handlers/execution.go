package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/caldera-labs/agentgraph/api"
	"github.com/caldera-labs/agentgraph/internal/cache"
	"github.com/caldera-labs/agentgraph/internal/metrics"
	"github.com/caldera-labs/agentgraph/llm"
	"github.com/caldera-labs/agentgraph/node"
	"github.com/caldera-labs/agentgraph/store"
	"github.com/caldera-labs/agentgraph/types"
	"github.com/caldera-labs/agentgraph/workflow"
)

// =============================================================================
// 📦 工作流执行处理器
// =============================================================================

// ExecutionHandler 处理工作流执行与执行历史查询。
// 有边的工作流走图执行器，无边的走固定 agent 管线。
type ExecutionHandler struct {
	store   store.Store
	cache   *cache.Manager      // 可为 nil
	metrics *metrics.Collector  // 可为 nil
	backend llm.Backend
	logger  *zap.Logger
}

// NewExecutionHandler 创建执行处理器
func NewExecutionHandler(st store.Store, cacheMgr *cache.Manager, collector *metrics.Collector, backend llm.Backend, logger *zap.Logger) *ExecutionHandler {
	return &ExecutionHandler{
		store:   st,
		cache:   cacheMgr,
		metrics: collector,
		backend: backend,
		logger:  logger.With(zap.String("handler", "execution")),
	}
}

// HandleExecute 执行工作流
// POST /api/workflows/execute
func (h *ExecutionHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	var req api.ExecuteWorkflowRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, err, h.logger)
		return
	}

	wf, apiErr := h.loadWorkflow(r.Context(), req.WorkflowID)
	if apiErr != nil {
		WriteError(w, apiErr, h.logger)
		return
	}

	start := time.Now()
	var result workflow.Result
	if wf.HasEdges() {
		registry := node.Build(wf.Nodes, h.backend, h.logger)
		executor := workflow.NewExecutor(registry, h.logger).WithMetrics(h.metrics)
		result = executor.Run(r.Context(), req.Input, wf.Edges, startNodeID(wf))
	} else {
		pipeline := workflow.NewPipeline(h.buildPipelineAgents(wf), h.logger)
		result = pipeline.Run(r.Context(), req.Input, renderContext(req.Context))
	}

	if h.metrics != nil {
		h.metrics.RecordWorkflowExecution(wf.ID, string(result.Status), time.Since(start))
	}

	record := &types.ExecutionRecord{
		WorkflowID:  wf.ID,
		Status:      result.Status,
		Input:       req.Input,
		Steps:       result.Steps,
		FinalOutput: result.FinalOutput,
		Error:       result.Error,
	}
	if err := h.store.CreateExecution(r.Context(), record); err != nil {
		WriteError(w, types.NewInternalError("failed to persist execution", err), h.logger)
		return
	}

	h.logger.Info("workflow executed",
		zap.String("workflow_id", wf.ID),
		zap.String("execution_id", record.ExecutionID),
		zap.String("status", string(record.Status)),
		zap.Int("steps", len(record.Steps)),
		zap.Duration("duration", time.Since(start)),
	)
	WriteJSON(w, http.StatusOK, record)
}

// HandleGet 获取单次执行记录
// GET /api/executions/{id}
func (h *ExecutionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	record, err := h.store.GetExecution(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, types.NewNotFoundError(types.ErrExecutionNotFound, "Execution not found"), h.logger)
			return
		}
		WriteError(w, types.NewInternalError("failed to get execution", err), h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, record)
}

// HandleListByWorkflow 列出某工作流的执行历史（新到旧，最多 50 条）
// GET /api/executions/workflow/{id}
func (h *ExecutionHandler) HandleListByWorkflow(w http.ResponseWriter, r *http.Request) {
	workflowID := r.PathValue("id")

	records, err := h.store.ListExecutionsByWorkflow(r.Context(), workflowID)
	if err != nil {
		WriteError(w, types.NewInternalError("failed to list executions", err), h.logger)
		return
	}
	if records == nil {
		records = []*types.ExecutionRecord{}
	}
	WriteJSON(w, http.StatusOK, records)
}

// =============================================================================
// 🔧 内部辅助
// =============================================================================

// loadWorkflow 读穿缓存加载工作流定义。
func (h *ExecutionHandler) loadWorkflow(ctx context.Context, id string) (*types.Workflow, *types.Error) {
	if h.cache != nil {
		wf, err := h.cache.GetWorkflow(ctx, id)
		switch {
		case err == nil:
			if h.metrics != nil {
				h.metrics.RecordCacheHit("workflow")
			}
			return wf, nil
		case cache.IsCacheMiss(err):
			if h.metrics != nil {
				h.metrics.RecordCacheMiss("workflow")
			}
		default:
			h.logger.Warn("workflow cache read failed", zap.String("workflow_id", id), zap.Error(err))
		}
	}

	wf, err := h.store.GetWorkflow(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, types.NewNotFoundError(types.ErrWorkflowNotFound, "Workflow not found")
		}
		return nil, types.NewInternalError("failed to get workflow", err)
	}

	if h.cache != nil {
		if err := h.cache.PutWorkflow(ctx, wf); err != nil {
			h.logger.Warn("workflow cache write failed", zap.String("workflow_id", id), zap.Error(err))
		}
	}
	return wf, nil
}

// buildPipelineAgents 将 agent 节点定义实例化为管线 agent，
// 缺省角色按 executor 补齐，缺省指令按角色生成。
func (h *ExecutionHandler) buildPipelineAgents(wf *types.Workflow) []*node.AgentNode {
	defs := wf.AgentNodes()
	agents := make([]*node.AgentNode, 0, len(defs))
	for _, def := range defs {
		if def.AgentRole == "" {
			def.AgentRole = types.RoleExecutor
		}
		if def.Instructions == "" {
			def.Instructions = fmt.Sprintf("You are a %s agent.", def.AgentRole)
		}
		agents = append(agents, node.NewAgentNode(def, h.backend, h.logger))
	}
	return agents
}

// startNodeID 返回图的入口节点 ID，没有 start 节点时为空。
func startNodeID(wf *types.Workflow) string {
	for _, n := range wf.Nodes {
		if n.Kind == types.NodeKindStart {
			return n.ID
		}
	}
	return ""
}

// renderContext 将执行上下文序列化为提示词可用的字符串。
func renderContext(ctx map[string]any) string {
	if len(ctx) == 0 {
		return ""
	}
	data, err := json.Marshal(ctx)
	if err != nil {
		return fmt.Sprintf("%v", ctx)
	}
	return string(data)
}
