package api

import (
	"github.com/caldera-labs/agentgraph/types"
)

// =============================================================================
// 工作流管理类型
// =============================================================================

// CreateWorkflowRequest 创建工作流请求。
// @Description 工作流创建请求结构
type CreateWorkflowRequest struct {
	// 工作流名称
	Name string `json:"name" example:"research-pipeline" binding:"required"`
	// 工作流描述
	Description string `json:"description,omitempty" example:"Plan, execute and review a research task"`
	// 节点定义列表
	Nodes []types.NodeDefinition `json:"nodes,omitempty"`
	// 边定义列表（为空时按固定管线执行）
	Edges []types.EdgeDefinition `json:"edges,omitempty"`
}

// Validate 校验创建请求的必填字段。
func (r *CreateWorkflowRequest) Validate() *types.Error {
	if r.Name == "" {
		return types.NewInvalidRequestError("workflow name is required")
	}
	ids := make(map[string]struct{}, len(r.Nodes))
	for _, n := range r.Nodes {
		if n.ID == "" {
			return types.NewInvalidRequestError("node id is required")
		}
		if _, dup := ids[n.ID]; dup {
			return types.NewInvalidRequestError("duplicate node id: " + n.ID)
		}
		ids[n.ID] = struct{}{}
	}
	for _, e := range r.Edges {
		if e.Source == "" || e.Target == "" {
			return types.NewInvalidRequestError("edge source and target are required")
		}
	}
	return nil
}

// Workflow 将请求转换为待持久化的工作流定义。
func (r *CreateWorkflowRequest) Workflow() *types.Workflow {
	return &types.Workflow{
		Name:        r.Name,
		Description: r.Description,
		Nodes:       r.Nodes,
		Edges:       r.Edges,
	}
}

// DeleteWorkflowResponse 删除工作流响应。
type DeleteWorkflowResponse struct {
	Message string `json:"message" example:"Workflow deleted successfully"`
}

// =============================================================================
// 工作流执行类型
// =============================================================================

// ExecuteWorkflowRequest 执行工作流请求。
// @Description 工作流执行请求结构
type ExecuteWorkflowRequest struct {
	// 要执行的工作流 ID
	WorkflowID string `json:"workflow_id" example:"wf-123" binding:"required"`
	// 用户输入
	Input string `json:"input" example:"Summarize the latest results" binding:"required"`
	// 附加执行上下文
	Context map[string]any `json:"context,omitempty"`
}

// Validate 校验执行请求的必填字段。
func (r *ExecuteWorkflowRequest) Validate() *types.Error {
	if r.WorkflowID == "" {
		return types.NewInvalidRequestError("workflow_id is required")
	}
	if r.Input == "" {
		return types.NewInvalidRequestError("input is required")
	}
	return nil
}

// =============================================================================
// 服务信息类型
// =============================================================================

// ServiceInfo 服务横幅响应。
type ServiceInfo struct {
	Service string `json:"service" example:"Multi-Agent AI Workflow Engine"`
	Version string `json:"version" example:"1.0.0"`
	Status  string `json:"status" example:"running"`
}

// ModelsResponse 模型清单响应。
type ModelsResponse struct {
	Models []ModelEntry `json:"models"`
}

// ModelEntry 单个模型条目。
type ModelEntry struct {
	Name      string `json:"name" example:"mistral"`
	Available bool   `json:"available" example:"true"`
}
