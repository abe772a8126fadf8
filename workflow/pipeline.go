package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/caldera-labs/agentgraph/node"
	"github.com/caldera-labs/agentgraph/types"
)

// fallbackPlan is the plan text used when no planner role is present.
const fallbackPlan = "Execute task directly"

// Pipeline is the legacy fixed-stage variant used when a workflow
// supplies agents but no explicit edge graph. It always runs
// planner → executor → reviewer for whichever roles are present:
// an absent planner yields a literal fallback plan, an absent executor
// echoes the plan, and an absent reviewer auto-approves.
type Pipeline struct {
	agents map[types.AgentRole]*node.AgentNode
	logger *zap.Logger
}

// NewPipeline builds a pipeline from agent nodes. When a role appears
// more than once the last definition wins.
func NewPipeline(agents []*node.AgentNode, logger *zap.Logger) *Pipeline {
	byRole := make(map[types.AgentRole]*node.AgentNode, len(agents))
	for _, a := range agents {
		byRole[a.Role()] = a
	}
	return &Pipeline{
		agents: byRole,
		logger: logger.With(zap.String("component", "pipeline")),
	}
}

// Run executes the fixed stages and returns the run result. Exceptions
// anywhere in the three stages are recovered once and fail the run.
func (p *Pipeline) Run(ctx context.Context, input, workflowContext string) (result Result) {
	result.Status = types.StatusRunning
	result.Approved = true

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline panicked", zap.Any("panic", r))
			result.Status = types.StatusFailed
			result.Error = fmt.Sprintf("%v", r)
		}
	}()

	plan := fallbackPlan
	if planner, ok := p.agents[types.RolePlanner]; ok {
		outcome := planner.Execute(ctx, map[string]any{
			"query":   input,
			"context": workflowContext,
		})
		result.Steps = append(result.Steps, types.StepRecord{
			NodeID:   planner.ID(),
			NodeKind: types.NodeKindAgent,
			Result:   outcome,
		})
		if m, ok := outcome.ResultMap(); ok {
			if s, ok := m["plan"].(string); ok {
				plan = s
			}
		}
	}

	output := plan
	if executor, ok := p.agents[types.RoleExecutor]; ok {
		outcome := executor.Execute(ctx, map[string]any{
			"task":             input,
			"previous_results": result.Steps,
		})
		result.Steps = append(result.Steps, types.StepRecord{
			NodeID:   executor.ID(),
			NodeKind: types.NodeKindAgent,
			Result:   outcome,
		})
		if m, ok := outcome.ResultMap(); ok {
			if s, ok := m["result"].(string); ok {
				output = s
			}
		}
	}

	if reviewer, ok := p.agents[types.RoleReviewer]; ok {
		outcome := reviewer.Execute(ctx, map[string]any{
			"task":    input,
			"results": result.Steps,
		})
		result.Steps = append(result.Steps, types.StepRecord{
			NodeID:   reviewer.ID(),
			NodeKind: types.NodeKindAgent,
			Result:   outcome,
		})
		if m, ok := outcome.ResultMap(); ok {
			if approved, ok := m["approved"].(bool); ok {
				result.Approved = approved
			}
		}
	}

	result.FinalOutput = output
	if result.Approved {
		result.Status = types.StatusCompleted
	} else {
		result.Status = types.StatusNeedsRevision
	}

	p.logger.Info("pipeline finished",
		zap.String("status", string(result.Status)),
		zap.Int("steps", len(result.Steps)),
	)

	return result
}
