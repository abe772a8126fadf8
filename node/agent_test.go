package node

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/caldera-labs/agentgraph/llm"
	"github.com/caldera-labs/agentgraph/types"
)

// fakeBackend returns a scripted response or error for every call.
type fakeBackend struct {
	response string
	err      error
	lastReq  *llm.GenerateRequest
}

func (f *fakeBackend) Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{Response: f.response}, nil
}

func (f *fakeBackend) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	return nil, errors.New("not implemented")
}

func agentDef(id string, role types.AgentRole) types.NodeDefinition {
	return types.NodeDefinition{
		ID:           id,
		Kind:         types.NodeKindAgent,
		AgentRole:    role,
		Model:        "mistral",
		Instructions: "You are a " + string(role) + " agent.",
	}
}

func TestAgentNode_PlannerParsesSteps(t *testing.T) {
	backend := &fakeBackend{response: "Intro line\nStep 1: fetch data\nStep 2: summarize\n- double check\nclosing remark"}
	n := NewAgentNode(agentDef("planner-1", types.RolePlanner), backend, zap.NewNop())

	out := n.Execute(context.Background(), map[string]any{"query": "summarize the report"})

	require.True(t, out.Success)
	result, ok := out.ResultMap()
	require.True(t, ok)
	assert.Equal(t, "plan", result["type"])
	assert.Equal(t, []string{"Step 1: fetch data", "Step 2: summarize", "- double check"}, result["steps"])
	assert.Equal(t, 3, result["num_steps"])
	assert.Contains(t, backend.lastReq.Prompt, "summarize the report")
}

func TestAgentNode_PlannerFallbackStep(t *testing.T) {
	backend := &fakeBackend{response: "I would just do it in one go."}
	n := NewAgentNode(agentDef("planner-1", types.RolePlanner), backend, zap.NewNop())

	out := n.Execute(context.Background(), map[string]any{"input": "task"})

	result, _ := out.ResultMap()
	assert.Equal(t, []string{"Execute the planned task"}, result["steps"])
	assert.Equal(t, 1, result["num_steps"])
}

func TestAgentNode_SoftFailOnBackendError(t *testing.T) {
	backend := &fakeBackend{err: errors.New("connection refused")}

	for role, prefix := range map[types.AgentRole]string{
		types.RolePlanner:  "Error generating plan:",
		types.RoleExecutor: "Error executing task:",
		types.RoleReviewer: "Error evaluating results:",
	} {
		n := NewAgentNode(agentDef("a1", role), backend, zap.NewNop())
		out := n.Execute(context.Background(), map[string]any{"input": "x"})

		// Soft-fail: backend errors never fail the run.
		require.True(t, out.Success, "role %s must soft-fail", role)
		result, _ := out.ResultMap()

		var text string
		switch role {
		case types.RolePlanner:
			text = result["plan"].(string)
		case types.RoleExecutor:
			text = result["result"].(string)
		case types.RoleReviewer:
			text = result["feedback"].(string)
		}
		assert.True(t, strings.HasPrefix(text, prefix), "role %s: got %q", role, text)
	}
}

func TestAgentNode_ReviewerApproval(t *testing.T) {
	cases := []struct {
		name     string
		response string
		approved bool
	}{
		{"leading yes uppercase", "YES, looks good", true},
		{"yes within window", strings.Repeat("a", 90) + " yes ok", true},
		{"yes beyond window", strings.Repeat("a", 100) + " yes this works", false},
		{"no approval", "NO. The result is incomplete.", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := &fakeBackend{response: tc.response}
			n := NewAgentNode(agentDef("rev", types.RoleReviewer), backend, zap.NewNop())

			out := n.Execute(context.Background(), map[string]any{"task": "t"})

			result, _ := out.ResultMap()
			assert.Equal(t, tc.approved, result["approved"])
			assert.Equal(t, tc.response, result["feedback"])
		})
	}
}

func TestAgentNode_ExecutorCarriesTask(t *testing.T) {
	backend := &fakeBackend{response: "done"}
	n := NewAgentNode(agentDef("exec", types.RoleExecutor), backend, zap.NewNop())

	out := n.Execute(context.Background(), map[string]any{
		"task":             "ship it",
		"previous_results": []any{map[string]any{"step": "planning"}},
	})

	require.True(t, out.Success)
	result, _ := out.ResultMap()
	assert.Equal(t, "ship it", result["task"])
	assert.Equal(t, "done", result["result"])
	assert.Contains(t, backend.lastReq.Prompt, "ship it")
	assert.Contains(t, backend.lastReq.Prompt, "planning")
}
