package node

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/caldera-labs/agentgraph/llm"
	"github.com/caldera-labs/agentgraph/types"
)

// approvalWindow is the number of leading characters of a reviewer
// response that are scanned for the literal "yes". The crude heuristic is
// kept verbatim for compatibility with existing reviewer prompts.
const approvalWindow = 100

// fallbackStep is the synthetic plan step used when the planner response
// contains no parseable step lines.
const fallbackStep = "Execute the planned task"

// AgentNode is an LLM-backed workflow step. Backend failures never fail
// the run: they are folded into a successful outcome whose text starts
// with an "Error ..." prefix, so downstream nodes keep executing.
type AgentNode struct {
	id           string
	role         types.AgentRole
	model        string
	instructions string
	backend      llm.Backend
	logger       *zap.Logger
}

// NewAgentNode creates an agent node from its definition.
func NewAgentNode(def types.NodeDefinition, backend llm.Backend, logger *zap.Logger) *AgentNode {
	model := def.Model
	if model == "" {
		model = "mistral"
	}

	return &AgentNode{
		id:           def.ID,
		role:         def.AgentRole,
		model:        model,
		instructions: def.Instructions,
		backend:      backend,
		logger:       logger.With(zap.String("component", "agent_node"), zap.String("node_id", def.ID)),
	}
}

func (n *AgentNode) ID() string           { return n.id }
func (n *AgentNode) Kind() types.NodeKind { return types.NodeKindAgent }

// Role returns the agent's pipeline role.
func (n *AgentNode) Role() types.AgentRole { return n.role }

// Execute dispatches on the agent role. Unknown roles behave as executors.
func (n *AgentNode) Execute(ctx context.Context, state map[string]any) types.Outcome {
	switch n.role {
	case types.RolePlanner:
		return n.plan(ctx, state)
	case types.RoleReviewer:
		return n.review(ctx, state)
	default:
		return n.execute(ctx, state)
	}
}

// plan generates a step-by-step plan and parses it into discrete steps.
func (n *AgentNode) plan(ctx context.Context, state map[string]any) types.Outcome {
	query := stateString(state, "query")
	if query == "" {
		query = stateString(state, "input")
	}
	context := stateString(state, "context")

	prompt := fmt.Sprintf(`%s

User request:
User query: %s

Context: %s

Generate a detailed, step-by-step plan to accomplish this task. Format each step clearly:
Step 1: [action description]
Step 2: [action description]
...`, n.instructions, query, context)

	plan := n.generate(ctx, prompt, "Error generating plan")
	steps := parsePlanSteps(plan)

	return types.SuccessOutcome(map[string]any{
		"agent_id":  n.id,
		"type":      "plan",
		"plan":      plan,
		"steps":     steps,
		"num_steps": len(steps),
		"status":    "success",
	})
}

// execute carries out the task described by the state.
func (n *AgentNode) execute(ctx context.Context, state map[string]any) types.Outcome {
	task := stateString(state, "task")
	if task == "" {
		task = stateString(state, "input")
	}
	previous := serializeContext(state["previous_results"])

	prompt := fmt.Sprintf(`%s

Task context:
Task: %s

Previous results:
%s

Provide a detailed execution of the task.`, n.instructions, task, previous)

	result := n.generate(ctx, prompt, "Error executing task")

	return types.SuccessOutcome(map[string]any{
		"agent_id": n.id,
		"type":     "execution",
		"task":     task,
		"result":   result,
		"success":  true,
		"status":   "completed",
	})
}

// review evaluates execution results and parses the approval decision.
func (n *AgentNode) review(ctx context.Context, state map[string]any) types.Outcome {
	task := stateString(state, "task")
	if task == "" {
		task = stateString(state, "input")
	}
	results := serializeContext(state["results"])

	prompt := fmt.Sprintf(`%s

Review context:
Task: %s

Execution results:
%s

Provide a detailed review. Is the task completed successfully? Answer YES or NO, then provide feedback.`, n.instructions, task, results)

	review := n.generate(ctx, prompt, "Error evaluating results")

	return types.SuccessOutcome(map[string]any{
		"agent_id":   n.id,
		"type":       "review",
		"approved":   parseApproval(review),
		"feedback":   review,
		"confidence": 0.8,
		"status":     "completed",
	})
}

// generate calls the backend once. Failures are absorbed into the
// returned text with the role-specific error prefix (soft-fail policy).
func (n *AgentNode) generate(ctx context.Context, prompt, errPrefix string) string {
	resp, err := n.backend.Generate(ctx, &llm.GenerateRequest{
		Model:  n.model,
		Prompt: prompt,
	})
	if err != nil {
		n.logger.Warn("backend call failed, soft-failing",
			zap.String("role", string(n.role)),
			zap.Error(err),
		)
		return fmt.Sprintf("%s: %v", errPrefix, err)
	}
	return resp.Response
}

// parsePlanSteps extracts step lines from raw plan text. A line counts as
// a step when it trims to non-empty and starts with "Step" or "-".
func parsePlanSteps(plan string) []string {
	var steps []string
	for _, line := range strings.Split(plan, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "Step") || strings.HasPrefix(line, "-") {
			steps = append(steps, line)
		}
	}
	if len(steps) == 0 {
		return []string{fallbackStep}
	}
	return steps
}

// parseApproval reports whether the reviewer approved. Approval means the
// literal "yes" (case-insensitive) appears within the first 100
// characters of the raw response.
func parseApproval(review string) bool {
	runes := []rune(strings.ToLower(review))
	if len(runes) > approvalWindow {
		runes = runes[:approvalWindow]
	}
	return strings.Contains(string(runes), "yes")
}

// stateString reads a state value as a string, empty when absent.
func stateString(state map[string]any, key string) string {
	v, ok := state[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// serializeContext renders a state value for prompt embedding. Structured
// values are JSON-encoded so the model sees stable formatting.
func serializeContext(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
