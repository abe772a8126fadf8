package types

import "time"

// NodeKind identifies the behavior of a workflow node.
type NodeKind string

const (
	// NodeKindAgent is an LLM-backed agent step.
	NodeKindAgent NodeKind = "agent"
	// NodeKindHTTPRequest performs one outbound HTTP call.
	NodeKindHTTPRequest NodeKind = "http_request"
	// NodeKindDataTransform applies a map/filter/reduce transform to state.
	NodeKindDataTransform NodeKind = "data_transform"
	// NodeKindConditional evaluates a predicate against state.
	NodeKindConditional NodeKind = "conditional"
	// NodeKindWebhook records received state for an external consumer.
	NodeKindWebhook NodeKind = "webhook"
	// NodeKindDelay suspends the run for a configured duration.
	NodeKindDelay NodeKind = "delay"
	// NodeKindStart marks the graph entry; it has no runtime behavior.
	NodeKindStart NodeKind = "start"
	// NodeKindEnd marks the graph exit; it has no runtime behavior.
	NodeKindEnd NodeKind = "end"
)

// AgentRole identifies the stage an agent node plays in a workflow.
type AgentRole string

const (
	// RolePlanner breaks a task into executable steps.
	RolePlanner AgentRole = "planner"
	// RoleExecutor carries out the task.
	RoleExecutor AgentRole = "executor"
	// RoleReviewer judges whether the executed result is acceptable.
	RoleReviewer AgentRole = "reviewer"
)

// NodeDefinition describes one node of a workflow graph.
// Definitions are immutable once the owning workflow is created.
type NodeDefinition struct {
	ID           string         `json:"id" yaml:"id" bson:"id"`
	Kind         NodeKind       `json:"type" yaml:"type" bson:"type"`
	AgentRole    AgentRole      `json:"agent_type,omitempty" yaml:"agent_type,omitempty" bson:"agent_type,omitempty"`
	Model        string         `json:"model,omitempty" yaml:"model,omitempty" bson:"model,omitempty"`
	Instructions string         `json:"instructions,omitempty" yaml:"instructions,omitempty" bson:"instructions,omitempty"`
	Config       map[string]any `json:"config,omitempty" yaml:"config,omitempty" bson:"config,omitempty"`
}

// EdgeDefinition describes a directed must-happen-before dependency
// between two nodes. Condition is captured for forward compatibility but
// is not consulted when building the execution order.
type EdgeDefinition struct {
	ID        string `json:"id" yaml:"id" bson:"id"`
	Source    string `json:"source" yaml:"source" bson:"source"`
	Target    string `json:"target" yaml:"target" bson:"target"`
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty" bson:"condition,omitempty"`
}

// Workflow is a persisted workflow definition. It owns its nodes and
// edges by value and is immutable after creation.
type Workflow struct {
	ID          string           `json:"id" yaml:"id" bson:"id"`
	Name        string           `json:"name" yaml:"name" bson:"name"`
	Description string           `json:"description" yaml:"description" bson:"description"`
	Nodes       []NodeDefinition `json:"nodes" yaml:"nodes" bson:"nodes"`
	Edges       []EdgeDefinition `json:"edges" yaml:"edges" bson:"edges"`
	CreatedAt   time.Time        `json:"created_at" yaml:"created_at" bson:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" yaml:"updated_at" bson:"updated_at"`
}

// HasEdges reports whether the workflow carries an explicit dependency
// graph. Workflows without edges run through the fixed agent pipeline.
func (w *Workflow) HasEdges() bool {
	return len(w.Edges) > 0
}

// AgentNodes returns the agent-kind node definitions in declaration order.
func (w *Workflow) AgentNodes() []NodeDefinition {
	var agents []NodeDefinition
	for _, n := range w.Nodes {
		if n.Kind == NodeKindAgent {
			agents = append(agents, n)
		}
	}
	return agents
}
