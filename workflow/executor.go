package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/caldera-labs/agentgraph/internal/metrics"
	"github.com/caldera-labs/agentgraph/node"
	"github.com/caldera-labs/agentgraph/types"
)

// Result captures the outcome of one workflow run before it is wrapped
// into a persisted ExecutionRecord.
type Result struct {
	Status      types.ExecutionStatus
	Steps       []types.StepRecord
	FinalOutput string
	Error       string
	// Approved is only meaningful for pipeline runs with a reviewer.
	Approved bool
}

// Executor drives a graph-defined workflow: it walks the topological
// order strictly sequentially, threads the shared state through each
// node, and fail-fasts on the first unsuccessful outcome. The state map
// is owned exclusively by the executor for the duration of one run.
type Executor struct {
	nodes   node.Registry
	metrics *metrics.Collector
	logger  *zap.Logger
}

// NewExecutor creates a graph executor over a node registry.
func NewExecutor(nodes node.Registry, logger *zap.Logger) *Executor {
	return &Executor{
		nodes:  nodes,
		logger: logger.With(zap.String("component", "executor")),
	}
}

// WithMetrics attaches a collector that receives per-node outcomes.
// A nil collector leaves recording disabled.
func (e *Executor) WithMetrics(c *metrics.Collector) *Executor {
	e.metrics = c
	return e
}

// Run executes the graph and returns the run result. Node ids in the
// order with no registered implementation are skipped silently. A panic
// anywhere in the loop is recovered once at this level and converts the
// run to a failure.
func (e *Executor) Run(ctx context.Context, input string, edges []types.EdgeDefinition, startNodeID string) (result Result) {
	result.Status = types.StatusRunning

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("execution panicked", zap.Any("panic", r))
			result.Status = types.StatusFailed
			result.Error = fmt.Sprintf("%v", r)
		}
	}()

	order := BuildExecutionOrder(edges, startNodeID)
	e.logger.Info("starting execution",
		zap.Int("order_len", len(order)),
		zap.String("start_node", startNodeID),
	)

	state := map[string]any{"input": input}

	for _, id := range order {
		n, ok := e.nodes[id]
		if !ok {
			continue
		}

		nodeStart := time.Now()
		outcome := n.Execute(ctx, state)
		if e.metrics != nil {
			e.metrics.RecordNodeExecution(string(n.Kind()), outcome.Success, time.Since(nodeStart))
		}
		result.Steps = append(result.Steps, types.StepRecord{
			NodeID:   id,
			NodeKind: n.Kind(),
			Result:   outcome,
		})

		if !outcome.Success {
			result.Status = types.StatusFailed
			result.Error = outcome.Error
			if result.Error == "" {
				result.Error = "Unknown error"
			}
			e.logger.Warn("node failed, aborting run",
				zap.String("node_id", id),
				zap.String("error", result.Error),
			)
			return result
		}

		// Shallow-merge map results; later keys overwrite earlier ones.
		if delta, ok := outcome.ResultMap(); ok {
			for k, v := range delta {
				state[k] = v
			}
		}

		e.logger.Debug("node completed",
			zap.String("node_id", id),
			zap.String("node_kind", string(n.Kind())),
		)
	}

	result.Status = types.StatusCompleted
	result.FinalOutput = renderState(state)
	return result
}

// renderState serializes the final shared state. JSON keeps key order
// stable across runs.
func renderState(state map[string]any) string {
	data, err := json.Marshal(state)
	if err == nil {
		return string(data)
	}

	// Salvage per key: a value json cannot encode (cycles, channels,
	// funcs) is replaced by its type name so the rest of the state still
	// serializes. fmt must not see the full map here, it follows cycles.
	safe := make(map[string]any, len(state))
	for k, v := range state {
		if _, kerr := json.Marshal(v); kerr != nil {
			safe[k] = fmt.Sprintf("<unserializable %T>", v)
			continue
		}
		safe[k] = v
	}
	data, err = json.Marshal(safe)
	if err != nil {
		return "{}"
	}
	return string(data)
}
