package workflow

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/caldera-labs/agentgraph/internal/metrics"
	"github.com/caldera-labs/agentgraph/node"
	"github.com/caldera-labs/agentgraph/types"
)

// stubNode is a scripted node implementation for executor tests.
type stubNode struct {
	id      string
	kind    types.NodeKind
	outcome types.Outcome
	fn      func(state map[string]any) types.Outcome
	calls   *[]string
}

func (s *stubNode) ID() string           { return s.id }
func (s *stubNode) Kind() types.NodeKind { return s.kind }

func (s *stubNode) Execute(ctx context.Context, state map[string]any) types.Outcome {
	if s.calls != nil {
		*s.calls = append(*s.calls, s.id)
	}
	if s.fn != nil {
		return s.fn(state)
	}
	return s.outcome
}

func linearEdges(ids ...string) []types.EdgeDefinition {
	var out []types.EdgeDefinition
	for i := 0; i+1 < len(ids); i++ {
		out = append(out, types.EdgeDefinition{
			ID:     ids[i] + "->" + ids[i+1],
			Source: ids[i],
			Target: ids[i+1],
		})
	}
	return out
}

func TestExecutor_MergesStateBetweenNodes(t *testing.T) {
	var observed any
	reg := node.Registry{
		"a": &stubNode{id: "a", kind: types.NodeKindDataTransform,
			outcome: types.SuccessOutcome(map[string]any{"x": 1})},
		"b": &stubNode{id: "b", kind: types.NodeKindDataTransform,
			fn: func(state map[string]any) types.Outcome {
				observed = state["x"]
				return types.SuccessOutcome(map[string]any{"x": 2})
			}},
		"c": &stubNode{id: "c", kind: types.NodeKindDataTransform,
			fn: func(state map[string]any) types.Outcome {
				// Later writers overwrite earlier ones.
				assert.Equal(t, 2, state["x"])
				return types.SuccessOutcome(nil)
			}},
	}

	result := NewExecutor(reg, zap.NewNop()).Run(context.Background(), "go", linearEdges("a", "b", "c"), "")

	require.Equal(t, types.StatusCompleted, result.Status)
	assert.Equal(t, 1, observed)
	assert.Len(t, result.Steps, 3)
}

func TestExecutor_FailFastStopsRemainingNodes(t *testing.T) {
	var calls []string
	reg := node.Registry{
		"a": &stubNode{id: "a", kind: types.NodeKindDataTransform, calls: &calls,
			outcome: types.SuccessOutcome(map[string]any{"ok": true})},
		"b": &stubNode{id: "b", kind: types.NodeKindHTTPRequest, calls: &calls,
			outcome: types.FailureOutcome("boom")},
		"c": &stubNode{id: "c", kind: types.NodeKindWebhook, calls: &calls,
			outcome: types.SuccessOutcome(nil)},
	}

	result := NewExecutor(reg, zap.NewNop()).Run(context.Background(), "go", linearEdges("a", "b", "c"), "")

	assert.Equal(t, types.StatusFailed, result.Status)
	assert.Equal(t, "boom", result.Error)
	assert.Equal(t, []string{"a", "b"}, calls)
	// Step list length equals the failing node's index + 1.
	assert.Len(t, result.Steps, 2)
	assert.Empty(t, result.FinalOutput)
}

func TestExecutor_FailureWithoutMessage(t *testing.T) {
	reg := node.Registry{
		"a": &stubNode{id: "a", kind: types.NodeKindDataTransform, outcome: types.Outcome{Success: false}},
	}

	result := NewExecutor(reg, zap.NewNop()).Run(context.Background(), "go",
		linearEdges("a", "b"), "")

	assert.Equal(t, types.StatusFailed, result.Status)
	assert.Equal(t, "Unknown error", result.Error)
}

func TestExecutor_SkipsUnregisteredNodesSilently(t *testing.T) {
	var calls []string
	reg := node.Registry{
		"b": &stubNode{id: "b", kind: types.NodeKindDelay, calls: &calls,
			outcome: types.SuccessOutcome(nil)},
	}

	// "start" and "end" have no implementation and are skipped.
	result := NewExecutor(reg, zap.NewNop()).Run(context.Background(), "go",
		linearEdges("start", "b", "end"), "")

	assert.Equal(t, types.StatusCompleted, result.Status)
	assert.Equal(t, []string{"b"}, calls)
	assert.Len(t, result.Steps, 1)
}

func TestExecutor_ScalarResultsAreRecordedNotMerged(t *testing.T) {
	reg := node.Registry{
		"a": &stubNode{id: "a", kind: types.NodeKindDataTransform,
			outcome: types.SuccessOutcome(42.0)},
		"b": &stubNode{id: "b", kind: types.NodeKindDataTransform,
			fn: func(state map[string]any) types.Outcome {
				// Scalar result from "a" must not pollute state.
				assert.Equal(t, map[string]any{"input": "go"}, state)
				return types.SuccessOutcome(nil)
			}},
	}

	result := NewExecutor(reg, zap.NewNop()).Run(context.Background(), "go", linearEdges("a", "b"), "")

	require.Equal(t, types.StatusCompleted, result.Status)
	assert.Equal(t, 42.0, result.Steps[0].Result.Result)
}

func TestExecutor_FinalOutputSerializesState(t *testing.T) {
	reg := node.Registry{
		"a": &stubNode{id: "a", kind: types.NodeKindDataTransform,
			outcome: types.SuccessOutcome(map[string]any{"answer": 41.0})},
	}

	result := NewExecutor(reg, zap.NewNop()).Run(context.Background(), "question", linearEdges("a", "z"), "")

	require.Equal(t, types.StatusCompleted, result.Status)

	var final map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.FinalOutput), &final))
	assert.Equal(t, "question", final["input"])
	assert.Equal(t, 41.0, final["answer"])
}

func TestExecutor_BuiltNodesRunEndToEnd(t *testing.T) {
	defs := []types.NodeDefinition{
		{ID: "start", Kind: types.NodeKindStart},
		{ID: "wait", Kind: types.NodeKindDelay, Config: map[string]any{"delay_seconds": 0}},
		{ID: "notify", Kind: types.NodeKindWebhook, Config: map[string]any{"webhook_url": "https://example.com/hook"}},
		{ID: "shape", Kind: types.NodeKindDataTransform, Config: map[string]any{
			"operation": "map",
			"mapping":   map[string]any{"question": "input"},
		}},
		{ID: "end", Kind: types.NodeKindEnd},
	}
	reg := node.Build(defs, nil, zap.NewNop())

	result := NewExecutor(reg, zap.NewNop()).Run(context.Background(), "ship it",
		linearEdges("start", "wait", "notify", "shape", "end"), "start")

	require.Equal(t, types.StatusCompleted, result.Status)
	require.Len(t, result.Steps, 3)

	var final map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.FinalOutput), &final))
	assert.Equal(t, "ship it", final["input"])
	assert.Equal(t, "ship it", final["question"])
	assert.Equal(t, true, final["processed"])
}

func TestExecutor_StateEmbeddingNodesTerminate(t *testing.T) {
	// Delay and webhook nodes embed their input in the result. The
	// embedded copy must be a snapshot: merging a live reference back
	// into the state would make it contain itself and the final render
	// would never finish.
	defs := []types.NodeDefinition{
		{ID: "wait", Kind: types.NodeKindDelay, Config: map[string]any{"delay_seconds": 0}},
		{ID: "notify", Kind: types.NodeKindWebhook},
	}
	reg := node.Build(defs, nil, zap.NewNop())

	result := NewExecutor(reg, zap.NewNop()).Run(context.Background(), "go",
		linearEdges("wait", "notify"), "wait")

	require.Equal(t, types.StatusCompleted, result.Status)

	var final map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.FinalOutput), &final))

	data, ok := final["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "go", data["input"])
	assert.NotContains(t, data, "data")

	received, ok := final["received_data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "go", received["input"])
	assert.NotContains(t, received, "received_data")
}

func TestRenderState_SalvagesUnserializableValues(t *testing.T) {
	state := map[string]any{"ok": "yes", "ch": make(chan int)}

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(renderState(state)), &decoded))
	assert.Equal(t, "yes", decoded["ok"])
	assert.Contains(t, decoded["ch"], "unserializable")
}

func TestRenderState_SelfReferentialStateTerminates(t *testing.T) {
	state := map[string]any{"a": 1}
	state["self"] = state

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(renderState(state)), &decoded))
	assert.Equal(t, 1.0, decoded["a"])
	assert.Contains(t, decoded["self"], "unserializable")
}

func TestExecutor_RecoversPanicAsFailure(t *testing.T) {
	reg := node.Registry{
		"a": &stubNode{id: "a", kind: types.NodeKindDataTransform,
			fn: func(state map[string]any) types.Outcome {
				panic("node exploded")
			}},
	}

	result := NewExecutor(reg, zap.NewNop()).Run(context.Background(), "go", linearEdges("a", "b"), "")

	assert.Equal(t, types.StatusFailed, result.Status)
	assert.Contains(t, result.Error, "node exploded")
}

func TestExecutor_RecordsNodeMetrics(t *testing.T) {
	collector := metrics.NewCollector("executor_metrics_test", zap.NewNop())
	reg := node.Registry{
		"a": &stubNode{id: "a", kind: types.NodeKindDataTransform,
			outcome: types.SuccessOutcome(nil)},
		"b": &stubNode{id: "b", kind: types.NodeKindHTTPRequest,
			outcome: types.FailureOutcome("boom")},
	}

	NewExecutor(reg, zap.NewNop()).WithMetrics(collector).
		Run(context.Background(), "go", linearEdges("a", "b"), "")

	// One success and one failure series.
	n, err := testutil.GatherAndCount(prometheus.DefaultGatherer, "executor_metrics_test_node_executions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestExecutor_EmptyEdgeListCompletesImmediately(t *testing.T) {
	result := NewExecutor(node.Registry{}, zap.NewNop()).Run(context.Background(), "go", nil, "")

	assert.Equal(t, types.StatusCompleted, result.Status)
	assert.Empty(t, result.Steps)

	var final map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.FinalOutput), &final))
	assert.Equal(t, "go", final["input"])
}
