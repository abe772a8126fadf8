package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caldera-labs/agentgraph/types"
)

func edges(pairs ...[2]string) []types.EdgeDefinition {
	out := make([]types.EdgeDefinition, 0, len(pairs))
	for i, p := range pairs {
		out = append(out, types.EdgeDefinition{
			ID:     string(rune('a' + i)),
			Source: p[0],
			Target: p[1],
		})
	}
	return out
}

func TestBuildExecutionOrder_Diamond(t *testing.T) {
	order := BuildExecutionOrder(edges(
		[2]string{"A", "B"},
		[2]string{"B", "C"},
		[2]string{"A", "C"},
	), "")

	assert.Equal(t, []string{"A", "B", "C"}, order)
}

func TestBuildExecutionOrder_Linear(t *testing.T) {
	order := BuildExecutionOrder(edges(
		[2]string{"start", "plan"},
		[2]string{"plan", "exec"},
		[2]string{"exec", "end"},
	), "")

	assert.Equal(t, []string{"start", "plan", "exec", "end"}, order)
}

func TestBuildExecutionOrder_CycleOmitsNodes(t *testing.T) {
	order := BuildExecutionOrder(edges(
		[2]string{"A", "B"},
		[2]string{"B", "A"},
	), "")

	// Both nodes keep residual in-degree; neither is ordered.
	assert.Empty(t, order)
}

func TestBuildExecutionOrder_PartialCycle(t *testing.T) {
	order := BuildExecutionOrder(edges(
		[2]string{"A", "B"},
		[2]string{"B", "C"},
		[2]string{"C", "B"},
	), "")

	// A is ready; B and C form a cycle and drop out silently.
	assert.Equal(t, []string{"A"}, order)
}

func TestBuildExecutionOrder_StartPin(t *testing.T) {
	order := BuildExecutionOrder(edges(
		[2]string{"A", "C"},
		[2]string{"B", "C"},
	), "A")

	// Pinned start seeds the queue alone; C still waits for B, which is
	// never enqueued, so only A comes out.
	assert.Equal(t, []string{"A"}, order)
}

func TestBuildExecutionOrder_DisconnectedComponentsInterleaveFIFO(t *testing.T) {
	order := BuildExecutionOrder(edges(
		[2]string{"A", "B"},
		[2]string{"X", "Y"},
	), "")

	// Discovery order of zero-in-degree nodes is first-seen: A then X.
	assert.Equal(t, []string{"A", "X", "B", "Y"}, order)
}

func TestBuildExecutionOrder_EmptyEdges(t *testing.T) {
	assert.Empty(t, BuildExecutionOrder(nil, ""))
}

func TestBuildExecutionOrder_StartPinUnknownNode(t *testing.T) {
	order := BuildExecutionOrder(edges([2]string{"A", "B"}), "Z")

	// An unknown pin is emitted as-is; nothing downstream unlocks.
	assert.Equal(t, []string{"Z"}, order)
}
