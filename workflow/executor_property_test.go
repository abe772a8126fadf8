package workflow

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/caldera-labs/agentgraph/node"
	"github.com/caldera-labs/agentgraph/types"
)

// TestExecutor_LastWriterWinsProperty checks the shallow-merge contract:
// for any sequence of successful map-producing nodes, the final state
// holds, for every key, the value written by the last node that wrote it.
func TestExecutor_LastWriterWinsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numNodes := rapid.IntRange(1, 8).Draw(t, "num_nodes")
		keys := []string{"k0", "k1", "k2"}

		expected := map[string]any{}
		reg := node.Registry{}
		var edgeList []types.EdgeDefinition

		for i := 0; i < numNodes; i++ {
			delta := map[string]any{}
			for _, k := range keys {
				if rapid.Bool().Draw(t, fmt.Sprintf("write_%d_%s", i, k)) {
					v := rapid.IntRange(0, 100).Draw(t, fmt.Sprintf("val_%d_%s", i, k))
					delta[k] = v
					expected[k] = v
				}
			}

			id := fmt.Sprintf("n%d", i)
			reg[id] = &stubNode{id: id, kind: types.NodeKindDataTransform,
				outcome: types.SuccessOutcome(delta)}
			if i > 0 {
				edgeList = append(edgeList, types.EdgeDefinition{
					ID:     fmt.Sprintf("e%d", i),
					Source: fmt.Sprintf("n%d", i-1),
					Target: id,
				})
			}
		}

		if len(edgeList) == 0 {
			// Single node still needs an edge to enter the universe.
			edgeList = append(edgeList, types.EdgeDefinition{ID: "e0", Source: "n0", Target: "sink"})
		}

		var finalState map[string]any
		reg["probe"] = &stubNode{id: "probe", kind: types.NodeKindWebhook,
			fn: func(state map[string]any) types.Outcome {
				finalState = map[string]any{}
				for k, v := range state {
					finalState[k] = v
				}
				return types.SuccessOutcome(nil)
			}}
		edgeList = append(edgeList, types.EdgeDefinition{
			ID:     "probe_edge",
			Source: fmt.Sprintf("n%d", numNodes-1),
			Target: "probe",
		})

		result := NewExecutor(reg, zap.NewNop()).Run(context.Background(), "seed", edgeList, "")

		if result.Status != types.StatusCompleted {
			t.Fatalf("expected completed, got %s", result.Status)
		}
		for k, v := range expected {
			if finalState[k] != v {
				t.Fatalf("key %s: expected %v, got %v", k, v, finalState[k])
			}
		}
		if finalState["input"] != "seed" {
			t.Fatalf("input key must survive the run")
		}
	})
}
