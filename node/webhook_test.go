package node

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/caldera-labs/agentgraph/types"
)

func TestWebhookNode_RecordsURLAndState(t *testing.T) {
	n := NewWebhookNode(types.NodeDefinition{
		ID:     "w1",
		Kind:   types.NodeKindWebhook,
		Config: map[string]any{"webhook_url": "https://example.com/hook"},
	}, zap.NewNop())

	state := map[string]any{"input": "x", "count": 3}
	out := n.Execute(context.Background(), state)

	require.True(t, out.Success)
	result, _ := out.ResultMap()
	assert.Equal(t, "https://example.com/hook", result["webhook_url"])
	assert.Equal(t, true, result["processed"])
	assert.Equal(t, state, result["received_data"])
}

func TestWebhookNode_MissingURLDefaultsEmpty(t *testing.T) {
	n := NewWebhookNode(types.NodeDefinition{ID: "w1", Kind: types.NodeKindWebhook}, zap.NewNop())

	out := n.Execute(context.Background(), map[string]any{})

	require.True(t, out.Success)
	result, _ := out.ResultMap()
	assert.Equal(t, "", result["webhook_url"])
}

func TestWebhookNode_ResultSnapshotsInput(t *testing.T) {
	n := NewWebhookNode(types.NodeDefinition{ID: "w1", Kind: types.NodeKindWebhook}, zap.NewNop())

	state := map[string]any{"input": "x"}
	out := n.Execute(context.Background(), state)

	require.True(t, out.Success)
	result, _ := out.ResultMap()
	snapshot, ok := result["received_data"].(map[string]any)
	require.True(t, ok)

	// Writes to the live state after the node ran must not leak into
	// the recorded result.
	state["later"] = true
	assert.NotContains(t, snapshot, "later")
}
