package node

import (
	"context"
	"maps"

	"go.uber.org/zap"

	"github.com/caldera-labs/agentgraph/types"
)

// WebhookNode is a pure echo/record step: it wraps the received state and
// the configured URL into its result without performing any outbound call.
type WebhookNode struct {
	id     string
	config map[string]any
	logger *zap.Logger
}

// NewWebhookNode creates a webhook node from its definition.
func NewWebhookNode(def types.NodeDefinition, logger *zap.Logger) *WebhookNode {
	return &WebhookNode{
		id:     def.ID,
		config: def.Config,
		logger: logger.With(zap.String("component", "webhook_node"), zap.String("node_id", def.ID)),
	}
}

func (n *WebhookNode) ID() string           { return n.id }
func (n *WebhookNode) Kind() types.NodeKind { return types.NodeKindWebhook }

func (n *WebhookNode) Execute(ctx context.Context, state map[string]any) types.Outcome {
	webhookURL := configString(n.config, "webhook_url", "")

	n.logger.Debug("webhook recorded", zap.String("webhook_url", webhookURL))

	return types.SuccessOutcome(map[string]any{
		"webhook_url":   webhookURL,
		"received_data": maps.Clone(state),
		"processed":     true,
	})
}
