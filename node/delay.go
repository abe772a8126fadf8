package node

import (
	"context"
	"maps"
	"time"

	"go.uber.org/zap"

	"github.com/caldera-labs/agentgraph/types"
)

// DelayNode suspends the current run for the configured number of
// seconds, then passes its input through unchanged. The wait is a
// cooperative suspension point: unrelated executions keep running.
type DelayNode struct {
	id     string
	config map[string]any
	logger *zap.Logger
}

// NewDelayNode creates a delay node from its definition.
func NewDelayNode(def types.NodeDefinition, logger *zap.Logger) *DelayNode {
	return &DelayNode{
		id:     def.ID,
		config: def.Config,
		logger: logger.With(zap.String("component", "delay_node"), zap.String("node_id", def.ID)),
	}
}

func (n *DelayNode) ID() string           { return n.id }
func (n *DelayNode) Kind() types.NodeKind { return types.NodeKindDelay }

func (n *DelayNode) Execute(ctx context.Context, state map[string]any) types.Outcome {
	seconds := configFloat(n.config, "delay_seconds", 1)
	d := time.Duration(seconds * float64(time.Second))

	n.logger.Debug("delaying", zap.Duration("duration", d))

	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return types.FailureOutcome(ctx.Err().Error())
		}
	}

	return types.SuccessOutcome(map[string]any{
		"delayed_seconds": seconds,
		"data":            maps.Clone(state),
	})
}
