package node

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/caldera-labs/agentgraph/llm"
	"github.com/caldera-labs/agentgraph/types"
)

// Node is the uniform execution contract every workflow node implements.
// Execute must not mutate the caller's state map; it returns a delta (or
// a scalar) inside the Outcome and the executor owns the merge. Failures
// are reported through the Outcome, never as a Go error.
type Node interface {
	// ID returns the node's workflow-unique identifier.
	ID() string
	// Kind returns the node's behavioral kind.
	Kind() types.NodeKind
	// Execute runs the node against a read-only view of the shared state.
	Execute(ctx context.Context, state map[string]any) types.Outcome
}

// Registry maps node ids to their runtime implementations for one run.
type Registry map[string]Node

// Build instantiates runtime nodes from workflow definitions. Kinds
// without runtime behavior (start, end) and unknown kinds are left
// unregistered; the executor skips unregistered ids silently.
func Build(defs []types.NodeDefinition, backend llm.Backend, logger *zap.Logger) Registry {
	reg := make(Registry, len(defs))

	for _, def := range defs {
		switch def.Kind {
		case types.NodeKindAgent:
			reg[def.ID] = NewAgentNode(def, backend, logger)
		case types.NodeKindHTTPRequest:
			reg[def.ID] = NewHTTPRequestNode(def, logger)
		case types.NodeKindDataTransform:
			reg[def.ID] = NewTransformNode(def, logger)
		case types.NodeKindConditional:
			reg[def.ID] = NewConditionalNode(def, logger)
		case types.NodeKindWebhook:
			reg[def.ID] = NewWebhookNode(def, logger)
		case types.NodeKindDelay:
			reg[def.ID] = NewDelayNode(def, logger)
		case types.NodeKindStart, types.NodeKindEnd:
			// Structural markers only.
		default:
			logger.Warn("unknown node kind, skipping",
				zap.String("node_id", def.ID),
				zap.String("kind", string(def.Kind)),
			)
		}
	}

	return reg
}

// =============================================================================
// Config value helpers
// =============================================================================

// configString reads a string config value with a fallback.
func configString(cfg map[string]any, key, fallback string) string {
	if v, ok := cfg[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return fallback
}

// configMap reads a nested mapping config value.
func configMap(cfg map[string]any, key string) map[string]any {
	if v, ok := cfg[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}

// configFloat reads a numeric config value with a fallback. JSON decoding
// yields float64, but ints and numeric strings are tolerated.
func configFloat(cfg map[string]any, key string, fallback float64) float64 {
	v, ok := cfg[key]
	if !ok {
		return fallback
	}
	f, err := toFloat(v)
	if err != nil {
		return fallback
	}
	return f
}

// toFloat coerces a dynamic value to float64. Strings are parsed; other
// non-numeric types fail.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to number", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to number", v)
	}
}
