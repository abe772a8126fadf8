package node

import (
	"context"
	"maps"

	"go.uber.org/zap"

	"github.com/caldera-labs/agentgraph/types"
)

// TransformNode applies a configured transformation to the state mapping.
// Supported operations are map (field renaming), filter (key
// allow-listing), reduce (numeric aggregation), and custom. Custom is a
// deliberate no-op passthrough: sandboxed code execution is out of scope
// and arbitrary code is never evaluated.
type TransformNode struct {
	id     string
	config map[string]any
	logger *zap.Logger
}

// NewTransformNode creates a data-transform node from its definition.
func NewTransformNode(def types.NodeDefinition, logger *zap.Logger) *TransformNode {
	return &TransformNode{
		id:     def.ID,
		config: def.Config,
		logger: logger.With(zap.String("component", "transform_node"), zap.String("node_id", def.ID)),
	}
}

func (n *TransformNode) ID() string           { return n.id }
func (n *TransformNode) Kind() types.NodeKind { return types.NodeKindDataTransform }

func (n *TransformNode) Execute(ctx context.Context, state map[string]any) types.Outcome {
	operation := configString(n.config, "operation", "map")

	var result any
	switch operation {
	case "map":
		result = n.mapFields(state)
	case "filter":
		result = n.filterFields(state)
	case "reduce":
		result = n.reduce(state)
	case "custom":
		// Passthrough only; transform_code is intentionally ignored.
		result = maps.Clone(state)
	default:
		result = maps.Clone(state)
	}

	n.logger.Debug("transform applied", zap.String("operation", operation))

	return types.SuccessOutcome(result)
}

// mapFields renames fields per the configured target→source mapping.
// Absent source keys are dropped.
func (n *TransformNode) mapFields(state map[string]any) map[string]any {
	mapping := configMap(n.config, "mapping")
	result := make(map[string]any, len(mapping))
	for target, source := range mapping {
		sourceKey, ok := source.(string)
		if !ok {
			continue
		}
		if v, exists := state[sourceKey]; exists {
			result[target] = v
		}
	}
	return result
}

// filterFields keeps only the state keys named by the conditions config.
func (n *TransformNode) filterFields(state map[string]any) map[string]any {
	conditions := configMap(n.config, "conditions")
	result := make(map[string]any)
	for k, v := range state {
		if _, keep := conditions[k]; keep {
			result[k] = v
		}
	}
	return result
}

// reduce aggregates the numeric state values to a single scalar.
func (n *TransformNode) reduce(state map[string]any) any {
	operation := configString(n.config, "reduce_operation", "sum")

	// Only true numeric values participate; numeric strings do not.
	var nums []float64
	for _, v := range state {
		switch f := v.(type) {
		case float64:
			nums = append(nums, f)
		case float32:
			nums = append(nums, float64(f))
		case int:
			nums = append(nums, float64(f))
		case int64:
			nums = append(nums, float64(f))
		}
	}

	switch operation {
	case "sum":
		var sum float64
		for _, f := range nums {
			sum += f
		}
		return sum
	case "avg":
		if len(nums) == 0 {
			return float64(0)
		}
		var sum float64
		for _, f := range nums {
			sum += f
		}
		return sum / float64(len(nums))
	case "count":
		return len(state)
	default:
		return maps.Clone(state)
	}
}
