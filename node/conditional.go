package node

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/caldera-labs/agentgraph/types"
)

// ConditionalNode evaluates a configured predicate against the state and
// labels the outcome with the taken branch. It never skips graph nodes:
// branch selection only annotates the result for downstream consumption.
type ConditionalNode struct {
	id     string
	config map[string]any
	logger *zap.Logger
}

// NewConditionalNode creates a conditional node from its definition.
func NewConditionalNode(def types.NodeDefinition, logger *zap.Logger) *ConditionalNode {
	return &ConditionalNode{
		id:     def.ID,
		config: def.Config,
		logger: logger.With(zap.String("component", "conditional_node"), zap.String("node_id", def.ID)),
	}
}

func (n *ConditionalNode) ID() string           { return n.id }
func (n *ConditionalNode) Kind() types.NodeKind { return types.NodeKindConditional }

func (n *ConditionalNode) Execute(ctx context.Context, state map[string]any) types.Outcome {
	conditionType := configString(n.config, "condition_type", "equals")
	field := configString(n.config, "field", "")
	value := n.config["value"]
	fieldValue := state[field]

	var met bool
	switch conditionType {
	case "equals":
		met = looselyEqual(fieldValue, value)
	case "not_equals":
		met = !looselyEqual(fieldValue, value)
	case "greater_than", "less_than":
		fv, err := toFloat(fieldValue)
		if err != nil {
			return types.FailureOutcome(fmt.Sprintf("field %q is not numeric: %v", field, err))
		}
		cv, err := toFloat(value)
		if err != nil {
			return types.FailureOutcome(fmt.Sprintf("comparison value is not numeric: %v", err))
		}
		if conditionType == "greater_than" {
			met = fv > cv
		} else {
			met = fv < cv
		}
	case "contains":
		met = strings.Contains(fmt.Sprintf("%v", fieldValue), fmt.Sprintf("%v", value))
	case "exists":
		_, met = state[field]
	default:
		// Unknown condition types evaluate to not-met rather than failing.
		met = false
	}

	branch := "false_branch"
	if met {
		branch = "true_branch"
	}

	n.logger.Debug("condition evaluated",
		zap.String("condition_type", conditionType),
		zap.String("field", field),
		zap.Bool("met", met),
	)

	return types.SuccessOutcome(map[string]any{
		"condition_met": met,
		"branch":        branch,
	})
}

// looselyEqual compares two dynamic values, treating numeric types as
// interchangeable so 5 equals 5.0 regardless of decoder representation.
func looselyEqual(a, b any) bool {
	if fa, errA := numericOnly(a); errA == nil {
		if fb, errB := numericOnly(b); errB == nil {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

// numericOnly converts genuine numeric types; strings never qualify.
func numericOnly(v any) (float64, error) {
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
	default:
		return 0, fmt.Errorf("not numeric")
	}
}
