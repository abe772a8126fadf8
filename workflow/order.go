package workflow

import "github.com/caldera-labs/agentgraph/types"

// BuildExecutionOrder computes a node execution sequence from a directed
// edge list using Kahn's algorithm. The node universe is derived from the
// edge endpoints; nodes that appear in no edge are not ordered.
//
// Ties break FIFO by discovery order, not by id, so the result is
// deterministic for a given edge list. When startNodeID is non-empty the
// ready queue is seeded with it alone instead of all zero-in-degree nodes.
//
// Nodes on a cycle retain a positive in-degree and are silently omitted
// from the returned order.
func BuildExecutionOrder(edges []types.EdgeDefinition, startNodeID string) []string {
	adjacency := make(map[string][]string, len(edges))
	inDegree := make(map[string]int, len(edges)*2)
	// discovery preserves first-seen order of endpoints so queue seeding
	// does not depend on map iteration.
	var discovery []string

	for _, e := range edges {
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)

		if _, seen := inDegree[e.Target]; !seen {
			discovery = append(discovery, e.Target)
		}
		inDegree[e.Target]++

		if _, seen := inDegree[e.Source]; !seen {
			discovery = append(discovery, e.Source)
			inDegree[e.Source] = 0
		}
	}

	var queue []string
	if startNodeID != "" {
		queue = []string{startNodeID}
	} else {
		for _, id := range discovery {
			if inDegree[id] == 0 {
				queue = append(queue, id)
			}
		}
	}

	order := make([]string, 0, len(inDegree))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		for _, target := range adjacency[id] {
			inDegree[target]--
			if inDegree[target] == 0 {
				queue = append(queue, target)
			}
		}
	}

	return order
}
