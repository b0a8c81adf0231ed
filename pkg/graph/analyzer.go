// Package graph computes reachability depth over the source workflow and
// classifies its branch points.
package graph

import (
	"log/slog"

	"github.com/MuhammadDevPk/langflow/pkg/models"
)

// DefaultMaxRoutingDepth bounds routed branch points to the shallowest
// decisions. Every routed branch point costs a classifier invocation at run
// time and adds one more place where eager propagation can misfire; deeper
// branch points fall back to unguarded fan-out.
const DefaultMaxRoutingDepth = 1

// Analysis holds the whole-graph traversal results.
type Analysis struct {
	Depth        map[string]int // BFS layer by node id, entry at 0
	BranchPoints []*models.BranchPoint
}

// Analyzer classifies branch points relative to a depth threshold.
type Analyzer struct {
	logger          *slog.Logger
	maxRoutingDepth int
}

// NewAnalyzer creates an analyzer. maxRoutingDepth <= 0 selects the default.
func NewAnalyzer(logger *slog.Logger, maxRoutingDepth int) *Analyzer {
	if maxRoutingDepth <= 0 {
		maxRoutingDepth = DefaultMaxRoutingDepth
	}

	return &Analyzer{
		logger:          logger.With("module", "graph"),
		maxRoutingDepth: maxRoutingDepth,
	}
}

// Analyze runs a breadth-first traversal from the entry node and classifies
// every node with out-degree >= 2. Depth records the first visit only, so
// back-edges in a cyclic graph cannot re-deepen a node.
func (a *Analyzer) Analyze(g *models.SourceGraph) *Analysis {
	depth := map[string]int{g.EntryID: 0}
	queue := []string{g.EntryID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, e := range g.OutgoingEdges(current) {
			if _, visited := depth[e.To]; visited {
				continue
			}

			depth[e.To] = depth[current] + 1
			queue = append(queue, e.To)
		}
	}

	analysis := &Analysis{Depth: depth}

	for _, n := range g.Nodes {
		out := g.OutgoingEdges(n.ID)
		if len(out) < 2 {
			continue
		}

		d, reachable := depth[n.ID]
		if !reachable {
			// Unreachable branch points produce no routing; their clones are
			// pruned downstream.
			continue
		}

		bp := &models.BranchPoint{
			NodeID: n.ID,
			Depth:  d,
			Class:  models.DepthNear,
			Edges:  out,
		}

		if d > a.maxRoutingDepth {
			bp.Class = models.DepthDeep
			a.logger.Warn("branch point beyond routing depth, leaving unguarded fan-out; downstream agents on unselected paths may execute redundantly",
				"node_id", n.ID,
				"depth", d,
				"max_routing_depth", a.maxRoutingDepth,
				"successors", len(out))
		}

		analysis.BranchPoints = append(analysis.BranchPoints, bp)
	}

	return analysis
}
