package models

// DepthClass tags a branch point relative to the routing depth threshold.
type DepthClass string

const (
	DepthNear DepthClass = "near"
	DepthDeep DepthClass = "deep"
)

// BranchPoint is a source node with two or more outgoing edges.
type BranchPoint struct {
	NodeID string
	Depth  int
	Class  DepthClass
	Edges  []*SourceEdge // outgoing edges, document order
}

// RoutingLeg maps one original successor edge to the gate output port that
// ultimately reaches it.
type RoutingLeg struct {
	Edge   *SourceEdge
	GateID string
	Port   string // gate output port name: the true or false leg
}

// RoutingPlan records the classifier/gate chain synthesized for one near
// branch point. For N successors it holds exactly one classifier and N-1
// gates; the last gate's false leg is the implicit default for the Nth
// successor.
type RoutingPlan struct {
	BranchNodeID string
	ClassifierID string
	GateIDs      []string // chained on each previous gate's false leg
	Legs         []RoutingLeg
}

// Covers reports whether the plan handles the given source edge, meaning no
// direct wire may be emitted for it.
func (p *RoutingPlan) Covers(e *SourceEdge) bool {
	for _, leg := range p.Legs {
		if leg.Edge == e {
			return true
		}
	}

	return false
}
