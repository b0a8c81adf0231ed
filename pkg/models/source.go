// Package models defines the core domain models for conversational workflow compilation.
package models

// FieldKind represents the declared type of an extraction field.
type FieldKind string

const (
	FieldKindString FieldKind = "string"
	FieldKindEnum   FieldKind = "enum"
	FieldKindNumber FieldKind = "number"
)

// SideEffectKind represents an externally-triggered action attached to a node.
type SideEffectKind string

const (
	SideEffectNone      SideEffectKind = "none"
	SideEffectTerminate SideEffectKind = "terminate"
	SideEffectTransfer  SideEffectKind = "transfer"
)

// ConditionKind distinguishes static edge conditions from ones resolved by
// classifying the conversation at run time.
type ConditionKind string

const (
	ConditionKindStatic     ConditionKind = "static"
	ConditionKindClassified ConditionKind = "classified"
)

// ExtractionField describes one value a conversational node must extract.
type ExtractionField struct {
	Name        string    `json:"name"        validate:"required"`
	Kind        FieldKind `json:"kind"        validate:"required,oneof=string enum number"`
	EnumValues  []string  `json:"enum_values,omitempty"`
	Description string    `json:"description,omitempty"`
}

// SourceNode is a dialogue state in the conversational workflow. Immutable
// once parsed.
type SourceNode struct {
	ID           string            `json:"id"            validate:"required"`
	DisplayName  string            `json:"display_name"  validate:"required,min=1"`
	Instruction  string            `json:"instruction"`
	FirstMessage string            `json:"first_message,omitempty"`
	Extraction   []ExtractionField `json:"extraction,omitempty"`
	SideEffect   SideEffectKind    `json:"side_effect"   validate:"required,oneof=none terminate transfer"`
	PositionX    float64           `json:"position_x"`
	PositionY    float64           `json:"position_y"`
	HasPosition  bool              `json:"-"`
}

// EdgeCondition carries the natural-language guard on a transition.
type EdgeCondition struct {
	Kind        ConditionKind `json:"kind"        validate:"required,oneof=static classified"`
	Description string        `json:"description"`
}

// SourceEdge is a transition between two dialogue states. Multiple edges
// sharing From define a branch point.
type SourceEdge struct {
	From      string         `json:"from" validate:"required"`
	To        string         `json:"to"   validate:"required"`
	Condition *EdgeCondition `json:"condition,omitempty"`
}

// SourceGraph is the parsed conversational workflow.
type SourceGraph struct {
	Name    string        `json:"name"`
	Nodes   []*SourceNode `json:"nodes" validate:"required,min=1,dive,required"`
	Edges   []*SourceEdge `json:"edges" validate:"dive,required"`
	EntryID string        `json:"entry_id"`
}

// NodeByID returns the node with the given id, or nil.
func (g *SourceGraph) NodeByID(id string) *SourceNode {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}

	return nil
}

// Entry returns the entry node.
func (g *SourceGraph) Entry() *SourceNode {
	return g.NodeByID(g.EntryID)
}

// OutgoingEdges returns the edges leaving the given node, in document order.
func (g *SourceGraph) OutgoingEdges(nodeID string) []*SourceEdge {
	var out []*SourceEdge

	for _, e := range g.Edges {
		if e.From == nodeID {
			out = append(out, e)
		}
	}

	return out
}

// TerminalNodes returns the ids of nodes with no outgoing edges, in node
// declaration order.
func (g *SourceGraph) TerminalNodes() []string {
	hasOut := make(map[string]bool, len(g.Nodes))
	for _, e := range g.Edges {
		hasOut[e.From] = true
	}

	var terminals []string

	for _, n := range g.Nodes {
		if !hasOut[n.ID] {
			terminals = append(terminals, n.ID)
		}
	}

	return terminals
}
