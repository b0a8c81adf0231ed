package source

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/MuhammadDevPk/langflow/pkg/models"
)

// Wire format of the conversational workflow export. The node list is keyed
// by name; edges reference nodes by name.
type document struct {
	Workflow *workflowDoc `json:"workflow"`
	workflowDoc
}

type workflowDoc struct {
	Name  string    `json:"name"`
	Nodes []nodeDoc `json:"nodes"`
	Edges []edgeDoc `json:"edges"`
}

type nodeDoc struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Prompt      string `json:"prompt"`
	IsStart     bool   `json:"isStart"`
	MessagePlan *struct {
		FirstMessage string `json:"firstMessage"`
	} `json:"messagePlan"`
	VariableExtractionPlan *struct {
		Output []variableDoc `json:"output"`
	} `json:"variableExtractionPlan"`
	Tool *struct {
		Type string `json:"type"`
	} `json:"tool"`
	Metadata *struct {
		Position *struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"position"`
	} `json:"metadata"`
}

type variableDoc struct {
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Enum        []string `json:"enum"`
}

type edgeDoc struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Condition *struct {
		Type   string `json:"type"`
		Prompt string `json:"prompt"`
	} `json:"condition"`
}

// Parser validates and decodes conversational workflow documents.
type Parser struct {
	logger    *slog.Logger
	validate  *validator.Validate
	schema    *gojsonschema.Schema
	skipShape bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithoutShapeValidation skips the JSON Schema pre-check. Structural
// validation still runs; this only trades early shape errors for decode
// errors on malformed exports.
func WithoutShapeValidation() Option {
	return func(p *Parser) { p.skipShape = true }
}

// NewParser creates a parser. The document schema is compiled once.
func NewParser(logger *slog.Logger, opts ...Option) (*Parser, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchema))
	if err != nil {
		return nil, fmt.Errorf("compiling document schema: %w", err)
	}

	p := &Parser{
		logger:   logger.With("module", "source"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		schema:   schema,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Parse decodes raw into a SourceGraph, returning orphan warnings for
// disconnected nodes that were excluded from compilation.
func (p *Parser) Parse(raw []byte) (*models.SourceGraph, []OrphanWarning, error) {
	if !p.skipShape {
		result, err := p.schema.Validate(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, nil, &ParseError{Msg: "invalid JSON document", Err: err}
		}

		if !result.Valid() {
			return nil, nil, &ParseError{Msg: "document shape invalid: " + schemaErrors(result)}
		}
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, &ParseError{Msg: "decoding document", Err: err}
	}

	wf := doc.Workflow
	if wf == nil {
		wf = &doc.workflowDoc
	}

	graph, err := p.buildGraph(wf)
	if err != nil {
		return nil, nil, err
	}

	warnings, err := p.resolveEntry(graph, wf)
	if err != nil {
		return nil, nil, err
	}

	if err := p.validate.Struct(graph); err != nil {
		return nil, nil, &ParseError{Msg: "model validation failed", Err: err}
	}

	return graph, warnings, nil
}

func (p *Parser) buildGraph(wf *workflowDoc) (*models.SourceGraph, error) {
	if len(wf.Nodes) == 0 {
		return nil, &StructuralError{Kind: "empty_graph", Msg: "workflow has no nodes"}
	}

	graph := &models.SourceGraph{Name: wf.Name}

	seen := make(map[string]bool, len(wf.Nodes))
	for _, nd := range wf.Nodes {
		if seen[nd.Name] {
			return nil, &StructuralError{Kind: "duplicate_id", Msg: fmt.Sprintf("node %q declared twice", nd.Name)}
		}

		seen[nd.Name] = true

		graph.Nodes = append(graph.Nodes, convertNode(nd))
	}

	for _, ed := range wf.Edges {
		if !seen[ed.From] {
			return nil, &StructuralError{Kind: "dangling_edge", Msg: fmt.Sprintf("edge %q -> %q references unknown source node", ed.From, ed.To)}
		}

		if !seen[ed.To] {
			return nil, &StructuralError{Kind: "dangling_edge", Msg: fmt.Sprintf("edge %q -> %q references unknown target node", ed.From, ed.To)}
		}

		graph.Edges = append(graph.Edges, convertEdge(ed))
	}

	return graph, nil
}

func convertNode(nd nodeDoc) *models.SourceNode {
	node := &models.SourceNode{
		ID:          nd.Name,
		DisplayName: nd.Name,
		Instruction: nd.Prompt,
		SideEffect:  models.SideEffectNone,
	}

	if nd.MessagePlan != nil {
		node.FirstMessage = nd.MessagePlan.FirstMessage
	}

	if nd.VariableExtractionPlan != nil {
		for _, v := range nd.VariableExtractionPlan.Output {
			node.Extraction = append(node.Extraction, models.ExtractionField{
				Name:        v.Title,
				Kind:        fieldKind(v),
				EnumValues:  v.Enum,
				Description: v.Description,
			})
		}
	}

	if nd.Type == "tool" && nd.Tool != nil {
		switch nd.Tool.Type {
		case "transferCall":
			node.SideEffect = models.SideEffectTransfer
		default:
			node.SideEffect = models.SideEffectTerminate
		}
	}

	if nd.Metadata != nil && nd.Metadata.Position != nil {
		node.PositionX = nd.Metadata.Position.X
		node.PositionY = nd.Metadata.Position.Y
		node.HasPosition = true
	}

	return node
}

func fieldKind(v variableDoc) models.FieldKind {
	if len(v.Enum) > 0 {
		return models.FieldKindEnum
	}

	if v.Type == "number" || v.Type == "integer" {
		return models.FieldKindNumber
	}

	return models.FieldKindString
}

func convertEdge(ed edgeDoc) *models.SourceEdge {
	edge := &models.SourceEdge{From: ed.From, To: ed.To}

	if ed.Condition != nil {
		kind := models.ConditionKindClassified
		if ed.Condition.Type != "" && ed.Condition.Type != "ai" {
			kind = models.ConditionKindStatic
		}

		edge.Condition = &models.EdgeCondition{Kind: kind, Description: ed.Condition.Prompt}
	}

	return edge
}

// resolveEntry determines the true conversational entry node and strips any
// other node without an incoming edge. The target runtime starts execution
// wherever data is introduced, so a second unconnected agent component would
// fire on its own with unrelated content; orphans must not produce a target
// component at all.
func (p *Parser) resolveEntry(graph *models.SourceGraph, wf *workflowDoc) ([]OrphanWarning, error) {
	incoming := make(map[string]int, len(graph.Nodes))
	for _, e := range graph.Edges {
		incoming[e.To]++
	}

	var roots []string

	for _, n := range graph.Nodes {
		if incoming[n.ID] == 0 {
			roots = append(roots, n.ID)
		}
	}

	entry := ""

	for _, nd := range wf.Nodes {
		if nd.IsStart {
			entry = nd.Name

			break
		}
	}

	if entry == "" {
		if len(roots) == 0 {
			return nil, &StructuralError{Kind: "missing_entry", Msg: "every node has an incoming edge; no entry node"}
		}

		entry = roots[0]
	}

	graph.EntryID = entry

	var warnings []OrphanWarning

	for _, root := range roots {
		if root == entry {
			continue
		}

		warnings = append(warnings, OrphanWarning{NodeID: root, Reason: "no incoming edge and not the entry node"})
		p.logger.Warn("excluding orphan node from compilation", "node_id", root)
		dropNode(graph, root)
	}

	return warnings, nil
}

// dropNode removes a node and every edge naming it.
func dropNode(graph *models.SourceGraph, id string) {
	nodes := graph.Nodes[:0]

	for _, n := range graph.Nodes {
		if n.ID != id {
			nodes = append(nodes, n)
		}
	}

	graph.Nodes = nodes

	edges := graph.Edges[:0]

	for _, e := range graph.Edges {
		if e.From != id && e.To != id {
			edges = append(edges, e)
		}
	}

	graph.Edges = edges
}

func schemaErrors(result *gojsonschema.Result) string {
	msg := ""

	for i, desc := range result.Errors() {
		if i > 0 {
			msg += "; "
		}

		msg += desc.String()
	}

	return msg
}
