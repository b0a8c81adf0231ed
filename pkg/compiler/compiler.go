// Package compiler drives the single-pass conversion of a conversational
// workflow into the target runtime's pipeline document: parse, augment,
// analyze, synthesize routing, wire, prune, emit.
package compiler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/MuhammadDevPk/langflow/pkg/graph"
	"github.com/MuhammadDevPk/langflow/pkg/models"
	"github.com/MuhammadDevPk/langflow/pkg/otelhelper"
	"github.com/MuhammadDevPk/langflow/pkg/palette"
	"github.com/MuhammadDevPk/langflow/pkg/prompt"
	"github.com/MuhammadDevPk/langflow/pkg/routing"
	"github.com/MuhammadDevPk/langflow/pkg/source"
	"github.com/MuhammadDevPk/langflow/pkg/wiring"
)

// Options tune one compiler instance.
type Options struct {
	// MaxRoutingDepth bounds which branch points get routing synthesized;
	// <= 0 selects the default.
	MaxRoutingDepth int
	// APIKey, when set, is injected into every cloned component that takes a
	// model credential.
	APIKey string
	// SkipShapeValidation bypasses the document's JSON Schema pre-check.
	SkipShapeValidation bool
	// Tracer instruments each compile stage; nil disables tracing.
	Tracer trace.Tracer
}

// Result is a finished compilation.
type Result struct {
	Flow            *models.Flow
	Graph           *models.SourceGraph
	Plans           []*models.RoutingPlan
	SourceOrphans   []source.OrphanWarning
	PrunedInstances []string
}

// Compiler converts parsed conversational workflows into pipeline documents.
type Compiler struct {
	logger   *slog.Logger
	reg      *palette.Registry
	parser   *source.Parser
	analyzer *graph.Analyzer
	tracer   trace.Tracer
	apiKey   string
}

// New creates a compiler over a loaded palette.
func New(logger *slog.Logger, reg *palette.Registry, opts Options) (*Compiler, error) {
	var parserOpts []source.Option
	if opts.SkipShapeValidation {
		parserOpts = append(parserOpts, source.WithoutShapeValidation())
	}

	parser, err := source.NewParser(logger, parserOpts...)
	if err != nil {
		return nil, err
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("compiler")
	}

	return &Compiler{
		logger:   logger.With("module", "compiler"),
		reg:      reg,
		parser:   parser,
		analyzer: graph.NewAnalyzer(logger, opts.MaxRoutingDepth),
		tracer:   tracer,
		apiKey:   opts.APIKey,
	}, nil
}

// Compile runs the whole pipeline over a raw source document.
func (c *Compiler) Compile(ctx context.Context, raw []byte) (*Result, error) {
	ctx, span := c.tracer.Start(ctx, "compile")
	defer span.End()

	g, orphans, err := c.parseStage(ctx, raw)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	asm := newAssembly(g)

	if err := c.cloneStage(ctx, asm); err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	analysis := c.analyzeStage(ctx, asm)

	if err := c.synthesizeStage(ctx, asm, analysis); err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	if err := c.wireStage(ctx, asm); err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	pruned := c.pruneStage(ctx, asm)

	flow, err := c.emitStage(ctx, asm)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	span.SetAttributes(
		attribute.String(otelhelper.WorkflowNameKey, g.Name),
		attribute.String(otelhelper.FlowIDKey, flow.ID),
		attribute.Int("compile.nodes", len(flow.Data.Nodes)),
		attribute.Int("compile.connections", len(flow.Data.Edges)),
		attribute.Int("compile.routing_plans", len(asm.plans)),
	)

	return &Result{
		Flow:            flow,
		Graph:           g,
		Plans:           asm.plans,
		SourceOrphans:   orphans,
		PrunedInstances: pruned,
	}, nil
}

func (c *Compiler) parseStage(ctx context.Context, raw []byte) (*models.SourceGraph, []source.OrphanWarning, error) {
	_, span := c.tracer.Start(ctx, "compile.parse")
	defer span.End()

	g, orphans, err := c.parser.Parse(raw)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, nil, err
	}

	span.SetAttributes(
		attribute.Int("source.nodes", len(g.Nodes)),
		attribute.Int("source.edges", len(g.Edges)),
	)

	return g, orphans, nil
}

// cloneStage clones one component per source node, augments its instruction
// text, and places the entry/exit sentinels.
func (c *Compiler) cloneStage(ctx context.Context, asm *assembly) error {
	_, span := c.tracer.Start(ctx, "compile.clone")
	defer span.End()

	entry, err := c.reg.Clone(models.ComponentTypeChatInput)
	if err != nil {
		return err
	}

	entry.SetPosition(entrySentinelX, 0)
	asm.entrySentinel = entry
	asm.add(entry)

	convType, err := c.reg.ConversationType()
	if err != nil {
		return err
	}

	for i, node := range asm.graph.Nodes {
		inst, err := c.cloneNode(node, convType, i)
		if err != nil {
			return err
		}

		asm.add(inst)
		asm.byNode[node.ID] = inst
	}

	exit, err := c.reg.Clone(models.ComponentTypeChatOutput)
	if err != nil {
		return err
	}

	exit.SetPosition(asm.maxX()+exitSentinelGap, 0)
	asm.exitSentinel = exit
	asm.add(exit)

	return nil
}

func (c *Compiler) cloneNode(node *models.SourceNode, convType string, index int) (*models.ComponentInstance, error) {
	if node.SideEffect != models.SideEffectNone {
		return c.clonePlaceholder(node, index)
	}

	inst, err := c.reg.Clone(convType)
	if err != nil {
		return nil, err
	}

	if err := palette.SetInstruction(inst, prompt.Augment(node)); err != nil {
		return nil, err
	}

	palette.InjectAPIKey(inst, c.apiKey)
	inst.SetDisplayName(node.DisplayName)
	placeInstance(inst, node, index)

	return inst, nil
}

// clonePlaceholder degrades a side-effecting node to a terminal placeholder.
// The target palette has no native call-transfer or hang-up component; the
// degradation is recorded on the instance so it stays visible to operators.
func (c *Compiler) clonePlaceholder(node *models.SourceNode, index int) (*models.ComponentInstance, error) {
	inst, err := c.reg.Clone(models.ComponentTypeChatOutput)
	if err != nil {
		return nil, err
	}

	inst.SetDisplayName(node.DisplayName)
	inst.SetDescription(fmt.Sprintf("Placeholder for %s action (no native equivalent in the target palette)", node.SideEffect))
	placeInstance(inst, node, index)
	c.logger.Warn("degraded side-effect node to terminal placeholder",
		"node_id", node.ID, "side_effect", string(node.SideEffect))

	return inst, nil
}

func (c *Compiler) analyzeStage(ctx context.Context, asm *assembly) *graph.Analysis {
	_, span := c.tracer.Start(ctx, "compile.analyze")
	defer span.End()

	analysis := c.analyzer.Analyze(asm.graph)

	span.SetAttributes(attribute.Int("analyze.branch_points", len(analysis.BranchPoints)))

	return analysis
}

func (c *Compiler) synthesizeStage(ctx context.Context, asm *assembly, analysis *graph.Analysis) error {
	_, span := c.tracer.Start(ctx, "compile.synthesize")
	defer span.End()

	synth := routing.NewSynthesizer(c.logger, c.reg)

	for _, bp := range analysis.BranchPoints {
		if bp.Class != models.DepthNear {
			continue
		}

		branchInst, ok := asm.byNode[bp.NodeID]
		if !ok {
			continue
		}

		node := asm.graph.NodeByID(bp.NodeID)
		x, y := branchInst.Position()

		result, err := synth.Synthesize(bp, node.DisplayName, x, y)
		if err != nil {
			otelhelper.SetError(span, err)

			return err
		}

		for _, inst := range result.Instances {
			palette.InjectAPIKey(inst, c.apiKey)
			asm.add(inst)
		}

		asm.plans = append(asm.plans, result.Plan)
		asm.planByNode[bp.NodeID] = result.Plan
	}

	return nil
}

func (c *Compiler) wireStage(ctx context.Context, asm *assembly) error {
	_, span := c.tracer.Start(ctx, "compile.wire")
	defer span.End()

	builder := wiring.NewBuilder(c.logger)

	if err := c.wireSourceEdges(asm, builder); err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	if err := c.wireRoutingPlans(asm, builder); err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	// Sentinel wiring comes last: pipeline ingress feeds the entry node, and
	// every terminal conversational node feeds the exit sentinel.
	if err := c.wireSentinels(asm, builder); err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	asm.connections = builder.Connections()
	span.SetAttributes(attribute.Int("wire.connections", len(asm.connections)))

	return nil
}

// wireSourceEdges translates 1:1 every source edge not covered by a routing
// plan. Deep branch points keep their direct fan-out wires here.
func (c *Compiler) wireSourceEdges(asm *assembly, builder *wiring.Builder) error {
	for _, e := range asm.graph.Edges {
		if plan, ok := asm.planByNode[e.From]; ok && plan.Covers(e) {
			continue
		}

		src, ok := asm.byNode[e.From]
		if !ok {
			continue
		}

		dst, ok := asm.byNode[e.To]
		if !ok {
			continue
		}

		if err := builder.ConnectDefault(src, dst, e.Condition); err != nil {
			return err
		}
	}

	return nil
}

// wireRoutingPlans builds the branch -> classifier -> gate-chain wires. Each
// gate's required input depends on the previous stage's output, which is
// what orders classifier before gates and gate K before gate K+1 at run
// time.
func (c *Compiler) wireRoutingPlans(asm *assembly, builder *wiring.Builder) error {
	for _, plan := range asm.plans {
		branch := asm.byNode[plan.BranchNodeID]
		classifier := asm.byID[plan.ClassifierID]

		if err := builder.ConnectDefault(branch, classifier, nil); err != nil {
			return err
		}

		firstGate := asm.byID[plan.GateIDs[0]]
		if err := builder.Connect(classifier, classifier.Blueprint.PrimaryOutput().Name, firstGate, palette.PortInputText, nil); err != nil {
			return err
		}

		for i := 0; i+1 < len(plan.GateIDs); i++ {
			gate := asm.byID[plan.GateIDs[i]]
			next := asm.byID[plan.GateIDs[i+1]]

			if err := builder.Connect(gate, palette.PortFalseLeg, next, palette.PortInputText, nil); err != nil {
				return err
			}
		}

		for _, leg := range plan.Legs {
			gate := asm.byID[leg.GateID]

			successor, ok := asm.byNode[leg.Edge.To]
			if !ok {
				continue
			}

			if err := builder.Connect(gate, leg.Port, successor, successor.Blueprint.PrimaryInput().Name, leg.Edge.Condition); err != nil {
				return err
			}
		}
	}

	return nil
}

func (c *Compiler) wireSentinels(asm *assembly, builder *wiring.Builder) error {
	entryInst, ok := asm.byNode[asm.graph.EntryID]
	if ok {
		if err := builder.ConnectDefault(asm.entrySentinel, entryInst, nil); err != nil {
			return err
		}
	}

	for _, terminalID := range asm.graph.TerminalNodes() {
		terminal, ok := asm.byNode[terminalID]
		if !ok {
			continue
		}

		if err := builder.ConnectDefault(terminal, asm.exitSentinel, nil); err != nil {
			return err
		}
	}

	return nil
}

// pruneStage removes every instance unreachable from the entry sentinel,
// along with any connection referencing it. The exit sentinel is the only
// legitimate exception when nothing terminal feeds it.
func (c *Compiler) pruneStage(ctx context.Context, asm *assembly) []string {
	_, span := c.tracer.Start(ctx, "compile.prune")
	defer span.End()

	reached := map[string]bool{asm.entrySentinel.ID: true}
	queue := []string{asm.entrySentinel.ID}

	adjacency := make(map[string][]string, len(asm.connections))
	for _, conn := range asm.connections {
		adjacency[conn.Source] = append(adjacency[conn.Source], conn.Target)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range adjacency[current] {
			if !reached[next] {
				reached[next] = true
				queue = append(queue, next)
			}
		}
	}

	var pruned []string

	kept := asm.instances[:0]

	for _, inst := range asm.instances {
		if reached[inst.ID] || inst.ID == asm.exitSentinel.ID {
			kept = append(kept, inst)

			continue
		}

		pruned = append(pruned, inst.ID)
		c.logger.Warn("pruning orphan component instance",
			"instance_id", inst.ID,
			"component_type", inst.Type,
			"reason", "no connection path from entry")
	}

	asm.instances = kept

	if len(pruned) > 0 {
		prunedSet := make(map[string]bool, len(pruned))
		for _, id := range pruned {
			prunedSet[id] = true
		}

		conns := asm.connections[:0]

		for _, conn := range asm.connections {
			if !prunedSet[conn.Source] && !prunedSet[conn.Target] {
				conns = append(conns, conn)
			}
		}

		asm.connections = conns
	}

	span.SetAttributes(attribute.Int("prune.removed", len(pruned)))

	return pruned
}

func (c *Compiler) emitStage(ctx context.Context, asm *assembly) (*models.Flow, error) {
	_, span := c.tracer.Start(ctx, "compile.emit")
	defer span.End()

	if err := asm.check(); err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	name := asm.graph.Name
	if name == "" {
		name = "Converted Workflow"
	}

	flow := &models.Flow{
		Name:        name,
		Description: "Converted from conversational workflow: " + name,
		ID:          uuid.New().String(),
	}

	for _, inst := range asm.instances {
		flow.Data.Nodes = append(flow.Data.Nodes, inst.Doc)
	}

	flow.Data.Edges = asm.connections

	return flow, nil
}
