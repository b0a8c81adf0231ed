// Package routing synthesizes the classifier and gate chains that make
// single-path branching work inside an eager-propagation dataflow runtime.
//
// The runtime fires a component once its required inputs hold values and
// forwards every output along every wire. The gate is the only primitive
// that can suppress propagation: it emits on exactly one of its two output
// ports and leaves the other unfired, so anything wired only to the unfired
// port never executes for that invocation. Routing a branch point therefore
// means interposing one classifier plus a chain of gates so that, by
// construction, exactly one successor's wire ever carries data.
package routing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/MuhammadDevPk/langflow/pkg/models"
	"github.com/MuhammadDevPk/langflow/pkg/palette"
)

// Layout offsets for synthesized nodes, relative to the branch component.
const (
	classifierOffsetX = 300
	gateOffsetX       = 600
	gateStepX         = 300
	gateStepY         = 150
)

// Result is the outcome of synthesizing one branch point: the plan plus the
// classifier and gate instances it created, in creation order.
type Result struct {
	Plan      *models.RoutingPlan
	Instances []*models.ComponentInstance
}

// Synthesizer builds routing plans for near branch points.
type Synthesizer struct {
	logger  *slog.Logger
	reg     *palette.Registry
	planned map[string]bool
}

// NewSynthesizer creates a synthesizer over the given palette.
func NewSynthesizer(logger *slog.Logger, reg *palette.Registry) *Synthesizer {
	return &Synthesizer{
		logger:  logger.With("module", "routing"),
		reg:     reg,
		planned: make(map[string]bool),
	}
}

// Synthesize builds the classifier + gate chain for one branch point. For N
// successors the result holds exactly one classifier and N-1 gates; gate K
// matches digit K on its true leg and chains to gate K+1 on its false leg,
// and the final gate's false leg is the implicit default for the Nth
// successor. A branch point is synthesized at most once.
func (s *Synthesizer) Synthesize(bp *models.BranchPoint, displayName string, originX, originY float64) (*Result, error) {
	if s.planned[bp.NodeID] {
		return nil, fmt.Errorf("routing plan already synthesized for branch point %q", bp.NodeID)
	}

	if len(bp.Edges) < 2 {
		return nil, fmt.Errorf("node %q is not a branch point: %d successors", bp.NodeID, len(bp.Edges))
	}

	classifier, err := s.newClassifier(bp, displayName, originX, originY)
	if err != nil {
		return nil, err
	}

	plan := &models.RoutingPlan{
		BranchNodeID: bp.NodeID,
		ClassifierID: classifier.ID,
	}
	result := &Result{Plan: plan, Instances: []*models.ComponentInstance{classifier}}

	gateCount := len(bp.Edges) - 1
	gates := make([]*models.ComponentInstance, 0, gateCount)

	for i := range gateCount {
		gate, err := s.newGate(i+1, bp.Edges[i].To, originX+gateOffsetX+float64(i*gateStepX), originY+float64(i*gateStepY))
		if err != nil {
			return nil, err
		}

		gates = append(gates, gate)
		plan.GateIDs = append(plan.GateIDs, gate.ID)
		result.Instances = append(result.Instances, gate)
	}

	// Successor k rides gate k's true leg; the last successor rides the
	// final gate's false leg.
	for i, gate := range gates {
		plan.Legs = append(plan.Legs, models.RoutingLeg{
			Edge:   bp.Edges[i],
			GateID: gate.ID,
			Port:   palette.PortTrueLeg,
		})
	}

	plan.Legs = append(plan.Legs, models.RoutingLeg{
		Edge:   bp.Edges[len(bp.Edges)-1],
		GateID: gates[len(gates)-1].ID,
		Port:   palette.PortFalseLeg,
	})

	s.planned[bp.NodeID] = true
	s.logger.Info("synthesized routing plan",
		"branch_node", bp.NodeID,
		"successors", len(bp.Edges),
		"gates", len(gates))

	return result, nil
}

func (s *Synthesizer) newClassifier(bp *models.BranchPoint, displayName string, originX, originY float64) (*models.ComponentInstance, error) {
	classifierType, err := s.reg.ClassifierType()
	if err != nil {
		return nil, err
	}

	classifier, err := s.reg.Clone(classifierType)
	if err != nil {
		return nil, err
	}

	if err := palette.SetInstruction(classifier, ClassifierInstruction(bp.Edges)); err != nil {
		return nil, err
	}

	classifier.SetDisplayName("Router (" + displayName + ")")
	classifier.SetPosition(originX+classifierOffsetX, originY)

	return classifier, nil
}

// newGate clones a gate matching the given condition digit. The comparison
// is a case-insensitive contains: classifier replies carry incidental
// whitespace and punctuation around the digit, and equality matching caused
// systematic false-negative routing under real model output.
func (s *Synthesizer) newGate(digit int, targetName string, x, y float64) (*models.ComponentInstance, error) {
	gate, err := s.reg.Clone(models.ComponentTypeGate)
	if err != nil {
		return nil, err
	}

	overrides := map[string]any{
		palette.FieldOperator:      "contains",
		palette.FieldMatchText:     strconv.Itoa(digit),
		palette.FieldCaseSensitive: false,
		palette.FieldMaxIterations: 10,
		palette.FieldDefaultRoute:  palette.PortFalseLeg,
	}

	for field, value := range overrides {
		if err := gate.SetFieldValue(field, value); err != nil {
			return nil, err
		}
	}

	gate.SetDisplayName("Route Check (" + targetName + ")")
	gate.SetPosition(x, y)

	return gate, nil
}

// ClassifierInstruction enumerates the branch conditions verbatim and pins
// the reply format to a single digit, with explicit correct and incorrect
// examples.
func ClassifierInstruction(edges []*models.SourceEdge) string {
	var b strings.Builder

	b.WriteString("You are a routing agent for a conversation workflow. Based on the user's message and conversation context, determine which condition best matches the user's intent.\n\nCONDITIONS:\n")

	for i, e := range edges {
		desc := conditionText(e, i)
		fmt.Fprintf(&b, "%d. %s\n", i+1, desc)
	}

	fmt.Fprintf(&b, `
INSTRUCTIONS:
- Analyze the user's message carefully
- Choose the condition number (1-%d) that BEST matches the user's intent
- If multiple conditions could apply, choose the MOST SPECIFIC one
- Respond with ONLY a single digit, nothing else

FORMAT EXAMPLES:
Correct response: 2
Incorrect response: "Condition 2 matches because the user wants to reschedule"
Incorrect response: The answer is 2.

Your response (just the number):`, len(edges))

	return b.String()
}

func conditionText(e *models.SourceEdge, index int) string {
	if e.Condition != nil && e.Condition.Description != "" {
		return e.Condition.Description
	}

	return fmt.Sprintf("Condition %d (transition to %s)", index+1, e.To)
}
