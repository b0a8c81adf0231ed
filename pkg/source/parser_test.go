package source

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammadDevPk/langflow/pkg/models"
)

func newTestParser(t *testing.T, opts ...Option) *Parser {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	p, err := NewParser(logger, opts...)
	require.NoError(t, err)

	return p
}

const bookingWorkflow = `{
  "name": "Dental Booking",
  "nodes": [
    {
      "name": "greeting",
      "type": "conversation",
      "isStart": true,
      "prompt": "Greet the caller and ask how you can help.",
      "messagePlan": {"firstMessage": "Welcome to Smile Dental!"},
      "metadata": {"position": {"x": 100, "y": 200}}
    },
    {
      "name": "collect_details",
      "type": "conversation",
      "prompt": "Collect the patient's details.",
      "variableExtractionPlan": {
        "output": [
          {"title": "patient_name", "type": "string", "description": "Full name of the patient"},
          {"title": "visit_reason", "type": "string", "enum": ["checkup", "cleaning", "emergency"]},
          {"title": "party_size", "type": "number", "description": "Number of patients"}
        ]
      }
    },
    {
      "name": "transfer_to_desk",
      "type": "tool",
      "tool": {"type": "transferCall"}
    },
    {
      "name": "hang_up",
      "type": "tool",
      "tool": {"type": "endCall"}
    }
  ],
  "edges": [
    {"from": "greeting", "to": "collect_details", "condition": {"type": "ai", "prompt": "user wants an appointment"}},
    {"from": "collect_details", "to": "transfer_to_desk"},
    {"from": "greeting", "to": "hang_up", "condition": {"type": "static", "prompt": "user said goodbye"}}
  ]
}`

func TestParser_ParseBookingWorkflow(t *testing.T) {
	p := newTestParser(t)

	g, warnings, err := p.Parse([]byte(bookingWorkflow))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "Dental Booking", g.Name)
	assert.Equal(t, "greeting", g.EntryID)
	require.Len(t, g.Nodes, 4)
	require.Len(t, g.Edges, 3)

	greeting := g.NodeByID("greeting")
	require.NotNil(t, greeting)
	assert.Equal(t, "Welcome to Smile Dental!", greeting.FirstMessage)
	assert.Equal(t, models.SideEffectNone, greeting.SideEffect)
	assert.True(t, greeting.HasPosition)
	assert.InDelta(t, 100, greeting.PositionX, 0.001)
	assert.InDelta(t, 200, greeting.PositionY, 0.001)

	collect := g.NodeByID("collect_details")
	require.NotNil(t, collect)
	require.Len(t, collect.Extraction, 3)
	assert.Equal(t, models.FieldKindString, collect.Extraction[0].Kind)
	assert.Equal(t, models.FieldKindEnum, collect.Extraction[1].Kind)
	assert.Equal(t, []string{"checkup", "cleaning", "emergency"}, collect.Extraction[1].EnumValues)
	assert.Equal(t, models.FieldKindNumber, collect.Extraction[2].Kind)

	assert.Equal(t, models.SideEffectTransfer, g.NodeByID("transfer_to_desk").SideEffect)
	assert.Equal(t, models.SideEffectTerminate, g.NodeByID("hang_up").SideEffect)

	out := g.OutgoingEdges("greeting")
	require.Len(t, out, 2)
	require.NotNil(t, out[0].Condition)
	assert.Equal(t, models.ConditionKindClassified, out[0].Condition.Kind)
	assert.Equal(t, "user wants an appointment", out[0].Condition.Description)
	require.NotNil(t, out[1].Condition)
	assert.Equal(t, models.ConditionKindStatic, out[1].Condition.Kind)
}

func TestParser_WrappedWorkflowKey(t *testing.T) {
	p := newTestParser(t)

	doc := `{"workflow": {"name": "Wrapped", "nodes": [{"name": "only", "prompt": "x"}], "edges": []}}`

	g, _, err := p.Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "Wrapped", g.Name)
	assert.Equal(t, "only", g.EntryID)
}

func TestParser_OrphanNodesExcluded(t *testing.T) {
	p := newTestParser(t)

	doc := `{
	  "name": "Orphaned",
	  "nodes": [
	    {"name": "start", "isStart": true, "prompt": "a"},
	    {"name": "next", "prompt": "b"},
	    {"name": "floating", "prompt": "never wired"},
	    {"name": "floating_child", "prompt": "reached only via floating"}
	  ],
	  "edges": [
	    {"from": "start", "to": "next"},
	    {"from": "floating", "to": "floating_child"}
	  ]
	}`

	g, warnings, err := p.Parse([]byte(doc))
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Equal(t, "floating", warnings[0].NodeID)

	assert.Nil(t, g.NodeByID("floating"), "orphan roots must not survive parsing")
	assert.Empty(t, g.OutgoingEdges("floating"))
	// The child keeps existing; it simply has no incoming edge anymore and
	// gets pruned later at the component level.
	assert.NotNil(t, g.NodeByID("floating_child"))
}

func TestParser_EntryPreferredOverFirstRoot(t *testing.T) {
	p := newTestParser(t)

	doc := `{
	  "nodes": [
	    {"name": "stray", "prompt": "a"},
	    {"name": "real_start", "isStart": true, "prompt": "b"},
	    {"name": "after", "prompt": "c"}
	  ],
	  "edges": [{"from": "real_start", "to": "after"}]
	}`

	g, warnings, err := p.Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "real_start", g.EntryID)
	require.Len(t, warnings, 1)
	assert.Equal(t, "stray", warnings[0].NodeID)
}

func TestParser_DuplicateNodeName(t *testing.T) {
	p := newTestParser(t)

	doc := `{"nodes": [{"name": "dup", "prompt": "a"}, {"name": "dup", "prompt": "b"}], "edges": []}`

	_, _, err := p.Parse([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructural)

	var structural *StructuralError
	require.ErrorAs(t, err, &structural)
	assert.Equal(t, "duplicate_id", structural.Kind)
}

func TestParser_DanglingEdge(t *testing.T) {
	p := newTestParser(t)

	doc := `{"nodes": [{"name": "a", "prompt": "x"}], "edges": [{"from": "a", "to": "ghost"}]}`

	_, _, err := p.Parse([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructural)

	var structural *StructuralError
	require.ErrorAs(t, err, &structural)
	assert.Equal(t, "dangling_edge", structural.Kind)
}

func TestParser_EmptyGraph(t *testing.T) {
	p := newTestParser(t)

	_, _, err := p.Parse([]byte(`{"nodes": [], "edges": []}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructural)
}

func TestParser_CycleWithoutStartHasNoEntry(t *testing.T) {
	p := newTestParser(t)

	doc := `{
	  "nodes": [{"name": "a", "prompt": "x"}, {"name": "b", "prompt": "y"}],
	  "edges": [{"from": "a", "to": "b"}, {"from": "b", "to": "a"}]
	}`

	_, _, err := p.Parse([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructural)

	var structural *StructuralError
	require.ErrorAs(t, err, &structural)
	assert.Equal(t, "missing_entry", structural.Kind)
}

func TestParser_MalformedJSON(t *testing.T) {
	p := newTestParser(t)

	_, _, err := p.Parse([]byte(`{not json`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParser_ShapeValidationRejectsWrongTypes(t *testing.T) {
	p := newTestParser(t)

	_, _, err := p.Parse([]byte(`{"nodes": "not-a-list"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParser_WithoutShapeValidation(t *testing.T) {
	p := newTestParser(t, WithoutShapeValidation())

	doc := `{"nodes": [{"name": "solo", "prompt": "x"}], "edges": []}`

	g, _, err := p.Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "solo", g.EntryID)
}
