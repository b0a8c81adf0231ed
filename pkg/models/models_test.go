package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindsCompatible(t *testing.T) {
	assert.True(t, KindsCompatible([]string{"Message"}, []string{"Message"}))
	assert.True(t, KindsCompatible([]string{"Message"}, []string{"Data", "DataFrame", "Message"}))
	assert.False(t, KindsCompatible([]string{"Message"}, []string{"Data"}))
	assert.False(t, KindsCompatible(nil, []string{"Message"}))
	assert.False(t, KindsCompatible([]string{"Message"}, nil))
}

func TestNewConnection_DoubleEncodedHandles(t *testing.T) {
	src := SourceHandle{
		DataType:    "Agent",
		ID:          "Agent-001",
		Name:        "response",
		OutputTypes: []string{"Message"},
	}
	dst := TargetHandle{
		FieldName:  "input_value",
		ID:         "ChatOutput-002",
		InputTypes: []string{"Data", "DataFrame", "Message"},
		Type:       "other",
	}

	conn := NewConnection(src, dst, nil)

	assert.Equal(t, "Agent-001", conn.Source)
	assert.Equal(t, "ChatOutput-002", conn.Target)
	assert.True(t, strings.HasPrefix(conn.ID, "xy-edge__Agent-001"), "id should use the xy-edge format")

	// The top-level handles are JSON strings that decode back to the
	// objects carried under data.
	var decodedSrc SourceHandle
	require.NoError(t, json.Unmarshal([]byte(conn.SourceHandle), &decodedSrc))
	assert.Equal(t, src, decodedSrc)
	assert.Equal(t, src, conn.Data.SourceHandle)

	var decodedDst TargetHandle
	require.NoError(t, json.Unmarshal([]byte(conn.TargetHandle), &decodedDst))
	assert.Equal(t, dst, decodedDst)
	assert.Equal(t, dst, conn.Data.TargetHandle)
}

func TestNewConnection_CarriesEdgeCondition(t *testing.T) {
	cond := &EdgeCondition{Kind: ConditionKindClassified, Description: "user wants to book"}
	conn := NewConnection(SourceHandle{ID: "a"}, TargetHandle{ID: "b"}, cond)

	require.NotNil(t, conn.Data.Condition)
	assert.Equal(t, "user wants to book", conn.Data.Condition.Description)
}

func newTestInstance() *ComponentInstance {
	doc := map[string]any{
		"id": "Agent-abc",
		"data": map[string]any{
			"id":   "Agent-abc",
			"type": "Agent",
			"node": map[string]any{
				"display_name": "Agent",
				"template": map[string]any{
					"system_prompt": map[string]any{"value": "original"},
					"code":          map[string]any{"value": "class Agent: pass"},
				},
			},
		},
	}

	return &ComponentInstance{ID: "Agent-abc", Type: "Agent", Doc: doc}
}

func TestComponentInstance_SetFieldValue(t *testing.T) {
	inst := newTestInstance()

	require.NoError(t, inst.SetFieldValue("system_prompt", "updated"))

	v, ok := inst.FieldValue("system_prompt")
	require.True(t, ok)
	assert.Equal(t, "updated", v)
}

func TestComponentInstance_SetFieldValueAbsentFieldFails(t *testing.T) {
	inst := newTestInstance()

	err := inst.SetFieldValue("no_such_field", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_field")
	assert.False(t, inst.HasField("no_such_field"), "the failed write must not insert the field")
}

func TestComponentInstance_Position(t *testing.T) {
	inst := newTestInstance()
	inst.SetPosition(120, -45)

	x, y := inst.Position()
	assert.InDelta(t, 120, x, 0.001)
	assert.InDelta(t, -45, y, 0.001)
}

func TestDeepCopyDoc_Isolation(t *testing.T) {
	original := map[string]any{
		"data": map[string]any{
			"node": map[string]any{
				"template": map[string]any{
					"code": map[string]any{"value": "payload"},
				},
				"outputs": []any{map[string]any{"name": "response"}},
			},
		},
	}

	copied := DeepCopyDoc(original)

	tmpl := copied["data"].(map[string]any)["node"].(map[string]any)["template"].(map[string]any)
	tmpl["code"].(map[string]any)["value"] = "mutated"

	originalValue := original["data"].(map[string]any)["node"].(map[string]any)["template"].(map[string]any)["code"].(map[string]any)["value"]
	assert.Equal(t, "payload", originalValue, "mutating the copy must not touch the original")

	outputs := copied["data"].(map[string]any)["node"].(map[string]any)["outputs"].([]any)
	outputs[0].(map[string]any)["name"] = "changed"

	originalName := original["data"].(map[string]any)["node"].(map[string]any)["outputs"].([]any)[0].(map[string]any)["name"]
	assert.Equal(t, "response", originalName)
}

func TestSourceGraph_Helpers(t *testing.T) {
	g := &SourceGraph{
		Nodes: []*SourceNode{
			{ID: "greet"},
			{ID: "book"},
			{ID: "cancel"},
		},
		Edges: []*SourceEdge{
			{From: "greet", To: "book"},
			{From: "greet", To: "cancel"},
		},
		EntryID: "greet",
	}

	require.NotNil(t, g.Entry())
	assert.Equal(t, "greet", g.Entry().ID)
	assert.Nil(t, g.NodeByID("missing"))

	out := g.OutgoingEdges("greet")
	require.Len(t, out, 2)
	assert.Equal(t, "book", out[0].To, "edges must keep document order")
	assert.Equal(t, "cancel", out[1].To)

	assert.Equal(t, []string{"book", "cancel"}, g.TerminalNodes())
}

func TestRoutingPlan_Covers(t *testing.T) {
	e1 := &SourceEdge{From: "a", To: "b"}
	e2 := &SourceEdge{From: "a", To: "c"}
	other := &SourceEdge{From: "x", To: "y"}

	plan := &RoutingPlan{
		BranchNodeID: "a",
		Legs: []RoutingLeg{
			{Edge: e1, GateID: "g1", Port: "true_result"},
			{Edge: e2, GateID: "g1", Port: "false_result"},
		},
	}

	assert.True(t, plan.Covers(e1))
	assert.True(t, plan.Covers(e2))
	assert.False(t, plan.Covers(other))
}
