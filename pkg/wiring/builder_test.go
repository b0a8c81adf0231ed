package wiring

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammadDevPk/langflow/pkg/models"
	"github.com/MuhammadDevPk/langflow/pkg/palette"
	"github.com/MuhammadDevPk/langflow/pkg/palette/palettetest"
)

func TestConnect_BuildsTypedConnection(t *testing.T) {
	reg := palettetest.NewRegistry(t)
	builder := NewBuilder(palettetest.Logger())

	agent, err := reg.Clone(models.ComponentTypeAgent)
	require.NoError(t, err)

	gate, err := reg.Clone(models.ComponentTypeGate)
	require.NoError(t, err)

	require.NoError(t, builder.Connect(agent, palette.PortResponse, gate, palette.PortInputText, nil))

	conns := builder.Connections()
	require.Len(t, conns, 1)

	conn := conns[0]
	assert.Equal(t, agent.ID, conn.Source)
	assert.Equal(t, gate.ID, conn.Target)

	var src models.SourceHandle
	require.NoError(t, json.Unmarshal([]byte(conn.SourceHandle), &src))
	assert.Equal(t, models.ComponentTypeAgent, src.DataType)
	assert.Equal(t, palette.PortResponse, src.Name)
	assert.Equal(t, []string{palette.KindMessage}, src.OutputTypes)

	var dst models.TargetHandle
	require.NoError(t, json.Unmarshal([]byte(conn.TargetHandle), &dst))
	assert.Equal(t, palette.PortInputText, dst.FieldName)
	assert.Equal(t, "str", dst.Type, "single-kind inputs carry the plain handle type")
}

func TestConnect_MultiKindInputTaggedOther(t *testing.T) {
	reg := palettetest.NewRegistry(t)
	builder := NewBuilder(palettetest.Logger())

	agent, err := reg.Clone(models.ComponentTypeAgent)
	require.NoError(t, err)

	output, err := reg.Clone(models.ComponentTypeChatOutput)
	require.NoError(t, err)

	require.NoError(t, builder.ConnectDefault(agent, output, nil))

	conn := builder.Connections()[0]

	var dst models.TargetHandle
	require.NoError(t, json.Unmarshal([]byte(conn.TargetHandle), &dst))
	assert.Equal(t, palette.PortInputValue, dst.FieldName)
	assert.Equal(t, "other", dst.Type)
	assert.Equal(t, []string{"Data", "DataFrame", palette.KindMessage}, dst.InputTypes)
}

func TestConnect_UnknownPortFailsFast(t *testing.T) {
	reg := palettetest.NewRegistry(t)
	builder := NewBuilder(palettetest.Logger())

	agent, err := reg.Clone(models.ComponentTypeAgent)
	require.NoError(t, err)

	gate, err := reg.Clone(models.ComponentTypeGate)
	require.NoError(t, err)

	err = builder.Connect(agent, "no_such_output", gate, palette.PortInputText, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, palette.ErrPalette)

	var lookup *palette.LookupError
	require.ErrorAs(t, err, &lookup)
	assert.Equal(t, "no_such_output", lookup.Port)

	err = builder.Connect(agent, palette.PortResponse, gate, "no_such_input", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, palette.ErrPalette)

	assert.Empty(t, builder.Connections(), "failed connects must not leave partial wires")
}

func TestConnect_KindMismatchViolatesContract(t *testing.T) {
	builder := NewBuilder(palettetest.Logger())

	src := &models.ComponentInstance{
		ID:   "Src-1",
		Type: "Src",
		Blueprint: &models.ComponentBlueprint{
			Type:    "Src",
			Outputs: []models.PortSpec{{Name: "out", Kinds: []string{"DataFrame"}}},
		},
	}
	dst := &models.ComponentInstance{
		ID:   "Dst-1",
		Type: "Dst",
		Blueprint: &models.ComponentBlueprint{
			Type:   "Dst",
			Inputs: []models.PortSpec{{Name: "in", Kinds: []string{palette.KindMessage}}},
		},
	}

	err := builder.Connect(src, "out", dst, "in", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrContract)
}

func TestConnectDefault_UsesPrimaryPorts(t *testing.T) {
	reg := palettetest.NewRegistry(t)
	builder := NewBuilder(palettetest.Logger())

	input, err := reg.Clone(models.ComponentTypeChatInput)
	require.NoError(t, err)

	model, err := reg.Clone(models.ComponentTypeModel)
	require.NoError(t, err)

	cond := &models.EdgeCondition{Kind: models.ConditionKindClassified, Description: "always"}
	require.NoError(t, builder.ConnectDefault(input, model, cond))

	conn := builder.Connections()[0]
	assert.Equal(t, input.ID, conn.Source)
	assert.Equal(t, model.ID, conn.Target)
	require.NotNil(t, conn.Data.Condition)
	assert.Equal(t, "always", conn.Data.Condition.Description)

	var src models.SourceHandle
	require.NoError(t, json.Unmarshal([]byte(conn.SourceHandle), &src))
	assert.Equal(t, palette.PortMessage, src.Name)

	var dstHandle models.TargetHandle
	require.NoError(t, json.Unmarshal([]byte(conn.TargetHandle), &dstHandle))
	assert.Equal(t, palette.PortInputValue, dstHandle.FieldName)
}

func TestConnections_CreationOrder(t *testing.T) {
	reg := palettetest.NewRegistry(t)
	builder := NewBuilder(palettetest.Logger())

	input, err := reg.Clone(models.ComponentTypeChatInput)
	require.NoError(t, err)

	model, err := reg.Clone(models.ComponentTypeModel)
	require.NoError(t, err)

	output, err := reg.Clone(models.ComponentTypeChatOutput)
	require.NoError(t, err)

	require.NoError(t, builder.ConnectDefault(input, model, nil))
	require.NoError(t, builder.ConnectDefault(model, output, nil))

	conns := builder.Connections()
	require.Len(t, conns, 2)
	assert.Equal(t, input.ID, conns[0].Source)
	assert.Equal(t, model.ID, conns[1].Source)
}
