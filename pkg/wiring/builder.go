// Package wiring materializes typed connections between component instances,
// using the exact port names and data kinds the palette declares. A lookup
// miss is a compile-time failure, never a silently dropped wire.
package wiring

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/MuhammadDevPk/langflow/pkg/models"
	"github.com/MuhammadDevPk/langflow/pkg/palette"
)

// ErrContract is the sentinel for port-contract violations between two
// otherwise valid ports.
var ErrContract = errors.New("port contract violation")

// Builder accumulates connections for one compilation.
type Builder struct {
	logger      *slog.Logger
	connections []*models.Connection
}

// NewBuilder creates an empty wire builder.
func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{logger: logger.With("module", "wiring")}
}

// Connect wires a named output port to a named input port. Both ports must
// exist on the respective blueprints and their declared data kinds must
// overlap.
func (b *Builder) Connect(src *models.ComponentInstance, srcPort string, dst *models.ComponentInstance, dstPort string, cond *models.EdgeCondition) error {
	out, ok := src.Blueprint.OutputPort(srcPort)
	if !ok {
		return &palette.LookupError{ComponentType: src.Type, Port: srcPort}
	}

	in, ok := dst.Blueprint.InputPort(dstPort)
	if !ok {
		return &palette.LookupError{ComponentType: dst.Type, Port: dstPort}
	}

	if !models.KindsCompatible(out.Kinds, in.Kinds) {
		return fmt.Errorf("%w: %s.%s %v does not feed %s.%s %v",
			ErrContract, src.Type, srcPort, out.Kinds, dst.Type, dstPort, in.Kinds)
	}

	srcHandle := models.SourceHandle{
		DataType:    src.Type,
		ID:          src.ID,
		Name:        out.Name,
		OutputTypes: out.Kinds,
	}
	dstHandle := models.TargetHandle{
		FieldName:  in.Name,
		ID:         dst.ID,
		InputTypes: in.Kinds,
		Type:       inputHandleType(in),
	}

	b.connections = append(b.connections, models.NewConnection(srcHandle, dstHandle, cond))
	b.logger.Debug("wired connection",
		"source", src.ID, "source_port", srcPort,
		"target", dst.ID, "target_port", dstPort)

	return nil
}

// ConnectDefault wires the primary output to the primary input.
func (b *Builder) ConnectDefault(src, dst *models.ComponentInstance, cond *models.EdgeCondition) error {
	return b.Connect(src, src.Blueprint.PrimaryOutput().Name, dst, dst.Blueprint.PrimaryInput().Name, cond)
}

// Connections returns the accumulated wires in creation order.
func (b *Builder) Connections() []*models.Connection {
	return b.connections
}

// inputHandleType mirrors the runtime's handle typing: single-kind inputs
// are plain strings, multi-kind inputs are tagged as generic.
func inputHandleType(in models.PortSpec) string {
	if len(in.Kinds) > 1 {
		return "other"
	}

	return "str"
}
