package compiler

import (
	"fmt"

	"github.com/MuhammadDevPk/langflow/pkg/models"
)

// Canvas layout constants, in canvas units.
const (
	entrySentinelX  = -800
	exitSentinelGap = 400
	autoLayoutX     = -400
	autoLayoutStep  = 300
	autoLayoutY     = 100
)

// assembly is the per-compilation working set: every cloned instance, the
// node-to-instance mapping, routing plans and wires. Owned exclusively by
// the compiler until emission.
type assembly struct {
	graph         *models.SourceGraph
	instances     []*models.ComponentInstance
	byID          map[string]*models.ComponentInstance
	byNode        map[string]*models.ComponentInstance
	plans         []*models.RoutingPlan
	planByNode    map[string]*models.RoutingPlan
	connections   []*models.Connection
	entrySentinel *models.ComponentInstance
	exitSentinel  *models.ComponentInstance
}

func newAssembly(g *models.SourceGraph) *assembly {
	return &assembly{
		graph:      g,
		byID:       make(map[string]*models.ComponentInstance),
		byNode:     make(map[string]*models.ComponentInstance),
		planByNode: make(map[string]*models.RoutingPlan),
	}
}

func (a *assembly) add(inst *models.ComponentInstance) {
	a.instances = append(a.instances, inst)
	a.byID[inst.ID] = inst
}

func (a *assembly) maxX() float64 {
	maxX := 0.0

	for _, inst := range a.instances {
		if x, _ := inst.Position(); x > maxX {
			maxX = x
		}
	}

	return maxX
}

// check enforces the emission invariants: unique instance ids and no
// connection referencing a missing instance. Violations are compiler
// defects, not input errors.
func (a *assembly) check() error {
	seen := make(map[string]bool, len(a.instances))
	present := make(map[string]bool, len(a.instances))

	for _, inst := range a.instances {
		if seen[inst.ID] {
			return fmt.Errorf("duplicate instance id %q in assembly", inst.ID)
		}

		seen[inst.ID] = true
		present[inst.ID] = true
	}

	for _, conn := range a.connections {
		if !present[conn.Source] {
			return fmt.Errorf("connection %q references missing source instance %q", conn.ID, conn.Source)
		}

		if !present[conn.Target] {
			return fmt.Errorf("connection %q references missing target instance %q", conn.ID, conn.Target)
		}
	}

	return nil
}

// placeInstance uses the source node's position when the export carried one,
// otherwise a horizontal auto-layout by node index.
func placeInstance(inst *models.ComponentInstance, node *models.SourceNode, index int) {
	if node.HasPosition {
		inst.SetPosition(node.PositionX, node.PositionY)

		return
	}

	inst.SetPosition(float64(autoLayoutX+index*autoLayoutStep), autoLayoutY)
}
