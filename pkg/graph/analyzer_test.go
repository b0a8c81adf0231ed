package graph

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammadDevPk/langflow/pkg/models"
)

func newTestAnalyzer(maxDepth int) *Analyzer {
	return NewAnalyzer(slog.New(slog.NewTextHandler(os.Stdout, nil)), maxDepth)
}

func buildGraph(entry string, edges [][2]string) *models.SourceGraph {
	g := &models.SourceGraph{EntryID: entry}

	seen := map[string]bool{}
	addNode := func(id string) {
		if !seen[id] {
			seen[id] = true

			g.Nodes = append(g.Nodes, &models.SourceNode{ID: id, DisplayName: id, SideEffect: models.SideEffectNone})
		}
	}

	addNode(entry)

	for _, e := range edges {
		addNode(e[0])
		addNode(e[1])
		g.Edges = append(g.Edges, &models.SourceEdge{From: e[0], To: e[1]})
	}

	return g
}

func TestAnalyzer_DepthIsBFSLayer(t *testing.T) {
	g := buildGraph("a", [][2]string{
		{"a", "b"},
		{"b", "c"},
		{"a", "d"},
		{"d", "c"}, // c is reachable at depth 2 both ways
	})

	analysis := newTestAnalyzer(1).Analyze(g)

	assert.Equal(t, 0, analysis.Depth["a"])
	assert.Equal(t, 1, analysis.Depth["b"])
	assert.Equal(t, 1, analysis.Depth["d"])
	assert.Equal(t, 2, analysis.Depth["c"])
}

func TestAnalyzer_ClassifiesNearAndDeep(t *testing.T) {
	g := buildGraph("entry", [][2]string{
		{"entry", "branch_near"},
		{"branch_near", "x"},
		{"branch_near", "y"},
		{"y", "branch_deep"},
		{"branch_deep", "p"},
		{"branch_deep", "q"},
	})

	analysis := newTestAnalyzer(1).Analyze(g)

	require.Len(t, analysis.BranchPoints, 2)

	byID := map[string]*models.BranchPoint{}
	for _, bp := range analysis.BranchPoints {
		byID[bp.NodeID] = bp
	}

	near := byID["branch_near"]
	require.NotNil(t, near)
	assert.Equal(t, models.DepthNear, near.Class)
	assert.Equal(t, 1, near.Depth)
	require.Len(t, near.Edges, 2)
	assert.Equal(t, "x", near.Edges[0].To, "edges keep document order")

	deep := byID["branch_deep"]
	require.NotNil(t, deep)
	assert.Equal(t, models.DepthDeep, deep.Class)
	assert.Equal(t, 3, deep.Depth)
}

func TestAnalyzer_EntryBranchPointIsNear(t *testing.T) {
	g := buildGraph("entry", [][2]string{
		{"entry", "a"},
		{"entry", "b"},
		{"entry", "c"},
	})

	analysis := newTestAnalyzer(0).Analyze(g) // 0 selects the default depth

	require.Len(t, analysis.BranchPoints, 1)
	assert.Equal(t, "entry", analysis.BranchPoints[0].NodeID)
	assert.Equal(t, models.DepthNear, analysis.BranchPoints[0].Class)
	assert.Len(t, analysis.BranchPoints[0].Edges, 3)
}

func TestAnalyzer_CycleUsesFirstVisitDepth(t *testing.T) {
	g := buildGraph("a", [][2]string{
		{"a", "b"},
		{"b", "a"}, // back-edge to the entry
		{"b", "c"},
	})

	analysis := newTestAnalyzer(1).Analyze(g)

	assert.Equal(t, 0, analysis.Depth["a"], "a back-edge must not re-deepen the entry")

	require.Len(t, analysis.BranchPoints, 1)
	assert.Equal(t, "b", analysis.BranchPoints[0].NodeID)
	assert.Equal(t, models.DepthNear, analysis.BranchPoints[0].Class)
}

func TestAnalyzer_UnreachableBranchPointSkipped(t *testing.T) {
	g := buildGraph("a", [][2]string{
		{"a", "b"},
		{"island", "p"},
		{"island", "q"},
	})

	analysis := newTestAnalyzer(1).Analyze(g)

	assert.Empty(t, analysis.BranchPoints, "a branch point no path reaches produces no routing")
	_, reachable := analysis.Depth["island"]
	assert.False(t, reachable)
}

func TestAnalyzer_RaisedDepthRoutesDeeper(t *testing.T) {
	g := buildGraph("entry", [][2]string{
		{"entry", "mid"},
		{"mid", "branch"},
		{"branch", "x"},
		{"branch", "y"},
	})

	strict := newTestAnalyzer(1).Analyze(g)
	require.Len(t, strict.BranchPoints, 1)
	assert.Equal(t, models.DepthDeep, strict.BranchPoints[0].Class)

	relaxed := newTestAnalyzer(3).Analyze(g)
	require.Len(t, relaxed.BranchPoints, 1)
	assert.Equal(t, models.DepthNear, relaxed.BranchPoints[0].Class)
}
