package layering_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mozilla-spidermonkey/iongraph/core"
	"github.com/mozilla-spidermonkey/iongraph/layering"
	"github.com/mozilla-spidermonkey/iongraph/loopclass"
)

func attrs(as ...core.Attribute) map[core.Attribute]bool {
	m := make(map[core.Attribute]bool, len(as))
	for _, a := range as {
		m[a] = true
	}
	return m
}

func build(t *testing.T, inputs []core.InputBlock) *core.Graph {
	t.Helper()
	g, err := core.BuildGraph(inputs)
	require.NoError(t, err)
	require.NoError(t, loopclass.Classify(g))
	return g
}

func TestAssign_StraightLine(t *testing.T) {
	// S1: 0 -> 1 -> 2.
	g := build(t, []core.InputBlock{
		{ID: "0", Succs: []string{"1"}},
		{ID: "1", Preds: []string{"0"}, Succs: []string{"2"}},
		{ID: "2", Preds: []string{"1"}},
	})
	layering.Assign(g)

	assert.Equal(t, 0, g.Block("0").Layer)
	assert.Equal(t, 1, g.Block("1").Layer)
	assert.Equal(t, 2, g.Block("2").Layer)
}

func TestAssign_Diamond(t *testing.T) {
	// S2: 0 -> 1, 0 -> 2, 1 -> 3, 2 -> 3.
	g := build(t, []core.InputBlock{
		{ID: "0", Succs: []string{"1", "2"}},
		{ID: "1", Preds: []string{"0"}, Succs: []string{"3"}},
		{ID: "2", Preds: []string{"0"}, Succs: []string{"3"}},
		{ID: "3", Preds: []string{"1", "2"}},
	})
	layering.Assign(g)

	assert.Equal(t, 0, g.Block("0").Layer)
	assert.Equal(t, 1, g.Block("1").Layer)
	assert.Equal(t, 1, g.Block("2").Layer)
	assert.Equal(t, 2, g.Block("3").Layer)
}

func TestAssign_SimpleLoop(t *testing.T) {
	// S3, with an explicit entry distinct from the header (see loopclass
	// tests for why a true header cannot itself be the empty-preds root).
	g := build(t, []core.InputBlock{
		{ID: "entry", Succs: []string{"0"}},
		{ID: "0", Attrs: attrs(core.AttrLoopHeader), LoopDepth: 1, Preds: []string{"entry", "1"}, Succs: []string{"2", "1"}},
		{ID: "1", Attrs: attrs(core.AttrBackedge), LoopDepth: 1, Preds: []string{"0"}, Succs: []string{"0"}},
		{ID: "2", LoopDepth: 0, Preds: []string{"0"}},
	})
	layering.Assign(g)

	assert.Equal(t, g.Block("0").Layer, g.Block("1").Layer, "backedge shares its header's layer")
	assert.Equal(t, g.Block("0").Layer+g.Header("0").LoopHeight, g.Block("2").Layer,
		"2 is deferred past the loop's height")
}

func TestAssign_EarlyExitFromLoop(t *testing.T) {
	// S4: H[loopheader] -> A -> B[backedge] -> H; H -> X[LD=0].
	g := build(t, []core.InputBlock{
		{ID: "entry", Succs: []string{"H"}},
		{ID: "H", Attrs: attrs(core.AttrLoopHeader), LoopDepth: 1, Preds: []string{"entry", "B"}, Succs: []string{"A", "X"}},
		{ID: "A", LoopDepth: 1, Preds: []string{"H"}, Succs: []string{"B"}},
		{ID: "B", Attrs: attrs(core.AttrBackedge), LoopDepth: 1, Preds: []string{"A"}, Succs: []string{"H"}},
		{ID: "X", LoopDepth: 0, Preds: []string{"H"}},
	})
	layering.Assign(g)

	h := g.Header("H")
	wantX := g.Block("H").Layer + h.LoopHeight
	assert.Equal(t, wantX, g.Block("X").Layer, "X lands strictly below the whole loop body")
	assert.Greater(t, g.Block("X").Layer, g.Block("A").Layer, "not alongside A")
}

func TestAssign_NestedLoopsSharedExit(t *testing.T) {
	// S5: outer header O contains inner header I; both exit to E — O falls
	// through to E directly, and I's own early exit also reaches E,
	// bypassing O's level entirely.
	g := build(t, []core.InputBlock{
		{ID: "entry", Succs: []string{"O"}},
		{ID: "O", Attrs: attrs(core.AttrLoopHeader), LoopDepth: 1, Preds: []string{"entry", "OB"}, Succs: []string{"I", "E"}},
		{ID: "I", Attrs: attrs(core.AttrLoopHeader), LoopDepth: 2, Preds: []string{"O", "IB"}, Succs: []string{"body", "E"}},
		{ID: "body", LoopDepth: 2, Preds: []string{"I"}, Succs: []string{"IB", "OB"}},
		{ID: "IB", Attrs: attrs(core.AttrBackedge), LoopDepth: 2, Preds: []string{"body"}, Succs: []string{"I"}},
		{ID: "OB", Attrs: attrs(core.AttrBackedge), LoopDepth: 1, Preds: []string{"body"}, Succs: []string{"O"}},
		{ID: "E", LoopDepth: 0, Preds: []string{"O", "I"}},
	})
	layering.Assign(g)

	hO := g.Header("O")
	hI := g.Header("I")
	assert.GreaterOrEqual(t, g.Block("E").Layer, g.Block("O").Layer+hO.LoopHeight)
	assert.GreaterOrEqual(t, hO.LoopHeight, hI.LoopHeight+(g.Block("I").Layer-g.Block("O").Layer)+1)
}

func TestAssign_LongForwardEdge(t *testing.T) {
	// S6: 0 -> 1 -> 2 -> 3 and 0 -> 3 directly.
	g := build(t, []core.InputBlock{
		{ID: "0", Succs: []string{"1", "3"}},
		{ID: "1", Preds: []string{"0"}, Succs: []string{"2"}},
		{ID: "2", Preds: []string{"1"}, Succs: []string{"3"}},
		{ID: "3", Preds: []string{"2", "0"}},
	})
	layering.Assign(g)

	assert.Equal(t, 0, g.Block("0").Layer)
	assert.Equal(t, 1, g.Block("1").Layer)
	assert.Equal(t, 2, g.Block("2").Layer)
	assert.Equal(t, 3, g.Block("3").Layer)
}
