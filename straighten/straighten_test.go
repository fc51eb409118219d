package straighten_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mozilla-spidermonkey/iongraph/config"
	"github.com/mozilla-spidermonkey/iongraph/core"
	"github.com/mozilla-spidermonkey/iongraph/layering"
	"github.com/mozilla-spidermonkey/iongraph/layoutnode"
	"github.com/mozilla-spidermonkey/iongraph/loopclass"
	"github.com/mozilla-spidermonkey/iongraph/straighten"
)

func attrs(as ...core.Attribute) map[core.Attribute]bool {
	m := make(map[core.Attribute]bool, len(as))
	for _, a := range as {
		m[a] = true
	}
	return m
}

// build constructs a Graph with every block sized uniformly, runs
// classification and layering, and returns the graph ready for
// layoutnode.Materialize.
func build(t *testing.T, size core.Size, inputs []core.InputBlock) *core.Graph {
	t.Helper()
	g, err := core.BuildGraph(inputs)
	require.NoError(t, err)
	require.NoError(t, loopclass.Classify(g))
	layering.Assign(g)
	for _, b := range g.Blocks() {
		b.Size = size
	}
	return g
}

func nodeByBlock(nodes [][]*layoutnode.Node, id string) *layoutnode.Node {
	for _, layer := range nodes {
		for _, n := range layer {
			if n.Kind == layoutnode.KindBlock && n.Block.ID == id {
				return n
			}
		}
	}
	return nil
}

func TestStraighten_Diamond_CentersJoinUnderParent(t *testing.T) {
	// S2: 0 -> {1, 2} -> 3. Straightening should align node 3 with node 0.
	g := build(t, core.Size{Width: 100, Height: 40}, []core.InputBlock{
		{ID: "0", Succs: []string{"1", "2"}},
		{ID: "1", Preds: []string{"0"}, Succs: []string{"3"}},
		{ID: "2", Preds: []string{"0"}, Succs: []string{"3"}},
		{ID: "3", Preds: []string{"1", "2"}},
	})
	nodes := layoutnode.Materialize(g)
	straighten.Run(g, nodes, config.Default())

	n0 := nodeByBlock(nodes, "0")
	n3 := nodeByBlock(nodes, "3")
	require.NotNil(t, n0)
	require.NotNil(t, n3)
	assert.InDelta(t, n0.Pos.X, n3.Pos.X, 0.01)
}

func TestStraighten_StraightLine_SameX(t *testing.T) {
	g := build(t, core.Size{Width: 80, Height: 30}, []core.InputBlock{
		{ID: "0", Succs: []string{"1"}},
		{ID: "1", Preds: []string{"0"}, Succs: []string{"2"}},
		{ID: "2", Preds: []string{"1"}},
	})
	nodes := layoutnode.Materialize(g)
	straighten.Run(g, nodes, config.Default())

	x0 := nodeByBlock(nodes, "0").Pos.X
	x1 := nodeByBlock(nodes, "1").Pos.X
	x2 := nodeByBlock(nodes, "2").Pos.X
	assert.InDelta(t, x0, x1, 0.01)
	assert.InDelta(t, x0, x2, 0.01)
}

func TestStraighten_LongForwardEdge_DummyColumnStraight(t *testing.T) {
	// S6: the dummy chain from 0 to 3 must end up collinear after
	// straightening.
	g := build(t, core.Size{Width: 60, Height: 20}, []core.InputBlock{
		{ID: "0", Succs: []string{"1", "3"}},
		{ID: "1", Preds: []string{"0"}, Succs: []string{"2"}},
		{ID: "2", Preds: []string{"1"}, Succs: []string{"3"}},
		{ID: "3", Preds: []string{"2", "0"}},
	})
	nodes := layoutnode.Materialize(g)
	straighten.Run(g, nodes, config.Default())

	var dummyXs []float64
	for _, layer := range nodes[1:3] {
		for _, n := range layer {
			if n.Kind == layoutnode.KindDummy {
				dummyXs = append(dummyXs, n.Pos.X)
			}
		}
	}
	require.Len(t, dummyXs, 2)
	assert.InDelta(t, dummyXs[0], dummyXs[1], 0.01)
}

func TestStraighten_NoOverlapOnAnyLayer(t *testing.T) {
	// A wider fan-out/fan-in shape; the only invariant checked here is
	// spec §8 property 3: no two same-layer nodes overlap after BLOCK_GAP.
	g := build(t, core.Size{Width: 120, Height: 50}, []core.InputBlock{
		{ID: "0", Succs: []string{"1", "2", "3"}},
		{ID: "1", Preds: []string{"0"}, Succs: []string{"4"}},
		{ID: "2", Preds: []string{"0"}, Succs: []string{"4"}},
		{ID: "3", Preds: []string{"0"}, Succs: []string{"4"}},
		{ID: "4", Preds: []string{"1", "2", "3"}},
	})
	nodes := layoutnode.Materialize(g)
	p := config.Default()
	straighten.Run(g, nodes, p)

	for _, layer := range nodes {
		for i := 0; i+1 < len(layer); i++ {
			left, right := layer[i], layer[i+1]
			assert.GreaterOrEqual(t, right.Pos.X, left.Pos.X+left.Size.Width+p.BlockGap-0.01)
		}
	}
}

func TestStraighten_PushIntoLoops_BlockAtOrRightOfHeader(t *testing.T) {
	// S3: a simple one-block loop body must sit at x >= header.x.
	g := build(t, core.Size{Width: 100, Height: 40}, []core.InputBlock{
		{ID: "entry", Succs: []string{"h"}},
		{ID: "h", Attrs: attrs(core.AttrLoopHeader), LoopDepth: 1, Preds: []string{"entry", "be"}, Succs: []string{"x", "be"}},
		{ID: "be", Attrs: attrs(core.AttrBackedge), LoopDepth: 1, Preds: []string{"h"}, Succs: []string{"h"}},
		{ID: "x", LoopDepth: 0, Preds: []string{"h"}},
	})
	nodes := layoutnode.Materialize(g)
	straighten.Run(g, nodes, config.Default())

	h := nodeByBlock(nodes, "h")
	be := nodeByBlock(nodes, "be")
	require.NotNil(t, h)
	require.NotNil(t, be)
	require.GreaterOrEqual(t, be.Pos.X, h.Pos.X)
}

func TestStraighten_IdempotentOnFreshCopy(t *testing.T) {
	// Running the straightener on two freshly-built, identical graphs must
	// produce the same geometry (spec §8 "idempotence": each pass is
	// monotone, so repeating the pipeline converges).
	fresh := func() *core.Graph {
		return build(t, core.Size{Width: 90, Height: 35}, []core.InputBlock{
			{ID: "0", Succs: []string{"1", "2"}},
			{ID: "1", Preds: []string{"0"}, Succs: []string{"3"}},
			{ID: "2", Preds: []string{"0"}, Succs: []string{"3"}},
			{ID: "3", Preds: []string{"1", "2"}},
		})
	}

	g1 := fresh()
	nodes1 := layoutnode.Materialize(g1)
	straighten.Run(g1, nodes1, config.Default())

	g2 := fresh()
	nodes2 := layoutnode.Materialize(g2)
	straighten.Run(g2, nodes2, config.Default())
	straighten.Run(g2, nodes2, config.Default())

	for _, id := range []string{"0", "1", "2", "3"} {
		x1 := nodeByBlock(nodes1, id).Pos.X
		x2 := nodeByBlock(nodes2, id).Pos.X
		assert.InDelta(t, x1, x2, 0.01, "block %s diverged", id)
	}
}
