package layoutnode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mozilla-spidermonkey/iongraph/core"
	"github.com/mozilla-spidermonkey/iongraph/layering"
	"github.com/mozilla-spidermonkey/iongraph/layoutnode"
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
	layering.Assign(g)
	return g
}

func findNode(nodes [][]*layoutnode.Node, id string) *layoutnode.Node {
	for _, layer := range nodes {
		for _, n := range layer {
			if n.Kind == layoutnode.KindBlock && n.Block.ID == id {
				return n
			}
		}
	}
	return nil
}

func TestMaterialize_StraightLine(t *testing.T) {
	g := build(t, []core.InputBlock{
		{ID: "0", Succs: []string{"1"}},
		{ID: "1", Preds: []string{"0"}, Succs: []string{"2"}},
		{ID: "2", Preds: []string{"1"}},
	})
	nodes := layoutnode.Materialize(g)
	require.Len(t, nodes, 3)
	for _, layer := range nodes {
		require.Len(t, layer, 1)
		assert.Equal(t, layoutnode.KindBlock, layer[0].Kind)
	}
	n0 := findNode(nodes, "0")
	require.Len(t, n0.DstNodes, 1)
	assert.Equal(t, "1", n0.DstNodes[0].Block.ID)
}

func TestMaterialize_PostConditions(t *testing.T) {
	// Diamond (S2): every BlockNode's DstNodes length must equal its
	// block's Succs length, with no unset slots.
	g := build(t, []core.InputBlock{
		{ID: "0", Succs: []string{"1", "2"}},
		{ID: "1", Preds: []string{"0"}, Succs: []string{"3"}},
		{ID: "2", Preds: []string{"0"}, Succs: []string{"3"}},
		{ID: "3", Preds: []string{"1", "2"}},
	})
	nodes := layoutnode.Materialize(g)
	for _, layer := range nodes {
		for _, n := range layer {
			if n.Kind != layoutnode.KindBlock {
				require.Len(t, n.DstNodes, 1, "every DummyNode has exactly one destination")
				continue
			}
			require.Len(t, n.DstNodes, len(n.Block.Succs))
			for _, d := range n.DstNodes {
				require.NotNil(t, d)
			}
		}
	}
}

func TestMaterialize_LongForwardEdgeCoalesces(t *testing.T) {
	// S6: 0 -> 1 -> 2 -> 3 and 0 -> 3 directly; exactly one dummy per
	// intermediate layer, both leading to the same final destination.
	g := build(t, []core.InputBlock{
		{ID: "0", Succs: []string{"1", "3"}},
		{ID: "1", Preds: []string{"0"}, Succs: []string{"2"}},
		{ID: "2", Preds: []string{"1"}, Succs: []string{"3"}},
		{ID: "3", Preds: []string{"2", "0"}},
	})
	nodes := layoutnode.Materialize(g)

	for _, layer := range nodes[1:3] {
		var dummies []*layoutnode.Node
		for _, n := range layer {
			if n.Kind == layoutnode.KindDummy {
				dummies = append(dummies, n)
			}
		}
		require.Len(t, dummies, 1)
		assert.Equal(t, "3", dummies[0].DstBlock.ID)
	}
}

func TestMaterialize_BackedgeColumnNoOrphans(t *testing.T) {
	// S3-derived fixture: a one-layer loop gets exactly one backedge
	// dummy, and it is never pruned as an orphan since the header's own
	// branch into the backedge feeds it.
	g := build(t, []core.InputBlock{
		{ID: "entry", Succs: []string{"0"}},
		{ID: "0", Attrs: attrs(core.AttrLoopHeader), LoopDepth: 1, Preds: []string{"entry", "1"}, Succs: []string{"2", "1"}},
		{ID: "1", Attrs: attrs(core.AttrBackedge), LoopDepth: 1, Preds: []string{"0"}, Succs: []string{"0"}},
		{ID: "2", LoopDepth: 0, Preds: []string{"0"}},
	})
	nodes := layoutnode.Materialize(g)

	headerLayer := g.Block("0").Layer
	var dummies []*layoutnode.Node
	for _, n := range nodes[headerLayer] {
		if n.Kind == layoutnode.KindDummy {
			dummies = append(dummies, n)
		}
	}
	require.Len(t, dummies, 1, "exactly one backedge column on the header's layer")
	dn := dummies[0]
	assert.True(t, dn.HasFlag(layoutnode.FlagImminentBackedgeDummy))
	require.NotEmpty(t, dn.SrcNodes, "no orphan dummies remain")
	require.Len(t, dn.DstNodes, 1)
	assert.Equal(t, "1", dn.DstNodes[0].Block.ID)
}
