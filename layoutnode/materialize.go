package layoutnode

import (
	"fmt"

	"github.com/mozilla-spidermonkey/iongraph/core"
)

// activeEdge is an in-flight forward edge during materialization: its
// source has already been emitted (a BlockNode or a chain-extending
// DummyNode); its destination is the final Block the edge leads to.
type activeEdge struct {
	src     *Node
	srcPort int
	dst     *core.Block
}

// Materialize performs Layout-Node Materialization (component D): it groups
// g's blocks by layer and builds, per layer, the BlockNodes and DummyNodes
// of spec §4.D, returning nodesByLayer in left-to-right insertion order
// (the X-Straightener is what actually spaces them out).
//
// g must already have every Block.Layer assigned (package layering).
func Materialize(g *core.Graph) [][]*Node {
	blocks := g.Blocks()
	maxLayer := -1
	for _, b := range blocks {
		if b.Layer > maxLayer {
			maxLayer = b.Layer
		}
	}
	if maxLayer < 0 {
		return nil
	}

	byLayer := make([][]*core.Block, maxLayer+1)
	for _, b := range blocks {
		byLayer[b.Layer] = append(byLayer[b.Layer], b)
	}

	nodesByLayer := make([][]*Node, maxLayer+1)
	dummyLayer := make(map[*Node]int)
	blockNodeOf := make(map[string]*Node, len(blocks))
	// latestBackedgeDummy tracks, per backedge block id, the most recently
	// created node in that loop's return column.
	latestBackedgeDummy := make(map[string]*Node)

	var activeEdges []*activeEdge
	dummySeq := 0
	newDummy := func(dst *core.Block, layer int) *Node {
		dummySeq++
		dn := &Node{ID: fmt.Sprintf("$dummy%d", dummySeq), Kind: KindDummy, DstBlock: dst}
		dummyLayer[dn] = layer
		return dn
	}

	for layer := 0; layer <= maxLayer; layer++ {
		var layerNodes []*Node
		forwardDummyByDest := make(map[string]*Node)

		// 1. Terminate active edges whose destination lands on this layer.
		var terminating, stillActive []*activeEdge
		for _, ae := range activeEdges {
			if ae.dst.Layer == layer {
				terminating = append(terminating, ae)
			} else {
				stillActive = append(stillActive, ae)
			}
		}

		// 2. Forward dummies, coalesced by final destination.
		for _, ae := range stillActive {
			dn, ok := forwardDummyByDest[ae.dst.ID]
			if !ok {
				dn = newDummy(ae.dst, layer)
				forwardDummyByDest[ae.dst.ID] = dn
				layerNodes = append(layerNodes, dn)
			}
			connectPort(ae.src, ae.srcPort, dn)
			ae.src, ae.srcPort = dn, 0
		}
		activeEdges = stillActive

		// 3. Determine which loops are active on this layer, in first-seen
		// order, by walking each block's loop-header chain (including the
		// block's own header, if it is one).
		var activeLoopOrder []string
		seenLoop := make(map[string]bool)
		for _, b := range byLayer[layer] {
			for h := g.Header(b.LoopID); h != nil && !h.Synthetic; h = h.ParentLoop {
				if !seenLoop[h.Block.ID] {
					seenLoop[h.Block.ID] = true
					activeLoopOrder = append(activeLoopOrder, h.Block.ID)
				}
			}
		}

		// 4. Block nodes, wiring terminating edges into them.
		for _, b := range byLayer[layer] {
			bn := &Node{ID: b.ID, Kind: KindBlock, Block: b, Size: b.Size}
			blockNodeOf[b.ID] = bn
			b.LayoutNode = bn
			layerNodes = append(layerNodes, bn)
			for _, ae := range terminating {
				if ae.dst.ID == b.ID {
					connectPort(ae.src, ae.srcPort, bn)
				}
			}
		}

		// 5. Backedge dummies: one per loop active on this layer, extending
		// (or starting) that loop's return column.
		thisLayerBackedgeDummy := make(map[string]*Node) // backedge block id -> dummy
		for _, headerID := range activeLoopOrder {
			h := g.Header(headerID)
			be := h.Backedge()
			dn := newDummy(be, layer)
			layerNodes = append(layerNodes, dn)
			if prev, ok := latestBackedgeDummy[be.ID]; ok {
				connectPort(dn, 0, prev)
			} else {
				dn.Flags |= FlagImminentBackedgeDummy
				connectPort(dn, 0, blockNodeOf[be.ID])
			}
			latestBackedgeDummy[be.ID] = dn
			thisLayerBackedgeDummy[be.ID] = dn
		}

		// 6. Emit edges from each block on this layer.
		for _, b := range byLayer[layer] {
			bn := blockNodeOf[b.ID]
			if b.IsBackedge() {
				connectPort(bn, 0, blockNodeOf[b.Succs[0].ID])
				continue
			}
			for i, s := range b.Succs {
				if s.IsBackedge() {
					connectPort(bn, i, thisLayerBackedgeDummy[s.ID])
					continue
				}
				activeEdges = append(activeEdges, &activeEdge{src: bn, srcPort: i, dst: s})
			}
		}

		nodesByLayer[layer] = layerNodes
	}

	pruneOrphans(nodesByLayer, dummyLayer)
	flagLeftRightDummies(nodesByLayer)
	return nodesByLayer
}

// connectPort links src's srcPort'th outgoing edge to dst, recording dst as
// one of src's incoming neighbors.
func connectPort(src *Node, srcPort int, dst *Node) {
	for len(src.DstNodes) <= srcPort {
		src.DstNodes = append(src.DstNodes, nil)
		src.JointOffsets = append(src.JointOffsets, 0)
	}
	src.DstNodes[srcPort] = dst
	dst.SrcNodes = append(dst.SrcNodes, src)
}

// pruneOrphans removes any DummyNode that ends up with no sources — a
// backedge column that reached further than the loop actually needed, or a
// forward-dummy chain nothing ultimately attached to — along with its
// unique successor chain, stopping at the first node that still has other
// inputs (spec §4.D "Prune orphans").
func pruneOrphans(nodesByLayer [][]*Node, dummyLayer map[*Node]int) {
	for layer, nodes := range nodesByLayer {
		var kept []*Node
		for _, n := range nodes {
			if n.Kind == KindDummy && len(n.SrcNodes) == 0 {
				removeOrphanChain(nodesByLayer, n, dummyLayer)
				continue
			}
			kept = append(kept, n)
		}
		nodesByLayer[layer] = kept
	}
}

func removeOrphanChain(nodesByLayer [][]*Node, n *Node, dummyLayer map[*Node]int) {
	for n != nil && n.Kind == KindDummy && len(n.SrcNodes) == 0 {
		layer := dummyLayer[n]
		nodesByLayer[layer] = removeNode(nodesByLayer[layer], n)

		var next *Node
		if len(n.DstNodes) > 0 {
			next = n.DstNodes[0]
		}
		if next != nil {
			next.SrcNodes = removeNode(next.SrcNodes, n)
		}
		n = next
	}
}

func removeNode(nodes []*Node, target *Node) []*Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

// flagLeftRightDummies scans each layer from the outside in, marking
// contiguous dummy runs at either end — these get special treatment in the
// X-Straightener (straightenConservative, suckInLeftmostDummies).
func flagLeftRightDummies(nodesByLayer [][]*Node) {
	for _, nodes := range nodesByLayer {
		for i := 0; i < len(nodes) && nodes[i].Kind == KindDummy; i++ {
			nodes[i].Flags |= FlagLeftmostDummy
		}
		for i := len(nodes) - 1; i >= 0 && nodes[i].Kind == KindDummy; i-- {
			nodes[i].Flags |= FlagRightmostDummy
		}
	}
}
