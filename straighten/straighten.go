package straighten

import (
	"math"

	"github.com/mozilla-spidermonkey/iongraph/config"
	"github.com/mozilla-spidermonkey/iongraph/core"
	"github.com/mozilla-spidermonkey/iongraph/layoutnode"
)

// Run executes the fixed X-Straightener pipeline of spec §4.E against
// nodesByLayer in place. g is the same Graph that produced nodesByLayer
// (via package layoutnode); it supplies loop-header lookups for
// pushIntoLoops. p carries every tunable constant and iteration count.
func Run(g *core.Graph, nodesByLayer [][]*layoutnode.Node, p config.Params) {
	for i := 0; i < p.LayoutIterations; i++ {
		straightenChildren(nodesByLayer, p)
		pushIntoLoops(g, nodesByLayer)
		straightenDummyRuns(nodesByLayer, p)
	}
	straightenDummyRuns(nodesByLayer, p)

	straightenNearlyStraight(nodesByLayer, p)

	straightenConservative(nodesByLayer, p)
	straightenDummyRuns(nodesByLayer, p)
	suckInLeftmostDummies(nodesByLayer, p)
}

// srcPortX returns the x coordinate of a node's portIdx'th outgoing port: a
// dummy's "port" is simply its own x (it has no width); a block's port 0
// starts at PortStart and steps by PortSpacing per index (spec §4 GLOSSARY).
func srcPortX(n *layoutnode.Node, portIdx int, p config.Params) float64 {
	if n.Kind == layoutnode.KindDummy {
		return n.Pos.X
	}
	return n.Pos.X + p.PortStart + float64(portIdx)*p.PortSpacing
}

// dstPortX returns the x coordinate where an edge lands on its destination:
// a dummy's single inbound slot is its own x; a block's destination port
// sits at PortStart from its left edge.
func dstPortX(n *layoutnode.Node, p config.Params) float64 {
	if n.Kind == layoutnode.KindDummy {
		return n.Pos.X
	}
	return n.Pos.X + p.PortStart
}

// pushNeighbors walks a layer left to right, shifting each node right just
// far enough to clear BLOCK_GAP from its left neighbor, per spec §4.E.1.
// Two extra allowances apply: PORT_START when the first non-dummy node
// follows a run of dummies, and BACKEDGE_ARROW_PUSHOUT+BLOCK_GAP+PORT_START
// to the right of a backedge block (its return column needs room).
func pushNeighbors(layer []*layoutnode.Node, p config.Params) {
	for i := 0; i+1 < len(layer); i++ {
		left, right := layer[i], layer[i+1]
		gap := p.BlockGap
		if left.Kind == layoutnode.KindDummy && right.Kind != layoutnode.KindDummy {
			gap += p.PortStart
		}
		if left.Kind == layoutnode.KindBlock && left.Block.IsBackedge() {
			gap += p.BackedgeArrowPushout + p.BlockGap + p.PortStart
		}
		minX := left.Pos.X + left.Size.Width + gap
		if right.Pos.X < minX {
			right.Pos.X = minX
		}
	}
}

// straightenChildren runs top-down: per layer, pushNeighbors, then for each
// node and destination port, pull the child right to align its source port
// with its destination port — but only if this node is the child's first
// source, and only if no earlier sibling on this layer has already shifted
// a child at or before the child's own position (spec §4.E.2).
func straightenChildren(nodesByLayer [][]*layoutnode.Node, p config.Params) {
	for layer := 0; layer < len(nodesByLayer); layer++ {
		pushNeighbors(nodesByLayer[layer], p)
		if layer+1 >= len(nodesByLayer) {
			continue
		}
		next := nodesByLayer[layer+1]
		indexOf := make(map[*layoutnode.Node]int, len(next))
		for idx, n := range next {
			indexOf[n] = idx
		}
		highestShifted := -1
		for _, n := range nodesByLayer[layer] {
			for portIdx, child := range n.DstNodes {
				if child == nil || len(child.SrcNodes) == 0 || child.SrcNodes[0] != n {
					continue
				}
				ci, ok := indexOf[child]
				if !ok || ci <= highestShifted {
					continue
				}
				desired := n.Pos.X + float64(portIdx)*p.PortSpacing
				if desired > child.Pos.X {
					child.Pos.X = desired
				}
				highestShifted = ci
			}
		}
	}
}

// pushIntoLoops enforces spec invariant 5: any BlockNode inside a loop must
// sit at x >= its loop header's x (spec §4.E.3).
func pushIntoLoops(g *core.Graph, nodesByLayer [][]*layoutnode.Node) {
	for _, layer := range nodesByLayer {
		for _, n := range layer {
			if n.Kind != layoutnode.KindBlock {
				continue
			}
			header := g.Header(n.Block.LoopID)
			if header == nil || header.Synthetic {
				continue
			}
			headerNode, ok := header.Block.LayoutNode.(*layoutnode.Node)
			if !ok || headerNode == nil {
				continue
			}
			if n.Pos.X < headerNode.Pos.X {
				n.Pos.X = headerNode.Pos.X
			}
		}
	}
}

// straightenDummyRuns groups every dummy by its final destination block and
// straightens each column to a single x: the column either leads directly
// into a backedge block's return column (x fixed relative to that block) or
// simply takes the current max x across its own dummies (spec §4.E.4).
func straightenDummyRuns(nodesByLayer [][]*layoutnode.Node, p config.Params) {
	columns := make(map[string][]*layoutnode.Node)
	var order []string
	for _, layer := range nodesByLayer {
		for _, n := range layer {
			if n.Kind != layoutnode.KindDummy {
				continue
			}
			if _, ok := columns[n.DstBlock.ID]; !ok {
				order = append(order, n.DstBlock.ID)
			}
			columns[n.DstBlock.ID] = append(columns[n.DstBlock.ID], n)
		}
	}

	for _, id := range order {
		dummies := columns[id]
		dst := dummies[0].DstBlock
		var desired float64
		if dst.IsBackedge() {
			if beNode, ok := dst.LayoutNode.(*layoutnode.Node); ok && beNode != nil {
				desired = beNode.Pos.X + beNode.Size.Width + p.BackedgeArrowPushout
			}
		} else {
			desired = dummies[0].Pos.X
			for _, d := range dummies {
				if d.Pos.X > desired {
					desired = d.Pos.X
				}
			}
		}
		for _, d := range dummies {
			if desired > d.Pos.X {
				d.Pos.X = desired
			}
		}
	}

	for _, layer := range nodesByLayer {
		pushNeighbors(layer, p)
	}
}

// straightenNearlyStraight alternates NearlyStraightIterations times between
// a top-down and bottom-up sweep: any dummy-involving edge whose horizontal
// offset is within NEARLY_STRAIGHT gets both endpoints' dummy side pulled to
// the rightmost of the pair (spec §4.E.5). Block endpoints are never moved
// here — their x is governed by straightenChildren/straightenConservative.
func straightenNearlyStraight(nodesByLayer [][]*layoutnode.Node, p config.Params) {
	for i := 0; i < p.NearlyStraightIterations; i++ {
		down := i%2 == 0
		straightenNearlyStraightPass(nodesByLayer, p, down)
	}
}

func straightenNearlyStraightPass(nodesByLayer [][]*layoutnode.Node, p config.Params, down bool) {
	n := len(nodesByLayer)
	for i := 0; i < n; i++ {
		layer := i
		if !down {
			layer = n - 1 - i
		}
		for _, src := range nodesByLayer[layer] {
			for portIdx, dst := range src.DstNodes {
				if dst == nil {
					continue
				}
				if src.Kind != layoutnode.KindDummy && dst.Kind != layoutnode.KindDummy {
					continue
				}
				sx := srcPortX(src, portIdx, p)
				dx := dstPortX(dst, p)
				if math.Abs(dx-sx) > p.NearlyStraight {
					continue
				}
				target := math.Max(sx, dx)
				if src.Kind == layoutnode.KindDummy && src.Pos.X < target {
					src.Pos.X = target
				}
				if dst.Kind == layoutnode.KindDummy && dst.Pos.X < target {
					dst.Pos.X = target
				}
			}
		}
		pushNeighbors(nodesByLayer[layer], p)
	}
}

// straightenConservative processes each layer right to left; every non-
// backedge BlockNode is offered candidate positive x-deltas that would
// align it with a parent's source port or a child's destination port, and
// takes the smallest one that does not collide with its right neighbor
// (rightmost dummies are exempt — they get straightened trivially by the
// following straightenDummyRuns pass) (spec §4.E.6).
func straightenConservative(nodesByLayer [][]*layoutnode.Node, p config.Params) {
	for _, layer := range nodesByLayer {
		for i := len(layer) - 1; i >= 0; i-- {
			n := layer[i]
			if n.Kind != layoutnode.KindBlock || n.Block.IsBackedge() {
				continue
			}

			rightLimit := math.Inf(1)
			if i+1 < len(layer) {
				right := layer[i+1]
				if !(right.Kind == layoutnode.KindDummy && right.HasFlag(layoutnode.FlagRightmostDummy)) {
					rightLimit = right.Pos.X - p.BlockGap - n.Size.Width
				}
			}

			// A candidate aligns n's port with a parent's source port
			// (n.x = parent.x + portIdx*PortSpacing, since both block ports
			// share the same PortStart offset) or with a child's destination
			// port (n.x = childDest - PortStart - portIdx*PortSpacing).
			var candidates []float64
			for _, parent := range n.SrcNodes {
				portIdx := indexOfDst(parent, n)
				if portIdx < 0 {
					continue
				}
				candidates = append(candidates, parent.Pos.X+float64(portIdx)*p.PortSpacing)
			}
			for portIdx, child := range n.DstNodes {
				if child == nil {
					continue
				}
				candidates = append(candidates, dstPortX(child, p)-p.PortStart-float64(portIdx)*p.PortSpacing)
			}

			best := math.Inf(1)
			for _, c := range candidates {
				if c <= n.Pos.X || c > rightLimit {
					continue
				}
				if c < best {
					best = c
				}
			}
			if !math.IsInf(best, 1) {
				n.Pos.X = best
			}
		}
	}
}

// indexOfDst returns the port index under which parent points at child, or
// -1 if it does not (defensive; every edge recorded by layoutnode is
// reciprocal, so this should always succeed).
func indexOfDst(parent, child *layoutnode.Node) int {
	for idx, d := range parent.DstNodes {
		if d == child {
			return idx
		}
	}
	return -1
}

// suckInLeftmostDummies walks each layer's leftmost-dummy run right to
// left, computing the rightmost position still safe for each dummy (bounded
// by its right neighbor, by every source's port x, and by its final
// destination block's x), then collapses each dummy column to the minimum
// safe position recorded across its layers so the column stays a single
// straight vertical line (spec §4.E.8).
func suckInLeftmostDummies(nodesByLayer [][]*layoutnode.Node, p config.Params) {
	safe := make(map[*layoutnode.Node]float64)

	for _, layer := range nodesByLayer {
		runEnd := -1
		for i := 0; i < len(layer) && layer[i].Kind == layoutnode.KindDummy && layer[i].HasFlag(layoutnode.FlagLeftmostDummy); i++ {
			runEnd = i
		}
		if runEnd < 0 {
			continue
		}

		bound := math.Inf(1)
		if runEnd+1 < len(layer) {
			bound = layer[runEnd+1].Pos.X - p.BlockGap
		}
		for i := runEnd; i >= 0; i-- {
			d := layer[i]
			b := bound
			for _, src := range d.SrcNodes {
				portIdx := indexOfDst(src, d)
				if portIdx < 0 {
					continue
				}
				if sx := srcPortX(src, portIdx, p); sx < b {
					b = sx
				}
			}
			if destNode, ok := d.DstBlock.LayoutNode.(*layoutnode.Node); ok && destNode != nil {
				if destNode.Pos.X < b {
					b = destNode.Pos.X
				}
			}
			safe[d] = b
			bound = b
		}
	}

	columns := make(map[string][]*layoutnode.Node)
	var order []string
	for _, layer := range nodesByLayer {
		for _, n := range layer {
			if n.Kind != layoutnode.KindDummy {
				continue
			}
			if _, ok := safe[n]; !ok {
				continue
			}
			if _, seen := columns[n.DstBlock.ID]; !seen {
				order = append(order, n.DstBlock.ID)
			}
			columns[n.DstBlock.ID] = append(columns[n.DstBlock.ID], n)
		}
	}
	for _, id := range order {
		dummies := columns[id]
		min := math.Inf(1)
		for _, d := range dummies {
			if safe[d] < min {
				min = safe[d]
			}
		}
		if math.IsInf(min, 1) {
			continue
		}
		for _, d := range dummies {
			d.Pos.X = min
		}
	}
}
