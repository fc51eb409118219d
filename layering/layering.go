package layering

import "github.com/mozilla-spidermonkey/iongraph/core"

// Assign walks g from every root, setting Block.Layer and
// LoopHeader.LoopHeight for every block and loop header reachable from a
// root. It must run after loopclass.Classify has populated Block.LoopID and
// LoopHeader.ParentLoop; Assign itself performs no validation of its own —
// malformed LoopDepth/backedge shapes are rejected earlier, by core and
// loopclass.
func Assign(g *core.Graph) {
	for _, root := range g.Roots() {
		walk(g, root, 0)
	}
}

// walk classifies b's layer at candidate depth layer and recurses into its
// successors. A block may be visited more than once, from different
// incoming paths; Block.Layer only ever grows (spec invariant 4: forward
// edges always go to strictly greater layers), so repeated visits converge
// rather than regress an already-settled layer.
func walk(g *core.Graph, b *core.Block, layer int) {
	if b.IsBackedge() {
		// A backedge block's layer is borrowed from its sole successor (the
		// loop header it returns to), never computed independently (spec
		// invariant 3). The header was necessarily walked before its own
		// backedge, so its Layer is already settled here.
		b.Layer = b.Succs[0].Layer
		return
	}

	if layer > b.Layer {
		b.Layer = layer
	}

	header := g.Header(b.LoopID)
	for h := header; h != nil; h = h.ParentLoop {
		if height := b.Layer - h.Block.Layer + 1; height > h.LoopHeight {
			h.LoopHeight = height
		}
	}

	for _, s := range b.Succs {
		if s.LoopDepth < b.LoopDepth {
			// s exits one or more loops; defer it until the enclosing
			// header's own walk knows the loop's final height.
			header.OutgoingEdges = append(header.OutgoingEdges, s)
			continue
		}
		walk(g, s, b.Layer+1)
	}

	if b.IsLoopHeader() {
		for _, s := range header.OutgoingEdges {
			walk(g, s, b.Layer+header.LoopHeight)
		}
	}
}
