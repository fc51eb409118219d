// File: graph.go
// Role: Graph — the per-pass container of Blocks and LoopHeaders — and
// BuildGraph, which performs Graph Preparation (component A): wiring ordered
// adjacency from id lists, validating and resolving each loop header's
// backedge, and synthesizing one root loop header per disconnected
// component so every block lives inside some loop context.
//
// Determinism:
//   - Blocks() returns blocks in input order, not sorted by id.
//   - Roots() returns roots in the order their blocks first appear in input.
//
// Concurrency:
//   - None. A Graph is built once by BuildGraph and then read by every
//     downstream component for the lifetime of a single layout pass (spec §5).
package core

import "fmt"

// Graph is the prepared, fully-wired representation of one pass's blocks.
type Graph struct {
	blocks   map[string]*Block
	order    []string // input order, for deterministic iteration
	roots    []*Block
	headers  map[string]*LoopHeader // block id -> LoopHeader, for true and synthetic headers
}

// Blocks returns every block in input order.
func (g *Graph) Blocks() []*Block {
	out := make([]*Block, len(g.order))
	for i, id := range g.order {
		out[i] = g.blocks[id]
	}
	return out
}

// Block looks up a block by id, returning nil if absent.
func (g *Graph) Block(id string) *Block {
	return g.blocks[id]
}

// Roots returns the CFG roots (blocks with no predecessors), in input order.
// Each root is also registered as a synthetic LoopHeader.
func (g *Graph) Roots() []*Block {
	return g.roots
}

// Header returns the LoopHeader for a block id that is either a true loop
// header or a CFG root, or nil if id names neither.
func (g *Graph) Header(id string) *LoopHeader {
	return g.headers[id]
}

// InputBlock is the minimal shape BuildGraph needs from the IR layer (see
// package ir for the JSON-facing equivalent). Keeping this separate from
// ir.Block lets core stay free of any encoding/json dependency.
type InputBlock struct {
	ID           string
	Number       int
	Attrs        map[Attribute]bool
	LoopDepth    int
	Instructions interface{}
	Preds        []string
	Succs        []string

	// Size is the block's rendered (width, height), supplied by the
	// external renderer before layout runs (spec §3). Zero until the
	// caller fills it in; BuildGraph copies it verbatim onto Block.Size.
	Size Size
}

// BuildGraph performs Graph Preparation (component A) over a flat list of
// input blocks. It builds ordered adjacency, validates and resolves every
// true loop header's unique backedge predecessor, and synthesizes a root
// loop header per CFG root.
func BuildGraph(inputs []InputBlock) (*Graph, error) {
	g := &Graph{
		blocks:  make(map[string]*Block, len(inputs)),
		order:   make([]string, 0, len(inputs)),
		headers: make(map[string]*LoopHeader),
	}

	// Pass 1: create every Block, rejecting duplicate ids.
	for _, in := range inputs {
		if _, exists := g.blocks[in.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateBlockID, in.ID)
		}
		b := &Block{
			ID:           in.ID,
			Number:       in.Number,
			Attrs:        in.Attrs,
			LoopDepth:    in.LoopDepth,
			Instructions: in.Instructions,
			Size:         in.Size,
			Layer:        -1,
		}
		g.blocks[in.ID] = b
		g.order = append(g.order, in.ID)
	}

	// Pass 2: wire ordered adjacency from id lists, preserving successor
	// order (spec §3: "semantically meaningful").
	for _, in := range inputs {
		b := g.blocks[in.ID]
		b.Preds = make([]*Block, len(in.Preds))
		for i, pid := range in.Preds {
			p, ok := g.blocks[pid]
			if !ok {
				return nil, fmt.Errorf("%w: predecessor %q of %q", ErrUnknownBlockID, pid, in.ID)
			}
			b.Preds[i] = p
		}
		b.Succs = make([]*Block, len(in.Succs))
		for i, sid := range in.Succs {
			s, ok := g.blocks[sid]
			if !ok {
				return nil, fmt.Errorf("%w: successor %q of %q", ErrUnknownBlockID, sid, in.ID)
			}
			b.Succs[i] = s
		}
	}

	// Pass 3: validate backedge-attributed blocks have exactly one successor
	// (malformed IR otherwise, spec §7).
	for _, id := range g.order {
		b := g.blocks[id]
		if b.IsBackedge() && len(b.Succs) != 1 {
			return nil, fmt.Errorf("%w: block %q has %d", ErrBackedgeSuccessorCount, id, len(b.Succs))
		}
	}

	// Pass 4: resolve each true loop header's unique backedge predecessor.
	for _, id := range g.order {
		b := g.blocks[id]
		if !b.IsLoopHeader() {
			continue
		}
		var backedge *Block
		count := 0
		for _, p := range b.Preds {
			if p.IsBackedge() {
				count++
				backedge = p
			}
		}
		if count != 1 {
			return nil, fmt.Errorf("%w: header %q has %d", ErrMultipleBackedges, id, count)
		}
		g.headers[id] = &LoopHeader{Block: b, backedge: backedge}
	}

	// Pass 5: wire ParentLoop for true headers now that every header exists.
	// A header's parent is the loop of the block reached by walking to its
	// own LoopDepth-1 context; loopclass.Classify is what actually assigns
	// LoopID/ParentLoop in general, but Graph Preparation leaves ParentLoop
	// unset (nil) here — it is loopclass's responsibility (component B), not
	// component A's. See loopclass.Classify.

	// Pass 6: determine CFG roots (no predecessors) and synthesize a root
	// loop header per root.
	for _, id := range g.order {
		b := g.blocks[id]
		if len(b.Preds) == 0 {
			g.roots = append(g.roots, b)
			g.headers[id] = &LoopHeader{Block: b, Synthetic: true}
		}
	}

	return g, nil
}
