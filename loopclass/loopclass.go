package loopclass

import (
	"fmt"

	"github.com/mozilla-spidermonkey/iongraph/core"
)

// classifier carries the mutable DFS state: the loop-id-by-depth stack and
// the set of already-classified blocks.
type classifier struct {
	graph   *core.Graph
	stack   []string
	visited map[string]bool
}

// Classify walks g from every root, assigning Block.LoopID to every block
// and Block/LoopHeader.ParentLoop to every true loop header. It is an error
// to call Classify twice on the same Graph (LoopID would already be set);
// callers construct a fresh core.Graph per layout pass (spec §5).
func Classify(g *core.Graph) error {
	c := &classifier{
		graph:   g,
		visited: make(map[string]bool),
	}
	for _, root := range g.Roots() {
		if c.visited[root.ID] {
			continue
		}
		// Each root is processed independently (spec §9 open question 1):
		// reset the loop-nesting stack so one component's nesting never
		// leaks into a disjoint sibling component.
		c.stack = nil
		if err := c.visit(root); err != nil {
			return err
		}
	}
	return nil
}

// visit classifies b and recurses into its successors, honoring the
// loop-header push rule of spec §4.B. b is marked visited before recursing
// so diamond merges below a loop are classified exactly once.
//
// c.stack holds the chain of header ids from the current root down to the
// loop context b is in: a header pushes itself, and a block whose LoopDepth
// is shallower than the stack drops the headers of the loops it has left
// (so a loop that follows another one is entered at the right depth). Both
// changes are undone on return, so every successor of the caller sees the
// caller's own stack. A block's LoopID is looked up by its own LoopDepth.
func (c *classifier) visit(b *core.Block) error {
	c.visited[b.ID] = true

	saved := c.stack
	if b.IsLoopHeader() {
		if b.LoopDepth != len(c.stack) {
			return fmt.Errorf("%w: header %q has LoopDepth %d, expected %d",
				ErrBadLoopDepth, b.ID, b.LoopDepth, len(c.stack))
		}
		h := c.graph.Header(b.ID)
		if len(c.stack) > 0 {
			h.ParentLoop = c.graph.Header(c.stack[len(c.stack)-1])
		}
		c.stack = append(c.stack, b.ID)
	} else if h := c.graph.Header(b.ID); h != nil && h.Synthetic && len(c.stack) == 0 {
		// A synthetic root header behaves like a true header for stack
		// purposes: it is entered at depth 0 and pushed once.
		c.stack = append(c.stack, b.ID)
	}
	if b.LoopDepth < len(c.stack)-1 {
		// b has left one or more loops. Copy, so that pushes further down
		// never overwrite entries the caller still holds.
		c.stack = append([]string(nil), c.stack[:b.LoopDepth+1]...)
	}

	b.LoopID = c.stack[b.LoopDepth]

	if !b.IsBackedge() {
		// Do not recurse across a backedge — it returns to an already
		// classified header.
		for _, s := range b.Succs {
			if c.visited[s.ID] {
				continue
			}
			if err := c.visit(s); err != nil {
				return err
			}
		}
	}

	c.stack = saved
	return nil
}
