package core

// Attribute is a well-known IR block attribute. The IR's attribute set is
// free-form strings (spec §6); core only recognizes the three listed here.
// splitedge is informational only and never inspected by this repository.
type Attribute string

const (
	// AttrLoopHeader marks a block as the entry point of a loop.
	AttrLoopHeader Attribute = "loopheader"

	// AttrBackedge marks a block as the source of a backedge into its
	// loop header successor.
	AttrBackedge Attribute = "backedge"

	// AttrSplitEdge is informational only; core never inspects it.
	AttrSplitEdge Attribute = "splitedge"
)

// Size is the measured (width, height) of a block's rendered text, supplied
// by the external renderer (spec §3: "measured after rendering the block's
// text").
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is an (x, y) position in layout space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Block is one IR basic block plus every field the layout pipeline computes
// on top of it. Preds/Succs are ordered — successor order is semantically
// meaningful (branch 0 vs branch 1, spec §3) and every component that
// touches Succs must preserve that order.
type Block struct {
	// ID is the stable identifier carried from the IR.
	ID string

	// Number is the IR-assigned block number, carried through for display only.
	Number int

	// Attrs is the set of IR attributes this block carries.
	Attrs map[Attribute]bool

	// LoopDepth is the nesting depth reported by the IR (0 = outside all loops).
	LoopDepth int

	// Instructions is opaque to the core; it is only ever handed to a renderer.
	Instructions interface{}

	// Preds/Succs are ordered adjacency, built by BuildGraph from id lists.
	Preds []*Block
	Succs []*Block

	// Size is supplied by the external renderer before layout runs.
	Size Size

	// Layer is the integer y-rank assigned by the layering component (-1
	// until assigned). See invariants in layering.Assign.
	Layer int

	// LoopID is the id of the innermost enclosing loop header, assigned by
	// loopclass.Classify.
	LoopID string

	// LayoutNode is a back-reference to the node this block was materialized
	// into (component D). It is never followed during disposal.
	LayoutNode interface{}
}

// HasAttr reports whether the block carries the given IR attribute.
func (b *Block) HasAttr(a Attribute) bool {
	return b.Attrs != nil && b.Attrs[a]
}

// IsLoopHeader reports whether this block is a true (IR-declared) loop
// header. Synthetic roots are LoopHeaders too but are never also Blocks with
// this attribute set — see LoopHeader.Synthetic.
func (b *Block) IsLoopHeader() bool {
	return b.HasAttr(AttrLoopHeader)
}

// IsBackedge reports whether this block is the source of a backedge into
// its (sole) loop-header successor.
func (b *Block) IsBackedge() bool {
	return b.HasAttr(AttrBackedge)
}

// LoopHeader augments a Block that is a true loop header, plus one synthetic
// instance per CFG root (spec §3/§4.A). Synthetic headers let every
// downstream component assume every block lives inside some loop context.
type LoopHeader struct {
	// Block is the header's own block: the loop-header block for a true
	// header, the CFG root block for a synthetic one. It is never nil.
	Block *Block

	// Synthetic is true for a per-root header that the IR never declared.
	Synthetic bool

	// ParentLoop is the enclosing loop header, nil at top level.
	ParentLoop *LoopHeader

	// LoopHeight is the number of layers the loop spans, computed by
	// layering.Assign. Zero until computed.
	LoopHeight int

	// backedge is the unique predecessor carrying AttrBackedge, resolved by
	// BuildGraph. Unexported: accessed only through Backedge(), which
	// enforces the "synthetic header misuse" rule (spec §7).
	backedge *Block

	// OutgoingEdges collects successors whose LoopDepth is less than this
	// header's, deferred during layering until the loop's height is known
	// (spec §4.C).
	OutgoingEdges []*Block
}

// Backedge returns the unique backedge predecessor of a true loop header.
// Calling this on a synthetic header is a programmer error and panics, per
// spec §7 ("accessing the backedge of a synthetic header is a programmer
// error and must raise").
func (h *LoopHeader) Backedge() *Block {
	if h.Synthetic {
		panic(ErrSyntheticBackedge)
	}
	return h.backedge
}

// Depth returns the nesting depth of this loop header in the loop tree: 0
// for top-level (parent-less) headers, incrementing per ParentLoop hop.
func (h *LoopHeader) Depth() int {
	d := 0
	for p := h.ParentLoop; p != nil; p = p.ParentLoop {
		d++
	}
	return d
}
