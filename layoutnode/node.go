package layoutnode

import "github.com/mozilla-spidermonkey/iongraph/core"

// Kind distinguishes the two LayoutNode variants (spec §3).
type Kind int

const (
	// KindBlock is a BlockNode: it owns a Block and takes the Block's size.
	KindBlock Kind = iota
	// KindDummy is a DummyNode: zero-size, carries a final destination block.
	KindDummy
)

// Flag is a bitset of per-node layout hints consumed by the straightener.
type Flag uint8

const (
	// FlagLeftmostDummy marks a dummy in a contiguous run at the left edge
	// of its layer.
	FlagLeftmostDummy Flag = 1 << iota
	// FlagRightmostDummy marks a dummy in a contiguous run at the right
	// edge of its layer.
	FlagRightmostDummy
	// FlagImminentBackedgeDummy marks the first dummy in a backedge return
	// column, the one directly below the backedge block itself.
	FlagImminentBackedgeDummy
)

// Node is a LayoutNode: either a BlockNode (Kind == KindBlock, Block set) or
// a DummyNode (Kind == KindDummy, DstBlock set). Common fields mirror spec
// §3 exactly: ID, Pos, Size, SrcNodes, DstNodes (ordered by source port),
// JointOffsets (one per DstNodes entry, filled by package joint), Flags.
type Node struct {
	ID   string
	Kind Kind

	// Block is the owning block for a BlockNode; nil for a DummyNode.
	Block *core.Block

	// DstBlock is the final destination block a DummyNode is routing
	// toward; nil for a BlockNode.
	DstBlock *core.Block

	Pos  core.Point
	Size core.Size

	SrcNodes []*Node
	DstNodes []*Node

	// JointOffsets holds one vertical offset per DstNodes entry, assigned
	// by package joint. Zero until then.
	JointOffsets []float64

	Flags Flag
}

// HasFlag reports whether f is set on the node.
func (n *Node) HasFlag(f Flag) bool { return n.Flags&f != 0 }
