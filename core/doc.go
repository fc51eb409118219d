// Package core defines the fundamental CFG data model shared by every layout
// component — Block, LoopHeader, and the Graph that owns them — and performs
// Graph Preparation: building ordered adjacency from predecessor/successor id
// lists, locating each loop header's unique backedge predecessor, and
// synthesizing a root loop header per disconnected component.
//
// This corresponds to component A of the layout pipeline. Downstream
// components (loopclass, layering, layoutnode, straighten, joint, vertical)
// only ever read Block/LoopHeader fields populated here or by themselves —
// core never imports any of them.
//
// Errors:
//
//	ErrNilBlock              - a nil *Block reached a Graph method.
//	ErrDuplicateBlockID      - two input blocks share an id.
//	ErrUnknownBlockID        - a predecessor/successor id has no matching block.
//	ErrMultipleBackedges     - a loop header has zero or more than one backedge predecessor.
//	ErrBackedgeSuccessorCount - a backedge-attributed block does not have exactly one successor.
//	ErrSyntheticBackedge     - Backedge() was called on a synthetic (root) header.
package core

import "errors"

// Sentinel errors for Graph Preparation (component A).
var (
	// ErrNilBlock indicates a nil *Block was passed where a block was required.
	ErrNilBlock = errors.New("core: nil block")

	// ErrDuplicateBlockID indicates two blocks in the input share an id.
	ErrDuplicateBlockID = errors.New("core: duplicate block id")

	// ErrUnknownBlockID indicates a predecessor/successor id referenced a
	// block that was never declared.
	ErrUnknownBlockID = errors.New("core: unknown block id")

	// ErrMultipleBackedges indicates a true loop header does not have
	// exactly one predecessor carrying the backedge attribute.
	ErrMultipleBackedges = errors.New("core: loop header must have exactly one backedge predecessor")

	// ErrBackedgeSuccessorCount indicates a backedge-attributed block does
	// not have exactly one successor (malformed IR per spec §7).
	ErrBackedgeSuccessorCount = errors.New("core: backedge block must have exactly one successor")

	// ErrSyntheticBackedge indicates Backedge() was accessed on a synthetic
	// (CFG-root) loop header, which has none by construction.
	ErrSyntheticBackedge = errors.New("core: synthetic loop header has no backedge")
)
