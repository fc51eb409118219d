// Package loopclass implements the Loop Classifier (component B): a
// depth-first walk from each CFG root that assigns every block a loopID —
// the id of the innermost loop header containing it — and wires each true
// loop header's ParentLoop, producing the complete loop tree.
//
// Unlike the Layerer (package layering), which revisits merge blocks from
// every incoming path and reconciles via max, the loop classifier visits
// each block exactly once: loopID is a structural property fixed by the IR's
// own LoopDepth field, not something that depends on which path reached the
// block first, so a single spanning-tree DFS with a visited set is both
// correct and avoids the combinatorial revisits a pathwise walk would incur
// on heavily-merged graphs.
//
// Errors:
//
//	ErrBadLoopDepth - a loop header's LoopDepth disagrees with its nesting
//	                  position in the traversal (malformed IR, spec §7).
package loopclass

import "errors"

// ErrBadLoopDepth indicates a true loop header's LoopDepth did not match the
// loop-nesting stack depth at the point it was entered.
var ErrBadLoopDepth = errors.New("loopclass: loop header LoopDepth disagrees with loop tree position")
