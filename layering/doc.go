// Package layering implements the Layerer (component C): a recursive
// forward walk from each CFG root that assigns every block an integer
// layer (y-rank) respecting loop containment, and computes each loop
// header's height in layers.
//
// Unlike loopclass, which visits each block exactly once (loopID is fixed
// by the IR's own LoopDepth, independent of path), Assign revisits a block
// from every incoming path and reconciles by taking the max candidate
// layer — a merge block below a loop must sit below every branch that
// feeds it, not just the first one walked. Early-exit edges out of a loop
// are deferred onto the loop header's OutgoingEdges until the header's own
// walk finishes, so a post-loop block never lands beside the loop body
// just because one exit path happened to reach it first.
package layering
