// Package layout is the orchestration facade over components A-G: it wires
// core, loopclass, layering, layoutnode, straighten, joint, and vertical
// into the single entry point an external renderer (or cmd/iongraph-layout)
// actually calls, and packages their combined output into a Geometry ready
// to hand off (spec §6, "Output").
//
// Build runs synchronously and constructs every intermediate state fresh;
// there is no incremental re-layout (spec §5) — a caller re-lays-out by
// discarding the prior Graph and Geometry and calling Build again.
package layout
