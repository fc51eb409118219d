// Package straighten assigns Pos.X to every LayoutNode produced by package
// layoutnode (component E, the X-Straightener). It runs a fixed, ordered
// pipeline of local, monotone passes — never a fixed-point iteration — over
// nodesByLayer, described in spec §4.E.
//
// Every pass only ever moves a node's x rightward. That makes the pipeline
// trivially convergent: running it twice on the same starting geometry
// produces the same result as running it once (spec §8, "idempotence").
package straighten
