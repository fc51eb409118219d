// Package vertical assigns Pos.Y to every LayoutNode (component G, spec
// §4.G). It walks layers top-down: each layer's y is the previous layer's
// bottom plus two TRACK_PADDINGs and that previous layer's track height.
package vertical
