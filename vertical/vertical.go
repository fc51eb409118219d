package vertical

import (
	"github.com/mozilla-spidermonkey/iongraph/config"
	"github.com/mozilla-spidermonkey/iongraph/layoutnode"
)

// Assign sets Pos.Y on every node of nodesByLayer and returns the per-layer
// block height (the max node height on that layer), parallel to
// nodesByLayer and to trackHeights (spec §6, "layerHeights[]").
// trackHeights must be the result of joint.Route over the same
// nodesByLayer, in the same order.
func Assign(nodesByLayer [][]*layoutnode.Node, trackHeights []float64, p config.Params) []float64 {
	layerHeights := make([]float64, len(nodesByLayer))
	y := p.ContentPadding

	for li, layer := range nodesByLayer {
		for _, n := range layer {
			n.Pos.Y = y
		}
		maxHeight := 0.0
		for _, n := range layer {
			if n.Size.Height > maxHeight {
				maxHeight = n.Size.Height
			}
		}
		layerHeights[li] = maxHeight
		y += maxHeight + 2*p.TrackPadding + trackHeights[li]
	}

	return layerHeights
}
