package layout

import (
	"fmt"
	"math"

	"github.com/mozilla-spidermonkey/iongraph/config"
	"github.com/mozilla-spidermonkey/iongraph/core"
	"github.com/mozilla-spidermonkey/iongraph/joint"
	"github.com/mozilla-spidermonkey/iongraph/layering"
	"github.com/mozilla-spidermonkey/iongraph/layoutnode"
	"github.com/mozilla-spidermonkey/iongraph/logging"
	"github.com/mozilla-spidermonkey/iongraph/loopclass"
	"github.com/mozilla-spidermonkey/iongraph/straighten"
	"github.com/mozilla-spidermonkey/iongraph/vertical"
)

// NodeView is the JSON-facing projection of a layoutnode.Node: pointer
// fields become ids, matching the external renderer contract of spec §6.
type NodeView struct {
	ID           string     `json:"id"`
	Kind         string     `json:"kind"`
	Pos          core.Point `json:"pos"`
	Size         core.Size  `json:"size"`
	BlockID      string     `json:"blockId,omitempty"`
	DstBlockID   string     `json:"dstBlockId,omitempty"`
	SrcNodeIDs   []string   `json:"srcNodes"`
	DstNodeIDs   []string   `json:"dstNodes"`
	JointOffsets []float64  `json:"jointOffsets"`
	Flags        []string   `json:"flags,omitempty"`
}

// Geometry is the complete layout output handed to an external renderer
// (spec §6, "Output (produced for the renderer)").
type Geometry struct {
	NodesByLayer [][]NodeView `json:"nodesByLayer"`
	LayerHeights []float64    `json:"layerHeights"`
	TrackHeights []float64    `json:"trackHeights"`
	Width        float64      `json:"width"`
	Height       float64      `json:"height"`
}

// Build runs components B through G over g (which must already have come
// out of core.BuildGraph, component A) and returns the finished Geometry.
// Every Block in g must have Size populated before calling Build.
//
// log receives a non-fatal warning when the post-straightening overlap
// check (checkInvariants) fails; pass nil to use logging.Default(). When
// p.StrictMode is set, that check panics instead.
func Build(g *core.Graph, p config.Params, log *logging.Logger) (*Geometry, error) {
	if log == nil {
		log = logging.Default()
	}

	if err := loopclass.Classify(g); err != nil {
		return nil, fmt.Errorf("layout: classify: %w", err)
	}
	layering.Assign(g)

	nodes := layoutnode.Materialize(g)
	straighten.Run(g, nodes, p)
	trackHeights := joint.Route(nodes, p)
	layerHeights := vertical.Assign(nodes, trackHeights, p)

	normalizeX(nodes, p)
	checkInvariants(nodes, p, log)

	width, height := bounds(nodes, layerHeights, trackHeights, p)

	return &Geometry{
		NodesByLayer: toViews(nodes),
		LayerHeights: layerHeights,
		TrackHeights: trackHeights,
		Width:        width,
		Height:       height,
	}, nil
}

// normalizeX shifts every node so the leftmost one sits at ContentPadding,
// matching the "bounding box incl. CONTENT_PADDING" contract of spec §6.
func normalizeX(nodes [][]*layoutnode.Node, p config.Params) {
	minX := math.Inf(1)
	for _, layer := range nodes {
		for _, n := range layer {
			if n.Pos.X < minX {
				minX = n.Pos.X
			}
		}
	}
	if math.IsInf(minX, 1) {
		return
	}
	shift := p.ContentPadding - minX
	for _, layer := range nodes {
		for _, n := range layer {
			n.Pos.X += shift
		}
	}
}

func bounds(nodes [][]*layoutnode.Node, layerHeights, trackHeights []float64, p config.Params) (float64, float64) {
	maxRight := 0.0
	for _, layer := range nodes {
		for _, n := range layer {
			if right := n.Pos.X + n.Size.Width; right > maxRight {
				maxRight = right
			}
		}
	}
	width := maxRight + p.ContentPadding

	height := p.ContentPadding
	for i := range nodes {
		height += layerHeights[i]
		if i > 0 {
			height += 2 * p.TrackPadding
		}
		height += trackHeights[i]
	}
	height += p.ContentPadding

	return width, height
}

// checkInvariants re-validates spec §8 property 3 (no same-layer overlap)
// after straightening. A violation indicates a bug in the straightening
// pipeline, not malformed input (spec §7): it is a non-fatal warning unless
// p.StrictMode asks for a panic.
func checkInvariants(nodes [][]*layoutnode.Node, p config.Params, log *logging.Logger) {
	for _, layer := range nodes {
		for i := 0; i+1 < len(layer); i++ {
			left, right := layer[i], layer[i+1]
			if right.Pos.X+1e-6 < left.Pos.X+left.Size.Width+p.BlockGap {
				msg := fmt.Sprintf("layout: nodes %q and %q overlap on their layer after straightening", left.ID, right.ID)
				if p.StrictMode {
					panic(msg)
				}
				log.Warn(msg)
			}
		}
	}
}

func toViews(nodes [][]*layoutnode.Node) [][]NodeView {
	out := make([][]NodeView, len(nodes))
	for li, layer := range nodes {
		views := make([]NodeView, len(layer))
		for i, n := range layer {
			v := NodeView{
				ID:           n.ID,
				Pos:          n.Pos,
				Size:         n.Size,
				JointOffsets: n.JointOffsets,
			}
			if n.Kind == layoutnode.KindBlock {
				v.Kind = "block"
				v.BlockID = n.Block.ID
			} else {
				v.Kind = "dummy"
				v.DstBlockID = n.DstBlock.ID
			}
			for _, s := range n.SrcNodes {
				v.SrcNodeIDs = append(v.SrcNodeIDs, s.ID)
			}
			for _, d := range n.DstNodes {
				if d == nil {
					v.DstNodeIDs = append(v.DstNodeIDs, "")
					continue
				}
				v.DstNodeIDs = append(v.DstNodeIDs, d.ID)
			}
			if n.HasFlag(layoutnode.FlagLeftmostDummy) {
				v.Flags = append(v.Flags, "leftmost-dummy")
			}
			if n.HasFlag(layoutnode.FlagRightmostDummy) {
				v.Flags = append(v.Flags, "rightmost-dummy")
			}
			if n.HasFlag(layoutnode.FlagImminentBackedgeDummy) {
				v.Flags = append(v.Flags, "imminent-backedge-dummy")
			}
			views[i] = v
		}
		out[li] = views
	}
	return out
}
