package joint

import (
	"math"
	"sort"

	"github.com/mozilla-spidermonkey/iongraph/config"
	"github.com/mozilla-spidermonkey/iongraph/layoutnode"
)

// joint is one candidate horizontal mid-segment: the edge from src's
// portIdx'th outgoing port to dst, spanning [min(x1,x2), max(x1,x2)].
type joint struct {
	src     *layoutnode.Node
	portIdx int
	x1, x2  float64
	dst     *layoutnode.Node
}

func (j *joint) lo() float64 { return math.Min(j.x1, j.x2) }
func (j *joint) hi() float64 { return math.Max(j.x1, j.x2) }

func overlaps(a, b *joint) bool {
	return a.lo() <= b.hi() && b.lo() <= a.hi()
}

// Route resolves joints for every layer in nodesByLayer, filling each
// source node's JointOffsets and returning one track height per layer, for
// package vertical to fold into its y-coordinate assignment (spec §4.F.4).
func Route(nodesByLayer [][]*layoutnode.Node, p config.Params) []float64 {
	trackHeights := make([]float64, len(nodesByLayer))
	for li, layer := range nodesByLayer {
		trackHeights[li] = routeLayer(layer, p)
	}
	return trackHeights
}

func routeLayer(layer []*layoutnode.Node, p config.Params) float64 {
	var joints []*joint
	for _, n := range layer {
		if n.Kind == layoutnode.KindBlock && n.Block.IsBackedge() {
			// A backedge's single outgoing edge goes straight into its
			// header's node; it is never a two-bend edge with a joint.
			continue
		}
		for portIdx, dst := range n.DstNodes {
			if dst == nil {
				continue
			}
			x1 := srcPortX(n, portIdx, p)
			x2 := dstPortX(dst, p)
			if math.Abs(x2-x1) < 2*p.ArrowRadius {
				// Straight enough to render as a single curve; no joint
				// needed (spec §4.F.1).
				continue
			}
			joints = append(joints, &joint{src: n, portIdx: portIdx, x1: x1, x2: x2, dst: dst})
		}
	}
	if len(joints) == 0 {
		return 0
	}

	sort.Slice(joints, func(i, k int) bool { return joints[i].x1 < joints[k].x1 })

	var rightTracks, leftTracks [][]*joint
	type trackRef struct {
		right bool
		idx   int
	}
	destTrack := make(map[*layoutnode.Node]trackRef)

	place := func(j *joint) trackRef {
		if tr, ok := destTrack[j.dst]; ok {
			if tr.right {
				rightTracks[tr.idx] = append(rightTracks[tr.idx], j)
			} else {
				leftTracks[tr.idx] = append(leftTracks[tr.idx], j)
			}
			return tr
		}

		right := j.x2 >= j.x1
		tracks := &rightTracks
		if !right {
			tracks = &leftTracks
		}

		for idx := len(*tracks) - 1; idx >= 0; idx-- {
			free := true
			for _, other := range (*tracks)[idx] {
				if overlaps(j, other) {
					free = false
					break
				}
			}
			if free {
				(*tracks)[idx] = append((*tracks)[idx], j)
				tr := trackRef{right: right, idx: idx}
				destTrack[j.dst] = tr
				return tr
			}
		}

		*tracks = append(*tracks, []*joint{j})
		tr := trackRef{right: right, idx: len(*tracks) - 1}
		destTrack[j.dst] = tr
		return tr
	}

	tracks := make([]trackRef, len(joints))
	for i, j := range joints {
		tracks[i] = place(j)
	}

	r, l := len(rightTracks), len(leftTracks)
	total := r + l
	trackHeight := 0.0
	if total > 1 {
		trackHeight = float64(total-1) * p.JointSpacing
	}

	// Distribute offsets symmetrically around 0: rightward tracks reversed
	// (outermost first), then leftward tracks, stepping by JOINT_SPACING
	// (spec §4.F.4).
	offsets := make([]float64, total)
	start := -float64(total-1) / 2 * p.JointSpacing
	for i := 0; i < total; i++ {
		offsets[i] = start + float64(i)*p.JointSpacing
	}
	seqIndex := func(tr trackRef) int {
		if tr.right {
			return r - 1 - tr.idx
		}
		return r + tr.idx
	}

	for i, j := range joints {
		off := offsets[seqIndex(tracks[i])]
		for len(j.src.JointOffsets) <= j.portIdx {
			j.src.JointOffsets = append(j.src.JointOffsets, 0)
		}
		j.src.JointOffsets[j.portIdx] = off
	}

	return trackHeight
}

func srcPortX(n *layoutnode.Node, portIdx int, p config.Params) float64 {
	if n.Kind == layoutnode.KindDummy {
		return n.Pos.X
	}
	return n.Pos.X + p.PortStart + float64(portIdx)*p.PortSpacing
}

func dstPortX(n *layoutnode.Node, p config.Params) float64 {
	if n.Kind == layoutnode.KindDummy {
		return n.Pos.X
	}
	return n.Pos.X + p.PortStart
}
