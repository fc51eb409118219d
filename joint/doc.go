// Package joint routes the horizontal mid-segment ("joint") of every
// two-bend edge into a small number of non-overlapping parallel tracks per
// layer (component F, spec §4.F). It never touches Pos.X; it only fills
// Node.JointOffsets and reports each layer's track height to package
// vertical for y-coordinate assignment.
package joint
