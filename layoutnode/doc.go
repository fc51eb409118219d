// Package layoutnode implements the Layout-Node Materializer (component D):
// given a Graph whose blocks already carry a Layer (package layering), it
// builds the per-layer node arrays the rest of the pipeline positions —
// one BlockNode per Block, plus DummyNode placeholders for edges that span
// more than one layer and for the return column of every loop's backedge.
//
// Forward dummies are coalesced by final destination so a long edge is a
// single vertical run of dummies rather than one per crossed layer times
// one per source. Backedge dummies form a similar run threading a loop's
// body back up to its header's return point. Columns that end up unused —
// typically because the loop never needed the full depth the walk
// reserved — are pruned once every layer has been materialized.
package layoutnode
