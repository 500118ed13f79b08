// Package dtw implements Dynamic Time Warping over multi-dimensional sequences.
//
// Two aligners are provided:
//
//   - Exact fills the full n×m accumulated-cost matrix and backtracks the
//     optimal warping path. It is the reference result and the base case of
//     the multi-resolution aligner.
//   - Fast is a FastDTW-style approximation: both sequences are coarsened by
//     averaging pairs of samples, the coarse pair is aligned recursively, the
//     coarse path is projected back to full resolution, dilated by a radius
//     and the alignment is refined inside that window only.
//
// Backtracking is deterministic. When several predecessors share the minimum
// cost the vertical step (i-1, j) wins, then the horizontal step (i, j-1),
// then the diagonal (i-1, j-1).
//
// Complexity:
//
//	Exact: time O(n·m), memory O(n·m)
//	Fast:  O((n+m)·radius) distance evaluations per level over log2(min(n, m))
//	       levels; the refinement matrix is dense, so memory stays O(n·m)
package dtw
