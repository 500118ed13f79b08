package dtw

import "gonum.org/v1/gonum/floats"

// Fast computes a multi-resolution approximation of the DTW alignment of x
// and y. Sequences no longer than radius+2 are aligned exactly. Longer ones
// are halved, aligned recursively, and refined at full resolution inside
// the coarse path projected and dilated by radius. A nil dist defaults to
// Euclidean.
//
// As radius grows past both lengths the result equals Exact.
func Fast(x, y Sequence, radius int, dist DistanceFunc) (float64, Path, error) {
	if radius < 0 {
		return 0, nil, ErrBadRadius
	}
	if err := validate(x, y); err != nil {
		return 0, nil, err
	}
	if dist == nil {
		dist = Euclidean
	}
	cost, path := fast(x, y, radius, dist)
	return cost, path, nil
}

func fast(x, y Sequence, radius int, dist DistanceFunc) (float64, Path) {
	// len-2 <= radius avoids overflowing radius+2 for very large radii.
	if len(x)-2 <= radius || len(y)-2 <= radius {
		return exact(x, y, dist)
	}

	_, coarse := fast(Coarsen(x), Coarsen(y), radius, dist)
	window := Project(coarse, len(x), len(y)).Dilate(radius)

	return Windowed(x, y, window, dist)
}

// Coarsen halves a sequence by averaging consecutive non-overlapping pairs.
// An odd trailing sample is dropped.
func Coarsen(s Sequence) Sequence {
	out := make(Sequence, 0, len(s)/2)
	for i := 0; i+1 < len(s); i += 2 {
		p := make([]float64, len(s[i]))
		floats.AddTo(p, s[i], s[i+1])
		floats.Scale(0.5, p)
		out = append(out, p)
	}
	return out
}

// Windowed aligns x and y with only the cells of w eligible; all others stay
// +Inf. Cells on the first row or column accumulate from their single
// predecessor without consulting w, while interior cells take the
// three-way minimum. Inputs must be non-empty and w must cover a
// len(x)×len(y) grid.
func Windowed(x, y Sequence, w *Window, dist DistanceFunc) (float64, Path) {
	n, m := len(x), len(y)
	cost := newCostMatrix(n, m)

	if w.Contains(0, 0) {
		cost.Set(0, 0, dist(x[0], y[0]))
	}

	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			if !w.Contains(i, j) {
				continue
			}
			d := dist(x[i], y[j])
			switch {
			case i > 0 && j > 0:
				cost.Set(i, j, d+minPredecessor(cost, i, j))
			case i > 0:
				cost.Set(i, j, d+cost.At(i-1, 0))
			case j > 0:
				cost.Set(i, j, d+cost.At(0, j-1))
			}
		}
	}

	return cost.At(n-1, m-1), backtrack(cost, w)
}
