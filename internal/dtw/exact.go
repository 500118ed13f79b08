package dtw

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Exact computes the full Dynamic Time Warping alignment of x and y.
// A nil dist defaults to Euclidean. It returns the accumulated cost at
// (n-1, m-1) and the backtracked optimal path.
func Exact(x, y Sequence, dist DistanceFunc) (float64, Path, error) {
	if err := validate(x, y); err != nil {
		return 0, nil, err
	}
	if dist == nil {
		dist = Euclidean
	}
	cost, path := exact(x, y, dist)
	return cost, path, nil
}

func exact(x, y Sequence, dist DistanceFunc) (float64, Path) {
	n, m := len(x), len(y)
	cost := newCostMatrix(n, m)

	cost.Set(0, 0, dist(x[0], y[0]))
	for i := 1; i < n; i++ {
		cost.Set(i, 0, cost.At(i-1, 0)+dist(x[i], y[0]))
	}
	for j := 1; j < m; j++ {
		cost.Set(0, j, cost.At(0, j-1)+dist(x[0], y[j]))
	}

	for i := 1; i < n; i++ {
		for j := 1; j < m; j++ {
			cost.Set(i, j, dist(x[i], y[j])+minPredecessor(cost, i, j))
		}
	}

	return cost.At(n-1, m-1), backtrack(cost, nil)
}

// newCostMatrix allocates an n×m matrix filled with +Inf.
func newCostMatrix(n, m int) *mat.Dense {
	data := make([]float64, n*m)
	for k := range data {
		data[k] = math.Inf(1)
	}
	return mat.NewDense(n, m, data)
}

// minPredecessor returns the cheapest of the vertical, horizontal and
// diagonal predecessors of an interior cell.
func minPredecessor(cost *mat.Dense, i, j int) float64 {
	best := cost.At(i-1, j)
	if c := cost.At(i, j-1); c < best {
		best = c
	}
	if c := cost.At(i-1, j-1); c < best {
		best = c
	}
	return best
}

// backtrack walks from the last cell back to (0, 0), each step moving to the
// cheapest in-bounds predecessor that is a member of w (any cell when w is
// nil). Ties go to vertical, then horizontal, then diagonal. The walk stops
// early if no admissible predecessor exists.
func backtrack(cost *mat.Dense, w *Window) Path {
	n, m := cost.Dims()
	i, j := n-1, m-1
	path := Path{{i, j}}

	for i > 0 || j > 0 {
		moves := [3][2]int{{i - 1, j}, {i, j - 1}, {i - 1, j - 1}}
		found := false
		var best [2]int
		bestCost := math.Inf(1)
		for _, mv := range moves {
			if mv[0] < 0 || mv[1] < 0 {
				continue
			}
			if w != nil && !w.Contains(mv[0], mv[1]) {
				continue
			}
			if c := cost.At(mv[0], mv[1]); !found || c < bestCost {
				best, bestCost, found = mv, c, true
			}
		}
		if !found {
			break
		}
		i, j = best[0], best[1]
		path = append(path, best)
	}

	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}
