package dtw

import "context"

// Aligner adapts Fast to a context-aware, cost-only call so it can be
// injected wherever an alignment engine is expected.
type Aligner struct {
	Radius   int
	Distance DistanceFunc
}

// NewAligner returns an Aligner using Euclidean sample distance.
func NewAligner(radius int) Aligner {
	return Aligner{Radius: radius, Distance: Euclidean}
}

// Align returns the approximate DTW cost of x and y.
func (a Aligner) Align(ctx context.Context, x, y [][]float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	cost, _, err := Fast(x, y, a.Radius, a.Distance)
	return cost, err
}
