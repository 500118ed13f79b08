package dtw

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrEmptySequence indicates one or both inputs are empty.
	ErrEmptySequence = errors.New("dtw: input sequences must be non-empty")

	// ErrDimensionMismatch indicates samples with differing dimensionality.
	ErrDimensionMismatch = errors.New("dtw: samples must share one dimensionality")

	// ErrBadRadius indicates a negative refinement radius.
	ErrBadRadius = errors.New("dtw: radius must be >= 0")
)

// Sequence is an ordered series of samples, each a point in R^d.
type Sequence [][]float64

// Path is an alignment path: index pairs (i, j) from (0, 0) to (n-1, m-1),
// non-decreasing in both coordinates.
type Path [][2]int

// DistanceFunc measures the local distance between two samples.
type DistanceFunc func(a, b []float64) float64

// Euclidean is the L2 distance between two samples of equal length.
func Euclidean(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// validate checks that both sequences are non-empty and that every sample
// has the dimensionality of x[0].
func validate(x, y Sequence) error {
	if len(x) == 0 || len(y) == 0 {
		return ErrEmptySequence
	}
	dim := len(x[0])
	for _, s := range [2]Sequence{x, y} {
		for _, p := range s {
			if len(p) != dim {
				return ErrDimensionMismatch
			}
		}
	}
	return nil
}
