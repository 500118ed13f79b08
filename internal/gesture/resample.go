package gesture

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// ErrInvalidSize indicates a non-positive resample target.
var ErrInvalidSize = errors.New("gesture: resample size must be positive")

// Resample converts a variable-length trajectory into exactly size samples
// by linear interpolation over its valid samples. Sample positions are
// evenly spaced between the first and last valid frame.
//
// An empty trajectory yields an empty result. A trajectory with no valid
// sample yields size invalid samples, and one with a single valid sample
// yields that sample repeated.
func Resample(t Trajectory, size int) (Trajectory, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if len(t) == 0 {
		return Trajectory{}, nil
	}

	var idx, xs, ys []float64
	for i, p := range t {
		if !p.Valid {
			continue
		}
		idx = append(idx, float64(i))
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}

	out := make(Trajectory, size)
	switch len(idx) {
	case 0:
		return out, nil
	case 1:
		for i := range out {
			out[i] = P(xs[0], ys[0])
		}
		return out, nil
	}

	var fx, fy interp.PiecewiseLinear
	if err := fx.Fit(idx, xs); err != nil {
		return nil, fmt.Errorf("fit x: %w", err)
	}
	if err := fy.Fit(idx, ys); err != nil {
		return nil, fmt.Errorf("fit y: %w", err)
	}

	at := []float64{idx[0]}
	if size > 1 {
		at = floats.Span(make([]float64, size), idx[0], idx[len(idx)-1])
	}
	for i, v := range at {
		out[i] = P(fx.Predict(v), fy.Predict(v))
	}
	return out, nil
}
