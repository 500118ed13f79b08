package gesture

import "math"

// orientationEpsilon is the displacement magnitude below which two samples
// are treated as coincident.
const orientationEpsilon = 1e-12

// DeriveOrientation returns the unit direction of motion at every sample of
// ch, from the central difference of its neighbours (clamped at the ends).
// A sample is invalid when either neighbour is invalid or they coincide.
// Inputs shorter than two samples yield zero vectors.
func DeriveOrientation(ch Trajectory) Trajectory {
	out := make(Trajectory, len(ch))
	if len(ch) < 2 {
		for i := range out {
			out[i] = P(0, 0)
		}
		return out
	}

	last := len(ch) - 1
	for t := range ch {
		prev, next := ch[max(0, t-1)], ch[min(last, t+1)]
		if !prev.Valid || !next.Valid {
			continue
		}
		dx, dy := next.X-prev.X, next.Y-prev.Y
		mag := math.Hypot(dx, dy)
		if mag < orientationEpsilon {
			continue
		}
		out[t] = P(dx/mag, dy/mag)
	}
	return out
}
