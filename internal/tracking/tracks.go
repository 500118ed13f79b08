package tracking

import (
	"fmt"

	"github.com/ayusman/signmatch/internal/gesture"
)

// Tracks are the raw per-frame channels of one recording. For one-handed
// signs NonDominant and Delta are nil.
type Tracks struct {
	Dominant    gesture.Trajectory
	NonDominant gesture.Trajectory
	Delta       gesture.Trajectory
}

// Build computes normalized hand-centroid trajectories, one sample per
// frame. Undetected hands yield invalid samples. For two-handed signs Delta
// is dominant minus non-dominant, valid only when both hands are present.
func Build(frames []Frame, n Normalization, oneHanded bool) (Tracks, error) {
	if err := n.Validate(); err != nil {
		return Tracks{}, fmt.Errorf("build tracks: %w", err)
	}

	centroid := func(h *Hand) gesture.Point {
		if h == nil {
			return gesture.Point{}
		}
		return gesture.P(n.Apply(h.Centroid()))
	}

	t := Tracks{Dominant: make(gesture.Trajectory, len(frames))}
	if !oneHanded {
		t.NonDominant = make(gesture.Trajectory, len(frames))
	}
	for i, f := range frames {
		t.Dominant[i] = centroid(f.Dominant)
		if !oneHanded {
			t.NonDominant[i] = centroid(f.NonDominant)
		}
	}
	if !oneHanded {
		t.Delta = gesture.Displacement(t.Dominant, t.NonDominant)
	}
	return t, nil
}

// Recording wraps the tracks into a profile builder input.
func (t Tracks) Recording(id, name string, oneHanded bool) gesture.Recording {
	return gesture.Recording{
		ID:          id,
		Name:        name,
		OneHanded:   oneHanded,
		Dominant:    t.Dominant,
		NonDominant: t.NonDominant,
		Delta:       t.Delta,
	}
}
