package gesture

import "fmt"

// Recording is the raw per-frame output of tracking for one sign instance,
// before resampling. Delta may be left nil for two-handed recordings; it is
// then computed from Dominant and NonDominant.
type Recording struct {
	ID        string
	Name      string
	OneHanded bool

	Dominant    Trajectory
	NonDominant Trajectory
	Delta       Trajectory

	Patches map[Slot]Patch
}

// Builder turns recordings into fixed-length profiles.
type Builder struct {
	frames int
}

// NewBuilder creates a Builder resampling to frames samples per channel.
// Non-positive values select DefaultFrames.
func NewBuilder(frames int) *Builder {
	if frames <= 0 {
		frames = DefaultFrames
	}
	return &Builder{frames: frames}
}

// Frames returns the channel length produced by the builder.
func (b *Builder) Frames() int {
	return b.frames
}

// Build resamples every present channel, derives the orientation channels
// from the resampled positions and attaches the keyframe patches. Inputs
// tied to the non-dominant hand are ignored for one-handed recordings.
func (b *Builder) Build(rec Recording) (*Profile, error) {
	if len(rec.Dominant) == 0 {
		return nil, ErrMissingDominant
	}

	p := &Profile{
		ID:        rec.ID,
		Name:      rec.Name,
		OneHanded: rec.OneHanded,
	}

	raw := map[Channel]Trajectory{ChannelDominant: rec.Dominant}
	if !rec.OneHanded {
		raw[ChannelNonDominant] = rec.NonDominant
		delta := rec.Delta
		if delta == nil {
			delta = Displacement(rec.Dominant, rec.NonDominant)
		}
		raw[ChannelDelta] = delta
	}

	for c, t := range raw {
		if len(t) == 0 {
			continue
		}
		r, err := Resample(t, b.frames)
		if err != nil {
			return nil, fmt.Errorf("resample %s: %w", c, err)
		}
		p.SetChannel(c, r)
	}

	p.OrientDominant = DeriveOrientation(p.Dominant)
	if len(p.NonDominant) > 0 {
		p.OrientNonDominant = DeriveOrientation(p.NonDominant)
	}
	if len(p.Delta) > 0 {
		p.OrientDelta = DeriveOrientation(p.Delta)
	}

	for s, v := range rec.Patches {
		if rec.OneHanded && s.nonDominant() {
			continue
		}
		p.SetPatch(s, append(Patch(nil), v...))
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Displacement returns the per-frame dominant minus non-dominant vector,
// invalid wherever either hand is missing. It returns nil unless both
// trajectories are non-empty and of equal length.
func Displacement(dom, nondom Trajectory) Trajectory {
	if len(dom) == 0 || len(dom) != len(nondom) {
		return nil
	}
	out := make(Trajectory, len(dom))
	for i := range dom {
		if dom[i].Valid && nondom[i].Valid {
			out[i] = P(dom[i].X-nondom[i].X, dom[i].Y-nondom[i].Y)
		}
	}
	return out
}
