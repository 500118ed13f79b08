// Package gesture provides sign profiles and multi-channel similarity
// matching over them.
package gesture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrInvalidProfile indicates a structurally malformed profile.
	ErrInvalidProfile = errors.New("gesture: invalid profile")

	// ErrMissingDominant indicates a profile or recording without any
	// dominant-hand data.
	ErrMissingDominant = fmt.Errorf("%w: missing dominant-hand channel", ErrInvalidProfile)
)

// DefaultFrames is the fixed channel length profiles are resampled to.
const DefaultFrames = 20

// PatchSide is the edge length of a hand-shape patch in pixels.
const PatchSide = 50

// PatchLen is the number of values in a flattened hand-shape patch.
const PatchLen = PatchSide * PatchSide

// Point is a single 2D sample. Valid is false when the hand was not
// detected in that frame.
type Point struct {
	X     float64
	Y     float64
	Valid bool
}

// P returns a valid point at (x, y).
func P(x, y float64) Point {
	return Point{X: x, Y: y, Valid: true}
}

// MarshalJSON encodes a valid point as [x, y] and an invalid one as null.
func (p Point) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON accepts [x, y] or null.
func (p *Point) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = Point{}
		return nil
	}
	var xy [2]float64
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	*p = P(xy[0], xy[1])
	return nil
}

// Trajectory is a temporally ordered series of points.
type Trajectory []Point

// ValidCount returns the number of valid samples.
func (t Trajectory) ValidCount() int {
	n := 0
	for _, p := range t {
		if p.Valid {
			n++
		}
	}
	return n
}

// Degenerate reports whether the trajectory has no valid sample.
func (t Trajectory) Degenerate() bool {
	return t.ValidCount() == 0
}

// Coords converts the trajectory to alignment input. Invalid samples map
// to the zero vector.
func (t Trajectory) Coords() [][]float64 {
	out := make([][]float64, len(t))
	for i, p := range t {
		if p.Valid {
			out[i] = []float64{p.X, p.Y}
		} else {
			out[i] = []float64{0, 0}
		}
	}
	return out
}

// Patch is a flattened PatchSide×PatchSide normalized grayscale hand image.
type Patch []float64

// Channel names a time-series channel of a profile.
type Channel string

const (
	ChannelDominant               Channel = "dominant"
	ChannelNonDominant            Channel = "non_dominant"
	ChannelDelta                  Channel = "delta"
	ChannelOrientationDominant    Channel = "orientation_dominant"
	ChannelOrientationNonDominant Channel = "orientation_non_dominant"
	ChannelOrientationDelta       Channel = "orientation_delta"
)

// Channels lists every channel in storage order.
var Channels = []Channel{
	ChannelDominant,
	ChannelNonDominant,
	ChannelDelta,
	ChannelOrientationDominant,
	ChannelOrientationNonDominant,
	ChannelOrientationDelta,
}

// Slot names a keyframe hand-shape patch.
type Slot string

const (
	SlotDominantStart    Slot = "dominant_start"
	SlotDominantEnd      Slot = "dominant_end"
	SlotNonDominantStart Slot = "non_dominant_start"
	SlotNonDominantEnd   Slot = "non_dominant_end"
)

// Slots lists every patch slot.
var Slots = []Slot{SlotDominantStart, SlotDominantEnd, SlotNonDominantStart, SlotNonDominantEnd}

// nonDominant reports whether c is tied to the non-dominant hand.
func (c Channel) nonDominant() bool {
	switch c {
	case ChannelNonDominant, ChannelDelta, ChannelOrientationNonDominant, ChannelOrientationDelta:
		return true
	}
	return false
}

func (s Slot) nonDominant() bool {
	return s == SlotNonDominantStart || s == SlotNonDominantEnd
}

// Profile is one processed sign instance. Channels tied to the non-dominant
// hand are nil for one-handed signs. Profiles are treated as immutable once
// handed to a Library or Matcher.
type Profile struct {
	ID        string
	Name      string
	OneHanded bool

	Dominant          Trajectory
	NonDominant       Trajectory
	Delta             Trajectory
	OrientDominant    Trajectory
	OrientNonDominant Trajectory
	OrientDelta       Trajectory

	DominantStart    Patch
	DominantEnd      Patch
	NonDominantStart Patch
	NonDominantEnd   Patch
}

// Channel returns the named channel, or nil if unknown or absent.
func (p *Profile) Channel(c Channel) Trajectory {
	if f := p.channelField(c); f != nil {
		return *f
	}
	return nil
}

// SetChannel replaces the named channel. Unknown names are ignored.
func (p *Profile) SetChannel(c Channel, t Trajectory) {
	if f := p.channelField(c); f != nil {
		*f = t
	}
}

func (p *Profile) channelField(c Channel) *Trajectory {
	switch c {
	case ChannelDominant:
		return &p.Dominant
	case ChannelNonDominant:
		return &p.NonDominant
	case ChannelDelta:
		return &p.Delta
	case ChannelOrientationDominant:
		return &p.OrientDominant
	case ChannelOrientationNonDominant:
		return &p.OrientNonDominant
	case ChannelOrientationDelta:
		return &p.OrientDelta
	}
	return nil
}

// Patch returns the patch stored in slot s, or nil.
func (p *Profile) Patch(s Slot) Patch {
	if f := p.patchField(s); f != nil {
		return *f
	}
	return nil
}

// SetPatch replaces the patch in slot s. Unknown slots are ignored.
func (p *Profile) SetPatch(s Slot, v Patch) {
	if f := p.patchField(s); f != nil {
		*f = v
	}
}

func (p *Profile) patchField(s Slot) *Patch {
	switch s {
	case SlotDominantStart:
		return &p.DominantStart
	case SlotDominantEnd:
		return &p.DominantEnd
	case SlotNonDominantStart:
		return &p.NonDominantStart
	case SlotNonDominantEnd:
		return &p.NonDominantEnd
	}
	return nil
}

// Validate checks the profile's shape: a non-empty dominant channel, every
// other present channel of the same length, no non-dominant data on a
// one-handed profile, and full-size patches.
func (p *Profile) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil profile", ErrInvalidProfile)
	}
	if len(p.Dominant) == 0 {
		return ErrMissingDominant
	}

	n := len(p.Dominant)
	for _, c := range Channels {
		t := p.Channel(c)
		if len(t) == 0 {
			continue
		}
		if p.OneHanded && c.nonDominant() {
			return fmt.Errorf("%w: one-handed profile has %s channel", ErrInvalidProfile, c)
		}
		if len(t) != n {
			return fmt.Errorf("%w: channel %s has %d samples, want %d", ErrInvalidProfile, c, len(t), n)
		}
	}

	for _, s := range Slots {
		v := p.Patch(s)
		if len(v) == 0 {
			continue
		}
		if p.OneHanded && s.nonDominant() {
			return fmt.Errorf("%w: one-handed profile has %s patch", ErrInvalidProfile, s)
		}
		if len(v) != PatchLen {
			return fmt.Errorf("%w: patch %s has %d values, want %d", ErrInvalidProfile, s, len(v), PatchLen)
		}
	}

	return nil
}
