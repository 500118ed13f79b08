package gesture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrHandednessMismatch indicates profiles of differing handedness.
	ErrHandednessMismatch = errors.New("gesture: handedness mismatch")

	// ErrNoComparableChannels indicates that no motion channel could be
	// aligned between two profiles.
	ErrNoComparableChannels = errors.New("gesture: no comparable channels")
)

// Aligner computes the alignment cost of two numeric sequences.
type Aligner interface {
	Align(ctx context.Context, x, y [][]float64) (float64, error)
}

// Weights scales each component of the distance between two profiles.
type Weights struct {
	Dominant               float64 `yaml:"dominant" json:"dominant"`
	NonDominant            float64 `yaml:"non_dominant" json:"non_dominant"`
	Delta                  float64 `yaml:"delta" json:"delta"`
	OrientationDominant    float64 `yaml:"orientation_dominant" json:"orientation_dominant"`
	OrientationNonDominant float64 `yaml:"orientation_non_dominant" json:"orientation_non_dominant"`
	OrientationDelta       float64 `yaml:"orientation_delta" json:"orientation_delta"`
	Hand                   float64 `yaml:"hand" json:"hand"`
}

// DefaultWeights returns the standard weighting: dominant motion counts
// double, orientation half.
func DefaultWeights() Weights {
	return Weights{
		Dominant:               2,
		NonDominant:            1,
		Delta:                  1,
		OrientationDominant:    0.5,
		OrientationNonDominant: 0.5,
		OrientationDelta:       0.5,
		Hand:                   1,
	}
}

// Validate rejects negative or non-finite weights.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"dominant":                 w.Dominant,
		"non_dominant":             w.NonDominant,
		"delta":                    w.Delta,
		"orientation_dominant":     w.OrientationDominant,
		"orientation_non_dominant": w.OrientationNonDominant,
		"orientation_delta":        w.OrientationDelta,
		"hand":                     w.Hand,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight %s: invalid value %v", name, v)
		}
	}
	return nil
}

// term is one weighted motion channel of the distance.
type term struct {
	channel     Channel
	weight      float64
	twoHanded   bool
	orientation bool
}

func (w Weights) terms() []term {
	return []term{
		{ChannelDominant, w.Dominant, false, false},
		{ChannelNonDominant, w.NonDominant, true, false},
		{ChannelDelta, w.Delta, true, false},
		{ChannelOrientationDominant, w.OrientationDominant, false, true},
		{ChannelOrientationNonDominant, w.OrientationNonDominant, true, true},
		{ChannelOrientationDelta, w.OrientationDelta, true, true},
	}
}

// Comparator computes the weighted distance between two profiles.
type Comparator struct {
	aligner Aligner
	weights Weights
	logger  *slog.Logger
}

// NewComparator creates a Comparator. A nil logger uses slog.Default().
func NewComparator(a Aligner, w Weights, logger *slog.Logger) *Comparator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Comparator{aligner: a, weights: w, logger: logger}
}

// Weights returns the comparator's weights.
func (c *Comparator) Weights() Weights {
	return c.weights
}

// Distance returns the motion distance of q and x plus the weighted
// hand-shape distance. Profiles must share handedness.
//
// The motion distance is the average of the weighted alignment costs over
// the channels both profiles can supply: dominant always, non-dominant and
// displacement only for two-handed signs, orientation channels only when
// their weight is positive. Absent or all-invalid channels, failed
// alignments and non-finite costs are left out of the average.
func (c *Comparator) Distance(ctx context.Context, q, x *Profile) (float64, error) {
	if q.OneHanded != x.OneHanded {
		return 0, ErrHandednessMismatch
	}

	motion, err := c.MotionDistance(ctx, q, x)
	if err != nil {
		return 0, err
	}
	if c.weights.Hand == 0 {
		return motion, nil
	}
	return motion + c.weights.Hand*HandDistance(q, x), nil
}

// MotionDistance returns the averaged weighted channel alignment cost.
func (c *Comparator) MotionDistance(ctx context.Context, q, x *Profile) (float64, error) {
	twoHanded := !q.OneHanded && !x.OneHanded

	var sum float64
	var n int
	for _, t := range c.weights.terms() {
		if t.twoHanded && !twoHanded {
			continue
		}
		if t.orientation && t.weight <= 0 {
			continue
		}

		qa, xa := q.Channel(t.channel), x.Channel(t.channel)
		if qa.Degenerate() || xa.Degenerate() {
			continue
		}

		cost, err := c.aligner.Align(ctx, qa.Coords(), xa.Coords())
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return 0, ctxErr
			}
			c.logger.Warn("channel alignment failed",
				"query", q.ID, "candidate", x.ID, "channel", t.channel, "error", err)
			continue
		}
		if math.IsNaN(cost) || math.IsInf(cost, 0) {
			c.logger.Warn("channel cost not finite",
				"query", q.ID, "candidate", x.ID, "channel", t.channel, "cost", cost)
			continue
		}

		sum += t.weight * cost
		n++
	}

	if n == 0 {
		return 0, ErrNoComparableChannels
	}
	return sum / float64(n), nil
}

// HandDistance sums the Euclidean distances between matching keyframe
// patches: dominant start and end, plus non-dominant start and end when
// both profiles are two-handed. Slots missing from either side are skipped.
func HandDistance(q, x *Profile) float64 {
	slots := []Slot{SlotDominantStart, SlotDominantEnd}
	if !q.OneHanded && !x.OneHanded {
		slots = append(slots, SlotNonDominantStart, SlotNonDominantEnd)
	}

	var total float64
	for _, s := range slots {
		a, b := q.Patch(s), x.Patch(s)
		if len(a) == 0 || len(a) != len(b) {
			continue
		}
		total += floats.Distance(a, b, 2)
	}
	return total
}
