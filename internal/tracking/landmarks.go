// Package tracking turns per-frame hand landmarks into the centroid
// trajectories a sign profile is built from.
package tracking

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Landmark is one detected hand keypoint in normalized image coordinates
// (x and y in [0, 1] of frame width and height).
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand holds the 21 landmarks of one detected hand.
type Hand struct {
	Points     [NumLandmarks]Landmark `json:"points"`
	Handedness string                 `json:"handedness,omitempty"` // "Left" or "Right"
	Score      float64                `json:"score,omitempty"`
}

// UnmarshalJSON accepts a points list of exactly NumLandmarks entries.
func (h *Hand) UnmarshalJSON(data []byte) error {
	var raw struct {
		Points     []Landmark `json:"points"`
		Handedness string     `json:"handedness"`
		Score      float64    `json:"score"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Points) != NumLandmarks {
		return fmt.Errorf("hand has %d landmarks, want %d", len(raw.Points), NumLandmarks)
	}
	h.Handedness = raw.Handedness
	h.Score = raw.Score
	copy(h.Points[:], raw.Points)
	return nil
}

// Centroid returns the mean landmark position in normalized image
// coordinates.
func (h *Hand) Centroid() (x, y float64) {
	xs := make([]float64, NumLandmarks)
	ys := make([]float64, NumLandmarks)
	for i, p := range h.Points {
		xs[i], ys[i] = p.X, p.Y
	}
	return stat.Mean(xs, nil), stat.Mean(ys, nil)
}

// Bounds returns the pixel bounding box of the hand in a width×height
// frame, grown by pad pixels on each side and clipped to the frame.
func (h *Hand) Bounds(width, height, pad int) image.Rectangle {
	xs := make([]float64, NumLandmarks)
	ys := make([]float64, NumLandmarks)
	for i, p := range h.Points {
		xs[i], ys[i] = p.X*float64(width), p.Y*float64(height)
	}
	r := image.Rect(
		int(math.Floor(floats.Min(xs)))-pad,
		int(math.Floor(floats.Min(ys)))-pad,
		int(math.Ceil(floats.Max(xs)))+pad,
		int(math.Ceil(floats.Max(ys)))+pad,
	)
	return r.Intersect(image.Rect(0, 0, width, height))
}

// Frame is the tracking result for one video frame. A nil hand was not
// detected.
type Frame struct {
	Dominant    *Hand `json:"dominant,omitempty"`
	NonDominant *Hand `json:"non_dominant,omitempty"`
}

// Assign builds a Frame from an unordered detector result. The first hand
// labelled side becomes dominant; remaining hands fill the free roles in
// detection order. An empty side uses detection order only.
func Assign(hands []Hand, side string) Frame {
	var f Frame
	var rest []*Hand
	for i := range hands {
		h := &hands[i]
		if f.Dominant == nil && side != "" && strings.EqualFold(h.Handedness, side) {
			f.Dominant = h
			continue
		}
		rest = append(rest, h)
	}
	for _, h := range rest {
		switch {
		case f.Dominant == nil:
			f.Dominant = h
		case f.NonDominant == nil:
			f.NonDominant = h
		}
	}
	return f
}
