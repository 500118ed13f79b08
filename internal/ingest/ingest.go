// Package ingest decodes recording payloads sent by clients into profile
// builder input.
package ingest

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/ayusman/signmatch/internal/gesture"
	"github.com/ayusman/signmatch/internal/handshape"
	"github.com/ayusman/signmatch/internal/tracking"
)

// ErrInvalidRequest is returned for payloads that cannot form a recording.
var ErrInvalidRequest = errors.New("invalid recording request")

// PatchDecoder turns an encoded hand crop into a patch.
type PatchDecoder func(data []byte) (gesture.Patch, error)

// Request is a recording as sent by a client. The dominant motion comes
// either from per-frame landmarks (Frames) or from ready centroid
// trajectories (Dominant, NonDominant, Delta). Keyframe hand shapes are
// given as preprocessed patches or as base64 encoded image crops.
type Request struct {
	Name      string `json:"name,omitempty"`
	OneHanded bool   `json:"one_handed"`

	Frames        []tracking.Frame        `json:"frames,omitempty"`
	Normalization *tracking.Normalization `json:"normalization,omitempty"`

	Dominant    gesture.Trajectory `json:"dominant,omitempty"`
	NonDominant gesture.Trajectory `json:"non_dominant,omitempty"`
	Delta       gesture.Trajectory `json:"delta,omitempty"`

	Patches map[gesture.Slot][]float64 `json:"patches,omitempty"`
	Images  map[gesture.Slot]string    `json:"images,omitempty"`
}

// Decode reads one JSON request from r.
func Decode(r io.Reader) (*Request, error) {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return &req, nil
}

// Converter builds recordings from requests.
type Converter struct {
	decode PatchDecoder
}

// NewConverter creates a Converter. A nil decoder selects
// handshape.FromBytes.
func NewConverter(decode PatchDecoder) *Converter {
	if decode == nil {
		decode = handshape.FromBytes
	}
	return &Converter{decode: decode}
}

// Recording converts req into builder input labelled id.
func (c *Converter) Recording(id string, req *Request) (gesture.Recording, error) {
	var rec gesture.Recording

	switch {
	case len(req.Frames) > 0:
		norm := tracking.Identity()
		if req.Normalization != nil {
			norm = *req.Normalization
		}
		tracks, err := tracking.Build(req.Frames, norm, req.OneHanded)
		if err != nil {
			return rec, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		rec = tracks.Recording(id, req.Name, req.OneHanded)
	case len(req.Dominant) > 0:
		rec = gesture.Recording{
			ID:        id,
			Name:      req.Name,
			OneHanded: req.OneHanded,
			Dominant:  req.Dominant,
		}
		if !req.OneHanded {
			rec.NonDominant = req.NonDominant
			rec.Delta = req.Delta
		}
	default:
		return rec, fmt.Errorf("%w: no frames or dominant trajectory", ErrInvalidRequest)
	}

	patches, err := c.patches(req)
	if err != nil {
		return rec, err
	}
	rec.Patches = patches
	return rec, nil
}

func (c *Converter) patches(req *Request) (map[gesture.Slot]gesture.Patch, error) {
	if len(req.Patches) == 0 && len(req.Images) == 0 {
		return nil, nil
	}

	out := make(map[gesture.Slot]gesture.Patch, len(req.Patches)+len(req.Images))
	for s, v := range req.Patches {
		if !slices.Contains(gesture.Slots, s) {
			return nil, fmt.Errorf("%w: unknown patch slot %q", ErrInvalidRequest, s)
		}
		if len(v) != gesture.PatchLen {
			return nil, fmt.Errorf("%w: patch %s has %d values, want %d", ErrInvalidRequest, s, len(v), gesture.PatchLen)
		}
		out[s] = gesture.Patch(v)
	}

	for s, enc := range req.Images {
		if !slices.Contains(gesture.Slots, s) {
			return nil, fmt.Errorf("%w: unknown image slot %q", ErrInvalidRequest, s)
		}
		if _, dup := out[s]; dup {
			return nil, fmt.Errorf("%w: slot %s given as both patch and image", ErrInvalidRequest, s)
		}
		data, err := base64.StdEncoding.DecodeString(enc)
		if err != nil {
			return nil, fmt.Errorf("%w: image %s: %v", ErrInvalidRequest, s, err)
		}
		p, err := c.decode(data)
		if err != nil {
			return nil, fmt.Errorf("%w: image %s: %v", ErrInvalidRequest, s, err)
		}
		out[s] = p
	}
	return out, nil
}
