package ingest

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/ayusman/signmatch/internal/gesture"
	"github.com/ayusman/signmatch/internal/tracking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constDecoder(v float64) PatchDecoder {
	return func(data []byte) (gesture.Patch, error) {
		if string(data) == "bad" {
			return nil, errors.New("cannot decode")
		}
		p := make(gesture.Patch, gesture.PatchLen)
		for i := range p {
			p[i] = v
		}
		return p, nil
	}
}

func handAt(x, y float64) *tracking.Hand {
	h := &tracking.Hand{}
	for i := range h.Points {
		h.Points[i] = tracking.Landmark{X: x, Y: y}
	}
	return h
}

func TestDecode(t *testing.T) {
	body := `{"name":"hello","one_handed":true,"dominant":[[0,0],null,[1,1]],"patches":{"dominant_start":[]}}`

	req, err := Decode(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "hello", req.Name)
	assert.True(t, req.OneHanded)
	require.Len(t, req.Dominant, 3)
	assert.False(t, req.Dominant[1].Valid)
	assert.Contains(t, req.Patches, gesture.SlotDominantStart)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"dominant": 3}`))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestRecording_FromTrajectories(t *testing.T) {
	c := NewConverter(constDecoder(0))
	req := &Request{
		OneHanded:   true,
		Dominant:    gesture.Trajectory{gesture.P(0, 0), gesture.P(1, 1)},
		NonDominant: gesture.Trajectory{gesture.P(5, 5), gesture.P(6, 6)},
	}

	rec, err := c.Recording("q", req)
	require.NoError(t, err)
	assert.Equal(t, "q", rec.ID)
	assert.Equal(t, req.Dominant, rec.Dominant)
	assert.Nil(t, rec.NonDominant, "one-handed requests drop non-dominant input")
	assert.Nil(t, rec.Patches)
}

func TestRecording_FromFrames(t *testing.T) {
	c := NewConverter(constDecoder(0))
	req := &Request{
		Frames: []tracking.Frame{
			{Dominant: handAt(0.25, 0.5), NonDominant: handAt(0.75, 0.5)},
			{Dominant: handAt(0.5, 0.5)},
		},
	}

	rec, err := c.Recording("q", req)
	require.NoError(t, err)
	require.Len(t, rec.Dominant, 2)
	require.Len(t, rec.NonDominant, 2)
	assert.Equal(t, gesture.P(0.25, 0.5), rec.Dominant[0])
	assert.False(t, rec.NonDominant[1].Valid)
	require.Len(t, rec.Delta, 2)
	assert.Equal(t, gesture.P(-0.5, 0), rec.Delta[0])
	assert.False(t, rec.Delta[1].Valid)
}

func TestRecording_FramesWithNormalization(t *testing.T) {
	c := NewConverter(constDecoder(0))
	norm := tracking.FrameNormalization(200, 100)
	req := &Request{
		OneHanded:     true,
		Frames:        []tracking.Frame{{Dominant: handAt(0.5, 0.5)}},
		Normalization: &norm,
	}

	rec, err := c.Recording("q", req)
	require.NoError(t, err)
	assert.Equal(t, gesture.P(0, 0), rec.Dominant[0])

	req.Normalization = &tracking.Normalization{}
	_, err = c.Recording("q", req)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestRecording_Empty(t *testing.T) {
	_, err := NewConverter(nil).Recording("q", &Request{OneHanded: true})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestRecording_Patches(t *testing.T) {
	c := NewConverter(constDecoder(0.5))
	base := func() *Request {
		return &Request{OneHanded: true, Dominant: gesture.Trajectory{gesture.P(0, 0)}}
	}

	t.Run("patch and image", func(t *testing.T) {
		req := base()
		req.Patches = map[gesture.Slot][]float64{gesture.SlotDominantStart: make([]float64, gesture.PatchLen)}
		req.Images = map[gesture.Slot]string{gesture.SlotDominantEnd: base64.StdEncoding.EncodeToString([]byte("jpeg"))}

		rec, err := c.Recording("q", req)
		require.NoError(t, err)
		require.Len(t, rec.Patches, 2)
		assert.Equal(t, 0.0, rec.Patches[gesture.SlotDominantStart][0])
		assert.Equal(t, 0.5, rec.Patches[gesture.SlotDominantEnd][0])
	})

	errCases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"wrong length", func(r *Request) {
			r.Patches = map[gesture.Slot][]float64{gesture.SlotDominantStart: {1, 2}}
		}},
		{"unknown patch slot", func(r *Request) {
			r.Patches = map[gesture.Slot][]float64{"elbow": make([]float64, gesture.PatchLen)}
		}},
		{"unknown image slot", func(r *Request) {
			r.Images = map[gesture.Slot]string{"elbow": ""}
		}},
		{"bad base64", func(r *Request) {
			r.Images = map[gesture.Slot]string{gesture.SlotDominantEnd: "%%%"}
		}},
		{"undecodable image", func(r *Request) {
			r.Images = map[gesture.Slot]string{gesture.SlotDominantEnd: base64.StdEncoding.EncodeToString([]byte("bad"))}
		}},
		{"duplicate slot", func(r *Request) {
			r.Patches = map[gesture.Slot][]float64{gesture.SlotDominantEnd: make([]float64, gesture.PatchLen)}
			r.Images = map[gesture.Slot]string{gesture.SlotDominantEnd: base64.StdEncoding.EncodeToString([]byte("x"))}
		}},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			req := base()
			tc.mutate(req)
			_, err := c.Recording("q", req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestRecording_BuildsProfile(t *testing.T) {
	req := &Request{
		Name:      "wave",
		OneHanded: true,
		Dominant:  gesture.Trajectory{gesture.P(0, 0), {}, gesture.P(2, 0), gesture.P(3, 1)},
		Images:    map[gesture.Slot]string{gesture.SlotDominantStart: base64.StdEncoding.EncodeToString([]byte("x"))},
	}

	rec, err := NewConverter(constDecoder(1)).Recording("wave-1", req)
	require.NoError(t, err)

	p, err := gesture.NewBuilder(0).Build(rec)
	require.NoError(t, err)
	assert.Equal(t, "wave", p.Name)
	assert.Len(t, p.Dominant, gesture.DefaultFrames)
	assert.Len(t, p.DominantStart, gesture.PatchLen)
}
