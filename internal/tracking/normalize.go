package tracking

import (
	"errors"
	"image"
	"math"
)

// ErrInvalidNormalization indicates unusable normalization parameters.
var ErrInvalidNormalization = errors.New("tracking: invalid normalization")

// Normalization maps normalized landmark coordinates into a signer-relative
// frame: a centroid (cx, cy) becomes ((cx*Width - OriginX) * Scale,
// (cy*Height - OriginY) * Scale).
type Normalization struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	OriginX float64 `json:"origin_x"`
	OriginY float64 `json:"origin_y"`
	Scale   float64 `json:"scale"`
}

// Identity leaves landmark coordinates unchanged.
func Identity() Normalization {
	return Normalization{Width: 1, Height: 1, Scale: 1}
}

// FrameNormalization centres on the frame and scales by its height. It is
// the fallback when no face is found.
func FrameNormalization(width, height int) Normalization {
	return Normalization{
		Width:   float64(width),
		Height:  float64(height),
		OriginX: float64(width) / 2,
		OriginY: float64(height) / 2,
		Scale:   1 / float64(height),
	}
}

// FaceNormalization centres on the signer's face and scales by the face
// box diagonal, making trajectories comparable across camera distances.
func FaceNormalization(face image.Rectangle, width, height int) Normalization {
	w, h := float64(face.Dx()), float64(face.Dy())
	return Normalization{
		Width:   float64(width),
		Height:  float64(height),
		OriginX: float64(face.Min.X) + w/2,
		OriginY: float64(face.Min.Y) + h/2,
		Scale:   1 / math.Hypot(w, h),
	}
}

// Validate rejects non-positive dimensions or scale.
func (n Normalization) Validate() error {
	for _, v := range []float64{n.Width, n.Height, n.Scale} {
		if !(v > 0) || math.IsInf(v, 0) {
			return ErrInvalidNormalization
		}
	}
	return nil
}

// Apply maps a normalized image coordinate.
func (n Normalization) Apply(x, y float64) (float64, float64) {
	return (x*n.Width - n.OriginX) * n.Scale, (y*n.Height - n.OriginY) * n.Scale
}
