// Package handshape converts cropped keyframe hand images into the
// fixed-size normalized patches compared by the matcher.
package handshape

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/signmatch/internal/gesture"
)

// ErrDecode indicates image bytes that could not be decoded.
var ErrDecode = errors.New("handshape: cannot decode image")

// Skin colour bounds in OpenCV HSV (H in [0, 180)).
var (
	skinLower = gocv.NewScalar(0, 20, 70, 0)
	skinUpper = gocv.NewScalar(20, 255, 255, 0)
)

// Preprocess builds a hand-shape patch from a BGR hand crop.
//
// Algorithm:
// 1. Zero every pixel outside the HSV skin range
// 2. Convert to grayscale
// 3. Normalize to zero mean and unit variance (mean only if flat)
// 4. Scale so the longer side is gesture.PatchSide, keeping aspect
// 5. Centre on a zero canvas
//
// An empty image yields an all-zero patch.
func Preprocess(img gocv.Mat) (gesture.Patch, error) {
	patch := make(gesture.Patch, gesture.PatchLen)
	if img.Empty() {
		return patch, nil
	}
	if img.Channels() != 3 {
		return nil, fmt.Errorf("handshape: expected 3-channel BGR image, got %d channels", img.Channels())
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsv, skinLower, skinUpper, &mask)

	skin := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), img.Rows(), img.Cols(), img.Type())
	defer skin.Close()
	img.CopyToWithMask(&skin, mask)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(skin, &gray, gocv.ColorBGRToGray)

	norm := gocv.NewMat()
	defer norm.Close()
	gray.ConvertTo(&norm, gocv.MatTypeCV32F)

	pixels, err := norm.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("handshape: read pixels: %w", err)
	}
	values := make([]float64, len(pixels))
	for i, v := range pixels {
		values[i] = float64(v)
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	norm.SubtractFloat(float32(mean))
	if std > 0 {
		norm.DivideFloat(float32(std))
	}

	rows, cols := norm.Rows(), norm.Cols()
	scale := float64(gesture.PatchSide) / float64(max(rows, cols))
	w := min(gesture.PatchSide, max(1, int(math.Round(float64(cols)*scale))))
	h := min(gesture.PatchSide, max(1, int(math.Round(float64(rows)*scale))))

	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(norm, &scaled, image.Pt(w, h), 0, 0, gocv.InterpolationLinear)

	yOff := (gesture.PatchSide - h) / 2
	xOff := (gesture.PatchSide - w) / 2
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			patch[(r+yOff)*gesture.PatchSide+c+xOff] = float64(scaled.GetFloatAt(r, c))
		}
	}
	return patch, nil
}

// Decode decodes encoded image bytes (JPEG, PNG) into a BGR Mat. The
// caller must Close the result.
func Decode(data []byte) (gocv.Mat, error) {
	img, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if img.Empty() {
		img.Close()
		return gocv.NewMat(), ErrDecode
	}
	return img, nil
}

// FromBytes decodes an encoded hand crop and preprocesses it.
func FromBytes(data []byte) (gesture.Patch, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	defer img.Close()
	return Preprocess(img)
}

// Crop copies the part of frame inside r, clipped to the frame. An empty
// intersection yields an empty Mat. The caller must Close the result.
func Crop(frame gocv.Mat, r image.Rectangle) gocv.Mat {
	r = r.Intersect(image.Rect(0, 0, frame.Cols(), frame.Rows()))
	if r.Empty() {
		return gocv.NewMat()
	}
	region := frame.Region(r)
	defer region.Close()
	return region.Clone()
}
