package features

import (
	"errors"
	"fmt"

	"github.com/jtejido/fingerknuckle/primitives"
)

var (
	ErrInvalidImage      = errors.New("invalid ridge image")
	ErrWindowOutOfBounds = errors.New("minutia window crosses the image border")
)

// RidgeImage is a grayscale print together with its binarization threshold.
type RidgeImage struct {
	pixels    *primitives.ByteMatrix
	threshold float64
}

// NewRidgeImage captures pixels and computes the threshold as their mean intensity.
func NewRidgeImage(pixels *primitives.ByteMatrix) (*RidgeImage, error) {
	if pixels == nil || pixels.Rows() < 1 || pixels.Cols() < 1 {
		return nil, fmt.Errorf("%w: empty pixel matrix", ErrInvalidImage)
	}
	return &RidgeImage{pixels: pixels, threshold: pixels.Mean()}, nil
}

func (r *RidgeImage) Pixels() *primitives.ByteMatrix { return r.pixels }
func (r *RidgeImage) Threshold() float64             { return r.threshold }
func (r *RidgeImage) Rows() int                      { return r.pixels.Rows() }
func (r *RidgeImage) Cols() int                      { return r.pixels.Cols() }

// Binarize marks pixels strictly brighter than the threshold.
func (r *RidgeImage) Binarize() *primitives.BoolMatrix {
	rows, cols := r.pixels.Rows(), r.pixels.Cols()
	mask := primitives.NewBoolMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if float64(r.pixels.At(i, j)) > r.threshold {
				mask.Set(i, j, true)
			}
		}
	}
	return mask
}

// Scale255 maps a mask to 0/255 intensities.
func Scale255(mask *primitives.BoolMatrix) *primitives.ByteMatrix {
	out, _ := primitives.ByteMatrixFromBytes(mask.Rows(), mask.Cols(), mask.Bytes())
	return out
}
