package features

import (
	"github.com/disintegration/imaging"

	"github.com/jtejido/fingerknuckle/primitives"
)

// Render draws the skeleton as a 0/255 grayscale image resized to size x size
// with a linear filter. This is the image stored with a template and compared
// by the fusion scorer.
func Render(skeleton *primitives.BoolMatrix, size int) *primitives.ByteMatrix {
	src := Scale255(skeleton).ToGray()
	if skeleton.Rows() == size && skeleton.Cols() == size {
		return primitives.FromGray(src)
	}
	resized := imaging.Resize(src, size, size, imaging.Linear)
	out := primitives.NewByteMatrix(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			out.Set(y, x, resized.Pix[y*resized.Stride+x*4])
		}
	}
	return out
}
