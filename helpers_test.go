package fingerknuckle_test

import (
	"bytes"
	"crypto/sha256"
	"image"
	"testing"

	"github.com/jtejido/fingerknuckle"
	"github.com/jtejido/fingerknuckle/fusion"
	"github.com/jtejido/fingerknuckle/primitives"
)

// thinMorphology keeps the binarized mask as the skeleton and treats the
// whole frame as valid.
type thinMorphology struct{}

func (thinMorphology) Skeletonize(m *primitives.BoolMatrix) (*primitives.BoolMatrix, error) {
	return m.Clone(), nil
}

func (thinMorphology) ConvexHull(m *primitives.BoolMatrix) (*primitives.BoolMatrix, error) {
	out := primitives.NewBoolMatrix(m.Rows(), m.Cols())
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			out.Set(i, j, true)
		}
	}
	return out, nil
}

func (thinMorphology) Erode(m *primitives.BoolMatrix, _ int) (*primitives.BoolMatrix, error) {
	return m.Clone(), nil
}

// digestKeypoints describes an image by one keypoint carrying its digest.
type digestKeypoints struct{}

func (digestKeypoints) DetectAndDescribe(img *primitives.ByteMatrix) ([]fusion.Keypoint, []fusion.Descriptor, error) {
	sum := sha256.Sum256(img.Bytes())
	return []fusion.Keypoint{{}}, []fusion.Descriptor{sum[:]}, nil
}

func (digestKeypoints) Match(query, train []fusion.Descriptor, _ bool) ([]fusion.DMatch, error) {
	var out []fusion.DMatch
	for i := range query {
		for j := range train {
			if bytes.Equal(query[i], train[j]) {
				out = append(out, fusion.DMatch{QueryIndex: i, TrainIndex: j})
			}
		}
	}
	return out, nil
}

// ridgeGray is a 20x20 image with one vertical ridge in column col, rows 0..12.
func ridgeGray(col int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	for y := 0; y <= 12; y++ {
		img.Pix[y*img.Stride+col] = 255
	}
	return img
}

func ridgeTemplate(t *testing.T, col int) *fingerknuckle.Template {
	t.Helper()
	img, err := fingerknuckle.NewFromGray(ridgeGray(col))
	if err != nil {
		t.Fatal(err)
	}
	tmpl, err := fingerknuckle.NewTemplateCreator(thinMorphology{}, nil).Template(img)
	if err != nil {
		t.Fatal(err)
	}
	return tmpl
}
