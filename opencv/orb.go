package opencv

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/jtejido/fingerknuckle/fusion"
	"github.com/jtejido/fingerknuckle/primitives"
)

// ORB detects ORB keypoints and matches their descriptors by brute force
// under the Hamming norm.
type ORB struct{}

func (ORB) DetectAndDescribe(img *primitives.ByteMatrix) ([]fusion.Keypoint, []fusion.Descriptor, error) {
	src, err := grayToMat(img)
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	orb := gocv.NewORB()
	defer orb.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	kps, desc := orb.DetectAndCompute(src, mask)
	defer desc.Close()

	keypoints := make([]fusion.Keypoint, len(kps))
	for i, kp := range kps {
		keypoints[i] = fusion.Keypoint{X: kp.X, Y: kp.Y}
	}
	if desc.Empty() {
		return keypoints, nil, nil
	}
	if desc.Rows() != len(kps) {
		return nil, nil, fmt.Errorf("orb: %d descriptors for %d keypoints", desc.Rows(), len(kps))
	}

	raw := desc.ToBytes()
	width := desc.Cols()
	descriptors := make([]fusion.Descriptor, desc.Rows())
	for i := range descriptors {
		descriptors[i] = fusion.Descriptor(raw[i*width : (i+1)*width])
	}
	return keypoints, descriptors, nil
}

func (ORB) Match(query, train []fusion.Descriptor, crossCheck bool) ([]fusion.DMatch, error) {
	if len(query) == 0 || len(train) == 0 {
		return nil, nil
	}
	q, err := descriptorMat(query)
	if err != nil {
		return nil, err
	}
	defer q.Close()
	t, err := descriptorMat(train)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	bf := gocv.NewBFMatcherWithParams(gocv.NormHamming, crossCheck)
	defer bf.Close()

	// With k=1 and cross-checking, queries without a mutual partner come back empty.
	var out []fusion.DMatch
	for _, candidates := range bf.KnnMatch(q, t, 1) {
		for _, m := range candidates {
			out = append(out, fusion.DMatch{
				QueryIndex: m.QueryIdx,
				TrainIndex: m.TrainIdx,
				Distance:   int(m.Distance),
			})
		}
	}
	return out, nil
}

func descriptorMat(ds []fusion.Descriptor) (gocv.Mat, error) {
	width := len(ds[0])
	data := make([]byte, 0, width*len(ds))
	for i, d := range ds {
		if len(d) != width {
			return gocv.Mat{}, fmt.Errorf("descriptor %d has %d bytes, want %d", i, len(d), width)
		}
		data = append(data, d...)
	}
	return gocv.NewMatFromBytes(len(ds), width, gocv.MatTypeCV8UC1, data)
}

var (
	_ fusion.Capability = ORB{}
)
