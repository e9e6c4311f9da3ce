// Package fusion scores the similarity of two print images by the share of
// keypoints that find a close, mutually-nearest partner in the other image.
package fusion

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/jtejido/fingerknuckle/primitives"
	"github.com/jtejido/fingerknuckle/transparency"
)

// DefaultDistanceThreshold is the exclusive Hamming bound for an accepted match.
const DefaultDistanceThreshold = 50

// ErrEmptyKeypointSet is returned when the first image of a pair yields no
// keypoints, leaving the score undefined.
var ErrEmptyKeypointSet = errors.New("no keypoints detected in first image")

type Keypoint struct {
	X, Y float64
}

// Descriptor is a binary feature vector compared by Hamming distance.
type Descriptor []byte

// DMatch pairs descriptor QueryIndex of the first set with TrainIndex of the second.
type DMatch struct {
	QueryIndex int
	TrainIndex int
	Distance   int
}

// Capability detects, describes and matches keypoints.
type Capability interface {
	DetectAndDescribe(img *primitives.ByteMatrix) ([]Keypoint, []Descriptor, error)
	// Match returns, for each query descriptor, its nearest train descriptor.
	// With crossCheck, a pair is kept only when each is the other's nearest.
	Match(query, train []Descriptor, crossCheck bool) ([]DMatch, error)
}

type Scorer struct {
	Capability        Capability
	DistanceThreshold int
	Transparency      *transparency.Logger
}

func NewScorer(c Capability, distanceThreshold int, tl *transparency.Logger) *Scorer {
	return &Scorer{Capability: c, DistanceThreshold: distanceThreshold, Transparency: tl}
}

type comparison struct {
	KeypointsA int      `cbor:"keypoints_a"`
	KeypointsB int      `cbor:"keypoints_b"`
	Matches    []DMatch `cbor:"matches"`
	Accepted   int      `cbor:"accepted"`
	Score      float64  `cbor:"score"`
}

// Score returns accepted matches divided by the keypoint count of a.
// The ratio is asymmetric: Score(a, b) and Score(b, a) may differ.
func (s *Scorer) Score(a, b *primitives.ByteMatrix) (float64, error) {
	kpA, descA, err := s.Capability.DetectAndDescribe(a)
	if err != nil {
		return 0, fmt.Errorf("describe first image: %w", err)
	}
	if len(kpA) == 0 {
		return 0, ErrEmptyKeypointSet
	}
	kpB, descB, err := s.Capability.DetectAndDescribe(b)
	if err != nil {
		return 0, fmt.Errorf("describe second image: %w", err)
	}

	var matches []DMatch
	if len(descA) > 0 && len(descB) > 0 {
		matches, err = s.Capability.Match(descA, descB, true)
		if err != nil {
			return 0, fmt.Errorf("match descriptors: %w", err)
		}
	}
	slices.SortStableFunc(matches, func(x, y DMatch) int {
		return x.Distance - y.Distance
	})

	accepted := 0
	for _, m := range matches {
		if m.Distance >= s.DistanceThreshold {
			break
		}
		accepted++
	}
	score := float64(accepted) / float64(len(kpA))

	_ = s.Transparency.Log(transparency.KeyComparison, comparison{
		KeypointsA: len(kpA),
		KeypointsB: len(kpB),
		Matches:    matches,
		Accepted:   accepted,
		Score:      score,
	})
	return score, nil
}
