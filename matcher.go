package fingerknuckle

import (
	"context"
	"fmt"

	"github.com/jtejido/fingerknuckle/config"
	"github.com/jtejido/fingerknuckle/fusion"
)

// Matcher scores candidates against a fixed probe template.
type Matcher struct {
	probe  *Template
	scorer *fusion.Scorer
}

func NewMatcher(keypoints fusion.Capability, logger *TransparencyLogger, probe *Template) (*Matcher, error) {
	if probe == nil || probe.Rendered == nil {
		return nil, fmt.Errorf("%w: probe has no rendered image", ErrInvalidTemplate)
	}
	return &Matcher{
		probe:  probe,
		scorer: fusion.NewScorer(keypoints, config.Config.Fusion.DistanceThreshold, logger),
	}, nil
}

// Match returns the fusion score of the probe against candidate.
func (m *Matcher) Match(ctx context.Context, candidate *Template) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if candidate == nil || candidate.Rendered == nil {
		return 0, fmt.Errorf("%w: candidate has no rendered image", ErrInvalidTemplate)
	}
	return m.scorer.Score(m.probe.Rendered, candidate.Rendered)
}
