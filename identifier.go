package fingerknuckle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jtejido/fingerknuckle/config"
	"github.com/jtejido/fingerknuckle/decision"
	"github.com/jtejido/fingerknuckle/fusion"
)

// Gallery is a store of enrolled finger/knuckle pairs.
type Gallery interface {
	References(ctx context.Context) (decision.ReferenceIterator, error)
	Enroll(ctx context.Context, finger, knuckle *Template) (string, error)
}

type Identifier struct {
	policy  *decision.Policy
	gallery Gallery
	logger  *slog.Logger
}

func NewIdentifier(keypoints fusion.Capability, gallery Gallery, logger *TransparencyLogger, log *slog.Logger) *Identifier {
	if log == nil {
		log = slog.Default()
	}
	scorer := fusion.NewScorer(keypoints, config.Config.Fusion.DistanceThreshold, logger)
	return &Identifier{
		policy: decision.NewPolicy(scorer,
			config.Config.Decision.FingerThreshold,
			config.Config.Decision.KnuckleThreshold,
			log),
		gallery: gallery,
		logger:  log,
	}
}

type Identification struct {
	*decision.Outcome
	// EnrolledID is set when the probe was added to the gallery.
	EnrolledID string `json:"enrolled_id,omitempty"`
}

// Identify searches the gallery for the pair and, when nothing matches and
// enrollOnMiss is set, enrolls the probe as a new reference.
func (id *Identifier) Identify(ctx context.Context, finger, knuckle *Template, enrollOnMiss bool) (*Identification, error) {
	if finger == nil || knuckle == nil {
		return nil, fmt.Errorf("%w: finger and knuckle templates are required", decision.ErrInvalidProbe)
	}
	refs, err := id.gallery.References(ctx)
	if err != nil {
		return nil, fmt.Errorf("open references: %w", err)
	}
	defer refs.Close()

	outcome, err := id.policy.Decide(ctx, decision.Probe{Finger: finger.Rendered, Knuckle: knuckle.Rendered}, refs)
	if err != nil {
		return nil, err
	}
	// release the read cursor before writing
	if err := refs.Close(); err != nil {
		return nil, fmt.Errorf("close references: %w", err)
	}
	result := &Identification{Outcome: outcome}
	if outcome.Matched() || !enrollOnMiss {
		return result, nil
	}

	enrolled, err := id.gallery.Enroll(ctx, finger, knuckle)
	if err != nil {
		return nil, fmt.Errorf("enroll probe: %w", err)
	}
	id.logger.Info("probe enrolled", "reference", enrolled)
	result.EnrolledID = enrolled
	return result, nil
}
