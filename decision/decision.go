// Package decision identifies a probe finger/knuckle pair against a sequence of
// enrolled references.
//
// A reference matches when both its finger and knuckle fusion scores reach
// their thresholds; the first such reference wins. Per-reference failures
// (no keypoints, mismatched shapes) are logged and counted as non-matches.
package decision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jtejido/fingerknuckle/fusion"
	"github.com/jtejido/fingerknuckle/primitives"
)

const DefaultThreshold = 0.90

var ErrInvalidProbe = errors.New("invalid probe")

// Reference is one enrolled finger/knuckle pair.
type Reference struct {
	ID      string
	Finger  *primitives.ByteMatrix
	Knuckle *primitives.ByteMatrix
}

// ReferenceIterator yields references in a fixed order. Next returns io.EOF
// once the sequence is exhausted. A nil reference with a nil error is
// counted as a skipped record.
type ReferenceIterator interface {
	Next(ctx context.Context) (*Reference, error)
	Close() error
}

// Scorer computes a fusion score for an ordered image pair.
type Scorer interface {
	Score(a, b *primitives.ByteMatrix) (float64, error)
}

type Status int

const (
	// StatusNoReferences means the collection was empty.
	StatusNoReferences Status = iota
	StatusNoMatch
	StatusMatch
	// StatusAllSkipped means references existed but none could be scored.
	StatusAllSkipped
)

func (s Status) String() string {
	switch s {
	case StatusNoReferences:
		return "no_references"
	case StatusNoMatch:
		return "no_match"
	case StatusMatch:
		return "match"
	case StatusAllSkipped:
		return "all_skipped"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// MatchRecord holds the scores of one probe/reference comparison.
type MatchRecord struct {
	ReferenceID  string  `json:"reference_id"`
	FingerScore  float64 `json:"finger_score"`
	KnuckleScore float64 `json:"knuckle_score"`
	Verdict      bool    `json:"verdict"`
}

func (r MatchRecord) Mean() float64 { return (r.FingerScore + r.KnuckleScore) / 2 }

type Outcome struct {
	Status Status `json:"status"`
	// Record is the matching comparison for StatusMatch, and the closest
	// comparison (highest mean score, earliest on ties) for StatusNoMatch.
	// It is nil for StatusNoReferences and StatusAllSkipped.
	Record   *MatchRecord `json:"record,omitempty"`
	Compared int          `json:"compared"`
	Skipped  int          `json:"skipped"`
}

func (o *Outcome) Matched() bool { return o.Status == StatusMatch }

type Probe struct {
	Finger  *primitives.ByteMatrix
	Knuckle *primitives.ByteMatrix
}

func (p Probe) validate() error {
	if p.Finger == nil || p.Knuckle == nil {
		return fmt.Errorf("%w: finger and knuckle images are required", ErrInvalidProbe)
	}
	if p.Finger.Rows() < 1 || p.Finger.Cols() < 1 || p.Knuckle.Rows() < 1 || p.Knuckle.Cols() < 1 {
		return fmt.Errorf("%w: empty image", ErrInvalidProbe)
	}
	return nil
}

type Policy struct {
	Scorer           Scorer
	FingerThreshold  float64
	KnuckleThreshold float64
	Logger           *slog.Logger
}

func NewPolicy(scorer Scorer, fingerThreshold, knuckleThreshold float64, logger *slog.Logger) *Policy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Policy{
		Scorer:           scorer,
		FingerThreshold:  fingerThreshold,
		KnuckleThreshold: knuckleThreshold,
		Logger:           logger,
	}
}

// Decide walks refs until a reference matches or the sequence ends. The
// context is checked before every reference. Iterator failures abort the run;
// failures scoring a single reference do not.
func (p *Policy) Decide(ctx context.Context, probe Probe, refs ReferenceIterator) (*Outcome, error) {
	if err := probe.validate(); err != nil {
		return nil, err
	}
	out := &Outcome{Status: StatusNoReferences}
	var closest *MatchRecord

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ref, err := refs.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("next reference: %w", err)
		}

		rec, err := p.compare(probe, ref)
		if err != nil {
			out.Skipped++
			p.Logger.Warn("reference skipped", "reference", referenceID(ref), "reason", skipReason(err), "error", err)
			continue
		}
		out.Compared++
		p.Logger.Debug("reference compared",
			"reference", ref.ID,
			"finger_score", rec.FingerScore,
			"knuckle_score", rec.KnuckleScore,
		)
		if rec.Verdict {
			out.Status = StatusMatch
			out.Record = rec
			p.Logger.Info("match found",
				"reference", ref.ID,
				"finger_score", rec.FingerScore,
				"knuckle_score", rec.KnuckleScore,
				"mean_score", rec.Mean(),
			)
			return out, nil
		}
		if closest == nil || rec.Mean() > closest.Mean() {
			closest = rec
		}
	}

	switch {
	case closest != nil:
		out.Status = StatusNoMatch
		out.Record = closest
	case out.Skipped > 0:
		out.Status = StatusAllSkipped
	}
	p.Logger.Info("no match found", "status", out.Status, "compared", out.Compared, "skipped", out.Skipped)
	return out, nil
}

func (p *Policy) compare(probe Probe, ref *Reference) (*MatchRecord, error) {
	if ref == nil {
		return nil, fmt.Errorf("%w: nil reference", primitives.ErrShapeMismatch)
	}
	if !probe.Finger.SameShape(ref.Finger) || !probe.Knuckle.SameShape(ref.Knuckle) {
		return nil, primitives.ErrShapeMismatch
	}
	finger, err := p.Scorer.Score(probe.Finger, ref.Finger)
	if err != nil {
		return nil, fmt.Errorf("finger: %w", err)
	}
	knuckle, err := p.Scorer.Score(probe.Knuckle, ref.Knuckle)
	if err != nil {
		return nil, fmt.Errorf("knuckle: %w", err)
	}
	return &MatchRecord{
		ReferenceID:  ref.ID,
		FingerScore:  finger,
		KnuckleScore: knuckle,
		Verdict:      finger >= p.FingerThreshold && knuckle >= p.KnuckleThreshold,
	}, nil
}

func referenceID(ref *Reference) string {
	if ref == nil {
		return ""
	}
	return ref.ID
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, fusion.ErrEmptyKeypointSet):
		return "empty_keypoint_set"
	case errors.Is(err, primitives.ErrShapeMismatch):
		return "shape_mismatch"
	default:
		return "score_failed"
	}
}

// SliceIterator iterates over an in-memory list of references.
type SliceIterator struct {
	refs []Reference
	pos  int
}

func NewSliceIterator(refs []Reference) *SliceIterator {
	return &SliceIterator{refs: refs}
}

func (it *SliceIterator) Next(context.Context) (*Reference, error) {
	if it.pos >= len(it.refs) {
		return nil, io.EOF
	}
	ref := &it.refs[it.pos]
	it.pos++
	return ref, nil
}

func (it *SliceIterator) Close() error { return nil }
