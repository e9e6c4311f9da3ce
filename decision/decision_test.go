package decision

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtejido/fingerknuckle/fusion"
	"github.com/jtejido/fingerknuckle/logging"
	"github.com/jtejido/fingerknuckle/primitives"
)

type result struct {
	score float64
	err   error
}

// tableScorer scores by the identity of the reference image.
type tableScorer map[*primitives.ByteMatrix]result

func (s tableScorer) Score(_, b *primitives.ByteMatrix) (float64, error) {
	r := s[b]
	return r.score, r.err
}

type fixture struct {
	probe  Probe
	scorer tableScorer
}

func newFixture() *fixture {
	return &fixture{
		probe: Probe{
			Finger:  primitives.NewByteMatrix(4, 4),
			Knuckle: primitives.NewByteMatrix(4, 4),
		},
		scorer: tableScorer{},
	}
}

func (f *fixture) ref(id string, finger, knuckle result) Reference {
	r := Reference{ID: id, Finger: primitives.NewByteMatrix(4, 4), Knuckle: primitives.NewByteMatrix(4, 4)}
	f.scorer[r.Finger] = finger
	f.scorer[r.Knuckle] = knuckle
	return r
}

func (f *fixture) policy() *Policy {
	return NewPolicy(f.scorer, DefaultThreshold, DefaultThreshold, logging.Discard())
}

func ok(score float64) result { return result{score: score} }

func TestDecideEmptyCollection(t *testing.T) {
	f := newFixture()
	out, err := f.policy().Decide(context.Background(), f.probe, NewSliceIterator(nil))
	require.NoError(t, err)
	assert.Equal(t, StatusNoReferences, out.Status)
	assert.Nil(t, out.Record)
	assert.Zero(t, out.Compared)
	assert.False(t, out.Matched())
}

func TestDecideFirstMatchWins(t *testing.T) {
	f := newFixture()
	refs := []Reference{
		f.ref("finger-only", ok(0.95), ok(0.50)),
		f.ref("first", ok(0.95), ok(0.91)),
		f.ref("second", ok(1.0), ok(1.0)),
	}
	out, err := f.policy().Decide(context.Background(), f.probe, NewSliceIterator(refs))
	require.NoError(t, err)
	require.True(t, out.Matched())
	assert.Equal(t, "first", out.Record.ReferenceID)
	assert.Equal(t, 0.95, out.Record.FingerScore)
	assert.Equal(t, 0.91, out.Record.KnuckleScore)
	assert.True(t, out.Record.Verdict)
	assert.Equal(t, 2, out.Compared)
}

func TestDecideThresholdIsInclusive(t *testing.T) {
	f := newFixture()
	refs := []Reference{f.ref("edge", ok(0.90), ok(0.90))}
	out, err := f.policy().Decide(context.Background(), f.probe, NewSliceIterator(refs))
	require.NoError(t, err)
	assert.Equal(t, StatusMatch, out.Status)
}

func TestDecideNoMatchReportsClosest(t *testing.T) {
	f := newFixture()
	refs := []Reference{
		f.ref("far", ok(0.10), ok(0.20)),
		f.ref("near", ok(0.89), ok(0.95)),
		f.ref("middle", ok(0.60), ok(0.60)),
	}
	out, err := f.policy().Decide(context.Background(), f.probe, NewSliceIterator(refs))
	require.NoError(t, err)
	assert.Equal(t, StatusNoMatch, out.Status)
	require.NotNil(t, out.Record)
	assert.Equal(t, "near", out.Record.ReferenceID)
	assert.False(t, out.Record.Verdict)
	assert.Equal(t, 3, out.Compared)
}

func TestDecideSkipsFailingReferences(t *testing.T) {
	f := newFixture()
	mismatched := f.ref("mismatched", ok(1), ok(1))
	mismatched.Knuckle = primitives.NewByteMatrix(5, 4)
	refs := []Reference{
		f.ref("no-keypoints", result{err: fusion.ErrEmptyKeypointSet}, ok(1)),
		mismatched,
		f.ref("knuckle-fails", ok(1), result{err: errors.New("opencv failure")}),
	}

	out, err := f.policy().Decide(context.Background(), f.probe, NewSliceIterator(refs))
	require.NoError(t, err)
	assert.Equal(t, StatusAllSkipped, out.Status, "nothing was actually compared")
	assert.Equal(t, 3, out.Skipped)
	assert.Nil(t, out.Record)

	refs = append(refs, f.ref("match", ok(0.99), ok(0.97)))
	out, err = f.policy().Decide(context.Background(), f.probe, NewSliceIterator(refs))
	require.NoError(t, err)
	assert.Equal(t, StatusMatch, out.Status)
	assert.Equal(t, "match", out.Record.ReferenceID)
	assert.Equal(t, 3, out.Skipped)
	assert.Equal(t, 1, out.Compared)
}

func TestDecideSingleMatchIsOrderIndependent(t *testing.T) {
	f := newFixture()
	a := f.ref("a", ok(0.3), ok(0.4))
	b := f.ref("b", ok(0.95), ok(0.92))
	c := f.ref("c", ok(0.95), ok(0.10))
	orders := [][]Reference{{a, b, c}, {a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a}}

	for _, order := range orders {
		out, err := f.policy().Decide(context.Background(), f.probe, NewSliceIterator(order))
		require.NoError(t, err)
		assert.Equal(t, StatusMatch, out.Status)
		assert.Equal(t, "b", out.Record.ReferenceID)
	}
}

// The verdict never depends on order, but when two non-matching references tie
// on mean score the reported closest one is whichever came first.
func TestDecideNoMatchTieDependsOnOrder(t *testing.T) {
	f := newFixture()
	x := f.ref("x", ok(0.8), ok(0.6))
	y := f.ref("y", ok(0.6), ok(0.8))

	forward, err := f.policy().Decide(context.Background(), f.probe, NewSliceIterator([]Reference{x, y}))
	require.NoError(t, err)
	backward, err := f.policy().Decide(context.Background(), f.probe, NewSliceIterator([]Reference{y, x}))
	require.NoError(t, err)

	assert.Equal(t, StatusNoMatch, forward.Status)
	assert.Equal(t, forward.Status, backward.Status)
	assert.Equal(t, "x", forward.Record.ReferenceID)
	assert.Equal(t, "y", backward.Record.ReferenceID)
}

func TestDecideHonoursCancellation(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.policy().Decide(ctx, f.probe, NewSliceIterator([]Reference{f.ref("a", ok(1), ok(1))}))
	assert.ErrorIs(t, err, context.Canceled)
}

type failingIterator struct{ err error }

func (it failingIterator) Next(context.Context) (*Reference, error) { return nil, it.err }
func (it failingIterator) Close() error                             { return nil }

func TestDecideAbortsOnIteratorError(t *testing.T) {
	f := newFixture()
	boom := errors.New("cursor lost")
	_, err := f.policy().Decide(context.Background(), f.probe, failingIterator{err: boom})
	assert.ErrorIs(t, err, boom)
}

// nilIterator yields a nil reference n times before ending.
type nilIterator struct{ n int }

func (it *nilIterator) Next(context.Context) (*Reference, error) {
	if it.n == 0 {
		return nil, io.EOF
	}
	it.n--
	return nil, nil
}
func (it *nilIterator) Close() error { return nil }

func TestDecideSkipsNilReference(t *testing.T) {
	f := newFixture()
	out, err := f.policy().Decide(context.Background(), f.probe, &nilIterator{n: 2})
	require.NoError(t, err)
	assert.Equal(t, StatusAllSkipped, out.Status)
	assert.Equal(t, 2, out.Skipped)
	assert.Zero(t, out.Compared)
	assert.Nil(t, out.Record)
}

func TestDecideRejectsInvalidProbe(t *testing.T) {
	f := newFixture()
	_, err := f.policy().Decide(context.Background(), Probe{Finger: f.probe.Finger}, NewSliceIterator(nil))
	assert.ErrorIs(t, err, ErrInvalidProbe)

	_, err = f.policy().Decide(context.Background(),
		Probe{Finger: primitives.NewByteMatrix(0, 0), Knuckle: f.probe.Knuckle}, NewSliceIterator(nil))
	assert.ErrorIs(t, err, ErrInvalidProbe)
}

func TestStatusText(t *testing.T) {
	text, err := StatusNoReferences.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "no_references", string(text))
	assert.Equal(t, "match", StatusMatch.String())
	assert.Equal(t, "all_skipped", StatusAllSkipped.String())
}
