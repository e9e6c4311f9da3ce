package fingerknuckle_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtejido/fingerknuckle"
	"github.com/jtejido/fingerknuckle/decision"
	"github.com/jtejido/fingerknuckle/logging"
	"github.com/jtejido/fingerknuckle/store"
)

func newIdentifier(t *testing.T) (*fingerknuckle.Identifier, *store.Store) {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return fingerknuckle.NewIdentifier(digestKeypoints{}, s, nil, logging.Discard()), s
}

func TestIdentifyEnrollsOnMissThenMatches(t *testing.T) {
	id, s := newIdentifier(t)
	ctx := context.Background()
	finger, knuckle := ridgeTemplate(t, 10), ridgeTemplate(t, 5)

	first, err := id.Identify(ctx, finger, knuckle, true)
	require.NoError(t, err)
	assert.Equal(t, decision.StatusNoReferences, first.Status)
	assert.Nil(t, first.Record)
	require.NotEmpty(t, first.EnrolledID)

	second, err := id.Identify(ctx, finger, knuckle, true)
	require.NoError(t, err)
	require.True(t, second.Matched())
	assert.Equal(t, first.EnrolledID, second.Record.ReferenceID)
	assert.Empty(t, second.EnrolledID)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIdentifyWithoutEnrollment(t *testing.T) {
	id, s := newIdentifier(t)
	ctx := context.Background()

	_, err := s.Enroll(ctx, ridgeTemplate(t, 10), ridgeTemplate(t, 5))
	require.NoError(t, err)

	res, err := id.Identify(ctx, ridgeTemplate(t, 10), ridgeTemplate(t, 15), false)
	require.NoError(t, err)
	assert.Equal(t, decision.StatusNoMatch, res.Status)
	require.NotNil(t, res.Record)
	assert.Equal(t, 1.0, res.Record.FingerScore)
	assert.Zero(t, res.Record.KnuckleScore)
	assert.Empty(t, res.EnrolledID)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIdentifyRejectsMissingTemplate(t *testing.T) {
	id, _ := newIdentifier(t)
	_, err := id.Identify(context.Background(), ridgeTemplate(t, 10), nil, true)
	assert.ErrorIs(t, err, decision.ErrInvalidProbe)
}
