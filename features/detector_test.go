package features

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtejido/fingerknuckle/primitives"
)

func TestDetectEmptySkeleton(t *testing.T) {
	skeleton := filled(9, 9, false)
	term, bif, err := DetectMinutiae(skeleton, filled(9, 9, true), 2)
	require.NoError(t, err)
	assert.Zero(t, term.Count())
	assert.Zero(t, bif.Count())
}

func TestDetectSingleEndpoint(t *testing.T) {
	term, bif, err := DetectMinutiae(endpointSkeleton(t), filled(11, 11, true), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, term.Count())
	assert.True(t, term.At(5, 5))
	assert.Zero(t, bif.Count())
}

func TestDetectBranch(t *testing.T) {
	term, bif, err := DetectMinutiae(branchSkeleton(t), filled(11, 11, true), 1)
	require.NoError(t, err)
	assert.Zero(t, term.Count())
	assert.Equal(t, 1, bif.Count())
	assert.True(t, bif.At(5, 5))
}

func TestDetectIgnoresBorder(t *testing.T) {
	// (0,1) and (1,0) are endpoints of an isolated diagonal pair but lie on the border.
	skeleton := grid(t,
		".#...",
		"#....",
		".....",
		".....",
		".....",
	)
	term, bif, err := DetectMinutiae(skeleton, filled(5, 5, true), 1)
	require.NoError(t, err)
	assert.Zero(t, term.Count())
	assert.Zero(t, bif.Count())
}

func TestDetectMasksOnlyTerminations(t *testing.T) {
	outside := filled(11, 11, false)

	term, _, err := DetectMinutiae(endpointSkeleton(t), outside, 1)
	require.NoError(t, err)
	assert.Zero(t, term.Count(), "terminations outside the validity mask are dropped")

	_, bif, err := DetectMinutiae(branchSkeleton(t), outside, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, bif.Count(), "bifurcations are not masked")
}

func TestDetectShapeMismatch(t *testing.T) {
	_, _, err := DetectMinutiae(filled(5, 5, false), filled(5, 6, true), 1)
	assert.ErrorIs(t, err, primitives.ErrShapeMismatch)
}

func TestDetectTinyImages(t *testing.T) {
	for _, shape := range [][2]int{{1, 1}, {2, 5}, {5, 2}, {3, 3}} {
		skeleton := filled(shape[0], shape[1], true)
		term, bif, err := DetectMinutiae(skeleton, filled(shape[0], shape[1], true), 4)
		require.NoError(t, err)
		assert.Equal(t, shape[0], term.Rows())
		assert.Zero(t, term.Count()+bif.Count(), "shape %v", shape)
	}
}

func TestDetectWorkerCountDoesNotChangeResult(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	skeleton := primitives.NewBoolMatrix(37, 53)
	validity := primitives.NewBoolMatrix(37, 53)
	for i := 0; i < 37; i++ {
		for j := 0; j < 53; j++ {
			skeleton.Set(i, j, rng.Intn(4) == 0)
			validity.Set(i, j, rng.Intn(3) != 0)
		}
	}

	wantTerm, wantBif, err := DetectMinutiae(skeleton, validity, 1)
	require.NoError(t, err)
	for _, workers := range []int{0, 2, 3, 8, 100} {
		term, bif, err := DetectMinutiae(skeleton, validity, workers)
		require.NoError(t, err)
		assert.Equal(t, wantTerm, term, "workers=%d", workers)
		assert.Equal(t, wantBif, bif, "workers=%d", workers)
	}
}
