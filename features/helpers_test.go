package features

import (
	"testing"

	"github.com/jtejido/fingerknuckle/primitives"
)

// grid builds a matrix from rows of '#' (set) and '.' (clear).
func grid(t *testing.T, rows ...string) *primitives.BoolMatrix {
	t.Helper()
	m := primitives.NewBoolMatrix(len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != m.Cols() {
			t.Fatalf("row %d has %d cells, want %d", i, len(row), m.Cols())
		}
		for j, c := range row {
			m.Set(i, j, c == '#')
		}
	}
	return m
}

func filled(rows, cols int, v bool) *primitives.BoolMatrix {
	m := primitives.NewBoolMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, v)
		}
	}
	return m
}

// endpointSkeleton has one ridge running from the top border down to (5,5).
func endpointSkeleton(t *testing.T) *primitives.BoolMatrix {
	return grid(t,
		".....#.....",
		".....#.....",
		".....#.....",
		".....#.....",
		".....#.....",
		".....#.....",
		"...........",
		"...........",
		"...........",
		"...........",
		"...........",
	)
}

// branchSkeleton is a Y whose arms all reach the border, branching at (5,5).
func branchSkeleton(t *testing.T) *primitives.BoolMatrix {
	return grid(t,
		".....#.....",
		".....#.....",
		".....#.....",
		".....#.....",
		".....#.....",
		".....#.....",
		"....#.#....",
		"...#...#...",
		"..#.....#..",
		".#.......#.",
		"#.........#",
	)
}

// fakeMorphology treats the binarized mask as already thin.
type fakeMorphology struct {
	hullCalls   int
	erodeSizes  []int
	skeletonErr error
}

func (f *fakeMorphology) Skeletonize(mask *primitives.BoolMatrix) (*primitives.BoolMatrix, error) {
	if f.skeletonErr != nil {
		return nil, f.skeletonErr
	}
	return mask.Clone(), nil
}

func (f *fakeMorphology) ConvexHull(mask *primitives.BoolMatrix) (*primitives.BoolMatrix, error) {
	f.hullCalls++
	return filled(mask.Rows(), mask.Cols(), true), nil
}

func (f *fakeMorphology) Erode(mask *primitives.BoolMatrix, size int) (*primitives.BoolMatrix, error) {
	f.erodeSizes = append(f.erodeSizes, size)
	return mask.Clone(), nil
}
