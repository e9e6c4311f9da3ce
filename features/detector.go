package features

import (
	"fmt"
	"sync"

	"github.com/jtejido/fingerknuckle/primitives"
)

const (
	terminationSum = 2 // center plus one neighbour
	bifurcationSum = 4 // center plus three neighbours
)

// DetectMinutiae classifies interior skeleton pixels by the sum of their 3x3
// block. Border rows and columns are never candidates. The termination map is
// restricted to the validity mask; the bifurcation map is returned unmasked.
//
// Rows are split across up to workers goroutines. Each goroutine owns a
// contiguous band of rows, so the result does not depend on scheduling.
func DetectMinutiae(skeleton, validity *primitives.BoolMatrix, workers int) (term, bif *primitives.BoolMatrix, err error) {
	if !skeleton.SameShape(validity) {
		return nil, nil, fmt.Errorf("validity mask: %w", primitives.ErrShapeMismatch)
	}
	rows, cols := skeleton.Rows(), skeleton.Cols()
	term = primitives.NewBoolMatrix(rows, cols)
	bif = primitives.NewBoolMatrix(rows, cols)

	interior := rows - 2
	if interior <= 0 || cols < 3 {
		return term, bif, nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > interior {
		workers = interior
	}

	band := (interior + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 1; start <= rows-2; start += band {
		end := min(start+band, rows-1)
		wg.Add(1)
		go func(from, to int) {
			defer wg.Done()
			scanRows(skeleton, term, bif, from, to)
		}(start, end)
	}
	wg.Wait()

	term, err = term.And(validity)
	if err != nil {
		return nil, nil, err
	}
	return term, bif, nil
}

func scanRows(skeleton, term, bif *primitives.BoolMatrix, from, to int) {
	cols := skeleton.Cols()
	for i := from; i < to; i++ {
		for j := 1; j < cols-1; j++ {
			if !skeleton.At(i, j) {
				continue
			}
			switch blockSum(skeleton, i, j) {
			case terminationSum:
				term.Set(i, j, true)
			case bifurcationSum:
				bif.Set(i, j, true)
			}
		}
	}
}

func blockSum(m *primitives.BoolMatrix, i, j int) int {
	sum := 0
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			if m.At(i+di, j+dj) {
				sum++
			}
		}
	}
	return sum
}
