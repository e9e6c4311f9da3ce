package features

import (
	"math"

	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/jtejido/fingerknuckle/primitives"
)

// Region is one 8-connected cluster of set cells.
type Region struct {
	Label  int
	Pixels []Pixel
}

type Pixel struct{ Row, Col int }

// Centroid returns the mean pixel position.
func (r Region) Centroid() (row, col float64) {
	for _, p := range r.Pixels {
		row += float64(p.Row)
		col += float64(p.Col)
	}
	n := float64(len(r.Pixels))
	return row / n, col / n
}

// Center is the centroid rounded half-to-even to the nearest pixel.
func (r Region) Center() Pixel {
	row, col := r.Centroid()
	return Pixel{Row: int(math.RoundToEven(row)), Col: int(math.RoundToEven(col))}
}

// LabelRegions finds the 8-connected components of m. Labels start at 1 and
// follow the raster order of each component's first pixel.
func LabelRegions(m *primitives.BoolMatrix) []Region {
	rows, cols := m.Rows(), m.Cols()
	labels := make([]int, rows*cols)
	var regions []Region

	stack := arraystack.New()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if !m.At(i, j) || labels[i*cols+j] != 0 {
				continue
			}
			region := Region{Label: len(regions) + 1}
			labels[i*cols+j] = region.Label
			stack.Push(Pixel{Row: i, Col: j})

			for !stack.Empty() {
				v, _ := stack.Pop()
				p := v.(Pixel)
				region.Pixels = append(region.Pixels, p)
				for di := -1; di <= 1; di++ {
					for dj := -1; dj <= 1; dj++ {
						r, c := p.Row+di, p.Col+dj
						if !m.Contains(r, c) || !m.At(r, c) || labels[r*cols+c] != 0 {
							continue
						}
						labels[r*cols+c] = region.Label
						stack.Push(Pixel{Row: r, Col: c})
					}
				}
			}
			regions = append(regions, region)
		}
	}
	return regions
}
