package features

import (
	"math"

	"github.com/jtejido/fingerknuckle/primitives"
)

// Window radii used by Assemble.
const (
	TerminationWindow = 2
	BifurcationWindow = 1
)

// Assembler turns candidate maps into minutiae.
type Assembler struct {
	TerminationWindow int
	BifurcationWindow int
}

// DefaultAssembler uses a 5x5 window for terminations and 3x3 for bifurcations.
var DefaultAssembler = Assembler{TerminationWindow: TerminationWindow, BifurcationWindow: BifurcationWindow}

// Assemble labels each candidate map and emits one minutia per region.
// Regions whose window would leave the skeleton are dropped and counted.
func (a Assembler) Assemble(skeleton, term, bif *primitives.BoolMatrix) (Assembly, error) {
	if !skeleton.SameShape(term) || !skeleton.SameShape(bif) {
		return Assembly{}, primitives.ErrShapeMismatch
	}
	var out Assembly
	var dropped int
	out.Terminations, dropped = a.collect(skeleton, term, Termination, a.TerminationWindow)
	out.Discarded += dropped
	out.Bifurcations, dropped = a.collect(skeleton, bif, Bifurcation, a.BifurcationWindow)
	out.Discarded += dropped
	return out, nil
}

func (a Assembler) collect(skeleton, candidates *primitives.BoolMatrix, kind Kind, radius int) (FeatureSet, int) {
	regions := LabelRegions(candidates)
	set := make(FeatureSet, 0, len(regions))
	dropped := 0
	for _, region := range regions {
		center := region.Center()
		block, err := window(skeleton, center, radius)
		if err != nil {
			dropped++
			continue
		}
		set = append(set, Minutia{
			Row:         center.Row,
			Col:         center.Col,
			Orientation: orientation(block, kind),
			Kind:        kind,
		})
	}
	return set, dropped
}

// window copies the (2r+1)x(2r+1) block around center.
func window(skeleton *primitives.BoolMatrix, center Pixel, radius int) (*primitives.BoolMatrix, error) {
	top, left := center.Row-radius, center.Col-radius
	size := 2*radius + 1
	if !skeleton.Contains(top, left) || !skeleton.Contains(top+size-1, left+size-1) {
		return nil, ErrWindowOutOfBounds
	}
	block := primitives.NewBoolMatrix(size, size)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			block.Set(i, j, skeleton.At(top+i, left+j))
		}
	}
	return block, nil
}

// orientation scans the outer ring of block. A termination is valid with
// exactly one ridge crossing, a bifurcation with exactly three.
func orientation(block *primitives.BoolMatrix, kind Kind) Orientation {
	size := block.Rows()
	center := float64(size-1) / 2
	var angles []float64
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			onRing := i == 0 || i == size-1 || j == 0 || j == size-1
			if !onRing || !block.At(i, j) {
				continue
			}
			rad := math.Atan2(float64(i)-center, float64(j)-center)
			angles = append(angles, -rad*180/math.Pi)
		}
	}
	want := 1
	if kind == Bifurcation {
		want = 3
	}
	if len(angles) != want {
		return Ambiguous
	}
	return Orientation{Angles: angles}
}
