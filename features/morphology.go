package features

import (
	"fmt"

	"github.com/jtejido/fingerknuckle/primitives"
)

// Morphology supplies the binary-image primitives the extractor relies on.
// Implementations must return matrices with the shape of their input.
type Morphology interface {
	// Skeletonize thins a ridge mask to one-pixel-wide connected lines.
	Skeletonize(mask *primitives.BoolMatrix) (*primitives.BoolMatrix, error)
	// ConvexHull fills the convex hull of the set cells.
	ConvexHull(mask *primitives.BoolMatrix) (*primitives.BoolMatrix, error)
	// Erode erodes with a size x size square structuring element.
	Erode(mask *primitives.BoolMatrix, size int) (*primitives.BoolMatrix, error)
}

// ValidityMask is the eroded convex hull of the ridge mask.
func ValidityMask(morph Morphology, binary *primitives.BoolMatrix, erosion int) (*primitives.BoolMatrix, error) {
	hull, err := morph.ConvexHull(binary)
	if err != nil {
		return nil, fmt.Errorf("convex hull: %w", err)
	}
	if !hull.SameShape(binary) {
		return nil, fmt.Errorf("convex hull: %w", primitives.ErrShapeMismatch)
	}
	eroded, err := morph.Erode(hull, erosion)
	if err != nil {
		return nil, fmt.Errorf("erode: %w", err)
	}
	if !eroded.SameShape(binary) {
		return nil, fmt.Errorf("erode: %w", primitives.ErrShapeMismatch)
	}
	return eroded, nil
}
