package opencv

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"

	"github.com/jtejido/fingerknuckle/primitives"
)

// Morphology thins with Zhang-Suen, fills convex hulls and erodes with square kernels.
type Morphology struct{}

func (Morphology) Skeletonize(mask *primitives.BoolMatrix) (*primitives.BoolMatrix, error) {
	src, err := maskToMat(mask)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	contrib.Thinning(src, &dst, contrib.ThinningZhangSuen)
	if dst.Empty() {
		return nil, fmt.Errorf("thinning produced no output")
	}
	return matToMask(dst)
}

// ConvexHull returns the filled convex hull of all set cells. An empty mask
// has an empty hull.
func (Morphology) ConvexHull(mask *primitives.BoolMatrix) (*primitives.BoolMatrix, error) {
	out := primitives.NewBoolMatrix(mask.Rows(), mask.Cols())
	if mask.Count() == 0 {
		return out, nil
	}
	src, err := maskToMat(mask)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	points := gocv.NewMat()
	defer points.Close()
	gocv.FindNonZero(src, &points)

	hull := gocv.NewMat()
	defer hull.Close()
	gocv.ConvexHull(points, &hull, false, true)

	polygon := make([]image.Point, 0, hull.Rows())
	for i := 0; i < hull.Rows(); i++ {
		v := hull.GetVeciAt(i, 0)
		polygon = append(polygon, image.Pt(int(v[0]), int(v[1])))
	}

	canvas := gocv.Zeros(mask.Rows(), mask.Cols(), gocv.MatTypeCV8UC1)
	defer canvas.Close()
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{polygon})
	defer pv.Close()
	gocv.FillPoly(&canvas, pv, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	// keep every input cell even where rasterization of the hull edge misses it
	filled, err := matToMask(canvas)
	if err != nil {
		return nil, err
	}
	for i := 0; i < mask.Rows(); i++ {
		for j := 0; j < mask.Cols(); j++ {
			out.Set(i, j, filled.At(i, j) || mask.At(i, j))
		}
	}
	return out, nil
}

func (Morphology) Erode(mask *primitives.BoolMatrix, size int) (*primitives.BoolMatrix, error) {
	if size < 1 {
		return nil, fmt.Errorf("erode: structuring element size %d", size)
	}
	src, err := maskToMat(mask)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(size, size))
	defer kernel.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Erode(src, &dst, kernel)
	return matToMask(dst)
}
