package opencv

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/jtejido/fingerknuckle/primitives"
)

// maskToMat copies a mask into a CV_8UC1 Mat holding 0/255.
func maskToMat(m *primitives.BoolMatrix) (gocv.Mat, error) {
	mat, err := gocv.NewMatFromBytes(m.Rows(), m.Cols(), gocv.MatTypeCV8UC1, m.Bytes())
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("mask to mat: %w", err)
	}
	return mat, nil
}

func matToMask(mat gocv.Mat) (*primitives.BoolMatrix, error) {
	return primitives.BoolMatrixFromBytes(mat.Rows(), mat.Cols(), mat.ToBytes())
}

func grayToMat(m *primitives.ByteMatrix) (gocv.Mat, error) {
	mat, err := gocv.NewMatFromBytes(m.Rows(), m.Cols(), gocv.MatTypeCV8UC1, m.Bytes())
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("gray to mat: %w", err)
	}
	return mat, nil
}
