// Package primitives holds the pixel grids shared by the extraction and matching stages.
// Cells are addressed by (row, col) with (0, 0) at the top-left corner.
package primitives

import (
	"errors"
	"fmt"
	"image"
	"math"
)

var (
	ErrShapeMismatch = errors.New("matrix shapes do not match")
	ErrInvalidShape  = errors.New("matrix dimensions must be positive")
)

// BoolMatrix is a dense row-major grid of flags.
type BoolMatrix struct {
	rows, cols int
	cells      []bool
}

func NewBoolMatrix(rows, cols int) *BoolMatrix {
	return &BoolMatrix{rows: rows, cols: cols, cells: make([]bool, rows*cols)}
}

func (m *BoolMatrix) Rows() int { return m.rows }
func (m *BoolMatrix) Cols() int { return m.cols }

func (m *BoolMatrix) At(row, col int) bool {
	return m.cells[row*m.cols+col]
}

func (m *BoolMatrix) Set(row, col int, v bool) {
	m.cells[row*m.cols+col] = v
}

// Contains reports whether (row, col) lies inside the grid.
func (m *BoolMatrix) Contains(row, col int) bool {
	return row >= 0 && row < m.rows && col >= 0 && col < m.cols
}

func (m *BoolMatrix) SameShape(o *BoolMatrix) bool {
	return o != nil && m.rows == o.rows && m.cols == o.cols
}

// Count returns the number of set cells.
func (m *BoolMatrix) Count() int {
	n := 0
	for _, c := range m.cells {
		if c {
			n++
		}
	}
	return n
}

// And returns the element-wise conjunction of m and o.
func (m *BoolMatrix) And(o *BoolMatrix) (*BoolMatrix, error) {
	if !m.SameShape(o) {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, m.rows, m.cols, o.Rows(), o.Cols())
	}
	out := NewBoolMatrix(m.rows, m.cols)
	for i := range m.cells {
		out.cells[i] = m.cells[i] && o.cells[i]
	}
	return out, nil
}

func (m *BoolMatrix) Clone() *BoolMatrix {
	out := NewBoolMatrix(m.rows, m.cols)
	copy(out.cells, m.cells)
	return out
}

// Bytes renders the matrix as 0/255 bytes in row-major order.
func (m *BoolMatrix) Bytes() []byte {
	out := make([]byte, len(m.cells))
	for i, c := range m.cells {
		if c {
			out[i] = 255
		}
	}
	return out
}

// BoolMatrixFromBytes treats every non-zero byte as a set cell.
func BoolMatrixFromBytes(rows, cols int, data []byte) (*BoolMatrix, error) {
	if err := checkShape(rows, cols); err != nil {
		return nil, err
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrShapeMismatch, len(data), rows, cols)
	}
	m := NewBoolMatrix(rows, cols)
	for i, b := range data {
		m.cells[i] = b != 0
	}
	return m, nil
}

// checkShape rejects non-positive dimensions and those whose cell count
// overflows int.
func checkShape(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return ErrInvalidShape
	}
	if rows > math.MaxInt/cols {
		return fmt.Errorf("%w: %dx%d overflows", ErrInvalidShape, rows, cols)
	}
	return nil
}

// ByteMatrix is a dense row-major grid of 8-bit intensities.
type ByteMatrix struct {
	rows, cols int
	pixels     []byte
}

func NewByteMatrix(rows, cols int) *ByteMatrix {
	return &ByteMatrix{rows: rows, cols: cols, pixels: make([]byte, rows*cols)}
}

// ByteMatrixFromBytes wraps a copy of data, which must hold exactly rows*cols bytes.
func ByteMatrixFromBytes(rows, cols int, data []byte) (*ByteMatrix, error) {
	if err := checkShape(rows, cols); err != nil {
		return nil, err
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrShapeMismatch, len(data), rows, cols)
	}
	m := NewByteMatrix(rows, cols)
	copy(m.pixels, data)
	return m, nil
}

func (m *ByteMatrix) Rows() int { return m.rows }
func (m *ByteMatrix) Cols() int { return m.cols }

func (m *ByteMatrix) At(row, col int) byte {
	return m.pixels[row*m.cols+col]
}

func (m *ByteMatrix) Set(row, col int, v byte) {
	m.pixels[row*m.cols+col] = v
}

func (m *ByteMatrix) SameShape(o *ByteMatrix) bool {
	return o != nil && m.rows == o.rows && m.cols == o.cols
}

// Bytes returns a copy of the pixels in row-major order.
func (m *ByteMatrix) Bytes() []byte {
	out := make([]byte, len(m.pixels))
	copy(out, m.pixels)
	return out
}

// Mean is the average intensity over all pixels.
func (m *ByteMatrix) Mean() float64 {
	if len(m.pixels) == 0 {
		return 0
	}
	var sum uint64
	for _, p := range m.pixels {
		sum += uint64(p)
	}
	return float64(sum) / float64(len(m.pixels))
}

// FromGray copies an image.Gray into a matrix, normalizing its bounds to start at (0, 0).
func FromGray(img *image.Gray) *ByteMatrix {
	b := img.Bounds()
	m := NewByteMatrix(b.Dy(), b.Dx())
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()]
		copy(m.pixels[y*m.cols:], row)
	}
	return m
}

func (m *ByteMatrix) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.cols, m.rows))
	for y := 0; y < m.rows; y++ {
		copy(img.Pix[y*img.Stride:], m.pixels[y*m.cols:(y+1)*m.cols])
	}
	return img
}
