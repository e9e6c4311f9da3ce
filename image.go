package fingerknuckle

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	wsq "github.com/jtejido/go-wsq"
	"github.com/spakin/netpbm"
	_ "golang.org/x/image/bmp"

	"github.com/jtejido/fingerknuckle/primitives"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

// Image is an 8-bit grayscale print.
type Image struct {
	pixels *primitives.ByteMatrix
}

func (i *Image) Width() int                      { return i.pixels.Cols() }
func (i *Image) Height() int                     { return i.pixels.Rows() }
func (i *Image) Pixels() *primitives.ByteMatrix { return i.pixels }

// LoadImage reads a print from disk. WSQ files are recognised by extension;
// everything else goes through the registered image decoders (PNG, JPEG, GIF,
// BMP and the netpbm family).
func LoadImage(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".wsq") {
		img, err := wsq.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode wsq %s: %w", path, err)
		}
		return NewFromImage(img)
	}
	return decode(f)
}

// LoadImageFromBytes decodes an in-memory print, falling back to WSQ when no
// registered decoder recognises the data.
func LoadImageFromBytes(data []byte) (*Image, error) {
	img, err := decode(bytes.NewReader(data))
	if err == nil || !errors.Is(err, ErrUnsupportedImage) {
		return img, err
	}
	decoded, wsqErr := wsq.Decode(bytes.NewReader(data))
	if wsqErr != nil {
		return nil, err
	}
	return NewFromImage(decoded)
}

func decode(r io.Reader) (*Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
		}
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return NewFromImage(img)
}

// NewFromImage converts any image to grayscale.
func NewFromImage(img image.Image) (*Image, error) {
	if g, ok := img.(*image.Gray); ok {
		return NewFromGray(g)
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return NewFromGray(gray)
}

func NewFromGray(img *image.Gray) (*Image, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrUnsupportedImage)
	}
	return &Image{pixels: primitives.FromGray(img)}, nil
}

// WritePGM writes a matrix as a binary PGM file.
func WritePGM(w io.Writer, m *primitives.ByteMatrix) error {
	return netpbm.Encode(w, m.ToGray(), &netpbm.EncodeOptions{
		Format:   netpbm.PGM,
		MaxValue: 255,
		Comments: []string{"fingerknuckle skeleton"},
	})
}
