package fingerknuckle_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtejido/fingerknuckle"
	"github.com/jtejido/fingerknuckle/primitives"
)

func TestLoadImageFromBytesConvertsToGray(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	src.Set(2, 1, color.RGBA{A: 255})
	src.Set(1, 0, color.RGBA{R: 128, G: 128, B: 128, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img, err := fingerknuckle.LoadImageFromBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 3, img.Width())
	assert.Equal(t, 2, img.Height())
	assert.Equal(t, byte(255), img.Pixels().At(0, 0))
	assert.Equal(t, byte(128), img.Pixels().At(0, 1))
	assert.Equal(t, byte(0), img.Pixels().At(1, 2))
}

func TestLoadImageFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ridge.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, ridgeGray(4)))
	require.NoError(t, f.Close())

	img, err := fingerknuckle.LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, byte(255), img.Pixels().At(12, 4))
	assert.Equal(t, byte(0), img.Pixels().At(13, 4))
}

func TestLoadImageMissingFile(t *testing.T) {
	_, err := fingerknuckle.LoadImage(filepath.Join(t.TempDir(), "nope.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadImageFromBytesUnsupported(t *testing.T) {
	_, err := fingerknuckle.LoadImageFromBytes([]byte("definitely not an image"))
	assert.ErrorIs(t, err, fingerknuckle.ErrUnsupportedImage)
}

func TestNewFromGrayRejectsEmpty(t *testing.T) {
	_, err := fingerknuckle.NewFromGray(image.NewGray(image.Rect(0, 0, 0, 0)))
	assert.ErrorIs(t, err, fingerknuckle.ErrUnsupportedImage)
	_, err = fingerknuckle.NewFromGray(nil)
	assert.ErrorIs(t, err, fingerknuckle.ErrUnsupportedImage)
}

func TestWritePGMRoundTrip(t *testing.T) {
	m, err := primitives.ByteMatrixFromBytes(2, 3, []byte{0, 10, 20, 200, 255, 7})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, fingerknuckle.WritePGM(&buf, m))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("P5")))

	img, err := fingerknuckle.LoadImageFromBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, m.Bytes(), img.Pixels().Bytes())
}
