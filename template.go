package fingerknuckle

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/jtejido/fingerknuckle/config"
	"github.com/jtejido/fingerknuckle/features"
	"github.com/jtejido/fingerknuckle/primitives"
	"github.com/jtejido/fingerknuckle/transparency"
)

const templateFormatVersion = 1

var ErrInvalidTemplate = errors.New("invalid template")

// Template is the processed form of one print: its minutiae plus the rendered
// skeleton image used for fusion scoring.
type Template struct {
	Terminations features.FeatureSet
	Bifurcations features.FeatureSet
	// Discarded counts minutiae dropped because their window crossed the border.
	Discarded int
	Rendered  *primitives.ByteMatrix
}

type TransparencyLogger = transparency.Logger

func NewTransparencyLogger(contents transparency.Contents) *TransparencyLogger {
	return transparency.NewLogger(contents)
}

type TemplateCreator struct {
	extractor *features.Extractor
}

// NewTemplateCreator reads config.Config at construction time.
func NewTemplateCreator(morph features.Morphology, logger *TransparencyLogger) *TemplateCreator {
	return &TemplateCreator{extractor: features.NewExtractor(morph, config.Config, logger)}
}

func (tc *TemplateCreator) Template(img *Image) (*Template, error) {
	if img == nil {
		return nil, features.ErrInvalidImage
	}
	ridge, err := features.NewRidgeImage(img.Pixels())
	if err != nil {
		return nil, err
	}
	ext, err := tc.extractor.Extract(ridge)
	if err != nil {
		return nil, fmt.Errorf("extract minutiae: %w", err)
	}
	return &Template{
		Terminations: ext.Terminations,
		Bifurcations: ext.Bifurcations,
		Discarded:    ext.Discarded,
		Rendered:     ext.Rendered,
	}, nil
}

type templateWire struct {
	Version      int                 `cbor:"v"`
	Rows         int                 `cbor:"rows"`
	Cols         int                 `cbor:"cols"`
	Pixels       []byte              `cbor:"pixels"`
	Terminations features.FeatureSet `cbor:"terminations"`
	Bifurcations features.FeatureSet `cbor:"bifurcations"`
	Discarded    int                 `cbor:"discarded"`
}

func (t *Template) MarshalBinary() ([]byte, error) {
	if t.Rendered == nil {
		return nil, fmt.Errorf("%w: missing rendered image", ErrInvalidTemplate)
	}
	return cbor.Marshal(templateWire{
		Version:      templateFormatVersion,
		Rows:         t.Rendered.Rows(),
		Cols:         t.Rendered.Cols(),
		Pixels:       t.Rendered.Bytes(),
		Terminations: t.Terminations,
		Bifurcations: t.Bifurcations,
		Discarded:    t.Discarded,
	})
}

func (t *Template) UnmarshalBinary(data []byte) error {
	var w templateWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	if w.Version != templateFormatVersion {
		return fmt.Errorf("%w: format version %d", ErrInvalidTemplate, w.Version)
	}
	rendered, err := primitives.ByteMatrixFromBytes(w.Rows, w.Cols, w.Pixels)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	*t = Template{
		Terminations: w.Terminations,
		Bifurcations: w.Bifurcations,
		Discarded:    w.Discarded,
		Rendered:     rendered,
	}
	return nil
}

// ParseTemplate decodes the output of Template.MarshalBinary.
func ParseTemplate(data []byte) (*Template, error) {
	t := new(Template)
	if err := t.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return t, nil
}
