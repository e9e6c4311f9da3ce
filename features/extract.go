package features

import (
	"fmt"

	"github.com/jtejido/fingerknuckle/config"
	"github.com/jtejido/fingerknuckle/primitives"
	"github.com/jtejido/fingerknuckle/transparency"
)

// Extractor runs the full minutiae pipeline for one image at a time.
// It holds configuration only; every call allocates fresh intermediates.
type Extractor struct {
	Morphology      Morphology
	Assembler       Assembler
	Workers         int
	ValidityErosion int
	RenderSize      int
	Transparency    *transparency.Logger
}

// NewExtractor wires an extractor from the configuration.
func NewExtractor(morph Morphology, cfg *config.Configuration, tl *transparency.Logger) *Extractor {
	return &Extractor{
		Morphology: morph,
		Assembler: Assembler{
			TerminationWindow: cfg.Extraction.TerminationWindow,
			BifurcationWindow: cfg.Extraction.BifurcationWindow,
		},
		Workers:         cfg.Workers,
		ValidityErosion: cfg.Extraction.ValidityErosion,
		RenderSize:      cfg.Extraction.RenderSize,
		Transparency:    tl,
	}
}

// Extraction is everything derived from one ridge image.
type Extraction struct {
	Assembly
	Skeleton *primitives.BoolMatrix
	Rendered *primitives.ByteMatrix
}

func (e *Extractor) Extract(img *RidgeImage) (*Extraction, error) {
	if img == nil {
		return nil, ErrInvalidImage
	}
	e.log(transparency.KeyThreshold, img.Threshold())

	binary := img.Binarize()
	e.logGrid(transparency.KeyBinarizedMask, binary)

	skeleton, err := e.Morphology.Skeletonize(binary)
	if err != nil {
		return nil, fmt.Errorf("skeletonize: %w", err)
	}
	if !skeleton.SameShape(binary) {
		return nil, fmt.Errorf("skeletonize: %w", primitives.ErrShapeMismatch)
	}
	e.logGrid(transparency.KeySkeleton, skeleton)

	validity, err := ValidityMask(e.Morphology, binary, e.ValidityErosion)
	if err != nil {
		return nil, err
	}
	e.logGrid(transparency.KeyValidityMask, validity)

	term, bif, err := DetectMinutiae(skeleton, validity, e.Workers)
	if err != nil {
		return nil, err
	}
	e.logGrid(transparency.KeyTerminationCandidates, term)
	e.logGrid(transparency.KeyBifurcationCandidates, bif)

	assembly, err := e.Assembler.Assemble(skeleton, term, bif)
	if err != nil {
		return nil, err
	}
	e.log(transparency.KeyMinutiae, assembly)

	size := e.RenderSize
	if size < 1 {
		size = config.Default().Extraction.RenderSize
	}
	return &Extraction{
		Assembly: assembly,
		Skeleton: skeleton,
		Rendered: Render(skeleton, size),
	}, nil
}

// Transparency failures never fail extraction.
func (e *Extractor) log(key string, v any) {
	_ = e.Transparency.Log(key, v)
}

func (e *Extractor) logGrid(key string, m *primitives.BoolMatrix) {
	if !e.Transparency.Accepts(key) {
		return
	}
	e.log(key, transparency.Grid{Rows: m.Rows(), Cols: m.Cols(), Pixels: m.Bytes()})
}
