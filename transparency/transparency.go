// Package transparency lets callers observe the intermediate products of template
// creation and matching. Each artifact is published under a short key and encoded
// as CBOR.
package transparency

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

const MimeCBOR = "application/cbor"

// Artifact keys published by the extraction and matching stages.
const (
	KeyThreshold             = "threshold"
	KeyBinarizedMask         = "binarized-mask"
	KeySkeleton              = "skeleton"
	KeyValidityMask          = "validity-mask"
	KeyTerminationCandidates = "termination-candidates"
	KeyBifurcationCandidates = "bifurcation-candidates"
	KeyMinutiae              = "minutiae"
	KeyComparison            = "comparison"
)

// Contents receives artifacts. Accepts is consulted first so that expensive
// encodings are skipped for keys nobody wants.
type Contents interface {
	Accepts(key string) bool
	Accept(key, mime string, data []byte) error
}

// Logger routes artifacts to a Contents sink. A nil *Logger discards everything.
type Logger struct {
	contents Contents
	enc      cbor.EncMode
}

func NewLogger(contents Contents) *Logger {
	enc, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		// canonical options are static and always valid
		panic(err)
	}
	return &Logger{contents: contents, enc: enc}
}

func (l *Logger) Accepts(key string) bool {
	return l != nil && l.contents != nil && l.contents.Accepts(key)
}

// Log encodes v and hands it to the sink when the key is accepted.
func (l *Logger) Log(key string, v any) error {
	if !l.Accepts(key) {
		return nil
	}
	data, err := l.enc.Marshal(v)
	if err != nil {
		return fmt.Errorf("transparency %s: %w", key, err)
	}
	return l.contents.Accept(key, MimeCBOR, data)
}

// Grid is the encoded form of a pixel matrix.
type Grid struct {
	Rows   int    `cbor:"rows"`
	Cols   int    `cbor:"cols"`
	Pixels []byte `cbor:"pixels"`
}
