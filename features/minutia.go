package features

import (
	"fmt"
	"math"
)

type Kind int

const (
	Termination Kind = iota + 1
	Bifurcation
)

func (k Kind) String() string {
	switch k {
	case Termination:
		return "termination"
	case Bifurcation:
		return "bifurcation"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case Termination, Bifurcation:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("unknown minutia kind %d", int(k))
}

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "termination":
		*k = Termination
	case "bifurcation":
		*k = Bifurcation
	default:
		return fmt.Errorf("unknown minutia kind %q", b)
	}
	return nil
}

// Orientation holds the ridge directions leaving a minutia, in degrees.
// A termination carries one angle, a bifurcation three. An empty Angles
// marks an orientation that could not be determined.
type Orientation struct {
	Angles []float64 `json:"angles,omitempty" cbor:"angles,omitempty"`
}

// Ambiguous is the orientation of a minutia whose window ring had an
// unexpected number of ridge crossings.
var Ambiguous = Orientation{}

func (o Orientation) IsAmbiguous() bool { return len(o.Angles) == 0 }

// Angle returns the first direction; ok is false for an ambiguous orientation.
func (o Orientation) Angle() (angle float64, ok bool) {
	if o.IsAmbiguous() {
		return math.NaN(), false
	}
	return o.Angles[0], true
}

func (o Orientation) String() string {
	if o.IsAmbiguous() {
		return "ambiguous"
	}
	return fmt.Sprintf("%.2f", o.Angles)
}

// Minutia is a termination or bifurcation located at an integer pixel.
type Minutia struct {
	Row         int         `json:"row" cbor:"row"`
	Col         int         `json:"col" cbor:"col"`
	Orientation Orientation `json:"orientation" cbor:"orientation"`
	Kind        Kind        `json:"kind" cbor:"kind"`
}

// FeatureSet lists minutiae in region-labeling order.
type FeatureSet []Minutia

// Assembly is the output of the feature assembler.
type Assembly struct {
	Terminations FeatureSet `json:"terminations" cbor:"terminations"`
	Bifurcations FeatureSet `json:"bifurcations" cbor:"bifurcations"`
	// Discarded counts candidate regions whose window crossed the image border.
	Discarded int `json:"discarded" cbor:"discarded"`
}
