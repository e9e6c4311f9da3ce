package config

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalid = errors.New("invalid configuration")

// Validate reports the first out-of-range value.
func (c *Configuration) Validate() error {
	switch {
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	case c.Extraction.ValidityErosion < 1:
		return fmt.Errorf("%w: extraction.validity_erosion must be positive", ErrInvalid)
	case c.Extraction.TerminationWindow < 1 || c.Extraction.BifurcationWindow < 1:
		return fmt.Errorf("%w: extraction windows must be positive", ErrInvalid)
	case c.Extraction.RenderSize < 1:
		return fmt.Errorf("%w: extraction.render_size must be positive", ErrInvalid)
	case c.Fusion.DistanceThreshold < 0:
		return fmt.Errorf("%w: fusion.distance_threshold must not be negative", ErrInvalid)
	case !unit(c.Decision.FingerThreshold) || !unit(c.Decision.KnuckleThreshold):
		return fmt.Errorf("%w: decision thresholds must lie in [0, 1]", ErrInvalid)
	case c.Server.BodyLimitMB < 1:
		return fmt.Errorf("%w: server.body_limit_mb must be positive", ErrInvalid)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalid, c.Logging.Format)
	}
	return nil
}

func unit(v float64) bool { return v >= 0 && v <= 1 }
