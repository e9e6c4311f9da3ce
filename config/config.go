// Package config holds the tunables for extraction, fusion scoring, the match
// decision and the surrounding services.
//
// Values come from struct-tag defaults, optionally overlaid by a TOML file.
// The package-level Config is what library callers read; LoadDefaultConfig
// resets it.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mcuadros/go-defaults"
)

// Extraction tunes template creation.
type Extraction struct {
	// ValidityErosion is the side of the square structuring element used to
	// shrink the convex hull of the print.
	ValidityErosion   int `toml:"validity_erosion" default:"5"`
	TerminationWindow int `toml:"termination_window" default:"2"`
	BifurcationWindow int `toml:"bifurcation_window" default:"1"`
	// RenderSize is the edge length of the square skeleton image kept in a template.
	RenderSize int `toml:"render_size" default:"800"`
}

type Fusion struct {
	// DistanceThreshold is the exclusive Hamming distance bound for an accepted match.
	DistanceThreshold int `toml:"distance_threshold" default:"50"`
}

type Decision struct {
	FingerThreshold  float64 `toml:"finger_threshold" default:"0.9"`
	KnuckleThreshold float64 `toml:"knuckle_threshold" default:"0.9"`
}

type Store struct {
	Path string `toml:"path" default:"fingerknuckle.db"`
}

type Server struct {
	Address     string `toml:"address" default:":9090"`
	BodyLimitMB int    `toml:"body_limit_mb" default:"16"`
}

type Logging struct {
	Level         string `toml:"level" default:"info"`
	Format        string `toml:"format" default:"auto"`
	Dir           string `toml:"dir"`
	MaxAgeDays    int    `toml:"max_age_days" default:"7"`
	RotationHours int    `toml:"rotation_hours" default:"24"`
}

type Configuration struct {
	// Workers bounds the goroutines used by the row-parallel minutiae scan.
	Workers    int        `toml:"workers" default:"1"`
	Extraction Extraction `toml:"extraction"`
	Fusion     Fusion     `toml:"fusion"`
	Decision   Decision   `toml:"decision"`
	Store      Store      `toml:"store"`
	Server     Server     `toml:"server"`
	Logging    Logging    `toml:"logging"`
}

// Config is the process-wide configuration read by the library entry points.
var Config = Default()

// Default returns a configuration populated from the default tags.
func Default() *Configuration {
	c := new(Configuration)
	defaults.SetDefaults(c)
	return c
}

// LoadDefaultConfig resets Config to defaults, sizing Workers to the host.
func LoadDefaultConfig() {
	c := Default()
	c.Workers = runtime.NumCPU()
	Config = c
}

// Load reads a TOML file over the defaults. An empty path yields the defaults.
func Load(path string) (*Configuration, error) {
	c := Default()
	path = strings.TrimSpace(path)
	if path == "" {
		return c, c.Validate()
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
