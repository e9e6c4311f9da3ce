package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jtejido/fingerknuckle"
	"github.com/jtejido/fingerknuckle/config"
	"github.com/jtejido/fingerknuckle/logging"
	"github.com/jtejido/fingerknuckle/opencv"
	"github.com/jtejido/fingerknuckle/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Configuration
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the configuration once and installs it as config.Config,
// which the library entry points read.
func (c *commandContext) ensureConfig() (*config.Configuration, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		config.Config = cfg
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
		if c.loggerErr == nil {
			slog.SetDefault(c.logger)
		}
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openStore(ctx context.Context) (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open reference store: %w", err)
	}
	return s, nil
}

func (c *commandContext) templateCreator() *fingerknuckle.TemplateCreator {
	return fingerknuckle.NewTemplateCreator(opencv.Morphology{}, nil)
}

// template loads one image from disk and extracts its template.
func (c *commandContext) template(tc *fingerknuckle.TemplateCreator, path string) (*fingerknuckle.Template, error) {
	img, err := fingerknuckle.LoadImage(path)
	if err != nil {
		return nil, err
	}
	t, err := tc.Template(img)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	return t, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
