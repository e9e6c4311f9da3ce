// Package server exposes template extraction, pairwise matching and
// identification over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/jtejido/fingerknuckle"
	"github.com/jtejido/fingerknuckle/config"
	"github.com/jtejido/fingerknuckle/decision"
	"github.com/jtejido/fingerknuckle/features"
	"github.com/jtejido/fingerknuckle/fusion"
)

// Gallery is the reference store behind /identify and /enroll.
type Gallery interface {
	fingerknuckle.Gallery
	Count(ctx context.Context) (int, error)
}

type Options struct {
	Morphology features.Morphology
	Keypoints  fusion.Capability
	Gallery    Gallery
	Logger     *slog.Logger
	// AccessLog receives the HTTP access log; stdout when nil.
	AccessLog io.Writer
}

type Server struct {
	app        *fiber.App
	creator    *fingerknuckle.TemplateCreator
	keypoints  fusion.Capability
	gallery    Gallery
	identifier *fingerknuckle.Identifier
	logger     *slog.Logger
}

// New builds the application. Extraction and decision thresholds are read
// from config.Config here.
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		creator:    fingerknuckle.NewTemplateCreator(opts.Morphology, nil),
		keypoints:  opts.Keypoints,
		gallery:    opts.Gallery,
		identifier: fingerknuckle.NewIdentifier(opts.Keypoints, opts.Gallery, nil, log),
		logger:     log,
	}

	s.app = fiber.New(fiber.Config{
		BodyLimit:             config.Config.Server.BodyLimitMB * 1024 * 1024,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	accessLog := logger.Config{}
	if opts.AccessLog != nil {
		accessLog.Output = opts.AccessLog
	}
	s.app.Use(logger.New(accessLog))
	s.app.Use(cors.New())

	s.app.Get("/health", s.health)
	s.app.Post("/match", s.match)
	s.app.Post("/identify", s.identify)
	s.app.Post("/enroll", s.enroll)
	s.app.Post("/extract", s.extract)
	return s
}

// App exposes the fiber application, mainly for app.Test.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen(addr string) error {
	if addr == "" {
		addr = config.Config.Server.Address
	}
	s.logger.Info("server starting", "address", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, features.ErrInvalidImage),
		errors.Is(err, decision.ErrInvalidProbe),
		errors.Is(err, fingerknuckle.ErrInvalidTemplate):
		code = fiber.StatusBadRequest
	case errors.Is(err, fingerknuckle.ErrUnsupportedImage):
		code = fiber.StatusUnsupportedMediaType
	case errors.Is(err, fusion.ErrEmptyKeypointSet):
		code = fiber.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		code = fiber.StatusServiceUnavailable
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "error", err)
	} else {
		s.logger.Warn("request rejected", "path", c.Path(), "status", code, "error", err)
	}
	return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
}

func (s *Server) health(c *fiber.Ctx) error {
	body := fiber.Map{
		"status": "ok",
		"time":   time.Now(),
	}
	if s.gallery != nil {
		n, err := s.gallery.Count(c.UserContext())
		if err != nil {
			return err
		}
		body["references"] = n
	}
	return c.JSON(body)
}

// template decodes a base64 image and runs it through extraction.
func (s *Server) template(field, payload string) (*fingerknuckle.Template, error) {
	img, err := decodeImage(field, payload)
	if err != nil {
		return nil, err
	}
	return s.creator.Template(img)
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	return nil
}
