package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jtejido/fingerknuckle"
	"github.com/jtejido/fingerknuckle/config"
)

func (s *Server) match(c *fiber.Ctx) error {
	start := time.Now()

	var req MatchRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.ProbeImage == "" || req.CandidateImage == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Both probe_image and candidate_image are required")
	}

	probe, err := s.template("probe_image", req.ProbeImage)
	if err != nil {
		return err
	}
	candidate, err := s.template("candidate_image", req.CandidateImage)
	if err != nil {
		return err
	}

	matcher, err := fingerknuckle.NewMatcher(s.keypoints, nil, probe)
	if err != nil {
		return err
	}
	score, err := matcher.Match(c.UserContext(), candidate)
	if err != nil {
		return err
	}

	threshold := config.Config.Decision.FingerThreshold
	s.logger.Debug("pairwise comparison", "score", score, "threshold", threshold)
	return c.JSON(MatchResponse{
		Score:     score,
		Match:     score >= threshold,
		Threshold: threshold,
		Elapsed:   time.Since(start).String(),
	})
}

func (s *Server) identify(c *fiber.Ctx) error {
	start := time.Now()

	var req IdentifyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if s.gallery == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "no reference store configured")
	}
	finger, err := s.template("finger", req.Finger)
	if err != nil {
		return err
	}
	knuckle, err := s.template("knuckle", req.Knuckle)
	if err != nil {
		return err
	}

	res, err := s.identifier.Identify(c.UserContext(), finger, knuckle, req.enrollOnMiss())
	if err != nil {
		return err
	}
	s.logger.Info("identification finished",
		"status", res.Status,
		"compared", res.Compared,
		"skipped", res.Skipped,
		"enrolled", res.EnrolledID)
	return c.JSON(IdentifyResponse{
		Status:     res.Status,
		Record:     res.Record,
		Compared:   res.Compared,
		Skipped:    res.Skipped,
		EnrolledID: res.EnrolledID,
		Elapsed:    time.Since(start).String(),
	})
}

func (s *Server) enroll(c *fiber.Ctx) error {
	start := time.Now()

	var req EnrollRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if s.gallery == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "no reference store configured")
	}
	finger, err := s.template("finger", req.Finger)
	if err != nil {
		return err
	}
	knuckle, err := s.template("knuckle", req.Knuckle)
	if err != nil {
		return err
	}

	id, err := s.gallery.Enroll(c.UserContext(), finger, knuckle)
	if err != nil {
		return err
	}
	s.logger.Info("reference enrolled", "reference", id)
	return c.Status(fiber.StatusCreated).JSON(EnrollResponse{
		ID:      id,
		Elapsed: time.Since(start).String(),
	})
}

func (s *Server) extract(c *fiber.Ctx) error {
	start := time.Now()

	var req ExtractRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	t, err := s.template("image", req.Image)
	if err != nil {
		return err
	}
	return c.JSON(ExtractResponse{
		Terminations: t.Terminations,
		Bifurcations: t.Bifurcations,
		Discarded:    t.Discarded,
		Elapsed:      time.Since(start).String(),
	})
}
