package server

import (
	"github.com/jtejido/fingerknuckle/decision"
	"github.com/jtejido/fingerknuckle/features"
)

// Images are base64 strings, optionally carrying a data URI prefix.

type MatchRequest struct {
	ProbeImage     string `json:"probe_image"`
	CandidateImage string `json:"candidate_image"`
}

type MatchResponse struct {
	Score     float64 `json:"score"`
	Match     bool    `json:"is_match"`
	Threshold float64 `json:"threshold"`
	Elapsed   string  `json:"elapsed,omitempty"`
	Error     string  `json:"error,omitempty"`
}

type IdentifyRequest struct {
	Finger  string `json:"finger"`
	Knuckle string `json:"knuckle"`
	// Enroll adds the pair to the store when no reference matches. It
	// defaults to true when omitted, as in the CLI.
	Enroll *bool `json:"enroll,omitempty"`
}

func (r IdentifyRequest) enrollOnMiss() bool {
	return r.Enroll == nil || *r.Enroll
}

type IdentifyResponse struct {
	Status     decision.Status       `json:"status"`
	Record     *decision.MatchRecord `json:"record,omitempty"`
	Compared   int                   `json:"compared"`
	Skipped    int                   `json:"skipped"`
	EnrolledID string                `json:"enrolled_id,omitempty"`
	Elapsed    string                `json:"elapsed,omitempty"`
}

type EnrollRequest struct {
	Finger  string `json:"finger"`
	Knuckle string `json:"knuckle"`
}

type EnrollResponse struct {
	ID      string `json:"id"`
	Elapsed string `json:"elapsed,omitempty"`
}

type ExtractRequest struct {
	Image string `json:"image"`
}

type ExtractResponse struct {
	Terminations features.FeatureSet `json:"terminations"`
	Bifurcations features.FeatureSet `json:"bifurcations"`
	Discarded    int                 `json:"discarded"`
	Elapsed      string              `json:"elapsed,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
