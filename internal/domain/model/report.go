package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Scouting report rating bounds (1-10, scout's overall verdict).
const (
	MinReportRating = 1
	MaxReportRating = 10
)

// ScoutingReport is a scout's written assessment of one player.
type ScoutingReport struct {
	ID       string `json:"id"`
	OrgID    string `json:"org_id"`
	PlayerID string `json:"player_id"`
	AuthorID string `json:"author_id"`

	Title      string `json:"title"`
	Summary    string `json:"summary"`
	Strengths  string `json:"strengths"`
	Weaknesses string `json:"weaknesses"`
	Verdict    string `json:"verdict"`
	Rating     int    `json:"rating"`

	// Disclaimer is printed on the dossier when present.
	Disclaimer string `json:"disclaimer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the report for storable values.
func (r *ScoutingReport) Validate() error {
	switch {
	case r.PlayerID == "":
		return errors.New("missing player_id")
	case strings.TrimSpace(r.Title) == "":
		return errors.New("missing title")
	case strings.TrimSpace(r.Summary) == "":
		return errors.New("missing summary")
	case r.Rating < MinReportRating || r.Rating > MaxReportRating:
		return fmt.Errorf("rating %d out of range [%d,%d]", r.Rating, MinReportRating, MaxReportRating)
	}
	return nil
}
