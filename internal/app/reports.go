package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/touchline/scoutbase/internal/adapters/repository"
	"github.com/touchline/scoutbase/internal/auth"
	"github.com/touchline/scoutbase/internal/domain/model"
	"github.com/touchline/scoutbase/internal/domain/plan"
	"github.com/touchline/scoutbase/internal/domain/scoring"
	"github.com/touchline/scoutbase/pkg/metrics"
)

// CreateReport stores a scouting report written by the caller.
func (s *Service) CreateReport(ctx context.Context, id auth.Identity, r *model.ScoutingReport) (*model.ScoutingReport, error) {
	r.OrgID = id.OrgID
	r.AuthorID = id.UserID
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	// The player must exist within the org.
	if _, err := s.GetPlayer(ctx, id, r.PlayerID); err != nil {
		return nil, err
	}

	tier, err := s.orgTier(ctx, id.OrgID)
	if err != nil {
		return nil, err
	}
	if !s.allowQuota(ctx, id.OrgID, plan.QuotaReports, tier) {
		metrics.RecordQuotaDenied(plan.QuotaReports)
		return nil, fmt.Errorf("%w: %s", ErrQuotaExceeded, plan.QuotaReports)
	}

	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()
	if err := s.stores.CreateReport(ctx, r); err != nil {
		return nil, err
	}
	metrics.RecordReportCreated()
	return r, nil
}

// GetReport returns one scouting report of the caller's organization.
func (s *Service) GetReport(ctx context.Context, id auth.Identity, reportID string) (*model.ScoutingReport, error) {
	r, err := s.stores.GetReport(ctx, id.OrgID, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

// ListReports returns the organization's reports, optionally narrowed to one
// player.
func (s *Service) ListReports(ctx context.Context, id auth.Identity, playerID string) ([]*model.ScoutingReport, error) {
	return s.stores.ListReports(ctx, id.OrgID, playerID)
}

// ExportPDF renders a report as a PDF dossier. Gated behind the pdf_export
// feature and the monthly export quota.
func (s *Service) ExportPDF(ctx context.Context, id auth.Identity, reportID string) ([]byte, error) {
	r, err := s.GetReport(ctx, id, reportID)
	if err != nil {
		return nil, err
	}

	tier, err := s.orgTier(ctx, id.OrgID)
	if err != nil {
		return nil, err
	}
	if !plan.Allowed(tier, plan.FeaturePDFExport) {
		metrics.RecordQuotaDenied(string(plan.FeaturePDFExport))
		return nil, fmt.Errorf("%w: %s", ErrFeatureLocked, plan.FeaturePDFExport)
	}
	if !s.allowQuota(ctx, id.OrgID, plan.QuotaPDFExports, tier) {
		metrics.RecordQuotaDenied(plan.QuotaPDFExports)
		return nil, fmt.Errorf("%w: %s", ErrQuotaExceeded, plan.QuotaPDFExports)
	}

	p, err := s.GetPlayer(ctx, id, r.PlayerID)
	if err != nil {
		return nil, err
	}

	var breakdown *scoring.Breakdown
	if b, serr := s.scorer.Score(ctx, p, s.weights); serr == nil {
		breakdown = &b
	}

	out, err := s.renderer.Dossier(r, p, breakdown)
	if err != nil {
		return nil, err
	}
	metrics.RecordPDFExport()
	return out, nil
}

// ExportComparisonPDF renders two or more players as a side-by-side dossier.
// Gated and metered like single-report exports.
func (s *Service) ExportComparisonPDF(ctx context.Context, id auth.Identity, playerIDs []string) ([]byte, error) {
	if len(playerIDs) < 2 {
		return nil, fmt.Errorf("%w: comparison needs at least two players", ErrInvalidInput)
	}

	tier, err := s.orgTier(ctx, id.OrgID)
	if err != nil {
		return nil, err
	}
	if !plan.Allowed(tier, plan.FeaturePDFExport) {
		metrics.RecordQuotaDenied(string(plan.FeaturePDFExport))
		return nil, fmt.Errorf("%w: %s", ErrFeatureLocked, plan.FeaturePDFExport)
	}
	if !s.allowQuota(ctx, id.OrgID, plan.QuotaPDFExports, tier) {
		metrics.RecordQuotaDenied(plan.QuotaPDFExports)
		return nil, fmt.Errorf("%w: %s", ErrQuotaExceeded, plan.QuotaPDFExports)
	}

	players := make([]*model.Player, 0, len(playerIDs))
	breakdowns := make([]*scoring.Breakdown, 0, len(playerIDs))
	for _, playerID := range playerIDs {
		p, err := s.GetPlayer(ctx, id, playerID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
			}
			return nil, err
		}
		players = append(players, p)

		var breakdown *scoring.Breakdown
		if b, serr := s.scorer.Score(ctx, p, s.weights); serr == nil {
			breakdown = &b
		}
		breakdowns = append(breakdowns, breakdown)
	}

	out, err := s.renderer.ComparisonDossier(players, breakdowns)
	if err != nil {
		return nil, err
	}
	metrics.RecordPDFExport()
	return out, nil
}
