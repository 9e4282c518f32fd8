package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/touchline/scoutbase/internal/adapters/repository"
	"github.com/touchline/scoutbase/internal/domain/model"
)

const reportColumns = `id, org_id, player_id, author_id, title, summary,
	strengths, weaknesses, verdict, rating, disclaimer, created_at`

// CreateReport inserts a new scouting report.
func (s *Store) CreateReport(ctx context.Context, r *model.ScoutingReport) error {
	query := `
		INSERT INTO reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.OrgID, r.PlayerID, r.AuthorID, r.Title, r.Summary,
		r.Strengths, r.Weaknesses, r.Verdict, r.Rating, r.Disclaimer, r.CreatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// GetReport returns one report scoped to the organization.
func (s *Store) GetReport(ctx context.Context, orgID, id string) (*model.ScoutingReport, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE org_id = $1 AND id = $2`
	return scanReport(s.db.QueryRowContext(ctx, query, orgID, id))
}

// ListReports returns the organization's reports, optionally narrowed to one
// player, newest first.
func (s *Store) ListReports(ctx context.Context, orgID, playerID string) ([]*model.ScoutingReport, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE org_id = $1`
	args := []any{orgID}
	if playerID != "" {
		query += ` AND player_id = $2`
		args = append(args, playerID)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []*model.ScoutingReport
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}

func scanReport(row rowScanner) (*model.ScoutingReport, error) {
	var r model.ScoutingReport
	err := row.Scan(
		&r.ID, &r.OrgID, &r.PlayerID, &r.AuthorID, &r.Title, &r.Summary,
		&r.Strengths, &r.Weaknesses, &r.Verdict, &r.Rating, &r.Disclaimer, &r.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan report: %w", err)
	}
	return &r, nil
}
