package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/touchline/scoutbase/internal/adapters/repository"
	"github.com/touchline/scoutbase/internal/domain/model"
)

// AppendAudit records one admin action.
func (s *Store) AppendAudit(ctx context.Context, e *model.AuditEntry) error {
	fields, err := json.Marshal(e.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	query := `
		INSERT INTO audit_log (id, org_id, actor_id, action, target_type, target_id, fields, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		e.ID, e.OrgID, e.ActorID, e.Action, e.TargetType, e.TargetID, fields, e.Details, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListAudit returns the organization's newest audit entries, up to limit.
// A non-positive limit returns everything.
func (s *Store) ListAudit(ctx context.Context, orgID string, limit int) ([]*model.AuditEntry, error) {
	query := `
		SELECT id, org_id, actor_id, action, target_type, target_id, fields, details, created_at
		FROM audit_log WHERE org_id = $1 ORDER BY created_at DESC, id
	`
	args := []any{orgID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*model.AuditEntry
	for rows.Next() {
		var (
			e      model.AuditEntry
			fields []byte
		)
		if err := rows.Scan(
			&e.ID, &e.OrgID, &e.ActorID, &e.Action, &e.TargetType, &e.TargetID, &fields, &e.Details, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if err := json.Unmarshal(fields, &e.Fields); err != nil {
			return nil, fmt.Errorf("unmarshal fields: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

// CreateCheckoutSession inserts a pending checkout session.
func (s *Store) CreateCheckoutSession(ctx context.Context, cs *model.CheckoutSession) error {
	query := `
		INSERT INTO checkout_sessions (id, org_id, target_tier, created_at, expires_at, completed)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		cs.ID, cs.OrgID, string(cs.TargetTier), cs.CreatedAt, cs.ExpiresAt, cs.Completed,
	)
	if isUniqueViolation(err) {
		return repository.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert checkout session: %w", err)
	}
	return nil
}

// GetCheckoutSession returns one checkout session by id.
func (s *Store) GetCheckoutSession(ctx context.Context, id string) (*model.CheckoutSession, error) {
	var cs model.CheckoutSession
	query := `
		SELECT id, org_id, target_tier, created_at, expires_at, completed
		FROM checkout_sessions WHERE id = $1
	`
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&cs.ID, &cs.OrgID, &cs.TargetTier, &cs.CreatedAt, &cs.ExpiresAt, &cs.Completed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get checkout session: %w", err)
	}
	return &cs, nil
}

// CompleteCheckoutSession marks a session completed.
func (s *Store) CompleteCheckoutSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE checkout_sessions SET completed = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("complete checkout session: %w", err)
	}
	return requireRow(res)
}

// AddQuotaUsage moves the (org, period, key) counter by delta, flooring at
// zero.
func (s *Store) AddQuotaUsage(ctx context.Context, orgID, period, key string, delta int) error {
	query := `
		INSERT INTO quota_usage (org_id, period, key, count)
		VALUES ($1, $2, $3, GREATEST($4, 0))
		ON CONFLICT (org_id, period, key)
		DO UPDATE SET count = GREATEST(quota_usage.count + $4, 0)`
	if _, err := s.db.ExecContext(ctx, query, orgID, period, key, delta); err != nil {
		return fmt.Errorf("add quota usage: %w", err)
	}
	return nil
}

// QuotaUsage returns the org's usage counters for one period.
func (s *Store) QuotaUsage(ctx context.Context, orgID, period string) (map[string]int, error) {
	query := `SELECT key, count FROM quota_usage WHERE org_id = $1 AND period = $2`
	rows, err := s.db.QueryContext(ctx, query, orgID, period)
	if err != nil {
		return nil, fmt.Errorf("quota usage: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan quota usage: %w", err)
		}
		out[key] = n
	}
	return out, rows.Err()
}
