package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/touchline/scoutbase/internal/adapters/repository"
	"github.com/touchline/scoutbase/internal/domain/model"
)

const userColumns = `id, org_id, email, name, password_hash, role, active, created_at, updated_at`

// CreateOrg inserts a new organization.
func (s *Store) CreateOrg(ctx context.Context, o *model.Organization) error {
	query := `INSERT INTO organizations (id, name, tier, created_at) VALUES ($1, $2, $3, $4)`
	_, err := s.db.ExecContext(ctx, query, o.ID, o.Name, string(o.Tier), o.CreatedAt)
	if isUniqueViolation(err) {
		return repository.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

// GetOrg returns one organization.
func (s *Store) GetOrg(ctx context.Context, id string) (*model.Organization, error) {
	var o model.Organization
	query := `SELECT id, name, tier, created_at FROM organizations WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.Name, &o.Tier, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &o, nil
}

// ListOrgs returns every organization, oldest first.
func (s *Store) ListOrgs(ctx context.Context) ([]*model.Organization, error) {
	query := `SELECT id, name, tier, created_at FROM organizations ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	out := make([]*model.Organization, 0)
	for rows.Next() {
		var o model.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Tier, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}

// SetOrgTier moves an organization onto a new subscription tier.
func (s *Store) SetOrgTier(ctx context.Context, id string, tier string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE organizations SET tier = $2 WHERE id = $1`, id, tier)
	if err != nil {
		return fmt.Errorf("set tier: %w", err)
	}
	return requireRow(res)
}

// DeleteOrg removes an organization, e.g. to roll back a failed
// registration.
func (s *Store) DeleteOrg(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}
	return requireRow(res)
}

// CreateUser inserts a new account. Emails are unique case-insensitively.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.OrgID, u.Email, u.Name, u.PasswordHash, string(u.Role), u.Active, u.CreatedAt, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser returns one account scoped to the organization.
func (s *Store) GetUser(ctx context.Context, orgID, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE org_id = $1 AND id = $2`
	return scanUser(s.db.QueryRowContext(ctx, query, orgID, id))
}

// GetUserByEmail looks an account up for login, across organizations.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

// UpdateUser replaces a stored account.
func (s *Store) UpdateUser(ctx context.Context, u *model.User) error {
	query := `
		UPDATE users SET
			email = $3, name = $4, password_hash = $5, role = $6, active = $7, updated_at = $8
		WHERE org_id = $1 AND id = $2
	`
	res, err := s.db.ExecContext(ctx, query,
		u.OrgID, u.ID, u.Email, u.Name, u.PasswordHash, string(u.Role), u.Active, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res)
}

// ListUsers returns the organization's accounts ordered by creation time.
func (s *Store) ListUsers(ctx context.Context, orgID string) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE org_id = $1 ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// GetPreference returns one per-user flag value.
func (s *Store) GetPreference(ctx context.Context, userID, key string) (string, error) {
	var v string
	query := `SELECT value FROM preferences WHERE user_id = $1 AND key = $2`
	err := s.db.QueryRowContext(ctx, query, userID, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get preference: %w", err)
	}
	return v, nil
}

// SetPreference stores one per-user flag value, overwriting any previous one.
func (s *Store) SetPreference(ctx context.Context, userID, key, value string) error {
	query := `
		INSERT INTO preferences (user_id, key, value) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value
	`
	if _, err := s.db.ExecContext(ctx, query, userID, key, value); err != nil {
		return fmt.Errorf("set preference: %w", err)
	}
	return nil
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.OrgID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
