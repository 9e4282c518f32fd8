package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/touchline/scoutbase/internal/adapters/repository"
	"github.com/touchline/scoutbase/internal/domain/model"
)

const playerColumns = `id, org_id, name, club, nationality, position, foot, age,
	height_cm, weight_kg, goals, assists, average_rating, pass_accuracy,
	potential, license_number, attributes, created_at, updated_at`

// CreatePlayer inserts a new player profile.
func (s *Store) CreatePlayer(ctx context.Context, p *model.Player) error {
	attrs, err := json.Marshal(p.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}
	query := `
		INSERT INTO players (` + playerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err = s.db.ExecContext(ctx, query,
		p.ID, p.OrgID, p.Name, p.Club, p.Nationality, string(p.Position), string(p.Foot), p.Age,
		p.HeightCM, p.WeightKG, p.Goals, p.Assists, p.AverageRating, p.PassAccuracy,
		p.Potential, p.LicenseNumber, attrs, p.CreatedAt, p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

// GetPlayer returns one player scoped to the organization.
func (s *Store) GetPlayer(ctx context.Context, orgID, id string) (*model.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE org_id = $1 AND id = $2`
	return scanPlayer(s.db.QueryRowContext(ctx, query, orgID, id))
}

// UpdatePlayer replaces a stored player profile.
func (s *Store) UpdatePlayer(ctx context.Context, p *model.Player) error {
	attrs, err := json.Marshal(p.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}
	query := `
		UPDATE players SET
			name = $3, club = $4, nationality = $5, position = $6, foot = $7,
			age = $8, height_cm = $9, weight_kg = $10, goals = $11, assists = $12,
			average_rating = $13, pass_accuracy = $14, potential = $15,
			license_number = $16, attributes = $17, updated_at = $18
		WHERE org_id = $1 AND id = $2
	`
	res, err := s.db.ExecContext(ctx, query,
		p.OrgID, p.ID,
		p.Name, p.Club, p.Nationality, string(p.Position), string(p.Foot),
		p.Age, p.HeightCM, p.WeightKG, p.Goals, p.Assists,
		p.AverageRating, p.PassAccuracy, p.Potential,
		p.LicenseNumber, attrs, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	return requireRow(res)
}

// DeletePlayer removes a player scoped to the organization.
func (s *Store) DeletePlayer(ctx context.Context, orgID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	return requireRow(res)
}

// ListPlayers returns one page of matching players plus the total match count.
// Pagination bounds are validated by the caller.
func (s *Store) ListPlayers(ctx context.Context, orgID string, f model.PlayerFilter) ([]*model.Player, int, error) {
	where, args := playerWhere(orgID, f)

	var total int
	countQuery := `SELECT COUNT(*) FROM players ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count players: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM players %s ORDER BY name, id OFFSET $%d LIMIT $%d`,
		playerColumns, where, len(args)+1, len(args)+2)
	args = append(args, f.Offset, f.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []*model.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, 0, err
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate players: %w", err)
	}
	return players, total, nil
}

// CountPlayers returns the total number of players across all organizations.
func (s *Store) CountPlayers(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// playerWhere builds the WHERE clause for a player search.
func playerWhere(orgID string, f model.PlayerFilter) (string, []any) {
	conds := []string{"org_id = $1"}
	args := []any{orgID}

	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Position != "" {
		add("position = $%d", string(f.Position))
	}
	if f.Nationality != "" {
		add("lower(nationality) = lower($%d)", f.Nationality)
	}
	if f.MinAge > 0 {
		add("age >= $%d", f.MinAge)
	}
	if f.MaxAge > 0 {
		add("age <= $%d", f.MaxAge)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		add("(name || ' ' || club || ' ' || nationality) ILIKE $%d", "%"+q+"%")
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*model.Player, error) {
	var (
		p     model.Player
		attrs []byte
	)
	err := row.Scan(
		&p.ID, &p.OrgID, &p.Name, &p.Club, &p.Nationality, &p.Position, &p.Foot, &p.Age,
		&p.HeightCM, &p.WeightKG, &p.Goals, &p.Assists, &p.AverageRating, &p.PassAccuracy,
		&p.Potential, &p.LicenseNumber, &attrs, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan player: %w", err)
	}
	if err := json.Unmarshal(attrs, &p.Attributes); err != nil {
		return nil, fmt.Errorf("unmarshal attributes: %w", err)
	}
	return &p, nil
}

// requireRow maps a zero-row update or delete onto ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
