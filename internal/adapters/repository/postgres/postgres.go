// Package postgres implements the persistence contracts on PostgreSQL via
// database/sql and lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 5 * time.Minute
)

const schema = `
CREATE TABLE IF NOT EXISTS organizations (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	tier       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	org_id        TEXT NOT NULL REFERENCES organizations(id),
	email         TEXT NOT NULL,
	name          TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	active        BOOLEAN NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_idx ON users (lower(email));

CREATE TABLE IF NOT EXISTS preferences (
	user_id TEXT NOT NULL REFERENCES users(id),
	key     TEXT NOT NULL,
	value   TEXT NOT NULL,
	PRIMARY KEY (user_id, key)
);

CREATE TABLE IF NOT EXISTS players (
	id             TEXT PRIMARY KEY,
	org_id         TEXT NOT NULL REFERENCES organizations(id),
	name           TEXT NOT NULL,
	club           TEXT NOT NULL DEFAULT '',
	nationality    TEXT NOT NULL DEFAULT '',
	position       TEXT NOT NULL,
	foot           TEXT NOT NULL DEFAULT '',
	age            INT NOT NULL,
	height_cm      INT NOT NULL DEFAULT 0,
	weight_kg      INT NOT NULL DEFAULT 0,
	goals          INT NOT NULL DEFAULT 0,
	assists        INT NOT NULL DEFAULT 0,
	average_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
	pass_accuracy  DOUBLE PRECISION NOT NULL DEFAULT 0,
	potential      INT NOT NULL DEFAULT 0,
	license_number TEXT NOT NULL DEFAULT '',
	attributes     JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS players_org_idx ON players (org_id, name);

CREATE TABLE IF NOT EXISTS reports (
	id         TEXT PRIMARY KEY,
	org_id     TEXT NOT NULL REFERENCES organizations(id),
	player_id  TEXT NOT NULL,
	author_id  TEXT NOT NULL,
	title      TEXT NOT NULL,
	summary    TEXT NOT NULL DEFAULT '',
	strengths  TEXT NOT NULL DEFAULT '',
	weaknesses TEXT NOT NULL DEFAULT '',
	verdict    TEXT NOT NULL DEFAULT '',
	rating     INT NOT NULL DEFAULT 0,
	disclaimer TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS reports_org_player_idx ON reports (org_id, player_id);

CREATE TABLE IF NOT EXISTS videos (
	id           TEXT PRIMARY KEY,
	org_id       TEXT NOT NULL REFERENCES organizations(id),
	player_id    TEXT NOT NULL DEFAULT '',
	title        TEXT NOT NULL,
	match_date   TIMESTAMPTZ NOT NULL,
	duration_sec INT NOT NULL,
	source_url   TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS videos_org_idx ON videos (org_id, created_at);

CREATE TABLE IF NOT EXISTS highlight_tags (
	id         TEXT PRIMARY KEY,
	video_id   TEXT NOT NULL REFERENCES videos(id),
	minute     INT NOT NULL,
	event      TEXT NOT NULL,
	label      TEXT NOT NULL DEFAULT '',
	created_by TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS highlight_tags_video_idx ON highlight_tags (video_id, minute);

CREATE TABLE IF NOT EXISTS processing_jobs (
	id              TEXT PRIMARY KEY,
	submission_id   TEXT NOT NULL,
	org_id          TEXT NOT NULL REFERENCES organizations(id),
	video_id        TEXT NOT NULL,
	status          TEXT NOT NULL,
	error           TEXT NOT NULL DEFAULT '',
	clip_count      INT NOT NULL DEFAULT 0,
	thumbnail_count INT NOT NULL DEFAULT 0,
	rendered_sec    INT NOT NULL DEFAULT 0,
	submitted_at    TIMESTAMPTZ NOT NULL,
	started_at      TIMESTAMPTZ,
	finished_at     TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS processing_jobs_org_idx ON processing_jobs (org_id, submitted_at);

CREATE TABLE IF NOT EXISTS audit_log (
	id          TEXT PRIMARY KEY,
	org_id      TEXT NOT NULL REFERENCES organizations(id),
	actor_id    TEXT NOT NULL,
	action      TEXT NOT NULL,
	target_type TEXT NOT NULL,
	target_id   TEXT NOT NULL,
	fields      JSONB NOT NULL,
	details     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS audit_log_org_idx ON audit_log (org_id, created_at DESC);

CREATE TABLE IF NOT EXISTS checkout_sessions (
	id          TEXT PRIMARY KEY,
	org_id      TEXT NOT NULL REFERENCES organizations(id),
	target_tier TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	expires_at  TIMESTAMPTZ NOT NULL,
	completed   BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS quota_usage (
	org_id TEXT NOT NULL REFERENCES organizations(id),
	period TEXT NOT NULL,
	key    TEXT NOT NULL,
	count  INT NOT NULL DEFAULT 0,
	PRIMARY KEY (org_id, period, key)
);
`

// Store implements repository.Stores on a PostgreSQL database.
type Store struct {
	db *sql.DB
}

// New opens a connection pool, verifies it and bootstraps the schema.
func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// nullableTime maps the zero time onto SQL NULL.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func timeOrZero(nt sql.NullTime) time.Time {
	if !nt.Valid {
		return time.Time{}
	}
	return nt.Time
}
