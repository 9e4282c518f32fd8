// Package repository defines the persistence contracts and the in-memory
// ranking store.
package repository

import (
	"context"

	"github.com/touchline/scoutbase/internal/domain/model"
	"github.com/touchline/scoutbase/internal/domain/types"
)

// RankStore provides read/write access to the per-org ranking state.
type RankStore interface {
	// UpdateScore records the player's most recent weighted score,
	// replacing any previous one. Returns true when the stored score
	// changed.
	UpdateScore(ctx context.Context, orgID, playerID, name, position string, score float64) (bool, error)

	// Rank returns the current rank and score for a player.
	// Returns ErrNotFound if the player has never been scored.
	Rank(ctx context.Context, orgID, playerID string) (types.RankEntry, error)

	// TopN returns the top-N entries ordered by score desc.
	TopN(ctx context.Context, orgID string, n int) ([]types.RankEntry, error)

	// Remove drops a player from the ranking, e.g. after deletion.
	Remove(ctx context.Context, orgID, playerID string)

	// Count returns the number of players ranked within the org.
	Count(ctx context.Context, orgID string) int
}

// PlayerStore persists player profiles.
type PlayerStore interface {
	CreatePlayer(ctx context.Context, p *model.Player) error
	GetPlayer(ctx context.Context, orgID, id string) (*model.Player, error)
	UpdatePlayer(ctx context.Context, p *model.Player) error
	DeletePlayer(ctx context.Context, orgID, id string) error
	ListPlayers(ctx context.Context, orgID string, f model.PlayerFilter) ([]*model.Player, int, error)
	CountPlayers(ctx context.Context) int
}

// UserStore persists accounts and organizations.
type UserStore interface {
	CreateOrg(ctx context.Context, o *model.Organization) error
	GetOrg(ctx context.Context, id string) (*model.Organization, error)
	ListOrgs(ctx context.Context) ([]*model.Organization, error)
	SetOrgTier(ctx context.Context, id string, tier string) error
	DeleteOrg(ctx context.Context, id string) error

	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, orgID, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, u *model.User) error
	ListUsers(ctx context.Context, orgID string) ([]*model.User, error)

	GetPreference(ctx context.Context, userID, key string) (string, error)
	SetPreference(ctx context.Context, userID, key, value string) error
}

// ReportStore persists scouting reports.
type ReportStore interface {
	CreateReport(ctx context.Context, r *model.ScoutingReport) error
	GetReport(ctx context.Context, orgID, id string) (*model.ScoutingReport, error)
	ListReports(ctx context.Context, orgID, playerID string) ([]*model.ScoutingReport, error)
}

// VideoStore persists videos, highlight tags and processing jobs.
type VideoStore interface {
	CreateVideo(ctx context.Context, v *model.Video) error
	GetVideo(ctx context.Context, orgID, id string) (*model.Video, error)
	ListVideos(ctx context.Context, orgID string) ([]*model.Video, error)

	AddTag(ctx context.Context, t *model.HighlightTag) error
	ListTags(ctx context.Context, videoID string) ([]*model.HighlightTag, error)

	CreateJob(ctx context.Context, j *model.ProcessingJob) error
	GetJob(ctx context.Context, orgID, id string) (*model.ProcessingJob, error)
	UpdateJob(ctx context.Context, j *model.ProcessingJob) error
}

// AuditStore persists the admin audit log, checkout sessions and the
// per-period quota usage counters.
type AuditStore interface {
	AppendAudit(ctx context.Context, e *model.AuditEntry) error
	ListAudit(ctx context.Context, orgID string, limit int) ([]*model.AuditEntry, error)

	CreateCheckoutSession(ctx context.Context, s *model.CheckoutSession) error
	GetCheckoutSession(ctx context.Context, id string) (*model.CheckoutSession, error)
	CompleteCheckoutSession(ctx context.Context, id string) error

	// AddQuotaUsage moves the (org, period, key) counter by delta,
	// flooring at zero.
	AddQuotaUsage(ctx context.Context, orgID, period, key string, delta int) error
	QuotaUsage(ctx context.Context, orgID, period string) (map[string]int, error)
}

// Stores bundles every persistence contract one backend provides.
type Stores interface {
	PlayerStore
	UserStore
	ReportStore
	VideoStore
	AuditStore
}
