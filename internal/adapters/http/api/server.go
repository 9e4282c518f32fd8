// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	service "github.com/touchline/scoutbase/internal/app"
	"github.com/touchline/scoutbase/internal/auth"
	"github.com/touchline/scoutbase/internal/domain/analysis"
	"github.com/touchline/scoutbase/internal/domain/model"
	"github.com/touchline/scoutbase/internal/domain/scoring"
	"github.com/touchline/scoutbase/internal/domain/types"
	"github.com/touchline/scoutbase/pkg/metrics"
)

// Dependencies required by the HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Accounts and sessions
	Register(ctx context.Context, orgName, email, name, password string) (*model.Organization, *model.User, error)
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	Logout(ctx context.Context, token string)
	Me(ctx context.Context, id auth.Identity) (*model.User, *model.Organization, error)
	Sessions() *auth.SessionStore
	GetPreference(ctx context.Context, id auth.Identity, key string) (string, error)
	SetPreference(ctx context.Context, id auth.Identity, key, value string) error

	// Player database
	CreatePlayer(ctx context.Context, id auth.Identity, p *model.Player) (*model.Player, error)
	GetPlayer(ctx context.Context, id auth.Identity, playerID string) (*model.Player, error)
	UpdatePlayer(ctx context.Context, id auth.Identity, p *model.Player) (*model.Player, error)
	DeletePlayer(ctx context.Context, id auth.Identity, playerID string) error
	ListPlayers(ctx context.Context, id auth.Identity, f model.PlayerFilter) ([]*model.Player, int, error)

	// Analysis and rankings
	ScorePlayer(ctx context.Context, id auth.Identity, playerID string) (scoring.Breakdown, error)
	Analyze(ctx context.Context, id auth.Identity, playerID string) (*analysis.Analysis, error)
	Compare(ctx context.Context, id auth.Identity, playerIDs []string) (*analysis.Comparison, error)
	Rankings(ctx context.Context, id auth.Identity, limit int) ([]types.RankEntry, error)

	// Scouting reports
	CreateReport(ctx context.Context, id auth.Identity, r *model.ScoutingReport) (*model.ScoutingReport, error)
	GetReport(ctx context.Context, id auth.Identity, reportID string) (*model.ScoutingReport, error)
	ListReports(ctx context.Context, id auth.Identity, playerID string) ([]*model.ScoutingReport, error)
	ExportPDF(ctx context.Context, id auth.Identity, reportID string) ([]byte, error)
	ExportComparisonPDF(ctx context.Context, id auth.Identity, playerIDs []string) ([]byte, error)

	// Videos and processing jobs
	CreateVideo(ctx context.Context, id auth.Identity, v *model.Video) (*model.Video, error)
	GetVideo(ctx context.Context, id auth.Identity, videoID string) (*model.Video, []*model.HighlightTag, error)
	ListVideos(ctx context.Context, id auth.Identity) ([]*model.Video, error)
	AddTag(ctx context.Context, id auth.Identity, t *model.HighlightTag) (*model.HighlightTag, error)
	SubmitJob(ctx context.Context, id auth.Identity, videoID, submissionID string) (*model.ProcessingJob, bool, error)
	GetJob(ctx context.Context, id auth.Identity, jobID string) (*model.ProcessingJob, error)

	// Administration
	CreateUser(ctx context.Context, id auth.Identity, u *model.User, password string) (*model.User, error)
	UpdateUser(ctx context.Context, id auth.Identity, userID, name, role string) (*model.User, error)
	DeactivateUser(ctx context.Context, id auth.Identity, userID string) error
	ListUsers(ctx context.Context, id auth.Identity) ([]*model.User, error)
	ListAudit(ctx context.Context, id auth.Identity, limit int) ([]*model.AuditEntry, error)

	// Billing
	CreateCheckout(ctx context.Context, id auth.Identity, targetTier string) (*model.CheckoutSession, error)
	CompleteCheckout(ctx context.Context, sessionID string) (*model.CheckoutSession, error)
	Subscription(ctx context.Context, id auth.Identity) (*model.Subscription, error)
}

// StatsProvider exposes the operational snapshot for GET /stats.
type StatsProvider interface {
	GetStats(ctx context.Context) service.Stats
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps  Dependencies
	stats StatsProvider
}

// NewServer creates the API server.
func NewServer(deps Dependencies, stats StatsProvider) *Server {
	return &Server{deps: deps, stats: stats}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	sessions := s.deps.Sessions()
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return auth.RequireSession(sessions, h)
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return authed(auth.RequireRole(types.RoleAdmin, h))
	}

	// Ops surface
	mux.HandleFunc("/healthz", MetricsMiddleware(s.handleHealth, "healthz"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/stats", MetricsMiddleware(s.handleStats, "stats"))

	// Accounts and sessions
	mux.HandleFunc("/api/register", MetricsMiddleware(s.handleRegister, "register"))
	mux.HandleFunc("/api/login", MetricsMiddleware(s.handleLogin, "login"))
	mux.HandleFunc("/api/logout", MetricsMiddleware(authed(s.handleLogout), "logout"))
	mux.HandleFunc("/api/me", MetricsMiddleware(authed(s.handleMe), "me"))
	mux.HandleFunc("/api/preferences/", MetricsMiddleware(authed(s.handlePreference), "preferences"))

	// Player database
	mux.HandleFunc("/api/players", MetricsMiddleware(authed(s.handlePlayers), "players"))
	mux.HandleFunc("/api/players/", MetricsMiddleware(authed(s.handlePlayer), "player"))

	// Analysis and rankings
	mux.HandleFunc("/api/player-analysis/health", MetricsMiddleware(s.handleAnalysisHealth, "analysis_health"))
	mux.HandleFunc("/api/player-analysis/analyze", MetricsMiddleware(authed(s.handleAnalyze), "analyze"))
	mux.HandleFunc("/api/player-analysis/compare", MetricsMiddleware(authed(s.handleCompare), "compare"))
	mux.HandleFunc("/api/player-analysis/compare/pdf", MetricsMiddleware(authed(s.handleComparePDF), "compare_pdf"))
	mux.HandleFunc("/api/rankings", MetricsMiddleware(authed(s.handleRankings), "rankings"))

	// Scouting reports
	mux.HandleFunc("/api/reports", MetricsMiddleware(authed(s.handleReports), "reports"))
	mux.HandleFunc("/api/reports/", MetricsMiddleware(authed(s.handleReport), "report"))

	// Videos and processing jobs
	mux.HandleFunc("/api/videos", MetricsMiddleware(authed(s.handleVideos), "videos"))
	mux.HandleFunc("/api/videos/", MetricsMiddleware(authed(s.handleVideo), "video"))
	mux.HandleFunc("/api/video-processing/jobs", MetricsMiddleware(authed(s.handleJobs), "jobs"))
	mux.HandleFunc("/api/video-processing/jobs/", MetricsMiddleware(authed(s.handleJob), "job"))

	// Administration
	mux.HandleFunc("/api/admin/users", MetricsMiddleware(admin(s.handleUsers), "admin_users"))
	mux.HandleFunc("/api/admin/users/", MetricsMiddleware(admin(s.handleUser), "admin_user"))
	mux.HandleFunc("/api/admin/audit", MetricsMiddleware(admin(s.handleAudit), "admin_audit"))

	// Billing
	mux.HandleFunc("/api/create-checkout-session", MetricsMiddleware(admin(s.handleCreateCheckout), "checkout"))
	mux.HandleFunc("/api/billing/webhook", MetricsMiddleware(s.handleBillingWebhook, "billing_webhook"))
	mux.HandleFunc("/api/subscription", MetricsMiddleware(authed(s.handleSubscription), "subscription"))
}
