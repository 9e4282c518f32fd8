package seed

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/touchline/scoutbase/pkg/logger"
)

// Run executes one full seeding pass against a running instance.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting seed run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("players", config.NumPlayers),
		logger.Int("reports", config.NumReports),
		logger.Int("videos", config.NumVideos),
		logger.Int("workers", config.Workers),
	)

	c := newClient(config.BaseURL, config.Timeout)

	if err := checkHealth(ctx, c); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if err := registerAndLogin(ctx, c, config); err != nil {
		return fmt.Errorf("account setup failed: %w", err)
	}
	// Pro unlocks PDF exports and video jobs for the demo org.
	if err := upgradeToPro(ctx, c); err != nil {
		return fmt.Errorf("upgrade failed: %w", err)
	}

	playerIDs, err := createPlayers(ctx, c, config, stats)
	if err != nil {
		return fmt.Errorf("player creation failed: %w", err)
	}
	if err := createReports(ctx, c, config, playerIDs, stats); err != nil {
		return fmt.Errorf("report creation failed: %w", err)
	}
	if err := createVideos(ctx, c, config, playerIDs, stats); err != nil {
		return fmt.Errorf("video creation failed: %w", err)
	}
	if err := fetchRankings(ctx, c, config, stats); err != nil {
		return fmt.Errorf("ranking fetch failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)
	return nil
}

func checkHealth(ctx context.Context, c *client) error {
	var health struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/healthz", &health); err != nil {
		return err
	}
	if health.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", health.Status)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// registerAndLogin creates the demo organization and opens a session. When
// the email is already registered, it falls back to a plain login so runs
// are repeatable.
func registerAndLogin(ctx context.Context, c *client, config *Config) error {
	reg := map[string]string{
		"org_name": config.OrgName,
		"email":    config.Email,
		"name":     "Seed Admin",
		"password": config.Password,
	}
	if err := c.post(ctx, "/api/register", reg, nil); err != nil {
		logger.Get().Info(ctx, "registration skipped, trying login", logger.Error(err))
	}

	var login struct {
		Token string `json:"token"`
	}
	creds := map[string]string{"email": config.Email, "password": config.Password}
	if err := c.post(ctx, "/api/login", creds, &login); err != nil {
		return err
	}
	c.token = login.Token
	logger.Get().Info(ctx, "logged in", logger.String("email", config.Email))
	return nil
}

func upgradeToPro(ctx context.Context, c *client) error {
	var session struct {
		ID string `json:"id"`
	}
	err := c.post(ctx, "/api/create-checkout-session", map[string]string{"tier": "pro"}, &session)
	if err != nil {
		// Already on pro or higher from a previous run.
		logger.Get().Info(ctx, "checkout skipped", logger.Error(err))
		return nil
	}
	webhook := map[string]string{
		"session_id": session.ID,
		"event":      "checkout.completed",
	}
	if err := c.post(ctx, "/api/billing/webhook", webhook, nil); err != nil {
		return err
	}
	logger.Get().Info(ctx, "organization upgraded to pro")
	return nil
}

// createPlayers generates and submits players concurrently.
func createPlayers(ctx context.Context, c *client, config *Config, stats *Stats) ([]string, error) {
	logger.Get().Info(ctx, "creating players",
		logger.Int("count", config.NumPlayers),
		logger.Int("workers", config.Workers),
	)

	payloads := make([]playerPayload, config.NumPlayers)
	for i := range payloads {
		payloads[i] = generatePlayer(i + 1)
	}
	stats.PlayersGenerated = len(payloads)

	var (
		mu        sync.Mutex
		playerIDs []string
		created   atomic.Int64
		failed    atomic.Int64
	)

	indexChan := make(chan int, config.Workers*2)
	var wg sync.WaitGroup
	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				var p struct {
					ID string `json:"id"`
				}
				if err := c.post(ctx, "/api/players", payloads[i], &p); err != nil {
					failed.Add(1)
					if config.Verbose {
						logger.Get().Warn(ctx, "player create failed", logger.Error(err))
					}
					continue
				}
				created.Add(1)
				mu.Lock()
				playerIDs = append(playerIDs, p.ID)
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range payloads {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()
	wg.Wait()

	stats.PlayersCreated = int(created.Load())
	stats.PlayersFailed = int(failed.Load())
	logger.Get().Info(ctx, "players created",
		logger.Int("created", stats.PlayersCreated),
		logger.Int("failed", stats.PlayersFailed),
	)
	if len(playerIDs) == 0 {
		return nil, fmt.Errorf("no players created")
	}
	return playerIDs, nil
}

var reportVerdicts = []string{"sign", "monitor", "pass"}

func createReports(ctx context.Context, c *client, config *Config, playerIDs []string, stats *Stats) error {
	for i := 0; i < config.NumReports; i++ {
		report := map[string]any{
			"player_id":  playerIDs[i%len(playerIDs)],
			"title":      fmt.Sprintf("Scouting visit %d", i+1),
			"summary":    "Stood out in transition moments; needs a longer look against stronger opposition.",
			"strengths":  "First touch under pressure, scanning before receiving.",
			"weaknesses": "Aerial duels, weak-foot delivery.",
			"verdict":    pick(reportVerdicts),
			"rating":     5 + randomInt(5),
		}
		if err := c.post(ctx, "/api/reports", report, nil); err != nil {
			return err
		}
		stats.ReportsCreated++
	}
	logger.Get().Info(ctx, "reports created", logger.Int("count", stats.ReportsCreated))
	return nil
}

// createVideos uploads match recordings, tags a few highlights on each and
// submits one clip job per video. Every third job is resubmitted with the
// same submission id to exercise the idempotent path.
func createVideos(ctx context.Context, c *client, config *Config, playerIDs []string, stats *Stats) error {
	for i := 0; i < config.NumVideos; i++ {
		video := map[string]any{
			"player_id":    playerIDs[i%len(playerIDs)],
			"title":        fmt.Sprintf("Matchday %d full recording", i+1),
			"duration_sec": 5400,
			"source_url":   fmt.Sprintf("https://cdn.scoutbase.example/matches/%d.mp4", i+1),
		}
		var v struct {
			ID string `json:"id"`
		}
		if err := c.post(ctx, "/api/videos", video, &v); err != nil {
			return err
		}
		stats.VideosCreated++

		numTags := 2 + randomInt(4)
		for t := 0; t < numTags; t++ {
			tag := map[string]any{
				"minute": randomInt(90),
				"event":  pick(events),
				"label":  fmt.Sprintf("highlight %d", t+1),
			}
			if err := c.post(ctx, "/api/videos/"+v.ID+"/tags", tag, nil); err != nil {
				return err
			}
			stats.TagsCreated++
		}

		submissionID := uuid.NewString()
		job := map[string]string{"video_id": v.ID, "submission_id": submissionID}
		if err := c.post(ctx, "/api/video-processing/jobs", job, nil); err != nil {
			return err
		}
		stats.JobsSubmitted++

		if i%3 == 0 {
			var dup struct {
				Duplicate bool `json:"duplicate"`
			}
			if err := c.post(ctx, "/api/video-processing/jobs", job, &dup); err != nil {
				return err
			}
			if dup.Duplicate {
				stats.JobsDuplicate++
			}
		}
	}
	logger.Get().Info(ctx, "videos created",
		logger.Int("videos", stats.VideosCreated),
		logger.Int("tags", stats.TagsCreated),
		logger.Int("jobs", stats.JobsSubmitted),
		logger.Int("duplicates", stats.JobsDuplicate),
	)
	return nil
}

func fetchRankings(ctx context.Context, c *client, config *Config, stats *Stats) error {
	var out struct {
		Rankings []struct {
			Rank  int     `json:"rank"`
			Name  string  `json:"name"`
			Score float64 `json:"score"`
		} `json:"rankings"`
	}
	path := fmt.Sprintf("/api/rankings?limit=%d", config.TopN)
	if err := c.get(ctx, path, &out); err != nil {
		return err
	}
	stats.RankingEntries = len(out.Rankings)
	for _, e := range out.Rankings {
		logger.Get().Info(ctx, "ranking entry",
			logger.Int("rank", e.Rank),
			logger.String("name", e.Name),
			logger.Float64("score", e.Score),
		)
	}
	return nil
}

func displayFinalStats(stats *Stats) {
	logger.Get().Info(context.Background(), "seed run completed",
		logger.Int("playersGenerated", stats.PlayersGenerated),
		logger.Int("playersCreated", stats.PlayersCreated),
		logger.Int("playersFailed", stats.PlayersFailed),
		logger.Int("reportsCreated", stats.ReportsCreated),
		logger.Int("videosCreated", stats.VideosCreated),
		logger.Int("tagsCreated", stats.TagsCreated),
		logger.Int("jobsSubmitted", stats.JobsSubmitted),
		logger.Int("jobsDuplicate", stats.JobsDuplicate),
		logger.Int("rankingEntries", stats.RankingEntries),
		logger.String("duration", stats.Duration.String()),
	)
}
