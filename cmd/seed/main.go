package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/touchline/scoutbase/internal/seed"
	"github.com/touchline/scoutbase/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumPlayers = 200
	defaultNumReports = 40
	defaultNumVideos  = 10
	defaultTopN       = 25
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		orgName  = flag.String("org", "Seed Scouting FC", "Organization name to register")
		email    = flag.String("email", "seed@scoutbase.example", "Admin email")
		password = flag.String("password", "seed-password", "Admin password")
		players  = flag.Int("players", defaultNumPlayers, "Number of players to create")
		reports  = flag.Int("reports", defaultNumReports, "Number of scouting reports to create")
		videos   = flag.Int("videos", defaultNumVideos, "Number of videos (with tags and clip jobs)")
		topN     = flag.Int("top", defaultTopN, "Number of ranking entries to fetch at the end")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &seed.Config{
		BaseURL:    *baseURL,
		OrgName:    *orgName,
		Email:      *email,
		Password:   *password,
		NumPlayers: *players,
		NumReports: *reports,
		NumVideos:  *videos,
		TopN:       *topN,
		Workers:    *workers,
		Timeout:    *timeout,
		Verbose:    *verbose,
	}

	if err := seed.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seed run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
