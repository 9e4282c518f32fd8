// Package seed populates a running instance with demo data through the
// public REST API: an organization, players, reports, videos and clip jobs.
package seed

import "time"

// Config holds configuration for one seeding run.
type Config struct {
	BaseURL    string        // Base URL of the service
	OrgName    string        // Organization name to register
	Email      string        // Admin email to register
	Password   string        // Admin password to register
	NumPlayers int           // Number of players to generate
	NumReports int           // Number of scouting reports to write
	NumVideos  int           // Number of videos (with tags and clip jobs)
	TopN       int           // Number of ranking entries to fetch at the end
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Verbose    bool          // Enable verbose logging
}

// Stats holds run statistics.
type Stats struct {
	PlayersGenerated int
	PlayersCreated   int
	PlayersFailed    int
	ReportsCreated   int
	VideosCreated    int
	TagsCreated      int
	JobsSubmitted    int
	JobsDuplicate    int
	RankingEntries   int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
