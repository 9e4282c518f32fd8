// Package memory provides an in-memory Stores backend used in demo mode
// and by the test suite. All methods are safe for concurrent use.
package memory

import (
	"sync"

	"github.com/touchline/scoutbase/internal/domain/model"
)

// Store keeps every record in process memory.
type Store struct {
	mu sync.RWMutex

	players map[string]*model.Player       // by id
	orgs    map[string]*model.Organization // by id
	users   map[string]*model.User         // by id
	prefs   map[string]string              // userID + "\x00" + key
	reports map[string]*model.ScoutingReport
	videos  map[string]*model.Video
	tags    map[string][]*model.HighlightTag // by video id, append order
	jobs    map[string]*model.ProcessingJob
	audit   map[string][]*model.AuditEntry // by org id, append order
	checks  map[string]*model.CheckoutSession
	quota   map[string]map[string]int // orgID + "\x00" + period -> key -> count
}

// NewStore constructs an empty in-memory backend.
func NewStore() *Store {
	return &Store{
		players: make(map[string]*model.Player),
		orgs:    make(map[string]*model.Organization),
		users:   make(map[string]*model.User),
		prefs:   make(map[string]string),
		reports: make(map[string]*model.ScoutingReport),
		videos:  make(map[string]*model.Video),
		tags:    make(map[string][]*model.HighlightTag),
		jobs:    make(map[string]*model.ProcessingJob),
		audit:   make(map[string][]*model.AuditEntry),
		checks:  make(map[string]*model.CheckoutSession),
		quota:   make(map[string]map[string]int),
	}
}

func prefKey(userID, key string) string {
	return userID + "\x00" + key
}

func quotaKey(orgID, period string) string {
	return orgID + "\x00" + period
}
