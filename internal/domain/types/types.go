// Package types contains common types used across the application
package types

import "strings"

// Position is a player's field position.
type Position string

// Positions recognized by the player database.
const (
	Goalkeeper Position = "goalkeeper"
	Defender   Position = "defender"
	Midfielder Position = "midfielder"
	Forward    Position = "forward"
)

// ParsePosition normalizes s into a Position; ok is false for unknown values.
func ParsePosition(s string) (Position, bool) {
	p := Position(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case Goalkeeper, Defender, Midfielder, Forward:
		return p, true
	}
	return "", false
}

// Valid reports whether p is a known position.
func (p Position) Valid() bool {
	_, ok := ParsePosition(string(p))
	return ok
}

// Foot is a player's preferred foot.
type Foot string

const (
	LeftFoot  Foot = "left"
	RightFoot Foot = "right"
	BothFeet  Foot = "both"
)

// Valid reports whether f is a known preferred foot.
func (f Foot) Valid() bool {
	switch f {
	case LeftFoot, RightFoot, BothFeet:
		return true
	}
	return false
}

// Role controls what a user may do inside their organization.
type Role string

const (
	RoleScout   Role = "scout"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleScout, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// AtLeast reports whether r grants at least the privileges of min.
func (r Role) AtLeast(min Role) bool {
	return roleLevel(r) >= roleLevel(min)
}

func roleLevel(r Role) int {
	switch r {
	case RoleScout:
		return 1
	case RoleManager:
		return 2
	case RoleAdmin:
		return 3
	}
	return 0
}

// Tier is a subscription plan gating feature access and quotas.
type Tier string

const (
	TierFreemium   Tier = "freemium"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	switch t {
	case TierFreemium, TierPro, TierEnterprise:
		return true
	}
	return false
}

// AtLeast reports whether t is the same or a higher plan than min.
func (t Tier) AtLeast(min Tier) bool {
	return tierLevel(t) >= tierLevel(min)
}

func tierLevel(t Tier) int {
	switch t {
	case TierFreemium:
		return 1
	case TierPro:
		return 2
	case TierEnterprise:
		return 3
	}
	return 0
}

// JobStatus tracks a video-processing job through its lifecycle.
type JobStatus string

const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Terminal reports whether the status is final.
func (s JobStatus) Terminal() bool {
	return s == JobDone || s == JobFailed
}

// EventType classifies a highlight tag on a video.
type EventType string

const (
	EventGoal    EventType = "goal"
	EventAssist  EventType = "assist"
	EventShot    EventType = "shot"
	EventDribble EventType = "dribble"
	EventTackle  EventType = "tackle"
	EventSave    EventType = "save"
)

// Valid reports whether e is a known highlight event type.
func (e EventType) Valid() bool {
	switch e {
	case EventGoal, EventAssist, EventShot, EventDribble, EventTackle, EventSave:
		return true
	}
	return false
}

// RankEntry represents one row of the org ranking.
type RankEntry struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Score    float64 `json:"score"`
}
