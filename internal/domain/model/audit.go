package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Audit actions recorded by the admin surface.
const (
	AuditUserCreated     = "user.created"
	AuditUserUpdated     = "user.updated"
	AuditUserDeactivated = "user.deactivated"
	AuditTierChanged     = "org.tier_changed"
	AuditPlayerDeleted   = "player.deleted"
)

// AuditEntry records one admin action.
type AuditEntry struct {
	ID         string            `json:"id"`
	OrgID      string            `json:"org_id"`
	ActorID    string            `json:"actor_id"`
	Action     string            `json:"action"`
	TargetType string            `json:"target_type"`
	TargetID   string            `json:"target_id"`
	Fields     map[string]string `json:"fields,omitempty"`
	Details    string            `json:"details"`
	CreatedAt  time.Time         `json:"created_at"`
}

// RenderDetails produces the one-line human summary stored alongside the raw
// fields, so the admin UI never has to reconstruct it.
func RenderDetails(action, targetID string, fields map[string]string) string {
	switch action {
	case AuditUserCreated:
		return fmt.Sprintf("created user %s (%s)", fields["email"], fields["role"])
	case AuditUserUpdated:
		return fmt.Sprintf("updated user %s: %s", targetID, joinFields(fields))
	case AuditUserDeactivated:
		return fmt.Sprintf("deactivated user %s", targetID)
	case AuditTierChanged:
		return fmt.Sprintf("changed subscription from %s to %s", fields["from"], fields["to"])
	case AuditPlayerDeleted:
		return fmt.Sprintf("deleted player %s (%s)", fields["name"], targetID)
	default:
		if len(fields) == 0 {
			return action
		}
		return action + ": " + joinFields(fields)
	}
}

// joinFields renders fields as "k=v" pairs in stable key order.
func joinFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+fields[k])
	}
	return strings.Join(parts, ", ")
}
