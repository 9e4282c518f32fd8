package model

import (
	"errors"
	"strings"
	"time"

	"github.com/touchline/scoutbase/internal/domain/types"
)

// User is an account inside one organization.
type User struct {
	ID           string     `json:"id"`
	OrgID        string     `json:"org_id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Role         types.Role `json:"role"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Validate checks the user record for storable values.
func (u *User) Validate() error {
	switch {
	case strings.TrimSpace(u.Email) == "" || !strings.Contains(u.Email, "@"):
		return errors.New("invalid email")
	case strings.TrimSpace(u.Name) == "":
		return errors.New("missing name")
	case !u.Role.Valid():
		return errors.New("invalid role")
	}
	return nil
}

// Organization is a tenant. All players, reports, videos and users hang off
// exactly one organization.
type Organization struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Tier      types.Tier `json:"tier"`
	CreatedAt time.Time  `json:"created_at"`
}

// Preference is one string-keyed per-user flag, e.g. a seen help tip or the
// current onboarding step.
type Preference struct {
	UserID string `json:"-"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}
