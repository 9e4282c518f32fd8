// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/touchline/scoutbase/internal/domain/types"
)

// Attribute rating bounds.
const (
	MinAttribute = 0
	MaxAttribute = 100
	MinAge       = 15
	MaxAge       = 50
)

// Attributes is the fixed set of 0-100 ratings describing a player,
// partitioned into three fixed categories.
type Attributes struct {
	// Technical
	Passing    int `json:"passing"`
	Dribbling  int `json:"dribbling"`
	Shooting   int `json:"shooting"`
	FirstTouch int `json:"first_touch"`
	Crossing   int `json:"crossing"`

	// Physical
	Pace     int `json:"pace"`
	Stamina  int `json:"stamina"`
	Strength int `json:"strength"`
	Agility  int `json:"agility"`
	Jumping  int `json:"jumping"`

	// Mental
	Vision      int `json:"vision"`
	Positioning int `json:"positioning"`
	Composure   int `json:"composure"`
	WorkRate    int `json:"work_rate"`
	Decisions   int `json:"decisions"`
}

// Technical returns the technical category values in declaration order.
func (a Attributes) Technical() []int {
	return []int{a.Passing, a.Dribbling, a.Shooting, a.FirstTouch, a.Crossing}
}

// Physical returns the physical category values in declaration order.
func (a Attributes) Physical() []int {
	return []int{a.Pace, a.Stamina, a.Strength, a.Agility, a.Jumping}
}

// Mental returns the mental category values in declaration order.
func (a Attributes) Mental() []int {
	return []int{a.Vision, a.Positioning, a.Composure, a.WorkRate, a.Decisions}
}

func (a Attributes) validate() error {
	all := append(append(a.Technical(), a.Physical()...), a.Mental()...)
	for _, v := range all {
		if v < MinAttribute || v > MaxAttribute {
			return fmt.Errorf("attribute %d out of range [%d,%d]", v, MinAttribute, MaxAttribute)
		}
	}
	return nil
}

// Player represents one athlete's profile in the database.
type Player struct {
	ID          string         `json:"id"`
	OrgID       string         `json:"org_id"`
	Name        string         `json:"name"`
	Club        string         `json:"club"`
	Nationality string         `json:"nationality"`
	Position    types.Position `json:"position"`
	Foot        types.Foot     `json:"preferred_foot"`
	Age         int            `json:"age"`

	// Physique; zero means unknown.
	HeightCM int `json:"height_cm,omitempty"`
	WeightKG int `json:"weight_kg,omitempty"`

	// Season output.
	Goals         int     `json:"goals"`
	Assists       int     `json:"assists"`
	AverageRating float64 `json:"average_rating"`
	PassAccuracy  float64 `json:"pass_accuracy"`

	// Scouting assessment.
	Potential     int        `json:"potential"`
	LicenseNumber string     `json:"license_number,omitempty"`
	Attributes    Attributes `json:"attributes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the player record for storable values.
func (p *Player) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return errors.New("missing name")
	case !p.Position.Valid():
		return fmt.Errorf("invalid position %q", p.Position)
	case p.Foot != "" && !p.Foot.Valid():
		return fmt.Errorf("invalid preferred foot %q", p.Foot)
	case p.Age < MinAge || p.Age > MaxAge:
		return fmt.Errorf("age %d out of range [%d,%d]", p.Age, MinAge, MaxAge)
	case p.AverageRating < 0 || p.AverageRating > 10:
		return fmt.Errorf("average rating %v out of range [0,10]", p.AverageRating)
	case p.PassAccuracy < 0 || p.PassAccuracy > 100:
		return fmt.Errorf("pass accuracy %v out of range [0,100]", p.PassAccuracy)
	case p.Potential < MinAttribute || p.Potential > MaxAttribute:
		return fmt.Errorf("potential %d out of range [%d,%d]", p.Potential, MinAttribute, MaxAttribute)
	}
	return p.Attributes.validate()
}

// PlayerFilter narrows player searches. Zero values mean "no constraint".
type PlayerFilter struct {
	Query       string
	Position    types.Position
	Nationality string
	MinAge      int
	MaxAge      int
	Offset      int
	Limit       int
}

// Matches reports whether p satisfies every set constraint of f.
func (f PlayerFilter) Matches(p *Player) bool {
	if f.Position != "" && p.Position != f.Position {
		return false
	}
	if f.Nationality != "" && !strings.EqualFold(p.Nationality, f.Nationality) {
		return false
	}
	if f.MinAge > 0 && p.Age < f.MinAge {
		return false
	}
	if f.MaxAge > 0 && p.Age > f.MaxAge {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		hay := strings.ToLower(p.Name + " " + p.Club + " " + p.Nationality)
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}
