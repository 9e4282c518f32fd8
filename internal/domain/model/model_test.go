package model_test

import (
	"strings"
	"testing"
	"time"

	"github.com/touchline/scoutbase/internal/domain/model"
	"github.com/touchline/scoutbase/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func validPlayer() *model.Player {
	return &model.Player{
		ID:            "p-1",
		OrgID:         "org-1",
		Name:          "Jonas Verde",
		Club:          "CF Atlantico",
		Nationality:   "Portugal",
		Position:      types.Forward,
		Foot:          types.RightFoot,
		Age:           22,
		HeightCM:      181,
		Goals:         14,
		Assists:       6,
		AverageRating: 7.4,
		PassAccuracy:  82.5,
		Potential:     85,
		Attributes: model.Attributes{
			Passing: 70, Dribbling: 82, Shooting: 84, FirstTouch: 78, Crossing: 66,
			Pace: 88, Stamina: 75, Strength: 68, Agility: 80, Jumping: 64,
			Vision: 71, Positioning: 79, Composure: 74, WorkRate: 70, Decisions: 72,
		},
	}
}

func TestPlayerValidate(t *testing.T) {
	Convey("Given a valid player", t, func() {
		p := validPlayer()

		Convey("Then validation passes", func() {
			So(p.Validate(), ShouldBeNil)
		})

		Convey("When the name is blank", func() {
			p.Name = "   "
			So(p.Validate(), ShouldNotBeNil)
		})

		Convey("When the position is unknown", func() {
			p.Position = "striker"
			So(p.Validate(), ShouldNotBeNil)
		})

		Convey("When the age is out of range", func() {
			p.Age = 12
			So(p.Validate(), ShouldNotBeNil)
		})

		Convey("When an attribute exceeds 100", func() {
			p.Attributes.Pace = 101
			So(p.Validate(), ShouldNotBeNil)
		})

		Convey("When the preferred foot is empty", func() {
			p.Foot = ""
			So(p.Validate(), ShouldBeNil)
		})
	})
}

func TestPlayerFilterMatches(t *testing.T) {
	Convey("Given a player and a filter", t, func() {
		p := validPlayer()

		Convey("An empty filter matches", func() {
			So(model.PlayerFilter{}.Matches(p), ShouldBeTrue)
		})

		Convey("Position filters apply", func() {
			So(model.PlayerFilter{Position: types.Forward}.Matches(p), ShouldBeTrue)
			So(model.PlayerFilter{Position: types.Goalkeeper}.Matches(p), ShouldBeFalse)
		})

		Convey("Nationality matching is case-insensitive", func() {
			So(model.PlayerFilter{Nationality: "portugal"}.Matches(p), ShouldBeTrue)
			So(model.PlayerFilter{Nationality: "Spain"}.Matches(p), ShouldBeFalse)
		})

		Convey("Age bounds apply", func() {
			So(model.PlayerFilter{MinAge: 20, MaxAge: 25}.Matches(p), ShouldBeTrue)
			So(model.PlayerFilter{MinAge: 30}.Matches(p), ShouldBeFalse)
			So(model.PlayerFilter{MaxAge: 21}.Matches(p), ShouldBeFalse)
		})

		Convey("Free-text query searches name, club and nationality", func() {
			So(model.PlayerFilter{Query: "verde"}.Matches(p), ShouldBeTrue)
			So(model.PlayerFilter{Query: "atlantico"}.Matches(p), ShouldBeTrue)
			So(model.PlayerFilter{Query: "nobody"}.Matches(p), ShouldBeFalse)
		})
	})
}

func TestAttributeCategories(t *testing.T) {
	Convey("Given attributes", t, func() {
		a := validPlayer().Attributes

		Convey("Each category exposes exactly five values", func() {
			So(len(a.Technical()), ShouldEqual, 5)
			So(len(a.Physical()), ShouldEqual, 5)
			So(len(a.Mental()), ShouldEqual, 5)
		})
	})
}

func TestReportValidate(t *testing.T) {
	Convey("Given a scouting report", t, func() {
		r := &model.ScoutingReport{
			PlayerID: "p-1",
			Title:    "Winter window assessment",
			Summary:  "Quick, direct winger with a strong left foot.",
			Rating:   8,
		}

		Convey("A valid report passes", func() {
			So(r.Validate(), ShouldBeNil)
		})

		Convey("Rating must stay within 1-10", func() {
			r.Rating = 0
			So(r.Validate(), ShouldNotBeNil)
			r.Rating = 11
			So(r.Validate(), ShouldNotBeNil)
		})

		Convey("A report needs a player", func() {
			r.PlayerID = ""
			So(r.Validate(), ShouldNotBeNil)
		})
	})
}

func TestHighlightTagValidate(t *testing.T) {
	Convey("Given a video and a tag", t, func() {
		v := &model.Video{Title: "vs Rovers", DurationSec: 5400}
		tag := &model.HighlightTag{Event: types.EventGoal, Minute: 43}

		Convey("A valid tag passes", func() {
			So(tag.Validate(v), ShouldBeNil)
		})

		Convey("Unknown event types are rejected", func() {
			tag.Event = "rainbow_flick"
			So(tag.Validate(v), ShouldNotBeNil)
		})

		Convey("Tags beyond the video duration are rejected", func() {
			tag.Minute = 120
			So(tag.Validate(v), ShouldNotBeNil)
		})
	})
}

func TestRenderDetails(t *testing.T) {
	Convey("Given audit actions", t, func() {
		Convey("user.created names the email and role", func() {
			s := model.RenderDetails(model.AuditUserCreated, "u-9", map[string]string{"email": "ana@club.example", "role": "scout"})
			So(s, ShouldEqual, "created user ana@club.example (scout)")
		})

		Convey("user.updated lists fields in stable order", func() {
			s := model.RenderDetails(model.AuditUserUpdated, "u-9", map[string]string{"role": "manager", "name": "Ana"})
			So(s, ShouldEqual, "updated user u-9: name=Ana, role=manager")
		})

		Convey("org.tier_changed shows the transition", func() {
			s := model.RenderDetails(model.AuditTierChanged, "org-1", map[string]string{"from": "freemium", "to": "pro"})
			So(strings.Contains(s, "freemium"), ShouldBeTrue)
			So(strings.Contains(s, "pro"), ShouldBeTrue)
		})

		Convey("unknown actions fall back to the raw action", func() {
			So(model.RenderDetails("report.archived", "r-1", nil), ShouldEqual, "report.archived")
		})
	})
}

func TestCheckoutSessionExpired(t *testing.T) {
	now := time.Now()
	s := &model.CheckoutSession{ExpiresAt: now.Add(time.Hour)}
	if s.Expired(now) {
		t.Error("session should not be expired before its deadline")
	}
	if !s.Expired(now.Add(2 * time.Hour)) {
		t.Error("session should expire after its deadline")
	}
}
