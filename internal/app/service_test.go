package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	service "github.com/touchline/scoutbase/internal/app"
	"github.com/touchline/scoutbase/internal/adapters/repository/memory"
	"github.com/touchline/scoutbase/internal/auth"
	"github.com/touchline/scoutbase/internal/domain/model"
	"github.com/touchline/scoutbase/internal/domain/types"
	"github.com/touchline/scoutbase/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func startService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	s := service.New(append([]service.Option{
		service.WithWorkerCount(2),
		service.WithQueueSize(16),
		service.WithJobLatencyRange(1, 2),
	}, opts...)...)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(s.Stop)
	return s
}

func register(t *testing.T, s *service.Service) (auth.Identity, *model.Organization) {
	t.Helper()
	org, admin, err := s.Register(context.Background(), "Touchline FC", "admin@club.example", "Admin", "secret-pass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return auth.Identity{UserID: admin.ID, OrgID: org.ID, Role: admin.Role}, org
}

func validPlayer(name string) *model.Player {
	return &model.Player{
		Name:          name,
		Club:          "FC Test",
		Nationality:   "Dutch",
		Position:      types.Forward,
		Age:           21,
		Goals:         10,
		Assists:       4,
		AverageRating: 7.2,
		PassAccuracy:  79,
		Potential:     80,
		Attributes: model.Attributes{
			Passing: 70, Dribbling: 72, Shooting: 75, FirstTouch: 68, Crossing: 60,
			Pace: 82, Stamina: 74, Strength: 65, Agility: 78, Jumping: 62,
			Vision: 66, Positioning: 71, Composure: 69, WorkRate: 73, Decisions: 67,
		},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	Convey("Given a fresh service", t, func() {
		s := startService(t)
		ctx := context.Background()

		Convey("Registration creates an org on freemium with an admin", func() {
			org, admin, err := s.Register(ctx, "Touchline FC", "admin@club.example", "Admin", "secret-pass")
			So(err, ShouldBeNil)
			So(org.Tier, ShouldEqual, types.TierFreemium)
			So(admin.Role, ShouldEqual, types.RoleAdmin)

			Convey("The admin can log in and read their profile", func() {
				token, u, err := s.Login(ctx, "admin@club.example", "secret-pass")
				So(err, ShouldBeNil)
				So(token, ShouldNotBeBlank)
				So(u.ID, ShouldEqual, admin.ID)

				id, ok := s.Sessions().Resolve(token)
				So(ok, ShouldBeTrue)

				me, meOrg, err := s.Me(ctx, id)
				So(err, ShouldBeNil)
				So(me.Email, ShouldEqual, "admin@club.example")
				So(meOrg.ID, ShouldEqual, org.ID)
			})

			Convey("A wrong password fails closed", func() {
				_, _, err := s.Login(ctx, "admin@club.example", "wrong")
				So(errors.Is(err, service.ErrInvalidCredentials), ShouldBeTrue)
			})

			Convey("Logout revokes the session", func() {
				token, _, err := s.Login(ctx, "admin@club.example", "secret-pass")
				So(err, ShouldBeNil)
				s.Logout(ctx, token)
				_, ok := s.Sessions().Resolve(token)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("A short password is rejected", func() {
			_, _, err := s.Register(ctx, "Club", "a@b.example", "A", "short")
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func TestPlayerLifecycle(t *testing.T) {
	Convey("Given a registered org", t, func() {
		s := startService(t)
		ctx := context.Background()
		id, _ := register(t, s)

		Convey("Creating a player ranks them", func() {
			p, err := s.CreatePlayer(ctx, id, validPlayer("Ana"))
			So(err, ShouldBeNil)
			So(p.ID, ShouldNotBeBlank)

			ranks, err := s.Rankings(ctx, id, 10)
			So(err, ShouldBeNil)
			So(ranks, ShouldHaveLength, 1)
			So(ranks[0].PlayerID, ShouldEqual, p.ID)
			So(ranks[0].Score, ShouldBeGreaterThan, 0)
		})

		Convey("An invalid player is rejected", func() {
			bad := validPlayer("")
			_, err := s.CreatePlayer(ctx, id, bad)
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("Updating refreshes the ranking score", func() {
			p, err := s.CreatePlayer(ctx, id, validPlayer("Ana"))
			So(err, ShouldBeNil)

			before, err := s.ScorePlayer(ctx, id, p.ID)
			So(err, ShouldBeNil)

			p.Attributes.Passing = 95
			p.Attributes.Shooting = 95
			_, err = s.UpdatePlayer(ctx, id, p)
			So(err, ShouldBeNil)

			after, err := s.ScorePlayer(ctx, id, p.ID)
			So(err, ShouldBeNil)
			So(after.Score, ShouldBeGreaterThan, before.Score)
		})

		Convey("Deleting removes the player and their rank", func() {
			p, err := s.CreatePlayer(ctx, id, validPlayer("Ana"))
			So(err, ShouldBeNil)
			So(s.DeletePlayer(ctx, id, p.ID), ShouldBeNil)

			_, err = s.GetPlayer(ctx, id, p.ID)
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)

			ranks, err := s.Rankings(ctx, id, 10)
			So(err, ShouldBeNil)
			So(ranks, ShouldBeEmpty)

			Convey("And leaves an audit trail", func() {
				entries, err := s.ListAudit(ctx, id, 10)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].Action, ShouldEqual, model.AuditPlayerDeleted)
				So(entries[0].Details, ShouldContainSubstring, "Ana")
			})
		})

		Convey("Search filters by position and query", func() {
			_, err := s.CreatePlayer(ctx, id, validPlayer("Ana Martins"))
			So(err, ShouldBeNil)
			mid := validPlayer("Bram de Vries")
			mid.Position = types.Midfielder
			_, err = s.CreatePlayer(ctx, id, mid)
			So(err, ShouldBeNil)

			got, total, err := s.ListPlayers(ctx, id, model.PlayerFilter{Position: types.Midfielder})
			So(err, ShouldBeNil)
			So(total, ShouldEqual, 1)
			So(got[0].Name, ShouldEqual, "Bram de Vries")

			got, _, err = s.ListPlayers(ctx, id, model.PlayerFilter{Query: "martins"})
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 1)
		})
	})
}

func TestAnalysisAndComparison(t *testing.T) {
	Convey("Given an org with two players", t, func() {
		s := startService(t)
		ctx := context.Background()
		id, _ := register(t, s)

		p1, err := s.CreatePlayer(ctx, id, validPlayer("Ana"))
		So(err, ShouldBeNil)
		p2, err := s.CreatePlayer(ctx, id, validPlayer("Bram"))
		So(err, ShouldBeNil)

		Convey("Analyze returns the full profile", func() {
			a, err := s.Analyze(ctx, id, p1.ID)
			So(err, ShouldBeNil)
			So(a.PlayerName, ShouldEqual, "Ana")
			So(a.Radar, ShouldContainKey, "Speed")
			So(a.Recommendations, ShouldNotBeEmpty)
		})

		Convey("Compare needs at least two players", func() {
			_, err := s.Compare(ctx, id, []string{p1.ID})
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("Compare summarizes both players", func() {
			c, err := s.Compare(ctx, id, []string{p1.ID, p2.ID})
			So(err, ShouldBeNil)
			So(c.Players, ShouldResemble, []string{"Ana", "Bram"})
			So(c.Table, ShouldHaveLength, 2)
		})

		Convey("Comparing an unknown player fails", func() {
			_, err := s.Compare(ctx, id, []string{p1.ID, "ghost"})
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestReportsAndPDFGating(t *testing.T) {
	Convey("Given an org with a player and a report", t, func() {
		s := startService(t)
		ctx := context.Background()
		id, org := register(t, s)

		p, err := s.CreatePlayer(ctx, id, validPlayer("Ana"))
		So(err, ShouldBeNil)

		rep, err := s.CreateReport(ctx, id, &model.ScoutingReport{
			PlayerID: p.ID,
			Title:    "Winter target",
			Summary:  "Composed on the ball.",
			Rating:   8,
		})
		So(err, ShouldBeNil)
		So(rep.AuthorID, ShouldEqual, id.UserID)

		Convey("Freemium cannot export PDFs", func() {
			_, err := s.ExportPDF(ctx, id, rep.ID)
			So(errors.Is(err, service.ErrFeatureLocked), ShouldBeTrue)
		})

		Convey("After upgrading to pro the export succeeds", func() {
			cs, err := s.CreateCheckout(ctx, id, "pro")
			So(err, ShouldBeNil)
			_, err = s.CompleteCheckout(ctx, cs.ID)
			So(err, ShouldBeNil)

			out, err := s.ExportPDF(ctx, id, rep.ID)
			So(err, ShouldBeNil)
			So(string(out[:5]), ShouldEqual, "%PDF-")

			Convey("And the tier change is audited", func() {
				entries, err := s.ListAudit(ctx, id, 10)
				So(err, ShouldBeNil)
				So(entries[0].Action, ShouldEqual, model.AuditTierChanged)
				So(entries[0].Details, ShouldContainSubstring, "freemium")
				So(entries[0].Details, ShouldContainSubstring, "pro")
			})

			Convey("And the subscription reflects usage", func() {
				sub, err := s.Subscription(ctx, id)
				So(err, ShouldBeNil)
				So(sub.Tier, ShouldEqual, types.TierPro)
				So(sub.Usage["pdf_exports"], ShouldEqual, 1)
				So(sub.Limits["pdf_exports"], ShouldEqual, 100)
			})
		})

		Convey("A report for an unknown player is rejected", func() {
			_, err := s.CreateReport(ctx, id, &model.ScoutingReport{
				PlayerID: "ghost",
				Title:    "x",
				Summary:  "y",
				Rating:   5,
			})
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
		})

		_ = org
	})
}

func TestVideoJobs(t *testing.T) {
	Convey("Given a pro org with a tagged video", t, func() {
		s := startService(t)
		ctx := context.Background()
		id, _ := register(t, s)

		cs, err := s.CreateCheckout(ctx, id, "pro")
		So(err, ShouldBeNil)
		_, err = s.CompleteCheckout(ctx, cs.ID)
		So(err, ShouldBeNil)

		v, err := s.CreateVideo(ctx, id, &model.Video{Title: "vs Rivals", DurationSec: 5400})
		So(err, ShouldBeNil)
		_, err = s.AddTag(ctx, id, &model.HighlightTag{VideoID: v.ID, Minute: 12, Event: types.EventGoal})
		So(err, ShouldBeNil)

		Convey("A tag beyond the video duration is rejected", func() {
			_, err := s.AddTag(ctx, id, &model.HighlightTag{VideoID: v.ID, Minute: 120, Event: types.EventGoal})
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("Submitting a job processes it to completion", func() {
			j, dup, err := s.SubmitJob(ctx, id, v.ID, "sub-1")
			So(err, ShouldBeNil)
			So(dup, ShouldBeFalse)
			So(j.Status, ShouldEqual, types.JobQueued)

			deadline := time.Now().Add(5 * time.Second)
			var done *model.ProcessingJob
			for time.Now().Before(deadline) {
				got, gerr := s.GetJob(ctx, id, j.ID)
				if gerr == nil && got.Status.Terminal() {
					done = got
					break
				}
				time.Sleep(10 * time.Millisecond)
			}
			So(done, ShouldNotBeNil)
			So(done.Status, ShouldEqual, types.JobDone)
			So(done.Result.ClipCount, ShouldEqual, 1)

			Convey("Resubmitting the same id returns the same job", func() {
				again, dup, err := s.SubmitJob(ctx, id, v.ID, "sub-1")
				So(err, ShouldBeNil)
				So(dup, ShouldBeTrue)
				So(again.ID, ShouldEqual, j.ID)
			})
		})

		Convey("Freemium orgs cannot submit jobs", func() {
			s2 := startService(t)
			org2, admin2, err := s2.Register(ctx, "Free FC", "free@club.example", "Free", "secret-pass")
			So(err, ShouldBeNil)
			id2 := auth.Identity{UserID: admin2.ID, OrgID: org2.ID, Role: admin2.Role}

			v2, err := s2.CreateVideo(ctx, id2, &model.Video{Title: "x", DurationSec: 600})
			So(err, ShouldBeNil)
			_, _, err = s2.SubmitJob(ctx, id2, v2.ID, "sub-1")
			So(errors.Is(err, service.ErrFeatureLocked), ShouldBeTrue)
		})
	})
}

func TestRegisterRollback(t *testing.T) {
	Convey("Given a service over an inspectable store", t, func() {
		store := memory.NewStore()
		s := startService(t, service.WithStores(store))
		ctx := context.Background()

		_, _, err := s.Register(ctx, "Touchline FC", "admin@club.example", "Admin", "secret-pass")
		So(err, ShouldBeNil)

		Convey("A duplicate email fails and leaves no orphan organization", func() {
			_, _, err := s.Register(ctx, "Second FC", "admin@club.example", "Admin", "secret-pass")
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)

			orgs, err := store.ListOrgs(ctx)
			So(err, ShouldBeNil)
			So(orgs, ShouldHaveLength, 1)
			So(orgs[0].Name, ShouldEqual, "Touchline FC")
		})
	})
}

func TestRestartRehydration(t *testing.T) {
	Convey("Given a service that persisted state before stopping", t, func() {
		store := memory.NewStore()
		ctx := context.Background()

		s1 := startService(t, service.WithStores(store))
		id, _ := register(t, s1)

		p, err := s1.CreatePlayer(ctx, id, validPlayer("Ana"))
		So(err, ShouldBeNil)

		cs, err := s1.CreateCheckout(ctx, id, "pro")
		So(err, ShouldBeNil)
		_, err = s1.CompleteCheckout(ctx, cs.ID)
		So(err, ShouldBeNil)

		rep, err := s1.CreateReport(ctx, id, &model.ScoutingReport{
			PlayerID: p.ID,
			Title:    "Winter target",
			Summary:  "Composed on the ball.",
			Rating:   8,
		})
		So(err, ShouldBeNil)
		_, err = s1.ExportPDF(ctx, id, rep.ID)
		So(err, ShouldBeNil)

		s1.Stop()

		Convey("A fresh instance over the same store serves rankings again", func() {
			s2 := startService(t, service.WithStores(store))

			ranks, err := s2.Rankings(ctx, id, 10)
			So(err, ShouldBeNil)
			So(ranks, ShouldHaveLength, 1)
			So(ranks[0].PlayerID, ShouldEqual, p.ID)
			So(ranks[0].Score, ShouldBeGreaterThan, 0)

			Convey("And the month's quota usage survives the restart", func() {
				sub, err := s2.Subscription(ctx, id)
				So(err, ShouldBeNil)
				So(sub.Usage["players"], ShouldEqual, 1)
				So(sub.Usage["reports"], ShouldEqual, 1)
				So(sub.Usage["pdf_exports"], ShouldEqual, 1)
			})
		})
	})
}

func TestJobBackpressure(t *testing.T) {
	Convey("Given a pro org with a tiny queue and a slow clip pipeline", t, func() {
		s := startService(t,
			service.WithWorkerCount(1),
			service.WithQueueSize(1),
			service.WithJobLatencyRange(150, 200),
		)
		ctx := context.Background()
		id, _ := register(t, s)

		cs, err := s.CreateCheckout(ctx, id, "pro")
		So(err, ShouldBeNil)
		_, err = s.CompleteCheckout(ctx, cs.ID)
		So(err, ShouldBeNil)

		v, err := s.CreateVideo(ctx, id, &model.Video{Title: "vs Rivals", DurationSec: 5400})
		So(err, ShouldBeNil)

		Convey("Flooding the queue eventually rejects a submission", func() {
			accepted := 0
			rejected := ""
			for i := 0; i < 16 && rejected == ""; i++ {
				sub := fmt.Sprintf("burst-%d", i)
				_, _, err := s.SubmitJob(ctx, id, v.ID, sub)
				switch {
				case err == nil:
					accepted++
				case errors.Is(err, service.ErrBackpressure):
					rejected = sub
				default:
					t.Fatalf("submit %s: %v", sub, err)
				}
			}
			So(rejected, ShouldNotBeBlank)

			Convey("The rejected unit is refunded from the job quota", func() {
				sub, err := s.Subscription(ctx, id)
				So(err, ShouldBeNil)
				So(sub.Usage["video_jobs"], ShouldEqual, accepted)
			})

			Convey("Retrying the same id succeeds once the queue drains", func() {
				deadline := time.Now().Add(5 * time.Second)
				var retried *model.ProcessingJob
				dup := true
				for time.Now().Before(deadline) {
					got, d, err := s.SubmitJob(ctx, id, v.ID, rejected)
					if err == nil {
						retried, dup = got, d
						break
					}
					So(errors.Is(err, service.ErrBackpressure), ShouldBeTrue)
					time.Sleep(20 * time.Millisecond)
				}
				So(retried, ShouldNotBeNil)
				So(dup, ShouldBeFalse)
			})
		})
	})
}

func TestAdminUserManagement(t *testing.T) {
	Convey("Given an org admin", t, func() {
		s := startService(t)
		ctx := context.Background()
		id, _ := register(t, s)

		Convey("Creating a scout account works and is audited", func() {
			u, err := s.CreateUser(ctx, id, &model.User{
				Email: "scout@club.example",
				Name:  "Scout",
				Role:  types.RoleScout,
			}, "secret-pass")
			So(err, ShouldBeNil)
			So(u.Active, ShouldBeTrue)

			users, err := s.ListUsers(ctx, id)
			So(err, ShouldBeNil)
			So(users, ShouldHaveLength, 2)

			entries, err := s.ListAudit(ctx, id, 10)
			So(err, ShouldBeNil)
			So(entries[0].Action, ShouldEqual, model.AuditUserCreated)
			So(entries[0].Details, ShouldContainSubstring, "scout@club.example")
		})

		Convey("Role changes are recorded with the changed fields", func() {
			u, err := s.CreateUser(ctx, id, &model.User{
				Email: "scout@club.example", Name: "Scout", Role: types.RoleScout,
			}, "secret-pass")
			So(err, ShouldBeNil)

			updated, err := s.UpdateUser(ctx, id, u.ID, "", "manager")
			So(err, ShouldBeNil)
			So(updated.Role, ShouldEqual, types.RoleManager)

			entries, _ := s.ListAudit(ctx, id, 1)
			So(entries[0].Details, ShouldContainSubstring, "role=manager")
		})

		Convey("Deactivation revokes sessions and blocks login", func() {
			u, err := s.CreateUser(ctx, id, &model.User{
				Email: "scout@club.example", Name: "Scout", Role: types.RoleScout,
			}, "secret-pass")
			So(err, ShouldBeNil)

			token, _, err := s.Login(ctx, "scout@club.example", "secret-pass")
			So(err, ShouldBeNil)

			So(s.DeactivateUser(ctx, id, u.ID), ShouldBeNil)

			_, ok := s.Sessions().Resolve(token)
			So(ok, ShouldBeFalse)

			_, _, err = s.Login(ctx, "scout@club.example", "secret-pass")
			So(errors.Is(err, service.ErrAccountDisabled), ShouldBeTrue)
		})

		Convey("Admins cannot deactivate themselves", func() {
			err := s.DeactivateUser(ctx, id, id.UserID)
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func TestCheckoutEdgeCases(t *testing.T) {
	Convey("Given a registered org", t, func() {
		s := startService(t)
		ctx := context.Background()
		id, _ := register(t, s)

		Convey("Downgrades are rejected", func() {
			cs, err := s.CreateCheckout(ctx, id, "enterprise")
			So(err, ShouldBeNil)
			_, err = s.CompleteCheckout(ctx, cs.ID)
			So(err, ShouldBeNil)

			_, err = s.CreateCheckout(ctx, id, "pro")
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("Completing twice fails", func() {
			cs, err := s.CreateCheckout(ctx, id, "pro")
			So(err, ShouldBeNil)
			_, err = s.CompleteCheckout(ctx, cs.ID)
			So(err, ShouldBeNil)
			_, err = s.CompleteCheckout(ctx, cs.ID)
			So(errors.Is(err, service.ErrAlreadyCompleted), ShouldBeTrue)
		})

		Convey("An unknown session is not found", func() {
			_, err := s.CompleteCheckout(ctx, "nope")
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
		})

		Convey("An unknown tier is rejected", func() {
			_, err := s.CreateCheckout(ctx, id, "platinum")
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func TestPreferences(t *testing.T) {
	Convey("Given a logged-in user", t, func() {
		s := startService(t)
		ctx := context.Background()
		id, _ := register(t, s)

		Convey("Unset preferences read as empty", func() {
			v, err := s.GetPreference(ctx, id, "seen_tour")
			So(err, ShouldBeNil)
			So(v, ShouldBeBlank)
		})

		Convey("Set then get round-trips", func() {
			So(s.SetPreference(ctx, id, "seen_tour", "true"), ShouldBeNil)
			v, err := s.GetPreference(ctx, id, "seen_tour")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "true")
		})

		Convey("An empty key is rejected", func() {
			err := s.SetPreference(ctx, id, "  ", "x")
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func TestStats(t *testing.T) {
	s := startService(t)
	ctx := context.Background()
	id, _ := register(t, s)

	if _, err := s.CreatePlayer(ctx, id, validPlayer("Ana")); err != nil {
		t.Fatalf("create player: %v", err)
	}

	st := s.GetStats(ctx)
	if st.TotalPlayers != 1 {
		t.Errorf("expected 1 player, got %d", st.TotalPlayers)
	}
	if st.WorkerCount != 2 {
		t.Errorf("expected 2 workers, got %d", st.WorkerCount)
	}
	if st.QueueCapacity != 16 {
		t.Errorf("expected queue capacity 16, got %d", st.QueueCapacity)
	}
}
