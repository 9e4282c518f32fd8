package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/touchline/scoutbase/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func TestUpdateScore(t *testing.T) {
	Convey("Given an empty ranking store", t, func() {
		s := repository.NewTreapRankStore()
		ctx := context.Background()

		Convey("The first score for a player is recorded", func() {
			changed, err := s.UpdateScore(ctx, "org-1", "p1", "Ana", "forward", 71.5)
			So(err, ShouldBeNil)
			So(changed, ShouldBeTrue)
			So(s.Count(ctx, "org-1"), ShouldEqual, 1)
		})

		Convey("A newer score replaces the old one", func() {
			s.UpdateScore(ctx, "org-1", "p1", "Ana", "forward", 71.5)
			changed, err := s.UpdateScore(ctx, "org-1", "p1", "Ana", "forward", 40.0)
			So(err, ShouldBeNil)
			So(changed, ShouldBeTrue)

			e, err := s.Rank(ctx, "org-1", "p1")
			So(err, ShouldBeNil)
			So(e.Score, ShouldAlmostEqual, 40.0, 0.000001)
			So(s.Count(ctx, "org-1"), ShouldEqual, 1)
		})

		Convey("Re-submitting an identical score is a no-op", func() {
			s.UpdateScore(ctx, "org-1", "p1", "Ana", "forward", 71.5)
			changed, err := s.UpdateScore(ctx, "org-1", "p1", "Ana", "forward", 71.5)
			So(err, ShouldBeNil)
			So(changed, ShouldBeFalse)
		})

		Convey("Organizations do not see each other's players", func() {
			s.UpdateScore(ctx, "org-1", "p1", "Ana", "forward", 71.5)
			s.UpdateScore(ctx, "org-2", "p2", "Bram", "defender", 60.0)

			So(s.Count(ctx, "org-1"), ShouldEqual, 1)
			So(s.Count(ctx, "org-2"), ShouldEqual, 1)

			_, err := s.Rank(ctx, "org-2", "p1")
			So(err, ShouldEqual, repository.ErrNotFound)
		})
	})
}

func TestTopN(t *testing.T) {
	Convey("Given a store with four scored players", t, func() {
		s := repository.NewTreapRankStore()
		ctx := context.Background()

		s.UpdateScore(ctx, "org-1", "p1", "Ana", "forward", 80.0)
		s.UpdateScore(ctx, "org-1", "p2", "Bram", "defender", 65.0)
		s.UpdateScore(ctx, "org-1", "p3", "Cleo", "midfielder", 65.0)
		s.UpdateScore(ctx, "org-1", "p4", "Dani", "goalkeeper", 50.0)

		Convey("TopN returns entries ordered by score desc", func() {
			top, err := s.TopN(ctx, "org-1", 10)
			So(err, ShouldBeNil)
			So(top, ShouldHaveLength, 4)
			So(top[0].PlayerID, ShouldEqual, "p1")
			So(top[3].PlayerID, ShouldEqual, "p4")
		})

		Convey("Equal scores share a rank and break ties by player id", func() {
			top, err := s.TopN(ctx, "org-1", 10)
			So(err, ShouldBeNil)
			So(top[1].PlayerID, ShouldEqual, "p2")
			So(top[2].PlayerID, ShouldEqual, "p3")
			So(top[1].Rank, ShouldEqual, 2)
			So(top[2].Rank, ShouldEqual, 2)
			So(top[3].Rank, ShouldEqual, 3)
		})

		Convey("TopN truncates to the requested limit", func() {
			top, err := s.TopN(ctx, "org-1", 2)
			So(err, ShouldBeNil)
			So(top, ShouldHaveLength, 2)
		})

		Convey("A non-positive limit is rejected", func() {
			_, err := s.TopN(ctx, "org-1", 0)
			So(err, ShouldEqual, repository.ErrInvalidLimit)
		})

		Convey("An unknown org yields an empty ranking", func() {
			top, err := s.TopN(ctx, "nope", 5)
			So(err, ShouldBeNil)
			So(top, ShouldBeEmpty)
		})
	})
}

func TestRankAndRemove(t *testing.T) {
	Convey("Given a populated ranking", t, func() {
		s := repository.NewTreapRankStore()
		ctx := context.Background()

		s.UpdateScore(ctx, "org-1", "p1", "Ana", "forward", 80.0)
		s.UpdateScore(ctx, "org-1", "p2", "Bram", "defender", 65.0)
		s.UpdateScore(ctx, "org-1", "p3", "Cleo", "midfielder", 50.0)

		Convey("Rank reports the player's position and metadata", func() {
			e, err := s.Rank(ctx, "org-1", "p2")
			So(err, ShouldBeNil)
			So(e.Rank, ShouldEqual, 2)
			So(e.Name, ShouldEqual, "Bram")
			So(e.Position, ShouldEqual, "defender")
		})

		Convey("Rank of an unscored player is ErrNotFound", func() {
			_, err := s.Rank(ctx, "org-1", "ghost")
			So(err, ShouldEqual, repository.ErrNotFound)
		})

		Convey("Remove drops the player and closes the gap", func() {
			s.Remove(ctx, "org-1", "p1")
			So(s.Count(ctx, "org-1"), ShouldEqual, 2)

			e, err := s.Rank(ctx, "org-1", "p2")
			So(err, ShouldBeNil)
			So(e.Rank, ShouldEqual, 1)
		})

		Convey("Remove of an unknown player is a no-op", func() {
			s.Remove(ctx, "org-1", "ghost")
			So(s.Count(ctx, "org-1"), ShouldEqual, 3)
		})
	})
}

func TestConcurrentUpdates(t *testing.T) {
	s := repository.NewTreapRankStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				id := fmt.Sprintf("p%d", i)
				s.UpdateScore(ctx, "org-1", id, "Player "+id, "midfielder", float64(g*50+i))
			}
		}(g)
	}
	wg.Wait()

	if got := s.Count(ctx, "org-1"); got != 50 {
		t.Fatalf("expected 50 ranked players, got %d", got)
	}
	top, err := s.TopN(ctx, "org-1", 50)
	if err != nil {
		t.Fatalf("TopN: %v", err)
	}
	for i := 1; i < len(top); i++ {
		if top[i-1].Score < top[i].Score {
			t.Fatalf("ranking out of order at %d: %f < %f", i, top[i-1].Score, top[i].Score)
		}
	}
}
