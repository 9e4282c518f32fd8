package analysis_test

import (
	"testing"
	"time"

	"github.com/touchline/scoutbase/internal/domain/analysis"
	"github.com/touchline/scoutbase/internal/domain/model"
	"github.com/touchline/scoutbase/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func forward() *model.Player {
	return &model.Player{
		ID:            "p-7",
		Name:          "Ivo Martens",
		Club:          "SK Vuurtoren",
		Position:      types.Forward,
		Age:           24,
		HeightCM:      183,
		WeightKG:      78,
		Goals:         18,
		Assists:       7,
		AverageRating: 7.8,
		PassAccuracy:  79,
	}
}

func TestAnalyze(t *testing.T) {
	Convey("Given an analyzer with a fixed clock", t, func() {
		fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		a := analysis.NewAnalyzer(analysis.WithClock(func() time.Time { return fixed }))

		Convey("When analyzing a forward", func() {
			res, err := a.Analyze(forward())
			So(err, ShouldBeNil)

			Convey("Then derived scores follow the rating formulas", func() {
				So(res.Ratings.Overall, ShouldEqual, 7.8)
				So(res.Ratings.Technical, ShouldEqual, 39)  // min(50, 79/100*50)
				So(res.Ratings.Attacking, ShouldEqual, 50)  // min(50, (18+7)*2)
			})

			Convey("And generated values sit inside the forward bands", func() {
				So(res.PhysicalAttributes.Speed, ShouldBeBetweenOrEqual, 80, 95)
				So(res.Radar["Finishing"], ShouldBeBetweenOrEqual, 75, 90)
				So(res.PhysicalAttributes.Power, ShouldBeBetweenOrEqual, 70, 85)
			})

			Convey("And position texts match the forward profile", func() {
				So(res.PositionAnalysis.KeyStrengths[0], ShouldEqual, "Clinical finishing")
				So(res.PositionAnalysis.AreasForImprovement[0], ShouldEqual, "Defensive work rate")
				So(res.Recommendations[0], ShouldStartWith, "Focus on improving")
			})

			Convey("And the market value follows the value model", func() {
				// base = (7.8-5)*10 = 28; ageFactor = (35-24)/10 = 1.1;
				// performance = 1 + 25*0.1 = 3.5 -> 107.8
				So(res.MarketAnalysis.CurrentValue, ShouldEqual, 107.8)
				So(res.MarketAnalysis.ValueTrend, ShouldBeIn, []string{"rising", "stable"})
				ratio := res.MarketAnalysis.PredictedValue / res.MarketAnalysis.CurrentValue
				So(ratio, ShouldBeBetweenOrEqual, 0.89, 1.31)
			})

			Convey("And the radar holds the six chart axes", func() {
				for _, k := range []string{"Speed", "Technical", "Physical", "Finishing", "Passing", "Defending"} {
					So(res.Radar, ShouldContainKey, k)
				}
				So(res.Radar["Passing"], ShouldEqual, 79)
			})

			Convey("And the timestamp comes from the clock", func() {
				So(res.Timestamp, ShouldEqual, fixed)
			})
		})

		Convey("Analyses are deterministic per player", func() {
			first, err := a.Analyze(forward())
			So(err, ShouldBeNil)
			second, err := a.Analyze(forward())
			So(err, ShouldBeNil)
			So(second, ShouldResemble, first)
		})

		Convey("A nil player is rejected", func() {
			_, err := a.Analyze(nil)
			So(err, ShouldNotBeNil)
		})

		Convey("An old low-involvement player keeps the value floor factors", func() {
			p := forward()
			p.Age = 34
			p.Goals, p.Assists = 0, 0
			p.AverageRating = 5.0
			res, err := a.Analyze(p)
			So(err, ShouldBeNil)
			// base floors at 1, ageFactor = max(0.5, 0.1) -> value 0.1 rounded.
			So(res.MarketAnalysis.CurrentValue, ShouldBeGreaterThan, 0)
			So(res.MarketAnalysis.CurrentValue, ShouldBeLessThan, 1)
		})
	})
}

func TestCompare(t *testing.T) {
	Convey("Given an analyzer", t, func() {
		a := analysis.NewAnalyzer()

		p1 := forward()
		p2 := forward()
		p2.ID, p2.Name = "p-8", "Luca Brandt"
		p2.AverageRating = 6.9
		p2.Goals = 4

		Convey("Comparing two players yields a table and stats", func() {
			res, err := a.Compare([]*model.Player{p1, p2})
			So(err, ShouldBeNil)
			So(res.Players, ShouldResemble, []string{"Ivo Martens", "Luca Brandt"})
			So(len(res.Table), ShouldEqual, 2)

			stat := res.Stats["overall_rating"]
			So(stat.BestPlayer, ShouldEqual, "Ivo Martens")
			So(stat.Max, ShouldEqual, 7.8)
			So(stat.Min, ShouldEqual, 6.9)
			So(stat.Mean, ShouldEqual, 7.35)
		})

		Convey("Insights name the best player", func() {
			res, err := a.Compare([]*model.Player{p1, p2})
			So(err, ShouldBeNil)
			So(res.Insights[0], ShouldEqual, "Ivo Martens has the highest overall rating")
		})

		Convey("A single player is rejected", func() {
			_, err := a.Compare([]*model.Player{p1})
			So(err, ShouldEqual, analysis.ErrNotEnoughPlayers)
		})
	})
}
