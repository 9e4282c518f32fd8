package seed

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGeneratePlayer(t *testing.T) {
	Convey("Given the demo data generator", t, func() {
		Convey("When generating a batch of players", func() {
			for i := 0; i < 200; i++ {
				p := generatePlayer(i + 1)

				So(p.Name, ShouldNotBeBlank)
				So(p.Age, ShouldBeBetweenOrEqual, 15, 50)
				So(p.Potential, ShouldBeBetweenOrEqual, 0, 100)
				So(p.AverageRating, ShouldBeBetweenOrEqual, 0, 10)
				So(p.PassAccuracy, ShouldBeBetweenOrEqual, 0, 100)
				So(p.Attributes, ShouldHaveLength, 15)
				for _, v := range p.Attributes {
					So(v, ShouldBeBetweenOrEqual, 0, 100)
				}
				So([]string{"goalkeeper", "defender", "midfielder", "forward"}, ShouldContain, p.Position)
				So([]string{"left", "right", "both"}, ShouldContain, p.PreferredFoot)
			}
		})

		Convey("When generating players with distinct indices", func() {
			a := generatePlayer(1)
			b := generatePlayer(2)

			Convey("Then their names never collide", func() {
				So(a.Name, ShouldNotEqual, b.Name)
			})
		})
	})
}
