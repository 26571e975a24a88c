package ranking_test

import (
	"testing"

	model "github.com/okian/faceoff/internal/domain/model"
	ranking "github.com/okian/faceoff/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func TestByCategory(t *testing.T) {
	Convey("Given players across categories", t, func() {
		players := []model.Player{
			{ID: "jefferson", Rating: 1320, Category: "WR"},
			{ID: "chase", Rating: 1310, Category: "WR"},
			{ID: "lamb", Rating: 1310, Category: "WR"},
			{ID: "hill", Rating: 1200, Category: "WR"},
			{ID: "bijan", Rating: 1250, Category: "RB"},
			{ID: "gibbs", Rating: 1240, Category: "RB"},
		}

		Convey("When ranking by category", func() {
			ranks := ranking.ByCategory(players)

			Convey("Then ranks restart per category", func() {
				So(ranks["jefferson"], ShouldEqual, 1)
				So(ranks["bijan"], ShouldEqual, 1)
				So(ranks["gibbs"], ShouldEqual, 2)
			})

			Convey("Then ties share the minimum rank and the next rank skips", func() {
				So(ranks["chase"], ShouldEqual, 2)
				So(ranks["lamb"], ShouldEqual, 2)
				So(ranks["hill"], ShouldEqual, 4)
			})
		})

		Convey("When the pool is empty", func() {
			So(ranking.ByCategory(nil), ShouldBeEmpty)
		})
	})
}
