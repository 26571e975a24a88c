package model_test

import (
	"testing"

	model "github.com/okian/faceoff/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestMatchup(t *testing.T) {
	convey.Convey("Given two distinct players", t, func() {
		a := model.Player{ID: "jefferson", Rating: 1200, Category: "WR"}
		b := model.Player{ID: "chase", Rating: 1190, Category: "WR"}

		convey.Convey("When building a matchup", func() {
			m, err := model.NewMatchup(a, b)

			convey.Convey("Then it should succeed and derive the id", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(m.ID(), convey.ShouldEqual, "jefferson_vs_chase")
			})

			convey.Convey("Then Other should resolve the opponent", func() {
				other, ok := m.Other("jefferson")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(other.ID, convey.ShouldEqual, "chase")

				other, ok = m.Other("chase")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(other.ID, convey.ShouldEqual, "jefferson")

				_, ok = m.Other("kelce")
				convey.So(ok, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When pairing a player with itself", func() {
			_, err := model.NewMatchup(a, a)

			convey.Convey("Then it should be refused", func() {
				convey.So(err, convey.ShouldEqual, model.ErrSamePlayer)
			})
		})
	})
}

func TestCanonicalUsername(t *testing.T) {
	convey.Convey("Given mixed-case and padded usernames", t, func() {
		convey.So(model.CanonicalUsername("DraftKing"), convey.ShouldEqual, "draftking")
		convey.So(model.CanonicalUsername("  Ana  "), convey.ShouldEqual, "ana")
		convey.So(model.CanonicalUsername("already"), convey.ShouldEqual, "already")
	})
}
