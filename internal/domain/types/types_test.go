package types_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/faceoff/internal/domain/model"
	types "github.com/okian/faceoff/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func TestPlayerViewJSON(t *testing.T) {
	convey.Convey("Given a player view", t, func() {
		v := types.PlayerView{
			Player: model.Player{
				ID:       "jefferson",
				Rating:   1320,
				Category: "WR",
				Meta:     model.Meta{Team: "MIN"},
			},
			CategoryRank: 1,
		}

		convey.Convey("When marshaled", func() {
			b, err := json.Marshal(v)

			convey.Convey("Then the player fields are flattened with the rank", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(b), convey.ShouldContainSubstring, `"id":"jefferson"`)
				convey.So(string(b), convey.ShouldContainSubstring, `"category_rank":1`)
				convey.So(string(b), convey.ShouldContainSubstring, `"team":"MIN"`)
			})
		})
	})
}
