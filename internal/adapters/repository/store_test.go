package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	repository "github.com/okian/faceoff/internal/adapters/repository"
	model "github.com/okian/faceoff/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func seedPool() []model.Player {
	return []model.Player{
		{ID: "jefferson", Rating: 1320, Category: "WR", Meta: model.Meta{Team: "MIN"}},
		{ID: "bijan", Rating: 1250, Category: "RB", Meta: model.Meta{Team: "ATL"}},
	}
}

func TestMemStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a seeded in-memory store", t, func() {
		store := repository.NewMemStore(repository.WithPlayers(seedPool()))

		Convey("When listing players", func() {
			players, err := store.List(ctx)

			Convey("Then the seed pool comes back in order", func() {
				So(err, ShouldBeNil)
				So(players, ShouldHaveLength, 2)
				So(players[0].ID, ShouldEqual, "jefferson")
				So(players[1].Meta.Team, ShouldEqual, "ATL")
			})
		})

		Convey("When updating a rating", func() {
			err := store.UpdateRating(ctx, "jefferson", 1332)

			Convey("Then the new rating is visible on the next list", func() {
				So(err, ShouldBeNil)
				players, _ := store.List(ctx)
				So(players[0].Rating, ShouldEqual, 1332)
			})
		})

		Convey("When updating an unknown player", func() {
			err := store.UpdateRating(ctx, "ghost", 1000)
			So(err, ShouldEqual, repository.ErrNotFound)
		})

		Convey("When working with user records", func() {
			Convey("Then a missing user reports not found", func() {
				_, err := store.GetUser(ctx, "nobody")
				So(err, ShouldEqual, repository.ErrNotFound)
			})

			Convey("Then put and get round-trip with canonical usernames", func() {
				rec := model.UserRecord{Username: "DraftKing", TotalVotes: 3, WeeklyVotes: 1, LastVoted: "2026-08-24"}
				So(store.PutUser(ctx, rec), ShouldBeNil)

				got, err := store.GetUser(ctx, "draftking")
				So(err, ShouldBeNil)
				So(got.Username, ShouldEqual, "draftking")
				So(got.TotalVotes, ShouldEqual, 3)

				users, err := store.ListUsers(ctx)
				So(err, ShouldBeNil)
				So(users, ShouldHaveLength, 1)
			})
		})
	})
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a sqlite store on a fresh database", t, func() {
		path := filepath.Join(t.TempDir(), "faceoff.db")
		store, err := repository.NewSQLiteStore(ctx, path, repository.WithSeedPlayers(seedPool()))
		So(err, ShouldBeNil)
		defer store.Close()

		Convey("When listing players", func() {
			players, err := store.List(ctx)

			Convey("Then the seed pool is present with metadata", func() {
				So(err, ShouldBeNil)
				So(players, ShouldHaveLength, 2)
				byID := map[string]model.Player{}
				for _, p := range players {
					byID[p.ID] = p
				}
				So(byID["jefferson"].Category, ShouldEqual, "WR")
				So(byID["bijan"].Meta.Team, ShouldEqual, "ATL")
			})
		})

		Convey("When updating a rating", func() {
			So(store.UpdateRating(ctx, "bijan", 1262), ShouldBeNil)

			players, _ := store.List(ctx)
			for _, p := range players {
				if p.ID == "bijan" {
					So(p.Rating, ShouldEqual, 1262)
				}
			}
		})

		Convey("When updating an unknown player", func() {
			So(store.UpdateRating(ctx, "ghost", 1000), ShouldEqual, repository.ErrNotFound)
		})

		Convey("When reopening the same database", func() {
			rec := model.UserRecord{Username: "ana", TotalVotes: 0.25, WeeklyVotes: 0.25, LastVoted: "2026-08-24"}
			So(store.PutUser(ctx, rec), ShouldBeNil)
			So(store.Close(), ShouldBeNil)

			reopened, err := repository.NewSQLiteStore(ctx, path, repository.WithSeedPlayers(seedPool()))
			So(err, ShouldBeNil)
			defer reopened.Close()

			Convey("Then data persists and the seed does not duplicate", func() {
				players, err := reopened.List(ctx)
				So(err, ShouldBeNil)
				So(players, ShouldHaveLength, 2)

				got, err := reopened.GetUser(ctx, "ana")
				So(err, ShouldBeNil)
				So(got.WeeklyVotes, ShouldEqual, 0.25)
			})
		})
	})
}
