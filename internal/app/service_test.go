package service_test

import (
	"context"
	"testing"

	repository "github.com/okian/faceoff/internal/adapters/repository"
	service "github.com/okian/faceoff/internal/app"
	model "github.com/okian/faceoff/internal/domain/model"
	sampler "github.com/okian/faceoff/internal/domain/sampler"
	session "github.com/okian/faceoff/internal/domain/session"
	"github.com/okian/faceoff/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func startService(t *testing.T, players []model.Player, opts ...service.Option) *service.Service {
	t.Helper()
	So(logger.Init(), ShouldBeNil)

	store := repository.NewMemStore(repository.WithPlayers(players))
	opts = append([]service.Option{
		service.WithPlayerStore(store),
		service.WithLedgerStore(store),
	}, opts...)

	svc := service.New(opts...)
	So(svc.Start(context.Background()), ShouldBeNil)
	t.Cleanup(svc.Stop)
	return svc
}

func pool() []model.Player {
	return []model.Player{
		{ID: "jefferson", Rating: 1200, Category: "WR"},
		{ID: "chase", Rating: 1190, Category: "WR"},
		{ID: "bijan", Rating: 1250, Category: "RB"},
		{ID: "gibbs", Rating: 1240, Category: "RB"},
	}
}

func TestServiceSessionFlow(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := startService(t, pool())

		Convey("When a session selects, votes, and advances", func() {
			id, err := svc.CreateSession(ctx)
			So(err, ShouldBeNil)

			view, err := svc.SelectMatchup(ctx, id, nil)
			So(err, ShouldBeNil)
			So(view.First.ID, ShouldNotEqual, view.Second.ID)
			So(view.MatchupID, ShouldEqual, view.First.ID+"_vs_"+view.Second.ID)

			Convey("Then a repeat select returns the same matchup", func() {
				again, err := svc.SelectMatchup(ctx, id, nil)
				So(err, ShouldBeNil)
				So(again.MatchupID, ShouldEqual, view.MatchupID)
			})

			Convey("Then a vote updates ratings and the ledger", func() {
				outcome, err := svc.CastVote(ctx, id, "DraftKing", view.First.ID)
				So(err, ShouldBeNil)
				So(outcome.Winner.Player.ID, ShouldEqual, view.First.ID)
				So(outcome.Winner.Final, ShouldBeGreaterThanOrEqualTo, outcome.Winner.Initial)
				So(outcome.User.TotalVotes, ShouldEqual, 1.0)

				Convey("And a duplicate vote is rejected", func() {
					_, err := svc.CastVote(ctx, id, "DraftKing", view.Second.ID)
					So(err, ShouldEqual, session.ErrAlreadyVoted)
				})

				Convey("And next serves a fresh matchup", func() {
					next, err := svc.NextMatchup(ctx, id, nil)
					So(err, ShouldBeNil)
					So(next.First.ID, ShouldNotEqual, next.Second.ID)
				})
			})

			Convey("Then voting without a username is refused", func() {
				_, err := svc.CastVote(ctx, id, "", view.First.ID)
				So(err, ShouldEqual, session.ErrNoUsername)
			})
		})

		Convey("When a category filter is used", func() {
			id, _ := svc.CreateSession(ctx)
			view, err := svc.SelectMatchup(ctx, id, []string{"RB"})

			Convey("Then both players match the filter", func() {
				So(err, ShouldBeNil)
				So(view.First.Category, ShouldEqual, "RB")
				So(view.Second.Category, ShouldEqual, "RB")
				So(view.Warning, ShouldBeEmpty)
			})
		})

		Convey("When the filter matches nothing", func() {
			id, _ := svc.CreateSession(ctx)
			view, err := svc.SelectMatchup(ctx, id, []string{"QB"})

			Convey("Then the view carries a fallback warning", func() {
				So(err, ShouldBeNil)
				So(view.Warning, ShouldNotBeEmpty)
			})
		})

		Convey("When an unknown session id is used", func() {
			_, err := svc.SelectMatchup(ctx, "missing", nil)
			So(err, ShouldEqual, service.ErrSessionNotFound)
		})
	})

	Convey("Given a service over an empty pool", t, func() {
		svc := startService(t, nil)
		id, _ := svc.CreateSession(ctx)

		Convey("When selecting a matchup", func() {
			_, err := svc.SelectMatchup(ctx, id, nil)
			So(err, ShouldEqual, session.ErrNoPlayers)
		})
	})
}

func TestServiceViews(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := startService(t, pool(), service.WithSamplerOptions(sampler.WithJitter(0)))

		Convey("When listing players", func() {
			players, err := svc.Players(ctx)

			Convey("Then every player carries its category rank", func() {
				So(err, ShouldBeNil)
				So(players, ShouldHaveLength, 4)
				ranks := map[string]int{}
				for _, p := range players {
					ranks[p.ID] = p.CategoryRank
				}
				So(ranks["jefferson"], ShouldEqual, 1)
				So(ranks["chase"], ShouldEqual, 2)
				So(ranks["bijan"], ShouldEqual, 1)
			})
		})

		Convey("When fetching leaderboards after votes", func() {
			id, _ := svc.CreateSession(ctx)
			view, err := svc.SelectMatchup(ctx, id, nil)
			So(err, ShouldBeNil)
			_, err = svc.CastVote(ctx, id, "ana", view.First.ID)
			So(err, ShouldBeNil)

			all, err := svc.Leaderboard(ctx, service.ScopeAll, 5)
			So(err, ShouldBeNil)
			So(all, ShouldHaveLength, 1)
			So(all[0].Username, ShouldEqual, "ana")
			So(all[0].Rank, ShouldEqual, 1)

			weekly, err := svc.Leaderboard(ctx, service.ScopeWeekly, 5)
			So(err, ShouldBeNil)
			So(weekly[0].Votes, ShouldEqual, 1.0)
		})

		Convey("When reading stats", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["totalPlayers"], ShouldEqual, 4)
		})
	})
}
