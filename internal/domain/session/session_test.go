package session_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	repository "github.com/okian/faceoff/internal/adapters/repository"
	ledger "github.com/okian/faceoff/internal/domain/ledger"
	model "github.com/okian/faceoff/internal/domain/model"
	sampler "github.com/okian/faceoff/internal/domain/sampler"
	session "github.com/okian/faceoff/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

// countingStore wraps a PlayerStore to count and optionally fail
// rating writes.
type countingStore struct {
	repository.PlayerStore
	updates   int
	failAfter int // fail the Nth update (1-based); 0 never fails
}

var errWriteFailed = errors.New("simulated store write failure")

func (c *countingStore) UpdateRating(ctx context.Context, id string, r float64) error {
	c.updates++
	if c.failAfter > 0 && c.updates >= c.failAfter {
		return errWriteFailed
	}
	return c.PlayerStore.UpdateRating(ctx, id, r)
}

func newFixture(players []model.Player) (*countingStore, *repository.MemStore, *session.Session) {
	mem := repository.NewMemStore(repository.WithPlayers(players))
	store := &countingStore{PlayerStore: mem}
	voteLedger := ledger.New(mem, ledger.WithNow(func() time.Time {
		return time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC) // a Wednesday
	}))
	smp := sampler.New(sampler.WithRand(rand.New(rand.NewSource(7)))) //nolint:gosec // fixed seed for reproducibility
	return store, mem, session.New(store, voteLedger, smp)
}

func twoPlayers() []model.Player {
	return []model.Player{
		{ID: "jefferson", Rating: 1200, Category: "WR"},
		{ID: "chase", Rating: 1190, Category: "WR"},
	}
}

func TestSelect(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh session over a small pool", t, func() {
		_, _, sess := newFixture(twoPlayers())

		Convey("When selecting without a filter", func() {
			m, warning, err := sess.Select(ctx, nil)

			Convey("Then a distinct pair is presented with initial snapshots", func() {
				So(err, ShouldBeNil)
				So(warning, ShouldBeFalse)
				So(m.First.ID, ShouldNotEqual, m.Second.ID)
				So(sess.State(), ShouldEqual, session.StatePresented)

				initial, ok := sess.InitialRating(m.First.ID)
				So(ok, ShouldBeTrue)
				So(initial, ShouldEqual, m.First.Rating)
			})

			Convey("And selecting again without Next is refused", func() {
				So(err, ShouldBeNil)
				_, _, err := sess.Select(ctx, nil)
				So(err, ShouldEqual, session.ErrMatchupPending)
			})
		})

		Convey("When the filter matches nothing", func() {
			m, warning, err := sess.Select(ctx, []string{"QB"})

			Convey("Then the session falls back to the whole pool with a warning", func() {
				So(err, ShouldBeNil)
				So(warning, ShouldBeTrue)
				So(m.First.ID, ShouldNotEqual, m.Second.ID)
			})
		})

		Convey("When the pool is empty", func() {
			_, _, empty := newFixture(nil)
			_, _, err := empty.Select(ctx, nil)
			So(err, ShouldEqual, session.ErrNoPlayers)
		})
	})
}

func TestCastVote(t *testing.T) {
	ctx := context.Background()

	Convey("Given a presented matchup between 1200 and 1190", t, func() {
		store, mem, sess := newFixture(twoPlayers())
		sess.SetUsername("DraftKing")
		_, _, err := sess.Select(ctx, nil)
		So(err, ShouldBeNil)

		Convey("When voting for the 1200 player", func() {
			outcome, err := sess.CastVote(ctx, "jefferson")

			Convey("Then ratings follow the logistic formula at k=24", func() {
				So(err, ShouldBeNil)
				So(outcome.Winner.Player.ID, ShouldEqual, "jefferson")
				So(outcome.Winner.Initial, ShouldEqual, 1200)
				So(outcome.Winner.Final, ShouldEqual, 1212)
				So(outcome.Loser.Final, ShouldEqual, 1178)
				So(outcome.Winner.Delta, ShouldEqual, 12)
			})

			Convey("Then both ratings are persisted", func() {
				So(err, ShouldBeNil)
				So(store.updates, ShouldEqual, 2)

				players, _ := mem.List(ctx)
				byID := map[string]float64{}
				for _, p := range players {
					byID[p.ID] = p.Rating
				}
				So(byID["jefferson"], ShouldEqual, 1212)
				So(byID["chase"], ShouldEqual, 1178)
			})

			Convey("Then the ledger credits the user exactly once", func() {
				So(err, ShouldBeNil)
				rec, err := mem.GetUser(ctx, "draftking")
				So(err, ShouldBeNil)
				So(rec.TotalVotes, ShouldEqual, 1.0)
			})

			Convey("And a second vote on the same matchup is rejected without mutation", func() {
				So(err, ShouldBeNil)
				_, err := sess.CastVote(ctx, "chase")
				So(err, ShouldEqual, session.ErrAlreadyVoted)
				So(store.updates, ShouldEqual, 2)

				rec, _ := mem.GetUser(ctx, "draftking")
				So(rec.TotalVotes, ShouldEqual, 1.0)
			})
		})

		Convey("When voting without a username", func() {
			sess.SetUsername("")
			_, err := sess.CastVote(ctx, "jefferson")

			Convey("Then the vote is refused with no state change", func() {
				So(err, ShouldEqual, session.ErrNoUsername)
				So(sess.State(), ShouldEqual, session.StatePresented)
				So(store.updates, ShouldEqual, 0)
			})
		})

		Convey("When voting for a player outside the matchup", func() {
			_, err := sess.CastVote(ctx, "kelce")
			So(err, ShouldEqual, session.ErrUnknownPlayer)
			So(sess.State(), ShouldEqual, session.StatePresented)
		})

		Convey("When a rating write fails", func() {
			store.failAfter = 1
			_, err := sess.CastVote(ctx, "jefferson")

			Convey("Then the failure propagates and the session stays un-voted", func() {
				So(errors.Is(err, errWriteFailed), ShouldBeTrue)
				So(sess.State(), ShouldEqual, session.StatePresented)
				So(sess.Outcome(), ShouldBeNil)
			})
		})
	})

	Convey("Given a session with no matchup presented", t, func() {
		_, _, sess := newFixture(twoPlayers())
		sess.SetUsername("ana")

		Convey("When voting anyway", func() {
			_, err := sess.CastVote(ctx, "jefferson")
			So(err, ShouldEqual, session.ErrNoMatchup)
		})
	})
}

func TestNext(t *testing.T) {
	ctx := context.Background()

	Convey("Given a voted matchup", t, func() {
		_, _, sess := newFixture(twoPlayers())
		sess.SetUsername("ana")
		_, _, err := sess.Select(ctx, nil)
		So(err, ShouldBeNil)
		_, err = sess.CastVote(ctx, "jefferson")
		So(err, ShouldBeNil)

		Convey("When requesting the next matchup", func() {
			m, _, err := sess.Next(ctx, nil)

			Convey("Then a new pair is presented and vote state is cleared", func() {
				So(err, ShouldBeNil)
				So(sess.State(), ShouldEqual, session.StatePresented)
				So(sess.Outcome(), ShouldBeNil)
				So(m.First.ID, ShouldNotEqual, m.Second.ID)
			})

			Convey("And the fresh matchup snapshots the updated ratings", func() {
				So(err, ShouldBeNil)
				initial, ok := sess.InitialRating(m.First.ID)
				So(ok, ShouldBeTrue)
				So(initial, ShouldEqual, m.First.Rating)
			})
		})

		Convey("When skipping an unvoted matchup", func() {
			_, _, err := sess.Next(ctx, nil)
			So(err, ShouldBeNil)
			_, _, err = sess.Next(ctx, nil) // presented, not voted
			So(err, ShouldBeNil)
			So(sess.State(), ShouldEqual, session.StatePresented)
		})
	})

	Convey("Given a session that never selected", t, func() {
		_, _, sess := newFixture(twoPlayers())

		Convey("When calling Next directly", func() {
			m, _, err := sess.Next(ctx, nil)

			Convey("Then it behaves like a first selection", func() {
				So(err, ShouldBeNil)
				So(sess.State(), ShouldEqual, session.StatePresented)
				So(sess.Outcome(), ShouldBeNil)
				So(m.First.ID, ShouldNotEqual, m.Second.ID)
			})
		})
	})
}
