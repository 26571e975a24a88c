// Package ledger records per-user participation counts with a weekly
// reset.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/okian/faceoff/internal/adapters/repository"
	"github.com/okian/faceoff/internal/domain/model"
)

// defaultIncrement is credited per completed matchup. Deployments that
// count partial credit per button press configure 0.25 instead.
const defaultIncrement = 1.0

// Ledger tracks cumulative and weekly vote counts per user.
type Ledger struct {
	store     repository.LedgerStore
	increment float64
	now       func() time.Time
}

// New creates a Ledger over the given store.
func New(store repository.LedgerStore, opts ...Option) *Ledger {
	l := &Ledger{
		store:     store,
		increment: defaultIncrement,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// RecordVote credits one increment to username's counters and stamps
// today's date. On the first vote of a new week (Monday, with the last
// vote recorded on an earlier day) the weekly counter resets to exactly
// one increment instead of accumulating onto the stale value. The date
// stamp makes the reset fire at most once per user per week: later
// same-day calls see lastVoted == today and take the increment path.
func (l *Ledger) RecordVote(ctx context.Context, username string) (model.UserRecord, error) {
	name := model.CanonicalUsername(username)
	if name == "" {
		return model.UserRecord{}, ErrEmptyUsername
	}

	now := l.now()
	today := now.Format(model.DateLayout)

	rec, err := l.store.GetUser(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		rec = model.UserRecord{
			Username:    name,
			TotalVotes:  l.increment,
			WeeklyVotes: l.increment,
			LastVoted:   today,
		}
	case err != nil:
		return model.UserRecord{}, fmt.Errorf("load user record: %w", err)
	default:
		rec.TotalVotes += l.increment
		if now.Weekday() == time.Monday && rec.LastVoted != today {
			rec.WeeklyVotes = l.increment
		} else {
			rec.WeeklyVotes += l.increment
		}
		rec.LastVoted = today
	}

	if err := l.store.PutUser(ctx, rec); err != nil {
		return model.UserRecord{}, fmt.Errorf("store user record: %w", err)
	}
	return rec, nil
}

// TopAll returns up to n users ordered by cumulative votes descending.
func (l *Ledger) TopAll(ctx context.Context, n int) ([]model.UserRecord, error) {
	return l.top(ctx, n, func(a, b model.UserRecord) bool {
		return a.TotalVotes > b.TotalVotes
	})
}

// TopWeekly returns up to n users ordered by weekly votes descending.
func (l *Ledger) TopWeekly(ctx context.Context, n int) ([]model.UserRecord, error) {
	return l.top(ctx, n, func(a, b model.UserRecord) bool {
		return a.WeeklyVotes > b.WeeklyVotes
	})
}

func (l *Ledger) top(ctx context.Context, n int, less func(a, b model.UserRecord) bool) ([]model.UserRecord, error) {
	users, err := l.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list user records: %w", err)
	}

	sort.SliceStable(users, func(i, j int) bool { return less(users[i], users[j]) })
	if n > 0 && len(users) > n {
		users = users[:n]
	}
	return users, nil
}
