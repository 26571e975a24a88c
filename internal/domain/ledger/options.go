package ledger

import "time"

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithIncrement sets the credit added per recorded vote.
func WithIncrement(inc float64) Option {
	return func(l *Ledger) {
		if inc > 0 {
			l.increment = inc
		}
	}
}

// WithNow sets the clock, used by tests to pin the weekday.
func WithNow(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}
