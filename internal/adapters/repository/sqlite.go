package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/faceoff/internal/domain/model"
)

// schema creates both tables. Safe to run repeatedly.
const schema = `
CREATE TABLE IF NOT EXISTS players (
    name TEXT PRIMARY KEY,
    elo REAL NOT NULL,
    pos TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    team TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS user_votes (
    username TEXT PRIMARY KEY,
    total_votes REAL NOT NULL DEFAULT 0,
    weekly_votes REAL NOT NULL DEFAULT 0,
    last_voted TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_players_pos ON players(pos);
`

// SQLiteStore implements Store on a local SQLite database.
//
// Writes are plain row updates; cross-process read-modify-write on a
// rating is not serialized here (see PlayerStore).
type SQLiteStore struct {
	db   *sql.DB
	seed []model.Player
}

// NewSQLiteStore opens (creating if needed) the database at path and
// ensures the schema exists.
func NewSQLiteStore(ctx context.Context, path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &SQLiteStore{db: db}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	if err := s.seedIfEmpty(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite database: %w", err)
	}
	return nil
}

func (s *SQLiteStore) seedIfEmpty(ctx context.Context) error {
	if len(s.seed) == 0 {
		return nil
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count); err != nil {
		return fmt.Errorf("count players: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, p := range s.seed {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO players (name, elo, pos, image_url, team)
			VALUES (?, ?, ?, ?, ?)
		`, p.ID, p.Rating, p.Category, p.Meta.ImageURL, p.Meta.Team)
		if err != nil {
			return fmt.Errorf("seed player %s: %w", p.ID, err)
		}
	}
	return nil
}

// List returns a snapshot of all players.
func (s *SQLiteStore) List(ctx context.Context) ([]model.Player, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, elo, pos, image_url, team FROM players ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		var p model.Player
		if err := rows.Scan(&p.ID, &p.Rating, &p.Category, &p.Meta.ImageURL, &p.Meta.Team); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return out, nil
}

// UpdateRating persists a new rating for a player.
func (s *SQLiteStore) UpdateRating(ctx context.Context, id string, rating float64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE players SET elo = ? WHERE name = ?`, rating, id)
	if err != nil {
		return fmt.Errorf("update rating for %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update rating for %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetUser returns the record for a canonical username.
func (s *SQLiteStore) GetUser(ctx context.Context, username string) (model.UserRecord, error) {
	var rec model.UserRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT username, total_votes, weekly_votes, last_voted
		FROM user_votes WHERE username = ?
	`, model.CanonicalUsername(username)).
		Scan(&rec.Username, &rec.TotalVotes, &rec.WeeklyVotes, &rec.LastVoted)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserRecord{}, ErrNotFound
	}
	if err != nil {
		return model.UserRecord{}, fmt.Errorf("get user %s: %w", username, err)
	}
	return rec, nil
}

// PutUser inserts or replaces a user record.
func (s *SQLiteStore) PutUser(ctx context.Context, record model.UserRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_votes (username, total_votes, weekly_votes, last_voted)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			total_votes = excluded.total_votes,
			weekly_votes = excluded.weekly_votes,
			last_voted = excluded.last_voted
	`, model.CanonicalUsername(record.Username), record.TotalVotes, record.WeeklyVotes, record.LastVoted)
	if err != nil {
		return fmt.Errorf("put user %s: %w", record.Username, err)
	}
	return nil
}

// ListUsers returns all user records.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]model.UserRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, total_votes, weekly_votes, last_voted FROM user_votes
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []model.UserRecord
	for rows.Next() {
		var rec model.UserRecord
		if err := rows.Scan(&rec.Username, &rec.TotalVotes, &rec.WeeklyVotes, &rec.LastVoted); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}
