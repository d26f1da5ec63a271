package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"affect/internal/affection"
	"affect/internal/history"
	"affect/internal/sentiment"
)

var ErrSessionNotFound = errors.New("session not found")

// Store persists sessions, per-turn sentiment rows, affection state, and
// usage counters in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS sentiment_turns (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(session_id) ON DELETE CASCADE,
			score DOUBLE PRECISION NOT NULL,
			affection_delta INT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			interaction TEXT NOT NULL,
			emotion TEXT NOT NULL DEFAULT '',
			intensity DOUBLE PRECISION NOT NULL DEFAULT 0,
			keywords JSONB NOT NULL DEFAULT '[]'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sentiment_turns_session_created ON sentiment_turns(session_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS affection_states (
			session_id TEXT PRIMARY KEY REFERENCES sessions(session_id) ON DELETE CASCADE,
			level INT NOT NULL,
			mood TEXT NOT NULL,
			mood_turns INT NOT NULL DEFAULT 0,
			last_label TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS usage_counters (
			session_id TEXT NOT NULL,
			bucket TEXT NOT NULL,
			bucket_start TIMESTAMPTZ NOT NULL,
			count INT NOT NULL DEFAULT 0,
			PRIMARY KEY (session_id, bucket, bucket_start)
		);`,
	}

	for _, q := range queries {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// EnsureSession creates the session row if it does not exist yet.
func (s *Store) EnsureSession(ctx context.Context, sessionID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions(session_id) VALUES ($1)
		ON CONFLICT (session_id) DO NOTHING;
	`, sessionID)
	return err
}

// RecordTurn appends one analyzed message to the session history.
func (s *Store) RecordTurn(ctx context.Context, sessionID string, res sentiment.Result, emotion string, intensityScore float64) error {
	kwJSON, err := json.Marshal(res.Keywords)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO sentiment_turns(session_id, score, affection_delta, confidence, interaction, emotion, intensity, keywords)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, sessionID, res.Score, res.AffectionDelta, res.Confidence, string(res.Interaction), emotion, intensityScore, kwJSON)
	return err
}

// RecentTurns returns up to limit turns for the session, oldest first, in
// the shape the history analyzer consumes.
func (s *Store) RecentTurns(ctx context.Context, sessionID string, limit int) ([]history.Turn, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx, `
		SELECT score, affection_delta, emotion, interaction, intensity, keywords
		FROM (
			SELECT score, affection_delta, emotion, interaction, intensity, keywords, created_at
			FROM sentiment_turns
			WHERE session_id=$1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []history.Turn
	for rows.Next() {
		var (
			t           history.Turn
			interaction string
			kwJSON      []byte
		)
		if err := rows.Scan(&t.Score, &t.Delta, &t.Emotion, &interaction, &t.Intensity, &kwJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(kwJSON, &t.Keywords); err != nil {
			return nil, err
		}
		t.Interaction = interaction
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// AffectionState loads the session's affection record.
func (s *Store) AffectionState(ctx context.Context, sessionID string) (affection.State, error) {
	state := affection.State{SessionID: sessionID}
	err := s.pool.QueryRow(ctx, `
		SELECT level, mood, mood_turns, last_label, updated_at
		FROM affection_states
		WHERE session_id=$1
	`, sessionID).Scan(&state.Level, &state.Mood, &state.MoodTurns, &state.LastLabel, &state.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return affection.State{}, ErrSessionNotFound
	}
	if err != nil {
		return affection.State{}, err
	}
	return state, nil
}

// SaveAffectionState upserts the session's affection record.
func (s *Store) SaveAffectionState(ctx context.Context, state affection.State) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO affection_states(session_id, level, mood, mood_turns, last_label, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id)
		DO UPDATE SET level = EXCLUDED.level,
			mood = EXCLUDED.mood,
			mood_turns = EXCLUDED.mood_turns,
			last_label = EXCLUDED.last_label,
			updated_at = EXCLUDED.updated_at;
	`, state.SessionID, state.Level, state.Mood, state.MoodTurns, state.LastLabel, state.UpdatedAt)
	return err
}

// IncrementUsage bumps the hourly and daily counters for the session.
func (s *Store) IncrementUsage(ctx context.Context, sessionID string, now time.Time) error {
	buckets := []struct {
		name  string
		start time.Time
	}{
		{"hour", now.UTC().Truncate(time.Hour)},
		{"day", now.UTC().Truncate(24 * time.Hour)},
	}
	for _, b := range buckets {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO usage_counters(session_id, bucket, bucket_start, count)
			VALUES ($1, $2, $3, 1)
			ON CONFLICT (session_id, bucket, bucket_start)
			DO UPDATE SET count = usage_counters.count + 1;
		`, sessionID, b.name, b.start)
		if err != nil {
			return err
		}
	}
	return nil
}

// UsageCounts returns the current hourly and daily counts for the session.
func (s *Store) UsageCounts(ctx context.Context, sessionID string, now time.Time) (hourly, daily int, err error) {
	hourStart := now.UTC().Truncate(time.Hour)
	dayStart := now.UTC().Truncate(24 * time.Hour)

	err = s.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(count) FILTER (WHERE bucket='hour' AND bucket_start=$2), 0),
			COALESCE(SUM(count) FILTER (WHERE bucket='day' AND bucket_start=$3), 0)
		FROM usage_counters
		WHERE session_id=$1
	`, sessionID, hourStart, dayStart).Scan(&hourly, &daily)
	return hourly, daily, err
}
