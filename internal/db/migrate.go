package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Schema for the workshop. Animation URLs live directly on the bot row; the
// pipeline's AnimationSet is never persisted as its own entity.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS bots (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		subject         TEXT NOT NULL DEFAULT '',
		subject_color   TEXT NOT NULL DEFAULT '',
		avatar_url      TEXT NOT NULL DEFAULT '',
		background      TEXT NOT NULL DEFAULT '',
		animation       TEXT NOT NULL DEFAULT '',
		knowledge_base  TEXT NOT NULL DEFAULT '',
		security_prompt TEXT NOT NULL DEFAULT '',
		video_idle      TEXT NOT NULL DEFAULT '',
		video_thinking  TEXT NOT NULL DEFAULT '',
		video_talking   TEXT NOT NULL DEFAULT '',
		voice_id        TEXT NOT NULL DEFAULT '',
		interactions    INTEGER NOT NULL DEFAULT 0,
		accuracy        INTEGER NOT NULL DEFAULT 0,
		is_visible      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_bots_created_at ON bots (created_at DESC);`,
}

// Migrate applies the schema against the given database URL using the
// database/sql Postgres driver.
func Migrate(ctx context.Context, databaseURL string) error {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("db: open: %w", err)
	}
	defer conn.Close()

	if err := conn.PingContext(ctx); err != nil {
		return fmt.Errorf("db: ping: %w", err)
	}
	for i, stmt := range migrations {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("db: migration %d: %w", i+1, err)
		}
	}
	return nil
}
