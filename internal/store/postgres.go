// Package store is the durable collaborator boundary. Every write issued by
// the sync engine is best-effort: failures are logged here and never surface
// to clients.
package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type Store struct {
	pool *pgxpool.Pool
}

// New connects to postgres and bootstraps the schema.
func New(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	s := &Store{pool: pool}
	if err := s.createTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Str("module", "store").Msg("postgres ready")
	return s, nil
}

func (s *Store) Close() { s.pool.Close() }

func (s *Store) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS rooms (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		owner_id   TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS room_files (
		id         TEXT PRIMARY KEY,
		room_id    TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		language   TEXT NOT NULL DEFAULT '',
		content    TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_room_files_room ON room_files(room_id);

	CREATE TABLE IF NOT EXISTS room_canvases (
		id         TEXT PRIMARY KEY,
		room_id    TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		name       TEXT NOT NULL DEFAULT '',
		payload    TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_room_canvases_room ON room_canvases(room_id);

	CREATE TABLE IF NOT EXISTS room_tab_groups (
		id      TEXT PRIMARY KEY,
		room_id TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		payload TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_room_tab_groups_room ON room_tab_groups(room_id);

	CREATE TABLE IF NOT EXISTS room_chat (
		id          BIGSERIAL PRIMARY KEY,
		room_id     TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		message_id  TEXT NOT NULL,
		sender_id   TEXT NOT NULL,
		sender_name TEXT NOT NULL,
		body        TEXT NOT NULL,
		sent_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_room_chat_room ON room_chat(room_id, id);

	CREATE TABLE IF NOT EXISTS room_terminal (
		id      BIGSERIAL PRIMARY KEY,
		room_id TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		body    TEXT NOT NULL,
		ran_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_room_terminal_room ON room_terminal(room_id, id);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}
