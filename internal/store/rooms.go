package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/codehive/server/internal/domain"
)

var ErrNotFound = errors.New("not found")

// CreateRoom inserts a room owned by ownerID. Existing ids are left alone.
func (s *Store) CreateRoom(ctx context.Context, id domain.RoomID, name, ownerID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO rooms (id, name, owner_id) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, string(id), name, ownerID)
	return err
}

// GetRoom fetches room metadata; the sync engine only reads OwnerID from it.
func (s *Store) GetRoom(ctx context.Context, id domain.RoomID) (Room, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, owner_id, created_at, updated_at FROM rooms WHERE id = $1
	`, string(id))
	var r Room
	if err := row.Scan(&r.ID, &r.Name, &r.OwnerID, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Room{}, ErrNotFound
		}
		return Room{}, err
	}
	return r, nil
}

// OwnerOf returns the persisted owner of a room, empty when the room is
// unknown or unowned. Used only on the join path for host reclaim.
func (s *Store) OwnerOf(ctx context.Context, id domain.RoomID) (string, error) {
	r, err := s.GetRoom(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return r.OwnerID, nil
}

// FetchOrCreateState loads the room's full durable state for first-join
// hydration, creating the room row and a starter file for brand-new rooms.
func (s *Store) FetchOrCreateState(ctx context.Context, id domain.RoomID) (RoomState, error) {
	r, err := s.GetRoom(ctx, id)
	if errors.Is(err, ErrNotFound) {
		if err := s.CreateRoom(ctx, id, "", ""); err != nil {
			return RoomState{}, err
		}
		if err := s.AddFile(ctx, id, File{ID: uuid.NewString(), Name: "index.js", Language: "javascript"}); err != nil {
			return RoomState{}, err
		}
		r, err = s.GetRoom(ctx, id)
		if err != nil {
			return RoomState{}, err
		}
	} else if err != nil {
		return RoomState{}, err
	}

	state := RoomState{Room: r}
	if state.Files, err = s.listFiles(ctx, id); err != nil {
		return RoomState{}, err
	}
	if state.Canvases, err = s.listCanvases(ctx, id); err != nil {
		return RoomState{}, err
	}
	if state.TabGroups, err = s.listTabGroups(ctx, id); err != nil {
		return RoomState{}, err
	}
	if state.Chat, err = s.listChat(ctx, id); err != nil {
		return RoomState{}, err
	}
	if state.Terminal, err = s.listTerminal(ctx, id); err != nil {
		return RoomState{}, err
	}
	return state, nil
}

func (s *Store) listFiles(ctx context.Context, id domain.RoomID) ([]File, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, language, content, updated_at FROM room_files
		WHERE room_id = $1 ORDER BY name ASC
	`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.ID, &f.Name, &f.Language, &f.Content, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Store) listCanvases(ctx context.Context, id domain.RoomID) ([]Canvas, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, payload, updated_at FROM room_canvases
		WHERE room_id = $1 ORDER BY name ASC
	`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Canvas
	for rows.Next() {
		var c Canvas
		if err := rows.Scan(&c.ID, &c.Name, &c.Payload, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) listTabGroups(ctx context.Context, id domain.RoomID) ([]TabGroup, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, payload FROM room_tab_groups WHERE room_id = $1
	`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TabGroup
	for rows.Next() {
		var g TabGroup
		if err := rows.Scan(&g.ID, &g.Payload); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) listChat(ctx context.Context, id domain.RoomID) ([]ChatMessage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT message_id, sender_id, sender_name, body, sent_at FROM room_chat
		WHERE room_id = $1 ORDER BY id ASC
	`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.SenderID, &m.SenderName, &m.Body, &m.SentAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) listTerminal(ctx context.Context, id domain.RoomID) ([]TerminalEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT body, ran_at FROM room_terminal WHERE room_id = $1 ORDER BY id ASC
	`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TerminalEntry
	for rows.Next() {
		var e TerminalEntry
		if err := rows.Scan(&e.Body, &e.RanAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
