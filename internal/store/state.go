package store

import (
	"context"

	"github.com/codehive/server/internal/domain"
)

const (
	chatHistoryCap     = 100
	terminalHistoryCap = 50
)

// UpdateFileContent writes the latest content and bumps timestamps. This is
// the debouncer's flush target.
func (s *Store) UpdateFileContent(ctx context.Context, roomID domain.RoomID, fileID, content string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE room_files SET content = $3, updated_at = NOW()
		WHERE room_id = $1 AND id = $2
	`, string(roomID), fileID, content)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `UPDATE rooms SET updated_at = NOW() WHERE id = $1`, string(roomID))
	return err
}

// AddFile appends a file descriptor to the room.
func (s *Store) AddFile(ctx context.Context, roomID domain.RoomID, f File) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO room_files (id, room_id, name, language, content)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, f.ID, string(roomID), f.Name, f.Language, f.Content)
	return err
}

// RemoveFile deletes a file descriptor by id.
func (s *Store) RemoveFile(ctx context.Context, roomID domain.RoomID, fileID string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM room_files WHERE room_id = $1 AND id = $2
	`, string(roomID), fileID)
	return err
}

// RenameFile updates a file's display name.
func (s *Store) RenameFile(ctx context.Context, roomID domain.RoomID, fileID, name string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE room_files SET name = $3, updated_at = NOW()
		WHERE room_id = $1 AND id = $2
	`, string(roomID), fileID, name)
	return err
}

// UpsertCanvas writes a canvas document's serialized payload.
func (s *Store) UpsertCanvas(ctx context.Context, roomID domain.RoomID, c Canvas) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO room_canvases (id, room_id, name, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = NOW()
	`, c.ID, string(roomID), c.Name, c.Payload)
	return err
}

// AddTabGroup appends a tab-group descriptor.
func (s *Store) AddTabGroup(ctx context.Context, roomID domain.RoomID, g TabGroup) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO room_tab_groups (id, room_id, payload) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload
	`, g.ID, string(roomID), g.Payload)
	return err
}

// RemoveTabGroup deletes a tab-group descriptor by id.
func (s *Store) RemoveTabGroup(ctx context.Context, roomID domain.RoomID, groupID string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM room_tab_groups WHERE room_id = $1 AND id = $2
	`, string(roomID), groupID)
	return err
}

// AppendChat appends a chat message, keeping only the most recent entries.
func (s *Store) AppendChat(ctx context.Context, roomID domain.RoomID, m ChatMessage) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO room_chat (room_id, message_id, sender_id, sender_name, body, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, string(roomID), m.ID, m.SenderID, m.SenderName, m.Body, m.SentAt)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		DELETE FROM room_chat WHERE room_id = $1 AND id NOT IN (
			SELECT id FROM room_chat WHERE room_id = $1 ORDER BY id DESC LIMIT $2
		)
	`, string(roomID), chatHistoryCap)
	return err
}

// AppendTerminal appends a terminal-execution record, capped like chat.
func (s *Store) AppendTerminal(ctx context.Context, roomID domain.RoomID, e TerminalEntry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO room_terminal (room_id, body, ran_at) VALUES ($1, $2, $3)
	`, string(roomID), e.Body, e.RanAt)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		DELETE FROM room_terminal WHERE room_id = $1 AND id NOT IN (
			SELECT id FROM room_terminal WHERE room_id = $1 ORDER BY id DESC LIMIT $2
		)
	`, string(roomID), terminalHistoryCap)
	return err
}
