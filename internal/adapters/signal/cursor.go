package signal

import (
	"encoding/json"

	"github.com/codehive/server/internal/domain"
	"github.com/codehive/server/internal/metrics"
)

type cursorEvent struct {
	Type string `json:"type"`
	domain.Cursor
}

type cursorsSnapshotEvent struct {
	Type    string          `json:"type"`
	Cursors []domain.Cursor `json:"cursors"`
}

// handleCursor records the latest position (with the deterministic name
// color) and relays it to the rest of the room.
func (ctl *Controller) handleCursor(s *session, roomID domain.RoomID, data []byte) {
	var p struct {
		FileID    string `json:"fileId"`
		Line      int    `json:"line"`
		Column    int    `json:"column"`
		Selection any    `json:"selection"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		metrics.EventsDropped.Inc()
		return
	}
	c, ok := ctl.state.UpdateCursor(roomID, domain.Cursor{
		ConnID:      s.id,
		DisplayName: s.identity.DisplayName,
		FileID:      p.FileID,
		Line:        p.Line,
		Column:      p.Column,
		Selection:   p.Selection,
	})
	if !ok {
		metrics.EventsDropped.Inc()
		return
	}
	ctl.ToRoomExcept(roomID, s.id, cursorEvent{Type: domain.EvCursorPosition, Cursor: c})
}

// handleRequestCursors replays every other tracked cursor to the requester.
// Pull-based: cursors are too volatile to push on join.
func (ctl *Controller) handleRequestCursors(s *session, roomID domain.RoomID) {
	ctl.ToConn(s.id, cursorsSnapshotEvent{
		Type:    domain.EvCursorsSnapshot,
		Cursors: ctl.state.CursorsSnapshot(roomID, s.id),
	})
}
