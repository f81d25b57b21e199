package app

import (
	"hash/fnv"

	"github.com/codehive/server/internal/domain"
)

// cursorPalette is indexed by a hash of the display name, so the same name
// keeps the same color for the lifetime of the process.
var cursorPalette = []string{
	"#e06c75", "#61afef", "#98c379", "#c678dd", "#d19a66",
	"#56b6c2", "#be5046", "#528bff", "#7f848e", "#e5c07b",
}

// ColorFor maps a display name to its deterministic cursor color.
func ColorFor(displayName string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(displayName))
	return cursorPalette[h.Sum32()%uint32(len(cursorPalette))]
}

// UpdateCursor stores the latest cursor for a connection, overwriting any
// previous entry, and returns the stored record with its color assigned.
// Connections with no current room are ignored.
func (s *State) UpdateCursor(roomID domain.RoomID, c domain.Cursor) (domain.Cursor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[roomID][c.ConnID]; !ok {
		return domain.Cursor{}, false
	}
	c.Color = ColorFor(c.DisplayName)
	if s.cursors[roomID] == nil {
		s.cursors[roomID] = make(map[domain.ConnID]domain.Cursor)
	}
	s.cursors[roomID][c.ConnID] = c
	return c, true
}

// CursorsSnapshot replays every tracked cursor in the room except the
// requester's own. Used for pull-based resync after reconnect.
func (s *State) CursorsSnapshot(roomID domain.RoomID, except domain.ConnID) []domain.Cursor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Cursor, 0, len(s.cursors[roomID]))
	for connID, c := range s.cursors[roomID] {
		if connID == except {
			continue
		}
		out = append(out, c)
	}
	return out
}
