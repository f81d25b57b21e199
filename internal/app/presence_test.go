package app

import (
	"testing"

	"github.com/codehive/server/internal/domain"
)

func TestColorForIsDeterministic(t *testing.T) {
	a := ColorFor("alice")
	if a != ColorFor("alice") {
		t.Error("same name must map to the same color within a run")
	}
	found := false
	for _, c := range cursorPalette {
		if c == a {
			found = true
		}
	}
	if !found {
		t.Errorf("color %q not from palette", a)
	}
}

func TestUpdateCursorRequiresMembership(t *testing.T) {
	s := NewState()
	if _, ok := s.UpdateCursor("R", domain.Cursor{ConnID: "c1", DisplayName: "a"}); ok {
		t.Error("cursor from a non-member must be ignored")
	}
}

func TestUpdateCursorOverwrites(t *testing.T) {
	s := NewState()
	s.Join("R", "c1", id("a"), false)
	s.Join("R", "c2", id("b"), false)

	s.UpdateCursor("R", domain.Cursor{ConnID: "c1", DisplayName: "a", Line: 1})
	s.UpdateCursor("R", domain.Cursor{ConnID: "c1", DisplayName: "a", Line: 9})

	snap := s.CursorsSnapshot("R", "c2")
	if len(snap) != 1 {
		t.Fatalf("snapshot size = %d, want 1", len(snap))
	}
	if snap[0].Line != 9 {
		t.Errorf("cursor not overwritten: line = %d", snap[0].Line)
	}
	if snap[0].Color == "" {
		t.Error("stored cursor should carry its assigned color")
	}
}

func TestCursorsSnapshotExcludesRequester(t *testing.T) {
	s := NewState()
	s.Join("R", "c1", id("a"), false)
	s.Join("R", "c2", id("b"), false)
	s.UpdateCursor("R", domain.Cursor{ConnID: "c1", DisplayName: "a"})
	s.UpdateCursor("R", domain.Cursor{ConnID: "c2", DisplayName: "b"})

	snap := s.CursorsSnapshot("R", "c1")
	if len(snap) != 1 || snap[0].ConnID != "c2" {
		t.Fatalf("snapshot = %v, want c2 only", snap)
	}
}
