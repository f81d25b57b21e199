package app

import (
	"testing"

	"github.com/codehive/server/internal/domain"
)

func id(name string) domain.Identity {
	return domain.Identity{ID: domain.UserID("u-" + name), DisplayName: name}
}

func TestJoinCreatesRoomAndMembership(t *testing.T) {
	s := NewState()

	res := s.Join("ROOM1", "c1", id("alice"), false)
	if len(res.Members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(res.Members))
	}
	if res.HostID != "c1" || !res.BecameHost {
		t.Errorf("first joiner should become host, got host=%s", res.HostID)
	}
	if res.Settings.ChatDisabled {
		t.Error("settings should default to chat enabled")
	}

	roomID, ok := s.RoomOf("c1")
	if !ok || roomID != "ROOM1" {
		t.Errorf("RoomOf = %q, %v", roomID, ok)
	}
}

func TestMembersOfPreservesJoinOrder(t *testing.T) {
	s := NewState()
	s.Join("R", "c1", id("a"), false)
	s.Join("R", "c2", id("b"), false)
	s.Join("R", "c3", id("c"), false)

	members := s.MembersOf("R")
	if len(members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(members))
	}
	for i, want := range []domain.ConnID{"c1", "c2", "c3"} {
		if members[i].ConnID != want {
			t.Errorf("members[%d] = %s, want %s", i, members[i].ConnID, want)
		}
	}
}

func TestDepartUnknownConnIsNoop(t *testing.T) {
	s := NewState()
	res := s.Depart("ghost")
	if res.Removed {
		t.Error("departing an unknown connection should not report removal")
	}
}

func TestDepartEmptyRoomDropsAllState(t *testing.T) {
	s := NewState()
	s.Join("R", "c1", id("a"), false)
	s.SetChatDisabled("R", true)
	s.UpdateCursor("R", domain.Cursor{ConnID: "c1", DisplayName: "a"})
	s.VoiceJoin("R", domain.VoiceParticipant{PeerID: "p1", ConnID: "c1"})

	res := s.Depart("c1")
	if !res.Removed || !res.RoomEmpty {
		t.Fatalf("expected removed+empty, got %+v", res)
	}

	// Everything about the room vanishes in the same step.
	if _, ok := s.HostOf("R"); ok {
		t.Error("host assignment survived cleanup")
	}
	if s.SettingsOf("R").ChatDisabled {
		t.Error("settings survived cleanup")
	}
	if got := s.VoiceRoster("R"); len(got) != 0 {
		t.Errorf("voice roster survived cleanup: %v", got)
	}
	if got := s.CursorsSnapshot("R", ""); len(got) != 0 {
		t.Errorf("cursors survived cleanup: %v", got)
	}
}

func TestHostAlwaysNamesAPresentMember(t *testing.T) {
	s := NewState()
	s.Join("R", "c1", id("a"), false)
	s.Join("R", "c2", id("b"), false)
	s.Join("R", "c3", id("c"), false)

	for _, leave := range []domain.ConnID{"c1", "c3"} {
		s.Depart(leave)
		host, ok := s.HostOf("R")
		if !ok {
			t.Fatal("room with members must have a host")
		}
		if _, present := s.MemberOf("R", host); !present {
			t.Fatalf("host %s is not a member after %s left", host, leave)
		}
	}
}

func TestConnectionInOneRoomAtATime(t *testing.T) {
	s := NewState()
	s.Join("R1", "c1", id("a"), false)
	s.Depart("c1")
	s.Join("R2", "c1", id("a"), false)

	roomID, _ := s.RoomOf("c1")
	if roomID != "R2" {
		t.Errorf("RoomOf = %s, want R2", roomID)
	}
	if len(s.MembersOf("R1")) != 0 {
		t.Error("stale membership left in previous room")
	}
}
