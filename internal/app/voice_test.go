package app

import (
	"testing"

	"github.com/codehive/server/internal/domain"
)

func TestVoiceRosterConsistency(t *testing.T) {
	s := NewState()
	s.Join("R", "c1", id("a"), false)
	s.Join("R", "c2", id("b"), false)

	s.VoiceJoin("R", domain.VoiceParticipant{PeerID: "p1", ConnID: "c1", DisplayName: "a"})
	s.VoiceJoin("R", domain.VoiceParticipant{PeerID: "p2", ConnID: "c2", DisplayName: "b"})
	s.VoiceLeave("R", "p1")

	roster := s.VoiceRoster("R")
	if len(roster) != 1 || roster[0].PeerID != "p2" {
		t.Fatalf("roster = %v, want exactly p2", roster)
	}
}

func TestVoiceJoinReturnsExistingRosterExcludingSelf(t *testing.T) {
	s := NewState()
	s.Join("R", "c1", id("a"), false)
	s.Join("R", "c2", id("b"), false)

	existing, added := s.VoiceJoin("R", domain.VoiceParticipant{PeerID: "p1", ConnID: "c1"})
	if !added || len(existing) != 0 {
		t.Fatalf("first join: added=%v existing=%v", added, existing)
	}

	existing, added = s.VoiceJoin("R", domain.VoiceParticipant{PeerID: "p2", ConnID: "c2"})
	if !added || len(existing) != 1 || existing[0].PeerID != "p1" {
		t.Fatalf("second join: added=%v existing=%v", added, existing)
	}
}

func TestVoiceJoinIsIdempotentByPeerID(t *testing.T) {
	s := NewState()
	s.Join("R", "c1", id("a"), false)

	s.VoiceJoin("R", domain.VoiceParticipant{PeerID: "p1", ConnID: "c1"})
	_, added := s.VoiceJoin("R", domain.VoiceParticipant{PeerID: "p1", ConnID: "c1"})
	if added {
		t.Error("re-joining with the same peer id must not duplicate the entry")
	}
	if len(s.VoiceRoster("R")) != 1 {
		t.Errorf("roster size = %d, want 1", len(s.VoiceRoster("R")))
	}
}

func TestVoiceMuteFlipsInPlace(t *testing.T) {
	s := NewState()
	s.Join("R", "c1", id("a"), false)
	s.VoiceJoin("R", domain.VoiceParticipant{PeerID: "p1", ConnID: "c1"})

	if !s.VoiceMute("R", "p1", true) {
		t.Fatal("mute of a present peer should succeed")
	}
	if roster := s.VoiceRoster("R"); !roster[0].Muted {
		t.Error("mute flag not set")
	}
	if s.VoiceMute("R", "missing", true) {
		t.Error("mute of an unknown peer should report false")
	}
}

func TestVoiceLeaveUnknownPeer(t *testing.T) {
	s := NewState()
	if s.VoiceLeave("R", "nope") {
		t.Error("leaving an unknown roster should report false")
	}
}

func TestDisconnectRemovesVoiceEntryByConn(t *testing.T) {
	s := NewState()
	s.Join("R", "c1", id("a"), false)
	s.Join("R", "c2", id("b"), false)
	s.VoiceJoin("R", domain.VoiceParticipant{PeerID: "p1", ConnID: "c1"})
	s.VoiceJoin("R", domain.VoiceParticipant{PeerID: "p2", ConnID: "c2"})

	s.Depart("c1")
	roster := s.VoiceRoster("R")
	if len(roster) != 1 || roster[0].PeerID != "p2" {
		t.Fatalf("roster after disconnect = %v, want p2 only", roster)
	}
}
