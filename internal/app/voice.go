package app

import (
	"github.com/codehive/server/internal/domain"
)

// VoiceJoin adds a peer to the room's voice roster if not already present
// and returns the roster as it stood before the join (excluding the joiner),
// which is what the joiner needs to dial existing participants.
func (s *State) VoiceJoin(roomID domain.RoomID, p domain.VoiceParticipant) (existing []domain.VoiceParticipant, added bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.voice[roomID] {
		if q.PeerID == p.PeerID {
			return s.voiceExceptLocked(roomID, p.PeerID), false
		}
	}
	existing = s.voiceExceptLocked(roomID, p.PeerID)
	s.voice[roomID] = append(s.voice[roomID], p)
	return existing, true
}

// VoiceLeave removes a peer from the roster by peer id.
func (s *State) VoiceLeave(roomID domain.RoomID, peerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.voice[roomID] {
		if p.PeerID == peerID {
			s.voice[roomID] = append(s.voice[roomID][:i], s.voice[roomID][i+1:]...)
			return true
		}
	}
	return false
}

// VoiceMute flips a peer's mute flag in place.
func (s *State) VoiceMute(roomID domain.RoomID, peerID string, muted bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.voice[roomID] {
		if s.voice[roomID][i].PeerID == peerID {
			s.voice[roomID][i].Muted = muted
			return true
		}
	}
	return false
}

// VoiceRoster snapshots the room's current voice participants.
func (s *State) VoiceRoster(roomID domain.RoomID) []domain.VoiceParticipant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.VoiceParticipant, len(s.voice[roomID]))
	copy(out, s.voice[roomID])
	return out
}

func (s *State) voiceExceptLocked(roomID domain.RoomID, peerID string) []domain.VoiceParticipant {
	out := make([]domain.VoiceParticipant, 0, len(s.voice[roomID]))
	for _, p := range s.voice[roomID] {
		if p.PeerID != peerID {
			out = append(out, p)
		}
	}
	return out
}
