package app

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/codehive/server/internal/domain"
)

var (
	ErrNotHost   = errors.New("requester is not the room host")
	ErrNotMember = errors.New("target is not a room member")
)

// electLocked runs the join-time host rules, in priority order: a persisted
// owner's own connection always reclaims the seat; otherwise an unclaimed
// room goes to the joiner; otherwise the joiner stays a plain participant.
// Caller holds s.mu.
func (s *State) electLocked(roomID domain.RoomID, connID domain.ConnID, isOwner bool) (becameHost, reclaimed bool) {
	current, claimed := s.hosts[roomID]
	switch {
	case isOwner:
		s.hosts[roomID] = connID
		if claimed && current != connID {
			log.Info().Str("module", "app.host").Str("room", string(roomID)).
				Str("conn", string(connID)).Msg("host reclaimed by owner")
			return true, true
		}
		return true, false
	case !claimed:
		s.hosts[roomID] = connID
		return true, false
	default:
		return false, false
	}
}

// HostOf reports the room's current host connection, if one is assigned.
func (s *State) HostOf(roomID domain.RoomID) (domain.ConnID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hosts[roomID]
	return h, ok
}

// IsHost checks host authority for one invocation. Callers must not cache
// the answer; the seat can move between two commands.
func (s *State) IsHost(roomID domain.RoomID, connID domain.ConnID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hosts[roomID] == connID
}

// Transfer hands the host seat from the current host to another member.
func (s *State) Transfer(roomID domain.RoomID, from, to domain.ConnID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hosts[roomID] != from {
		return ErrNotHost
	}
	if _, ok := s.members[roomID][to]; !ok {
		return ErrNotMember
	}
	s.hosts[roomID] = to
	log.Info().Str("module", "app.host").Str("room", string(roomID)).
		Str("from", string(from)).Str("to", string(to)).Msg("host transferred")
	return nil
}
