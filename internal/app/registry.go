package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codehive/server/internal/domain"
)

// State is the process-wide registry of everything a room keeps in memory:
// membership, settings, host assignment, cursors and the voice roster.
// All read-modify-write sequences hold the one lock, so the cross-map
// invariants (host is always a present member, empty rooms vanish from every
// map at once) hold at any observation point.
type State struct {
	mu sync.RWMutex

	members  map[domain.RoomID]map[domain.ConnID]domain.Member
	order    map[domain.RoomID][]domain.ConnID // join order, drives host promotion
	settings map[domain.RoomID]*domain.Settings
	hosts    map[domain.RoomID]domain.ConnID
	cursors  map[domain.RoomID]map[domain.ConnID]domain.Cursor
	voice    map[domain.RoomID][]domain.VoiceParticipant
	byConn   map[domain.ConnID]domain.RoomID
}

func NewState() *State {
	return &State{
		members:  make(map[domain.RoomID]map[domain.ConnID]domain.Member),
		order:    make(map[domain.RoomID][]domain.ConnID),
		settings: make(map[domain.RoomID]*domain.Settings),
		hosts:    make(map[domain.RoomID]domain.ConnID),
		cursors:  make(map[domain.RoomID]map[domain.ConnID]domain.Cursor),
		voice:    make(map[domain.RoomID][]domain.VoiceParticipant),
		byConn:   make(map[domain.ConnID]domain.RoomID),
	}
}

// JoinResult is the atomic outcome of a join, captured under one lock so the
// caller can broadcast a consistent snapshot.
type JoinResult struct {
	Members    []domain.Member
	HostID     domain.ConnID
	BecameHost bool
	Reclaimed  bool
	Settings   domain.Settings
}

// Join registers the connection in the room, lazily creating the room entry
// and its settings, and runs host election (see electLocked). isOwner marks a
// connection whose identity matches the room's persisted owner.
func (s *State) Join(roomID domain.RoomID, connID domain.ConnID, id domain.Identity, isOwner bool) JoinResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.members[roomID] == nil {
		s.members[roomID] = make(map[domain.ConnID]domain.Member)
	}
	if s.settings[roomID] == nil {
		s.settings[roomID] = &domain.Settings{}
	}
	if _, ok := s.members[roomID][connID]; !ok {
		s.order[roomID] = append(s.order[roomID], connID)
	}
	s.members[roomID][connID] = domain.Member{
		ConnID:      connID,
		UserID:      id.ID,
		DisplayName: id.DisplayName,
		Guest:       id.Guest,
	}
	s.byConn[connID] = roomID

	becameHost, reclaimed := s.electLocked(roomID, connID, isOwner)

	res := JoinResult{
		Members:    s.membersLocked(roomID),
		HostID:     s.hosts[roomID],
		BecameHost: becameHost,
		Reclaimed:  reclaimed,
		Settings:   *s.settings[roomID],
	}
	log.Info().Str("module", "app.state").Str("room", string(roomID)).
		Str("conn", string(connID)).Bool("host", becameHost).Msg("joined room")
	return res
}

// DepartResult is the atomic outcome of a departure.
type DepartResult struct {
	Removed     bool
	RoomID      domain.RoomID
	Member      domain.Member
	Members     []domain.Member
	HostID      domain.ConnID
	HostChanged bool
	RoomEmpty   bool
}

// Depart removes the connection from its current room. If it was host, the
// next member in join order is promoted in the same step. When the last
// member leaves, membership, settings, host, cursors and the voice roster
// are all dropped together. Safe to call for connections with no room.
func (s *State) Depart(connID domain.ConnID) DepartResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	roomID, ok := s.byConn[connID]
	if !ok {
		return DepartResult{}
	}
	m, present := s.members[roomID][connID]
	if !present {
		delete(s.byConn, connID)
		return DepartResult{}
	}

	delete(s.members[roomID], connID)
	delete(s.byConn, connID)
	s.order[roomID] = remove(s.order[roomID], connID)
	if cs := s.cursors[roomID]; cs != nil {
		delete(cs, connID)
	}
	s.voice[roomID] = removeVoiceByConn(s.voice[roomID], connID)

	res := DepartResult{Removed: true, RoomID: roomID, Member: m}

	if len(s.members[roomID]) == 0 {
		s.dropRoomLocked(roomID)
		res.RoomEmpty = true
		log.Info().Str("module", "app.state").Str("room", string(roomID)).Msg("room emptied, state dropped")
		return res
	}

	if s.hosts[roomID] == connID {
		next := s.order[roomID][0]
		s.hosts[roomID] = next
		res.HostChanged = true
		log.Info().Str("module", "app.state").Str("room", string(roomID)).
			Str("host", string(next)).Msg("host promoted after departure")
	}
	res.HostID = s.hosts[roomID]
	res.Members = s.membersLocked(roomID)
	return res
}

// MembersOf returns a snapshot of the room's members in join order.
func (s *State) MembersOf(roomID domain.RoomID) []domain.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.membersLocked(roomID)
}

// RoomOf reports the room the connection is currently joined to, if any.
func (s *State) RoomOf(connID domain.ConnID) (domain.RoomID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roomID, ok := s.byConn[connID]
	return roomID, ok
}

// MemberOf returns the member record for a connection in a room.
func (s *State) MemberOf(roomID domain.RoomID, connID domain.ConnID) (domain.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[roomID][connID]
	return m, ok
}

// SettingsOf returns the room's settings, zero value for unknown rooms.
func (s *State) SettingsOf(roomID domain.RoomID) domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st := s.settings[roomID]; st != nil {
		return *st
	}
	return domain.Settings{}
}

// SetChatDisabled flips the chat toggle for a room. No-op for unknown rooms.
func (s *State) SetChatDisabled(roomID domain.RoomID, disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.settings[roomID]; st != nil {
		st.ChatDisabled = disabled
	}
}

func (s *State) membersLocked(roomID domain.RoomID) []domain.Member {
	out := make([]domain.Member, 0, len(s.members[roomID]))
	for _, connID := range s.order[roomID] {
		if m, ok := s.members[roomID][connID]; ok {
			out = append(out, m)
		}
	}
	return out
}

func (s *State) dropRoomLocked(roomID domain.RoomID) {
	delete(s.members, roomID)
	delete(s.order, roomID)
	delete(s.settings, roomID)
	delete(s.hosts, roomID)
	delete(s.cursors, roomID)
	delete(s.voice, roomID)
}

func remove(ids []domain.ConnID, id domain.ConnID) []domain.ConnID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func removeVoiceByConn(ps []domain.VoiceParticipant, connID domain.ConnID) []domain.VoiceParticipant {
	for i, p := range ps {
		if p.ConnID == connID {
			return append(ps[:i], ps[i+1:]...)
		}
	}
	return ps
}
