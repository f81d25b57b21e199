package app

import (
	"github.com/rs/zerolog/log"

	"github.com/codehive/server/internal/domain"
)

// Notifier is the outbound side of the engine: the signal adapter implements
// it over live connections, tests implement it with fakes.
type Notifier interface {
	ToConn(connID domain.ConnID, v any)
	ToRoom(roomID domain.RoomID, v any)
}

// Supervisor orchestrates join/leave/kick/end-session so that membership,
// host authority, presence and the debouncer never diverge. Every departure
// path funnels through Leave.
type Supervisor struct {
	State  *State
	Deb    *Debouncer
	Notify Notifier
}

func NewSupervisor(state *State, deb *Debouncer, notify Notifier) *Supervisor {
	return &Supervisor{State: state, Deb: deb, Notify: notify}
}

// Leave removes the connection from its room, promotes a new host if the
// departing connection held the seat, and tells the remaining members.
// Idempotent: a second call for the same connection is a no-op.
func (s *Supervisor) Leave(connID domain.ConnID) DepartResult {
	res := s.State.Depart(connID)
	if !res.Removed {
		return res
	}
	if res.RoomEmpty {
		// Nobody left to notify; push any buffered edits out now rather
		// than waiting for the timer.
		s.Deb.Flush(res.RoomID)
		return res
	}
	if res.HostChanged {
		name := ""
		if m, ok := s.State.MemberOf(res.RoomID, res.HostID); ok {
			name = m.DisplayName
		}
		s.Notify.ToRoom(res.RoomID, HostChangedEvent{Type: domain.EvHostChanged, HostID: res.HostID, HostName: name})
	}
	s.Notify.ToRoom(res.RoomID, UserLeftEvent{
		Type:    domain.EvUserLeft,
		User:    res.Member,
		Members: res.Members,
		HostID:  res.HostID,
	})
	return res
}

// Kick ejects a member on the host's order. The caller is responsible for
// closing the target's transport after this returns.
func (s *Supervisor) Kick(roomID domain.RoomID, requester, target domain.ConnID) error {
	if !s.State.IsHost(roomID, requester) {
		return ErrNotHost
	}
	if _, ok := s.State.MemberOf(roomID, target); !ok {
		return ErrNotMember
	}
	s.Notify.ToConn(target, KickedEvent{Type: domain.EvYouWereKicked})
	s.Leave(target)
	log.Info().Str("module", "app.supervisor").Str("room", string(roomID)).
		Str("target", string(target)).Msg("member kicked")
	return nil
}

// MuteUser tells one member to mute; only the host may issue it.
func (s *Supervisor) MuteUser(roomID domain.RoomID, requester, target domain.ConnID, muted bool) error {
	if !s.State.IsHost(roomID, requester) {
		return ErrNotHost
	}
	if _, ok := s.State.MemberOf(roomID, target); !ok {
		return ErrNotMember
	}
	s.Notify.ToConn(target, MutedEvent{Type: domain.EvYouWereMuted, Muted: muted})
	return nil
}

// TransferHost hands the seat to another member and announces it.
func (s *Supervisor) TransferHost(roomID domain.RoomID, requester, target domain.ConnID) error {
	if err := s.State.Transfer(roomID, requester, target); err != nil {
		return err
	}
	name := ""
	if m, ok := s.State.MemberOf(roomID, target); ok {
		name = m.DisplayName
	}
	s.Notify.ToRoom(roomID, HostChangedEvent{Type: domain.EvHostChanged, HostID: target, HostName: name})
	return nil
}

// ToggleChat flips the room's chat-disabled setting and announces it.
func (s *Supervisor) ToggleChat(roomID domain.RoomID, requester domain.ConnID, disabled bool) error {
	if !s.State.IsHost(roomID, requester) {
		return ErrNotHost
	}
	s.State.SetChatDisabled(roomID, disabled)
	s.Notify.ToRoom(roomID, ChatToggledEvent{Type: domain.EvChatToggled, Disabled: disabled})
	return nil
}

// EndSession broadcasts the termination notice, then runs every member
// through the ordinary leave procedure; room state disappears with the last
// member.
func (s *Supervisor) EndSession(roomID domain.RoomID, requester domain.ConnID) ([]domain.ConnID, error) {
	if !s.State.IsHost(roomID, requester) {
		return nil, ErrNotHost
	}
	s.Notify.ToRoom(roomID, SessionEndedEvent{Type: domain.EvSessionEnded})
	members := s.State.MembersOf(roomID)
	evicted := make([]domain.ConnID, 0, len(members))
	for _, m := range members {
		s.Leave(m.ConnID)
		evicted = append(evicted, m.ConnID)
	}
	log.Info().Str("module", "app.supervisor").Str("room", string(roomID)).
		Int("members", len(evicted)).Msg("session ended")
	return evicted, nil
}
