package signal

import (
	"encoding/json"

	"github.com/codehive/server/internal/domain"
	"github.com/codehive/server/internal/metrics"
)

type voiceParticipantsEvent struct {
	Type         string                    `json:"type"`
	Participants []domain.VoiceParticipant `json:"participants"`
}

type voiceUserEvent struct {
	Type        string        `json:"type"`
	PeerID      string        `json:"peerId"`
	ConnID      domain.ConnID `json:"socketId"`
	DisplayName string        `json:"displayName"`
	Muted       bool          `json:"muted,omitempty"`
}

// handleVoiceJoin replies to the joiner with the roster it needs to dial
// (excluding itself) before announcing the arrival to the room.
func (ctl *Controller) handleVoiceJoin(s *session, roomID domain.RoomID, data []byte) {
	var p struct {
		PeerID string `json:"peerId"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.PeerID == "" {
		metrics.EventsDropped.Inc()
		return
	}
	existing, added := ctl.state.VoiceJoin(roomID, domain.VoiceParticipant{
		PeerID:      p.PeerID,
		ConnID:      s.id,
		DisplayName: s.identity.DisplayName,
	})
	ctl.ToConn(s.id, voiceParticipantsEvent{Type: domain.EvVoiceParticipants, Participants: existing})
	if added {
		ctl.ToRoom(roomID, voiceUserEvent{
			Type:        domain.EvVoiceUserJoined,
			PeerID:      p.PeerID,
			ConnID:      s.id,
			DisplayName: s.identity.DisplayName,
		})
	}
}

func (ctl *Controller) handleVoiceLeave(s *session, roomID domain.RoomID, data []byte) {
	var p struct {
		PeerID string `json:"peerId"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.PeerID == "" {
		metrics.EventsDropped.Inc()
		return
	}
	if ctl.state.VoiceLeave(roomID, p.PeerID) {
		ctl.ToRoom(roomID, voiceUserEvent{Type: domain.EvVoiceUserLeft, PeerID: p.PeerID, ConnID: s.id})
	}
}

func (ctl *Controller) handleVoiceMute(s *session, roomID domain.RoomID, data []byte) {
	var p struct {
		PeerID string `json:"peerId"`
		Muted  bool   `json:"muted"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.PeerID == "" {
		metrics.EventsDropped.Inc()
		return
	}
	if ctl.state.VoiceMute(roomID, p.PeerID, p.Muted) {
		ctl.ToRoom(roomID, voiceUserEvent{
			Type:   domain.EvVoiceUserMuted,
			PeerID: p.PeerID,
			ConnID: s.id,
			Muted:  p.Muted,
		})
	}
}
