package signal

import (
	"encoding/json"

	"github.com/codehive/server/internal/domain"
	"github.com/codehive/server/internal/metrics"
)

type hostErrorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// sendHostError reports an authorization failure to the issuer only; room
// state is unchanged.
func (ctl *Controller) sendHostError(connID domain.ConnID, msg string) {
	ctl.ToConn(connID, hostErrorEvent{Type: domain.EvHostError, Error: msg})
}

func (ctl *Controller) handleHostKick(s *session, roomID domain.RoomID, data []byte) {
	var p struct {
		TargetID string `json:"targetId"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.TargetID == "" {
		metrics.EventsDropped.Inc()
		return
	}
	target := domain.ConnID(p.TargetID)
	if err := ctl.sup.Kick(roomID, s.id, target); err != nil {
		ctl.sendHostError(s.id, err.Error())
		return
	}
	// The supervisor has already removed and notified the target; drop its
	// transport so the client cannot linger half-connected.
	ctl.mu.RLock()
	peer, ok := ctl.conns[target]
	ctl.mu.RUnlock()
	if ok {
		peer.Close()
	}
}

func (ctl *Controller) handleHostMute(s *session, roomID domain.RoomID, data []byte) {
	var p struct {
		TargetID string `json:"targetId"`
		Muted    bool   `json:"muted"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.TargetID == "" {
		metrics.EventsDropped.Inc()
		return
	}
	if err := ctl.sup.MuteUser(roomID, s.id, domain.ConnID(p.TargetID), p.Muted); err != nil {
		ctl.sendHostError(s.id, err.Error())
	}
}

func (ctl *Controller) handleHostTransfer(s *session, roomID domain.RoomID, data []byte) {
	var p struct {
		TargetID string `json:"targetId"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.TargetID == "" {
		metrics.EventsDropped.Inc()
		return
	}
	if err := ctl.sup.TransferHost(roomID, s.id, domain.ConnID(p.TargetID)); err != nil {
		ctl.sendHostError(s.id, err.Error())
	}
}

func (ctl *Controller) handleHostToggleChat(s *session, roomID domain.RoomID, data []byte) {
	var p struct {
		Disabled bool `json:"disabled"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		metrics.EventsDropped.Inc()
		return
	}
	if err := ctl.sup.ToggleChat(roomID, s.id, p.Disabled); err != nil {
		ctl.sendHostError(s.id, err.Error())
	}
}

func (ctl *Controller) handleHostEndSession(s *session, roomID domain.RoomID) {
	evicted, err := ctl.sup.EndSession(roomID, s.id)
	if err != nil {
		ctl.sendHostError(s.id, err.Error())
		return
	}
	for _, connID := range evicted {
		if connID == s.id {
			continue
		}
		ctl.mu.RLock()
		peer, ok := ctl.conns[connID]
		ctl.mu.RUnlock()
		if ok {
			peer.Close()
		}
	}
}
