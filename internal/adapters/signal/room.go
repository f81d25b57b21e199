package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/codehive/server/internal/app"
	"github.com/codehive/server/internal/domain"
	"github.com/codehive/server/internal/metrics"
	"github.com/codehive/server/internal/store"
)

type roomStateEvent struct {
	Type     string          `json:"type"`
	RoomID   domain.RoomID   `json:"roomId"`
	Members  []domain.Member `json:"members"`
	HostID   domain.ConnID   `json:"hostId"`
	Settings domain.Settings `json:"settings"`
	State    store.RoomState `json:"state"`
}

type userJoinedEvent struct {
	Type    string          `json:"type"`
	User    domain.Member   `json:"user"`
	Members []domain.Member `json:"members"`
	HostID  domain.ConnID   `json:"hostId"`
}

func (ctl *Controller) handleJoin(s *session, data []byte) {
	var p struct {
		RoomID string `json:"roomId"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		log.Debug().Str("module", "signal").Str("conn", string(s.id)).Msg("bad join payload")
		metrics.EventsDropped.Inc()
		return
	}
	roomID := domain.RoomID(p.RoomID)

	// A connection is in at most one room; re-join implies leaving first.
	if _, ok := ctl.state.RoomOf(s.id); ok {
		ctl.sup.Leave(s.id)
	}

	// Persisted-owner lookup is best-effort: a store outage degrades to
	// ordinary first-in-wins election.
	isOwner := false
	if !s.identity.Guest {
		owner, err := ctl.store.OwnerOf(context.Background(), roomID)
		if err != nil {
			log.Error().Err(err).Str("module", "signal").Str("room", string(roomID)).Msg("owner lookup failed")
		}
		isOwner = owner != "" && owner == string(s.identity.ID)
	}

	res := ctl.state.Join(roomID, s.id, s.identity, isOwner)
	if res.Reclaimed {
		log.Info().Str("module", "signal").Str("room", string(roomID)).
			Str("conn", string(s.id)).Msg("host reclaimed")
	}

	st, err := ctl.store.FetchOrCreateState(context.Background(), roomID)
	if err != nil {
		// Hydration failure is not fatal to the join; the client still
		// enters the room and receives live traffic.
		log.Error().Err(err).Str("module", "signal").Str("room", string(roomID)).Msg("hydration failed")
	}

	ctl.ToConn(s.id, roomStateEvent{
		Type:     domain.EvRoomState,
		RoomID:   roomID,
		Members:  res.Members,
		HostID:   res.HostID,
		Settings: res.Settings,
		State:    st,
	})

	m, _ := ctl.state.MemberOf(roomID, s.id)
	ctl.ToRoomExcept(roomID, s.id, userJoinedEvent{
		Type:    domain.EvUserJoined,
		User:    m,
		Members: res.Members,
		HostID:  res.HostID,
	})
	if res.Reclaimed {
		ctl.ToRoomExcept(roomID, s.id, app.HostChangedEvent{
			Type:     domain.EvHostChanged,
			HostID:   s.id,
			HostName: s.identity.DisplayName,
		})
	}
}

func (ctl *Controller) handleLeave(s *session) {
	ctl.sup.Leave(s.id)
}
