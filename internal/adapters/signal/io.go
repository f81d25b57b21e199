package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/codehive/server/internal/domain"
	"github.com/codehive/server/internal/metrics"
)

func (ctl *Controller) writePump(ctx context.Context, s *session) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-s.conn.send:
			if !ok {
				return
			}
			if err := s.conn.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				return
			}
			if err := s.conn.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(s.id)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := s.conn.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, s *session) {
	defer func() {
		// Disconnect routes through the same leave procedure as an
		// explicit leave-room.
		ctl.sup.Leave(s.id)
		ctl.unregister(s.id)
		s.conn.Close()
		log.Info().Str("module", "signal").Str("conn", string(s.id)).Msg("connection closed")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := s.conn.conn.ReadMessage()
			if err != nil {
				return
			}
			if !s.limiter.Allow() {
				metrics.EventsDropped.Inc()
				continue
			}
			ctl.dispatch(s, data)
		}
	}
}

// dispatch routes one inbound event. Events other than join-room and ping
// require the connection to be in a room; events that race a leave or
// disconnect are dropped silently, that is a benign race and not a fault.
// A malformed payload never crashes the loop, it just drops the event.
func (ctl *Controller) dispatch(s *session, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Debug().Err(err).Str("module", "signal").Msg("bad json")
		metrics.EventsDropped.Inc()
		return
	}
	metrics.EventsRouted.WithLabelValues(env.Type).Inc()

	switch env.Type {
	case domain.EvJoinRoom:
		ctl.handleJoin(s, data)
		return
	case domain.EvPing:
		ctl.ToConn(s.id, struct {
			Type string `json:"type"`
		}{domain.EvPong})
		return
	}

	roomID, ok := ctl.state.RoomOf(s.id)
	if !ok {
		metrics.EventsDropped.Inc()
		return
	}

	switch env.Type {
	case domain.EvLeaveRoom:
		ctl.handleLeave(s)
	case domain.EvCodeChange:
		ctl.handleCodeChange(s, roomID, data)
	case domain.EvFileCreate:
		ctl.handleFileCreate(s, roomID, data)
	case domain.EvFileDelete:
		ctl.handleFileDelete(s, roomID, data)
	case domain.EvFileRename:
		ctl.handleFileRename(s, roomID, data)
	case domain.EvActiveFileChange, domain.EvIntentUpdate, domain.EvCanvasFileSwitch:
		// Pure presence/navigation relays: no durable side effects.
		ctl.relayExceptSender(s, roomID, data)
	case domain.EvTabGroupCreate, domain.EvTabGroupUpdate:
		ctl.handleTabGroupUpsert(s, roomID, data)
	case domain.EvTabGroupDelete:
		ctl.handleTabGroupDelete(s, roomID, data)
	case domain.EvCanvasObjectAdd, domain.EvCanvasObjectMod, domain.EvCanvasObjectDel, domain.EvCanvasPathCreate:
		ctl.relayExceptSender(s, roomID, data)
	case domain.EvCanvasFullSync:
		ctl.handleCanvasFullSync(s, roomID, data)
	case domain.EvCanvasFileCreate:
		ctl.handleCanvasFileCreate(s, roomID, data)
	case domain.EvChatMessage:
		ctl.handleChatMessage(s, roomID, data)
	case domain.EvVoiceJoin:
		ctl.handleVoiceJoin(s, roomID, data)
	case domain.EvVoiceLeave:
		ctl.handleVoiceLeave(s, roomID, data)
	case domain.EvVoiceMute:
		ctl.handleVoiceMute(s, roomID, data)
	case domain.EvTerminalOutput:
		ctl.handleTerminalOutput(s, roomID, data)
	case domain.EvCursorPosition:
		ctl.handleCursor(s, roomID, data)
	case domain.EvRequestCursors:
		ctl.handleRequestCursors(s, roomID)
	case domain.EvHostKickUser:
		ctl.handleHostKick(s, roomID, data)
	case domain.EvHostMuteUser:
		ctl.handleHostMute(s, roomID, data)
	case domain.EvHostTransfer:
		ctl.handleHostTransfer(s, roomID, data)
	case domain.EvHostToggleChat:
		ctl.handleHostToggleChat(s, roomID, data)
	case domain.EvHostEndSession:
		ctl.handleHostEndSession(s, roomID)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		metrics.EventsDropped.Inc()
	}
}

// relayExceptSender re-broadcasts the inbound payload unchanged except for an
// attached sender block, to everyone in the room but the sender. The sender
// already has the change locally.
func (ctl *Controller) relayExceptSender(s *session, roomID domain.RoomID, data []byte) {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		metrics.EventsDropped.Inc()
		return
	}
	m, ok := ctl.state.MemberOf(roomID, s.id)
	if !ok {
		metrics.EventsDropped.Inc()
		return
	}
	payload["sender"] = m
	ctl.ToRoomExcept(roomID, s.id, payload)
}
