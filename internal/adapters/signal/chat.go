package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codehive/server/internal/domain"
	"github.com/codehive/server/internal/metrics"
	"github.com/codehive/server/internal/store"
)

type chatMessageEvent struct {
	Type       string        `json:"type"`
	ID         string        `json:"id"`
	SenderID   domain.ConnID `json:"socketId"`
	SenderName string        `json:"senderName"`
	Body       string        `json:"body"`
	SentAt     time.Time     `json:"sentAt"`
}

// handleChatMessage assigns the server id and timestamp, echoes the canonical
// message to the whole room (sender included) and appends it to history.
// When the host has disabled chat, non-host messages are rejected to the
// sender only; the chat-disabled check is re-read on every message.
func (ctl *Controller) handleChatMessage(s *session, roomID domain.RoomID, data []byte) {
	var p struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.Body == "" {
		metrics.EventsDropped.Inc()
		return
	}

	if ctl.state.SettingsOf(roomID).ChatDisabled && !ctl.state.IsHost(roomID, s.id) {
		ctl.sendHostError(s.id, "chat is disabled")
		return
	}

	ev := chatMessageEvent{
		Type:       domain.EvChatMessage,
		ID:         uuid.NewString(),
		SenderID:   s.id,
		SenderName: s.identity.DisplayName,
		Body:       p.Body,
		SentAt:     time.Now(),
	}
	ctl.ToRoom(roomID, ev)

	m := store.ChatMessage{
		ID:         ev.ID,
		SenderID:   string(s.identity.ID),
		SenderName: ev.SenderName,
		Body:       ev.Body,
		SentAt:     ev.SentAt,
	}
	if err := ctl.store.AppendChat(context.Background(), roomID, m); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("room", string(roomID)).Msg("chat append failed")
	}
}
