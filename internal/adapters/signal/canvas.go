package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/codehive/server/internal/domain"
	"github.com/codehive/server/internal/metrics"
	"github.com/codehive/server/internal/store"
)

// handleCanvasFullSync persists the serialized canvas and relays it. The
// payload is opaque to the server; last broadcast wins on each client.
func (ctl *Controller) handleCanvasFullSync(s *session, roomID domain.RoomID, data []byte) {
	var p struct {
		CanvasID string          `json:"canvasId"`
		Payload  json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.CanvasID == "" {
		metrics.EventsDropped.Inc()
		return
	}
	ctl.relayExceptSender(s, roomID, data)
	c := store.Canvas{ID: p.CanvasID, Payload: string(p.Payload)}
	if err := ctl.store.UpsertCanvas(context.Background(), roomID, c); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("room", string(roomID)).Msg("canvas write failed")
	}
}

func (ctl *Controller) handleCanvasFileCreate(s *session, roomID domain.RoomID, data []byte) {
	var p struct {
		CanvasID string `json:"canvasId"`
		Name     string `json:"name"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.CanvasID == "" {
		metrics.EventsDropped.Inc()
		return
	}
	ctl.relayExceptSender(s, roomID, data)
	c := store.Canvas{ID: p.CanvasID, Name: p.Name}
	if err := ctl.store.UpsertCanvas(context.Background(), roomID, c); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("room", string(roomID)).Msg("canvas create failed")
	}
}
