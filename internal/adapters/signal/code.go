package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codehive/server/internal/domain"
	"github.com/codehive/server/internal/metrics"
	"github.com/codehive/server/internal/store"
)

// handleCodeChange relays the edit to the rest of the room and feeds the
// write-back debouncer. The broadcast never waits on the durable layer.
func (ctl *Controller) handleCodeChange(s *session, roomID domain.RoomID, data []byte) {
	var p struct {
		FileID  string `json:"fileId"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.FileID == "" {
		metrics.EventsDropped.Inc()
		return
	}
	ctl.relayExceptSender(s, roomID, data)
	ctl.deb.RecordChange(roomID, p.FileID, p.Content)
}

func (ctl *Controller) handleFileCreate(s *session, roomID domain.RoomID, data []byte) {
	var p struct {
		FileID   string `json:"fileId"`
		Name     string `json:"name"`
		Language string `json:"language"`
		Content  string `json:"content"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.FileID == "" {
		metrics.EventsDropped.Inc()
		return
	}
	ctl.relayExceptSender(s, roomID, data)
	f := store.File{ID: p.FileID, Name: p.Name, Language: p.Language, Content: p.Content}
	if err := ctl.store.AddFile(context.Background(), roomID, f); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("room", string(roomID)).Msg("file create write failed")
	}
}

func (ctl *Controller) handleFileDelete(s *session, roomID domain.RoomID, data []byte) {
	var p struct {
		FileID string `json:"fileId"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.FileID == "" {
		metrics.EventsDropped.Inc()
		return
	}
	ctl.relayExceptSender(s, roomID, data)
	if err := ctl.store.RemoveFile(context.Background(), roomID, p.FileID); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("room", string(roomID)).Msg("file delete write failed")
	}
}

func (ctl *Controller) handleFileRename(s *session, roomID domain.RoomID, data []byte) {
	var p struct {
		FileID string `json:"fileId"`
		Name   string `json:"name"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.FileID == "" {
		metrics.EventsDropped.Inc()
		return
	}
	ctl.relayExceptSender(s, roomID, data)
	if err := ctl.store.RenameFile(context.Background(), roomID, p.FileID, p.Name); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("room", string(roomID)).Msg("file rename write failed")
	}
}

func (ctl *Controller) handleTabGroupUpsert(s *session, roomID domain.RoomID, data []byte) {
	var p struct {
		GroupID string          `json:"groupId"`
		Group   json.RawMessage `json:"group"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.GroupID == "" {
		metrics.EventsDropped.Inc()
		return
	}
	ctl.relayExceptSender(s, roomID, data)
	g := store.TabGroup{ID: p.GroupID, Payload: string(p.Group)}
	if err := ctl.store.AddTabGroup(context.Background(), roomID, g); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("room", string(roomID)).Msg("tab group write failed")
	}
}

func (ctl *Controller) handleTabGroupDelete(s *session, roomID domain.RoomID, data []byte) {
	var p struct {
		GroupID string `json:"groupId"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.GroupID == "" {
		metrics.EventsDropped.Inc()
		return
	}
	ctl.relayExceptSender(s, roomID, data)
	if err := ctl.store.RemoveTabGroup(context.Background(), roomID, p.GroupID); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("room", string(roomID)).Msg("tab group delete write failed")
	}
}

func (ctl *Controller) handleTerminalOutput(s *session, roomID domain.RoomID, data []byte) {
	var p struct {
		Output string `json:"output"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		metrics.EventsDropped.Inc()
		return
	}
	ctl.relayExceptSender(s, roomID, data)
	e := store.TerminalEntry{Body: p.Output, RanAt: time.Now()}
	if err := ctl.store.AppendTerminal(context.Background(), roomID, e); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("room", string(roomID)).Msg("terminal append failed")
	}
}
