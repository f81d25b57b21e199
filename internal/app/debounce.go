package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	"github.com/codehive/server/internal/domain"
	"github.com/codehive/server/internal/metrics"
)

// FileWriter is the slice of the durable store the debouncer needs.
type FileWriter interface {
	UpdateFileContent(ctx context.Context, roomID domain.RoomID, fileID, content string) error
}

// Debouncer coalesces bursts of per-keystroke edits into one delayed write
// cycle per room. Each room owns at most one timer; a new change for any
// resource in the room re-arms it instead of stacking a second one.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	store   FileWriter
	pending map[domain.RoomID]*roomBuffer
}

type roomBuffer struct {
	timer *time.Timer
	files map[string]string // file id -> latest content
}

func NewDebouncer(window time.Duration, store FileWriter) *Debouncer {
	return &Debouncer{
		window:  window,
		store:   store,
		pending: make(map[domain.RoomID]*roomBuffer),
	}
}

// RecordChange stores the latest content for the resource and re-arms the
// room's flush timer. Rooms are independent; bursts in one room never delay
// another room's flush.
func (d *Debouncer) RecordChange(roomID domain.RoomID, fileID, content string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf, ok := d.pending[roomID]
	if !ok {
		buf = &roomBuffer{files: make(map[string]string)}
		d.pending[roomID] = buf
	}
	buf.files[fileID] = content

	if buf.timer != nil {
		buf.timer.Stop()
	}
	buf.timer = time.AfterFunc(d.window, func() { d.flush(roomID) })
}

// flush drains the room's buffer atomically and issues one store write per
// buffered resource. Failures are logged and dropped for this cycle; the
// next live edit re-arms the buffer and tries again.
func (d *Debouncer) flush(roomID domain.RoomID) {
	d.mu.Lock()
	buf, ok := d.pending[roomID]
	if !ok {
		d.mu.Unlock()
		return
	}
	delete(d.pending, roomID)
	d.mu.Unlock()

	metrics.DebounceFlushes.Inc()

	var wg conc.WaitGroup
	for fileID, content := range buf.files {
		wg.Go(func() {
			if err := d.store.UpdateFileContent(context.Background(), roomID, fileID, content); err != nil {
				metrics.StoreWriteFailures.Inc()
				log.Error().Err(err).Str("module", "app.debounce").
					Str("room", string(roomID)).Str("file", fileID).Msg("durable write failed, dropping for this cycle")
			}
		})
	}
	wg.Wait()
}

// Flush forces an immediate drain for a room, used on shutdown.
func (d *Debouncer) Flush(roomID domain.RoomID) {
	d.mu.Lock()
	if buf, ok := d.pending[roomID]; ok && buf.timer != nil {
		buf.timer.Stop()
	}
	d.mu.Unlock()
	d.flush(roomID)
}

// Stop cancels every armed timer and drains all pending buffers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	rooms := make([]domain.RoomID, 0, len(d.pending))
	for roomID, buf := range d.pending {
		if buf.timer != nil {
			buf.timer.Stop()
		}
		rooms = append(rooms, roomID)
	}
	d.mu.Unlock()
	for _, roomID := range rooms {
		d.flush(roomID)
	}
}
