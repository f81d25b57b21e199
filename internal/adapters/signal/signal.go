package signal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/codehive/server/internal/app"
	"github.com/codehive/server/internal/auth"
	"github.com/codehive/server/internal/bus"
	"github.com/codehive/server/internal/config"
	"github.com/codehive/server/internal/domain"
	"github.com/codehive/server/internal/metrics"
	"github.com/codehive/server/internal/store"
)

var ErrBackpressure = errors.New("backpressure")

// RoomStore is the slice of the durable collaborator the signal layer uses.
type RoomStore interface {
	OwnerOf(ctx context.Context, id domain.RoomID) (string, error)
	FetchOrCreateState(ctx context.Context, id domain.RoomID) (store.RoomState, error)
	AddFile(ctx context.Context, roomID domain.RoomID, f store.File) error
	RemoveFile(ctx context.Context, roomID domain.RoomID, fileID string) error
	RenameFile(ctx context.Context, roomID domain.RoomID, fileID, name string) error
	UpsertCanvas(ctx context.Context, roomID domain.RoomID, c store.Canvas) error
	AddTabGroup(ctx context.Context, roomID domain.RoomID, g store.TabGroup) error
	RemoveTabGroup(ctx context.Context, roomID domain.RoomID, groupID string) error
	AppendChat(ctx context.Context, roomID domain.RoomID, m store.ChatMessage) error
	AppendTerminal(ctx context.Context, roomID domain.RoomID, e store.TerminalEntry) error
}

// Peer is a connection as seen by the fan-out side.
type Peer interface {
	TrySend(data []byte) error
	Close()
}

// Controller owns the websocket surface: it upgrades connections, dispatches
// inbound events and implements app.Notifier for the supervisor's broadcasts.
type Controller struct {
	cfg   *config.Config
	state *app.State
	sup   *app.Supervisor
	deb   *app.Debouncer
	store RoomStore
	jwt   *auth.JWT
	bus   *bus.Bus // nil when cross-instance relay is disabled

	mu    sync.RWMutex
	conns map[domain.ConnID]Peer
}

func NewController(cfg *config.Config, state *app.State, deb *app.Debouncer, st RoomStore, j *auth.JWT, b *bus.Bus) *Controller {
	ctl := &Controller{
		cfg:   cfg,
		state: state,
		deb:   deb,
		store: st,
		jwt:   j,
		bus:   b,
		conns: make(map[domain.ConnID]Peer),
	}
	ctl.sup = app.NewSupervisor(state, deb, ctl)
	return ctl
}

// Supervisor exposes the lifecycle supervisor, mainly for tests.
func (ctl *Controller) Supervisor() *app.Supervisor { return ctl.sup }

// WsConn pairs a websocket with a bounded outbound queue. Slow readers get
// ErrBackpressure instead of blocking the broadcaster.
type WsConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func (c *WsConn) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- data:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// session is the per-connection context: identity plus transport. The current
// room lives in app.State, keyed by the connection id.
type session struct {
	id       domain.ConnID
	identity domain.Identity
	conn     *WsConn
	limiter  *rateLimiter
}

// HandleWS upgrades the request and runs the connection until it closes.
// An invalid or missing token demotes the connection to a guest identity
// rather than rejecting it.
func (ctl *Controller) HandleWS(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.cfg.ReadLimit)

	connID := domain.ConnID(uuid.NewString())
	identity, err := ctl.jwt.Verify(c.Query("token"))
	if err != nil {
		identity = domain.GuestIdentity(connID)
		log.Info().Str("module", "signal").Str("conn", string(connID)).Msg("unauthenticated, proceeding as guest")
	}

	sess := &session{
		id:       connID,
		identity: identity,
		conn:     &WsConn{conn: ws, send: make(chan []byte, 64)},
		limiter:  newRateLimiter(100, time.Second),
	}

	ctl.mu.Lock()
	ctl.conns[connID] = sess.conn
	ctl.mu.Unlock()
	metrics.ConnectionsActive.Inc()

	log.Info().Str("module", "signal").Str("conn", string(connID)).
		Str("user", string(identity.ID)).Msg("connection open")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, sess)
	go func() {
		defer cancel()
		ctl.readPump(ctx, sess)
	}()
}

// ToConn sends an event to a single connection. Unknown connection ids are
// benign races with disconnect and are dropped.
func (ctl *Controller) ToConn(connID domain.ConnID, v any) {
	ctl.mu.RLock()
	p, ok := ctl.conns[connID]
	ctl.mu.RUnlock()
	if !ok {
		return
	}
	ctl.send(p, mustMarshal(v))
}

// ToRoom fans an event out to every member of the room, sender included.
func (ctl *Controller) ToRoom(roomID domain.RoomID, v any) {
	ctl.fanOut(roomID, "", mustMarshal(v), true)
}

// ToRoomExcept fans an event out to the room minus one connection.
func (ctl *Controller) ToRoomExcept(roomID domain.RoomID, except domain.ConnID, v any) {
	ctl.fanOut(roomID, except, mustMarshal(v), true)
}

// fanOut delivers raw bytes to the room's local members and, when publish is
// set, relays them to other instances over the bus.
func (ctl *Controller) fanOut(roomID domain.RoomID, except domain.ConnID, data []byte, publish bool) {
	for _, m := range ctl.state.MembersOf(roomID) {
		if m.ConnID == except {
			continue
		}
		ctl.mu.RLock()
		p, ok := ctl.conns[m.ConnID]
		ctl.mu.RUnlock()
		if ok {
			ctl.send(p, data)
		}
	}
	if publish && ctl.bus != nil {
		if err := ctl.bus.Publish(context.Background(), roomID, data); err != nil {
			log.Error().Err(err).Str("module", "signal").Str("room", string(roomID)).Msg("bus publish")
		}
	}
}

// RunBusRelay forwards broadcasts arriving from other instances into local
// rooms. Blocks until ctx is done; no-op when the bus is disabled.
func (ctl *Controller) RunBusRelay(ctx context.Context) {
	if ctl.bus == nil {
		return
	}
	ctl.bus.Subscribe(ctx, func(roomID domain.RoomID, payload []byte) {
		ctl.fanOut(roomID, "", payload, false)
	})
}

func (ctl *Controller) send(p Peer, data []byte) {
	if err := p.TrySend(data); err != nil {
		metrics.EventsDropped.Inc()
	}
}

func (ctl *Controller) unregister(connID domain.ConnID) {
	ctl.mu.Lock()
	delete(ctl.conns, connID)
	ctl.mu.Unlock()
	metrics.ConnectionsActive.Dec()
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("marshal event")
		return []byte("{}")
	}
	return b
}
