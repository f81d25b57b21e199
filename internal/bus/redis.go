// Package bus relays room broadcasts between server instances over redis
// pub/sub. Host authority and presence stay instance-local; the bus only
// widens fan-out so peers connected to different instances see mutations.
package bus

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/codehive/server/internal/domain"
)

type Message struct {
	Origin  string        `json:"origin"`
	RoomID  domain.RoomID `json:"roomId"`
	Payload []byte        `json:"payload"`
}

type Bus struct {
	rdb    *redis.Client
	origin string
}

// New connects to redis and verifies connectivity. origin identifies this
// instance so its own publications are not echoed back into its rooms.
func New(ctx context.Context, addr string, db int, origin string) (*Bus, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Bus{rdb: rdb, origin: origin}, nil
}

// Publish sends an already-marshaled room broadcast to the other instances.
func (b *Bus) Publish(ctx context.Context, roomID domain.RoomID, payload []byte) error {
	raw, _ := json.Marshal(Message{Origin: b.origin, RoomID: roomID, Payload: payload})
	return b.rdb.Publish(ctx, channel(roomID), raw).Err()
}

// Subscribe listens to all room channels and invokes fn for every message
// that originated on another instance. Blocks until ctx is done.
func (b *Bus) Subscribe(ctx context.Context, fn func(domain.RoomID, []byte)) {
	pubsub := b.rdb.PSubscribe(ctx, channel("*"))
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			_ = pubsub.Close()
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var m Message
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				log.Error().Err(err).Str("module", "bus").Msg("bad bus message")
				continue
			}
			if m.Origin == b.origin || m.RoomID == "" {
				continue
			}
			fn(m.RoomID, m.Payload)
		}
	}
}

func (b *Bus) Close() { _ = b.rdb.Close() }

func channel(roomID domain.RoomID) string { return "room:" + string(roomID) }
