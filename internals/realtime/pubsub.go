package realtime

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"shutterhub_backend/internals/observability/logger"
)

const channelPrefix = "shutterhub:room:"

// envelope wraps a fan-out payload with the publishing instance id so each
// instance can skip its own echoes off the redis channel.
type envelope struct {
	Instance string          `json:"instance"`
	Payload  json.RawMessage `json:"payload"`
}

// Bridge relays room broadcasts between instances over redis pub/sub. Each
// broadcast is published to shutterhub:room:<id>; every instance pattern
// subscribes and re-injects foreign messages into its local hub.
type Bridge struct {
	rdb      *redis.Client
	hub      *Hub
	instance string
	cancel   context.CancelFunc
}

// NewBridge wires the hub's publish hook to redis and starts the subscriber
// loop. Call Close on shutdown.
func NewBridge(rdb *redis.Client, hub *Hub) *Bridge {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Bridge{
		rdb:      rdb,
		hub:      hub,
		instance: uuid.NewString(),
		cancel:   cancel,
	}

	hub.SetPublish(b.publish)
	go b.subscribe(ctx)
	return b
}

func (b *Bridge) publish(room string, payload []byte) {
	raw, err := json.Marshal(envelope{Instance: b.instance, Payload: payload})
	if err != nil {
		return
	}
	if err := b.rdb.Publish(context.Background(), channelPrefix+room, raw).Err(); err != nil {
		logger.Log.Warn().Err(err).Str("room", room).Msg("redis publish failed")
	}
}

func (b *Bridge) subscribe(ctx context.Context) {
	sub := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	logger.Log.Info().Msg("🔌 realtime bridge subscribed to redis")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.handle(msg)
		}
	}
}

func (b *Bridge) handle(msg *redis.Message) {
	var env envelope
	if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
		logger.Log.Debug().Err(err).Msg("malformed bridge envelope")
		return
	}
	if env.Instance == b.instance {
		return
	}
	room := strings.TrimPrefix(msg.Channel, channelPrefix)
	b.hub.broadcastLocal(room, env.Payload)
}

// Close stops the subscriber loop and detaches the publish hook.
func (b *Bridge) Close() {
	b.hub.SetPublish(nil)
	b.cancel()
}
