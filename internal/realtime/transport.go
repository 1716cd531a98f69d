package realtime

import (
	"strings"
	"sync"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/fitcircle/fitcircle/internal/config"
)

// Deliver hands a payload received for a group to the local hub.
type Deliver func(groupID string, payload []byte)

// Transport moves encoded events between instances.
type Transport interface {
	// Publish sends payload to every instance receiving groupID.
	Publish(groupID string, payload []byte) error
	// Start begins handing received payloads to deliver and returns once receiving.
	Start(deliver Deliver) error
	// Close stops receiving and releases the connection.
	Close() error
}

// MemoryTransport loops events back into the same process.
type MemoryTransport struct {
	mu      sync.RWMutex
	deliver Deliver
}

// NewMemoryTransport returns a single instance transport.
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{}
}

// Publish delivers payload synchronously. Before Start, or after Close, it is a no-op.
func (t *MemoryTransport) Publish(groupID string, payload []byte) error {
	t.mu.RLock()
	deliver := t.deliver
	t.mu.RUnlock()

	if deliver != nil {
		deliver(groupID, payload)
	}

	return nil
}

// Start registers deliver.
func (t *MemoryTransport) Start(deliver Deliver) error {
	t.mu.Lock()
	t.deliver = deliver
	t.mu.Unlock()

	return nil
}

// Close unregisters the deliver func.
func (t *MemoryTransport) Close() error {
	t.mu.Lock()
	t.deliver = nil
	t.mu.Unlock()

	return nil
}

// DefaultChannelPrefix prefixes group ids to form redis channel names.
const DefaultChannelPrefix = "fitcircle:group:"

// RedisTransport shares group channels between instances through redis pub/sub.
type RedisTransport struct {
	client *redis.Client
	prefix string
	pubsub *redis.PubSub
	done   chan struct{}
}

// NewRedisTransport connects to redis and checks the connection.
func NewRedisTransport(cfg config.Redis) (*RedisTransport, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := client.Ping().Result(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "failed to connect redis "+cfg.Addr)
	}

	prefix := cfg.ChannelPrefix
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}

	return &RedisTransport{client: client, prefix: prefix}, nil
}

// Channel returns the redis channel of a group.
func (t *RedisTransport) Channel(groupID string) string {
	return t.prefix + groupID
}

// GroupID returns the group of a redis channel, or false for foreign channels.
func (t *RedisTransport) GroupID(channel string) (string, bool) {
	if !strings.HasPrefix(channel, t.prefix) || len(channel) == len(t.prefix) {
		return "", false
	}

	return strings.TrimPrefix(channel, t.prefix), true
}

// Publish sends payload to the channel of groupID.
func (t *RedisTransport) Publish(groupID string, payload []byte) error {
	if err := t.client.Publish(t.Channel(groupID), payload).Err(); err != nil {
		return errors.Wrap(err, "failed to publish event")
	}

	return nil
}

// Start subscribes to all group channels and delivers messages in the background.
func (t *RedisTransport) Start(deliver Deliver) error {
	pubsub := t.client.PSubscribe(t.prefix + "*")

	if _, err := pubsub.Receive(); err != nil {
		_ = pubsub.Close()
		return errors.Wrap(err, "failed to subscribe to group channels")
	}

	t.pubsub = pubsub
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)

		for msg := range pubsub.Channel() {
			groupID, ok := t.GroupID(msg.Channel)
			if !ok {
				log.Warn().Str("channel", msg.Channel).Msg("ignoring message of unknown channel")
				continue
			}

			deliver(groupID, []byte(msg.Payload))
		}
	}()

	return nil
}

// Close ends the subscription and closes the redis client.
func (t *RedisTransport) Close() error {
	if t.pubsub != nil {
		_ = t.pubsub.Close()
		<-t.done
	}

	return t.client.Close() //nolint:wrapcheck
}

// NewTransport creates the transport named in the config.
func NewTransport(cfg config.Realtime) (Transport, error) {
	switch cfg.Transport {
	case "", "memory":
		return NewMemoryTransport(), nil
	case "redis":
		return NewRedisTransport(cfg.Redis)
	default:
		return nil, config.ErrUnknownTransport
	}
}
