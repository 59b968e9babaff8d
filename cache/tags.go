package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// InvalidationChannel is the Redis pub/sub channel shared by all workers.
const InvalidationChannel = "storefront:cache:invalidate"

type invalidationMessage struct {
	Origin string   `json:"origin"`
	Tags   []string `json:"tags"`
}

// TagBus fans tag invalidations out to the caches of this process, the
// durable layer, and (through Redis pub/sub) every other worker.
type TagBus struct {
	client  *redis.Client
	durable DurableStore
	origin  string

	mu          sync.RWMutex
	handlers    map[string][]func()
	durableKeys map[string][]string
}

// NewTagBus builds a bus. A nil client keeps invalidation local to the process;
// a nil durable store skips durable key deletion.
func NewTagBus(client *redis.Client, durable DurableStore) *TagBus {
	return &TagBus{
		client:      client,
		durable:     durable,
		origin:      uuid.NewString(),
		handlers:    make(map[string][]func()),
		durableKeys: make(map[string][]string),
	}
}

// Subscribe runs fn whenever tag is invalidated, locally or by another worker.
func (b *TagBus) Subscribe(tag string, fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[tag] = append(b.handlers[tag], fn)
}

// RegisterDurableKey deletes key from the durable layer whenever tag is invalidated.
func (b *TagBus) RegisterDurableKey(tag, key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.durableKeys[tag] = append(b.durableKeys[tag], key)
}

// Tags lists every tag with a subscriber or durable key.
func (b *TagBus) Tags() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	seen := make(map[string]struct{}, len(b.handlers)+len(b.durableKeys))
	for t := range b.handlers {
		seen[t] = struct{}{}
	}
	for t := range b.durableKeys {
		seen[t] = struct{}{}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Invalidate applies tags locally, deletes their durable keys and publishes
// them to other workers. It returns once Redis has acknowledged the delete and
// the publish, not once other workers have refetched.
func (b *TagBus) Invalidate(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}
	b.apply(tags, "local")

	var errs []error
	if keys := b.keysFor(tags); len(keys) > 0 && b.durable != nil {
		if err := b.durable.Delete(ctx, keys...); err != nil {
			errs = append(errs, fmt.Errorf("delete durable keys: %w", err))
		}
	}

	if b.client != nil {
		payload, err := json.Marshal(invalidationMessage{Origin: b.origin, Tags: tags})
		if err != nil {
			errs = append(errs, err)
		} else if err := b.client.Publish(ctx, InvalidationChannel, payload).Err(); err != nil {
			errs = append(errs, fmt.Errorf("publish invalidation: %w", err))
		}
	}

	log.Printf("[invalidate] tags=%v", tags)
	return errors.Join(errs...)
}

// Listen applies invalidations published by other workers until ctx ends.
func (b *TagBus) Listen(ctx context.Context) error {
	if b.client == nil {
		return nil
	}
	sub := b.client.Subscribe(ctx, InvalidationChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", InvalidationChannel, err)
	}
	log.Printf("✅ Listening for cache invalidations on %s", InvalidationChannel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.handleMessage([]byte(msg.Payload))
		}
	}
}

func (b *TagBus) handleMessage(payload []byte) {
	var m invalidationMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		log.Printf("[invalidate] ⚠️ dropping malformed message: %v", err)
		return
	}
	if m.Origin == b.origin {
		return
	}
	b.apply(m.Tags, "remote")
}

func (b *TagBus) apply(tags []string, origin string) {
	b.mu.RLock()
	var fns []func()
	for _, t := range tags {
		fns = append(fns, b.handlers[t]...)
		cacheInvalidationsTotal.WithLabelValues(t, origin).Inc()
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

func (b *TagBus) keysFor(tags []string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var keys []string
	for _, t := range tags {
		keys = append(keys, b.durableKeys[t]...)
	}
	return keys
}
