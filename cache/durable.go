package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DurableStore is the shared cache layer sitting below the in-process caches.
// It outlives a single worker and is shared by all of them.
//
// Every key carries an epoch that Delete bumps. A reader notes the epoch before
// it goes to the data provider and writes its result back with SetJSONIfEpoch,
// so a read that raced an invalidation can never put pre-write data back.
type DurableStore interface {
	// GetJSON unmarshals the value under key into dst and reports whether it existed.
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	// Epoch returns the invalidation counter of key, zero if it was never deleted.
	Epoch(ctx context.Context, key string) (int64, error)
	// SetJSONIfEpoch stores v under key only while its epoch still equals epoch
	// and reports whether it did.
	SetJSONIfEpoch(ctx context.Context, key string, epoch int64, v any, ttl time.Duration) (bool, error)
	// Delete removes keys and bumps their epochs.
	Delete(ctx context.Context, keys ...string) error
}

// RedisStore keeps JSON payloads in Redis.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// epochKey shares the hash slot of key so the conditional set stays single-slot.
func epochKey(key string) string {
	return "{" + key + "}:epoch"
}

// KEYS[1] value key, KEYS[2] epoch key; ARGV[1] expected epoch, ARGV[2] payload, ARGV[3] ttl in ms.
var setIfEpochScript = redis.NewScript(`
local current = redis.call("GET", KEYS[2])
if (current or "0") ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

func (s *RedisStore) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if s == nil || s.client == nil || key == "" {
		return false, nil
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) Epoch(ctx context.Context, key string) (int64, error) {
	if s == nil || s.client == nil || key == "" {
		return 0, nil
	}
	n, err := s.client.Get(ctx, epochKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (s *RedisStore) SetJSONIfEpoch(ctx context.Context, key string, epoch int64, v any, ttl time.Duration) (bool, error) {
	if s == nil || s.client == nil || key == "" {
		return false, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	ms := ttl.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	n, err := setIfEpochScript.Run(ctx, s.client,
		[]string{key, epochKey(key)},
		strconv.FormatInt(epoch, 10), data, ms,
	).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if s == nil || s.client == nil || len(keys) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Incr(ctx, epochKey(k))
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	return err
}

// writeBack stores v unless key was invalidated since epoch was read.
func writeBack(ctx context.Context, st DurableStore, key string, epoch int64, v any, ttl time.Duration) {
	ok, err := st.SetJSONIfEpoch(ctx, key, epoch, v, ttl)
	switch {
	case err != nil:
		durableWritesTotal.WithLabelValues("error").Inc()
		log.Printf("[cache] ⚠️ durable write %s failed: %v", key, err)
	case !ok:
		durableWritesTotal.WithLabelValues("superseded").Inc()
		log.Printf("[cache] skipping durable write %s: invalidated while it was being read", key)
	default:
		durableWritesTotal.WithLabelValues("stored").Inc()
	}
}

// DurableTTL converts the in-process TTL into the whole-second TTL used by the
// durable layer, never less than one second.
func DurableTTL(ttl time.Duration) time.Duration {
	seconds := int64(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return time.Duration(seconds) * time.Second
}

// ConfigDurableKey is the durable key of the config document stored under key.
func ConfigDurableKey(key string) string {
	return "cache:config:" + key
}

// DurableConfigReader puts the durable layer in front of config reads. Only
// successful reads are written back; a missing document is stored as null.
type DurableConfigReader struct {
	next  ConfigReader
	store DurableStore
	ttl   time.Duration
}

func NewDurableConfigReader(next ConfigReader, store DurableStore, ttl time.Duration) *DurableConfigReader {
	return &DurableConfigReader{next: next, store: store, ttl: DurableTTL(ttl)}
}

func (r *DurableConfigReader) GetConfigByKey(ctx context.Context, key string) (json.RawMessage, error) {
	if r.store == nil {
		return r.next.GetConfigByKey(ctx, key)
	}

	dk := ConfigDurableKey(key)
	epoch, epochErr := r.store.Epoch(ctx, dk)

	var raw json.RawMessage
	found, err := r.store.GetJSON(ctx, dk, &raw)
	switch {
	case err != nil:
		durableReadsTotal.WithLabelValues("error").Inc()
		log.Printf("[config-cache] ⚠️ durable read %s failed, falling back to store: %v", dk, err)
	case found:
		durableReadsTotal.WithLabelValues("hit").Inc()
		return raw, nil
	default:
		durableReadsTotal.WithLabelValues("miss").Inc()
	}

	raw, err = r.next.GetConfigByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if epochErr != nil {
		log.Printf("[config-cache] ⚠️ skipping durable write %s, epoch unknown: %v", dk, epochErr)
		return raw, nil
	}
	writeBack(ctx, r.store, dk, epoch, raw, r.ttl)
	return raw, nil
}
