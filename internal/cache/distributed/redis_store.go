// Package distributed implements ChemistFlow's cluster-replicated cache
// tier. It is a last-write-wins register backed by Redis rather than a
// gossiped CRDT: every node reads and writes to the same Redis instance
// (or cluster), and conflicting concurrent writes are resolved by a Lua
// script that compares a logical timestamp instead of by the store's own
// ordering, which is the contract this tier is required to uphold.
package distributed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// lwwSetScript only applies a write if no existing entry has a strictly
// greater timestamp, so a delayed write from a stale node can never
// clobber a newer value written by another node. It carries no TTL: the
// distributed tier is write-only from this system's perspective and is
// treated as effectively unbounded within a session (see internal/cache's
// facade Delete, which never reaches this tier).
//
// KEYS[1] = cache key
// ARGV[1] = JSON-encoded record {"value":...,"timestamp":<int64>,"node":"..."}
// ARGV[2] = timestamp of this write
const lwwSetScript = `
local existing = redis.call("GET", KEYS[1])
if existing then
  local ok, decoded = pcall(cjson.decode, existing)
  if ok and decoded.timestamp and tonumber(decoded.timestamp) > tonumber(ARGV[2]) then
    return 0
  end
end
redis.call("SET", KEYS[1], ARGV[1])
return 1
`

// record is the envelope stored in Redis for every key, carrying the
// logical timestamp the LWW script arbitrates on.
type record struct {
	Value     json.RawMessage `json:"value"`
	Timestamp int64           `json:"timestamp"`
	Node      string          `json:"node"`
}

// Store is the distributed cache tier. NodeID identifies the writing
// process for diagnostic purposes only; it plays no role in conflict
// resolution, which is timestamp-only.
type Store struct {
	client *redis.Client
	script *redis.Script
	nodeID string
}

// New wraps an existing Redis client. The caller owns the client's
// lifecycle (construction, TLS, pooling) and closes it on shutdown.
func New(client *redis.Client, nodeID string) *Store {
	return &Store{client: client, script: redis.NewScript(lwwSetScript), nodeID: nodeID}
}

// Get returns the decoded value for key, reporting false if absent.
func (s *Store) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("distributed cache get %q: %w", key, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return false, fmt.Errorf("distributed cache decode envelope %q: %w", key, err)
	}
	if err := json.Unmarshal(rec.Value, dest); err != nil {
		return false, fmt.Errorf("distributed cache decode value %q: %w", key, err)
	}
	return true, nil
}

// Set writes value under key with no expiry, timestamped at
// timestampNanos. A write carrying an older timestamp than what is
// already stored is silently dropped per the last-write-wins contract.
// There is no TTL here by design: the distributed tier is treated as
// effectively unbounded within a session (spec Non-goal), unlike the
// local tier's per-entry expiry.
func (s *Store) Set(ctx context.Context, key string, value any, timestampNanos int64) error {
	encodedValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("distributed cache encode value %q: %w", key, err)
	}
	rec := record{Value: encodedValue, Timestamp: timestampNanos, Node: s.nodeID}
	encodedRecord, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("distributed cache encode envelope %q: %w", key, err)
	}

	_, err = s.script.Run(ctx, s.client, []string{key}, string(encodedRecord), timestampNanos).Result()
	if err != nil {
		return fmt.Errorf("distributed cache set %q: %w", key, err)
	}
	return nil
}

// Delete removes key from the distributed tier unconditionally.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("distributed cache delete %q: %w", key, err)
	}
	return nil
}

// Ping verifies connectivity to the backing Redis instance.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
