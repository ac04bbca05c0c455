// Package cache provides the bounded, time-expiring result cache consulted
// by the extraction orchestrator.  Two implementations share one contract:
// an in-process FIFO store for single-node deployments and a Redis-backed
// store for multi-instance ones.  Keys are deterministic content
// fingerprints, entries are immutable once inserted, and a cache failure is
// never allowed to fail a classification.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/turtacn/HazWaste-Intelligence/pkg/errors"
)

var (
	// ErrMiss is returned by Get when the key is absent or expired.
	ErrMiss = errors.New(errors.ErrCodeNotFound, "cache miss")
)

// Cache is the result-cache contract.  Get unmarshals the stored entry into
// dest and returns ErrMiss when absent; Set stores value under key with the
// implementation's TTL policy.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Len(ctx context.Context) (int, error)
}

// Serializer converts cached values to and from bytes.  JSON is the default
// everywhere; the indirection exists so tests can inject failures.
type Serializer interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type jsonSerializer struct{}

func (jsonSerializer) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (jsonSerializer) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

// Fingerprint derives the deterministic cache key for one classification
// input: a SHA-256 over the document text and the canonical JSON encoding of
// the caller hints.  Pure function; equal inputs always collide, unequal
// ones practically never do.
func Fingerprint(text string, hints interface{}) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	if hints != nil {
		if data, err := json.Marshal(hints); err == nil {
			h.Write(data)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// entry is the stored form shared by implementations that need explicit
// expiry bookkeeping.
type entry struct {
	data       []byte
	insertedAt time.Time
	expiresAt  time.Time
}

func (e *entry) expired(now time.Time) bool { return now.After(e.expiresAt) }
