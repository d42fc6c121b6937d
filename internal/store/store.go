// Package store is the boundary between in-memory board records and the
// local persistent key-value store. State lives as two independent JSON
// array blobs under fixed, non-namespaced keys.
package store

import (
	"context"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
)

const (
	// TasksKey holds the serialized task collection.
	TasksKey = "tasks"
	// TagUpsKey holds the serialized status-submission log.
	TagUpsKey = "tagUps"
)

// KV is a synchronous string key-value store. Get reports whether the key
// exists; an absent key is not an error.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Load reads the collection stored under key. An absent key yields an
// empty collection. Unreadable or unparsable content is logged and also
// yields an empty collection; a store or parse failure never propagates
// to the caller.
func Load[T any](ctx context.Context, kv KV, key string, logger log.FieldLogger) []T {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		logger.WithError(err).WithField("key", key).Error("store: read failed, treating as empty")
		return []T{}
	}
	if !ok || raw == "" {
		return []T{}
	}
	var items []T
	if err := sonic.UnmarshalString(raw, &items); err != nil {
		logger.WithError(err).WithField("key", key).Error("store: corrupt content, treating as empty")
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// Save serializes the full collection and writes it under key. Write
// failures are returned to the caller untouched; callers are expected to
// abort the rest of their handler on error.
func Save[T any](ctx context.Context, kv KV, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := sonic.MarshalString(items)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, raw)
}
