package board

import (
	"context"

	log "github.com/sirupsen/logrus"

	"tagup/internal/store"
)

// TagUpLog appends status submissions to the persisted tagUps blob. The
// log holds no in-memory state; each append reloads the stored log,
// treating a load failure as an empty log, and writes the whole thing
// back. Write failures propagate.
type TagUpLog struct {
	kv     store.KV
	logger log.FieldLogger
}

// NewTagUpLog returns a log bridged to the given store.
func NewTagUpLog(kv store.KV, logger log.FieldLogger) *TagUpLog {
	return &TagUpLog{kv: kv, logger: logger}
}

// Append adds one submission to the persisted log.
func (l *TagUpLog) Append(ctx context.Context, entry TagUp) error {
	entries := store.Load[TagUp](ctx, l.kv, store.TagUpsKey, l.logger)
	entries = append(entries, entry)
	return store.Save(ctx, l.kv, store.TagUpsKey, entries)
}
