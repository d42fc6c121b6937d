package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

const defaultQuietWindow = 250 * time.Millisecond

// StateWatcher watches the flat state directory and fires onChange once
// per burst of writes. Writes issued by the board itself also fire; the
// subscriber is expected to reload, which is idempotent.
type StateWatcher struct {
	fw       *fsnotify.Watcher
	window   time.Duration
	onChange func()
	logger   log.FieldLogger
}

// NewStateWatcher creates a watcher over dir.
func NewStateWatcher(dir string, window time.Duration, onChange func(), logger log.FieldLogger) (*StateWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch: add %s: %w", dir, err)
	}
	if window <= 0 {
		window = defaultQuietWindow
	}
	return &StateWatcher{fw: fw, window: window, onChange: onChange, logger: logger}, nil
}

// Run blocks until the context is cancelled.
func (w *StateWatcher) Run(ctx context.Context) error {
	defer func() { _ = w.fw.Close() }()

	debouncer := NewDebouncer(w.window, w.onChange)
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename) {
				debouncer.Trigger()
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("watch: watcher error")
		}
	}
}
