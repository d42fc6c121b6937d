package dispatch

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

const defaultQueueSize = 64

// Handler consumes dispatched events. Handlers run to completion before
// the next event is delivered; no two handlers ever run concurrently.
type Handler interface {
	Handle(ctx context.Context, e Event)
}

// HandlerFunc adapts a function into a Handler.
type HandlerFunc func(ctx context.Context, e Event)

// Handle executes f(ctx, e).
func (f HandlerFunc) Handle(ctx context.Context, e Event) {
	if f != nil {
		f(ctx, e)
	}
}

// LoopOption customizes Loop construction.
type LoopOption func(*Loop)

// LoopWithQueueSize overrides the buffered event queue size.
func LoopWithQueueSize(n int) LoopOption {
	return func(l *Loop) {
		if n > 0 {
			l.queueSize = n
		}
	}
}

// LoopWithLogger injects a logger for drop diagnostics.
func LoopWithLogger(logger log.FieldLogger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loop is a single-threaded event dispatcher. Events post from anywhere;
// handling happens on the one goroutine running Run. PostNextTick queues
// cosmetic work that runs before the next event is handled, the
// animation-frame analog.
type Loop struct {
	handler   Handler
	logger    log.FieldLogger
	queueSize int

	events chan Event
	ticks  chan func()

	closeOnce sync.Once
}

// NewLoop builds a loop around the given handler.
func NewLoop(handler Handler, opts ...LoopOption) *Loop {
	l := &Loop{
		handler:   handler,
		logger:    log.StandardLogger(),
		queueSize: defaultQueueSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	l.events = make(chan Event, l.queueSize)
	l.ticks = make(chan func(), l.queueSize)
	return l
}

// Post enqueues an event. A full queue drops the event with a log line
// rather than blocking the producer.
func (l *Loop) Post(e Event) {
	select {
	case l.events <- e:
	default:
		l.logger.WithField("event", e).Warn("dispatch: queue full, dropping event")
	}
}

// PostNextTick queues cosmetic work to run before the next event.
func (l *Loop) PostNextTick(fn func()) {
	if fn == nil {
		return
	}
	select {
	case l.ticks <- fn:
	default:
		l.logger.Warn("dispatch: tick queue full, dropping cosmetic update")
	}
}

// Run dispatches until the context is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) {
	for {
		l.drainTicks()
		select {
		case <-ctx.Done():
			return
		case fn := <-l.ticks:
			fn()
		case e, ok := <-l.events:
			if !ok {
				return
			}
			l.drainTicks()
			l.handler.Handle(ctx, e)
		}
	}
}

// Close stops Run after the queued events drain.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.events) })
}

func (l *Loop) drainTicks() {
	for {
		select {
		case fn := <-l.ticks:
			fn()
		default:
			return
		}
	}
}
