package board

import (
	"sync"
	"time"
)

// IDSource hands out record ids derived from the millisecond wall clock.
// Two records created within the same millisecond would collide on a bare
// clock read, so the source bumps past the last issued id; ids are
// strictly increasing within a process.
type IDSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewIDSource returns a source backed by the system clock.
func NewIDSource() *IDSource {
	return NewIDSourceAt(time.Now)
}

// NewIDSourceAt returns a source backed by the given clock, for tests.
func NewIDSourceAt(now func() time.Time) *IDSource {
	return &IDSource{now: now}
}

// Next returns a fresh id.
func (s *IDSource) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}
