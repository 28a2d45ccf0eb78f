package web

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// submissions makes create forms at-most-once: each rendered form carries a
// fresh id, and a POST is only forwarded to the API if it claims that id.
type submissions struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

func newSubmissions(ttl time.Duration) *submissions {
	return &submissions{seen: make(map[string]time.Time), ttl: ttl, now: time.Now}
}

func newSubmissionID() string { return uuid.NewString() }

func (s *submissions) claim(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, at := range s.seen {
		if now.Sub(at) > s.ttl {
			delete(s.seen, k)
		}
	}
	if _, dup := s.seen[id]; dup {
		return false
	}
	s.seen[id] = now
	return true
}

// release lets a failed submission be retried with the same form.
func (s *submissions) release(id string) {
	s.mu.Lock()
	delete(s.seen, id)
	s.mu.Unlock()
}
