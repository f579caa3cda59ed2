package application

import (
	"sync"
	"time"
)

const retractionTTL = 30 * time.Second

type retractionKey struct {
	messageID string
	userID    string
	emoji     string
}

// retractions remembers reactions the bot removed itself, so the resulting remove
// notification is not treated as the user leaving.
type retractions struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	pending map[retractionKey]time.Time
}

func newRetractions(ttl time.Duration) *retractions {
	return &retractions{
		ttl:     ttl,
		now:     time.Now,
		pending: make(map[retractionKey]time.Time),
	}
}

func (r *retractions) record(k retractionKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune()
	r.pending[k] = r.now().Add(r.ttl)
}

func (r *retractions) forget(k retractionKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, k)
}

// consume reports whether k was a pending retraction and clears it.
func (r *retractions) consume(k retractionKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune()
	if _, ok := r.pending[k]; !ok {
		return false
	}
	delete(r.pending, k)
	return true
}

func (r *retractions) prune() {
	now := r.now()
	for k, exp := range r.pending {
		if now.After(exp) {
			delete(r.pending, k)
		}
	}
}
