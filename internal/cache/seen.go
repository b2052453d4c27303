// Package cache remembers recently delivered message ids so a consumer
// can drop redeliveries.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Seen is a bounded set of ids. The least recently marked id is evicted
// when full, and ids expire after ttl.
type Seen struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	items   map[string]*list.Element
	order   *list.List
}

type seenItem struct {
	id        string
	expiresAt time.Time
}

func NewSeen(maxSize int, ttl time.Duration) *Seen {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Seen{
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Mark records id and reports whether it was new.
func (s *Seen) Mark(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if elem, ok := s.items[id]; ok {
		item := elem.Value.(*seenItem)
		if now.Before(item.expiresAt) {
			s.order.MoveToFront(elem)
			return false
		}
		s.remove(elem)
	}

	s.items[id] = s.order.PushFront(&seenItem{id: id, expiresAt: now.Add(s.ttl)})
	if s.order.Len() > s.maxSize {
		s.remove(s.order.Back())
	}
	return true
}

// Forget drops id so a later Mark treats it as new.
func (s *Seen) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.items[id]; ok {
		s.remove(elem)
	}
}

func (s *Seen) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Seen) remove(elem *list.Element) {
	delete(s.items, elem.Value.(*seenItem).id)
	s.order.Remove(elem)
}
