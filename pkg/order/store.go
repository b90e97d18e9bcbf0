package order

import "sync"

// Store owns every order for the process lifetime. It hands out strictly
// increasing ids and keeps insertion order for listing. All access is safe
// under concurrent request handlers and execution goroutines.
type Store struct {
	mu     sync.RWMutex
	lastID int64
	byID   map[int64]*Order
	seq    []*Order
}

func NewStore() *Store {
	return &Store{
		byID: make(map[int64]*Order),
	}
}

// NextID returns the next order id, starting at 1. No two calls return the
// same value, regardless of concurrency.
func (s *Store) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	return s.lastID
}

func (s *Store) Put(o *Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[o.ID()]; exists {
		return
	}
	s.byID[o.ID()] = o
	s.seq = append(s.seq, o)
}

// Get returns the order and whether it exists; a miss is not an error.
func (s *Store) Get(id int64) (*Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byID[id]
	return o, ok
}

// ListAll returns all orders in insertion order.
func (s *Store) ListAll() []*Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Order, len(s.seq))
	copy(out, s.seq)
	return out
}

func (s *Store) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	for i, o := range s.seq {
		if o.ID() == id {
			s.seq = append(s.seq[:i], s.seq[i+1:]...)
			break
		}
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seq)
}
