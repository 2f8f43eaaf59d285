package api

import (
	"sync"

	"github.com/google/uuid"

	"github.com/samcharles93/machouuid/internal/report"
)

const defaultStoreCapacity = 256

// ResultStore keeps the most recent lookup results so clients can fetch them
// again by ID. The oldest entry is evicted once capacity is reached.
type ResultStore struct {
	mu       sync.Mutex
	capacity int
	results  map[string]report.Result
	order    []string
}

func NewResultStore(capacity int) *ResultStore {
	if capacity <= 0 {
		capacity = defaultStoreCapacity
	}
	return &ResultStore{
		capacity: capacity,
		results:  make(map[string]report.Result, capacity),
	}
}

// Put stores res under a fresh ID and returns it.
func (s *ResultStore) Put(res report.Result) string {
	id := newLookupID()

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.results, oldest)
	}
	s.results[id] = res
	s.order = append(s.order, id)
	return id
}

func (s *ResultStore) Get(id string) (report.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.results[id]
	return res, ok
}

func (s *ResultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

func newLookupID() string {
	return "lookup_" + uuid.NewString()
}
