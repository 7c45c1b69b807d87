package booking

import "sync"

// staffLockStore hands out one mutex per staff id. Reservation writes for the
// same staff member serialize on it, so the overlap check and the insert act
// as one step even before the database transaction re-verifies.
type staffLockStore struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newStaffLockStore() *staffLockStore {
	return &staffLockStore{locks: make(map[string]*sync.Mutex)}
}

func (s *staffLockStore) get(staffID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, exists := s.locks[staffID]
	if !exists {
		lock = &sync.Mutex{}
		s.locks[staffID] = lock
	}
	return lock
}
