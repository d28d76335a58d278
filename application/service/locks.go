package service

import "sync"

// userLocks serializes mutating operations per user so that concurrent batch
// submissions cannot both pass the quota check.
//
// Entries are never evicted, so the map grows with the number of distinct
// users seen by this process. A mutex is two words, so eviction only becomes
// worth the bookkeeping at many millions of users.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the per-user mutex and returns its unlock function.
func (l *userLocks) acquire(userID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
