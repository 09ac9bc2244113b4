package service

import "sync"

// UserLocks serializes ledger mutations per user. Order execution, deposits
// and withdrawals hold the user's lock across their whole read-validate-write
// sequence, so two concurrent operations for the same user can never
// interleave their read-modify-write cycles. Operations for different users
// proceed in parallel.
//
// Lock entries are never removed; the registry grows with the number of
// distinct active users, which is bounded by the user table.
type UserLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewUserLocks creates an empty lock registry.
func NewUserLocks() *UserLocks {
	return &UserLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the mutex for the given user, creating it on first use.
func (l *UserLocks) Lock(userID string) {
	l.userMutex(userID).Lock()
}

// Unlock releases the mutex for the given user.
func (l *UserLocks) Unlock(userID string) {
	l.userMutex(userID).Unlock()
}

func (l *UserLocks) userMutex(userID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	return m
}
