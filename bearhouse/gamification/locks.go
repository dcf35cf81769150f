package gamification

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// userLocks serializes the load-mutate-save cycle per user id. Without it,
// concurrent mutations of the same stats document (a quest completion racing
// an admin XP grant) lose updates under last-writer-wins persistence.
type userLocks struct {
	locks *xsync.MapOf[string, *sync.Mutex]
}

func newUserLocks() *userLocks {
	return &userLocks{locks: xsync.NewMapOf[string, *sync.Mutex]()}
}

// lock acquires the mutex for a user and returns the release func.
func (l *userLocks) lock(userID string) func() {
	mu, _ := l.locks.LoadOrStore(userID, &sync.Mutex{})
	mu.Lock()
	return mu.Unlock
}
