package puzzles

import "sync"

type retryKey struct {
	userID   int64
	puzzleID int64
}

// RetryCache keeps the code of a failed or errored coding attempt so
// the user gets it back on their next try. The state is per user and
// per puzzle, lives only in memory, and is dropped on the next
// completed attempt — it is deliberately not part of the durable
// submission record.
type RetryCache struct {
	mu    sync.Mutex
	codes map[retryKey]string
}

func NewRetryCache() *RetryCache {
	return &RetryCache{codes: make(map[retryKey]string)}
}

func (c *RetryCache) Put(userID, puzzleID int64, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.codes[retryKey{userID, puzzleID}] = code
}

func (c *RetryCache) Get(userID, puzzleID int64) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codes[retryKey{userID, puzzleID}]
}

func (c *RetryCache) Clear(userID, puzzleID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.codes, retryKey{userID, puzzleID})
}
