package indexer

import "sync/atomic"

// passLock provides non-blocking lock semantics using atomic operations,
// so a background rescan skips a pass that is still running instead of
// queueing behind it.
type passLock struct {
	state atomic.Int32 // 0 = unlocked, 1 = locked
}

// TryAcquire attempts to acquire the lock without blocking.
// Returns true if the lock was successfully acquired, false otherwise.
func (l *passLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release releases the lock.
// Must only be called by the goroutine that successfully acquired the lock.
func (l *passLock) Release() {
	l.state.Store(0)
}
