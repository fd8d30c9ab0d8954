package service

import (
	"fmt"
	"sync"
)

// keyLocker hands out one mutex per key and forgets keys nobody holds.
type keyLocker struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyLocker() *keyLocker {
	return &keyLocker{locks: make(map[string]*refMutex)}
}

// Lock blocks until key is free and returns the matching unlock.
func (l *keyLocker) Lock(key string) (unlock func()) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &refMutex{}
		l.locks[key] = m
	}
	m.refs++
	l.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		l.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

func likeKey(filmID, userID int64) string {
	return fmt.Sprintf("like:%d:%d", filmID, userID)
}

// pairKey is the same for (a, b) and (b, a).
func pairKey(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("friends:%d:%d", a, b)
}
