package app

import "sync"

// RoomLocks serializes room-scoped units in-process. Each room gets its
// own mutex, created on first use, so operations on different rooms never
// contend. One instance is shared by every service that mutates room
// state.
type RoomLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRoomLocks creates an empty lock registry.
func NewRoomLocks() *RoomLocks {
	return &RoomLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the exclusive lock for the given room and returns the
// matching unlock function.
func (l *RoomLocks) Lock(roomID string) func() {
	l.mu.Lock()
	m, ok := l.locks[roomID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[roomID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
