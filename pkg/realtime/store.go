package realtime

import (
	"sort"
	"sync"
)

// Room pairs a piece of state with the broadcaster its subscribers listen on.
type Room[T, E any] struct {
	ID    string
	State T
	Hub   *Broadcaster[E]
}

// RoomStore manages independent rooms keyed by ID.
type RoomStore[T, E any] struct {
	mu    sync.RWMutex
	rooms map[string]*Room[T, E]
}

// NewRoomStore creates an empty room store.
func NewRoomStore[T, E any]() *RoomStore[T, E] {
	return &RoomStore[T, E]{
		rooms: make(map[string]*Room[T, E]),
	}
}

// Create adds a room with the given id and state. An existing room with the
// same id is replaced.
func (s *RoomStore[T, E]) Create(id string, state T) *Room[T, E] {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &Room[T, E]{ID: id, State: state, Hub: NewBroadcaster[E]()}
	s.rooms[id] = r
	return r
}

// Get returns the room by ID if it exists.
func (s *RoomStore[T, E]) Get(id string) (*Room[T, E], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return r, ok
}

// Publish notifies subscribers of the room. Unknown rooms are ignored.
func (s *RoomStore[T, E]) Publish(id string, event E) int {
	r, ok := s.Get(id)
	if !ok {
		return 0
	}
	return r.Hub.Publish(event)
}

// IDs returns the room IDs in sorted order.
func (s *RoomStore[T, E]) IDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Len reports the number of rooms.
func (s *RoomStore[T, E]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
