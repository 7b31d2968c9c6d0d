// internal/store/memory.go
package store

import (
	"context"
	"sync"

	"lyricbingo/internal/models"
)

// MemoryStore is an in-process RoomStore. A single mutex serializes every
// read-modify-write, which gives Transact the same "exactly one concurrent
// resolver wins" behavior as the optimistic Redis implementation. Used for
// tests and single-node development.
type MemoryStore struct {
	mu     sync.Mutex
	rooms  map[string]*models.Room
	subs   map[string]map[int]*memorySub
	nextID int
}

type memorySub struct {
	onChange func(*models.Room)
	onError  func(error)
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: make(map[string]*models.Room),
		subs:  make(map[string]map[int]*memorySub),
	}
}

func (s *MemoryStore) Create(ctx context.Context, room *models.Room) error {
	snapshot, err := cloneRoom(room)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if _, exists := s.rooms[room.Code]; exists {
		s.mu.Unlock()
		return ErrRoomExists
	}
	s.rooms[room.Code] = snapshot
	subs := s.snapshotSubs(room.Code)
	s.mu.Unlock()

	s.notify(subs, snapshot)
	return nil
}

func (s *MemoryStore) Read(ctx context.Context, code string) (*models.Room, error) {
	s.mu.Lock()
	room, ok := s.rooms[code]
	s.mu.Unlock()
	if !ok {
		return nil, ErrRoomNotFound
	}
	return cloneRoom(room)
}

func (s *MemoryStore) UpdateFields(ctx context.Context, code string, fields map[string]any) error {
	s.mu.Lock()
	room, ok := s.rooms[code]
	if !ok {
		s.mu.Unlock()
		return ErrRoomNotFound
	}
	updated, err := applyFields(room, fields)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.rooms[code] = updated
	subs := s.snapshotSubs(code)
	s.mu.Unlock()

	s.notify(subs, updated)
	return nil
}

func (s *MemoryStore) Transact(ctx context.Context, code string, fn TxFunc) error {
	s.mu.Lock()
	room, ok := s.rooms[code]
	if !ok {
		s.mu.Unlock()
		return ErrRoomNotFound
	}
	work, err := cloneRoom(room)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	commit, err := fn(work)
	if err != nil || !commit {
		s.mu.Unlock()
		return err
	}
	s.rooms[code] = work
	subs := s.snapshotSubs(code)
	s.mu.Unlock()

	s.notify(subs, work)
	return nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, code string, onChange func(*models.Room), onError func(error)) (Unsubscribe, error) {
	s.mu.Lock()
	room, ok := s.rooms[code]
	if !ok {
		s.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	initial, err := cloneRoom(room)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.subs[code] == nil {
		s.subs[code] = make(map[int]*memorySub)
	}
	id := s.nextID
	s.nextID++
	s.subs[code][id] = &memorySub{onChange: onChange, onError: onError}
	s.mu.Unlock()

	// Initial snapshot push, mirroring the subscribe-then-snapshot contract.
	onChange(initial)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[code], id)
	}, nil
}

// snapshotSubs copies the subscriber list for code. Callers must hold mu.
func (s *MemoryStore) snapshotSubs(code string) []*memorySub {
	subs := make([]*memorySub, 0, len(s.subs[code]))
	for _, sub := range s.subs[code] {
		subs = append(subs, sub)
	}
	return subs
}

// notify pushes a committed snapshot to each subscriber. Each subscriber
// gets its own copy so one listener cannot mutate another's view.
func (s *MemoryStore) notify(subs []*memorySub, room *models.Room) {
	for _, sub := range subs {
		snapshot, err := cloneRoom(room)
		if err != nil {
			if sub.onError != nil {
				sub.onError(err)
			}
			continue
		}
		sub.onChange(snapshot)
	}
}
