// internal/store/store.go
package store

import (
	"context"
	"errors"

	"lyricbingo/internal/models"
)

var (
	// ErrRoomExists is returned by Create when the room code is taken.
	ErrRoomExists = errors.New("store: room already exists")
	// ErrRoomNotFound is returned when no document exists for the code.
	ErrRoomNotFound = errors.New("store: room not found")
)

// TxFunc runs inside Transact against a private copy of the current room.
// It may mutate the copy freely; returning commit=false abandons the attempt
// without writing (the no-op path for stale preconditions). Returning an
// error aborts the transaction and surfaces the error to the caller.
type TxFunc func(room *models.Room) (commit bool, err error)

// Unsubscribe detaches a change listener registered via Subscribe.
type Unsubscribe func()

// RoomStore is the document-store contract the game engine depends on.
// It is the sole arbiter of consistency between concurrent clients: every
// decision that depends on current claim or vote state must go through
// Transact, which re-reads the document inside its retry scope.
type RoomStore interface {
	// Create stores a new room document, failing with ErrRoomExists if the
	// code is already taken.
	Create(ctx context.Context, room *models.Room) error

	// Read returns a snapshot of the room, or ErrRoomNotFound.
	Read(ctx context.Context, code string) (*models.Room, error)

	// UpdateFields applies an unconditional partial update of dotted field
	// paths (e.g. "cards.p_ab12.marks", "players.p_ab12.score"). Safe only
	// for writes with no read-then-branch dependency.
	UpdateFields(ctx context.Context, code string, fields map[string]any) error

	// Transact runs fn atomically against the current document, retrying on
	// conflicting concurrent writers. Returns ErrRoomNotFound if the room
	// does not exist.
	Transact(ctx context.Context, code string, fn TxFunc) error

	// Subscribe registers a push listener invoked with a fresh snapshot after
	// every committed change. onError receives transport-level failures.
	Subscribe(ctx context.Context, code string, onChange func(*models.Room), onError func(error)) (Unsubscribe, error)
}
