// internal/archive/archive.go
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Archive persists a durable record of room activity to Postgres: one row
// per room created and one row per bingo awarded. The live game never reads
// from here; the adjudicated room document stays in the room store.
type Archive struct {
	pool *pgxpool.Pool
}

// Award is one adjudicated bingo.
type Award struct {
	ID         uuid.UUID
	RoomCode   string
	PlayerID   string
	PlayerName string
	Score      int // claimant's score after the award
	AwardedAt  time.Time
}

// Connect opens a pgx pool against dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*Archive, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create pgx pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return &Archive{pool: pool}, nil
}

// EnsureSchema creates the archive tables if they do not exist.
func (a *Archive) EnsureSchema(ctx context.Context) error {
	_, err := a.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS rooms_created (
			code        TEXT        NOT NULL,
			host_id     TEXT        NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS bingo_awards (
			id          UUID        PRIMARY KEY,
			room_code   TEXT        NOT NULL,
			player_id   TEXT        NOT NULL,
			player_name TEXT        NOT NULL,
			score       INT         NOT NULL,
			awarded_at  TIMESTAMPTZ NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("ensure archive schema: %w", err)
	}
	return nil
}

// RecordRoomCreated inserts one rooms_created row.
func (a *Archive) RecordRoomCreated(ctx context.Context, code, hostID string) error {
	_, err := a.pool.Exec(ctx,
		`INSERT INTO rooms_created (code, host_id) VALUES ($1, $2)`,
		code, hostID,
	)
	if err != nil {
		return fmt.Errorf("record room %s: %w", code, err)
	}
	return nil
}

// RecordAward inserts one bingo_awards row, assigning the id if unset.
func (a *Archive) RecordAward(ctx context.Context, award Award) error {
	if award.ID == uuid.Nil {
		award.ID = uuid.New()
	}
	_, err := a.pool.Exec(ctx,
		`INSERT INTO bingo_awards (id, room_code, player_id, player_name, score, awarded_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		award.ID, award.RoomCode, award.PlayerID, award.PlayerName, award.Score, award.AwardedAt,
	)
	if err != nil {
		return fmt.Errorf("record award in room %s: %w", award.RoomCode, err)
	}
	return nil
}

// Close releases the pool.
func (a *Archive) Close() {
	a.pool.Close()
}
