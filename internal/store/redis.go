// internal/store/redis.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lyricbingo/internal/models"
)

// maxTxRetries bounds the optimistic-locking retry loop. Contention on one
// room is a handful of clients, so conflicts resolve within a few attempts.
const maxTxRetries = 16

// RedisStore keeps each room as a JSON document under one key and runs
// read-modify-write operations under WATCH/MULTI optimistic locking. Change
// notification rides Redis pub/sub: every committed write publishes the full
// updated document to the room's channel.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an already-connected client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// DialRedis connects and pings a Redis server.
func DialRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func roomKey(code string) string     { return "room:" + code }
func roomChannel(code string) string { return "room.updates:" + code }

func (s *RedisStore) Create(ctx context.Context, room *models.Room) error {
	payload, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("marshal room %s: %w", room.Code, err)
	}
	ok, err := s.rdb.SetNX(ctx, roomKey(room.Code), payload, 0).Result()
	if err != nil {
		return fmt.Errorf("create room %s: %w", room.Code, err)
	}
	if !ok {
		return ErrRoomExists
	}
	s.publish(ctx, room.Code, payload)
	return nil
}

func (s *RedisStore) Read(ctx context.Context, code string) (*models.Room, error) {
	raw, err := s.rdb.Get(ctx, roomKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read room %s: %w", code, err)
	}
	room := &models.Room{}
	if err := json.Unmarshal(raw, room); err != nil {
		return nil, fmt.Errorf("decode room %s: %w", code, err)
	}
	return room, nil
}

func (s *RedisStore) UpdateFields(ctx context.Context, code string, fields map[string]any) error {
	return s.Transact(ctx, code, func(room *models.Room) (bool, error) {
		updated, err := applyFields(room, fields)
		if err != nil {
			return false, err
		}
		*room = *updated
		return true, nil
	})
}

func (s *RedisStore) Transact(ctx context.Context, code string, fn TxFunc) error {
	key := roomKey(code)

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		var payload []byte
		committed := false

		err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
			raw, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return ErrRoomNotFound
			}
			if err != nil {
				return err
			}
			room := &models.Room{}
			if err := json.Unmarshal(raw, room); err != nil {
				return fmt.Errorf("decode room %s: %w", code, err)
			}

			commit, err := fn(room)
			if err != nil || !commit {
				return err
			}
			payload, err = json.Marshal(room)
			if err != nil {
				return fmt.Errorf("marshal room %s: %w", code, err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, payload, 0)
				return nil
			})
			if err == nil {
				committed = true
			}
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue // another writer got there first, re-read and retry
		}
		if err != nil {
			return err
		}
		if committed {
			s.publish(ctx, code, payload)
		}
		return nil
	}
	return fmt.Errorf("transact on room %s: retry limit exceeded", code)
}

func (s *RedisStore) Subscribe(ctx context.Context, code string, onChange func(*models.Room), onError func(error)) (Unsubscribe, error) {
	pubsub := s.rdb.Subscribe(ctx, roomChannel(code))
	// Force the subscription onto the wire before reading the initial
	// snapshot. A write landing between the two then reaches the channel
	// and at worst duplicates the snapshot; reading first would let it
	// slip by unseen.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe to room %s: %w", code, err)
	}

	initial, err := s.Read(ctx, code)
	if err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	onChange(initial)

	go func() {
		for msg := range pubsub.Channel() {
			room := &models.Room{}
			if err := json.Unmarshal([]byte(msg.Payload), room); err != nil {
				if onError != nil {
					onError(fmt.Errorf("decode room %s update: %w", code, err))
				}
				continue
			}
			onChange(room)
		}
	}()

	return func() { _ = pubsub.Close() }, nil
}

func (s *RedisStore) publish(ctx context.Context, code string, payload []byte) {
	if err := s.rdb.Publish(ctx, roomChannel(code), payload).Err(); err != nil {
		// Subscribers miss one push but re-sync on the next write; the
		// document itself is already committed.
		return
	}
}
