package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/superbowl-squares/internal/model"
	"github.com/mcoot/superbowl-squares/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreateBoard(ctx context.Context, board *model.Board) error {
	stored := board.Clone()
	stored.Version = 1
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	created, err := s.client.SetNX(ctx, boardKey(board.ID), data, s.cfg.BoardTTL).Result()
	if err != nil {
		return err
	}
	if !created {
		return model.ErrBoardExists
	}

	pipe := s.client.Pipeline()
	s.indexBoard(ctx, pipe, stored, "")
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	board.Version = stored.Version
	return nil
}

func (s *Storage) GetBoard(ctx context.Context, id model.BoardID) (*model.Board, error) {
	data, err := s.client.Get(ctx, boardKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrBoardNotFound
		}
		return nil, err
	}

	var board model.Board
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// UpdateBoard uses WATCH/MULTI so a write racing between the version check
// and the SET aborts the transaction instead of overwriting
func (s *Storage) UpdateBoard(ctx context.Context, board *model.Board) error {
	key := boardKey(board.ID)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrBoardNotFound
			}
			return err
		}

		var current model.Board
		if err := json.Unmarshal(data, &current); err != nil {
			return err
		}
		if current.Version != board.Version {
			return model.ErrVersionConflict
		}

		next := board.Clone()
		next.Version++
		nextData, err := json.Marshal(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, nextData, s.cfg.BoardTTL)
			s.indexBoard(ctx, pipe, next, current.State)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrVersionConflict
	}
	if err != nil {
		return err
	}

	board.Version++
	return nil
}

// indexBoard queues the state index updates for a board write
func (s *Storage) indexBoard(ctx context.Context, pipe redis.Pipeliner, board *model.Board, previous model.BoardState) {
	if previous != "" && previous != board.State {
		pipe.SRem(ctx, boardsByStateIndexKey(previous), string(board.ID))
	}
	indexKey := boardsByStateIndexKey(board.State)
	pipe.SAdd(ctx, indexKey, string(board.ID))
	if s.cfg.BoardTTL > 0 {
		pipe.Expire(ctx, indexKey, s.cfg.BoardTTL) // Keep index TTL in sync
	}
}

func (s *Storage) ListBoardsByState(ctx context.Context, state model.BoardState) ([]*model.Board, error) {
	ids, err := s.client.SMembers(ctx, boardsByStateIndexKey(state)).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.Board{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = boardKey(model.BoardID(id))
	}

	// Fetch all boards in one round trip using MGET
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	boards := make([]*model.Board, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Board may have expired
		}
		str, ok := val.(string)
		if !ok {
			continue
		}
		var board model.Board
		if err := json.Unmarshal([]byte(str), &board); err != nil {
			continue // Skip invalid data
		}
		if board.State != state {
			continue // Stale index entry
		}
		boards = append(boards, &board)
	}

	return boards, nil
}
