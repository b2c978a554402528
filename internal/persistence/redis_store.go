package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/petrijr/flowboard/pkg/api"
)

// RedisBoardStore is a BoardStore backed by Redis.
// It uses a simple key structure:
//
//	<prefix>item:<id>  => JSON-encoded redisItemPayload
//	<prefix>idx:items  => SET of all item IDs
//	<prefix>version    => integer board version
//
// Version checks use WATCH on the version key, so concurrent commits from
// other sessions surface as ErrVersionConflict rather than lost writes.
type RedisBoardStore struct {
	client *redis.Client
	prefix string
}

var _ BoardStore = (*RedisBoardStore)(nil)

type redisItemPayload struct {
	ID             string  `json:"id"`
	StageID        string  `json:"stage_id"`
	Rank           float64 `json:"rank"`
	EnteredStageAt int64   `json:"entered_stage_at"`
	CreatedAt      int64   `json:"created_at"`
	Blocked        bool    `json:"blocked,omitempty"`
}

// NewRedisBoardStore creates a RedisBoardStore.
// prefix is optional but recommended (e.g. "flowboard:").
func NewRedisBoardStore(client *redis.Client, prefix string) *RedisBoardStore {
	if prefix == "" {
		prefix = "flowboard:"
	}
	return &RedisBoardStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisBoardStore) keyItem(id string) string {
	return s.prefix + "item:" + id
}

func (s *RedisBoardStore) keyIndex() string {
	return s.prefix + "idx:items"
}

func (s *RedisBoardStore) keyVersion() string {
	return s.prefix + "version"
}

func encodeRedisItem(item api.WorkItem) ([]byte, error) {
	return json.Marshal(redisItemPayload{
		ID:             item.ID,
		StageID:        item.StageID,
		Rank:           item.Rank,
		EnteredStageAt: item.EnteredStageAt.UnixNano(),
		CreatedAt:      item.CreatedAt.UnixNano(),
		Blocked:        item.Blocked,
	})
}

func decodeRedisItem(data []byte) (api.WorkItem, error) {
	var p redisItemPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return api.WorkItem{}, err
	}
	return api.WorkItem{
		ID:             p.ID,
		StageID:        p.StageID,
		Rank:           p.Rank,
		EnteredStageAt: time.Unix(0, p.EnteredStageAt),
		CreatedAt:      time.Unix(0, p.CreatedAt),
		Blocked:        p.Blocked,
	}, nil
}

func (s *RedisBoardStore) LoadBoard(ctx context.Context) ([]api.WorkItem, int64, error) {
	version, err := s.currentVersion(ctx)
	if err != nil {
		return nil, 0, err
	}

	ids, err := s.client.SMembers(ctx, s.keyIndex()).Result()
	if err != nil {
		return nil, 0, err
	}

	items := make([]api.WorkItem, 0, len(ids))
	for _, id := range ids {
		data, err := s.client.Get(ctx, s.keyItem(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			// Index entry without payload: stale index, skip it.
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		it, err := decodeRedisItem(data)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, version, nil
}

func (s *RedisBoardStore) currentVersion(ctx context.Context) (int64, error) {
	val, err := s.client.Get(ctx, s.keyVersion()).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

func (s *RedisBoardStore) SaveItem(ctx context.Context, item api.WorkItem, expectedVersion int64) (int64, error) {
	data, err := encodeRedisItem(item)
	if err != nil {
		return 0, err
	}
	return s.versionedCommit(ctx, expectedVersion, func(pipe redis.Pipeliner) {
		pipe.Set(ctx, s.keyItem(item.ID), data, 0)
		pipe.SAdd(ctx, s.keyIndex(), item.ID)
	})
}

func (s *RedisBoardStore) DeleteItem(ctx context.Context, itemID string, expectedVersion int64) (int64, error) {
	return s.versionedCommit(ctx, expectedVersion, func(pipe redis.Pipeliner) {
		pipe.Del(ctx, s.keyItem(itemID))
		pipe.SRem(ctx, s.keyIndex(), itemID)
	})
}

// versionedCommit applies mutate atomically iff the stored version still
// equals expectedVersion, then bumps the version.
func (s *RedisBoardStore) versionedCommit(ctx context.Context, expectedVersion int64, mutate func(pipe redis.Pipeliner)) (int64, error) {
	newVersion := expectedVersion + 1

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, s.keyVersion()).Result()
		var version int64
		switch {
		case errors.Is(err, redis.Nil):
			version = 0
		case err != nil:
			return err
		default:
			version, err = strconv.ParseInt(val, 10, 64)
			if err != nil {
				return err
			}
		}

		if version != expectedVersion {
			return ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			mutate(pipe)
			pipe.Set(ctx, s.keyVersion(), newVersion, 0)
			return nil
		})
		return err
	}, s.keyVersion())

	if errors.Is(err, redis.TxFailedErr) {
		// Another writer touched the version key mid-transaction.
		return 0, ErrVersionConflict
	}
	if err != nil {
		return 0, err
	}
	return newVersion, nil
}
