package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mindungil/n2g/internal/model"

	"github.com/redis/go-redis/v9"
)

// RecordTTL bounds how long a sync record is kept after its last update.
const RecordTTL = 90 * 24 * time.Hour

// RedisStore keeps the last sync record of every page.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func recordKey(pageID string) string {
	return fmt.Sprintf("n2g:sync:%s", pageID)
}

const recentKey = "n2g:sync:recent"

// Record stores rec under the page key and indexes it by sync time.
func (s *RedisStore) Record(ctx context.Context, rec model.SyncRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, recordKey(rec.PageID), b, RecordTTL).Err(); err != nil {
		return err
	}
	z := redis.Z{Score: float64(rec.SyncedAt.Unix()), Member: rec.PageID}
	return s.rdb.ZAdd(ctx, recentKey, z).Err()
}

// Last returns the latest record of a page. ok is false when none exists.
func (s *RedisStore) Last(ctx context.Context, pageID string) (rec model.SyncRecord, ok bool, err error) {
	b, err := s.rdb.Get(ctx, recordKey(pageID)).Bytes()
	if err == redis.Nil {
		return model.SyncRecord{}, false, nil
	}
	if err != nil {
		return model.SyncRecord{}, false, err
	}
	if err := json.Unmarshal(b, &rec); err != nil {
		return model.SyncRecord{}, false, err
	}
	return rec, true, nil
}

// Recent returns up to n records, most recently synced first. Index entries
// whose record has expired are skipped.
func (s *RedisStore) Recent(ctx context.Context, n int) ([]model.SyncRecord, error) {
	if n <= 0 {
		return nil, nil
	}
	ids, err := s.rdb.ZRevRange(ctx, recentKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.SyncRecord, 0, len(ids))
	for _, id := range ids {
		rec, ok, err := s.Last(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}
