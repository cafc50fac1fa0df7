package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"AlertHub/internal/domain/models"
	domainrepo "AlertHub/internal/domain/repository"
	"AlertHub/pkg/redisdb"

	"github.com/redis/go-redis/v9"
)

// moveScript relocates one hash field between two partition keys in a
// single atomic step. A record must never be observable in two partitions.
var moveScript = redis.NewScript(`
local v = redis.call('HGET', KEYS[1], ARGV[1])
if not v then
  return 0
end
redis.call('HSET', KEYS[2], ARGV[1], v)
redis.call('HDEL', KEYS[1], ARGV[1])
return 1
`)

// RedisAlertStore keeps each (kind, status) partition in its own Redis
// hash, field = alert id, value = JSON record.
type RedisAlertStore struct {
	client *redisdb.Client
	prefix string
}

// NewRedisAlertStore creates a Redis-backed alert store.
func NewRedisAlertStore(client *redisdb.Client, prefix string) *RedisAlertStore {
	if prefix == "" {
		prefix = "alerthub"
	}
	return &RedisAlertStore{client: client, prefix: prefix}
}

func (s *RedisAlertStore) key(kind domainrepo.Kind, status domainrepo.Status) string {
	return fmt.Sprintf("%s:alerts:%s:%s", s.prefix, kind, status)
}

// GetAlerts returns all alerts in one partition. Records that fail to
// decode are skipped rather than failing the whole read.
func (s *RedisAlertStore) GetAlerts(ctx context.Context, kind domainrepo.Kind, status domainrepo.Status, activeOnly bool) ([]models.Alert, error) {
	entries, err := s.client.Client().HGetAll(ctx, s.key(kind, status)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", s.key(kind, status), err)
	}

	alerts := make([]models.Alert, 0, len(entries))
	for _, raw := range entries {
		var a models.Alert
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			continue
		}
		if activeOnly && !a.IsActive {
			continue
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}

// AddAlert inserts one alert. Returns (false, nil) when the id already
// exists in the partition; the stored record is left untouched.
func (s *RedisAlertStore) AddAlert(ctx context.Context, kind domainrepo.Kind, status domainrepo.Status, alert models.Alert) (bool, error) {
	if alert.ID == "" {
		return false, fmt.Errorf("alert id is empty")
	}
	data, err := json.Marshal(alert)
	if err != nil {
		return false, fmt.Errorf("marshal alert %s: %w", alert.ID, err)
	}

	added, err := s.client.Client().HSetNX(ctx, s.key(kind, status), alert.ID, data).Result()
	if err != nil {
		return false, fmt.Errorf("hsetnx %s: %w", alert.ID, err)
	}
	return added, nil
}

// AddAlerts inserts a batch, skipping duplicate ids.
func (s *RedisAlertStore) AddAlerts(ctx context.Context, kind domainrepo.Kind, status domainrepo.Status, alerts []models.Alert) error {
	for _, alert := range alerts {
		if _, err := s.AddAlert(ctx, kind, status, alert); err != nil {
			return err
		}
	}
	return nil
}

// RemoveAlert deletes one record. Returns false when the id was absent.
func (s *RedisAlertStore) RemoveAlert(ctx context.Context, kind domainrepo.Kind, status domainrepo.Status, id string) (bool, error) {
	n, err := s.client.Client().HDel(ctx, s.key(kind, status), id).Result()
	if err != nil {
		return false, fmt.Errorf("hdel %s: %w", id, err)
	}
	return n > 0, nil
}

// RemoveAlerts deletes a batch of ids, returning how many existed.
func (s *RedisAlertStore) RemoveAlerts(ctx context.Context, kind domainrepo.Kind, status domainrepo.Status, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.client.Client().HDel(ctx, s.key(kind, status), ids...).Result()
	if err != nil {
		return 0, fmt.Errorf("hdel batch: %w", err)
	}
	return int(n), nil
}

// RemoveAll drops the whole partition.
func (s *RedisAlertStore) RemoveAll(ctx context.Context, kind domainrepo.Kind, status domainrepo.Status) (int, error) {
	key := s.key(kind, status)
	count, err := s.client.Client().HLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("hlen %s: %w", key, err)
	}
	if err := s.client.Client().Del(ctx, key).Err(); err != nil {
		return 0, fmt.Errorf("del %s: %w", key, err)
	}
	return int(count), nil
}

// MoveAlert atomically relocates one record between partitions of the same
// kind. Returns false when the record is not in the source partition.
func (s *RedisAlertStore) MoveAlert(ctx context.Context, kind domainrepo.Kind, from, to domainrepo.Status, id string) (bool, error) {
	res, err := moveScript.Run(ctx, s.client.Client(),
		[]string{s.key(kind, from), s.key(kind, to)}, id).Int()
	if err != nil {
		return false, fmt.Errorf("move %s from %s to %s: %w", id, from, to, err)
	}
	return res == 1, nil
}

// PurgeTriggeredBefore removes triggered records whose activation time is
// before the cutoff. Records without an activation time are left alone.
func (s *RedisAlertStore) PurgeTriggeredBefore(ctx context.Context, kind domainrepo.Kind, cutoff time.Time) (int, error) {
	key := s.key(kind, domainrepo.StatusTriggered)
	entries, err := s.client.Client().HGetAll(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("hgetall %s: %w", key, err)
	}

	cutoffMs := cutoff.UnixMilli()
	expired := make([]string, 0)
	for id, raw := range entries {
		var a models.Alert
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			// undecodable records are stale by definition
			expired = append(expired, id)
			continue
		}
		if a.ActivationTime > 0 && a.ActivationTime < cutoffMs {
			expired = append(expired, id)
		}
	}
	if len(expired) == 0 {
		return 0, nil
	}

	n, err := s.client.Client().HDel(ctx, key, expired...).Result()
	if err != nil {
		return 0, fmt.Errorf("hdel expired: %w", err)
	}
	return int(n), nil
}

// Ping verifies the backing connection.
func (s *RedisAlertStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Close releases the backing connection.
func (s *RedisAlertStore) Close() error {
	return s.client.Close()
}
