package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tapedeck/api/internal/model"
)

// RedisStore persists jobs, sources and results in Redis with a TTL
// equal to the retention window.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
}

func NewRedisStore(client *redis.Client, retention time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		retention: retention,
	}
}

func jobKey(taskID string, style model.Style) string {
	return fmt.Sprintf("job:%s:%s", taskID, style)
}

func sourceKey(taskID string) string {
	return fmt.Sprintf("source:%s", taskID)
}

func resultKey(taskID string, style model.Style) string {
	return fmt.Sprintf("result:%s:%s", taskID, style)
}

func (s *RedisStore) SaveJob(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, jobKey(job.TaskID, job.Style), data, s.retention).Err()
}

func (s *RedisStore) GetJob(ctx context.Context, taskID string, style model.Style) (*model.Job, error) {
	data, err := s.client.Get(ctx, jobKey(taskID, style)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *RedisStore) SaveSource(ctx context.Context, taskID string, data []byte) error {
	return s.client.Set(ctx, sourceKey(taskID), data, s.retention).Err()
}

func (s *RedisStore) GetSource(ctx context.Context, taskID string) ([]byte, error) {
	data, err := s.client.Get(ctx, sourceKey(taskID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *RedisStore) SaveResult(ctx context.Context, taskID string, style model.Style, data []byte) error {
	return s.client.Set(ctx, resultKey(taskID, style), data, s.retention).Err()
}

func (s *RedisStore) GetResult(ctx context.Context, taskID string, style model.Style) ([]byte, error) {
	data, err := s.client.Get(ctx, resultKey(taskID, style)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}
