package webhook

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pizzeria-next/internal/cache"
)

// queueKey is the fixed persistence slot for the pending-event queue.
const queueKey = "webhook:queue:v1"

// QueueStore persists the pending-event queue between restarts.
type QueueStore interface {
	Save(ctx context.Context, data []byte) error
	Load(ctx context.Context) ([]byte, bool, error)
}

// RedisQueueStore keeps the queue in redis.
type RedisQueueStore struct{}

// NewRedisQueueStore creates a redis-backed queue store.
func NewRedisQueueStore() *RedisQueueStore {
	return &RedisQueueStore{}
}

func (s *RedisQueueStore) Save(ctx context.Context, data []byte) error {
	return cache.SetRaw(ctx, queueKey, data, 0)
}

func (s *RedisQueueStore) Load(ctx context.Context) ([]byte, bool, error) {
	return cache.GetRaw(ctx, queueKey)
}

// FileQueueStore keeps the queue in a single file. Used when redis is
// disabled.
type FileQueueStore struct {
	path string
}

// NewFileQueueStore creates a file-backed queue store under dir.
func NewFileQueueStore(dir string) *FileQueueStore {
	return &FileQueueStore{path: filepath.Join(dir, "webhook_queue_v1.json")}
}

func (s *FileQueueStore) Save(ctx context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *FileQueueStore) Load(ctx context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}
