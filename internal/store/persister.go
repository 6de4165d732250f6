package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pizzeria-next/internal/cache"
)

// Persister saves and restores a session's serialized cart state.
type Persister interface {
	Save(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error
}

// RedisPersister keeps cart state in redis.
type RedisPersister struct{}

// NewRedisPersister creates a redis-backed persister.
func NewRedisPersister() *RedisPersister {
	return &RedisPersister{}
}

func (p *RedisPersister) Save(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if !cache.Enabled() {
		return errors.New("redis disabled")
	}
	return cache.SetRaw(ctx, key, data, ttl)
}

func (p *RedisPersister) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if !cache.Enabled() {
		return nil, false, nil
	}
	return cache.GetRaw(ctx, key)
}

func (p *RedisPersister) Delete(ctx context.Context, key string) error {
	if !cache.Enabled() {
		return nil
	}
	return cache.Del(ctx, key)
}

// FilePersister keeps cart state in one file per session. Used when redis is
// disabled, TTLs are not enforced.
type FilePersister struct {
	dir string
}

// NewFilePersister creates a file-backed persister rooted at dir.
func NewFilePersister(dir string) *FilePersister {
	return &FilePersister{dir: dir}
}

func (p *FilePersister) Save(ctx context.Context, key string, data []byte, _ time.Duration) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path(key), data, 0o644)
}

func (p *FilePersister) Load(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(p.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (p *FilePersister) Delete(ctx context.Context, key string) error {
	err := os.Remove(p.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (p *FilePersister) path(key string) string {
	safe := strings.NewReplacer(":", "_", "/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(p.dir, safe+".json")
}
