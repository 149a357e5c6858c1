package usage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the storage key holding the serialized usage list.
const DefaultKey = "tinysteps:ai_usage"

// Storage persists the full record list under one key.
type Storage interface {
	Load(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, records []Record) error
}

// FileStorage keeps the list as a JSON file.
type FileStorage struct {
	Path string
}

// NewFileStorage returns a FileStorage writing to path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{Path: path}
}

// Load reads the file. A missing file is an empty list.
func (f *FileStorage) Load(_ context.Context) ([]Record, error) {
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read usage file: %w", err)
	}
	return decodeRecords(raw)
}

// Save replaces the file atomically.
func (f *FileStorage) Save(_ context.Context, records []Record) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode usage: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("create usage dir: %w", err)
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write usage file: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("replace usage file: %w", err)
	}
	return nil
}

// RedisStorage keeps the list as one JSON string value.
type RedisStorage struct {
	rdb *redis.Client
	key string
}

// NewRedisStorage wraps an existing client. An empty key means DefaultKey.
func NewRedisStorage(rdb *redis.Client, key string) *RedisStorage {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStorage{rdb: rdb, key: key}
}

// DialRedisStorage connects to addr and verifies the server answers.
func DialRedisStorage(ctx context.Context, addr, key string) (*RedisStorage, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStorage(rdb, key), nil
}

// Load reads the key. A missing key is an empty list.
func (s *RedisStorage) Load(ctx context.Context) ([]Record, error) {
	raw, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return decodeRecords(raw)
}

// Save overwrites the key with the full list.
func (s *RedisStorage) Save(ctx context.Context, records []Record) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode usage: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

// Close releases the client.
func (s *RedisStorage) Close() error {
	return s.rdb.Close()
}

func decodeRecords(raw []byte) ([]Record, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode usage: %w", err)
	}
	return records, nil
}
