package state

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// 永続化レコードのキー
const StorageKey = "ceetha_luxe_state"

// カートの置き場の約束。実体を差し替えられるように薄くしておく。
type Storage interface {
	// 無ければ (nil, nil)
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// RedisStorageはカートをRedisに保存する。
type RedisStorage struct {
	client *redis.Client
	key    string
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client, key: StorageKey}
}

func (s *RedisStorage) Load(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *RedisStorage) Save(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// TTLなし。カートはリロードをまたいで残す。
	return s.client.Set(ctx, s.key, data, 0).Err()
}
