package repository

import (
	"context"

	pkgerrors "github.com/johamwon/mealOrd/backend/pkg/errors"
	"github.com/johamwon/mealOrd/backend/pkg/redis"
)

// redisStore 基于 Redis 字符串键的 Store 实现
type redisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore 创建 Redis Store；prefix 用于与黑名单、限流键隔离
func NewRedisStore(rdb *redis.Client, prefix string) Store {
	return &redisStore{rdb: rdb, prefix: prefix}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.rdb == nil {
		return nil, pkgerrors.ErrStoreUnavailable
	}
	v, err := s.rdb.Get(ctx, s.prefix+key)
	if err != nil {
		if redis.IsNil(err) {
			return nil, pkgerrors.ErrKeyNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	if s.rdb == nil {
		return pkgerrors.ErrStoreUnavailable
	}
	return s.rdb.Set(ctx, s.prefix+key, value)
}
