package kvstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/libratech/pkg/errors"
)

// RedisStore 基于Redis的持久化键值存储
// 设计说明：
// 1. 值不设TTL：购物车/结算进度是用户资产，不能因过期丢失
//    （会话类数据走persistence/redis.SessionStore，那边才有TTL）
// 2. 单个值都是小块JSON（购物车几十行、结算状态几个字段），
//    直接用String类型，不拆Hash
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建Redis存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get 读取键值
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeRedisError, "读取存储失败")
	}
	return val, nil
}

// Set 写入键值
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return apperrors.WrapWithCode(err, apperrors.ErrCodeRedisError, "写入存储失败")
	}
	return nil
}

// Delete 删除键
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return apperrors.WrapWithCode(err, apperrors.ErrCodeRedisError, "删除存储键失败")
	}
	return nil
}
