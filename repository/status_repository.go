/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-14 11:10:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 15:40:02
 * @FilePath: \go-wsm\repository\status_repository.go
 * @Description: 管理器实时状态缓存 - 基于 Redis 存储
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/json"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-wsm/models"
	"github.com/redis/go-redis/v9"
)

// StatusRepository 实时状态仓库接口
type StatusRepository interface {
	// SetStatus 写入管理器当前状态并刷新过期时间
	SetStatus(ctx context.Context, record *models.StatusRecord) error

	// GetStatus 获取管理器当前状态
	GetStatus(ctx context.Context, managerID string) (*models.StatusRecord, error)

	// DeleteStatus 删除管理器状态
	DeleteStatus(ctx context.Context, managerID string) error

	// ListManagers 获取有状态记录的管理器ID
	ListManagers(ctx context.Context) ([]string, error)

	// CountManagers 获取有状态记录的管理器数量
	CountManagers(ctx context.Context) (int64, error)
}

// RedisStatusRepository Redis 实现
type RedisStatusRepository struct {
	client    redis.UniversalClient
	keyPrefix string        // key 前缀
	ttl       time.Duration // 过期时间
}

// NewRedisStatusRepository 创建 Redis 状态仓库
// 参数:
//   - client: Redis 客户端 (github.com/redis/go-redis/v9)
//   - config: 状态配置对象，使用 KeyPrefix 与 TTL，可为 nil
func NewRedisStatusRepository(client redis.UniversalClient, config *wscconfig.OnlineStatus) *RedisStatusRepository {
	if config == nil {
		config = &wscconfig.OnlineStatus{}
	}
	return &RedisStatusRepository{
		client:    client,
		keyPrefix: mathx.IF(config.KeyPrefix == "", DefaultStatusKeyPrefix, config.KeyPrefix),
		ttl:       mathx.IF(config.TTL == 0, DefaultStatusTTL, config.TTL),
	}
}

// GetManagerKey 获取管理器状态的 key
func (r *RedisStatusRepository) GetManagerKey(managerID string) string {
	return fmt.Sprintf("%smanager:%s", r.keyPrefix, managerID)
}

// GetAllManagersSetKey 获取全部管理器集合的 key
func (r *RedisStatusRepository) GetAllManagersSetKey() string {
	return fmt.Sprintf("%sall", r.keyPrefix)
}

// SetStatus 写入管理器当前状态
func (r *RedisStatusRepository) SetStatus(ctx context.Context, record *models.StatusRecord) error {
	if record == nil || record.ManagerID == "" {
		return models.NewRecordInvalidError("manager_id cannot be empty")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return errorx.WrapError("failed to marshal status record", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.GetManagerKey(record.ManagerID), data, r.ttl)
	pipe.SAdd(ctx, r.GetAllManagersSetKey(), record.ManagerID)

	if _, err = pipe.Exec(ctx); err != nil {
		return errorx.WrapError("failed to set manager status", err)
	}
	return nil
}

// GetStatus 获取管理器当前状态
func (r *RedisStatusRepository) GetStatus(ctx context.Context, managerID string) (*models.StatusRecord, error) {
	data, err := r.client.Get(ctx, r.GetManagerKey(managerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.NewRecordNotFoundError(managerID)
		}
		return nil, errorx.WrapError("failed to get manager status", err)
	}

	var record models.StatusRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, errorx.WrapError("failed to unmarshal status record", err)
	}
	return &record, nil
}

// DeleteStatus 删除管理器状态
func (r *RedisStatusRepository) DeleteStatus(ctx context.Context, managerID string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.GetManagerKey(managerID))
	pipe.SRem(ctx, r.GetAllManagersSetKey(), managerID)

	if _, err := pipe.Exec(ctx); err != nil {
		return errorx.WrapError("failed to delete manager status", err)
	}
	return nil
}

// ListManagers 获取有状态记录的管理器ID
func (r *RedisStatusRepository) ListManagers(ctx context.Context) ([]string, error) {
	return r.client.SMembers(ctx, r.GetAllManagersSetKey()).Result()
}

// CountManagers 获取有状态记录的管理器数量
func (r *RedisStatusRepository) CountManagers(ctx context.Context) (int64, error) {
	return r.client.SCard(ctx, r.GetAllManagersSetKey()).Result()
}
