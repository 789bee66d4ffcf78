/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-28 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 18:26:02
 * @FilePath: \go-wsm\exports_repository.go
 * @Description: Repository 模块类型导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package wsm

import "github.com/kamalyes/go-wsm/repository"

// ============================================
// Connection Repository - 连接记录仓储
// ============================================

// ConnectionRecordRepository 连接记录仓储接口
type ConnectionRecordRepository = repository.ConnectionRecordRepository

// ConnectionQueryOptions 连接查询选项
type ConnectionQueryOptions = repository.ConnectionQueryOptions

// ConnectionStats 连接统计信息
type ConnectionStats = repository.ConnectionStats

// NewConnectionRecordRepository 创建连接记录仓储
var NewConnectionRecordRepository = repository.NewConnectionRecordRepository

// ============================================
// Status Repository - 实时状态仓储
// ============================================

// StatusRepository 实时状态仓储接口
type StatusRepository = repository.StatusRepository

// RedisStatusRepository Redis 实现
type RedisStatusRepository = repository.RedisStatusRepository

// NewRedisStatusRepository 创建 Redis 状态仓储
var NewRedisStatusRepository = repository.NewRedisStatusRepository

// ============================================
// Database - 数据库初始化
// ============================================

// NewMySQLDB 打开 MySQL 连接
var NewMySQLDB = repository.NewMySQLDB

// AutoMigrate 迁移表结构
var AutoMigrate = repository.AutoMigrate
