/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-14 09:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 15:12:48
 * @FilePath: \go-wsm\repository\connection_repository.go
 * @Description: 连接记录仓库 - 每次打开的连接持久化一行
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
	"github.com/kamalyes/go-logger"
	sqlbuilder "github.com/kamalyes/go-sqlbuilder/repository"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/kamalyes/go-wsm/models"
	"gorm.io/gorm"
)

// ConnectionRecordRepository 连接记录仓储接口
type ConnectionRecordRepository interface {
	// ========== 核心操作 ==========

	// Create 连接打开时创建记录
	Create(ctx context.Context, record *models.ConnectionRecord) error

	// MarkClosed 标记连接已关闭，记录不存在时忽略
	MarkClosed(ctx context.Context, connectionID string, code int, reason string) error

	// GetByConnectionID 根据连接ID获取连接记录
	GetByConnectionID(ctx context.Context, connectionID string) (*models.ConnectionRecord, error)

	// GetByManagerID 获取管理器的全部连接记录
	GetByManagerID(ctx context.Context, managerID string) ([]*models.ConnectionRecord, error)

	// ========== 统计更新操作 ==========

	// IncrementMessageStats 增加消息统计
	IncrementMessageStats(ctx context.Context, connectionID string, sent, received int64) error

	// IncrementBytesStats 增加字节统计
	IncrementBytesStats(ctx context.Context, connectionID string, sent, received int64) error

	// AddError 记录错误
	AddError(ctx context.Context, connectionID string, err error) error

	// ========== 查询操作 ==========

	// List 通用列表查询（支持条件过滤）
	List(ctx context.Context, opts *ConnectionQueryOptions) ([]*models.ConnectionRecord, error)

	// Count 统计连接数（支持条件过滤）
	Count(ctx context.Context, opts *ConnectionQueryOptions) (int64, error)

	// GetConnectionStats 获取时间区间内的连接统计
	GetConnectionStats(ctx context.Context, startTime, endTime time.Time) (*ConnectionStats, error)

	// ========== 异常检测操作 ==========

	// GetHighErrorRateConnections 获取错误次数超过阈值的连接
	GetHighErrorRateConnections(ctx context.Context, errorThreshold int, limit int) ([]*models.ConnectionRecord, error)

	// GetFrequentReconnects 获取重连序号超过阈值的连接
	GetFrequentReconnects(ctx context.Context, attemptThreshold int, limit int) ([]*models.ConnectionRecord, error)

	// ========== 清理操作 ==========

	// CleanupClosedRecords 清理指定时间之前关闭的记录
	CleanupClosedRecords(ctx context.Context, before time.Time) (int64, error)

	// ========== 配置操作 ==========

	// WithTableName 设置自定义表名（用于测试隔离）
	WithTableName(tableName string) ConnectionRecordRepository

	// Close 关闭仓库，停止后台任务
	Close() error
}

// ConnectionQueryOptions 连接查询选项
type ConnectionQueryOptions struct {
	ManagerID   string    // 管理器ID过滤
	URL         string    // 目标地址过滤
	IsActive    *bool     // 是否仍打开（nil表示不过滤）
	IsAbnormal  *bool     // 是否异常关闭（nil表示不过滤）
	OpenedAfter time.Time // 打开时间下限（零值不过滤）
	Limit       int       // 限制数量
	Offset      int       // 偏移量
	OrderBy     string    // 排序字段（默认 opened_at DESC）
}

// ConnectionStats 连接统计信息
type ConnectionStats struct {
	TotalConnections      int64   `json:"total_connections"`       // 总连接数
	ActiveConnections     int64   `json:"active_connections"`      // 仍打开的连接数
	AbnormalConnections   int64   `json:"abnormal_connections"`    // 异常关闭数
	AverageDuration       float64 `json:"average_duration"`        // 平均连接时长(秒)
	TotalMessagesSent     int64   `json:"total_messages_sent"`     // 总发送消息数
	TotalMessagesReceived int64   `json:"total_messages_received"` // 总接收消息数
	TotalErrors           int64   `json:"total_errors"`            // 总错误数
	MaxReconnectAttempt   int64   `json:"max_reconnect_attempt"`   // 最大重连序号
	AbnormalRate          float64 `json:"abnormal_rate"`           // 异常关闭率(%)
}

// connectionRecordRepositoryImpl 连接记录仓储实现
type connectionRecordRepositoryImpl struct {
	db         *gorm.DB
	tableName  string // 自定义表名（用于测试隔离）
	logger     logger.ILogger
	cancelFunc context.CancelFunc
}

// NewConnectionRecordRepository 创建连接记录仓储实例
//
// 参数:
//   - db: GORM 数据库实例
//   - config: 连接记录配置对象（可选，传 nil 则不启用自动清理）
//   - log: 日志记录器
func NewConnectionRecordRepository(db *gorm.DB, config *wscconfig.ConnectionRecord, log logger.ILogger) ConnectionRecordRepository {
	ctx, cancel := context.WithCancel(context.Background())
	if log == nil {
		log = logger.NewEmptyLogger()
	}

	repo := &connectionRecordRepositoryImpl{
		db:         db,
		logger:     log,
		cancelFunc: cancel,
	}

	// 启动定时清理任务
	if config != nil && config.EnableAutoCleanup && config.CleanupDaysAgo > 0 {
		go repo.startCleanupScheduler(ctx, config.CleanupDaysAgo)
	}

	return repo
}

// WithTableName 设置自定义表名（用于测试隔离）
func (r *connectionRecordRepositoryImpl) WithTableName(tableName string) ConnectionRecordRepository {
	return &connectionRecordRepositoryImpl{
		db:         r.db,
		tableName:  tableName,
		logger:     r.logger,
		cancelFunc: r.cancelFunc,
	}
}

// getDB 获取数据库会话（如果设置了自定义表名则应用）
func (r *connectionRecordRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tableName != "" {
		return db.Table(r.tableName)
	}
	return db.Model(&models.ConnectionRecord{})
}

// ========== 核心操作 ==========

// Create 连接打开时创建记录
func (r *connectionRecordRepositoryImpl) Create(ctx context.Context, record *models.ConnectionRecord) error {
	if record == nil {
		return models.NewRecordInvalidError("record cannot be nil")
	}
	if record.ConnectionID == "" {
		return models.NewRecordInvalidError("connection_id cannot be empty")
	}
	if record.OpenedAt.IsZero() {
		record.OpenedAt = time.Now()
	}
	record.IsActive = true

	return r.getDB(ctx).Create(record).Error
}

// MarkClosed 标记连接已关闭
func (r *connectionRecordRepositoryImpl) MarkClosed(ctx context.Context, connectionID string, code int, reason string) error {
	record, err := r.GetByConnectionID(ctx, connectionID)
	if err != nil {
		if models.IsRecordNotFoundError(err) {
			// 连接记录不存在（可能已被清理），直接返回
			return nil
		}
		return err
	}

	record.MarkClosed(code, reason, time.Now())
	updates := map[string]any{
		"closed_at":    record.ClosedAt,
		"close_code":   record.CloseCode,
		"close_reason": record.CloseReason,
		"duration":     record.Duration,
		"is_active":    false,
		"is_abnormal":  record.IsAbnormal,
	}

	return r.getDB(ctx).
		Where("connection_id = ?", connectionID).
		Updates(updates).Error
}

// GetByConnectionID 根据连接ID获取连接记录
func (r *connectionRecordRepositoryImpl) GetByConnectionID(ctx context.Context, connectionID string) (*models.ConnectionRecord, error) {
	var record models.ConnectionRecord
	err := r.getDB(ctx).
		Where("connection_id = ?", connectionID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewRecordNotFoundError(connectionID)
		}
		return nil, fmt.Errorf("查询连接记录失败: %w", err)
	}
	return &record, nil
}

// GetByManagerID 获取管理器的全部连接记录
func (r *connectionRecordRepositoryImpl) GetByManagerID(ctx context.Context, managerID string) ([]*models.ConnectionRecord, error) {
	return r.List(ctx, &ConnectionQueryOptions{
		ManagerID: managerID,
	})
}

// ========== 统计更新操作 ==========

// IncrementMessageStats 增加消息统计
func (r *connectionRecordRepositoryImpl) IncrementMessageStats(ctx context.Context, connectionID string, sent, received int64) error {
	return r.getDB(ctx).
		Where("connection_id = ?", connectionID).
		Updates(map[string]any{
			"messages_sent":     gorm.Expr("messages_sent + ?", sent),
			"messages_received": gorm.Expr("messages_received + ?", received),
		}).Error
}

// IncrementBytesStats 增加字节统计
func (r *connectionRecordRepositoryImpl) IncrementBytesStats(ctx context.Context, connectionID string, sent, received int64) error {
	return r.getDB(ctx).
		Where("connection_id = ?", connectionID).
		Updates(map[string]any{
			"bytes_sent":     gorm.Expr("bytes_sent + ?", sent),
			"bytes_received": gorm.Expr("bytes_received + ?", received),
		}).Error
}

// AddError 记录错误
func (r *connectionRecordRepositoryImpl) AddError(ctx context.Context, connectionID string, err error) error {
	if err == nil {
		return nil
	}

	updates := map[string]any{
		"error_count":   gorm.Expr("error_count + ?", 1),
		"last_error":    err.Error(),
		"last_error_at": time.Now(),
	}

	return r.getDB(ctx).
		Where("connection_id = ?", connectionID).
		Updates(updates).Error
}

// ========== 查询操作 ==========

// List 通用列表查询（支持条件过滤）
func (r *connectionRecordRepositoryImpl) List(ctx context.Context, opts *ConnectionQueryOptions) ([]*models.ConnectionRecord, error) {
	query := r.applyQueryOptions(r.getDB(ctx), opts)

	orderBy := "opened_at DESC"
	if opts != nil && opts.OrderBy != "" {
		orderBy = opts.OrderBy
	}
	query = query.Order(orderBy)

	if opts != nil {
		if opts.Limit > 0 {
			query = query.Limit(opts.Limit)
		}
		if opts.Offset > 0 {
			query = query.Offset(opts.Offset)
		}
	}

	var records []*models.ConnectionRecord
	err := query.Find(&records).Error
	return records, err
}

// Count 统计连接数（支持条件过滤）
func (r *connectionRecordRepositoryImpl) Count(ctx context.Context, opts *ConnectionQueryOptions) (int64, error) {
	query := r.applyQueryOptions(r.getDB(ctx), opts)

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// applyQueryOptions 应用查询条件
func (r *connectionRecordRepositoryImpl) applyQueryOptions(query *gorm.DB, opts *ConnectionQueryOptions) *gorm.DB {
	if opts == nil {
		return query
	}

	// 使用 go-sqlbuilder 构建过滤条件
	sqlQuery := sqlbuilder.NewQuery().
		AddFilterIfNotEmpty("manager_id", opts.ManagerID).
		AddFilterIfNotEmpty("url", opts.URL).
		AddFilterIfNotEmpty("is_active", opts.IsActive).
		AddFilterIfNotEmpty("is_abnormal", opts.IsAbnormal)
	if !opts.OpenedAfter.IsZero() {
		sqlQuery.AddFilter(sqlbuilder.NewGteFilter("opened_at", opts.OpenedAfter))
	}

	return sqlbuilder.ApplyFilters(query, sqlQuery.Filters)
}

// GetConnectionStats 获取时间区间内的连接统计
func (r *connectionRecordRepositoryImpl) GetConnectionStats(ctx context.Context, startTime, endTime time.Time) (*ConnectionStats, error) {
	stats := &ConnectionStats{}

	err := r.getDB(ctx).
		Where("opened_at BETWEEN ? AND ?", startTime, endTime).
		Select(`
			COUNT(*) as total_connections,
			COALESCE(SUM(CASE WHEN is_active = true THEN 1 ELSE 0 END), 0) as active_connections,
			COALESCE(SUM(CASE WHEN is_abnormal = true THEN 1 ELSE 0 END), 0) as abnormal_connections,
			COALESCE(AVG(CASE WHEN duration > 0 THEN duration ELSE NULL END), 0) as average_duration,
			COALESCE(SUM(messages_sent), 0) as total_messages_sent,
			COALESCE(SUM(messages_received), 0) as total_messages_received,
			COALESCE(SUM(error_count), 0) as total_errors,
			COALESCE(MAX(reconnect_attempt), 0) as max_reconnect_attempt
		`).
		Scan(stats).Error
	if err != nil {
		return nil, fmt.Errorf("查询连接统计失败: %w", err)
	}

	// 计算异常率
	if stats.TotalConnections > 0 {
		stats.AbnormalRate = float64(stats.AbnormalConnections) / float64(stats.TotalConnections) * 100
	}

	return stats, nil
}

// ========== 异常检测操作 ==========

// GetHighErrorRateConnections 获取错误次数超过阈值的连接
func (r *connectionRecordRepositoryImpl) GetHighErrorRateConnections(ctx context.Context, errorThreshold int, limit int) ([]*models.ConnectionRecord, error) {
	return r.findAboveThreshold(ctx, "error_count", errorThreshold, limit)
}

// GetFrequentReconnects 获取重连序号超过阈值的连接
func (r *connectionRecordRepositoryImpl) GetFrequentReconnects(ctx context.Context, attemptThreshold int, limit int) ([]*models.ConnectionRecord, error) {
	return r.findAboveThreshold(ctx, "reconnect_attempt", attemptThreshold, limit)
}

// findAboveThreshold 按字段阈值倒序查询
func (r *connectionRecordRepositoryImpl) findAboveThreshold(ctx context.Context, field string, threshold int, limit int) ([]*models.ConnectionRecord, error) {
	var records []*models.ConnectionRecord

	// 使用 go-sqlbuilder 构建查询
	query := sqlbuilder.NewQuery().
		AddFilter(sqlbuilder.NewGteFilter(field, threshold)).
		AddOrder(field, "DESC")

	if limit > 0 {
		query.Limit(limit)
	}

	// 应用到 GORM
	gormDB := r.getDB(ctx)
	gormDB = sqlbuilder.ApplyFilters(gormDB, query.Filters)
	gormDB = sqlbuilder.ApplyOrders(gormDB, query.Orders)
	if query.LimitValue != nil {
		gormDB = gormDB.Limit(*query.LimitValue)
	}

	err := gormDB.Find(&records).Error
	return records, err
}

// ========== 清理操作 ==========

// CleanupClosedRecords 清理指定时间之前关闭的记录
func (r *connectionRecordRepositoryImpl) CleanupClosedRecords(ctx context.Context, before time.Time) (int64, error) {
	result := r.getDB(ctx).
		Where("closed_at < ? AND is_active = ?", before, false).
		Delete(&models.ConnectionRecord{})

	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// startCleanupScheduler 启动定时清理任务（使用 EventLoop，每天执行一次）
func (r *connectionRecordRepositoryImpl) startCleanupScheduler(ctx context.Context, daysAgo int) {
	r.cleanupOldData(ctx, daysAgo)

	syncx.NewEventLoop(ctx).
		OnTicker(24*time.Hour, func() {
			r.cleanupOldData(ctx, daysAgo)
		}).
		OnPanic(func(rec any) {
			r.logger.Errorf("连接记录清理任务 panic: %v", rec)
		}).
		OnShutdown(func() {
			r.logger.Info("连接记录清理任务已停止")
		}).
		Run()
}

// cleanupOldData 清理N天前关闭的连接记录
func (r *connectionRecordRepositoryImpl) cleanupOldData(ctx context.Context, daysAgo int) {
	if daysAgo <= 0 {
		return
	}

	before := time.Now().AddDate(0, 0, -daysAgo)

	deleted, err := r.CleanupClosedRecords(ctx, before)
	if err != nil {
		r.logger.Warnf("清理历史连接记录失败: %v", err)
	} else if deleted > 0 {
		r.logger.Infof("已清理 %d 天前关闭的连接记录，删除 %d 条", daysAgo, deleted)
	}
}

// Close 关闭仓库，停止后台清理任务
func (r *connectionRecordRepositoryImpl) Close() error {
	if r.cancelFunc != nil {
		r.cancelFunc()
	}
	return nil
}
