/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-14 11:45:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-18 20:13:55
 * @FilePath: \go-wsm\repository\database.go
 * @Description: MySQL 连接初始化与表迁移
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import (
	"context"
	"time"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-wsm/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// 连接池默认值
const (
	DefaultMaxIdleConns    = 10
	DefaultMaxOpenConns    = 50
	DefaultConnMaxLifetime = 30 * time.Minute
	DefaultConnMaxIdleTime = 5 * time.Minute
)

// NewMySQLDB 打开 MySQL 连接并校验可用性
func NewMySQLDB(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, errorx.WrapError("failed to open mysql", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errorx.WrapError("failed to get sql db", err)
	}
	sqlDB.SetMaxIdleConns(DefaultMaxIdleConns)
	sqlDB.SetMaxOpenConns(DefaultMaxOpenConns)
	sqlDB.SetConnMaxLifetime(DefaultConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(DefaultConnMaxIdleTime)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, errorx.WrapError("failed to ping mysql", err)
	}
	return db, nil
}

// AutoMigrate 迁移连接记录表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.ConnectionRecord{})
}
