/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-11-22 20:45:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 18:12:40
 * @FilePath: \go-wsm\logger.go
 * @Description: 包级日志器
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package wsm

import (
	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-wsm/client"
)

// WSMLogger 直接使用 go-logger.ILogger
type WSMLogger = logger.ILogger

// NewWSMLogger 按指定级别创建带默认前缀的日志器
func NewWSMLogger(level logger.LogLevel) WSMLogger {
	return logger.NewLogger().
		WithLevel(level).
		WithPrefix(client.DefaultLogPrefix)
}

// NewDefaultWSMLogger 创建默认配置的日志器
func NewDefaultWSMLogger() WSMLogger {
	return client.NewDefaultLogger()
}

// NewNoOpLogger 创建空日志实例
func NewNoOpLogger() WSMLogger {
	return client.NewNoOpLogger()
}

// NewLoggerFromWSC 根据 WSC 配置中的 Logging 块创建日志器
func NewLoggerFromWSC(config *wscconfig.WSC) WSMLogger {
	return client.NewLoggerFromWSC(config)
}

// DefaultLogger 记录器等组件未指定日志器时使用
var DefaultLogger WSMLogger = NewDefaultWSMLogger()

// SetDefaultLogger 设置默认日志器
func SetDefaultLogger(l WSMLogger) {
	DefaultLogger = l
}
