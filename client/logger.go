/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 11:02:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-20 10:12:36
 * @FilePath: \go-wsm\client\logger.go
 * @Description: 日志器构建，直接复用 go-logger
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"io"
	"os"
	"time"

	"github.com/kamalyes/go-config/pkg/logging"
	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
)

// DefaultLogPrefix 默认日志前缀
const DefaultLogPrefix = "[WSM] "

// NewDefaultLogger 创建默认配置的日志器
func NewDefaultLogger() logger.ILogger {
	return logger.NewLogger().
		WithLevel(logger.INFO).
		WithPrefix(DefaultLogPrefix).
		WithShowCaller(false).
		WithColorful(true).
		WithTimeFormat(time.DateTime)
}

// NewNoOpLogger 创建空日志实例
func NewNoOpLogger() logger.ILogger {
	return logger.NewEmptyLogger()
}

// NewLoggerFromWSC 根据 WSC 配置中的 Logging 块创建日志器，未启用时返回默认日志器
func NewLoggerFromWSC(config *wscconfig.WSC) logger.ILogger {
	if config == nil || config.Logging == nil || !config.Logging.Enabled {
		return NewDefaultLogger()
	}
	cfg := config.Logging

	l := logger.NewLogger().
		WithLevel(parseLogLevel(cfg.Level)).
		WithPrefix(mathx.IF(cfg.Prefix != "", cfg.Prefix, DefaultLogPrefix)).
		WithShowCaller(cfg.ShowCaller).
		WithColorful(cfg.Colorful).
		WithTimeFormat(mathx.IF(cfg.TimeFormat != "", cfg.TimeFormat, time.DateTime))
	if cfg.Format != "" {
		l = l.WithFormat(cfg.Format)
	}
	return l.WithOutput(logOutput(cfg))
}

// logOutput 按 Output 选择写入目标，文件类输出缺少路径时退回标准输出
func logOutput(cfg *logging.Logging) io.Writer {
	switch cfg.Output {
	case logger.OutputStderr:
		return os.Stderr
	case logger.OutputRotate, logger.OutputFile:
		if cfg.FilePath == "" {
			return os.Stdout
		}
		if cfg.Output == logger.OutputRotate || (cfg.MaxSize > 0 && cfg.MaxBackups > 0) {
			return logger.NewRotateWriter(
				logger.WithFilePath(cfg.FilePath),
				logger.WithMaxSize(int64(cfg.MaxSize)*1024*1024), // MB
				logger.WithMaxFiles(cfg.MaxBackups),
				logger.WithMaxAge(time.Duration(cfg.MaxAge)*24*time.Hour),
				logger.WithCompress(cfg.Compress),
			)
		}
		return logger.NewFileWriter(logger.WithFileWriterPath(cfg.FilePath))
	default:
		return logger.NewConsoleWriter(
			logger.WithConsoleOutput(os.Stdout),
			logger.WithConsoleColor(cfg.Colorful),
		)
	}
}

// parseLogLevel 解析级别名称，无法识别时使用 INFO
func parseLogLevel(level string) logger.LogLevel {
	parsed, err := logger.ParseLevel(level)
	if err != nil {
		return logger.INFO
	}
	return parsed
}
