/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 11:02:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 09:25:03
 * @FilePath: \go-wsm\client\options.go
 * @Description: 管理器配置 - 重连策略与传输参数
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-toolbox/pkg/safe"
	"github.com/kamalyes/go-wsm/models"
)

// UnboundedReconnectAttempts 不限制自动重连次数
const UnboundedReconnectAttempts = -1

// 默认值
const (
	DefaultReconnectInterval = 5 * time.Second
	DefaultHandshakeTimeout  = 10 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultCloseTimeout      = 5 * time.Second
)

// Options 管理器配置，创建后不可变，修改需重建管理器
type Options struct {
	// 重连策略
	ShouldReconnect      bool          // 异常关闭后是否自动重连
	ReconnectInterval    time.Duration // 固定重连间隔，不做指数退避也不加抖动
	MaxReconnectAttempts int           // 最大自动重连次数，负数表示不限

	// 连接参数
	Protocols        []string      // 子协议
	Header           http.Header   // 握手请求头
	HandshakeTimeout time.Duration // 握手超时
	WriteTimeout     time.Duration // 单帧写超时
	CloseTimeout     time.Duration // 关闭握手超时，超时后强制断开
	MaxMessageSize   int64         // 最大消息长度，0 表示不限
	PingInterval     time.Duration // 心跳间隔，0 表示关闭心跳
	PongTimeout      time.Duration // 心跳响应超时，默认等于 PingInterval

	// 可选依赖
	Logger    logger.ILogger        // 日志器
	Transport Transport             // 传输层，默认 gorilla
	Clock     Clock                 // 时钟，默认系统时钟
	Consumer  func(models.Snapshot) // 初始消费者，创建时即可收到 CONNECTING 推送
	Observers []Observer            // 初始观察者
}

// DefaultOptions 默认配置
func DefaultOptions() *Options {
	return &Options{
		ShouldReconnect:      true,
		ReconnectInterval:    DefaultReconnectInterval,
		MaxReconnectAttempts: UnboundedReconnectAttempts,
		HandshakeTimeout:     DefaultHandshakeTimeout,
		WriteTimeout:         DefaultWriteTimeout,
		CloseTimeout:         DefaultCloseTimeout,
	}
}

// FromWSC 从 go-config 的 WSC 配置块构建选项
// 使用 AutoReconnect、MinRecTime（作为固定间隔）、WriteTimeout、MaxMessageSize 与 Logging
func FromWSC(config *wscconfig.WSC) *Options {
	opts := DefaultOptions()
	merged := safe.MergeWithDefaults(config, wscconfig.Default())
	opts.ShouldReconnect = merged.AutoReconnect
	if config != nil {
		// 布尔零值在合并时会被默认值覆盖，以传入值为准
		opts.ShouldReconnect = config.AutoReconnect
	}
	opts.ReconnectInterval = mathx.IfNotZero(merged.MinRecTime, DefaultReconnectInterval)
	opts.WriteTimeout = mathx.IfNotZero(merged.WriteTimeout, DefaultWriteTimeout)
	opts.MaxMessageSize = merged.MaxMessageSize
	opts.Logger = NewLoggerFromWSC(merged)
	return opts
}

// WithShouldReconnect 设置是否自动重连
func (o *Options) WithShouldReconnect(enabled bool) *Options {
	o.ShouldReconnect = enabled
	return o
}

// WithReconnectInterval 设置重连间隔
func (o *Options) WithReconnectInterval(d time.Duration) *Options {
	o.ReconnectInterval = d
	return o
}

// WithMaxReconnectAttempts 设置最大重连次数
func (o *Options) WithMaxReconnectAttempts(n int) *Options {
	o.MaxReconnectAttempts = n
	return o
}

// WithProtocols 设置子协议，可传一个或多个
func (o *Options) WithProtocols(protocols ...string) *Options {
	o.Protocols = protocols
	return o
}

// WithHeader 设置握手请求头
func (o *Options) WithHeader(header http.Header) *Options {
	o.Header = header
	return o
}

// WithHandshakeTimeout 设置握手超时
func (o *Options) WithHandshakeTimeout(d time.Duration) *Options {
	o.HandshakeTimeout = d
	return o
}

// WithWriteTimeout 设置写超时
func (o *Options) WithWriteTimeout(d time.Duration) *Options {
	o.WriteTimeout = d
	return o
}

// WithCloseTimeout 设置关闭握手超时
func (o *Options) WithCloseTimeout(d time.Duration) *Options {
	o.CloseTimeout = d
	return o
}

// WithMaxMessageSize 设置最大消息长度
func (o *Options) WithMaxMessageSize(size int64) *Options {
	o.MaxMessageSize = size
	return o
}

// WithPing 设置心跳间隔与响应超时
func (o *Options) WithPing(interval, pongTimeout time.Duration) *Options {
	o.PingInterval = interval
	o.PongTimeout = pongTimeout
	return o
}

// WithLogger 设置日志器
func (o *Options) WithLogger(l logger.ILogger) *Options {
	o.Logger = l
	return o
}

// WithTransport 设置传输层
func (o *Options) WithTransport(t Transport) *Options {
	o.Transport = t
	return o
}

// WithClock 设置时钟
func (o *Options) WithClock(c Clock) *Options {
	o.Clock = c
	return o
}

// WithConsumer 设置初始消费者
func (o *Options) WithConsumer(f func(models.Snapshot)) *Options {
	o.Consumer = f
	return o
}

// WithObservers 追加观察者
func (o *Options) WithObservers(observers ...Observer) *Options {
	o.Observers = append(o.Observers, observers...)
	return o
}

// IsUnbounded 重连次数是否不限
func (o *Options) IsUnbounded() bool {
	return o.MaxReconnectAttempts < 0
}

// AllowsAttempt 当前计数下是否还允许再调度一次自动重连
func (o *Options) AllowsAttempt(attempts int) bool {
	return o.IsUnbounded() || attempts < o.MaxReconnectAttempts
}

// Validate 校验配置
func (o *Options) Validate() error {
	if o.ShouldReconnect && o.ReconnectInterval <= 0 {
		return models.NewInvalidOptionsError("reconnect interval must be positive")
	}
	for i, p := range o.Protocols {
		if p == "" {
			return models.NewInvalidOptionsError(fmt.Sprintf("protocols[%d] is empty", i))
		}
	}
	if o.HandshakeTimeout < 0 || o.WriteTimeout < 0 || o.CloseTimeout < 0 || o.PingInterval < 0 || o.PongTimeout < 0 {
		return models.NewInvalidOptionsError("timeouts must not be negative")
	}
	if o.MaxMessageSize < 0 {
		return models.NewInvalidOptionsError("max message size must not be negative")
	}
	return nil
}

// validateAddress 校验目标地址，只接受 ws/wss
func validateAddress(address string) error {
	u, err := url.Parse(address)
	if err != nil {
		return models.NewInvalidOptionsError(err.Error())
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return models.NewInvalidOptionsError(fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return models.NewInvalidOptionsError("missing host")
	}
	return nil
}
