/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 16:48:12
 * @FilePath: \go-wsm\events\publisher.go
 * @Description: 事件发布器 - 将管理器状态迁移广播到 PubSub
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kamalyes/go-cachex"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/contextx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/kamalyes/go-wsm/client"
	"github.com/kamalyes/go-wsm/models"
	"github.com/redis/go-redis/v9"
)

// 默认频道与超时
const (
	ChannelStatus         = "wsm:status"
	ChannelReconnect      = "wsm:reconnect"
	DefaultPublishTimeout = 5 * time.Second
	DefaultPublishQueue   = 256
)

// PubSubPublisher 发布能力，*cachex.PubSub 满足该接口
type PubSubPublisher interface {
	Publish(ctx context.Context, channel string, data interface{}) error
}

// publishTask 一次待发布的事件
type publishTask struct {
	name string
	fn   func(ctx context.Context) error
}

// Publisher 事件发布器，作为观察者挂到管理器上
// 观察者回调只入队，由单个协程按到达顺序发布，不阻塞管理器
type Publisher struct {
	client.NopObserver
	pubsub           PubSubPublisher
	ctx              context.Context
	logger           logger.ILogger
	statusChannel    string
	reconnectChannel string
	timeout          time.Duration

	mu        sync.Mutex
	closed    bool
	queue     chan publishTask
	startOnce sync.Once
	done      chan struct{}
}

// NewPublisher 创建事件发布器
func NewPublisher(ctx context.Context, pubsub PubSubPublisher, log logger.ILogger) *Publisher {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = logger.NewEmptyLogger()
	}
	return &Publisher{
		pubsub:           pubsub,
		ctx:              ctx,
		logger:           log,
		statusChannel:    ChannelStatus,
		reconnectChannel: ChannelReconnect,
		timeout:          DefaultPublishTimeout,
		queue:            make(chan publishTask, DefaultPublishQueue),
		done:             make(chan struct{}),
	}
}

// NewCachexPublisher 基于 go-cachex PubSub 创建发布器
// 返回的 PubSub 可继续用于 SubscribeStatus / SubscribeReconnect
func NewCachexPublisher(ctx context.Context, redisClient *redis.Client, namespace string, log logger.ILogger) (*Publisher, *cachex.PubSub) {
	pubsub := cachex.NewPubSub(redisClient, cachex.PubSubConfig{
		Namespace: namespace,
		Logger:    log,
	})
	return NewPublisher(ctx, pubsub, log), pubsub
}

// WithChannels 自定义频道，空字符串保持默认
func (p *Publisher) WithChannels(status, reconnect string) *Publisher {
	if status != "" {
		p.statusChannel = status
	}
	if reconnect != "" {
		p.reconnectChannel = reconnect
	}
	return p
}

// WithTimeout 设置单次发布超时
func (p *Publisher) WithTimeout(d time.Duration) *Publisher {
	if d > 0 {
		p.timeout = d
	}
	return p
}

// StatusChannel 状态事件频道
func (p *Publisher) StatusChannel() string {
	return p.statusChannel
}

// ReconnectChannel 重连事件频道
func (p *Publisher) ReconnectChannel() string {
	return p.reconnectChannel
}

// PublishStatus 同步发布状态迁移事件
func (p *Publisher) PublishStatus(ctx context.Context, event models.StatusEvent) error {
	return p.publish(ctx, p.statusChannel, event,
		"manager_id", event.ManagerID,
		"from", event.From,
		"to", event.To,
	)
}

// PublishReconnect 同步发布重连调度事件
func (p *Publisher) PublishReconnect(ctx context.Context, event ReconnectEvent) error {
	return p.publish(ctx, p.reconnectChannel, event,
		"manager_id", event.ManagerID,
		"next_attempt", event.NextAttempt,
	)
}

// OnStatusChange 实现 client.Observer
func (p *Publisher) OnStatusChange(event models.StatusEvent) {
	p.enqueue("status", func(ctx context.Context) error {
		return p.PublishStatus(ctx, event)
	})
}

// OnReconnectScheduled 实现 client.Observer
func (p *Publisher) OnReconnectScheduled(info models.ConnectionInfo, attempt int, delay time.Duration) {
	event := NewReconnectEvent(info, attempt, delay, time.Now())
	p.enqueue("reconnect", func(ctx context.Context) error {
		return p.PublishReconnect(ctx, event)
	})
}

// Close 停止接收事件，等待已入队事件发布完，可重复调用
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	// 从未启动过发布协程
	p.startOnce.Do(func() { close(p.done) })
	<-p.done
}

// enqueue 非阻塞入队，首次入队时启动发布协程，队列满时丢弃并告警
func (p *Publisher) enqueue(name string, fn func(ctx context.Context) error) {
	p.startOnce.Do(func() {
		syncx.Go().
			OnPanic(func(rec any) {
				p.logger.ErrorKV("事件发布协程 panic", "panic", rec)
			}).
			Exec(p.loop)
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.queue <- publishTask{name: name, fn: fn}:
	default:
		p.logger.WarnKV("事件发布队列已满，丢弃事件", "event", name)
	}
}

// loop 按入队顺序逐个发布，队列关闭或上下文结束后退出
func (p *Publisher) loop() {
	defer close(p.done)
	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.queue:
			if !ok {
				return
			}
			contextx.WithTimeoutOrBackground(p.ctx, p.timeout, task.fn)
		}
	}
}

// publish 发布并按结果记录日志
func (p *Publisher) publish(ctx context.Context, channel string, data interface{}, kv ...interface{}) error {
	if p.pubsub == nil {
		p.logger.DebugKV("PubSub未设置,跳过事件发布", "channel", channel)
		return ErrPublisherMissing
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.pubsub.Publish(ctx, channel, data); err != nil {
		fields := append([]interface{}{"channel", channel, "error", err}, kv...)
		// 区分上下文取消和其他错误
		if errors.Is(err, context.Canceled) || p.ctx.Err() != nil {
			p.logger.DebugKV("发布事件被取消", fields...)
		} else {
			p.logger.WarnKV("发布事件失败", fields...)
		}
		return err
	}

	p.logger.DebugKV("📢 发布事件", append([]interface{}{"channel", channel}, kv...)...)
	return nil
}
