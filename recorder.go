/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-15 16:10:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 18:05:12
 * @FilePath: \go-wsm\recorder.go
 * @Description: 记录器 - 把管理器的状态迁移、消息与错误异步写入仓储并广播事件
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package wsm

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/contextx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/kamalyes/go-wsm/client"
	"github.com/kamalyes/go-wsm/events"
	"github.com/kamalyes/go-wsm/models"
)

// 默认值
const (
	DefaultRecorderTimeout   = 2 * time.Second
	DefaultRecorderQueueSize = 256
)

// ConnectionStore 连接历史存储，repository.ConnectionRecordRepository 满足该接口
type ConnectionStore interface {
	Create(ctx context.Context, record *models.ConnectionRecord) error
	MarkClosed(ctx context.Context, connectionID string, code int, reason string) error
	IncrementMessageStats(ctx context.Context, connectionID string, sent, received int64) error
	IncrementBytesStats(ctx context.Context, connectionID string, sent, received int64) error
	AddError(ctx context.Context, connectionID string, err error) error
}

// StatusStore 实时状态存储，repository.StatusRepository 满足该接口
type StatusStore interface {
	SetStatus(ctx context.Context, record *models.StatusRecord) error
	DeleteStatus(ctx context.Context, managerID string) error
}

// recordTask 单个持久化任务
type recordTask struct {
	name string
	fn   func(ctx context.Context) error
}

// Recorder 记录器，实现 client.Observer
// 所有写操作进入单个有序队列，保证同一连接的创建先于关闭；队列满时丢弃并告警
type Recorder struct {
	connections ConnectionStore
	statuses    StatusStore
	publisher   *events.Publisher
	logger      logger.ILogger
	ctx         context.Context
	cancel      context.CancelFunc
	timeout     time.Duration

	mu     sync.Mutex
	closed bool
	queue  chan recordTask
	done   chan struct{}
}

var _ client.Observer = (*Recorder)(nil)

// RecorderOption 记录器选项
type RecorderOption func(*Recorder)

// WithConnectionStore 设置连接历史存储
func WithConnectionStore(store ConnectionStore) RecorderOption {
	return func(r *Recorder) { r.connections = store }
}

// WithStatusStore 设置实时状态存储
func WithStatusStore(store StatusStore) RecorderOption {
	return func(r *Recorder) { r.statuses = store }
}

// WithPublisher 设置事件发布器，记录器关闭时一并关闭
func WithPublisher(p *events.Publisher) RecorderOption {
	return func(r *Recorder) { r.publisher = p }
}

// WithRecorderLogger 设置日志器
func WithRecorderLogger(l logger.ILogger) RecorderOption {
	return func(r *Recorder) { r.logger = l }
}

// WithRecorderTimeout 设置单次写入超时
func WithRecorderTimeout(d time.Duration) RecorderOption {
	return func(r *Recorder) { r.timeout = d }
}

// NewRecorder 创建记录器并启动写入协程
func NewRecorder(ctx context.Context, queueSize int, opts ...RecorderOption) *Recorder {
	if ctx == nil {
		ctx = context.Background()
	}
	if queueSize <= 0 {
		queueSize = DefaultRecorderQueueSize
	}
	ctx, cancel := context.WithCancel(ctx)

	r := &Recorder{
		logger:  DefaultLogger,
		ctx:     ctx,
		cancel:  cancel,
		timeout: DefaultRecorderTimeout,
		queue:   make(chan recordTask, queueSize),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = NewNoOpLogger()
	}

	syncx.Go().
		OnPanic(func(rec any) {
			r.logger.ErrorKV("记录器写入协程 panic", "panic", rec)
		}).
		Exec(r.loop)

	return r
}

// Attach 注册到管理器并写入当前状态
func (r *Recorder) Attach(m *client.Manager) {
	snap := m.Snapshot()
	r.enqueueStatus(models.NewStatusRecord(snap, "", time.Now()))
	m.AddObserver(r)
}

// Forget 删除管理器的实时状态，管理器销毁后调用
func (r *Recorder) Forget(managerID string) {
	if r.statuses == nil {
		return
	}
	r.enqueue("delete_status", func(ctx context.Context) error {
		return r.statuses.DeleteStatus(ctx, managerID)
	})
}

// Close 停止接收新任务，等待已入队任务写完
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	<-r.done
	if r.publisher != nil {
		r.publisher.Close()
	}
	r.cancel()
}

// OnStatusChange OPEN 时创建连接记录，离开 OPEN/CLOSING 到 CLOSED 时标记关闭
func (r *Recorder) OnStatusChange(event models.StatusEvent) {
	if r.connections != nil && event.ConnectionID != "" {
		switch {
		case event.To == models.ConnectionStatusOpen:
			record := &models.ConnectionRecord{
				ConnectionID:     event.ConnectionID,
				ManagerID:        event.ManagerID,
				URL:              event.URL,
				Protocols:        strings.Join(event.Protocols, ","),
				OpenedAt:         event.At,
				ReconnectAttempt: event.Attempt,
			}
			r.enqueue("create_record", func(ctx context.Context) error {
				return r.connections.Create(ctx, record)
			})
		case event.To == models.ConnectionStatusClosed && event.From != models.ConnectionStatusConnecting:
			r.enqueue("mark_closed", func(ctx context.Context) error {
				return r.connections.MarkClosed(ctx, event.ConnectionID, event.Code, event.Reason)
			})
		}
	}

	r.enqueueStatus(models.NewStatusRecordFromEvent(event))

	if r.publisher != nil {
		r.publisher.OnStatusChange(event)
	}
}

// OnMessage 累计接收统计
func (r *Recorder) OnMessage(info models.ConnectionInfo, msg models.Message) {
	r.enqueueStats(info.ConnectionID, 0, 1, 0, int64(msg.Size()))
}

// OnMessageSent 累计发送统计
func (r *Recorder) OnMessageSent(info models.ConnectionInfo, msg models.Message) {
	r.enqueueStats(info.ConnectionID, 1, 0, int64(msg.Size()), 0)
}

// OnError 记录连接错误
func (r *Recorder) OnError(info models.ConnectionInfo, err error) {
	if r.connections == nil || info.ConnectionID == "" || err == nil {
		return
	}
	r.enqueue("add_error", func(ctx context.Context) error {
		return r.connections.AddError(ctx, info.ConnectionID, err)
	})
}

// OnReconnectScheduled 转发给事件发布器
func (r *Recorder) OnReconnectScheduled(info models.ConnectionInfo, attempt int, delay time.Duration) {
	if r.publisher != nil {
		r.publisher.OnReconnectScheduled(info, attempt, delay)
	}
}

func (r *Recorder) enqueueStatus(record *models.StatusRecord) {
	if r.statuses == nil || record.ManagerID == "" {
		return
	}
	r.enqueue("set_status", func(ctx context.Context) error {
		return r.statuses.SetStatus(ctx, record)
	})
}

func (r *Recorder) enqueueStats(connectionID string, sent, received, bytesSent, bytesReceived int64) {
	if r.connections == nil || connectionID == "" {
		return
	}
	r.enqueue("increment_stats", func(ctx context.Context) error {
		if err := r.connections.IncrementMessageStats(ctx, connectionID, sent, received); err != nil {
			return err
		}
		return r.connections.IncrementBytesStats(ctx, connectionID, bytesSent, bytesReceived)
	})
}

// enqueue 非阻塞入队，管理器回调不会因存储变慢而阻塞
func (r *Recorder) enqueue(name string, fn func(ctx context.Context) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- recordTask{name: name, fn: fn}:
	default:
		r.logger.WarnKV("记录器队列已满，丢弃任务", "task", name)
	}
}

// loop 顺序执行队列中的任务，队列关闭后退出
func (r *Recorder) loop() {
	defer close(r.done)
	for task := range r.queue {
		r.execute(task)
	}
}

func (r *Recorder) execute(task recordTask) {
	contextx.WithTimeoutOrBackground(r.ctx, r.timeout, func(ctx context.Context) error {
		err := task.fn(ctx)
		if err != nil {
			r.logger.WarnKV("记录器写入失败", "task", task.name, "error", err)
		}
		return err
	})
}
