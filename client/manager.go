/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 11:02:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 10:14:37
 * @FilePath: \go-wsm\client\manager.go
 * @Description: Manager 结构体及其方法 - 单个逻辑连接的完整生命周期
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jpillora/backoff"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/idgen"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/kamalyes/go-wsm/models"
)

var idGenerator = idgen.NewDefaultIDGenerator()

// Manager 连接管理器
// 持有至多一个连接和至多一个待触发的重连定时器，异常关闭时按固定间隔自动重连
type Manager struct {
	mu           sync.Mutex                                   // 保护以下全部可变状态
	id           string                                       // 管理器ID
	url          string                                       // 目标地址
	options      *Options                                     // 不可变配置
	transport    Transport                                    // 传输层
	clock        Clock                                        // 时钟
	logger       logger.ILogger                               // 日志器
	stateMachine *syncx.StateMachine[models.ConnectionStatus] // 连接状态机
	backoff      *backoff.Backoff                             // 固定间隔调度，Attempt() 即重连计数
	link         *connLink                                    // 当前连接，CLOSED 时为 nil
	timer        *reconnectTimer                              // 待触发的重连定时器
	lastMessage  *models.Message                              // 最后一条收到的消息
	lastError    error                                        // 最后一次错误
	disposed     bool                                         // 是否已销毁
	pending      []func()                                     // 待分发的通知，按迁移顺序排列
	dispatching  bool                                         // 是否已有协程在分发通知

	obsMu     sync.RWMutex
	observers []Observer

	// 回调函数
	consumer             atomic.Value // 状态快照消费者 func(models.Snapshot)
	onStatusChange       atomic.Value // 状态迁移回调 func(models.StatusEvent)
	onMessage            atomic.Value // 消息接收回调 func(models.Message)
	onError              atomic.Value // 错误回调 func(error)
	onReconnectScheduled atomic.Value // 重连调度回调 func(int, time.Duration)
}

// New 创建管理器并立即发起连接
// 参数 address: ws/wss 地址
// 参数 opts: 配置，nil 使用默认配置
func New(address string, opts *Options) (*Manager, error) {
	m, err := newManager(address, opts)
	if err != nil {
		return nil, err
	}
	m.Open()
	return m, nil
}

// NewWithTransport 使用自定义传输层与时钟创建管理器，opts 不会被修改
func NewWithTransport(address string, opts *Options, transport Transport, clock Clock) (*Manager, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	cloned := *opts
	cloned.Transport = transport
	cloned.Clock = clock
	return New(address, &cloned)
}

// newManager 创建但不连接
func newManager(address string, opts *Options) (*Manager, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := validateAddress(address); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	// 配置允许的状态转换
	sm := syncx.NewStateMachine(models.ConnectionStatusClosed)
	sm.AllowTransitions(models.ConnectionStatusConnecting, models.ConnectionStatusOpen, models.ConnectionStatusClosed)
	sm.AllowTransitions(models.ConnectionStatusOpen, models.ConnectionStatusClosing, models.ConnectionStatusClosed)
	sm.AllowTransitions(models.ConnectionStatusClosing, models.ConnectionStatusClosed)
	sm.AllowTransitions(models.ConnectionStatusClosed, models.ConnectionStatusConnecting)

	m := &Manager{
		id:           idGenerator.GenerateRequestID(),
		url:          address,
		options:      opts,
		transport:    opts.Transport,
		clock:        opts.Clock,
		logger:       opts.Logger,
		stateMachine: sm,
		backoff: &backoff.Backoff{
			Min:    opts.ReconnectInterval,
			Max:    opts.ReconnectInterval,
			Factor: 1,
			Jitter: false,
		},
	}
	if m.logger == nil {
		m.logger = NewDefaultLogger()
	}
	if m.clock == nil {
		m.clock = SystemClock
	}
	if m.transport == nil {
		m.transport = NewGorillaTransport(opts, m.logger)
	}
	if opts.Consumer != nil {
		m.SetConsumer(opts.Consumer)
	}
	for _, o := range opts.Observers {
		m.AddObserver(o)
	}
	return m, nil
}

// ID 管理器ID
func (m *Manager) ID() string {
	return m.id
}

// URL 目标地址
func (m *Manager) URL() string {
	return m.url
}

// Options 返回配置
func (m *Manager) Options() *Options {
	return m.options
}

// Status 当前连接状态
func (m *Manager) Status() models.ConnectionStatus {
	return m.stateMachine.CurrentState()
}

// IsOpen 是否已打开
func (m *Manager) IsOpen() bool {
	return m.Status() == models.ConnectionStatusOpen
}

// LastMessage 最后一条收到的消息
func (m *Manager) LastMessage() *models.Message {
	return syncx.WithLockReturnValue(&m.mu, func() *models.Message {
		return m.lastMessage
	})
}

// LastError 最后一次错误
func (m *Manager) LastError() error {
	return syncx.WithLockReturnValue(&m.mu, func() error {
		return m.lastError
	})
}

// Attempts 当前自动重连计数
func (m *Manager) Attempts() int {
	return syncx.WithLockReturnValue(&m.mu, func() int {
		return m.attemptsLocked()
	})
}

// HasPendingReconnect 是否存在待触发的重连定时器
func (m *Manager) HasPendingReconnect() bool {
	return syncx.WithLockReturnValue(&m.mu, func() bool {
		return m.timer != nil
	})
}

// IsDisposed 是否已销毁
func (m *Manager) IsDisposed() bool {
	return syncx.WithLockReturnValue(&m.mu, func() bool {
		return m.disposed
	})
}

// Snapshot 当前可观察状态
func (m *Manager) Snapshot() models.Snapshot {
	return syncx.WithLockReturnValue(&m.mu, func() models.Snapshot {
		return m.snapshotLocked()
	})
}

// SetConsumer 替换状态快照消费者，传 nil 取消推送
func (m *Manager) SetConsumer(f func(models.Snapshot)) {
	m.consumer.Store(f)
}

// OnStatusChange 设置状态迁移回调
func (m *Manager) OnStatusChange(f func(event models.StatusEvent)) {
	m.onStatusChange.Store(f)
}

// OnMessage 设置消息接收回调
func (m *Manager) OnMessage(f func(msg models.Message)) {
	m.onMessage.Store(f)
}

// OnError 设置错误回调
func (m *Manager) OnError(f func(err error)) {
	m.onError.Store(f)
}

// OnReconnectScheduled 设置重连调度回调
// 参数 f: attempt 为本次调度后的重连计数，delay 为等待时长
func (m *Manager) OnReconnectScheduled(f func(attempt int, delay time.Duration)) {
	m.onReconnectScheduled.Store(f)
}

// AddObserver 添加观察者
func (m *Manager) AddObserver(o Observer) {
	if o == nil {
		return
	}
	syncx.WithLock(&m.obsMu, func() {
		m.observers = append(m.observers, o)
	})
}

// observerList 观察者副本
func (m *Manager) observerList() []Observer {
	return syncx.WithRLockReturnValue(&m.obsMu, func() []Observer {
		list := make([]Observer, len(m.observers))
		copy(list, m.observers)
		return list
	})
}

// attemptsLocked 重连计数，调用方需持有锁
func (m *Manager) attemptsLocked() int {
	return int(m.backoff.Attempt())
}

// snapshotLocked 构建快照，调用方需持有锁
func (m *Manager) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		ManagerID:   m.id,
		URL:         m.url,
		Status:      m.stateMachine.CurrentState(),
		LastMessage: m.lastMessage,
		LastError:   m.lastError,
		Attempts:    m.attemptsLocked(),
	}
}

// push 推送快照给消费者
func (m *Manager) push(snap models.Snapshot) {
	if f, ok := m.consumer.Load().(func(models.Snapshot)); ok && f != nil {
		f(snap)
	}
}

// emitStatus 分发状态迁移
func (m *Manager) emitStatus(event models.StatusEvent, snap models.Snapshot) {
	if f, ok := m.onStatusChange.Load().(func(models.StatusEvent)); ok && f != nil {
		f(event)
	}
	for _, o := range m.observerList() {
		o.OnStatusChange(event)
	}
	m.push(snap)
}

// emitMessage 分发收到的消息
func (m *Manager) emitMessage(info models.ConnectionInfo, msg models.Message, snap models.Snapshot) {
	if f, ok := m.onMessage.Load().(func(models.Message)); ok && f != nil {
		f(msg)
	}
	for _, o := range m.observerList() {
		o.OnMessage(info, msg)
	}
	m.push(snap)
}

// emitError 分发错误
func (m *Manager) emitError(info models.ConnectionInfo, err error, snap models.Snapshot) {
	if f, ok := m.onError.Load().(func(error)); ok && f != nil {
		f(err)
	}
	for _, o := range m.observerList() {
		o.OnError(info, err)
	}
	m.push(snap)
}

// emitReconnectScheduled 分发重连调度
func (m *Manager) emitReconnectScheduled(info models.ConnectionInfo, attempt int, delay time.Duration) {
	if f, ok := m.onReconnectScheduled.Load().(func(int, time.Duration)); ok && f != nil {
		f(attempt, delay)
	}
	for _, o := range m.observerList() {
		o.OnReconnectScheduled(info, attempt, delay)
	}
}

// notifyQueue 锁内收集的通知与传输层动作
type notifyQueue struct {
	notices []func() // 回调与观察者通知，进入管理器的有序队列
	actions []func() // 传输层动作，锁释放后由当前协程立即执行
}

func (q *notifyQueue) add(f func()) {
	q.notices = append(q.notices, f)
}

func (q *notifyQueue) act(f func()) {
	q.actions = append(q.actions, f)
}

// run 在锁内执行状态变更并按顺序登记通知，锁释放后执行传输层动作再分发通知
func (m *Manager) run(fn func(q *notifyQueue)) {
	q := &notifyQueue{}
	syncx.WithLock(&m.mu, func() {
		fn(q)
		m.pending = append(m.pending, q.notices...)
	})
	for _, f := range q.actions {
		f()
	}
	m.dispatch()
}

// dispatch 按登记顺序执行通知
// 同一时刻只有一个协程在分发，其余协程（包括回调中的重入调用）只登记后返回
func (m *Manager) dispatch() {
	m.mu.Lock()
	if m.dispatching {
		m.mu.Unlock()
		return
	}
	m.dispatching = true
	defer func() {
		if r := recover(); r != nil {
			m.mu.Lock()
			m.dispatching = false
			m.mu.Unlock()
			panic(r)
		}
	}()

	for len(m.pending) > 0 {
		batch := m.pending
		m.pending = nil
		m.mu.Unlock()
		for _, f := range batch {
			f()
		}
		m.mu.Lock()
	}
	m.dispatching = false
	m.mu.Unlock()
}
