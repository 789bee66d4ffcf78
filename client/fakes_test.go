/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-13 09:12:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 13:02:11
 * @FilePath: \go-wsm\client\fakes_test.go
 * @Description: 测试用传输层与手动时钟
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"sync"
	"testing"
	"time"

	"github.com/kamalyes/go-wsm/models"
	"github.com/stretchr/testify/require"
)

const testAddress = "ws://host"

// closeCall 一次 Conn.Close 调用
type closeCall struct {
	code   int
	reason string
}

// fakeTransport 记录每次拨号，不触发任何回调
type fakeTransport struct {
	mu    sync.Mutex
	conns []*fakeConn
}

func (t *fakeTransport) Dial(address string, protocols []string, events Events) Conn {
	c := &fakeConn{address: address, protocols: protocols, events: events}
	t.mu.Lock()
	t.conns = append(t.conns, c)
	t.mu.Unlock()
	return c
}

func (t *fakeTransport) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.conns)
}

func (t *fakeTransport) last() *fakeConn {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.conns) == 0 {
		return nil
	}
	return t.conns[len(t.conns)-1]
}

func (t *fakeTransport) at(i int) *fakeConn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conns[i]
}

// fakeConn 由测试代码模拟对端行为
type fakeConn struct {
	address   string
	protocols []string
	events    Events

	mu       sync.Mutex
	written  []models.Message
	closes   []closeCall
	writeErr error
}

func (c *fakeConn) Write(msg models.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.written = append(c.written, msg)
	return nil
}

func (c *fakeConn) Close(code int, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes = append(c.closes, closeCall{code: code, reason: reason})
}

func (c *fakeConn) Subprotocol() string {
	return ""
}

func (c *fakeConn) writes() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Message(nil), c.written...)
}

func (c *fakeConn) closeCalls() []closeCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]closeCall(nil), c.closes...)
}

func (c *fakeConn) failWrites(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeErr = err
}

// 模拟对端事件
func (c *fakeConn) open()                           { c.events.OnOpen("") }
func (c *fakeConn) receive(msg models.Message)      { c.events.OnMessage(msg) }
func (c *fakeConn) fail(err error)                  { c.events.OnError(err) }
func (c *fakeConn) closeWith(code int, text string) { c.events.OnClose(code, text) }

// fakeClock 手动触发的时钟
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{delay: d, f: f}
	c.mu.Lock()
	c.timers = append(c.timers, t)
	c.mu.Unlock()
	return t
}

// pending 未取消且未触发的定时器
func (c *fakeClock) pending() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var list []*fakeTimer
	for _, t := range c.timers {
		if t.active() {
			list = append(list, t)
		}
	}
	return list
}

func (c *fakeClock) all() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*fakeTimer(nil), c.timers...)
}

// fireNext 触发唯一一个待触发的定时器
func (c *fakeClock) fireNext(t *testing.T) {
	t.Helper()
	pending := c.pending()
	require.Len(t, pending, 1, "应当恰好有一个待触发的定时器")
	pending[0].fire()
}

type fakeTimer struct {
	mu      sync.Mutex
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

func (t *fakeTimer) active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped && !t.fired
}

// fire 即使已经 Stop 也会执行，用于模拟取消后迟到的触发
func (t *fakeTimer) fire() {
	t.mu.Lock()
	t.fired = true
	t.mu.Unlock()
	t.f()
}

// snapshotRecorder 收集推送给消费者的快照
type snapshotRecorder struct {
	mu    sync.Mutex
	snaps []models.Snapshot
}

func (r *snapshotRecorder) consume(s models.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *snapshotRecorder) statuses() []models.ConnectionStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]models.ConnectionStatus, 0, len(r.snaps))
	for _, s := range r.snaps {
		list = append(list, s.Status)
	}
	return list
}

func (r *snapshotRecorder) last() models.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snaps[len(r.snaps)-1]
}

// newTestManager 使用假传输层与手动时钟创建管理器
func newTestManager(t *testing.T, opts *Options) (*Manager, *fakeTransport, *fakeClock) {
	t.Helper()
	if opts == nil {
		opts = DefaultOptions()
	}
	opts.WithLogger(NewNoOpLogger())
	transport := &fakeTransport{}
	clock := &fakeClock{}
	m, err := NewWithTransport(testAddress, opts, transport, clock)
	require.NoError(t, err)
	t.Cleanup(m.Dispose)
	return m, transport, clock
}
