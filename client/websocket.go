/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 11:02:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 12:20:41
 * @FilePath: \go-wsm\client\websocket.go
 * @Description: 基于 gorilla/websocket 的传输层实现
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/kamalyes/go-wsm/models"
)

// GorillaTransport gorilla/websocket 传输层
type GorillaTransport struct {
	dialer  *websocket.Dialer // 拨号器模板，每次拨号复制一份
	header  http.Header       // 握手请求头
	options *Options          // 超时与心跳参数
	logger  logger.ILogger    // 日志器
}

// NewGorillaTransport 创建 gorilla 传输层
func NewGorillaTransport(opts *Options, log logger.ILogger) *GorillaTransport {
	if opts == nil {
		opts = DefaultOptions()
	}
	if log == nil {
		log = NewNoOpLogger()
	}
	return &GorillaTransport{
		dialer:  websocket.DefaultDialer,
		header:  opts.Header,
		options: opts,
		logger:  log,
	}
}

// WithDialer 设置自定义的 WebSocket 拨号器
func (t *GorillaTransport) WithDialer(dialer *websocket.Dialer) *GorillaTransport {
	if dialer != nil {
		t.dialer = dialer
	}
	return t
}

// WithRequestHeader 设置握手请求头
func (t *GorillaTransport) WithRequestHeader(header http.Header) *GorillaTransport {
	t.header = header
	return t
}

// Dial 实现 Transport，拨号在独立协程中进行
func (t *GorillaTransport) Dial(address string, protocols []string, events Events) Conn {
	ctx, cancel := context.WithCancel(context.Background())
	c := &gorillaConn{
		transport: t,
		events:    events,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	syncx.Go().
		OnPanic(func(r any) {
			t.logger.ErrorKV("连接协程崩溃", "panic", r, "url", address)
			c.finish(models.CloseAbnormalClosure, "panic")
		}).
		Exec(func() {
			c.run(ctx, address, protocols)
		})
	return c
}

// gorillaConn 单个 gorilla 连接
type gorillaConn struct {
	transport *GorillaTransport
	events    Events
	cancel    context.CancelFunc

	mu          sync.Mutex
	ws          *websocket.Conn
	subprotocol string
	closing     bool        // 本端已发起关闭
	closeCode   int         // 本端关闭码
	closeReason string      // 本端关闭原因
	forceClose  *time.Timer // 关闭握手超时后强制断开

	writeMu    sync.Mutex
	done       chan struct{}
	finishOnce sync.Once
}

// run 拨号并进入读循环
func (c *gorillaConn) run(ctx context.Context, address string, protocols []string) {
	opts := c.transport.options
	dialer := *c.transport.dialer
	dialer.Subprotocols = protocols
	dialer.HandshakeTimeout = opts.HandshakeTimeout

	ws, resp, err := dialer.DialContext(ctx, address, c.transport.header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	c.mu.Lock()
	closing, code, reason := c.closing, c.closeCode, c.closeReason
	if err == nil && !closing {
		c.ws = ws
		c.subprotocol = ws.Subprotocol()
	}
	c.mu.Unlock()

	if err != nil {
		if closing {
			c.finish(code, reason)
			return
		}
		c.transport.logger.WarnKV("WebSocket 拨号失败", "url", address, "error", err)
		c.events.OnError(errorx.WrapError("websocket dial failed", err))
		c.finish(models.CloseAbnormalClosure, err.Error())
		return
	}
	if closing {
		// 握手完成前已被要求关闭
		_ = ws.Close()
		c.finish(code, reason)
		return
	}

	if opts.MaxMessageSize > 0 {
		ws.SetReadLimit(opts.MaxMessageSize)
	}
	if opts.PingInterval > 0 {
		readWait := opts.PingInterval + mathx.IfNotZero(opts.PongTimeout, opts.PingInterval)
		_ = ws.SetReadDeadline(time.Now().Add(readWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(readWait))
		})
	}

	c.events.OnOpen(ws.Subprotocol())

	if opts.PingInterval > 0 {
		syncx.Go().Exec(func() {
			c.pingLoop(ws, opts.PingInterval)
		})
	}
	c.readLoop(ws)
}

// readLoop 读消息直到连接断开
func (c *gorillaConn) readLoop(ws *websocket.Conn) {
	for {
		messageType, data, err := ws.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			return
		}
		switch messageType {
		case websocket.TextMessage:
			c.events.OnMessage(models.Message{Type: models.MessageTypeText, Data: data, ReceivedAt: time.Now()})
		case websocket.BinaryMessage:
			c.events.OnMessage(models.Message{Type: models.MessageTypeBinary, Data: data, ReceivedAt: time.Now()})
		}
	}
}

// handleReadError 把读错误映射为关闭事件
func (c *gorillaConn) handleReadError(err error) {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		c.finish(closeErr.Code, closeErr.Text)
		return
	}

	c.mu.Lock()
	closing, code, reason := c.closing, c.closeCode, c.closeReason
	c.mu.Unlock()
	if closing {
		// 本端关闭后被强制断开
		c.finish(code, reason)
		return
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		c.events.OnError(models.ErrConnectionStale)
	} else {
		c.events.OnError(models.NewAbnormalClosureError(models.CloseAbnormalClosure, err.Error()))
	}
	c.finish(models.CloseAbnormalClosure, err.Error())
}

// pingLoop 定时发送 ping
func (c *gorillaConn) pingLoop(ws *websocket.Conn, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(mathx.IfNotZero(c.transport.options.WriteTimeout, DefaultWriteTimeout))
			if err := ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.transport.logger.DebugKV("发送 ping 失败", "error", err)
				return
			}
		}
	}
}

// finish 释放资源并上报关闭，只执行一次
func (c *gorillaConn) finish(code int, reason string) {
	c.finishOnce.Do(func() {
		close(c.done)
		c.cancel()

		c.mu.Lock()
		ws := c.ws
		if c.forceClose != nil {
			c.forceClose.Stop()
		}
		c.mu.Unlock()

		if ws != nil {
			_ = ws.Close()
		}
		c.events.OnClose(code, reason)
	})
}

// Write 实现 Conn
func (c *gorillaConn) Write(msg models.Message) error {
	c.mu.Lock()
	ws, closing := c.ws, c.closing
	c.mu.Unlock()
	if ws == nil {
		return models.NewNotOpenError(models.ConnectionStatusConnecting)
	}
	if closing {
		return models.NewNotOpenError(models.ConnectionStatusClosing)
	}

	messageType := websocket.TextMessage
	if msg.IsBinary() {
		messageType = websocket.BinaryMessage
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if wt := c.transport.options.WriteTimeout; wt > 0 {
		_ = ws.SetWriteDeadline(time.Now().Add(wt))
	}
	if err := ws.WriteMessage(messageType, msg.Data); err != nil {
		return errorx.WrapError("websocket write failed", err)
	}
	return nil
}

// Close 实现 Conn：拨号中取消拨号，已连接时发送关闭帧并在超时后强制断开
func (c *gorillaConn) Close(code int, reason string) {
	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		return
	}
	c.closing = true
	c.closeCode = code
	c.closeReason = reason
	ws := c.ws
	c.mu.Unlock()

	if ws == nil {
		c.cancel()
		return
	}

	opts := c.transport.options
	deadline := time.Now().Add(mathx.IfNotZero(opts.WriteTimeout, DefaultWriteTimeout))
	if err := ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline); err != nil {
		_ = ws.Close()
		return
	}

	timer := time.AfterFunc(mathx.IfNotZero(opts.CloseTimeout, DefaultCloseTimeout), func() {
		c.transport.logger.DebugKV("关闭握手超时，强制断开", "reason", models.CloseReasonHandshakeTimeout)
		_ = ws.Close()
	})
	c.mu.Lock()
	c.forceClose = timer
	c.mu.Unlock()
}

// Subprotocol 实现 Conn
func (c *gorillaConn) Subprotocol() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subprotocol
}
