/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 11:02:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 11:36:18
 * @FilePath: \go-wsm\client\connection.go
 * @Description: 连接管理逻辑 - 打开、发送、关闭、重连、销毁与自动重连调度
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"time"

	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/kamalyes/go-wsm/models"
)

// connLink 单个连接的事件接收端
// 被摘除后（manager.link 不再指向它）其后到达的所有事件都会被忽略
type connLink struct {
	m              *Manager
	info           models.ConnectionInfo
	conn           Conn
	closeRequested bool // 由本端发起关闭，不参与自动重连
}

// reconnectTimer 重连定时器句柄，按指针身份判断是否仍然有效
type reconnectTimer struct {
	timer Timer
}

// Open 发起一个新连接，已有连接会先被摘除
func (m *Manager) Open() {
	m.run(func(q *notifyQueue) {
		m.openLocked(q)
	})
}

// Send 发送一帧，仅在 OPEN 状态下调用传输层
func (m *Manager) Send(msg models.Message) error {
	var (
		link *connLink
		err  error
	)
	syncx.WithLock(&m.mu, func() {
		if m.disposed {
			err = models.ErrManagerDisposed
			return
		}
		status := m.stateMachine.CurrentState()
		if status != models.ConnectionStatusOpen || m.link == nil {
			m.logger.WarnKV("连接未打开，消息未发送",
				"manager_id", m.id,
				"status", status,
				"message_type", msg.Type,
				"size", msg.Size(),
			)
			err = models.NewNotOpenError(status)
			return
		}
		link = m.link
	})
	if err != nil {
		return err
	}

	if err := link.conn.Write(msg); err != nil {
		link.OnError(err)
		return err
	}

	m.run(func(q *notifyQueue) {
		q.add(func() {
			for _, o := range m.observerList() {
				o.OnMessageSent(link.info, msg)
			}
		})
	})
	return nil
}

// SendText 发送文本帧
func (m *Manager) SendText(text string) error {
	return m.Send(models.NewTextMessage(text))
}

// SendBinary 发送二进制帧
func (m *Manager) SendBinary(data []byte) error {
	return m.Send(models.NewBinaryMessage(data))
}

// Close 以 1000 正常关闭当前连接，取消待触发的重连并清零计数，可重复调用
// 参数 reason: 可选关闭原因
func (m *Manager) Close(reason ...string) {
	text := models.CloseReasonClient.String()
	if len(reason) > 0 && reason[0] != "" {
		text = reason[0]
	}

	m.run(func(q *notifyQueue) {
		if m.disposed {
			return
		}
		m.cancelTimerLocked()
		m.backoff.Reset()

		link := m.link
		if link == nil {
			return
		}
		switch m.stateMachine.CurrentState() {
		case models.ConnectionStatusOpen:
			link.requestClose(q, models.CloseNormalClosure, text)
			m.transitionLocked(q, link.info, models.ConnectionStatusClosing, models.CloseNormalClosure, text)
		case models.ConnectionStatusConnecting:
			// 握手未完成，直接摘除并进入 CLOSED
			m.detachLocked(q, models.CloseNormalClosure, text)
		}
		m.logger.InfoKV("主动关闭连接",
			"manager_id", m.id,
			"connection_id", link.info.ConnectionID,
			"reason", text,
		)
	})
}

// Reconnect 手动重连：摘除当前连接，取消定时器，清零计数后立即重新连接
func (m *Manager) Reconnect() {
	m.run(func(q *notifyQueue) {
		if m.disposed {
			return
		}
		m.cancelTimerLocked()
		m.detachLocked(q, models.CloseNormalClosure, models.CloseReasonManualReconnect.String())
		m.backoff.Reset()
		m.logger.InfoKV("手动重连", "manager_id", m.id, "url", m.url)
		m.openLocked(q)
	})
}

// Dispose 销毁管理器，之后的所有操作均为空操作，可重复调用
func (m *Manager) Dispose() {
	m.run(func(q *notifyQueue) {
		if m.disposed {
			return
		}
		m.cancelTimerLocked()
		m.detachLocked(q, models.CloseNormalClosure, models.CloseReasonDisposed.String())
		m.disposed = true
		m.logger.InfoKV("连接管理器已销毁", "manager_id", m.id, "url", m.url)
	})
}

// openLocked 创建新连接，调用方需持有锁
func (m *Manager) openLocked(q *notifyQueue) {
	if m.disposed {
		return
	}
	m.cancelTimerLocked()
	m.detachLocked(q, models.CloseNormalClosure, models.CloseReasonManualReconnect.String())
	m.lastError = nil

	link := &connLink{
		m: m,
		info: models.ConnectionInfo{
			ManagerID:    m.id,
			ConnectionID: idGenerator.GenerateRequestID(),
			URL:          m.url,
			Protocols:    m.options.Protocols,
			Attempt:      m.attemptsLocked(),
		},
	}
	m.link = link
	m.transitionLocked(q, link.info, models.ConnectionStatusConnecting, 0, "")
	m.logger.DebugKV("发起连接",
		"manager_id", m.id,
		"connection_id", link.info.ConnectionID,
		"url", m.url,
		"attempt", link.info.Attempt,
	)
	// Dial 不会同步回调，事件处理需要等待当前锁释放
	link.conn = m.transport.Dial(m.url, m.options.Protocols, link)
}

// detachLocked 摘除当前连接并进入 CLOSED，调用方需持有锁
func (m *Manager) detachLocked(q *notifyQueue, code int, reason string) {
	link := m.link
	if link == nil {
		return
	}
	m.link = nil
	link.requestClose(q, code, reason)
	m.transitionLocked(q, link.info, models.ConnectionStatusClosed, code, reason)
}

// transitionLocked 状态迁移并收集通知，调用方需持有锁
func (m *Manager) transitionLocked(q *notifyQueue, info models.ConnectionInfo, to models.ConnectionStatus, code int, reason string) {
	from := m.stateMachine.CurrentState()
	if from == to {
		return
	}
	if err := m.stateMachine.TransitionTo(to); err != nil {
		m.logger.ErrorKV("非法的状态迁移",
			"manager_id", m.id,
			"from", from,
			"to", to,
			"error", models.ErrInvalidTransition,
		)
		return
	}

	event := models.StatusEvent{
		ConnectionInfo: info,
		From:           from,
		To:             to,
		Code:           code,
		Reason:         reason,
		Attempts:       m.attemptsLocked(),
		At:             time.Now(),
	}
	snap := m.snapshotLocked()
	m.logger.DebugKV("连接状态变更",
		"manager_id", m.id,
		"connection_id", info.ConnectionID,
		"from", from,
		"to", to,
	)
	q.add(func() {
		m.emitStatus(event, snap)
	})
}

// scheduleLocked 调度一次重连，总是先取消旧定时器，调用方需持有锁
func (m *Manager) scheduleLocked(delay time.Duration) {
	m.cancelTimerLocked()
	handle := &reconnectTimer{}
	handle.timer = m.clock.AfterFunc(delay, func() {
		m.onTimerFired(handle)
	})
	m.timer = handle
}

// cancelTimerLocked 取消待触发的定时器，调用方需持有锁
func (m *Manager) cancelTimerLocked() {
	if m.timer == nil {
		return
	}
	m.timer.timer.Stop()
	m.timer = nil
}

// onTimerFired 定时器到期，已取消或已销毁时忽略
func (m *Manager) onTimerFired(handle *reconnectTimer) {
	m.run(func(q *notifyQueue) {
		if m.disposed || m.timer != handle {
			m.logger.DebugKV("忽略已失效的重连定时器", "manager_id", m.id)
			return
		}
		m.timer = nil
		m.openLocked(q)
	})
}

// requestClose 标记本端关闭，锁释放后立即关闭底层连接
func (l *connLink) requestClose(q *notifyQueue, code int, reason string) {
	if l.closeRequested {
		return
	}
	l.closeRequested = true
	conn := l.conn
	if conn == nil {
		return
	}
	q.act(func() {
		conn.Close(code, reason)
	})
}

// OnOpen 连接建立：清零计数、清除错误并进入 OPEN
func (l *connLink) OnOpen(subprotocol string) {
	m := l.m
	m.run(func(q *notifyQueue) {
		if m.link != l || m.stateMachine.CurrentState() != models.ConnectionStatusConnecting {
			return
		}
		m.backoff.Reset()
		m.lastError = nil
		m.transitionLocked(q, l.info, models.ConnectionStatusOpen, 0, subprotocol)
		m.logger.InfoKV("连接已建立",
			"manager_id", m.id,
			"connection_id", l.info.ConnectionID,
			"url", m.url,
			"subprotocol", subprotocol,
		)
	})
}

// OnMessage 收到消息：记录为最后一条消息并推送
func (l *connLink) OnMessage(msg models.Message) {
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now()
	}
	m := l.m
	m.run(func(q *notifyQueue) {
		if m.link != l {
			return
		}
		stored := msg
		m.lastMessage = &stored
		snap := m.snapshotLocked()
		q.add(func() {
			m.emitMessage(l.info, msg, snap)
		})
	})
}

// OnError 传输层错误：只记录错误，不改变状态
func (l *connLink) OnError(err error) {
	if err == nil {
		return
	}
	m := l.m
	m.run(func(q *notifyQueue) {
		if m.link != l {
			return
		}
		m.lastError = err
		// 心跳超时与异常断开会由重连策略恢复，只记警告
		log := mathx.IF(models.IsRetryableError(err), m.logger.WarnKV, m.logger.ErrorKV)
		log("连接错误",
			"manager_id", m.id,
			"connection_id", l.info.ConnectionID,
			"status", m.stateMachine.CurrentState(),
			"error", err,
		)
		snap := m.snapshotLocked()
		q.add(func() {
			m.emitError(l.info, err, snap)
		})
	})
}

// OnClose 连接关闭：进入 CLOSED，异常关闭时按策略调度重连
func (l *connLink) OnClose(code int, reason string) {
	m := l.m
	m.run(func(q *notifyQueue) {
		if m.link != l {
			return
		}
		m.link = nil

		if l.closeRequested || models.IsNormalClosure(code) || !m.options.ShouldReconnect {
			m.transitionLocked(q, l.info, models.ConnectionStatusClosed, code, reason)
			m.logger.InfoKV("连接已关闭",
				"manager_id", m.id,
				"connection_id", l.info.ConnectionID,
				"code", code,
				"reason", reason,
			)
			return
		}

		attempts := m.attemptsLocked()
		if !m.options.AllowsAttempt(attempts) {
			m.transitionLocked(q, l.info, models.ConnectionStatusClosed, code, reason)
			m.logger.WarnKV("自动重连次数已用尽，停止重连",
				"manager_id", m.id,
				"url", m.url,
				"code", code,
				"error", models.NewRetriesExhaustedError(attempts),
			)
			return
		}

		// 先计数再迁移，CLOSED 快照中即可看到本次重连序号
		delay := m.backoff.Duration()
		m.transitionLocked(q, l.info, models.ConnectionStatusClosed, code, reason)
		m.scheduleLocked(delay)

		attempt := m.attemptsLocked()
		m.logger.InfoKV("连接异常关闭，已调度自动重连",
			"manager_id", m.id,
			"url", m.url,
			"code", code,
			"reason", reason,
			"attempt", attempt,
			"delay", delay,
		)
		q.add(func() {
			m.emitReconnectScheduled(l.info, attempt, delay)
		})
	})
}
