/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-28 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 18:20:11
 * @FilePath: \go-wsm\exports_client.go
 * @Description: Client 包的类型和函数导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package wsm

import (
	"github.com/kamalyes/go-wsm/client"
)

// ============================================================================
// Client 类型导出
// ============================================================================

type (
	Manager          = client.Manager
	Options          = client.Options
	Observer         = client.Observer
	NopObserver      = client.NopObserver
	Transport        = client.Transport
	Conn             = client.Conn
	Events           = client.Events
	Clock            = client.Clock
	Timer            = client.Timer
	GorillaTransport = client.GorillaTransport
)

// ============================================================================
// Client 常量与函数导出
// ============================================================================

const (
	UnboundedReconnectAttempts = client.UnboundedReconnectAttempts
	DefaultReconnectInterval   = client.DefaultReconnectInterval
)

var (
	New                 = client.New
	NewWithTransport    = client.NewWithTransport
	DefaultOptions      = client.DefaultOptions
	FromWSC             = client.FromWSC
	NewGorillaTransport = client.NewGorillaTransport
	SystemClock         = client.SystemClock
)

// ============================================================================
// Manager 方法 - 通过 Manager 实例调用
// ============================================================================

// 生命周期：
// - Open(): 建立连接（创建时已自动调用）
// - Close(reason ...string): 主动关闭，不触发自动重连
// - Reconnect(): 丢弃当前连接并立即重连，计数清零
// - Dispose(): 销毁，取消挂起的重连，之后所有操作无效

// 发送：
// - Send(msg Message) error / SendText(text string) error / SendBinary(data []byte) error

// 状态查询：
// - Status() / IsOpen() / LastMessage() / LastError() / Attempts() / Snapshot()

// 回调：
// - SetConsumer(func(Snapshot)): 每次可观察状态变化都会推送快照
// - OnStatusChange / OnMessage / OnError / OnReconnectScheduled / AddObserver
