/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 11:02:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-18 23:10:44
 * @FilePath: \go-wsm\client\transport.go
 * @Description: 传输层抽象 - 管理器只依赖这些接口，底层实现可替换
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"time"

	"github.com/kamalyes/go-wsm/models"
)

// Events 传输层生命周期回调
// 每个连接只注册一个 Events，OnOpen 与 OnClose 各最多触发一次，OnClose 之后不再有任何回调
type Events interface {
	OnOpen(subprotocol string)
	OnMessage(msg models.Message)
	OnError(err error)
	OnClose(code int, reason string)
}

// Conn 一个正在建立或已经建立的连接
type Conn interface {
	// Write 发送一帧，调用方需保证连接已打开
	Write(msg models.Message) error
	// Close 发起关闭握手，重复调用无副作用
	Close(code int, reason string)
	// Subprotocol 协商得到的子协议
	Subprotocol() string
}

// Transport 建立连接
// Dial 不得阻塞，也不得在返回前同步触发 events 中的任何回调
type Transport interface {
	Dial(address string, protocols []string, events Events) Conn
}

// Timer 可取消的定时器句柄
type Timer interface {
	Stop() bool
}

// Clock 定时器工厂，测试中可替换为手动时钟
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// systemClock 基于 time.AfterFunc 的时钟
type systemClock struct{}

// AfterFunc 实现 Clock
func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock 默认时钟
var SystemClock Clock = systemClock{}
