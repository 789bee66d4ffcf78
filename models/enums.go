/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 10:20:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-18 21:42:10
 * @FilePath: \go-wsm\models\enums.go
 * @Description: 枚举类型定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

// ConnectionStatus 连接状态，与浏览器 WebSocket readyState 一一对应
type ConnectionStatus string

const (
	ConnectionStatusConnecting ConnectionStatus = "CONNECTING" // 连接中
	ConnectionStatusOpen       ConnectionStatus = "OPEN"       // 已打开
	ConnectionStatusClosing    ConnectionStatus = "CLOSING"    // 关闭中
	ConnectionStatusClosed     ConnectionStatus = "CLOSED"     // 已关闭
)

// String 实现Stringer接口
func (s ConnectionStatus) String() string {
	return string(s)
}

// IsValid 检查连接状态是否有效
func (s ConnectionStatus) IsValid() bool {
	return ConnectionStatusValidator.IsValid(s)
}

// IsTerminal 是否为终态（已关闭）
func (s ConnectionStatus) IsTerminal() bool {
	return s == ConnectionStatusClosed
}

// MessageType 消息负载类型
type MessageType string

const (
	MessageTypeText   MessageType = "text"   // 文本帧
	MessageTypeBinary MessageType = "binary" // 二进制帧
)

// String 实现Stringer接口
func (t MessageType) String() string {
	return string(t)
}

// IsValid 检查消息类型是否有效
func (t MessageType) IsValid() bool {
	return MessageTypeValidator.IsValid(t)
}

// 关闭码，数值与 RFC 6455 保持一致
const (
	CloseNormalClosure   = 1000 // 正常关闭
	CloseGoingAway       = 1001 // 端点离开
	CloseAbnormalClosure = 1006 // 异常关闭（未收到关闭帧）
)

// IsNormalClosure 是否为正常关闭码，只有 1000 视为正常
func IsNormalClosure(code int) bool {
	return code == CloseNormalClosure
}

// CloseReason 管理器主动关闭时携带的原因
type CloseReason string

const (
	CloseReasonClient           CloseReason = "closed by client"        // 客户端主动关闭
	CloseReasonManualReconnect  CloseReason = "manual reconnect"        // 手动重连
	CloseReasonDisposed         CloseReason = "manager disposed"        // 管理器销毁
	CloseReasonHandshakeTimeout CloseReason = "close handshake timeout" // 关闭握手超时
)

// String 实现Stringer接口
func (r CloseReason) String() string {
	return string(r)
}
