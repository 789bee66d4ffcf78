/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 10:20:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-18 22:05:47
 * @FilePath: \go-wsm\models\message.go
 * @Description: 消息负载、状态快照与状态事件
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"time"
)

// Message 不透明的消息负载（文本或二进制），不对内容做任何解析
type Message struct {
	Type       MessageType `json:"type"`        // 帧类型
	Data       []byte      `json:"data"`        // 原始数据
	ReceivedAt time.Time   `json:"received_at"` // 本地接收时间（发送时为零值）
}

// NewTextMessage 创建文本消息
func NewTextMessage(text string) Message {
	return Message{Type: MessageTypeText, Data: []byte(text)}
}

// NewBinaryMessage 创建二进制消息
func NewBinaryMessage(data []byte) Message {
	return Message{Type: MessageTypeBinary, Data: data}
}

// Text 以字符串形式返回负载
func (m Message) Text() string {
	return string(m.Data)
}

// IsBinary 是否为二进制帧
func (m Message) IsBinary() bool {
	return m.Type == MessageTypeBinary
}

// Size 负载字节数
func (m Message) Size() int {
	return len(m.Data)
}

// Snapshot 推送给消费者的可观察状态
type Snapshot struct {
	ManagerID   string           `json:"manager_id"`
	URL         string           `json:"url"`
	Status      ConnectionStatus `json:"status"`
	LastMessage *Message         `json:"last_message,omitempty"`
	LastError   error            `json:"-"`
	Attempts    int              `json:"attempts"` // 当前自动重连计数
}

// HasError 是否存在最后一次错误
func (s Snapshot) HasError() bool {
	return s.LastError != nil
}

// ConnectionInfo 连接身份信息，随观察者回调一起下发
type ConnectionInfo struct {
	ManagerID    string   `json:"manager_id"`
	ConnectionID string   `json:"connection_id"`
	URL          string   `json:"url"`
	Protocols    []string `json:"protocols,omitempty"`
	Attempt      int      `json:"attempt"` // 建立该连接时的自动重连序号，0 表示首次或手动
}

// StatusEvent 状态迁移事件，分发给观察者（记录器、指标、事件发布）
type StatusEvent struct {
	ConnectionInfo
	From     ConnectionStatus `json:"from"`
	To       ConnectionStatus `json:"to"`
	Code     int              `json:"code,omitempty"`   // 关闭码，仅 CLOSED 事件有效
	Reason   string           `json:"reason,omitempty"` // 关闭原因
	Attempts int              `json:"attempts"`         // 事件发生时的重连计数
	At       time.Time        `json:"at"`
}

// IsAbnormalClose 是否为异常关闭事件
func (e StatusEvent) IsAbnormalClose() bool {
	return e.To == ConnectionStatusClosed && e.Code != 0 && !IsNormalClosure(e.Code)
}
