/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 10:20:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-18 22:31:09
 * @FilePath: \go-wsm\models\connection.go
 * @Description: 连接记录模型 - 每次打开的连接对应一行，用于持久化连接历史
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package models

import (
	"time"
)

// ConnectionRecord 连接记录模型
type ConnectionRecord struct {
	// ========== 基础标识信息 ==========
	ID           uint64 `gorm:"primaryKey;autoIncrement;comment:自增主键" json:"id"`
	ConnectionID string `gorm:"column:connection_id;size:64;uniqueIndex;not null;comment:连接ID(唯一)" json:"connection_id"`
	ManagerID    string `gorm:"column:manager_id;size:64;not null;index;comment:管理器ID" json:"manager_id"`

	// ========== 目标信息 ==========
	URL       string `gorm:"column:url;size:512;not null;comment:目标地址" json:"url"`
	Protocols string `gorm:"column:protocols;size:255;comment:子协议(逗号分隔)" json:"protocols,omitempty"`

	// ========== 时间信息 ==========
	OpenedAt time.Time  `gorm:"column:opened_at;index;not null;comment:连接打开时间" json:"opened_at"`
	ClosedAt *time.Time `gorm:"column:closed_at;index;comment:连接关闭时间" json:"closed_at,omitempty"`
	Duration int64      `gorm:"column:duration;comment:连接持续时长(秒)" json:"duration,omitempty"`

	// ========== 关闭信息 ==========
	CloseCode   int    `gorm:"column:close_code;comment:关闭码" json:"close_code,omitempty"`
	CloseReason string `gorm:"column:close_reason;size:255;comment:关闭原因" json:"close_reason,omitempty"`
	IsAbnormal  bool   `gorm:"column:is_abnormal;default:false;index;comment:是否异常关闭" json:"is_abnormal"`
	IsActive    bool   `gorm:"column:is_active;default:true;index;comment:是否仍处于打开状态" json:"is_active"`

	// ========== 重连与流量 ==========
	ReconnectAttempt int   `gorm:"column:reconnect_attempt;default:0;comment:打开时的自动重连序号" json:"reconnect_attempt"`
	MessagesSent     int64 `gorm:"column:messages_sent;default:0;comment:发送消息总数" json:"messages_sent"`
	MessagesReceived int64 `gorm:"column:messages_received;default:0;comment:接收消息总数" json:"messages_received"`
	BytesSent        int64 `gorm:"column:bytes_sent;default:0;comment:发送字节数" json:"bytes_sent"`
	BytesReceived    int64 `gorm:"column:bytes_received;default:0;comment:接收字节数" json:"bytes_received"`

	// ========== 错误信息 ==========
	ErrorCount  int        `gorm:"column:error_count;default:0;comment:错误次数" json:"error_count"`
	LastError   string     `gorm:"column:last_error;type:text;comment:最后错误信息" json:"last_error,omitempty"`
	LastErrorAt *time.Time `gorm:"column:last_error_at;comment:最后错误时间" json:"last_error_at,omitempty"`

	// ========== 系统字段 ==========
	CreatedAt time.Time `gorm:"autoCreateTime;comment:记录创建时间" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:记录更新时间" json:"updated_at"`
}

// TableName 指定表名
func (ConnectionRecord) TableName() string {
	return "wsm_connection_records"
}

// MarkClosed 标记为已关闭
func (c *ConnectionRecord) MarkClosed(code int, reason string, at time.Time) {
	c.ClosedAt = &at
	c.CloseCode = code
	c.CloseReason = reason
	c.IsActive = false
	c.IsAbnormal = !IsNormalClosure(code)
	c.Duration = int64(at.Sub(c.OpenedAt).Seconds())
}

// UpdateMessageStats 更新消息统计
func (c *ConnectionRecord) UpdateMessageStats(sent, received int64) {
	c.MessagesSent += sent
	c.MessagesReceived += received
}
