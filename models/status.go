/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-14 10:05:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-18 19:22:40
 * @FilePath: \go-wsm\models\status.go
 * @Description: 实时状态记录 - 管理器当前状态在缓存中的表示
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package models

import "time"

// StatusRecord 管理器实时状态
type StatusRecord struct {
	ManagerID     string           `json:"manager_id"`
	ConnectionID  string           `json:"connection_id,omitempty"`
	URL           string           `json:"url"`
	Status        ConnectionStatus `json:"status"`
	Attempts      int              `json:"attempts"`
	LastError     string           `json:"last_error,omitempty"`
	LastMessageAt *time.Time       `json:"last_message_at,omitempty"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NewStatusRecord 由快照构建状态记录
func NewStatusRecord(snap Snapshot, connectionID string, at time.Time) *StatusRecord {
	record := &StatusRecord{
		ManagerID:    snap.ManagerID,
		ConnectionID: connectionID,
		URL:          snap.URL,
		Status:       snap.Status,
		Attempts:     snap.Attempts,
		UpdatedAt:    at,
	}
	if snap.LastError != nil {
		record.LastError = snap.LastError.Error()
	}
	if snap.LastMessage != nil && !snap.LastMessage.ReceivedAt.IsZero() {
		receivedAt := snap.LastMessage.ReceivedAt
		record.LastMessageAt = &receivedAt
	}
	return record
}

// NewStatusRecordFromEvent 由状态迁移事件构建状态记录
func NewStatusRecordFromEvent(event StatusEvent) *StatusRecord {
	return &StatusRecord{
		ManagerID:    event.ManagerID,
		ConnectionID: event.ConnectionID,
		URL:          event.URL,
		Status:       event.To,
		Attempts:     event.Attempts,
		UpdatedAt:    event.At,
	}
}

// IsOpen 是否处于打开状态
func (r *StatusRecord) IsOpen() bool {
	return r.Status == ConnectionStatusOpen
}
