/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-12-28 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 18:28:45
 * @FilePath: \go-wsm\exports_models.go
 * @Description: Models模块类型导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package wsm

import (
	"github.com/kamalyes/go-wsm/models"
)

// ==================== 基础类型 ====================
type (
	Message          = models.Message
	Snapshot         = models.Snapshot
	ConnectionInfo   = models.ConnectionInfo
	StatusEvent      = models.StatusEvent
	StatusRecord     = models.StatusRecord
	ConnectionRecord = models.ConnectionRecord
)

// ==================== 枚举类型 ====================
type (
	ConnectionStatus = models.ConnectionStatus
	MessageType      = models.MessageType
	CloseReason      = models.CloseReason
	ErrorType        = models.ErrorType
)

// ==================== 枚举常量 - ConnectionStatus ====================
const (
	ConnectionStatusConnecting = models.ConnectionStatusConnecting
	ConnectionStatusOpen       = models.ConnectionStatusOpen
	ConnectionStatusClosing    = models.ConnectionStatusClosing
	ConnectionStatusClosed     = models.ConnectionStatusClosed
)

// ==================== 枚举常量 - MessageType ====================
const (
	MessageTypeText   = models.MessageTypeText
	MessageTypeBinary = models.MessageTypeBinary
)

// ==================== 关闭码与关闭原因 ====================
const (
	CloseNormalClosure   = models.CloseNormalClosure
	CloseGoingAway       = models.CloseGoingAway
	CloseAbnormalClosure = models.CloseAbnormalClosure

	CloseReasonClient           = models.CloseReasonClient
	CloseReasonManualReconnect  = models.CloseReasonManualReconnect
	CloseReasonDisposed         = models.CloseReasonDisposed
	CloseReasonHandshakeTimeout = models.CloseReasonHandshakeTimeout
)

// ==================== 错误类型 ====================
const (
	ErrTypeNotOpen           = models.ErrTypeNotOpen
	ErrTypeManagerDisposed   = models.ErrTypeManagerDisposed
	ErrTypeAbnormalClosure   = models.ErrTypeAbnormalClosure
	ErrTypeRetriesExhausted  = models.ErrTypeRetriesExhausted
	ErrTypeConnectionStale   = models.ErrTypeConnectionStale
	ErrTypeInvalidOptions    = models.ErrTypeInvalidOptions
	ErrTypeInvalidTransition = models.ErrTypeInvalidTransition
	ErrTypeRecordInvalid     = models.ErrTypeRecordInvalid
	ErrTypeRecordNotFound    = models.ErrTypeRecordNotFound
	ErrTypePublisherMissing  = models.ErrTypePublisherMissing
)

// ==================== 函数 ====================
var (
	NewTextMessage        = models.NewTextMessage
	NewBinaryMessage      = models.NewBinaryMessage
	NewStatusRecord       = models.NewStatusRecord
	IsNormalClosure       = models.IsNormalClosure
	IsErrorType           = models.IsErrorType
	IsNotOpenError        = models.IsNotOpenError
	IsRetryableError      = models.IsRetryableError
	IsRecordNotFoundError = models.IsRecordNotFoundError
	ErrManagerDisposed    = models.ErrManagerDisposed
	ErrConnectionStale    = models.ErrConnectionStale
)
