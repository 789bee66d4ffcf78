/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 10:20:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 08:40:16
 * @FilePath: \go-wsm\models\errors.go
 * @Description: 连接管理器错误定义 - 基于errorx.BaseError模式
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// ErrorType 错误类型定义，基于errorx.ErrorType
type ErrorType = errorx.ErrorType

// 错误码常量定义
// 使用 82xxx 区间
const (
	// 连接相关错误 (82000-82099)
	ErrTypeNotOpen          ErrorType = 82001 // 连接未打开
	ErrTypeManagerDisposed  ErrorType = 82002 // 管理器已销毁
	ErrTypeAbnormalClosure  ErrorType = 82003 // 异常关闭
	ErrTypeRetriesExhausted ErrorType = 82004 // 自动重连次数耗尽
	ErrTypeConnectionStale  ErrorType = 82005 // 心跳超时

	// 配置相关错误 (82100-82199)
	ErrTypeInvalidOptions    ErrorType = 82101 // 无效配置
	ErrTypeInvalidTransition ErrorType = 82102 // 非法状态迁移

	// 仓储相关错误 (82200-82299)
	ErrTypeRecordInvalid    ErrorType = 82201 // 记录无效
	ErrTypeRecordNotFound   ErrorType = 82202 // 记录未找到
	ErrTypePublisherMissing ErrorType = 82203 // 事件发布器未设置
)

// init 注册所有错误类型
func init() {
	errorx.RegisterError(ErrTypeNotOpen, "websocket is not open, current status: %s")
	errorx.RegisterError(ErrTypeManagerDisposed, "connection manager already disposed")
	errorx.RegisterError(ErrTypeAbnormalClosure, "abnormal closure: code=%d reason=%s")
	errorx.RegisterError(ErrTypeRetriesExhausted, "reconnect attempts exhausted after %d attempts")
	errorx.RegisterError(ErrTypeConnectionStale, "connection stale, no pong received")

	errorx.RegisterError(ErrTypeInvalidOptions, "invalid options: %s")
	errorx.RegisterError(ErrTypeInvalidTransition, "invalid status transition")

	errorx.RegisterError(ErrTypeRecordInvalid, "invalid connection record: %s")
	errorx.RegisterError(ErrTypeRecordNotFound, "connection record not found: %s")
	errorx.RegisterError(ErrTypePublisherMissing, "event publisher is not set")

	ErrManagerDisposed = errorx.NewError(ErrTypeManagerDisposed)
	ErrConnectionStale = errorx.NewError(ErrTypeConnectionStale)
	ErrPublisherMissing = errorx.NewError(ErrTypePublisherMissing)
	ErrInvalidTransition = errorx.NewError(ErrTypeInvalidTransition)
}

// 错误变量定义，消息注册后在 init 中创建
var (
	ErrManagerDisposed   error
	ErrConnectionStale   error
	ErrPublisherMissing  error
	ErrInvalidTransition error
)

// NewNotOpenError 发送时连接未打开
func NewNotOpenError(status ConnectionStatus) error {
	return errorx.NewError(ErrTypeNotOpen, status.String())
}

// NewAbnormalClosureError 异常关闭错误
func NewAbnormalClosureError(code int, reason string) error {
	return errorx.NewError(ErrTypeAbnormalClosure, code, reason)
}

// NewRetriesExhaustedError 重连耗尽错误
func NewRetriesExhaustedError(attempts int) error {
	return errorx.NewError(ErrTypeRetriesExhausted, attempts)
}

// NewInvalidOptionsError 无效配置错误
func NewInvalidOptionsError(detail string) error {
	return errorx.NewError(ErrTypeInvalidOptions, detail)
}

// IsErrorType 判断错误是否属于指定错误码
func IsErrorType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}
	return errorx.ClassifyError(err) == errType
}

// IsNotOpenError 判断是否为连接未打开错误
func IsNotOpenError(err error) bool {
	return IsErrorType(err, ErrTypeNotOpen)
}

// IsRetryableError 判断错误是否值得自动重连
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	switch errorx.ClassifyError(err) {
	case ErrTypeAbnormalClosure, ErrTypeConnectionStale:
		return true
	default:
		return false
	}
}

// NewRecordInvalidError 记录校验失败
func NewRecordInvalidError(detail string) error {
	return errorx.NewError(ErrTypeRecordInvalid, detail)
}

// NewRecordNotFoundError 记录不存在
func NewRecordNotFoundError(id string) error {
	return errorx.NewError(ErrTypeRecordNotFound, id)
}

// IsRecordNotFoundError 判断是否为记录不存在错误
func IsRecordNotFoundError(err error) bool {
	return IsErrorType(err, ErrTypeRecordNotFound)
}
