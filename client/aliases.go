/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 11:02:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-18 16:40:12
 * @FilePath: \go-wsm\client\aliases.go
 * @Description: Client 类型别名 - 为 models 包中的类型创建别名，便于在 client 层使用
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package client

import (
	"github.com/kamalyes/go-wsm/models"
)

// ============================================================================
// 类型别名 - 从 models 包导入
// ============================================================================

type (
	ConnectionStatus = models.ConnectionStatus
	Message          = models.Message
	Snapshot         = models.Snapshot
	StatusEvent      = models.StatusEvent
	ConnectionInfo   = models.ConnectionInfo
)

// 常量别名
const (
	ConnectionStatusConnecting = models.ConnectionStatusConnecting
	ConnectionStatusOpen       = models.ConnectionStatusOpen
	ConnectionStatusClosing    = models.ConnectionStatusClosing
	ConnectionStatusClosed     = models.ConnectionStatusClosed
)

// 错误别名
var (
	ErrManagerDisposed = models.ErrManagerDisposed
	ErrConnectionStale = models.ErrConnectionStale
)
