/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 16:40:05
 * @FilePath: \go-wsm\events\aliases.go
 * @Description: 事件类型别名
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package events

import (
	"github.com/kamalyes/go-wsm/models"
)

// 错误别名（从 models 包导入）
const ErrTypePublisherMissing = models.ErrTypePublisherMissing

var ErrPublisherMissing = models.ErrPublisherMissing

// StatusEvent 状态迁移事件
type StatusEvent = models.StatusEvent
