/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 18:24:30
 * @FilePath: \go-wsm\exports_events.go
 * @Description: 导出事件发布和订阅函数
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package wsm

import (
	"github.com/kamalyes/go-wsm/events"
)

// ==================== 类型 ====================

type (
	Publisher       = events.Publisher
	PubSubPublisher = events.PubSubPublisher
	ReconnectEvent  = events.ReconnectEvent
)

// ==================== 频道 ====================

const (
	ChannelStatus    = events.ChannelStatus
	ChannelReconnect = events.ChannelReconnect
)

// ==================== 发布与订阅 ====================

// NewPublisher 创建事件发布器
var NewPublisher = events.NewPublisher

// NewCachexPublisher 基于 go-cachex PubSub 创建事件发布器
var NewCachexPublisher = events.NewCachexPublisher

// SubscribeStatus 订阅状态迁移事件
var SubscribeStatus = events.SubscribeStatus

// SubscribeReconnect 订阅重连调度事件
var SubscribeReconnect = events.SubscribeReconnect
