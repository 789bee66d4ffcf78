/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 11:02:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-17 14:03:52
 * @FilePath: \go-wsm\client\observer.go
 * @Description: 观察者接口 - 记录器、指标、事件发布都通过它接入管理器
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"time"

	"github.com/kamalyes/go-wsm/models"
)

// Observer 管理器观察者，所有回调都在管理器锁外执行
type Observer interface {
	OnStatusChange(event models.StatusEvent)
	OnMessage(info models.ConnectionInfo, msg models.Message)
	OnMessageSent(info models.ConnectionInfo, msg models.Message)
	OnError(info models.ConnectionInfo, err error)
	OnReconnectScheduled(info models.ConnectionInfo, attempt int, delay time.Duration)
}

// NopObserver 空实现，嵌入后只需覆盖关心的方法
type NopObserver struct{}

func (NopObserver) OnStatusChange(models.StatusEvent) {}
func (NopObserver) OnMessage(models.ConnectionInfo, models.Message) {}
func (NopObserver) OnMessageSent(models.ConnectionInfo, models.Message) {}
func (NopObserver) OnError(models.ConnectionInfo, error) {}
func (NopObserver) OnReconnectScheduled(models.ConnectionInfo, int, time.Duration) {}
