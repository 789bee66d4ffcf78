/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-01-13 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 16:55:30
 * @FilePath: \go-wsm\events\helpers.go
 * @Description: 事件订阅辅助函数
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package events

import (
	"context"
	"time"

	"github.com/kamalyes/go-cachex"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/json"
	"github.com/kamalyes/go-wsm/models"
)

// ReconnectEvent 重连调度事件
type ReconnectEvent struct {
	models.ConnectionInfo
	NextAttempt int           `json:"next_attempt"` // 即将发起的重连序号
	Delay       time.Duration `json:"delay"`
	At          time.Time     `json:"at"`
}

// NewReconnectEvent 构建重连调度事件
func NewReconnectEvent(info models.ConnectionInfo, attempt int, delay time.Duration, at time.Time) ReconnectEvent {
	return ReconnectEvent{
		ConnectionInfo: info,
		NextAttempt:    attempt,
		Delay:          delay,
		At:             at,
	}
}

// SubscribeStatus 订阅状态迁移事件
// 返回取消订阅函数，调用后将停止接收该事件
func SubscribeStatus(pubsub *cachex.PubSub, handler func(*models.StatusEvent) error, log logger.ILogger) (func() error, error) {
	return subscribeEventHelper(pubsub, []string{ChannelStatus}, handler, "状态迁移事件", log)
}

// SubscribeReconnect 订阅重连调度事件
func SubscribeReconnect(pubsub *cachex.PubSub, handler func(*ReconnectEvent) error, log logger.ILogger) (func() error, error) {
	return subscribeEventHelper(pubsub, []string{ChannelReconnect}, handler, "重连调度事件", log)
}

// decodeEvent 反序列化频道消息
func decodeEvent[T any](message string) (*T, error) {
	var event T
	if err := json.Unmarshal([]byte(message), &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// eventHandler 把频道消息解码为 T 后交给 handler
func eventHandler[T any](handler func(*T) error, eventName string, log logger.ILogger) func(ctx context.Context, channel string, message string) error {
	return func(ctx context.Context, channel string, message string) error {
		event, err := decodeEvent[T](message)
		if err != nil {
			log.WarnKV("事件反序列化失败",
				"event", eventName,
				"channel", channel,
				"error", err,
			)
			return err
		}
		return handler(event)
	}
}

// subscribeEventHelper 通用的事件订阅辅助函数（泛型版本）
func subscribeEventHelper[T any](pubsub *cachex.PubSub, channels []string, handler func(*T) error, eventName string, log logger.ILogger) (func() error, error) {
	if pubsub == nil {
		return nil, ErrPublisherMissing
	}
	if log == nil {
		log = logger.NewEmptyLogger()
	}

	log.InfoKV("📡 订阅事件", "event", eventName, "channels", channels)

	subscriber, err := pubsub.Subscribe(channels, eventHandler(handler, eventName, log))
	if err != nil {
		return nil, err
	}

	return func() error {
		return subscriber.Unsubscribe()
	}, nil
}
