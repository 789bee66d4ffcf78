/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2025-11-22 20:45:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 17:31:08
 * @FilePath: \go-wsm\metrics\collector.go
 * @Description: Prometheus 指标收集器 - 作为观察者挂到管理器上
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package metrics

import (
	"time"

	"github.com/kamalyes/go-wsm/client"
	"github.com/kamalyes/go-wsm/models"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace 默认指标命名空间
const DefaultNamespace = "wsm"

// 方向标签
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

var allStatuses = []models.ConnectionStatus{
	models.ConnectionStatusConnecting,
	models.ConnectionStatusOpen,
	models.ConnectionStatusClosing,
	models.ConnectionStatusClosed,
}

// Collector 指标收集器，实现 client.Observer
type Collector struct {
	status           *prometheus.GaugeVec
	transitions      *prometheus.CounterVec
	abnormalClosures *prometheus.CounterVec
	reconnects       *prometheus.CounterVec
	reconnectDelay   prometheus.Histogram
	messages         *prometheus.CounterVec
	messageBytes     *prometheus.CounterVec
	errors           *prometheus.CounterVec
}

var _ client.Observer = (*Collector)(nil)

// NewCollector 创建指标收集器，namespace 为空时使用 wsm
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Collector{
		status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connection_status",
			Help:      "Current connection status per manager (1 for the active status, 0 otherwise)",
		}, []string{"manager_id", "status"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Total number of status transitions by target status",
		}, []string{"status"}),
		abnormalClosures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "abnormal_closures_total",
			Help:      "Total number of closures with a non-normal close code",
		}, []string{"manager_id"}),
		reconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconnects_scheduled_total",
			Help:      "Total number of automatic reconnects scheduled",
		}, []string{"manager_id"}),
		reconnectDelay: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconnect_delay_seconds",
			Help:      "Delay before each scheduled reconnect",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Total number of messages by direction and frame type",
		}, []string{"direction", "type"}),
		messageBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "message_bytes_total",
			Help:      "Total payload bytes by direction",
		}, []string{"direction"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of transport errors",
		}, []string{"manager_id"}),
	}
}

// Collectors 全部指标，便于自定义注册
func (c *Collector) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.status,
		c.transitions,
		c.abnormalClosures,
		c.reconnects,
		c.reconnectDelay,
		c.messages,
		c.messageBytes,
		c.errors,
	}
}

// Register 注册到 Registerer，遇到第一个错误即返回
func (c *Collector) Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, collector := range c.Collectors() {
		if err := reg.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// Forget 移除管理器相关的标签序列，管理器销毁后调用
func (c *Collector) Forget(managerID string) {
	labels := prometheus.Labels{"manager_id": managerID}
	c.status.DeletePartialMatch(labels)
	c.abnormalClosures.DeletePartialMatch(labels)
	c.reconnects.DeletePartialMatch(labels)
	c.errors.DeletePartialMatch(labels)
}

// OnStatusChange 当前状态置 1，其余置 0
func (c *Collector) OnStatusChange(event models.StatusEvent) {
	for _, status := range allStatuses {
		value := 0.0
		if status == event.To {
			value = 1
		}
		c.status.WithLabelValues(event.ManagerID, status.String()).Set(value)
	}
	c.transitions.WithLabelValues(event.To.String()).Inc()
	if event.IsAbnormalClose() {
		c.abnormalClosures.WithLabelValues(event.ManagerID).Inc()
	}
}

// OnMessage 接收计数
func (c *Collector) OnMessage(info models.ConnectionInfo, msg models.Message) {
	c.observeMessage(DirectionReceived, msg)
}

// OnMessageSent 发送计数
func (c *Collector) OnMessageSent(info models.ConnectionInfo, msg models.Message) {
	c.observeMessage(DirectionSent, msg)
}

// OnError 错误计数
func (c *Collector) OnError(info models.ConnectionInfo, err error) {
	c.errors.WithLabelValues(info.ManagerID).Inc()
}

// OnReconnectScheduled 重连计数
func (c *Collector) OnReconnectScheduled(info models.ConnectionInfo, attempt int, delay time.Duration) {
	c.reconnects.WithLabelValues(info.ManagerID).Inc()
	c.reconnectDelay.Observe(delay.Seconds())
}

func (c *Collector) observeMessage(direction string, msg models.Message) {
	c.messages.WithLabelValues(direction, msg.Type.String()).Inc()
	c.messageBytes.WithLabelValues(direction).Add(float64(msg.Size()))
}
