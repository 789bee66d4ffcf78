/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-15 14:40:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 17:40:26
 * @FilePath: \go-wsm\metrics\collector_test.go
 * @Description:
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/kamalyes/go-wsm/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testInfo = models.ConnectionInfo{ManagerID: "manager-1", ConnectionID: "conn-1", URL: "ws://host"}

func transition(from, to models.ConnectionStatus, code int) models.StatusEvent {
	return models.StatusEvent{ConnectionInfo: testInfo, From: from, To: to, Code: code, At: time.Now()}
}

func TestCollector_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("")

	require.NoError(t, c.Register(reg))
	assert.Error(t, c.Register(reg), "重复注册应失败")
}

func TestCollector_StatusGauge(t *testing.T) {
	c := NewCollector("test")

	c.OnStatusChange(transition(models.ConnectionStatusClosed, models.ConnectionStatusConnecting, 0))
	c.OnStatusChange(transition(models.ConnectionStatusConnecting, models.ConnectionStatusOpen, 0))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.status.WithLabelValues("manager-1", "OPEN")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.status.WithLabelValues("manager-1", "CONNECTING")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.status.WithLabelValues("manager-1", "CLOSED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transitions.WithLabelValues("OPEN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transitions.WithLabelValues("CONNECTING")))
}

func TestCollector_AbnormalClosures(t *testing.T) {
	c := NewCollector("test")

	c.OnStatusChange(transition(models.ConnectionStatusOpen, models.ConnectionStatusClosed, models.CloseAbnormalClosure))
	c.OnStatusChange(transition(models.ConnectionStatusClosing, models.ConnectionStatusClosed, models.CloseNormalClosure))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.abnormalClosures.WithLabelValues("manager-1")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.transitions.WithLabelValues("CLOSED")))
}

func TestCollector_MessagesAndErrors(t *testing.T) {
	c := NewCollector("test")

	c.OnMessage(testInfo, models.NewTextMessage("hello"))
	c.OnMessage(testInfo, models.NewBinaryMessage([]byte{1, 2, 3}))
	c.OnMessageSent(testInfo, models.NewTextMessage("hi"))
	c.OnError(testInfo, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.messages.WithLabelValues(DirectionReceived, "text")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.messages.WithLabelValues(DirectionReceived, "binary")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.messages.WithLabelValues(DirectionSent, "text")))
	assert.Equal(t, 8.0, testutil.ToFloat64(c.messageBytes.WithLabelValues(DirectionReceived)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.messageBytes.WithLabelValues(DirectionSent)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.errors.WithLabelValues("manager-1")))
}

func TestCollector_Reconnects(t *testing.T) {
	c := NewCollector("test")

	c.OnReconnectScheduled(testInfo, 1, time.Second)
	c.OnReconnectScheduled(testInfo, 2, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.reconnects.WithLabelValues("manager-1")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.reconnectDelay))
}

func TestCollector_Forget(t *testing.T) {
	c := NewCollector("test")

	c.OnStatusChange(transition(models.ConnectionStatusClosed, models.ConnectionStatusConnecting, 0))
	c.OnError(testInfo, errors.New("boom"))
	require.Equal(t, 4, testutil.CollectAndCount(c.status))

	c.Forget("manager-1")
	assert.Equal(t, 0, testutil.CollectAndCount(c.status))
	assert.Equal(t, 0, testutil.CollectAndCount(c.errors))
}
