/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-15 10:12:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 17:02:44
 * @FilePath: \go-wsm\events\publisher_test.go
 * @Description:
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-toolbox/pkg/json"
	"github.com/kamalyes/go-wsm/client"
	"github.com/kamalyes/go-wsm/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	channel string
	data    interface{}
}

// fakePubSub 记录发布内容
type fakePubSub struct {
	mu        sync.Mutex
	published []published
	err       error
}

func (f *fakePubSub) Publish(ctx context.Context, channel string, data interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, published{channel: channel, data: data})
	return nil
}

func (f *fakePubSub) all() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.published...)
}

func newStatusEvent() models.StatusEvent {
	return models.StatusEvent{
		ConnectionInfo: models.ConnectionInfo{ManagerID: "manager-1", ConnectionID: "conn-1", URL: "ws://host"},
		From:           models.ConnectionStatusOpen,
		To:             models.ConnectionStatusClosed,
		Code:           models.CloseAbnormalClosure,
		Attempts:       1,
		At:             time.Now(),
	}
}

func TestPublisherImplementsObserver(t *testing.T) {
	var _ client.Observer = NewPublisher(context.Background(), &fakePubSub{}, nil)
}

func TestPublisher_PublishStatus(t *testing.T) {
	pubsub := &fakePubSub{}
	p := NewPublisher(context.Background(), pubsub, nil)
	event := newStatusEvent()

	require.NoError(t, p.PublishStatus(context.Background(), event))

	got := pubsub.all()
	require.Len(t, got, 1)
	assert.Equal(t, ChannelStatus, got[0].channel)
	assert.Equal(t, event, got[0].data)
}

func TestPublisher_PublishWithoutPubSub(t *testing.T) {
	p := NewPublisher(nil, nil, nil)

	err := p.PublishStatus(context.Background(), newStatusEvent())
	assert.True(t, models.IsErrorType(err, ErrTypePublisherMissing))
}

func TestPublisher_PublishError(t *testing.T) {
	pubsub := &fakePubSub{err: errors.New("redis unavailable")}
	p := NewPublisher(context.Background(), pubsub, nil)

	err := p.PublishReconnect(context.Background(), NewReconnectEvent(models.ConnectionInfo{ManagerID: "manager-1"}, 1, time.Second, time.Now()))
	assert.EqualError(t, err, "redis unavailable")
}

func TestPublisher_CustomChannels(t *testing.T) {
	pubsub := &fakePubSub{}
	p := NewPublisher(context.Background(), pubsub, nil).
		WithChannels("app:status", "").
		WithTimeout(time.Second)

	assert.Equal(t, "app:status", p.StatusChannel())
	assert.Equal(t, ChannelReconnect, p.ReconnectChannel())

	require.NoError(t, p.PublishStatus(context.Background(), newStatusEvent()))
	assert.Equal(t, "app:status", pubsub.all()[0].channel)
}

func TestPublisher_ObserverCallbacksPublishAsync(t *testing.T) {
	pubsub := &fakePubSub{}
	p := NewPublisher(context.Background(), pubsub, nil)
	info := models.ConnectionInfo{ManagerID: "manager-1", ConnectionID: "conn-1"}

	p.OnStatusChange(newStatusEvent())
	p.OnReconnectScheduled(info, 2, 3*time.Second)
	p.OnMessage(info, models.Message{})

	p.Close()

	got := pubsub.all()
	require.Len(t, got, 2)
	assert.Equal(t, ChannelStatus, got[0].channel)
	assert.Equal(t, ChannelReconnect, got[1].channel)
	event, ok := got[1].data.(ReconnectEvent)
	require.True(t, ok)
	assert.Equal(t, 2, event.NextAttempt)
	assert.Equal(t, 3*time.Second, event.Delay)
	assert.Equal(t, "conn-1", event.ConnectionID)
}

func TestPublisher_ObserverCallbacksKeepOrder(t *testing.T) {
	pubsub := &fakePubSub{}
	p := NewPublisher(context.Background(), pubsub, nil)

	const total = 100
	for i := 0; i < total; i++ {
		event := newStatusEvent()
		event.Attempts = i
		p.OnStatusChange(event)
	}
	p.Close()

	got := pubsub.all()
	require.Len(t, got, total)
	for i, item := range got {
		event, ok := item.data.(models.StatusEvent)
		require.True(t, ok)
		assert.Equal(t, i, event.Attempts, "第 %d 个事件乱序", i)
	}
}

func TestPublisher_CloseIsIdempotent(t *testing.T) {
	pubsub := &fakePubSub{}
	p := NewPublisher(context.Background(), pubsub, nil)

	p.Close()
	p.Close()
	p.OnStatusChange(newStatusEvent())
	p.OnReconnectScheduled(models.ConnectionInfo{ManagerID: "manager-1"}, 1, time.Second)

	assert.Empty(t, pubsub.all())
}

func TestEventHandler_DecodesPublishedStatus(t *testing.T) {
	pubsub := &fakePubSub{}
	p := NewPublisher(context.Background(), pubsub, nil)
	sent := newStatusEvent()
	require.NoError(t, p.PublishStatus(context.Background(), sent))

	payload, err := json.Marshal(pubsub.all()[0].data)
	require.NoError(t, err)

	var received *models.StatusEvent
	handle := eventHandler(func(event *models.StatusEvent) error {
		received = event
		return nil
	}, "status", logger.NewEmptyLogger())

	require.NoError(t, handle(context.Background(), ChannelStatus, string(payload)))
	require.NotNil(t, received)
	assert.Equal(t, sent.ManagerID, received.ManagerID)
	assert.Equal(t, sent.ConnectionID, received.ConnectionID)
	assert.Equal(t, sent.From, received.From)
	assert.Equal(t, sent.To, received.To)
	assert.Equal(t, sent.Code, received.Code)
	assert.True(t, sent.At.Equal(received.At))
}

func TestEventHandler_DecodesPublishedReconnect(t *testing.T) {
	pubsub := &fakePubSub{}
	p := NewPublisher(context.Background(), pubsub, nil)
	sent := NewReconnectEvent(models.ConnectionInfo{ManagerID: "manager-1", ConnectionID: "conn-1", URL: "ws://host"}, 3, 2*time.Second, time.Now())
	require.NoError(t, p.PublishReconnect(context.Background(), sent))

	payload, err := json.Marshal(pubsub.all()[0].data)
	require.NoError(t, err)

	var received *ReconnectEvent
	handle := eventHandler(func(event *ReconnectEvent) error {
		received = event
		return nil
	}, "reconnect", logger.NewEmptyLogger())

	require.NoError(t, handle(context.Background(), ChannelReconnect, string(payload)))
	require.NotNil(t, received)
	assert.Equal(t, 3, received.NextAttempt)
	assert.Equal(t, 2*time.Second, received.Delay)
	assert.Equal(t, "conn-1", received.ConnectionID)
}

func TestEventHandler_RejectsBrokenPayload(t *testing.T) {
	called := false
	handle := eventHandler(func(*ReconnectEvent) error {
		called = true
		return nil
	}, "reconnect", logger.NewEmptyLogger())

	assert.Error(t, handle(context.Background(), ChannelReconnect, "{broken"))
	assert.False(t, called)
}

func TestEventHandler_PropagatesHandlerError(t *testing.T) {
	payload, err := json.Marshal(newStatusEvent())
	require.NoError(t, err)

	handle := eventHandler(func(*models.StatusEvent) error {
		return errors.New("handler failed")
	}, "status", logger.NewEmptyLogger())

	assert.EqualError(t, handle(context.Background(), ChannelStatus, string(payload)), "handler failed")
}

func TestDecodeEvent(t *testing.T) {
	event := newStatusEvent()
	data, err := json.Marshal(event)
	require.NoError(t, err)

	decoded, err := decodeEvent[models.StatusEvent](string(data))
	require.NoError(t, err)
	assert.Equal(t, event.ManagerID, decoded.ManagerID)
	assert.Equal(t, models.ConnectionStatusClosed, decoded.To)
	assert.True(t, decoded.IsAbnormalClose())

	_, err = decodeEvent[models.StatusEvent]("{broken")
	assert.Error(t, err)
}

func TestSubscribeWithoutPubSub(t *testing.T) {
	unsubscribe, err := SubscribeStatus(nil, func(*models.StatusEvent) error { return nil }, nil)
	assert.Nil(t, unsubscribe)
	assert.True(t, models.IsErrorType(err, ErrTypePublisherMissing))
}
