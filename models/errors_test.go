/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-20 09:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-20 09:58:14
 * @FilePath: \go-wsm\models\errors_test.go
 * @Description:
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/stretchr/testify/assert"
)

func TestErrorVariablesAreRegistered(t *testing.T) {
	assert.Equal(t, "connection manager already disposed", ErrManagerDisposed.Error())
	assert.Equal(t, "connection stale, no pong received", ErrConnectionStale.Error())
	assert.True(t, IsErrorType(ErrPublisherMissing, ErrTypePublisherMissing))
	assert.True(t, IsErrorType(ErrInvalidTransition, ErrTypeInvalidTransition))
}

func TestIsErrorType(t *testing.T) {
	err := NewNotOpenError(ConnectionStatusClosing)
	assert.Equal(t, "websocket is not open, current status: CLOSING", err.Error())
	assert.True(t, IsNotOpenError(err))
	assert.True(t, IsNotOpenError(fmt.Errorf("send: %w", err)), "包装后仍可识别")
	assert.False(t, IsErrorType(err, ErrTypeInvalidOptions))
	assert.False(t, IsErrorType(nil, ErrTypeNotOpen))
	assert.False(t, IsErrorType(errors.New("plain"), ErrTypeNotOpen))

	assert.True(t, IsRecordNotFoundError(NewRecordNotFoundError("conn-1")))
	assert.True(t, IsErrorType(NewInvalidOptionsError("bad"), ErrTypeInvalidOptions))
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(ErrConnectionStale))
	assert.True(t, IsRetryableError(NewAbnormalClosureError(CloseAbnormalClosure, "reset")))
	assert.True(t, IsRetryableError(errorx.WrapError("read", ErrConnectionStale)))

	assert.False(t, IsRetryableError(nil))
	assert.False(t, IsRetryableError(errors.New("tls handshake failed")))
	assert.False(t, IsRetryableError(NewNotOpenError(ConnectionStatusClosed)))
	assert.False(t, IsRetryableError(NewRetriesExhaustedError(3)))
}
