/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-13 10:02:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-18 21:44:09
 * @FilePath: \go-wsm\client\options_test.go
 * @Description:
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/kamalyes/go-config/pkg/logging"
	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-wsm/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.True(t, opts.ShouldReconnect)
	assert.Equal(t, 5*time.Second, opts.ReconnectInterval)
	assert.Equal(t, UnboundedReconnectAttempts, opts.MaxReconnectAttempts)
	assert.True(t, opts.IsUnbounded())
	assert.Equal(t, 10*time.Second, opts.HandshakeTimeout)
	assert.Equal(t, 10*time.Second, opts.WriteTimeout)
	assert.Equal(t, 5*time.Second, opts.CloseTimeout)
	assert.Zero(t, opts.MaxMessageSize)
	assert.Zero(t, opts.PingInterval)
	assert.NoError(t, opts.Validate())
}

func TestOptionsMethods(t *testing.T) {
	header := http.Header{"Authorization": []string{"Bearer token"}}
	opts := DefaultOptions().
		WithShouldReconnect(false).
		WithReconnectInterval(time.Second).
		WithMaxReconnectAttempts(3).
		WithProtocols("chat").
		WithHeader(header).
		WithHandshakeTimeout(2 * time.Second).
		WithWriteTimeout(3 * time.Second).
		WithCloseTimeout(4 * time.Second).
		WithMaxMessageSize(1024).
		WithPing(15*time.Second, 5*time.Second)

	assert.False(t, opts.ShouldReconnect)
	assert.Equal(t, time.Second, opts.ReconnectInterval)
	assert.Equal(t, 3, opts.MaxReconnectAttempts)
	assert.Equal(t, []string{"chat"}, opts.Protocols)
	assert.Equal(t, header, opts.Header)
	assert.Equal(t, 2*time.Second, opts.HandshakeTimeout)
	assert.Equal(t, 3*time.Second, opts.WriteTimeout)
	assert.Equal(t, 4*time.Second, opts.CloseTimeout)
	assert.Equal(t, int64(1024), opts.MaxMessageSize)
	assert.Equal(t, 15*time.Second, opts.PingInterval)
	assert.Equal(t, 5*time.Second, opts.PongTimeout)
	assert.False(t, opts.IsUnbounded())

	opts.WithObservers(NopObserver{}).WithObservers(NopObserver{})
	assert.Len(t, opts.Observers, 2)
}

func TestAllowsAttempt(t *testing.T) {
	bounded := DefaultOptions().WithMaxReconnectAttempts(2)
	assert.True(t, bounded.AllowsAttempt(0))
	assert.True(t, bounded.AllowsAttempt(1))
	assert.False(t, bounded.AllowsAttempt(2))

	none := DefaultOptions().WithMaxReconnectAttempts(0)
	assert.False(t, none.AllowsAttempt(0))

	unbounded := DefaultOptions()
	assert.True(t, unbounded.AllowsAttempt(1_000_000))
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name  string
		opts  *Options
		valid bool
	}{
		{"默认配置", DefaultOptions(), true},
		{"关闭重连时允许零间隔", DefaultOptions().WithShouldReconnect(false).WithReconnectInterval(0), true},
		{"零间隔", DefaultOptions().WithReconnectInterval(0), false},
		{"负间隔", DefaultOptions().WithReconnectInterval(-time.Second), false},
		{"空子协议", DefaultOptions().WithProtocols(""), false},
		{"负超时", DefaultOptions().WithWriteTimeout(-time.Second), false},
		{"负消息长度", DefaultOptions().WithMaxMessageSize(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, models.IsErrorType(err, models.ErrTypeInvalidOptions))
		})
	}
}

func TestValidateAddress(t *testing.T) {
	assert.NoError(t, validateAddress("ws://localhost:8080/ws"))
	assert.NoError(t, validateAddress("wss://example.com/socket?token=1"))
	assert.Error(t, validateAddress("http://example.com"))
	assert.Error(t, validateAddress("ws:///path"))
	assert.Error(t, validateAddress("://bad"))
}

func TestFromWSC(t *testing.T) {
	config := wscconfig.Default()
	config.AutoReconnect = false
	config.MinRecTime = 3 * time.Second
	config.WriteTimeout = 7 * time.Second
	config.MaxMessageSize = 2048

	opts := FromWSC(config)
	require.NotNil(t, opts)
	assert.False(t, opts.ShouldReconnect)
	assert.Equal(t, 3*time.Second, opts.ReconnectInterval)
	assert.Equal(t, 7*time.Second, opts.WriteTimeout)
	assert.Equal(t, int64(2048), opts.MaxMessageSize)
	assert.NotNil(t, opts.Logger)
	assert.NoError(t, opts.Validate())
}

func TestFromWSCNil(t *testing.T) {
	opts := FromWSC(nil)
	require.NotNil(t, opts)
	assert.Equal(t, wscconfig.Default().AutoReconnect, opts.ShouldReconnect)
	assert.Greater(t, opts.ReconnectInterval, time.Duration(0))
	assert.NotNil(t, opts.Logger)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.INFO, parseLogLevel("unknown"))
	assert.Equal(t, parseLogLevel("WARN"), parseLogLevel("warning"))
	assert.Equal(t, logger.DEBUG, parseLogLevel("debug"))
	assert.NotEqual(t, parseLogLevel("debug"), parseLogLevel("error"))
}

func TestLogOutput(t *testing.T) {
	assert.Same(t, os.Stderr, logOutput(&logging.Logging{Output: logger.OutputStderr}))
	assert.Same(t, os.Stdout, logOutput(&logging.Logging{Output: logger.OutputFile}), "缺少路径时退回标准输出")
	assert.Same(t, os.Stdout, logOutput(&logging.Logging{Output: logger.OutputRotate}))
	assert.NotNil(t, logOutput(&logging.Logging{Output: logger.OutputConsole}))
}
