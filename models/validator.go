/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-12 10:20:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-15 09:12:31
 * @FilePath: \go-wsm\models\validator.go
 * @Description: 枚举验证器
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import "github.com/kamalyes/go-toolbox/pkg/types"

var (
	// ConnectionStatusValidator 连接状态验证器
	ConnectionStatusValidator = types.NewEnumValidator(
		ConnectionStatusConnecting,
		ConnectionStatusOpen,
		ConnectionStatusClosing,
		ConnectionStatusClosed,
	)

	// MessageTypeValidator 消息类型验证器
	MessageTypeValidator = types.NewEnumValidator(
		MessageTypeText,
		MessageTypeBinary,
	)
)
