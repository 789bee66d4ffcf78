/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-14 09:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-14 09:56:18
 * @FilePath: \go-wsm\repository\aliases.go
 * @Description: 类型别名 - 为 models 包中的类型创建别名，便于在 repository 层使用
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import "github.com/kamalyes/go-wsm/models"

type (
	// ConnectionRecord 连接记录
	ConnectionRecord = models.ConnectionRecord

	// StatusRecord 实时状态记录
	StatusRecord = models.StatusRecord
)
