/**
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-14 09:08:55
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-14 11:08:55
 * @FilePath: \go-wsm\repository\constants.go
 * @Description: Repository 层常量定义 - 统一管理 Redis key 前缀
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import "time"

const (
	// DefaultStatusKeyPrefix 实时状态默认 key 前缀
	DefaultStatusKeyPrefix = "wsm:status:"

	// DefaultStatusTTL 实时状态默认过期时间
	DefaultStatusTTL = 5 * time.Minute
)
