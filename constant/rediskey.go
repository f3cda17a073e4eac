package constant

import (
	"fmt"
	"time"
)

// 常量定义
const (
	SessionPrefix = "session:"
	VisitsPrefix  = "visits:"
	Separator     = ":"
)

// Redis 键模板
const (
	Session     = SessionPrefix + "%s"                     // session:<sessionId>
	DailyVisits = VisitsPrefix + "daily" + Separator + "%s" // visits:daily:yyyyMMdd
)

// GetSessionKey 生成会话 key
func GetSessionKey(sessionID string) string {
	return fmt.Sprintf(Session, sessionID)
}

// GetDateKey 生成当前日期的键（格式：yyyyMMdd）
func GetDateKey() string {
	return time.Now().Format("20060102")
}

// GetDailyVisitsKey 生成每日访问量哈希键（格式：visits:daily:yyyyMMdd）
func GetDailyVisitsKey(date string) string {
	return fmt.Sprintf(DailyVisits, date)
}
