package model

import "time"

// DailyStat 每日访问统计，由定时任务从 Redis 同步
type DailyStat struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	LinkID    string    `gorm:"size:16;index" json:"linkId"`
	Date      string    `gorm:"type:date;index" json:"date"` // YYYY-MM-DD
	Visits    int64     `gorm:"default:0" json:"visits"`
	UpdatedAt time.Time `json:"-"`
}

func (DailyStat) TableName() string {
	return "daily_stats"
}
