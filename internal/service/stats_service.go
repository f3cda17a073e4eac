package service

import (
	"context"
	"time"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
	"shortlink-accounts/constant"
	"shortlink-accounts/internal/store"
)

// StatsService 在 Redis 中累计每日访问量，由定时任务批量落库
type StatsService struct {
	pool  *redis.Pool
	stats store.StatStore
}

func NewStatsService(pool *redis.Pool, stats store.StatStore) *StatsService {
	return &StatsService{
		pool:  pool,
		stats: stats,
	}
}

// RecordDailyVisit 记录一次当日访问，失败只记日志不影响跳转
func (s *StatsService) RecordDailyVisit(linkID string) {
	dailyKey := constant.GetDailyVisitsKey(constant.GetDateKey())

	conn := s.pool.Get()
	defer func() {
		if err := conn.Close(); err != nil {
			zap.L().Error("Failed to close Redis connection",
				zap.Error(err),
				zap.String("operation", "close"),
				zap.String("connection_type", "redis"),
			)
		}
	}()

	_, err := conn.Do("HINCRBY", dailyKey, linkID, 1)
	if err != nil {
		zap.L().Error("Failed to record daily visit",
			zap.String("key", dailyKey),
			zap.String("link_id", linkID),
			zap.Error(err))
		return
	}

	_, err = conn.Do("EXPIRE", dailyKey, 3*24*3600) // 3天过期
	if err != nil {
		zap.L().Error("Failed to set daily visit key expiry",
			zap.String("key", dailyKey),
			zap.String("link_id", linkID),
			zap.Error(err))
	}
}

// FlushDailyVisits 将今天和昨天的 Redis 访问计数同步到 daily_stats 表。
// 带上昨天是为了补齐最后一次同步之后、跨日之前的访问。
func (s *StatsService) FlushDailyVisits(ctx context.Context) error {
	zap.L().Info("FlushDailyVisits start")

	now := time.Now()
	days := []time.Time{now, now.AddDate(0, 0, -1)}

	conn := s.pool.Get()
	defer func() {
		if err := conn.Close(); err != nil {
			zap.L().Error("Failed to close Redis connection",
				zap.Error(err),
				zap.String("operation", "close"),
				zap.String("connection_type", "redis"),
			)
		}
	}()

	for _, day := range days {
		dailyKey := constant.GetDailyVisitsKey(day.Format("20060102"))
		date := day.Format("2006-01-02")

		counts, err := redis.Int64Map(conn.Do("HGETALL", dailyKey))
		if err != nil {
			if err == redis.ErrNil {
				continue
			}
			zap.L().Error("Failed to read daily visit counts",
				zap.String("key", dailyKey),
				zap.Error(err))
			return err
		}

		for linkID, visits := range counts {
			if err := s.stats.UpsertDaily(ctx, linkID, date, visits); err != nil {
				zap.L().Error("Failed to upsert daily stat",
					zap.String("link_id", linkID),
					zap.String("date", date),
					zap.Int64("visits", visits),
					zap.Error(err))
			}
		}
	}

	zap.L().Info("FlushDailyVisits end")
	return nil
}
