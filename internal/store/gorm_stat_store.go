package store

import (
	"context"

	"gorm.io/gorm"
	"shortlink-accounts/internal/model"
)

// GormStatStore 基于 GORM 的 StatStore 实现
type GormStatStore struct {
	db *gorm.DB
}

func NewGormStatStore(db *gorm.DB) *GormStatStore {
	return &GormStatStore{db: db}
}

func (s *GormStatStore) UpsertDaily(ctx context.Context, linkID, date string, visits int64) error {
	stat := &model.DailyStat{
		LinkID: linkID,
		Date:   date,
		Visits: visits,
	}
	return s.db.WithContext(ctx).
		Where("link_id = ? AND date = ?", linkID, date).
		Assign("visits", visits).
		FirstOrCreate(stat).Error
}

func (s *GormStatStore) ListByLink(ctx context.Context, linkID string) ([]model.DailyStat, error) {
	var stats []model.DailyStat
	err := s.db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Order("date DESC").
		Find(&stats).Error
	return stats, err
}
