package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"shortlink-accounts/internal/dto"
	"shortlink-accounts/internal/model"
)

// GormLinkStore 基于 GORM 的 LinkStore 实现
type GormLinkStore struct {
	db *gorm.DB
}

func NewGormLinkStore(db *gorm.DB) *GormLinkStore {
	return &GormLinkStore{db: db}
}

func (s *GormLinkStore) GetByID(ctx context.Context, linkID string) (*model.Link, error) {
	var link model.Link
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("link_id = ?", linkID).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if link.User != nil {
		link.User.PasswordHash = ""
	}
	return &link, nil
}

func (s *GormLinkStore) Create(ctx context.Context, originalURL, linkID string, owner *model.User) (*model.Link, error) {
	link := model.Link{
		LinkID:         linkID,
		OriginalURL:    originalURL,
		NumHits:        0,
		LastAccessedOn: time.Now(),
		UserID:         owner.UserID,
	}

	// Omit 关联，避免 GORM 连带更新 users 表
	if err := s.db.WithContext(ctx).Omit("User").Create(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	// 响应里只带所有者的身份字段，不级联整份链接列表
	link.User = &model.User{
		UserID:   owner.UserID,
		Username: owner.Username,
		IsAdmin:  owner.IsAdmin,
		IsPro:    owner.IsPro,
	}
	return &link, nil
}

func (s *GormLinkStore) RecordVisit(ctx context.Context, linkID string) (*model.Link, error) {
	// 相对库中当前值自增，并发访问下不会丢失更新
	res := s.db.WithContext(ctx).
		Model(&model.Link{}).
		Where("link_id = ?", linkID).
		UpdateColumns(map[string]interface{}{
			"num_hits":         gorm.Expr("num_hits + ?", 1),
			"last_accessed_on": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.GetByID(ctx, linkID)
}

func (s *GormLinkStore) ListByOwner(ctx context.Context, ownerID string, viewerIsOwner bool) ([]dto.LinkView, error) {
	var links []model.Link
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", ownerID).
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	views := make([]dto.LinkView, 0, len(links))
	for i := range links {
		views = append(views, dto.NewLinkView(&links[i], viewerIsOwner))
	}
	return views, nil
}

func (s *GormLinkStore) DeleteByID(ctx context.Context, linkID string) error {
	return s.db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Delete(&model.Link{}).Error
}
