package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"shortlink-accounts/internal/model"
	"shortlink-accounts/pkg/password"
)

// GormUserStore 基于 GORM 的 UserStore 实现。
// 密码哈希只在本类型内部可见，对外返回前一律清除。
type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *GormUserStore) GetByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Preload("Links").
		Where("user_id = ?", userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return &user, nil
}

func (s *GormUserStore) Create(ctx context.Context, username, passwordHash string) (*model.User, error) {
	// 先查重，冲突是常态路径；唯一索引兜底并发竞争
	if _, err := s.findByUsername(ctx, username); err == nil {
		return nil, ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	user := model.User{
		UserID:       uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		IsAdmin:      false,
		IsPro:        false,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	user.PasswordHash = ""
	return &user, nil
}

func (s *GormUserStore) VerifyCredentials(ctx context.Context, username, plaintext string) (*model.User, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(plaintext, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}

// findByUsername 内部查询，保留密码哈希
func (s *GormUserStore) findByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Preload("Links").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
