package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"shortlink-accounts/internal/apperrors"
	i18n "shortlink-accounts/internal/i18n"
	"shortlink-accounts/internal/model"
	"shortlink-accounts/internal/store"
	"shortlink-accounts/pkg/password"
)

// UserService 账户注册与登录校验
type UserService struct {
	users store.UserStore
}

func NewUserService(users store.UserStore) *UserService {
	return &UserService{users: users}
}

// Register 注册新用户，用户名重复时返回 Conflict
func (s *UserService) Register(ctx context.Context, username, plaintext string) (*model.User, error) {
	hash, err := password.Hash(plaintext)
	if err != nil {
		zap.L().Error("Failed to hash password", zap.Error(err))
		return nil, apperrors.StoreError("Failed to register user", err)
	}

	user, err := s.users.Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.ConflictError(i18n.T(ctx, "error.username_taken", nil))
		}
		zap.L().Error("Failed to create user",
			zap.String("username", username),
			zap.Error(err))
		return nil, apperrors.StoreError("Failed to register user", err)
	}

	return user, nil
}

// Login 校验用户名密码。用户不存在和密码错误对外不作区分。
func (s *UserService) Login(ctx context.Context, username, plaintext string) (*model.User, error) {
	user, err := s.users.VerifyCredentials(ctx, username, plaintext)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			return nil, apperrors.ForbiddenError("Invalid username or password")
		}
		zap.L().Error("Failed to verify credentials",
			zap.String("username", username),
			zap.Error(err))
		return nil, apperrors.StoreError("Failed to log in", err)
	}

	return user, nil
}
