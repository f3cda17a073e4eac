package store

import (
	"context"
	"errors"

	"shortlink-accounts/internal/dto"
	"shortlink-accounts/internal/model"
)

// 存储层哨兵错误，由服务层翻译为对外的错误类别
var (
	ErrNotFound           = errors.New("store: record not found")
	ErrDuplicate          = errors.New("store: duplicate key")
	ErrInvalidCredentials = errors.New("store: invalid credentials")
)

// LinkStore 短链持久化操作
type LinkStore interface {
	// GetByID 按 linkId 查询，所有者一并加载
	GetByID(ctx context.Context, linkID string) (*model.Link, error)
	// Create 插入新短链，numHits 为 0，lastAccessedOn 为当前时间。
	// linkId 已存在时返回 ErrDuplicate。
	Create(ctx context.Context, originalURL, linkID string, owner *model.User) (*model.Link, error)
	// RecordVisit 基于库中值原子地加一并刷新 lastAccessedOn，返回更新后的记录
	RecordVisit(ctx context.Context, linkID string) (*model.Link, error)
	// ListByOwner 列出某用户的短链。viewerIsOwner 为 true 时返回完整投影，
	// 否则返回隐藏访问统计的投影。
	ListByOwner(ctx context.Context, ownerID string, viewerIsOwner bool) ([]dto.LinkView, error)
	// DeleteByID 删除短链，记录不存在时静默成功
	DeleteByID(ctx context.Context, linkID string) error
}

// UserStore 用户账户持久化操作
type UserStore interface {
	// GetByUsername 按用户名查询，所属短链一并加载，密码哈希已清除
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// GetByID 按 userId 查询，所属短链一并加载，密码哈希已清除
	GetByID(ctx context.Context, userID string) (*model.User, error)
	// Create 创建用户，两个特权标志默认为 false。用户名已存在时返回 ErrDuplicate。
	Create(ctx context.Context, username, passwordHash string) (*model.User, error)
	// VerifyCredentials 校验用户名密码。用户不存在或密码不匹配统一返回
	// ErrInvalidCredentials，成功时返回已清除密码哈希的用户。
	VerifyCredentials(ctx context.Context, username, plaintext string) (*model.User, error)
}

// StatStore 每日访问统计持久化操作
type StatStore interface {
	// UpsertDaily 写入或覆盖某短链某日的访问量
	UpsertDaily(ctx context.Context, linkID, date string, visits int64) error
	// ListByLink 按日期倒序返回某短链的每日统计
	ListByLink(ctx context.Context, linkID string) ([]model.DailyStat, error)
}
