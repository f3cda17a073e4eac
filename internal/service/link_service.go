package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"shortlink-accounts/internal/apperrors"
	"shortlink-accounts/internal/dto"
	i18n "shortlink-accounts/internal/i18n"
	"shortlink-accounts/internal/model"
	"shortlink-accounts/internal/session"
	"shortlink-accounts/internal/store"
	"shortlink-accounts/pkg/hashid"
)

// LinkQuota 普通账户可创建的短链上限
const LinkQuota = 5

// VisitCounter 跳转成功后记录每日访问量，尽力而为
type VisitCounter interface {
	RecordDailyVisit(linkID string)
}

// LinkService 短链的授权与配额决策逻辑。
// 不持有任何请求间状态，会话和存储均由外部注入。
type LinkService struct {
	links  store.LinkStore
	users  store.UserStore
	stats  store.StatStore
	visits VisitCounter
}

func NewLinkService(links store.LinkStore, users store.UserStore, stats store.StatStore, visits VisitCounter) *LinkService {
	return &LinkService{
		links:  links,
		users:  users,
		stats:  stats,
		visits: visits,
	}
}

// CreateLink 为当前会话用户创建短链
func (s *LinkService) CreateLink(ctx context.Context, sess *session.Session, originalURL string) (*model.Link, error) {
	if !sess.Authenticated {
		return nil, apperrors.UnauthorizedError()
	}

	user, err := s.users.GetByID(ctx, sess.Identity.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundError("User not found")
		}
		zap.L().Error("Failed to load user for link creation",
			zap.String("user_id", sess.Identity.UserID),
			zap.Error(err))
		return nil, apperrors.StoreError("Failed to load user", err)
	}

	// 配额豁免要求 admin 与 pro 同时为真，二者缺一不可
	if !(user.IsAdmin && user.IsPro) {
		if len(user.Links) >= LinkQuota {
			return nil, apperrors.QuotaExceededError(i18n.T(ctx, "error.quota_reached", nil))
		}
	}

	linkID := hashid.Derive(originalURL, user.UserID)

	link, err := s.links.Create(ctx, originalURL, linkID, user)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// 同一用户重复提交同一 URL 必然撞键，不做静默重试
			return nil, apperrors.ConflictError("Link already exists")
		}
		zap.L().Error("Failed to create link",
			zap.String("link_id", linkID),
			zap.String("user_id", user.UserID),
			zap.Error(err))
		return nil, apperrors.StoreError("Failed to create link", err)
	}

	return link, nil
}

// Resolve 解析短链并记录一次访问，无需登录
func (s *LinkService) Resolve(ctx context.Context, linkID string) (*model.Link, error) {
	link, err := s.links.RecordVisit(ctx, linkID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundError(i18n.T(ctx, "error.link_not_found", nil))
		}
		zap.L().Error("Failed to record link visit",
			zap.String("link_id", linkID),
			zap.Error(err))
		return nil, apperrors.StoreError("Failed to resolve link", err)
	}

	if s.visits != nil {
		s.visits.RecordDailyVisit(linkID)
	}

	return link, nil
}

// ListLinks 列出目标用户的短链。本人视角返回完整投影，
// 其他视角返回隐藏访问统计的投影。没有任何短链时返回 NotFound。
func (s *LinkService) ListLinks(ctx context.Context, sess *session.Session, targetUserID string) ([]dto.LinkView, error) {
	viewerIsOwner := sess.Authenticated && sess.Identity.UserID == targetUserID

	views, err := s.links.ListByOwner(ctx, targetUserID, viewerIsOwner)
	if err != nil {
		zap.L().Error("Failed to list links",
			zap.String("target_user_id", targetUserID),
			zap.Error(err))
		return nil, apperrors.StoreError("Failed to list links", err)
	}

	if len(views) == 0 {
		return nil, apperrors.NotFoundError(i18n.T(ctx, "error.no_links", map[string]interface{}{"UserId": targetUserID}))
	}

	return views, nil
}

// DeleteLink 删除短链，要求会话用户是目标用户本人或管理员
func (s *LinkService) DeleteLink(ctx context.Context, sess *session.Session, targetUserID, linkID string) error {
	if !sess.Authenticated {
		return apperrors.UnauthorizedError()
	}

	if sess.Identity.UserID != targetUserID && !sess.Identity.IsAdmin {
		return apperrors.ForbiddenError("Not allowed to delete links for this user")
	}

	// 删除前确认短链存在
	if _, err := s.links.GetByID(ctx, linkID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFoundError("Link not found")
		}
		zap.L().Error("Failed to load link before deletion",
			zap.String("link_id", linkID),
			zap.Error(err))
		return apperrors.StoreError("Failed to load link", err)
	}

	if err := s.links.DeleteByID(ctx, linkID); err != nil {
		zap.L().Error("Failed to delete link",
			zap.String("link_id", linkID),
			zap.Error(err))
		return apperrors.StoreError("Failed to delete link", err)
	}

	return nil
}

// LinkStats 返回短链的每日访问统计，仅所有者或管理员可见
func (s *LinkService) LinkStats(ctx context.Context, sess *session.Session, linkID string) ([]model.DailyStat, error) {
	if !sess.Authenticated {
		return nil, apperrors.UnauthorizedError()
	}

	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundError("Link not found")
		}
		return nil, apperrors.StoreError("Failed to load link", err)
	}

	if link.UserID != sess.Identity.UserID && !sess.Identity.IsAdmin {
		return nil, apperrors.ForbiddenError("Not allowed to view stats for this link")
	}

	stats, err := s.stats.ListByLink(ctx, linkID)
	if err != nil {
		zap.L().Error("Failed to load daily stats",
			zap.String("link_id", linkID),
			zap.Error(err))
		return nil, apperrors.StoreError("Failed to load stats", err)
	}

	return stats, nil
}
