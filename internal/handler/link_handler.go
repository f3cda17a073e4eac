package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"shortlink-accounts/internal/apperrors"
	"shortlink-accounts/internal/dto"
	"shortlink-accounts/internal/service"
	"shortlink-accounts/internal/session"
	"shortlink-accounts/pkg/utils"
)

// LinkHandler 短链相关接口
type LinkHandler struct {
	links *service.LinkService
}

func NewLinkHandler(links *service.LinkService) *LinkHandler {
	return &LinkHandler{links: links}
}

// Create 创建短链（POST /api/links）
func (h *LinkHandler) Create(c *gin.Context) {
	var req dto.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Warn("Request body binding failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	if err := req.Validate(); err != nil {
		_ = c.Error(apperrors.InvalidRequestError(err.Error()))
		return
	}

	sess := session.FromContext(c)
	link, err := h.links.CreateLink(c.Request.Context(), sess, req.OriginalURL)
	if err != nil {
		zap.L().Warn("Link creation failed",
			zap.Error(err),
			zap.String("user_id", sess.Identity.UserID),
		)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, link)
}

// Redirect 短链跳转（GET /:linkId，经由 NoRoute 注册，
// 避免根路径通配符与 /api 路由组冲突）
func (h *LinkHandler) Redirect(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.Status(http.StatusNotFound)
		return
	}

	linkID := strings.TrimPrefix(c.Request.URL.Path, "/")
	if err := utils.ValidateLinkID(linkID); err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	link, err := h.links.Resolve(c.Request.Context(), linkID)
	if err != nil {
		var appErr *apperrors.AppError
		status := http.StatusNotFound
		if errors.As(err, &appErr) {
			status = appErr.Code
		}
		c.Status(status)
		return
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Redirect(http.StatusFound, link.OriginalURL)
}

// List 查询目标用户的短链列表（GET /api/users/:targetUserId/links）
func (h *LinkHandler) List(c *gin.Context) {
	targetUserID := c.Param("targetUserId")

	sess := session.FromContext(c)
	views, err := h.links.ListLinks(c.Request.Context(), sess, targetUserID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// Delete 删除短链（DELETE /api/users/:targetUserId/links/:targetLinkId）
func (h *LinkHandler) Delete(c *gin.Context) {
	targetUserID := c.Param("targetUserId")
	targetLinkID := c.Param("targetLinkId")

	sess := session.FromContext(c)
	if err := h.links.DeleteLink(c.Request.Context(), sess, targetUserID, targetLinkID); err != nil {
		zap.L().Warn("Link deletion failed",
			zap.Error(err),
			zap.String("link_id", targetLinkID),
			zap.String("target_user_id", targetUserID),
		)
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusOK)
}

// Stats 查询短链每日访问统计（GET /api/links/:linkId/stats）
func (h *LinkHandler) Stats(c *gin.Context) {
	linkID := c.Param("linkId")

	sess := session.FromContext(c)
	stats, err := h.links.LinkStats(c.Request.Context(), sess, linkID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
