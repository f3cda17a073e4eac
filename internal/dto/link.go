package dto

import (
	"time"

	"github.com/gin-gonic/gin"
	"shortlink-accounts/internal/model"
	"shortlink-accounts/pkg/utils"
)

// CreateLinkRequest 创建短链的请求参数
type CreateLinkRequest struct {
	OriginalURL string `json:"originalUrl" binding:"required,url"` // Gin 内置 URL 校验
}

// Validate 自定义验证逻辑，复用公共的 URL 校验
func (r *CreateLinkRequest) Validate() error {
	if err := utils.ValidateTargetURL(r.OriginalURL); err != nil {
		return gin.Error{
			Err:  err,
			Type: gin.ErrorTypeBind,
		}
	}
	return nil
}

// LinkOwnerView 链接列表中暴露的所有者信息。
// IsPro 仅在所有者本人查询时返回。
type LinkOwnerView struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsPro    *bool  `json:"isPro,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
}

// LinkView 链接列表投影。完整投影包含访问统计，
// 他人视角的投影隐藏 numHits 和 lastAccessedOn。
type LinkView struct {
	LinkID         string        `json:"linkId"`
	OriginalURL    string        `json:"originalUrl"`
	NumHits        *int64        `json:"numHits,omitempty"`
	LastAccessedOn *time.Time    `json:"lastAccessedOn,omitempty"`
	User           LinkOwnerView `json:"user"`
}

// NewLinkView 构造对外投影。非所有者视角隐藏访问统计和 isPro 标志。
func NewLinkView(link *model.Link, viewerIsOwner bool) LinkView {
	view := LinkView{
		LinkID:      link.LinkID,
		OriginalURL: link.OriginalURL,
	}
	if link.User != nil {
		view.User = LinkOwnerView{
			UserID:   link.User.UserID,
			Username: link.User.Username,
			IsAdmin:  link.User.IsAdmin,
		}
	}

	if viewerIsOwner {
		numHits := link.NumHits
		lastAccessed := link.LastAccessedOn
		view.NumHits = &numHits
		view.LastAccessedOn = &lastAccessed
		if link.User != nil {
			isPro := link.User.IsPro
			view.User.IsPro = &isPro
		}
	}
	return view
}
