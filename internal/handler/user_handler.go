package handler

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"shortlink-accounts/internal/apperrors"
	"shortlink-accounts/internal/dto"
	"shortlink-accounts/internal/service"
	"shortlink-accounts/internal/session"
	"shortlink-accounts/response"
)

// UserHandler 账户相关接口
type UserHandler struct {
	users    *service.UserService
	sessions *session.Manager
}

func NewUserHandler(users *service.UserService, sessions *session.Manager) *UserHandler {
	return &UserHandler{
		users:    users,
		sessions: sessions,
	}
}

// Register 注册账户（POST /api/users）
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 检查错误是否为 ValidationErrors 类型
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrs {
				// 通过反射获取字段的 msg 标签值
				field, ok := reflect.TypeOf(req).FieldByName(e.Field())
				if !ok {
					_ = c.Error(apperrors.InvalidRequestErrorDefault())
					return
				}

				customMsg := field.Tag.Get("msg")
				if customMsg != "" {
					_ = c.Error(apperrors.InvalidRequestError(customMsg))
					return
				}
			}
		}
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		zap.L().Warn("User registration failed",
			zap.Error(err),
			zap.String("username", req.Username),
		)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// Login 登录并建立会话（POST /api/login）
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Warn("Request body binding failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	user, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	// 建立新会话前清除旧会话
	if err := h.sessions.Establish(c, session.Identity{
		UserID:   user.UserID,
		Username: user.Username,
		IsPro:    user.IsPro,
		IsAdmin:  user.IsAdmin,
	}); err != nil {
		zap.L().Error("Failed to establish session",
			zap.String("user_id", user.UserID),
			zap.Error(err))
		_ = c.Error(apperrors.StoreError("Failed to establish session", err))
		return
	}

	c.JSON(http.StatusOK, response.OK("", "Login successful"))
}
