package dto

import "shortlink-accounts/internal/model"

// RegisterRequest 注册请求参数
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64" msg:"username must be 3-64 characters"`
	Password string `json:"password" binding:"required,min=8" msg:"password must be at least 8 characters"`
}

// LoginRequest 登录请求参数
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse 注册成功的响应，不包含密码哈希
type UserResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	IsPro    bool   `json:"isPro"`
}

// NewUserResponse 从模型构造响应
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		UserID:   u.UserID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
		IsPro:    u.IsPro,
	}
}
