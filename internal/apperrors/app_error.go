package apperrors

import (
	"net/http"
)

// 错误类别，每个类别对应唯一的 HTTP 状态码
const (
	KindUnauthorized  = "UNAUTHORIZED"
	KindForbidden     = "FORBIDDEN"
	KindNotFound      = "NOT_FOUND"
	KindConflict      = "CONFLICT"
	KindQuotaExceeded = "QUOTA_EXCEEDED"
	KindInvalidInput  = "INVALID_INPUT"
	KindStoreFailure  = "STORE_FAILURE"
)

// AppError 自定义错误类型
type AppError struct {
	Code    int
	Kind    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithKind 创建通用业务错误
func WithKind(code int, kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// UnauthorizedError 未登录或会话失效
func UnauthorizedError() *AppError {
	return WithKind(http.StatusUnauthorized, KindUnauthorized, "Authentication required")
}

// ForbiddenError 已登录但无权限
func ForbiddenError(message string) *AppError {
	return WithKind(http.StatusForbidden, KindForbidden, message)
}

// NotFoundError 资源不存在
func NotFoundError(message string) *AppError {
	return WithKind(http.StatusNotFound, KindNotFound, message)
}

// ConflictError 唯一约束冲突
func ConflictError(message string) *AppError {
	return WithKind(http.StatusConflict, KindConflict, message)
}

// QuotaExceededError 短链创建数量超限
func QuotaExceededError(message string) *AppError {
	return WithKind(http.StatusForbidden, KindQuotaExceeded, message)
}

// InvalidRequestError 封装参数校验错误
func InvalidRequestError(message string) *AppError {
	return WithKind(http.StatusBadRequest, KindInvalidInput, message)
}

// InvalidRequestErrorDefault 默认参数校验错误
func InvalidRequestErrorDefault() *AppError {
	return WithKind(http.StatusBadRequest, KindInvalidInput, "Parameter verification failed")
}

// StoreError 封装底层存储错误，原始错误保留在 Cause 中，不对外暴露
func StoreError(message string, cause error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindStoreFailure,
		Message: message,
		Cause:   cause,
	}
}
