package session

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gomodule/redigo/redis"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"shortlink-accounts/constant"
)

// ContextKey 会话在 gin.Context 中的键
const ContextKey = "session"

// Identity 会话中记录的用户身份
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsPro    bool   `json:"isPro"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Session 单次请求可见的会话状态
type Session struct {
	ID            string
	Authenticated bool
	Identity      Identity
}

// sessionData Redis 中存储的会话载荷
type sessionData struct {
	Identity
	IsLoggedIn bool `json:"isLoggedIn"`
}

// Manager 基于 Redis 的会话管理器。Cookie 只携带不透明的会话 ID，
// 身份数据保存在服务端，过期由 Redis TTL 控制。
type Manager struct {
	pool       *redis.Pool
	cookieName string
	ttl        time.Duration
}

func NewManager(pool *redis.Pool, cookieName string, ttl time.Duration) *Manager {
	return &Manager{
		pool:       pool,
		cookieName: cookieName,
		ttl:        ttl,
	}
}

// Load 读取当前请求的会话。无 cookie、会话过期或数据损坏时返回未认证会话。
func (m *Manager) Load(c *gin.Context) *Session {
	sessionID, err := c.Cookie(m.cookieName)
	if err != nil || sessionID == "" {
		return &Session{}
	}

	conn := m.pool.Get()
	defer closeConn(conn)

	raw, err := redis.Bytes(conn.Do("GET", constant.GetSessionKey(sessionID)))
	if err != nil {
		if err != redis.ErrNil {
			zap.L().Warn("Failed to load session from Redis",
				zap.String("session_id", sessionID),
				zap.Error(err))
		}
		return &Session{}
	}

	var data sessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		zap.L().Warn("Failed to unmarshal session payload",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return &Session{}
	}

	return &Session{
		ID:            sessionID,
		Authenticated: data.IsLoggedIn,
		Identity:      data.Identity,
	}
}

// Establish 先清除旧会话，再以新 ID 建立已认证会话并下发 cookie
func (m *Manager) Establish(c *gin.Context, identity Identity) error {
	conn := m.pool.Get()
	defer closeConn(conn)

	// 清除请求携带的旧会话
	if oldID, err := c.Cookie(m.cookieName); err == nil && oldID != "" {
		if _, delErr := conn.Do("DEL", constant.GetSessionKey(oldID)); delErr != nil {
			zap.L().Warn("Failed to delete previous session",
				zap.String("session_id", oldID),
				zap.Error(delErr))
		}
	}

	sessionID := uuid.NewString()
	payload, err := json.Marshal(sessionData{
		Identity:   identity,
		IsLoggedIn: true,
	})
	if err != nil {
		return err
	}

	seconds := int(m.ttl.Seconds())
	if _, err := conn.Do("SET", constant.GetSessionKey(sessionID), payload, "EX", seconds); err != nil {
		return err
	}

	c.SetCookie(m.cookieName, sessionID, seconds, "/", "", false, true)
	return nil
}

// Clear 删除服务端会话并让 cookie 立即过期
func (m *Manager) Clear(c *gin.Context) error {
	sessionID, err := c.Cookie(m.cookieName)
	if err != nil || sessionID == "" {
		return nil
	}

	conn := m.pool.Get()
	defer closeConn(conn)

	if _, err := conn.Do("DEL", constant.GetSessionKey(sessionID)); err != nil {
		return err
	}

	c.SetCookie(m.cookieName, "", -1, "/", "", false, true)
	return nil
}

// FromContext 取出中间件附加的会话，未附加时返回未认证会话
func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(ContextKey); ok {
		if sess, ok := v.(*Session); ok {
			return sess
		}
	}
	return &Session{}
}

func closeConn(conn redis.Conn) {
	if err := conn.Close(); err != nil {
		zap.L().Error("Failed to close Redis connection",
			zap.Error(err),
			zap.String("operation", "close"),
			zap.String("connection_type", "redis"),
		)
	}
}
