package shared

import (
	"github.com/gobox-app/internal/http/response"
	"github.com/gobox-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionKey gin 上下文中保存会话的键
const SessionKey = "session"

// SetSession 由鉴权中间件写入本次请求的会话
func SetSession(c *gin.Context, session *service.Session) {
	if session == nil {
		session = service.LoggedOut()
	}
	c.Set(SessionKey, session)
	if session.IsLoggedIn() {
		c.Set("user_id", session.UserID())
	}
}

// GetSession 读取会话；未经过鉴权中间件时视为未登录
func GetSession(c *gin.Context) *service.Session {
	if value, ok := c.Get(SessionKey); ok {
		if session, ok := value.(*service.Session); ok && session != nil {
			return session
		}
	}
	return service.LoggedOut()
}

// RequireSession 读取已登录会话，未登录时直接写 401 响应
func RequireSession(c *gin.Context) (*service.Session, bool) {
	session := GetSession(c)
	if !session.IsLoggedIn() {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return nil, false
	}
	return session, true
}
