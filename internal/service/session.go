package service

// SessionUser 已登录用户身份
type SessionUser struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	AccountType string `json:"account_type,omitempty"`
}

// Session 单次请求的登录状态，由鉴权中间件构建后显式传入各服务
// 零值即 LoggedOut
type Session struct {
	user *SessionUser
}

// LoggedOut 未登录会话
func LoggedOut() *Session {
	return &Session{}
}

// LoggedIn 已登录会话
func LoggedIn(user SessionUser) *Session {
	if user.ID == 0 {
		return LoggedOut()
	}
	return &Session{user: &user}
}

// IsLoggedIn 是否已登录；nil 会话视为未登录
func (s *Session) IsLoggedIn() bool {
	return s != nil && s.user != nil
}

// User 返回当前用户；未登录返回 nil
func (s *Session) User() *SessionUser {
	if !s.IsLoggedIn() {
		return nil
	}
	u := *s.user
	return &u
}

// UserID 当前用户 ID，未登录为 0
func (s *Session) UserID() uint {
	if !s.IsLoggedIn() {
		return 0
	}
	return s.user.ID
}
