package public

import "github.com/gobox-app/internal/provider"

// Handler 学生端接口：登录注册、提交取件单、查看进度与登录记录
type Handler struct {
	*provider.Container
}

// New 由容器构造，路由层按会话中间件分组挂载
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
