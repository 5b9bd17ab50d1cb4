package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 业务状态码，与 HTTP 状态码数值对齐便于客户端统一处理
const (
	CodeOK              = 0
	CodeBadRequest      = 400 // 参数错误、取件单状态不允许
	CodeUnauthorized    = 401 // 未登录或会话已失效
	CodeNotFound        = 404 // 取件单或路由不存在
	CodeTooManyRequests = 429 // 登录、提交限流
	CodeInternal        = 500
)

// RequestIDKey 请求 ID 在 gin 上下文中的 key，错误响应会带上
const RequestIDKey = "request_id"

// Response 统一响应结构，HTTP 状态码恒为 200，业务状态看 status_code
type Response struct {
	StatusCode int         `json:"status_code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	Response
	Pagination Pagination `json:"pagination"`
}

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// Notice 一次性提示（标题 + 描述 + 级别），客户端以 toast 展示
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"` // constants.NoticeSeverity*
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{StatusCode: CodeOK, Msg: "success", Data: data})
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, PageResponse{
		Response:   Response{StatusCode: CodeOK, Msg: "success", Data: data},
		Pagination: pagination,
	})
}

// SuccessWithNotice 成功响应，msg 取提示标题，data 为 {notice, result}
func SuccessWithNotice(c *gin.Context, notice Notice, result interface{}) {
	c.JSON(http.StatusOK, Response{
		StatusCode: CodeOK,
		Msg:        notice.Title,
		Data:       gin.H{"notice": notice, "result": result},
	})
}

// Error 错误响应
func Error(c *gin.Context, statusCode int, msg string) {
	writeError(c, statusCode, msg, nil)
}

// ErrorWithNotice 错误响应，msg 取提示描述；extra 合并进 data
func ErrorWithNotice(c *gin.Context, statusCode int, notice Notice, extra gin.H) {
	data := gin.H{"notice": notice}
	for key, value := range extra {
		data[key] = value
	}
	writeError(c, statusCode, notice.Description, data)
}

// Unauthorized 401 响应
func Unauthorized(c *gin.Context, msg string) {
	writeError(c, CodeUnauthorized, msg, nil)
}

// NotFound 404 响应，extra 用于告知客户端应渲染的兜底路由
func NotFound(c *gin.Context, msg string, extra gin.H) {
	writeError(c, CodeNotFound, msg, extra)
}

func writeError(c *gin.Context, statusCode int, msg string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if id := c.GetString(RequestIDKey); id != "" {
		if _, ok := data[RequestIDKey]; !ok {
			data[RequestIDKey] = id
		}
	}
	c.JSON(http.StatusOK, Response{StatusCode: statusCode, Msg: msg, Data: data})
}
