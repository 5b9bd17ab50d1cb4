package public

import handlershared "github.com/gobox-app/internal/http/handlers/shared"

// CaptchaPayloadRequest 验证码请求载荷
// image: captcha_id + captcha_code；未启用的场景允许空载荷，由 service 层判定是否必填
type CaptchaPayloadRequest = handlershared.CaptchaPayloadRequest
