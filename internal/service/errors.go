package service

import "errors"

// 通用错误
var (
	ErrNotFound = errors.New("not found")
	// ErrMissingInput 未登录或缺少草稿
	ErrMissingInput = errors.New("missing input")
	// ErrRemoteOperation 外部存储调用失败，调用方可手动重试
	ErrRemoteOperation = errors.New("remote operation failed")
)

// 取件单错误
var (
	ErrDraftInvalid           = errors.New("delivery draft invalid")
	ErrSubmissionInFlight     = errors.New("submission already in flight")
	ErrDeliveryStatusEmpty    = errors.New("delivery status empty")
	ErrDeliveryRequestNoEmpty = errors.New("delivery request number empty")
)

// 认证错误
var (
	ErrInvalidEmail         = errors.New("invalid email")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailExists          = errors.New("email already exists")
	ErrWeakPassword         = errors.New("weak password")
	ErrUserDisabled         = errors.New("user disabled")
	ErrInvalidAccountType   = errors.New("invalid account type")
	ErrOAuthDisabled        = errors.New("oauth provider disabled")
	ErrOAuthTokenInvalid    = errors.New("oauth id token invalid")
	ErrOAuthEmailMissing    = errors.New("oauth email missing")
	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")
	ErrTokenInvalid         = errors.New("token invalid")
)
