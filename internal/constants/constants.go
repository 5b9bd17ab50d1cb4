package constants

// 取件单状态常量（状态为开放字符串，以下为已知取值）
const (
	DeliveryStatusConfirmed        = "Confirmed"
	DeliveryStatusAgentAssigned    = "Agent Assigned"
	DeliveryStatusPickedUp         = "Picked Up"
	DeliveryStatusInTransit        = "In Transit"
	DeliveryStatusArrivingAtSchool = "Arriving at School"
	DeliveryStatusDelivered        = "Delivered"
)

// 箱型常量
const (
	BoxTypeBooks   = "Books"
	BoxTypeLunch   = "Lunch"
	BoxTypeFullBag = "Full Bag"
)

// SchoolOther 选择后需填写自定义学校名称
const SchoolOther = "Other"

// 计价总额模式
const (
	PricingTotalModeFixed    = "fixed"
	PricingTotalModeItemized = "itemized"
)

// 追踪里程碑模式
const (
	MilestoneModeStatus = "status"
	MilestoneModeStatic = "static"
)

// 里程碑节点状态
const (
	MilestoneCompleted = "completed"
	MilestoneCurrent   = "current"
	MilestonePending   = "pending"
)

// 追踪视图结果
const (
	TrackingStateEmpty   = "empty"
	TrackingStatePresent = "present"
)

// 提示严重级别
const (
	NoticeSeverityNormal      = "normal"
	NoticeSeverityDestructive = "destructive"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 账号类型（注册时选择）
const (
	AccountTypeStudent = "student"
	AccountTypeAgent   = "agent"
)

// 第三方登录提供方常量
const (
	UserOAuthProviderGoogle = "google"
	UserOAuthProviderApple  = "apple"
)

// 登录日志状态常量
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"
)

// 登录日志失败原因常量
const (
	LoginLogFailReasonBadRequest         = "bad_request"
	LoginLogFailReasonCaptchaRequired    = "captcha_required"
	LoginLogFailReasonCaptchaInvalid     = "captcha_invalid"
	LoginLogFailReasonInvalidEmail       = "invalid_email"
	LoginLogFailReasonInvalidCredentials = "invalid_credentials"
	LoginLogFailReasonUserDisabled       = "user_disabled"
	LoginLogFailReasonOAuthInvalid       = "oauth_invalid"
	LoginLogFailReasonOAuthDisabled      = "oauth_disabled"
	LoginLogFailReasonInternalError      = "internal_error"
)

// 登录日志来源常量
const (
	LoginLogSourceWeb    = "web"
	LoginLogSourceGoogle = "google"
	LoginLogSourceApple  = "apple"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneLogin  = "login"
	CaptchaSceneSignup = "signup"
)

// 前端路由名称
const (
	RouteHome             = "/"
	RouteRequestDelivery  = "/request-delivery"
	RouteAgentDashboard   = "/agent-dashboard"
	RouteDeliveryPricing  = "/delivery-pricing"
	RouteDeliveryTracking = "/delivery-tracking"
	RouteLogin            = "/login"
	RouteSignup           = "/signup"
	RouteContact          = "/contact"
	RouteNotFound         = "*"
)

// 路由访问主体
const (
	RoleGuest  = "role:guest"
	RoleMember = "role:member"
)

// 异步任务类型
const (
	TaskDeliveryRequestCreated = "delivery:request_created"
)

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)
