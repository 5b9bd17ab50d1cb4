package i18n

var messagesEN = map[string]string{
	"error.bad_request":                 "Invalid request parameters",
	"error.unauthorized":                "Please log in first",
	"error.forbidden":                   "You do not have access to this resource",
	"error.not_found":                   "Resource not found",
	"error.internal":                    "Internal server error",
	"error.too_many_requests":           "Too many attempts, please try again later",
	"error.token_invalid":               "Session expired, please log in again",
	"error.token_revoked":               "Session has been signed out, please log in again",
	"error.auth_header_invalid":         "Malformed authorization header",
	"error.rate_limit_unavailable":      "Rate limiting is temporarily unavailable",
	"error.login_too_many":              "Too many login attempts, please retry in %d seconds",
	"error.user_disabled":               "This account has been disabled",
	"error.user_not_found":              "User not found",
	"error.email_invalid":               "Please enter a valid email address",
	"error.email_exists":                "This email is already registered",
	"error.account_type_invalid":        "Unknown account type",
	"error.login_invalid":               "Incorrect email or password",
	"error.login_failed":                "Login failed",
	"error.signup_failed":               "Sign up failed",
	"error.logout_failed":               "Logout failed",
	"error.password_weak":               "Password is too weak",
	"error.password_min_length":         "Password must be at least %d characters",
	"error.password_require_upper":      "Password must contain an uppercase letter",
	"error.password_require_lower":      "Password must contain a lowercase letter",
	"error.password_require_number":     "Password must contain a number",
	"error.password_require_special":    "Password must contain a special character",
	"error.oauth_disabled":              "This sign-in method is not available",
	"error.oauth_token_invalid":         "Sign-in with the provider could not be verified",
	"error.oauth_email_missing":         "The provider did not share a verified email",
	"error.captcha_required":            "Please complete the captcha",
	"error.captcha_invalid":             "Captcha is incorrect",
	"error.captcha_config_invalid":      "Captcha is misconfigured",
	"error.captcha_unavailable":         "Captcha is not enabled",
	"error.captcha_generate_failed":     "Failed to generate captcha",
	"error.captcha_verify_failed":       "Failed to verify captcha",
	"error.delivery_draft_invalid":      "Please fix the highlighted fields",
	"error.delivery_submit_in_flight":   "Your request is already being submitted",
	"error.delivery_fetch_failed":       "Failed to load delivery requests",
	"error.tracking_fetch_failed":       "Failed to load delivery tracking",
	"error.route_resolve_failed":        "Failed to resolve route",
	"error.dashboard_fetch_failed":      "Failed to load dashboard",
	"error.user_login_log_fetch_failed": "Failed to load login history",

	"validation.invalid":               "Invalid value",
	"validation.full_name_min":         "Name must be at least 2 characters",
	"validation.phone_number_min":      "Phone number must be at least 10 digits",
	"validation.pickup_address_min":    "Pickup address must be at least 10 characters",
	"validation.school_required":       "Please select a school",
	"validation.other_school_required": "Please enter your school name",
	"validation.pickup_date_required":  "Please select a pickup date",
	"validation.pickup_date_past":      "Pickup date cannot be in the past",
	"validation.pickup_time_invalid":   "Please select a pickup time",
	"validation.box_type_required":     "Please select a box type",
	"validation.notes_too_long":        "Notes must be at most 1000 characters",

	"notice.request_submitted_title":       "Request Submitted!",
	"notice.request_submitted_description": "Your delivery request has been submitted successfully.",
	"notice.error_title":                   "Error",
	"notice.submit_failed_description":     "Failed to submit delivery request. Please try again.",
	"notice.missing_input_description":     "Please log in and complete the form before submitting.",
	"notice.logged_in_title":               "Welcome back!",
	"notice.signed_up_title":               "Account created!",
	"notice.logged_out_title":              "You have been logged out",

	"nav.home":             "Home",
	"nav.request_delivery": "Request Delivery",
	"nav.agent_dashboard":  "Agent Dashboard",
	"nav.contact":          "Contact/Help",
	"nav.login":            "Login",
	"nav.signup":           "Sign Up",
	"tracking.cta":         "Request a Delivery",

	"contact.title":       "Contact & Help",
	"contact.description": "Need help? Have questions? We're here to support you! Our friendly team is ready to assist.",
	"contact.phone":       "24/7 phone support",
	"contact.chat":        "Live chat assistance",
	"contact.email":       "Email support team",
	"contact.faq":         "Comprehensive FAQ section",
}

var messagesZH = map[string]string{
	"error.bad_request":                 "请求参数错误",
	"error.unauthorized":                "请先登录",
	"error.forbidden":                   "无权访问该资源",
	"error.not_found":                   "资源不存在",
	"error.internal":                    "服务器内部错误",
	"error.too_many_requests":           "尝试次数过多，请稍后再试",
	"error.token_invalid":               "登录已失效，请重新登录",
	"error.token_revoked":               "登录已退出，请重新登录",
	"error.auth_header_invalid":         "授权头格式错误",
	"error.rate_limit_unavailable":      "限流服务暂不可用",
	"error.login_too_many":              "登录尝试过多，请 %d 秒后再试",
	"error.user_disabled":               "账号已被禁用",
	"error.user_not_found":              "用户不存在",
	"error.email_invalid":               "邮箱格式不正确",
	"error.email_exists":                "该邮箱已注册",
	"error.account_type_invalid":        "账号类型无效",
	"error.login_invalid":               "邮箱或密码错误",
	"error.login_failed":                "登录失败",
	"error.signup_failed":               "注册失败",
	"error.logout_failed":               "退出登录失败",
	"error.password_weak":               "密码强度不足",
	"error.password_min_length":         "密码长度至少 %d 位",
	"error.password_require_upper":      "密码需包含大写字母",
	"error.password_require_lower":      "密码需包含小写字母",
	"error.password_require_number":     "密码需包含数字",
	"error.password_require_special":    "密码需包含特殊字符",
	"error.oauth_disabled":              "该登录方式未开启",
	"error.oauth_token_invalid":         "第三方登录校验失败",
	"error.oauth_email_missing":         "第三方账号未提供已验证邮箱",
	"error.captcha_required":            "请完成验证码",
	"error.captcha_invalid":             "验证码错误",
	"error.captcha_config_invalid":      "验证码配置错误",
	"error.captcha_unavailable":         "验证码未开启",
	"error.captcha_generate_failed":     "验证码生成失败",
	"error.captcha_verify_failed":       "验证码校验失败",
	"error.delivery_draft_invalid":      "请修正标出的字段",
	"error.delivery_submit_in_flight":   "取件单正在提交中",
	"error.delivery_fetch_failed":       "取件单获取失败",
	"error.tracking_fetch_failed":       "追踪信息获取失败",
	"error.route_resolve_failed":        "路由解析失败",
	"error.dashboard_fetch_failed":      "看板数据获取失败",
	"error.user_login_log_fetch_failed": "登录记录获取失败",

	"validation.invalid":               "取值无效",
	"validation.full_name_min":         "姓名至少 2 个字符",
	"validation.phone_number_min":      "电话号码至少 10 位",
	"validation.pickup_address_min":    "取件地址至少 10 个字符",
	"validation.school_required":       "请选择学校",
	"validation.other_school_required": "请填写学校名称",
	"validation.pickup_date_required":  "请选择取件日期",
	"validation.pickup_date_past":      "取件日期不能早于今天",
	"validation.pickup_time_invalid":   "请选择取件时间",
	"validation.box_type_required":     "请选择箱型",
	"validation.notes_too_long":        "备注最多 1000 个字符",

	"notice.request_submitted_title":       "提交成功！",
	"notice.request_submitted_description": "取件单已提交成功。",
	"notice.error_title":                   "出错了",
	"notice.submit_failed_description":     "取件单提交失败，请重试。",
	"notice.missing_input_description":     "请先登录并完整填写表单。",
	"notice.logged_in_title":               "欢迎回来！",
	"notice.signed_up_title":               "账号已创建！",
	"notice.logged_out_title":              "已退出登录",

	"nav.home":             "首页",
	"nav.request_delivery": "预约取件",
	"nav.agent_dashboard":  "代理看板",
	"nav.contact":          "联系与帮助",
	"nav.login":            "登录",
	"nav.signup":           "注册",
	"tracking.cta":         "预约取件",

	"contact.title":       "联系与帮助",
	"contact.description": "有疑问？我们随时为你提供帮助。",
	"contact.phone":       "7x24 小时电话支持",
	"contact.chat":        "在线客服",
	"contact.email":       "邮件支持",
	"contact.faq":         "常见问题",
}
