package config

import (
	"fmt"
	"strings"

	"github.com/gobox-app/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	UserJWT  JWTConfig      `mapstructure:"user_jwt"`
	OAuth    OAuthConfig    `mapstructure:"oauth"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	Captcha  CaptchaConfig  `mapstructure:"captcha"`
	Delivery DeliveryConfig `mapstructure:"delivery"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Tracking TrackingConfig `mapstructure:"tracking"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Mode     string `mapstructure:"mode"`     // debug / release
	Timezone string `mapstructure:"timezone"` // 取件日期按此时区判断“今天”
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey             string `mapstructure:"secret"`
	ExpireHours           int    `mapstructure:"expire_hours"`
	RememberMeExpireHours int    `mapstructure:"remember_me_expire_hours"`
}

// OAuthConfig 第三方登录配置
type OAuthConfig struct {
	Google OAuthProviderConfig `mapstructure:"google"`
	Apple  OAuthProviderConfig `mapstructure:"apple"`
}

// OAuthProviderConfig 单个 OpenID Connect 提供方
type OAuthProviderConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	ClientIDs      []string `mapstructure:"client_ids"` // 允许的 aud
	Issuers        []string `mapstructure:"issuers"`
	JWKSURL        string   `mapstructure:"jwks_url"`
	JWKSTTLSeconds int      `mapstructure:"jwks_ttl_seconds"`
	TimeoutMS      int      `mapstructure:"timeout_ms"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`

	// 补偿扫描：周期性重投仍为 Confirmed 的取件单转发任务
	RelaySweepSeconds     int `mapstructure:"relay_sweep_seconds"`
	RelaySweepWindowHours int `mapstructure:"relay_sweep_window_hours"`
}

// KafkaConfig 调度事件总线配置
type KafkaConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	Brokers        []string `mapstructure:"brokers"`
	CreatedTopic   string   `mapstructure:"created_topic"`
	StatusTopic    string   `mapstructure:"status_topic"`
	ConsumerGroup  string   `mapstructure:"consumer_group"`
	WriteTimeoutMS int      `mapstructure:"write_timeout_ms"`
}

// CaptchaConfig 验证码配置
type CaptchaConfig struct {
	Provider string             `mapstructure:"provider"` // none / image
	Scenes   CaptchaSceneConfig `mapstructure:"scenes"`
	Image    CaptchaImageConfig `mapstructure:"image"`
}

// CaptchaSceneConfig 验证码场景开关
type CaptchaSceneConfig struct {
	Login  bool `mapstructure:"login"`
	Signup bool `mapstructure:"signup"`
}

// CaptchaImageConfig 图片验证码配置
type CaptchaImageConfig struct {
	Length        int `mapstructure:"length"`
	Width         int `mapstructure:"width"`
	Height        int `mapstructure:"height"`
	NoiseCount    int `mapstructure:"noise_count"`
	ShowLine      int `mapstructure:"show_line"`
	ExpireSeconds int `mapstructure:"expire_seconds"`
	MaxStore      int `mapstructure:"max_store"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	LoginRateLimit LoginRateLimitConfig `mapstructure:"login_rate_limit"`
	PasswordPolicy PasswordPolicyConfig `mapstructure:"password_policy"`
}

// LoginRateLimitConfig 登录限流配置
type LoginRateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
	BlockSeconds  int `mapstructure:"block_seconds"`
}

// PasswordPolicyConfig 密码策略配置
type PasswordPolicyConfig struct {
	MinLength      int  `mapstructure:"min_length"`
	RequireUpper   bool `mapstructure:"require_upper"`
	RequireLower   bool `mapstructure:"require_lower"`
	RequireNumber  bool `mapstructure:"require_number"`
	RequireSpecial bool `mapstructure:"require_special"`
}

// DeliveryConfig 取件单表单配置
type DeliveryConfig struct {
	Schools            []string `mapstructure:"schools"`
	SlotStart          string   `mapstructure:"slot_start"` // 15:04
	SlotEnd            string   `mapstructure:"slot_end"`
	SlotStepMinutes    int      `mapstructure:"slot_step_minutes"`
	SubmitLockSeconds  int      `mapstructure:"submit_lock_seconds"`
	RequestNumberStyle string   `mapstructure:"request_number_style"` // uuid / short
}

// PricingConfig 计价配置
type PricingConfig struct {
	TotalMode string `mapstructure:"total_mode"` // fixed / itemized
}

// TrackingConfig 追踪视图配置
type TrackingConfig struct {
	MilestoneMode   string `mapstructure:"milestone_mode"` // status / static
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
	ETAMinutes      int    `mapstructure:"eta_minutes"`
	ClockIntervalMS int    `mapstructure:"clock_interval_ms"`
	ETAIntervalMS   int    `mapstructure:"eta_interval_ms"`
}

// Load 从 config.yml 加载配置
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../") // 如果从 cmd/server 运行
	viper.AddConfigPath("./etc")

	setDefaults(viper.GetViper())

	// 环境变量支持，例如 server.port -> SERVER_PORT
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}

	return &cfg
}

// Default 仅使用默认值构造配置，测试与 seed 工具使用
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Errorf("默认配置解析失败: %w", err))
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.timezone", "Local")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/gobox.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("user_jwt.secret", "user-change-me-in-production")
	v.SetDefault("user_jwt.expire_hours", 24)
	v.SetDefault("user_jwt.remember_me_expire_hours", 168)
	v.SetDefault("oauth.google.enabled", false)
	v.SetDefault("oauth.google.client_ids", []string{})
	v.SetDefault("oauth.google.issuers", []string{"https://accounts.google.com", "accounts.google.com"})
	v.SetDefault("oauth.google.jwks_url", "https://www.googleapis.com/oauth2/v3/certs")
	v.SetDefault("oauth.google.jwks_ttl_seconds", 3600)
	v.SetDefault("oauth.google.timeout_ms", 3000)
	v.SetDefault("oauth.apple.enabled", false)
	v.SetDefault("oauth.apple.client_ids", []string{})
	v.SetDefault("oauth.apple.issuers", []string{"https://appleid.apple.com"})
	v.SetDefault("oauth.apple.jwks_url", "https://appleid.apple.com/auth/keys")
	v.SetDefault("oauth.apple.jwks_ttl_seconds", 3600)
	v.SetDefault("oauth.apple.timeout_ms", 3000)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "gobox")
	v.SetDefault("queue.enabled", true)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.queues", map[string]int{
		"default":  10,
		"critical": 5,
	})
	v.SetDefault("queue.relay_sweep_seconds", 300)
	v.SetDefault("queue.relay_sweep_window_hours", 24)
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"127.0.0.1:9092"})
	v.SetDefault("kafka.created_topic", "delivery.request.created")
	v.SetDefault("kafka.status_topic", "delivery.status.updated")
	v.SetDefault("kafka.consumer_group", "gobox-api")
	v.SetDefault("kafka.write_timeout_ms", 5000)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
		"X-Form-Token",
		"X-Locale",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.login_rate_limit.window_seconds", 300)
	v.SetDefault("security.login_rate_limit.max_attempts", 5)
	v.SetDefault("security.login_rate_limit.block_seconds", 900)
	v.SetDefault("security.password_policy.min_length", 8)
	v.SetDefault("security.password_policy.require_upper", true)
	v.SetDefault("security.password_policy.require_lower", true)
	v.SetDefault("security.password_policy.require_number", true)
	v.SetDefault("security.password_policy.require_special", false)
	v.SetDefault("captcha.provider", "none")
	v.SetDefault("captcha.scenes.login", false)
	v.SetDefault("captcha.scenes.signup", false)
	v.SetDefault("captcha.image.length", 5)
	v.SetDefault("captcha.image.width", 240)
	v.SetDefault("captcha.image.height", 80)
	v.SetDefault("captcha.image.noise_count", 2)
	v.SetDefault("captcha.image.show_line", 2)
	v.SetDefault("captcha.image.expire_seconds", 300)
	v.SetDefault("captcha.image.max_store", 10240)
	v.SetDefault("delivery.schools", []string{
		"Lincoln High School",
		"Washington Middle School",
		"Roosevelt Elementary",
		"Jefferson Academy",
		"Sunshine Elementary School",
	})
	v.SetDefault("delivery.slot_start", "08:00")
	v.SetDefault("delivery.slot_end", "17:00")
	v.SetDefault("delivery.slot_step_minutes", 30)
	v.SetDefault("delivery.submit_lock_seconds", 30)
	v.SetDefault("delivery.request_number_style", "short")
	v.SetDefault("pricing.total_mode", "fixed")
	v.SetDefault("tracking.milestone_mode", "status")
	v.SetDefault("tracking.cache_ttl_seconds", 60)
	v.SetDefault("tracking.eta_minutes", 45)
	v.SetDefault("tracking.clock_interval_ms", 1000)
	v.SetDefault("tracking.eta_interval_ms", 60000)
}
