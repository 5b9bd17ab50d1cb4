package provider

import (
	"time"

	"github.com/gobox-app/internal/authz"
	"github.com/gobox-app/internal/broker/kafka"
	"github.com/gobox-app/internal/cache"
	"github.com/gobox-app/internal/config"
	"github.com/gobox-app/internal/constants"
	"github.com/gobox-app/internal/logger"
	"github.com/gobox-app/internal/models"
	"github.com/gobox-app/internal/queue"
	"github.com/gobox-app/internal/repository"
	"github.com/gobox-app/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Producer    *kafka.Producer

	// Repositories
	UserRepo            repository.UserRepository
	UserIdentityRepo    repository.UserIdentityRepository
	UserLoginLogRepo    repository.UserLoginLogRepository
	DeliveryRequestRepo repository.DeliveryRequestRepository

	// Services
	AuthzService           *authz.Service
	UserAuthService        *service.UserAuthService
	CaptchaService         *service.CaptchaService
	UserLoginLogService    *service.UserLoginLogService
	DeliveryFormValidator  *service.DeliveryFormValidator
	DeliveryRequestService *service.DeliveryRequestService
	TrackingService        *service.TrackingService
	DispatchService        *service.DispatchService
	NavigationService      *service.NavigationService
	AgentDashboardService  *service.AgentDashboardService

	db *gorm.DB
}

// NewContainer 初始化容器，使用全局数据库连接
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	// 调度事件生产者
	var producer *kafka.Producer
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, time.Duration(cfg.Kafka.WriteTimeoutMS)*time.Millisecond)
	}

	return NewContainerWithDB(cfg, models.DB, queueClient, producer)
}

// NewContainerWithDB 使用指定连接构建容器；queueClient / producer 可为 nil
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client, producer *kafka.Producer) *Container {
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Producer:    producer,
		db:          db,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

// Close 释放队列与消息连接
func (c *Container) Close() {
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if c.Producer != nil {
		if err := c.Producer.Close(); err != nil {
			logger.Warnw("provider_close_kafka_producer_failed", "error", err)
		}
	}
}

// TaskQueue 取件单任务队列；未启用时返回 nil 接口
func (c *Container) TaskQueue() service.DeliveryTaskQueue {
	if c.QueueClient == nil || !c.QueueClient.Enabled() {
		return nil
	}
	return c.QueueClient
}

func (c *Container) initRepositories() {
	db := c.db
	c.UserRepo = repository.NewUserRepository(db)
	c.UserIdentityRepo = repository.NewUserIdentityRepository(db)
	c.UserLoginLogRepo = repository.NewUserLoginLogRepository(db)
	c.DeliveryRequestRepo = repository.NewDeliveryRequestRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(c.db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapRoutePolicies(); err != nil {
		logger.Errorw("provider_bootstrap_route_policies_failed", "error", err)
		panic(err)
	}

	verifiers := map[string]service.IDTokenVerifier{}
	if c.Config.OAuth.Google.Enabled {
		verifiers[constants.UserOAuthProviderGoogle] = service.NewJWKSVerifier(c.Config.OAuth.Google)
	}
	if c.Config.OAuth.Apple.Enabled {
		verifiers[constants.UserOAuthProviderApple] = service.NewJWKSVerifier(c.Config.OAuth.Apple)
	}

	var publisher service.EventPublisher
	if c.Producer != nil {
		publisher = c.Producer
	}

	c.DeliveryFormValidator = service.NewDeliveryFormValidator(c.Config.Delivery, resolveLocation(c.Config.Server.Timezone))
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.UserIdentityRepo, verifiers)
	c.UserLoginLogService = service.NewUserLoginLogService(c.UserLoginLogRepo)
	c.DeliveryRequestService = service.NewDeliveryRequestService(c.Config, c.DeliveryRequestRepo, c.DeliveryFormValidator, c.TaskQueue())
	c.TrackingService = service.NewTrackingService(c.Config, c.DeliveryRequestRepo)
	c.DispatchService = service.NewDispatchService(c.DeliveryRequestRepo, publisher, c.Config.Kafka.CreatedTopic)
	c.NavigationService = service.NewNavigationService(c.AuthzService)
	c.AgentDashboardService = service.NewAgentDashboardService(c.DeliveryRequestRepo)
}

func resolveLocation(name string) *time.Location {
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warnw("provider_load_timezone_failed", "timezone", name, "error", err)
		return time.Local
	}
	return loc
}
