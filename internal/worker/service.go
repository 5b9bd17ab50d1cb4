package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gobox-app/internal/config"
	"github.com/gobox-app/internal/logger"
	"github.com/gobox-app/internal/queue"
	"github.com/gobox-app/internal/schedule"
	"github.com/gobox-app/internal/service"

	"github.com/hibiken/asynq"
)

const relaySweepBatch = 200

// RelaySweeper 补偿扫描
type RelaySweeper interface {
	RequeueConfirmed(ctx context.Context, taskQueue service.DeliveryTaskQueue, since time.Time, limit int) (int, error)
}

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer

	sweeper     RelaySweeper
	taskQueue   service.DeliveryTaskQueue
	sweepEvery  time.Duration
	sweepWindow time.Duration

	// Start 与 Stop 分别在运行与关停的 goroutine 上调用
	mu          sync.Mutex
	stopped     bool
	sweepTicker *schedule.Ticker
}

// NewService 创建异步队列服务；sweeper 或 taskQueue 为 nil 时不启动补偿扫描
func NewService(cfg *config.QueueConfig, consumer *Consumer, sweeper RelaySweeper, taskQueue service.DeliveryTaskQueue) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:        "worker",
		server:      server,
		mux:         mux,
		consumer:    consumer,
		sweeper:     sweeper,
		taskQueue:   taskQueue,
		sweepEvery:  time.Duration(cfg.RelaySweepSeconds) * time.Second,
		sweepWindow: time.Duration(cfg.RelaySweepWindowHours) * time.Hour,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动消费与补偿扫描，阻塞到 ctx 结束
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	if s.sweeper != nil && s.taskQueue != nil {
		s.sweepTicker = schedule.Every(ctx, s.sweepEvery, s.sweepOnce)
	}
	s.mu.Unlock()

	// asynq 的 Run 会自行等待系统信号，这里由 Runner 统一管理退出
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// Stop 停止补偿扫描并等待进行中的任务结束
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.mu.Lock()
	s.stopped = true
	ticker := s.sweepTicker
	s.sweepTicker = nil
	s.mu.Unlock()

	if ticker != nil {
		ticker.Stop()
	}
	s.server.Shutdown()
	return nil
}

func (s *Service) sweepOnce(ctx context.Context, now time.Time) {
	window := s.sweepWindow
	if window <= 0 {
		window = 24 * time.Hour
	}
	requeued, err := s.sweeper.RequeueConfirmed(ctx, s.taskQueue, now.Add(-window), relaySweepBatch)
	if err != nil {
		logger.Warnw("worker_relay_sweep_failed", "error", err)
		return
	}
	if requeued > 0 {
		logger.Infow("worker_relay_sweep_requeued", "count", requeued)
	}
}
