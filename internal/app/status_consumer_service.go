package app

import (
	"context"
	"errors"
	"time"

	"github.com/gobox-app/internal/logger"
)

const statusConsumerRestartDelay = 5 * time.Second

// MessageConsumer 按位点消费消息
type MessageConsumer interface {
	Consume(ctx context.Context, handler func(key, value []byte) error) error
	Close() error
}

// StatusConsumerService 消费调度方回推的状态变更
// 拉取或处理失败时等待后重新消费，直到 ctx 结束
type StatusConsumerService struct {
	consumer     MessageConsumer
	handler      func(ctx context.Context, key, value []byte) error
	restartDelay time.Duration
}

// NewStatusConsumerService 创建状态消费服务
func NewStatusConsumerService(consumer MessageConsumer, handler func(ctx context.Context, key, value []byte) error) *StatusConsumerService {
	return &StatusConsumerService{
		consumer:     consumer,
		handler:      handler,
		restartDelay: statusConsumerRestartDelay,
	}
}

// Name 服务名称
func (s *StatusConsumerService) Name() string {
	return "status-consumer"
}

// Start 启动服务
func (s *StatusConsumerService) Start(ctx context.Context) error {
	if s == nil || s.consumer == nil || s.handler == nil {
		return errors.New("status consumer not initialized")
	}
	for {
		err := s.consumer.Consume(ctx, func(key, value []byte) error {
			return s.handler(ctx, key, value)
		})
		if ctx.Err() != nil {
			return nil
		}
		logger.Warnw("status_consumer_interrupted", "error", err)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.restartDelay):
		}
	}
}

// Stop 停止服务
func (s *StatusConsumerService) Stop(ctx context.Context) error {
	if s == nil || s.consumer == nil {
		return nil
	}
	_ = ctx
	return s.consumer.Close()
}
