package worker

import (
	"context"
	"errors"

	"github.com/gobox-app/internal/logger"
	"github.com/gobox-app/internal/queue"
	"github.com/gobox-app/internal/service"

	"github.com/hibiken/asynq"
)

// CreatedRelayer 转发新取件单事件
type CreatedRelayer interface {
	RelayCreated(ctx context.Context, payload queue.DeliveryRequestCreatedPayload) error
}

// Consumer 异步任务消费者
type Consumer struct {
	relayer CreatedRelayer
}

// NewConsumer 创建消费者
func NewConsumer(relayer CreatedRelayer) *Consumer {
	return &Consumer{relayer: relayer}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskDeliveryRequestCreated, c.handleDeliveryRequestCreated)
}

func (c *Consumer) handleDeliveryRequestCreated(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil || c.relayer == nil {
		logger.Debugw("worker_delivery_created_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseDeliveryRequestCreated(task)
	if err != nil {
		logger.Warnw("worker_delivery_created_unmarshal_failed", "error", err)
		// 载荷损坏重试也无法恢复
		return asynq.SkipRetry
	}
	if err := c.relayer.RelayCreated(ctx, payload); err != nil {
		if errors.Is(err, service.ErrDeliveryRequestNoEmpty) {
			logger.Debugw("worker_delivery_created_skip_invalid_payload", "user_id", payload.UserID)
			return nil
		}
		logger.Warnw("worker_delivery_created_relay_failed", "request_no", payload.RequestNo, "error", err)
		return err
	}
	return nil
}
