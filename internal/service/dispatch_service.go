package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gobox-app/internal/broker/messages"
	"github.com/gobox-app/internal/cache"
	"github.com/gobox-app/internal/constants"
	"github.com/gobox-app/internal/logger"
	"github.com/gobox-app/internal/queue"
	"github.com/gobox-app/internal/repository"
)

// EventPublisher 调度事件出口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// DispatchService 与外部调度方之间的事件转发
// 出站：新取件单 -> delivery.request.created；入站：delivery.status.updated -> 更新状态
type DispatchService struct {
	repo         repository.DeliveryRequestRepository
	publisher    EventPublisher
	createdTopic string
	now          func() time.Time
}

// NewDispatchService 创建调度转发服务；publisher 为 nil 时出站转发为空操作
func NewDispatchService(repo repository.DeliveryRequestRepository, publisher EventPublisher, createdTopic string) *DispatchService {
	return &DispatchService{
		repo:         repo,
		publisher:    publisher,
		createdTopic: strings.TrimSpace(createdTopic),
		now:          time.Now,
	}
}

// RelayCreated 按单号回查记录并发布创建事件；返回错误时由队列重试
func (s *DispatchService) RelayCreated(ctx context.Context, payload queue.DeliveryRequestCreatedPayload) error {
	requestNo := strings.TrimSpace(payload.RequestNo)
	if requestNo == "" {
		return ErrDeliveryRequestNoEmpty
	}
	if s.publisher == nil || s.createdTopic == "" {
		logger.Debugw("dispatch_relay_skipped", "request_no", requestNo)
		return nil
	}
	record, err := s.repo.GetByRequestNo(requestNo)
	if err != nil {
		return err
	}
	if record == nil {
		// 记录不存在时重试无意义
		logger.Warnw("dispatch_relay_request_missing", "request_no", requestNo)
		return nil
	}
	body, err := json.Marshal(messages.DeliveryRequestCreated{
		RequestNo:     record.RequestNo,
		UserID:        record.UserID,
		SchoolName:    record.SchoolName,
		PickupAddress: record.PickupAddress,
		PickupDate:    record.PickupDate,
		PickupTime:    record.PickupTime,
		BoxType:       record.BoxType,
		Status:        record.Status,
		CreatedAt:     record.CreatedAt,
	})
	if err != nil {
		return err
	}
	if err := s.publisher.Publish(ctx, s.createdTopic, []byte(record.RequestNo), body); err != nil {
		return fmt.Errorf("relay delivery request %s: %w", record.RequestNo, err)
	}
	logger.Infow("dispatch_relay_published", "request_no", record.RequestNo, "topic", s.createdTopic)
	return nil
}

// ApplyStatusUpdate 处理调度方回推的状态变更
// 消息格式错误或单号未知时记录日志并跳过（返回 nil 以提交位点）；数据库错误返回以便重新消费
func (s *DispatchService) ApplyStatusUpdate(ctx context.Context, key, value []byte) error {
	var event messages.DeliveryStatusUpdated
	if err := json.Unmarshal(value, &event); err != nil {
		logger.Warnw("dispatch_status_malformed", "key", string(key), "error", err)
		return nil
	}
	requestNo := strings.TrimSpace(event.RequestNo)
	if requestNo == "" {
		requestNo = strings.TrimSpace(string(key))
	}
	status := strings.TrimSpace(event.Status)
	if requestNo == "" || status == "" {
		logger.Warnw("dispatch_status_incomplete", "key", string(key), "request_no", requestNo, "status", status)
		return nil
	}

	at := s.now()
	if event.StatusAt != nil && !event.StatusAt.IsZero() {
		at = *event.StatusAt
	}
	record, err := s.repo.UpdateStatusByRequestNo(requestNo, status, at)
	if err != nil {
		return fmt.Errorf("apply status %s: %w", requestNo, err)
	}
	if record == nil {
		logger.Warnw("dispatch_status_request_missing", "request_no", requestNo)
		return nil
	}
	if err := cache.DelLatestDelivery(ctx, record.UserID); err != nil {
		logger.Warnw("delivery_latest_cache_invalidate_failed", "user_id", record.UserID, "error", err)
	}
	logger.Infow("dispatch_status_applied", "request_no", requestNo, "status", status)
	return nil
}

// RequeueConfirmed 重新投递 since 之后仍为 Confirmed 的取件单转发任务，返回新入队数量
// 提交时入队失败只记日志，这里兜底；任务 ID 按单号去重，已转发过的不会重复发布
func (s *DispatchService) RequeueConfirmed(ctx context.Context, taskQueue DeliveryTaskQueue, since time.Time, limit int) (int, error) {
	if taskQueue == nil {
		return 0, nil
	}
	records, err := s.repo.ListByStatusSince(constants.DeliveryStatusConfirmed, since, limit)
	if err != nil {
		return 0, err
	}
	requeued := 0
	for _, record := range records {
		if ctx.Err() != nil {
			return requeued, ctx.Err()
		}
		payload := queue.DeliveryRequestCreatedPayload{RequestNo: record.RequestNo, UserID: record.UserID}
		err := taskQueue.EnqueueDeliveryRequestCreated(payload)
		switch {
		case errors.Is(err, queue.ErrAlreadyQueued):
			// 已转发或仍在排队，不计入本轮重投
		case err != nil:
			logger.Warnw("dispatch_requeue_failed", "request_no", record.RequestNo, "error", err)
		default:
			requeued++
		}
	}
	return requeued, nil
}
