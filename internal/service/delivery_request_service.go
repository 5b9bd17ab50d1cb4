package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gobox-app/internal/cache"
	"github.com/gobox-app/internal/config"
	"github.com/gobox-app/internal/constants"
	"github.com/gobox-app/internal/logger"
	"github.com/gobox-app/internal/models"
	"github.com/gobox-app/internal/queue"
	"github.com/gobox-app/internal/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	defaultSubmitLockSeconds = 30
	defaultFormToken         = "default"
	requestNumberStyleUUID   = "uuid"
)

// DeliveryTaskQueue 取件单创建后的异步任务出口
type DeliveryTaskQueue interface {
	EnqueueDeliveryRequestCreated(payload queue.DeliveryRequestCreatedPayload, opts ...asynq.Option) error
}

// SubmitResult 提交结果
type SubmitResult struct {
	Request *models.DeliveryRequest `json:"request"`
	Quote   Quote                   `json:"quote"`
}

// PreviewResult 草稿预览
type PreviewResult struct {
	Draft DeliveryDraft `json:"draft"`
	Quote Quote         `json:"quote"`
}

// DeliveryRequestService 取件单提交服务
type DeliveryRequestService struct {
	repo         repository.DeliveryRequestRepository
	validator    *DeliveryFormValidator
	queue        DeliveryTaskQueue
	totalMode    string
	lockTTL      time.Duration
	numberStyle  string
	now          func() time.Time
	newRequestNo func(at time.Time) string

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewDeliveryRequestService 创建取件单提交服务；taskQueue 可为 nil
func NewDeliveryRequestService(cfg *config.Config, repo repository.DeliveryRequestRepository, validator *DeliveryFormValidator, taskQueue DeliveryTaskQueue) *DeliveryRequestService {
	lockSeconds := cfg.Delivery.SubmitLockSeconds
	if lockSeconds <= 0 {
		lockSeconds = defaultSubmitLockSeconds
	}
	s := &DeliveryRequestService{
		repo:        repo,
		validator:   validator,
		queue:       taskQueue,
		totalMode:   normalizeTotalMode(cfg.Pricing.TotalMode),
		lockTTL:     time.Duration(lockSeconds) * time.Second,
		numberStyle: strings.ToLower(strings.TrimSpace(cfg.Delivery.RequestNumberStyle)),
		now:         time.Now,
		inflight:    make(map[string]struct{}),
	}
	s.newRequestNo = s.generateRequestNo
	return s
}

// FormOptions 表单可选项
func (s *DeliveryRequestService) FormOptions() DeliveryFormOptions {
	return s.validator.Options()
}

// Preview 只校验并报价，不落库
func (s *DeliveryRequestService) Preview(input *DeliveryDraftInput) (*PreviewResult, error) {
	if input == nil {
		return nil, ErrMissingInput
	}
	draft, err := s.validator.Validate(*input)
	if err != nil {
		return nil, err
	}
	return &PreviewResult{Draft: draft, Quote: QuoteFor(draft.BoxType, s.totalMode)}, nil
}

// Submit 校验草稿并以当前用户身份创建取件单
// 同一用户同一表单标识在前一次提交返回前再次提交会得到 ErrSubmissionInFlight
func (s *DeliveryRequestService) Submit(ctx context.Context, session *Session, input *DeliveryDraftInput, formToken string) (*SubmitResult, error) {
	if !session.IsLoggedIn() || input == nil {
		return nil, ErrMissingInput
	}
	draft, err := s.validator.Validate(*input)
	if err != nil {
		return nil, err
	}

	userID := session.UserID()
	release, err := s.acquireSubmitLock(ctx, userID, formToken)
	if err != nil {
		return nil, err
	}
	defer release()

	now := s.now()
	record := &models.DeliveryRequest{
		RequestNo:       s.newRequestNo(now),
		UserID:          userID,
		FullName:        draft.FullName,
		PhoneNumber:     draft.PhoneNumber,
		PickupAddress:   draft.PickupAddress,
		SchoolName:      draft.SchoolName,
		PickupDate:      draft.PickupDate,
		PickupTime:      draft.PickupTime,
		BoxType:         draft.BoxType,
		AdditionalNotes: draft.AdditionalNotes,
		Status:          constants.DeliveryStatusConfirmed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(record); err != nil {
		logger.Errorw("delivery_request_create_failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrRemoteOperation, err)
	}

	if err := cache.DelLatestDelivery(ctx, userID); err != nil {
		logger.Warnw("delivery_latest_cache_invalidate_failed", "user_id", userID, "error", err)
	}
	s.enqueueCreated(record)

	return &SubmitResult{Request: record, Quote: QuoteFor(record.BoxType, s.totalMode)}, nil
}

// ListMine 当前用户的取件单列表
func (s *DeliveryRequestService) ListMine(session *Session, page, pageSize int) ([]models.DeliveryRequest, int64, error) {
	if !session.IsLoggedIn() {
		return nil, 0, ErrMissingInput
	}
	items, total, err := s.repo.ListByUser(repository.DeliveryRequestListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   session.UserID(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRemoteOperation, err)
	}
	return items, total, nil
}

func (s *DeliveryRequestService) enqueueCreated(record *models.DeliveryRequest) {
	if s.queue == nil {
		return
	}
	payload := queue.DeliveryRequestCreatedPayload{RequestNo: record.RequestNo, UserID: record.UserID}
	err := s.queue.EnqueueDeliveryRequestCreated(payload)
	if err != nil && !errors.Is(err, queue.ErrAlreadyQueued) {
		// 记录已落库，转发失败不影响本次提交
		logger.Warnw("delivery_request_enqueue_failed", "request_no", record.RequestNo, "error", err)
	}
}

// acquireSubmitLock 优先使用 Redis 锁，未启用或出错时退回进程内锁
func (s *DeliveryRequestService) acquireSubmitLock(ctx context.Context, userID uint, formToken string) (func(), error) {
	token := strings.TrimSpace(formToken)
	if token == "" {
		token = defaultFormToken
	}

	if cache.Enabled() {
		holder := uuid.NewString()
		ok, err := cache.AcquireSubmitLock(ctx, userID, token, holder, s.lockTTL)
		if err == nil {
			if !ok {
				return nil, ErrSubmissionInFlight
			}
			return func() {
				if err := cache.ReleaseSubmitLock(context.Background(), userID, token, holder); err != nil {
					logger.Warnw("delivery_submit_lock_release_failed", "user_id", userID, "error", err)
				}
			}, nil
		}
		logger.Warnw("delivery_submit_lock_redis_failed", "user_id", userID, "error", err)
	}

	key := fmt.Sprintf("%d:%s", userID, token)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return nil, ErrSubmissionInFlight
	}
	s.inflight[key] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
	}, nil
}

// generateRequestNo short: GB-20261016-1A2B3C4D；uuid: 原样 UUID
func (s *DeliveryRequestService) generateRequestNo(at time.Time) string {
	if s.numberStyle == requestNumberStyleUUID {
		return uuid.NewString()
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return "GB-" + at.Format("20060102") + "-" + suffix
}
