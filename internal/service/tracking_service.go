package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gobox-app/internal/cache"
	"github.com/gobox-app/internal/config"
	"github.com/gobox-app/internal/constants"
	"github.com/gobox-app/internal/logger"
	"github.com/gobox-app/internal/models"
	"github.com/gobox-app/internal/repository"
	"github.com/gobox-app/internal/schedule"

	"golang.org/x/sync/singleflight"
)

const (
	defaultTrackingCacheTTL = 60 * time.Second
	defaultETAMinutes       = 45
	defaultClockInterval    = time.Second
	defaultETAInterval      = time.Minute

	// TrackingEventClock 每秒时钟
	TrackingEventClock = "clock"
	// TrackingEventETA 预计到达倒计时（分钟）
	TrackingEventETA = "eta"
)

// Milestone 配送进度节点
type Milestone struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Time   string `json:"time,omitempty"`
	State  string `json:"state"` // completed / current / pending
}

// CallToAction 无记录时的引导
type CallToAction struct {
	Label string `json:"label"`
	Route string `json:"route"`
}

// TrackingView 追踪页读模型
type TrackingView struct {
	State        string                  `json:"state"` // empty / present
	Request      *models.DeliveryRequest `json:"request,omitempty"`
	Quote        *Quote                  `json:"quote,omitempty"`
	Milestones   []Milestone             `json:"milestones,omitempty"`
	CallToAction *CallToAction           `json:"call_to_action,omitempty"`
	ETAMinutes   int                     `json:"eta_minutes,omitempty"`
}

// TrackingEvent 推送事件
type TrackingEvent struct {
	Name      string    `json:"name"`
	At        time.Time `json:"at"`
	Remaining int       `json:"remaining,omitempty"`
}

// TrackingService 最近取件单追踪
type TrackingService struct {
	repo          repository.DeliveryRequestRepository
	totalMode     string
	milestoneMode string
	cacheTTL      time.Duration
	etaMinutes    int
	clockInterval time.Duration
	etaInterval   time.Duration
	group         singleflight.Group
}

// NewTrackingService 创建追踪服务
func NewTrackingService(cfg *config.Config, repo repository.DeliveryRequestRepository) *TrackingService {
	tc := cfg.Tracking
	return &TrackingService{
		repo:          repo,
		totalMode:     normalizeTotalMode(cfg.Pricing.TotalMode),
		milestoneMode: normalizeMilestoneMode(tc.MilestoneMode),
		cacheTTL:      durationOr(time.Duration(tc.CacheTTLSeconds)*time.Second, defaultTrackingCacheTTL),
		etaMinutes:    intOr(tc.ETAMinutes, defaultETAMinutes),
		clockInterval: durationOr(time.Duration(tc.ClockIntervalMS)*time.Millisecond, defaultClockInterval),
		etaInterval:   durationOr(time.Duration(tc.ETAIntervalMS)*time.Millisecond, defaultETAInterval),
	}
}

// Latest 当前用户最近一条取件单
func (s *TrackingService) Latest(ctx context.Context, session *Session) (*TrackingView, error) {
	if !session.IsLoggedIn() {
		return nil, ErrMissingInput
	}
	record, err := s.loadLatest(ctx, session.UserID())
	if err != nil {
		return nil, err
	}
	if record == nil {
		return &TrackingView{
			State: constants.TrackingStateEmpty,
			CallToAction: &CallToAction{
				Label: "Request a Delivery",
				Route: constants.RouteRequestDelivery,
			},
		}, nil
	}
	quote := QuoteFor(record.BoxType, s.totalMode)
	return &TrackingView{
		State:      constants.TrackingStatePresent,
		Request:    record,
		Quote:      &quote,
		Milestones: s.buildMilestones(record),
		ETAMinutes: s.etaMinutes,
	}, nil
}

// Watch 启动时钟与倒计时，返回事件通道与停止函数
// 订阅时先推送一次倒计时起点，之后每个间隔减一
// 停止函数返回后不会再有事件，随后通道被关闭
func (s *TrackingService) Watch(ctx context.Context) (<-chan TrackingEvent, func()) {
	events := make(chan TrackingEvent, 4)
	events <- TrackingEvent{Name: TrackingEventETA, At: time.Now(), Remaining: s.etaMinutes}
	emit := func(tickCtx context.Context, event TrackingEvent) {
		select {
		case events <- event:
		case <-tickCtx.Done():
		}
	}
	clock := schedule.Every(ctx, s.clockInterval, func(tickCtx context.Context, now time.Time) {
		emit(tickCtx, TrackingEvent{Name: TrackingEventClock, At: now})
	})
	eta := schedule.Countdown(ctx, s.etaInterval, s.etaMinutes, func(tickCtx context.Context, remaining int) {
		emit(tickCtx, TrackingEvent{Name: TrackingEventETA, At: time.Now(), Remaining: remaining})
	})

	var once sync.Once
	stop := func() {
		once.Do(func() {
			clock.Stop()
			eta.Stop()
			close(events)
		})
	}
	return events, stop
}

// ETAMinutes 倒计时起点
func (s *TrackingService) ETAMinutes() int {
	return s.etaMinutes
}

// Invalidate 失效用户最近取件单缓存
func (s *TrackingService) Invalidate(ctx context.Context, userID uint) {
	if err := cache.DelLatestDelivery(ctx, userID); err != nil {
		logger.Warnw("delivery_latest_cache_invalidate_failed", "user_id", userID, "error", err)
	}
}

func (s *TrackingService) loadLatest(ctx context.Context, userID uint) (*models.DeliveryRequest, error) {
	if cached, hit, err := cache.GetLatestDelivery(ctx, userID); err != nil {
		logger.Warnw("delivery_latest_cache_get_failed", "user_id", userID, "error", err)
	} else if hit {
		return cached, nil
	}

	// 同一用户并发未命中时只查一次库
	value, err, _ := s.group.Do(strconv.FormatUint(uint64(userID), 10), func() (interface{}, error) {
		// 查库前记下代数，期间有新建或状态变更则不回填
		generation, genErr := cache.LatestDeliveryGeneration(ctx, userID)
		record, err := s.repo.GetLatestByUser(userID)
		if err != nil {
			return nil, err
		}
		if record == nil {
			return nil, nil
		}
		if genErr != nil {
			logger.Warnw("delivery_latest_cache_generation_failed", "user_id", userID, "error", genErr)
			return record, nil
		}
		stored, err := cache.SetLatestDeliveryIfGeneration(ctx, record, generation, s.cacheTTL)
		if err != nil {
			logger.Warnw("delivery_latest_cache_set_failed", "user_id", userID, "error", err)
		} else if !stored && cache.Enabled() {
			logger.Debugw("delivery_latest_cache_fill_skipped", "user_id", userID, "request_no", record.RequestNo)
		}
		return record, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteOperation, err)
	}
	record, _ := value.(*models.DeliveryRequest)
	return record, nil
}

func (s *TrackingService) buildMilestones(record *models.DeliveryRequest) []Milestone {
	if s.milestoneMode == constants.MilestoneModeStatic {
		return staticMilestones()
	}
	steps := []Milestone{
		{Title: constants.DeliveryStatusPickedUp, Detail: record.PickupAddress, Time: record.PickupTime},
		{Title: constants.DeliveryStatusInTransit, Detail: "On the way to " + record.SchoolName},
		{Title: constants.DeliveryStatusArrivingAtSchool, Detail: record.SchoolName},
		{Title: constants.DeliveryStatusDelivered, Detail: "School Office"},
	}
	completed, current := milestoneProgress(record.Status)
	for i := range steps {
		switch {
		case i < completed:
			steps[i].State = constants.MilestoneCompleted
		case i == current:
			steps[i].State = constants.MilestoneCurrent
		default:
			steps[i].State = constants.MilestonePending
		}
	}
	return steps
}

// milestoneProgress 返回已完成节点数与当前节点下标；全部完成时 current 为 -1
func milestoneProgress(status string) (completed int, current int) {
	switch strings.TrimSpace(status) {
	case constants.DeliveryStatusPickedUp, constants.DeliveryStatusInTransit:
		return 1, 1
	case constants.DeliveryStatusArrivingAtSchool:
		return 2, 2
	case constants.DeliveryStatusDelivered:
		return 4, -1
	default:
		// Confirmed、Agent Assigned 以及未知状态
		return 0, 0
	}
}

func staticMilestones() []Milestone {
	return []Milestone{
		{Title: constants.DeliveryStatusPickedUp, Detail: "123 Main Street", Time: "2:45 PM", State: constants.MilestoneCompleted},
		{Title: constants.DeliveryStatusInTransit, Detail: "En route via Oak Avenue", Time: "2:52 PM", State: constants.MilestoneCurrent},
		{Title: constants.DeliveryStatusArrivingAtSchool, Detail: "Sunshine Elementary School", Time: "3:15 PM", State: constants.MilestonePending},
		{Title: constants.DeliveryStatusDelivered, Detail: "School Office", Time: "3:20 PM", State: constants.MilestonePending},
	}
}

func normalizeMilestoneMode(mode string) string {
	if strings.EqualFold(strings.TrimSpace(mode), constants.MilestoneModeStatic) {
		return constants.MilestoneModeStatic
	}
	return constants.MilestoneModeStatus
}

func durationOr(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}

func intOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}
