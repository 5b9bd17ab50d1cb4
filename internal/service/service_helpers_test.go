package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gobox-app/internal/config"
	"github.com/gobox-app/internal/models"
	"github.com/gobox-app/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newTestValidator() *DeliveryFormValidator {
	v := NewDeliveryFormValidator(config.Default().Delivery, time.UTC)
	v.now = func() time.Time { return fixedNow }
	return v
}

func validDraftInput() DeliveryDraftInput {
	return DeliveryDraftInput{
		FullName:      "Jane Doe",
		PhoneNumber:   "5551234567",
		PickupAddress: "1 Oak St, Springfield, IL 62701",
		SchoolName:    "Lincoln High School",
		PickupDate:    fixedNow.AddDate(0, 0, 1).Format(pickupDateLayout),
		PickupTime:    "2:00 PM",
		BoxType:       "Lunch",
	}
}

func memberSession(id uint) *Session {
	return LoggedIn(SessionUser{ID: id, Email: fmt.Sprintf("user%d@example.com", id)})
}

// stubDeliveryRepo 内存取件单仓库，可注入创建错误或阻塞创建
type stubDeliveryRepo struct {
	mu        sync.Mutex
	records   []models.DeliveryRequest
	creates   int
	createErr error
	// entered 非 nil 时 Create 进入后通知，并等待 release 关闭
	entered chan struct{}
	release chan struct{}
}

func (r *stubDeliveryRepo) Create(request *models.DeliveryRequest) error {
	r.mu.Lock()
	r.creates++
	entered, release := r.entered, r.release
	r.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
		<-release
	}
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	request.ID = uint(len(r.records) + 1)
	r.records = append(r.records, *request)
	return nil
}

func (r *stubDeliveryRepo) createCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creates
}

func (r *stubDeliveryRepo) GetLatestByUser(userID uint) (*models.DeliveryRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].UserID == userID {
			record := r.records[i]
			return &record, nil
		}
	}
	return nil, nil
}

func (r *stubDeliveryRepo) GetByRequestNo(requestNo string) (*models.DeliveryRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.RequestNo == requestNo {
			found := record
			return &found, nil
		}
	}
	return nil, nil
}

func (r *stubDeliveryRepo) ListByUser(filter repository.DeliveryRequestListFilter) ([]models.DeliveryRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DeliveryRequest
	for _, record := range r.records {
		if record.UserID == filter.UserID {
			out = append(out, record)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubDeliveryRepo) UpdateStatusByRequestNo(requestNo, status string, at time.Time) (*models.DeliveryRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].RequestNo == requestNo {
			r.records[i].Status = status
			r.records[i].UpdatedAt = at
			record := r.records[i]
			return &record, nil
		}
	}
	return nil, nil
}

func (r *stubDeliveryRepo) CountByStatus(userID uint) ([]repository.StatusCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	var order []string
	for _, record := range r.records {
		if record.UserID != userID {
			continue
		}
		if _, ok := counts[record.Status]; !ok {
			order = append(order, record.Status)
		}
		counts[record.Status]++
	}
	out := make([]repository.StatusCount, 0, len(order))
	for _, status := range order {
		out = append(out, repository.StatusCount{Status: status, Total: counts[status]})
	}
	return out, nil
}

func (r *stubDeliveryRepo) ListByStatusSince(status string, since time.Time, limit int) ([]models.DeliveryRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DeliveryRequest
	for _, record := range r.records {
		if record.Status == status && !record.CreatedAt.Before(since) {
			out = append(out, record)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
