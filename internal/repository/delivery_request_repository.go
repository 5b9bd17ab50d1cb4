package repository

import (
	"errors"
	"time"

	"github.com/gobox-app/internal/models"

	"gorm.io/gorm"
)

// DeliveryRequestRepository 取件单数据访问接口
type DeliveryRequestRepository interface {
	Create(request *models.DeliveryRequest) error
	GetLatestByUser(userID uint) (*models.DeliveryRequest, error)
	GetByRequestNo(requestNo string) (*models.DeliveryRequest, error)
	ListByUser(filter DeliveryRequestListFilter) ([]models.DeliveryRequest, int64, error)
	UpdateStatusByRequestNo(requestNo, status string, at time.Time) (*models.DeliveryRequest, error)
	CountByStatus(userID uint) ([]StatusCount, error)
	ListByStatusSince(status string, since time.Time, limit int) ([]models.DeliveryRequest, error)
}

// GormDeliveryRequestRepository GORM 实现
type GormDeliveryRequestRepository struct {
	db *gorm.DB
}

// NewDeliveryRequestRepository 创建取件单仓库
func NewDeliveryRequestRepository(db *gorm.DB) *GormDeliveryRequestRepository {
	return &GormDeliveryRequestRepository{db: db}
}

// Create 创建取件单
func (r *GormDeliveryRequestRepository) Create(request *models.DeliveryRequest) error {
	return r.db.Create(request).Error
}

// GetLatestByUser 获取用户最近一条取件单；同一时间戳按 ID 倒序兜底，无记录返回 nil
func (r *GormDeliveryRequestRepository) GetLatestByUser(userID uint) (*models.DeliveryRequest, error) {
	var request models.DeliveryRequest
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(1).
		Take(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// GetByRequestNo 根据单号获取
func (r *GormDeliveryRequestRepository) GetByRequestNo(requestNo string) (*models.DeliveryRequest, error) {
	var request models.DeliveryRequest
	if err := r.db.Where("request_no = ?", requestNo).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// ListByUser 用户取件单列表
func (r *GormDeliveryRequestRepository) ListByUser(filter DeliveryRequestListFilter) ([]models.DeliveryRequest, int64, error) {
	query := r.db.Model(&models.DeliveryRequest{}).Where("user_id = ?", filter.UserID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.BoxType != "" {
		query = query.Where("box_type = ?", filter.BoxType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var requests []models.DeliveryRequest
	if err := query.Order("created_at DESC").Order("id DESC").Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// UpdateStatusByRequestNo 更新状态并返回更新后的记录，单号不存在返回 nil
func (r *GormDeliveryRequestRepository) UpdateStatusByRequestNo(requestNo, status string, at time.Time) (*models.DeliveryRequest, error) {
	result := r.db.Model(&models.DeliveryRequest{}).
		Where("request_no = ?", requestNo).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": at,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByRequestNo(requestNo)
}

// CountByStatus 统计用户各状态取件单数量
func (r *GormDeliveryRequestRepository) CountByStatus(userID uint) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.Model(&models.DeliveryRequest{}).
		Select("status, COUNT(*) AS total").
		Where("user_id = ?", userID).
		Group("status").
		Order("status ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByStatusSince 指定状态且创建时间不早于 since 的取件单，按创建时间正序
func (r *GormDeliveryRequestRepository) ListByStatusSince(status string, since time.Time, limit int) ([]models.DeliveryRequest, error) {
	query := r.db.Where("status = ? AND created_at >= ?", status, since).
		Order("created_at ASC").
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var requests []models.DeliveryRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
