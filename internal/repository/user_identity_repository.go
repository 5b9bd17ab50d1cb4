package repository

import (
	"errors"

	"github.com/gobox-app/internal/models"

	"gorm.io/gorm"
)

// UserIdentityRepository 第三方身份绑定数据访问接口
type UserIdentityRepository interface {
	GetByProviderSubject(provider, subject string) (*models.UserIdentity, error)
	Create(identity *models.UserIdentity) error
}

// GormUserIdentityRepository GORM 实现
type GormUserIdentityRepository struct {
	db *gorm.DB
}

// NewUserIdentityRepository 创建身份绑定仓库
func NewUserIdentityRepository(db *gorm.DB) *GormUserIdentityRepository {
	return &GormUserIdentityRepository{db: db}
}

func (r *GormUserIdentityRepository) GetByProviderSubject(provider, subject string) (*models.UserIdentity, error) {
	var identity models.UserIdentity
	err := r.db.Where("provider = ? AND subject = ?", provider, subject).First(&identity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &identity, nil
}

func (r *GormUserIdentityRepository) Create(identity *models.UserIdentity) error {
	return r.db.Create(identity).Error
}
