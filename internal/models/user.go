package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                   // 主键
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`      // 邮箱
	PasswordHash       string         `gorm:"not null;default:''" json:"-"`           // 密码哈希（第三方登录用户为空）
	DisplayName        string         `gorm:"default:''" json:"display_name"`         // 昵称
	AccountType        string         `gorm:"default:'student'" json:"account_type"`  // student / agent
	Locale             string         `gorm:"default:'en-US'" json:"locale"`          // 语言偏好
	Status             string         `gorm:"default:'active'" json:"status"`         // 账号状态
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`            // Token 版本（登出时递增）
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                         // 该时间点前签发的 Token 失效
	LastLoginAt        *time.Time     `json:"last_login_at"`                          // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// UserIdentity 第三方登录身份绑定
type UserIdentity struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Provider  string    `gorm:"type:varchar(32);uniqueIndex:idx_identity_provider_subject;not null" json:"provider"`
	Subject   string    `gorm:"type:varchar(255);uniqueIndex:idx_identity_provider_subject;not null" json:"-"`
	Email     string    `gorm:"default:''" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (UserIdentity) TableName() string {
	return "user_identities"
}
