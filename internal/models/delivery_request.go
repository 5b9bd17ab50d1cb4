package models

import "time"

// DeliveryRequest 取件单
// 说明：创建后不会被本服务删除，状态只由外部调度事件推进。
type DeliveryRequest struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	RequestNo       string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"request_no"` // 对外单号
	UserID          uint      `gorm:"index:idx_delivery_user_created,priority:1;not null" json:"user_id"`
	FullName        string    `gorm:"type:varchar(120);not null" json:"full_name"`
	PhoneNumber     string    `gorm:"type:varchar(32);not null" json:"phone_number"`
	PickupAddress   string    `gorm:"type:text;not null" json:"pickup_address"`
	SchoolName      string    `gorm:"type:varchar(255);not null" json:"school_name"`
	PickupDate      string    `gorm:"type:varchar(10);not null" json:"pickup_date"` // YYYY-MM-DD
	PickupTime      string    `gorm:"type:varchar(16);not null" json:"pickup_time"` // 例如 2:00 PM
	BoxType         string    `gorm:"type:varchar(32);not null" json:"box_type"`
	AdditionalNotes string    `gorm:"type:text" json:"additional_notes"`
	Status          string    `gorm:"type:varchar(32);index;not null" json:"status"`
	CreatedAt       time.Time `gorm:"index:idx_delivery_user_created,priority:2" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName 指定表名
func (DeliveryRequest) TableName() string {
	return "delivery_requests"
}
