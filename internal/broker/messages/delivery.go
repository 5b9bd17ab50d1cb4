package messages

import "time"

// DeliveryRequestCreated 新取件单事件，供外部调度方派单
type DeliveryRequestCreated struct {
	RequestNo     string    `json:"request_no"`
	UserID        uint      `json:"user_id"`
	SchoolName    string    `json:"school_name"`
	PickupAddress string    `json:"pickup_address"`
	PickupDate    string    `json:"pickup_date"`
	PickupTime    string    `json:"pickup_time"`
	BoxType       string    `json:"box_type"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// DeliveryStatusUpdated 调度方回推的状态变更
type DeliveryStatusUpdated struct {
	RequestNo string     `json:"request_no"`
	Status    string     `json:"status"`
	StatusAt  *time.Time `json:"status_at,omitempty"`
}
