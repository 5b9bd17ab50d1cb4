package repository

// DeliveryRequestListFilter 用户取件单列表过滤条件
type DeliveryRequestListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Status   string
	BoxType  string
}

// StatusCount 按状态聚合的数量
type StatusCount struct {
	Status string `json:"status"`
	Total  int64  `json:"total"`
}
