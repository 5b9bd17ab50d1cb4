package queue

import (
	"encoding/json"

	"github.com/gobox-app/internal/constants"

	"github.com/hibiken/asynq"
)

// TaskDeliveryRequestCreated 新取件单转发任务
const TaskDeliveryRequestCreated = constants.TaskDeliveryRequestCreated

// DeliveryRequestCreatedPayload 转发任务载荷，worker 按单号回查后发布事件
type DeliveryRequestCreatedPayload struct {
	RequestNo string `json:"request_no"`
	UserID    uint   `json:"user_id"`
}

// NewDeliveryRequestCreatedTask 创建转发任务
func NewDeliveryRequestCreatedTask(payload DeliveryRequestCreatedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDeliveryRequestCreated, body), nil
}

// ParseDeliveryRequestCreated 解析转发任务载荷
func ParseDeliveryRequestCreated(task *asynq.Task) (DeliveryRequestCreatedPayload, error) {
	var payload DeliveryRequestCreatedPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
