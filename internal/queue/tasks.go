package queue

import (
	"encoding/json"

	"github.com/inkwell-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPostViewBatch 浏览计数批量累加任务
	TaskPostViewBatch = constants.TaskPostViewBatch
)

// PostViewBatchPayload 浏览计数任务载荷
type PostViewBatchPayload struct {
	PostID uint  `json:"post_id"`
	Count  int64 `json:"count"`
}

// NewPostViewBatchTask 创建浏览计数任务
func NewPostViewBatchTask(payload PostViewBatchPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPostViewBatch, body), nil
}
