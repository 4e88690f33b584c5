package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/inkwell-api/internal/logger"
	"github.com/inkwell-api/internal/provider"
	"github.com/inkwell-api/internal/queue"
	"github.com/inkwell-api/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPostViewBatch, c.handlePostViewBatch)
}

func (c *Consumer) handlePostViewBatch(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_post_view_batch_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PostViewBatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_post_view_batch_unmarshal_failed", "error", err)
		return err
	}
	if payload.PostID == 0 {
		logger.Debugw("worker_post_view_batch_skip_invalid_payload", "post_id", payload.PostID)
		return nil
	}
	if c.PostService == nil {
		logger.Warnw("worker_post_view_batch_skip_post_service_nil", "post_id", payload.PostID)
		return nil
	}
	if err := c.PostService.ApplyViewBatch(payload.PostID, payload.Count); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			logger.Debugw("worker_post_view_batch_skip_post_not_found", "post_id", payload.PostID)
			return nil
		}
		logger.Warnw("worker_post_view_batch_failed", "post_id", payload.PostID, "error", err)
		return err
	}
	return nil
}
