package worker

import (
	"context"
	"testing"
	"time"

	"github.com/inkwell-api/internal/models"
	"github.com/inkwell-api/internal/provider"
	"github.com/inkwell-api/internal/queue"
	"github.com/inkwell-api/internal/repository"
	"github.com/inkwell-api/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}, &models.PostLike{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	container := &provider.Container{
		PostService: service.NewPostService(
			repository.NewPostRepository(db),
			repository.NewCommentRepository(db),
			repository.NewLikeRepository(db),
			nil,
		),
	}
	return NewConsumer(container), db
}

func createWorkerTestPost(t *testing.T, db *gorm.DB, slug string) *models.Post {
	t.Helper()
	now := time.Now()
	post := &models.Post{
		Title:       "Worker Post " + slug,
		Slug:        slug,
		Content:     "content",
		AuthorID:    1,
		Category:    "technology",
		Status:      "published",
		PublishedAt: &now,
		IsActive:    true,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	return post
}

func TestHandlePostViewBatch(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	post := createWorkerTestPost(t, db, "worker-view-batch")

	task, err := queue.NewPostViewBatchTask(queue.PostViewBatchPayload{PostID: post.ID, Count: 4})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handlePostViewBatch(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}

	var stored models.Post
	if err := db.First(&stored, post.ID).Error; err != nil {
		t.Fatalf("load post failed: %v", err)
	}
	if stored.Views != 4 {
		t.Fatalf("expected 4 views, got %d", stored.Views)
	}
}

func TestHandlePostViewBatchBadPayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	task := asynq.NewTask(queue.TaskPostViewBatch, []byte(`not json`))
	if err := consumer.handlePostViewBatch(context.Background(), task); err == nil {
		t.Fatalf("malformed payload should surface an error")
	}

	// 无效 post_id 静默跳过,任务不重试
	task = asynq.NewTask(queue.TaskPostViewBatch, []byte(`{"post_id":0,"count":3}`))
	if err := consumer.handlePostViewBatch(context.Background(), task); err != nil {
		t.Fatalf("zero post id should be skipped, got %v", err)
	}
}

func TestRegisterNilSafe(t *testing.T) {
	var consumer *Consumer
	consumer.Register(nil)

	mux := asynq.NewServeMux()
	NewConsumer(nil).Register(mux)
}
