package main

import (
	"strings"
	"time"

	"github.com/inkwell-api/internal/config"
	"github.com/inkwell-api/internal/constants"
	"github.com/inkwell-api/internal/logger"
	"github.com/inkwell-api/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加示例用户
	users := []models.User{
		{
			Username:    "alice",
			Email:       "alice@example.com",
			DisplayName: "Alice Chen",
			Bio:         "Writes about distributed systems and coffee.",
			Role:        constants.UserRoleUser,
			IsActive:    true,
		},
		{
			Username:    "bob",
			Email:       "bob@example.com",
			DisplayName: "Bob Liu",
			Bio:         "Frontend tinkerer.",
			Role:        constants.UserRoleUser,
			IsActive:    true,
		},
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash seed password: %v", err)
	}
	userIDs := map[string]uint{}
	for _, u := range users {
		var existing models.User
		if err := models.DB.Where("username = ?", u.Username).First(&existing).Error; err != nil {
			u.PasswordHash = string(hash)
			if err := models.DB.Create(&u).Error; err != nil {
				stdLog.Printf("Failed to create user %s: %v", u.Username, err)
				continue
			}
			stdLog.Printf("Created user: %s", u.Username)
			userIDs[u.Username] = u.ID
		} else {
			stdLog.Printf("User already exists: %s", u.Username)
			userIDs[u.Username] = existing.ID
		}
	}

	// 添加示例文章
	now := time.Now()
	posts := []models.Post{
		{
			Title:    "Getting Started with Go Modules",
			Slug:     "getting-started-with-go-modules",
			Content:  strings.Repeat("Go modules are the standard way to manage dependencies. ", 40),
			Excerpt:  "A practical walk-through of go.mod, versions and workspaces.",
			AuthorID: userIDs["alice"],
			Category: constants.PostCategoryTechnology,
			Tags:     models.StringArray{"go", "tooling"},
			Status:   constants.PostStatusPublished,
			IsActive: true,
		},
		{
			Title:    "A Week in Kyoto",
			Slug:     "a-week-in-kyoto",
			Content:  strings.Repeat("Temples, tea houses and quiet streets at dawn. ", 60),
			Excerpt:  "Travel notes from seven slow days in Kyoto.",
			AuthorID: userIDs["bob"],
			Category: constants.PostCategoryTravel,
			Tags:     models.StringArray{"japan", "travel"},
			Status:   constants.PostStatusPublished,
			IsActive: true,
		},
		{
			Title:    "Draft: Thoughts on Habit Tracking",
			Slug:     "draft-thoughts-on-habit-tracking",
			Content:  "Still collecting notes on this one.",
			AuthorID: userIDs["alice"],
			Category: constants.PostCategoryLifestyle,
			Tags:     models.StringArray{"habits"},
			Status:   constants.PostStatusDraft,
			IsActive: true,
		},
	}
	for i := range posts {
		post := &posts[i]
		var existing models.Post
		if err := models.DB.Where("slug = ?", post.Slug).First(&existing).Error; err != nil {
			words := len(strings.Fields(post.Content))
			post.ReadingTime = (words + constants.ReadingWordsPerMinute - 1) / constants.ReadingWordsPerMinute
			if post.Status == constants.PostStatusPublished {
				publishedAt := now
				post.PublishedAt = &publishedAt
			}
			if err := models.DB.Create(post).Error; err != nil {
				stdLog.Printf("Failed to create post %s: %v", post.Slug, err)
				continue
			}
			stdLog.Printf("Created post: %s", post.Slug)
		} else {
			stdLog.Printf("Post already exists: %s", post.Slug)
			post.ID = existing.ID
		}
	}

	// 添加示例评论
	if postID := posts[0].ID; postID != 0 && userIDs["bob"] != 0 {
		var count int64
		models.DB.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count)
		if count == 0 {
			comment := models.Comment{
				PostID:   postID,
				AuthorID: userIDs["bob"],
				Content:  "Great overview, the workspace section helped a lot.",
			}
			if err := models.DB.Create(&comment).Error; err != nil {
				stdLog.Printf("Failed to create comment: %v", err)
			} else {
				stdLog.Printf("Created comment on post %d", postID)
			}
		}
	}

	stdLog.Println("Seed completed")
}
