package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/inkwell-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupPostRepositoryTest(t *testing.T) (*GormPostRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}, &models.PostLike{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewPostRepository(db), db
}

func createRepoTestPost(t *testing.T, repo *GormPostRepository, slug, category, status string, tags []string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:    "Post " + slug,
		Slug:     slug,
		Content:  "content for " + slug,
		AuthorID: 1,
		Category: category,
		Tags:     models.StringArray(tags),
		Status:   status,
		IsActive: true,
	}
	if status == "published" {
		now := time.Now()
		post.PublishedAt = &now
	}
	if err := repo.Create(post); err != nil {
		t.Fatalf("create post %s failed: %v", slug, err)
	}
	return post
}

func TestPostListFilters(t *testing.T) {
	repo, _ := setupPostRepositoryTest(t)

	createRepoTestPost(t, repo, "list-tech-published", "technology", "published", []string{"go", "sql"})
	createRepoTestPost(t, repo, "list-travel-published", "travel", "published", []string{"japan"})
	draft := createRepoTestPost(t, repo, "list-tech-draft", "technology", "draft", []string{"go"})

	posts, total, err := repo.List(PostListFilter{OnlyPublished: true, Category: "technology"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(posts) != 1 || posts[0].Slug != "list-tech-published" {
		t.Fatalf("category+published filter mismatch: total=%d posts=%v", total, posts)
	}

	posts, total, err = repo.List(PostListFilter{Tag: "go"})
	if err != nil {
		t.Fatalf("tag list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("tag filter should match 2 posts, got %d", total)
	}

	posts, total, err = repo.List(PostListFilter{Tag: "ja"})
	if err != nil {
		t.Fatalf("partial tag list failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("tag filter must be exact match, got %d results", total)
	}

	_, total, err = repo.List(PostListFilter{Status: "draft"})
	if err != nil {
		t.Fatalf("status list failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("draft filter should match 1 post, got %d", total)
	}

	_, total, err = repo.List(PostListFilter{Search: "list-travel"})
	if err != nil {
		t.Fatalf("search list failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("title search should match 1 post, got %d", total)
	}

	// 下架文章从启用过滤的列表消失
	draft.Status = "published"
	draft.IsActive = false
	if err := repo.Update(draft); err != nil {
		t.Fatalf("update draft failed: %v", err)
	}
	_, total, err = repo.List(PostListFilter{OnlyPublished: true, OnlyActive: true, Category: "technology"})
	if err != nil {
		t.Fatalf("active list failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("inactive post must be excluded, got %d", total)
	}
}

func TestPostListPagination(t *testing.T) {
	repo, _ := setupPostRepositoryTest(t)

	for i := 0; i < 5; i++ {
		createRepoTestPost(t, repo, fmt.Sprintf("page-post-%d", i), "food", "published", nil)
	}

	posts, total, err := repo.List(PostListFilter{Category: "food", Page: 2, PageSize: 2, OrderBy: "id ASC"})
	if err != nil {
		t.Fatalf("paged list failed: %v", err)
	}
	if total != 5 {
		t.Fatalf("total should count all matches, got %d", total)
	}
	if len(posts) != 2 || posts[0].Slug != "page-post-2" || posts[1].Slug != "page-post-3" {
		t.Fatalf("unexpected page content: %v", posts)
	}
}

func TestPostCountBySlug(t *testing.T) {
	repo, _ := setupPostRepositoryTest(t)

	post := createRepoTestPost(t, repo, "count-slug-target", "other", "published", nil)

	count, err := repo.CountBySlug("count-slug-target", nil)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}

	count, err = repo.CountBySlug("count-slug-target", &post.ID)
	if err != nil {
		t.Fatalf("count with exclusion failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("excluding the post itself should give 0, got %d", count)
	}

	count, err = repo.CountBySlug("count-slug-missing", nil)
	if err != nil {
		t.Fatalf("count missing failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("missing slug should count 0, got %d", count)
	}
}

func TestPostIncrementViews(t *testing.T) {
	repo, db := setupPostRepositoryTest(t)

	post := createRepoTestPost(t, repo, "views-increment-target", "other", "published", nil)

	if err := repo.IncrementViews(post.ID, 3); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if err := repo.IncrementViews(post.ID, 2); err != nil {
		t.Fatalf("second increment failed: %v", err)
	}
	if err := repo.IncrementViews(post.ID, 0); err != nil {
		t.Fatalf("zero delta should be a no-op: %v", err)
	}

	var stored models.Post
	if err := db.First(&stored, post.ID).Error; err != nil {
		t.Fatalf("load post failed: %v", err)
	}
	if stored.Views != 5 {
		t.Fatalf("expected 5 views, got %d", stored.Views)
	}
}

func TestPostTopTags(t *testing.T) {
	repo, _ := setupPostRepositoryTest(t)

	createRepoTestPost(t, repo, "toptags-a", "health", "published", []string{"fitness", "sleep"})
	createRepoTestPost(t, repo, "toptags-b", "health", "published", []string{"fitness"})
	createRepoTestPost(t, repo, "toptags-draft", "health", "draft", []string{"hidden-tag"})

	tags, err := repo.TopTags(10)
	if err != nil {
		t.Fatalf("top tags failed: %v", err)
	}
	counts := make(map[string]int64, len(tags))
	for _, tc := range tags {
		counts[tc.Tag] = tc.Count
	}
	if counts["fitness"] != 2 || counts["sleep"] != 1 {
		t.Fatalf("unexpected tag counts: %v", counts)
	}
	if _, ok := counts["hidden-tag"]; ok {
		t.Fatalf("draft-only tags must not appear")
	}
	if len(tags) > 0 && tags[0].Tag != "fitness" {
		t.Fatalf("tags should be ordered by count desc, got %v", tags)
	}

	limited, err := repo.TopTags(1)
	if err != nil {
		t.Fatalf("limited top tags failed: %v", err)
	}
	if len(limited) != 1 || limited[0].Tag != "fitness" {
		t.Fatalf("limit should keep the most used tag, got %v", limited)
	}
}

func TestPostDeleteCascades(t *testing.T) {
	repo, db := setupPostRepositoryTest(t)

	post := createRepoTestPost(t, repo, "delete-cascade-target", "other", "published", nil)
	if err := db.Create(&models.Comment{PostID: post.ID, AuthorID: 1, Content: "hi"}).Error; err != nil {
		t.Fatalf("create comment failed: %v", err)
	}
	if err := db.Create(&models.PostLike{PostID: post.ID, UserID: 1}).Error; err != nil {
		t.Fatalf("create like failed: %v", err)
	}

	if err := repo.Delete(post.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var comments, likes, posts int64
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments)
	db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likes)
	db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&posts)
	if comments != 0 || likes != 0 || posts != 0 {
		t.Fatalf("expected full cleanup, got posts=%d comments=%d likes=%d", posts, comments, likes)
	}
}
