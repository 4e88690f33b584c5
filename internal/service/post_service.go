package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/inkwell-api/internal/authz"
	"github.com/inkwell-api/internal/cache"
	"github.com/inkwell-api/internal/constants"
	"github.com/inkwell-api/internal/logger"
	"github.com/inkwell-api/internal/models"
	"github.com/inkwell-api/internal/queue"
	"github.com/inkwell-api/internal/repository"
)

// 创建时 slug 与唯一索引竞态的重试上限
const slugCreateMaxAttempts = 3

// PostService 文章生命周期:创建/更新时统一走一个保存前派生管线
// (slug、阅读时长、发布时间戳),保证单独改内容不会重算 slug,
// 单独改标题不会重算阅读时长。
type PostService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	likes    repository.LikeRepository
	queue    *queue.Client
}

func NewPostService(posts repository.PostRepository, comments repository.CommentRepository, likes repository.LikeRepository, queueClient *queue.Client) *PostService {
	return &PostService{
		posts:    posts,
		comments: comments,
		likes:    likes,
		queue:    queueClient,
	}
}

// CreatePostInput 创建文章参数
type CreatePostInput struct {
	Title    string
	Content  string
	Excerpt  string
	Category string
	Tags     []string
	Status   string
}

// UpdatePostInput 更新文章参数,nil 字段表示不修改。
type UpdatePostInput struct {
	Title    *string
	Content  *string
	Excerpt  *string
	Category *string
	Tags     *[]string
	Status   *string
}

// PostDetail 详情读模型,聚合点赞与评论信息。
type PostDetail struct {
	Post         *models.Post `json:"post"`
	LikeCount    int64        `json:"like_count"`
	CommentCount int64        `json:"comment_count"`
	Liked        bool         `json:"liked"`
}

// LikeResult 点赞切换结果
type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// Create 创建文章。slug 冲突检查与写入之间存在竞态窗口,
// 唯一索引拒绝后重新派生 slug 并有限重试。
func (s *PostService) Create(authorID uint, input CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(input.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	category, err := normalizeCategory(input.Category)
	if err != nil {
		return nil, err
	}
	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.PostStatusDraft
	}
	if status != constants.PostStatusDraft && status != constants.PostStatusPublished {
		return nil, ErrInvalidStatus
	}

	content := input.Content
	post := &models.Post{
		Title:       title,
		Content:     content,
		Excerpt:     strings.TrimSpace(input.Excerpt),
		AuthorID:    authorID,
		Category:    category,
		Tags:        normalizeTags(input.Tags),
		Status:      status,
		ReadingTime: calculateReadingTime(content),
		IsActive:    true,
	}
	if status == constants.PostStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	base := slugify(title)
	for attempt := 0; attempt < slugCreateMaxAttempts; attempt++ {
		slug, err := s.resolveUniqueSlug(base, nil)
		if err != nil {
			return nil, err
		}
		post.Slug = slug
		if err := s.posts.Create(post); err != nil {
			if isUniqueViolation(err) {
				logger.Warnw("post_slug_race_retry",
					"slug", slug,
					"attempt", attempt+1,
				)
				continue
			}
			return nil, err
		}
		logger.Infow("post_created",
			"post_id", post.ID,
			"slug", post.Slug,
			"status", post.Status,
		)
		s.invalidateTagCache()
		return post, nil
	}
	return nil, ErrSlugExists
}

// Update 更新文章。派生字段只在各自来源变化时重算:
// 标题变了才换 slug,内容变了才重算阅读时长,
// 首次进入 published 才落发布时间戳。
func (s *PostService) Update(identity authz.Identity, postID uint, input UpdatePostInput) (*models.Post, error) {
	post, err := s.posts.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if !authz.CanModify(identity, post.AuthorID) {
		return nil, ErrNotPostOwner
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		if title != post.Title {
			post.Title = title
			slug, err := s.resolveUniqueSlug(slugify(title), &post.ID)
			if err != nil {
				return nil, err
			}
			post.Slug = slug
		}
	}
	if input.Content != nil && *input.Content != post.Content {
		post.Content = *input.Content
		post.ReadingTime = calculateReadingTime(post.Content)
	}
	if input.Excerpt != nil {
		post.Excerpt = strings.TrimSpace(*input.Excerpt)
	}
	if input.Category != nil {
		category, err := normalizeCategory(*input.Category)
		if err != nil {
			return nil, err
		}
		post.Category = category
	}
	if input.Tags != nil {
		post.Tags = normalizeTags(*input.Tags)
	}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		switch status {
		case constants.PostStatusDraft, constants.PostStatusPublished, constants.PostStatusArchived:
		default:
			return nil, ErrInvalidStatus
		}
		post.Status = status
		if status == constants.PostStatusPublished && post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
		}
	}

	if err := s.posts.Update(post); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugExists
		}
		return nil, err
	}
	logger.Infow("post_updated", "post_id", post.ID, "slug", post.Slug)
	s.invalidateTagCache()
	return post, nil
}

// Delete 硬删除文章及其评论与点赞记录。
func (s *PostService) Delete(identity authz.Identity, postID uint) error {
	post, err := s.posts.GetByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	if !authz.CanModify(identity, post.AuthorID) {
		return ErrNotPostOwner
	}
	if err := s.posts.Delete(postID); err != nil {
		return err
	}
	logger.Infow("post_deleted", "post_id", postID, "by_user", identity.UserID)
	s.invalidateTagCache()
	return nil
}

// ListPublished 公开列表,只返回已发布且未下架的文章。
func (s *PostService) ListPublished(filter repository.PostListFilter) ([]models.Post, int64, error) {
	filter.OnlyPublished = true
	filter.OnlyActive = true
	filter.WithAuthor = true
	return s.posts.List(filter)
}

// GetPublishedBySlug 公开详情。浏览计数通过队列异步累加,
// 队列不可用时退化为同步自增;计数失败不影响读取。
func (s *PostService) GetPublishedBySlug(slug string, viewer authz.Identity) (*PostDetail, error) {
	post, err := s.posts.GetBySlug(slug, true)
	if err != nil {
		return nil, err
	}
	if post == nil || !post.IsActive {
		return nil, ErrNotFound
	}

	s.recordView(post.ID)

	detail := &PostDetail{Post: post}
	if detail.LikeCount, err = s.likes.CountByPost(post.ID); err != nil {
		return nil, err
	}
	if detail.CommentCount, err = s.comments.CountByPost(post.ID); err != nil {
		return nil, err
	}
	if !viewer.Anonymous() {
		if detail.Liked, err = s.likes.Exists(post.ID, viewer.UserID); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// GetForEdit 编辑视图,仅作者本人或管理员可读,不增加浏览计数。
func (s *PostService) GetForEdit(identity authz.Identity, postID uint) (*models.Post, error) {
	post, err := s.posts.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if !authz.CanModify(identity, post.AuthorID) {
		return nil, ErrNotPostOwner
	}
	return post, nil
}

// ListByAuthor 作者后台列表,包含草稿与已归档文章。
func (s *PostService) ListByAuthor(authorID uint, filter repository.PostListFilter) ([]models.Post, int64, error) {
	filter.AuthorID = authorID
	filter.OnlyPublished = false
	filter.OnlyActive = false
	return s.posts.List(filter)
}

// ListAll 管理端列表,可按任意状态过滤。
func (s *PostService) ListAll(filter repository.PostListFilter) ([]models.Post, int64, error) {
	filter.WithAuthor = true
	return s.posts.List(filter)
}

// ToggleLike 切换点赞状态,返回切换后的状态与总数。
// 并发加点赞靠联合唯一索引兜底:撞索引视为已点赞。
func (s *PostService) ToggleLike(userID uint, postID uint) (*LikeResult, error) {
	post, err := s.visiblePost(postID)
	if err != nil {
		return nil, err
	}

	liked, err := s.likes.Exists(post.ID, userID)
	if err != nil {
		return nil, err
	}
	if liked {
		if err := s.likes.Remove(post.ID, userID); err != nil {
			return nil, err
		}
		liked = false
	} else {
		if err := s.likes.Add(post.ID, userID); err != nil && !isUniqueViolation(err) {
			return nil, err
		}
		liked = true
	}

	count, err := s.likes.CountByPost(post.ID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: liked, LikeCount: count}, nil
}

// AddComment 追加评论,内容长度限制在 1 到 1000 字符。
func (s *PostService) AddComment(userID uint, postID uint, content string) (*models.Comment, error) {
	post, err := s.visiblePost(postID)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(content)
	// 长度按字符数计,多字节内容不受字节数影响
	if n := utf8.RuneCountInString(trimmed); n < constants.CommentMinLength || n > constants.CommentMaxLength {
		return nil, ErrInvalidComment
	}

	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: userID,
		Content:  trimmed,
	}
	if err := s.comments.Create(comment); err != nil {
		return nil, err
	}
	created, err := s.comments.GetByID(comment.ID)
	if err != nil || created == nil {
		return comment, nil
	}
	return created, nil
}

// Categories 返回固定分类枚举。
func (s *PostService) Categories() []string {
	out := make([]string, len(constants.PostCategories))
	copy(out, constants.PostCategories)
	return out
}

// TopTags 返回使用次数最多的标签,按次数降序。
// 结果带 TTL 缓存,文章写操作时主动失效;redis 关闭时直接回表。
func (s *PostService) TopTags() ([]repository.TagCount, error) {
	ctx := context.Background()
	if tags, hit, err := cache.GetTopTags(ctx); err == nil && hit {
		return tags, nil
	}
	tags, err := s.posts.TopTags(constants.TopTagsLimit)
	if err != nil {
		return nil, err
	}
	if err := cache.SetTopTags(ctx, tags); err != nil {
		logger.Warnw("top_tags_cache_set_failed", "error", err)
	}
	return tags, nil
}

func (s *PostService) invalidateTagCache() {
	if err := cache.DelTopTags(context.Background()); err != nil {
		logger.Warnw("top_tags_cache_del_failed", "error", err)
	}
}

// ApplyViewBatch 执行浏览计数累加,由队列 worker 调用。
func (s *PostService) ApplyViewBatch(postID uint, count int64) error {
	if count <= 0 {
		count = 1
	}
	return s.posts.IncrementViews(postID, count)
}

func (s *PostService) recordView(postID uint) {
	if s.queue.Enabled() {
		err := s.queue.EnqueuePostViewBatch(queue.PostViewBatchPayload{PostID: postID, Count: 1})
		if err == nil {
			return
		}
		logger.Warnw("post_view_enqueue_failed", "post_id", postID, "error", err)
	}
	if err := s.posts.IncrementViews(postID, 1); err != nil {
		logger.Warnw("post_view_increment_failed", "post_id", postID, "error", err)
	}
}

// visiblePost 查找可被公开交互的文章(已发布且未下架)。
func (s *PostService) visiblePost(postID uint) (*models.Post, error) {
	post, err := s.posts.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil || !post.IsActive || post.Status != constants.PostStatusPublished {
		return nil, ErrNotFound
	}
	return post, nil
}

// resolveUniqueSlug 从基础 slug 开始做冲突循环:base、base-1、base-2 ...
// 存在性检查排除自身 ID,重存未变的标题不会追加后缀。
func (s *PostService) resolveUniqueSlug(base string, excludeID *uint) (string, error) {
	for n := 0; ; n++ {
		candidate := nextSlugCandidate(base, n)
		count, err := s.posts.CountBySlug(candidate, excludeID)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
}

func validateTitle(title string) error {
	if n := utf8.RuneCountInString(title); n < constants.TitleMinLength || n > constants.TitleMaxLength {
		return ErrInvalidTitle
	}
	return nil
}

func normalizeCategory(category string) (string, error) {
	trimmed := strings.TrimSpace(category)
	for _, c := range constants.PostCategories {
		if c == trimmed {
			return trimmed, nil
		}
	}
	return "", ErrInvalidCategory
}

// normalizeTags 去掉空白标签并按首次出现顺序去重。
func normalizeTags(tags []string) models.StringArray {
	out := make(models.StringArray, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

// calculateReadingTime 按每分钟 200 词向上取整,空内容为 0。
func calculateReadingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + constants.ReadingWordsPerMinute - 1) / constants.ReadingWordsPerMinute
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
