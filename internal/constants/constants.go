package constants

// 用户角色常量
const (
	UserRoleUser  = "user"
	UserRoleAdmin = "admin"
)

// 文章状态常量
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// 文章分类常量（固定枚举）
const (
	PostCategoryTechnology = "technology"
	PostCategoryLifestyle  = "lifestyle"
	PostCategoryTravel     = "travel"
	PostCategoryFood       = "food"
	PostCategoryBusiness   = "business"
	PostCategoryHealth     = "health"
	PostCategoryEducation  = "education"
	PostCategoryOther      = "other"
)

// PostCategories 分类展示顺序
var PostCategories = []string{
	PostCategoryTechnology,
	PostCategoryLifestyle,
	PostCategoryTravel,
	PostCategoryFood,
	PostCategoryBusiness,
	PostCategoryHealth,
	PostCategoryEducation,
	PostCategoryOther,
}

// 评论长度限制
const (
	CommentMinLength = 1
	CommentMaxLength = 1000
)

// 标题长度限制
const (
	TitleMinLength = 1
	TitleMaxLength = 200
)

// 阅读速度（词/分钟），用于估算阅读时长
const ReadingWordsPerMinute = 200

// 热门标签返回数量上限
const TopTagsLimit = 20

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneLogin    = "login"
	CaptchaSceneRegister = "register"
)

// 队列常量
const (
	QueueDefault      = "default"
	TaskPostViewBatch = "post:view_batch"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "ink"
)
