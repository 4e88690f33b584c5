package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/inkwell-api/internal/config"
	"github.com/inkwell-api/internal/constants"
	"github.com/inkwell-api/internal/models"
	"github.com/inkwell-api/internal/provider"
	"github.com/inkwell-api/internal/repository"
	"github.com/inkwell-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRouterTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}, &models.PostLike{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.Mode = "debug"
	cfg.JWT.SecretKey = "router-test-secret"
	cfg.JWT.ExpireHours = 1
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{MinLength: 8}
	cfg.Captcha.Provider = constants.CaptchaProviderNone

	container := &provider.Container{
		Config:      cfg,
		UserRepo:    repository.NewUserRepository(db),
		PostRepo:    repository.NewPostRepository(db),
		CommentRepo: repository.NewCommentRepository(db),
		LikeRepo:    repository.NewLikeRepository(db),
	}
	container.CaptchaService = service.NewCaptchaService(cfg.Captcha)
	container.AuthService = service.NewAuthService(container.UserRepo, cfg, container.CaptchaService)
	container.UserService = service.NewUserService(container.UserRepo)
	container.PostService = service.NewPostService(container.PostRepo, container.CommentRepo, container.LikeRepo, nil)

	return SetupRouter(cfg, container), db
}

type apiEnvelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token, body string) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)

	var envelope apiEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("%s %s: unmarshal envelope failed: %v (%s)", method, path, err, w.Body.String())
	}
	return w, envelope
}

func registerRouterTestUser(t *testing.T, r *gin.Engine, name string) (string, uint) {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":"%s@example.com","password":"secret1234"}`, name, name)
	_, envelope := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", body)
	if envelope.StatusCode != 0 {
		t.Fatalf("register %s failed: %+v", name, envelope)
	}
	var data struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		t.Fatalf("unmarshal register data failed: %v", err)
	}
	if data.Token == "" {
		t.Fatalf("register should issue a token")
	}
	return data.Token, data.User.ID
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := setupRouterTest(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ok") {
		t.Fatalf("health check failed: %d %s", w.Code, w.Body.String())
	}
}

func TestBlogLifecycleOverHTTP(t *testing.T) {
	r, _ := setupRouterTest(t)
	token, _ := registerRouterTestUser(t, r, "router-lifecycle")

	// 创建文章
	createBody := `{"title":"Router Lifecycle Post","content":"hello from the router test","category":"technology","tags":["go"],"status":"published"}`
	_, envelope := doJSON(t, r, http.MethodPost, "/api/v1/blogs", token, createBody)
	if envelope.StatusCode != 0 {
		t.Fatalf("create blog failed: %+v", envelope)
	}
	var created models.Post
	if err := json.Unmarshal(envelope.Data, &created); err != nil {
		t.Fatalf("unmarshal created post failed: %v", err)
	}
	if created.Slug != "router-lifecycle-post" {
		t.Fatalf("unexpected slug %q", created.Slug)
	}

	// 匿名读取详情
	_, envelope = doJSON(t, r, http.MethodGet, "/api/v1/blogs/"+created.Slug, "", "")
	if envelope.StatusCode != 0 {
		t.Fatalf("get blog failed: %+v", envelope)
	}

	// 点赞与评论
	_, envelope = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/blogs/%d/like", created.ID), token, "")
	if envelope.StatusCode != 0 {
		t.Fatalf("like failed: %+v", envelope)
	}
	_, envelope = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/blogs/%d/comments", created.ID), token, `{"content":"nice post"}`)
	if envelope.StatusCode != 0 {
		t.Fatalf("comment failed: %+v", envelope)
	}

	// 列表包含新文章
	_, envelope = doJSON(t, r, http.MethodGet, "/api/v1/blogs?category=technology", "", "")
	if envelope.StatusCode != 0 {
		t.Fatalf("list failed: %+v", envelope)
	}
	if !strings.Contains(string(envelope.Data), "router-lifecycle-post") {
		t.Fatalf("list should contain the new post: %s", envelope.Data)
	}

	// 未认证写入被拒绝
	_, envelope = doJSON(t, r, http.MethodPost, "/api/v1/blogs", "", createBody)
	if envelope.StatusCode != 401 {
		t.Fatalf("anonymous create should be 401, got %+v", envelope)
	}

	// 删除后详情消失
	_, envelope = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/blogs/%d", created.ID), token, "")
	if envelope.StatusCode != 0 {
		t.Fatalf("delete failed: %+v", envelope)
	}
	_, envelope = doJSON(t, r, http.MethodGet, "/api/v1/blogs/"+created.Slug, "", "")
	if envelope.StatusCode != 404 {
		t.Fatalf("deleted blog should be 404, got %+v", envelope)
	}
}

func TestBlogOwnershipOverHTTP(t *testing.T) {
	r, _ := setupRouterTest(t)
	ownerToken, _ := registerRouterTestUser(t, r, "router-owner")
	strangerToken, _ := registerRouterTestUser(t, r, "router-stranger")

	createBody := `{"title":"Ownership HTTP Post","content":"body","category":"other"}`
	_, envelope := doJSON(t, r, http.MethodPost, "/api/v1/blogs", ownerToken, createBody)
	if envelope.StatusCode != 0 {
		t.Fatalf("create blog failed: %+v", envelope)
	}
	var created models.Post
	if err := json.Unmarshal(envelope.Data, &created); err != nil {
		t.Fatalf("unmarshal created post failed: %v", err)
	}

	_, envelope = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/blogs/%d", created.ID), strangerToken, `{"title":"Hijacked"}`)
	if envelope.StatusCode != 403 {
		t.Fatalf("stranger edit should be 403, got %+v", envelope)
	}
	_, envelope = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/blogs/%d", created.ID), strangerToken, "")
	if envelope.StatusCode != 403 {
		t.Fatalf("stranger delete should be 403, got %+v", envelope)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	r, db := setupRouterTest(t)
	userToken, _ := registerRouterTestUser(t, r, "router-plain-user")
	adminToken, adminID := registerRouterTestUser(t, r, "router-admin-user")
	if err := db.Model(&models.User{}).Where("id = ?", adminID).Update("role", constants.UserRoleAdmin).Error; err != nil {
		t.Fatalf("promote admin failed: %v", err)
	}

	_, envelope := doJSON(t, r, http.MethodGet, "/api/v1/admin/users", userToken, "")
	if envelope.StatusCode != 403 {
		t.Fatalf("plain user should be 403 on admin routes, got %+v", envelope)
	}

	_, envelope = doJSON(t, r, http.MethodGet, "/api/v1/admin/users", adminToken, "")
	if envelope.StatusCode != 0 {
		t.Fatalf("admin list users failed: %+v", envelope)
	}
}

func TestProfileRoundTripOverHTTP(t *testing.T) {
	r, _ := setupRouterTest(t)
	token, userID := registerRouterTestUser(t, r, "router-profile")

	_, envelope := doJSON(t, r, http.MethodPut, "/api/v1/auth/profile", token, `{"display_name":"Router Tester","bio":"hello"}`)
	if envelope.StatusCode != 0 {
		t.Fatalf("update profile failed: %+v", envelope)
	}

	_, envelope = doJSON(t, r, http.MethodGet, "/api/v1/auth/profile", token, "")
	if envelope.StatusCode != 0 {
		t.Fatalf("get profile failed: %+v", envelope)
	}
	var profile models.User
	if err := json.Unmarshal(envelope.Data, &profile); err != nil {
		t.Fatalf("unmarshal profile failed: %v", err)
	}
	if profile.ID != userID || profile.DisplayName != "Router Tester" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}
