package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcatalog "github.com/xiebiao/coursebook/internal/application/catalog"
	appreview "github.com/xiebiao/coursebook/internal/application/review"
	appuser "github.com/xiebiao/coursebook/internal/application/user"
	"github.com/xiebiao/coursebook/internal/domain/course"
	"github.com/xiebiao/coursebook/internal/domain/review"
	"github.com/xiebiao/coursebook/internal/domain/textbook"
	"github.com/xiebiao/coursebook/internal/domain/user"
	"github.com/xiebiao/coursebook/internal/infrastructure/config"
	"github.com/xiebiao/coursebook/internal/infrastructure/events"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
	"github.com/xiebiao/coursebook/internal/infrastructure/persistence/database"
	"github.com/xiebiao/coursebook/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/coursebook/internal/infrastructure/storage"
	"github.com/xiebiao/coursebook/internal/interface/http/handler"
	"github.com/xiebiao/coursebook/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
	"github.com/xiebiao/coursebook/pkg/jwt"
	"github.com/xiebiao/coursebook/pkg/metrics"
	appvalidator "github.com/xiebiao/coursebook/pkg/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := appvalidator.RegisterGin(); err != nil {
		panic(err)
	}
}

// newServer 与cmd/api相同的组装方式，数据库用SQLite内存库，存储用本地目录
func newServer(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: gin.TestMode},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:", AutoMigrate: true},
		JWT:      config.JWTConfig{Secret: "router-test", AccessTokenExpire: time.Hour, RefreshTokenExpire: 24 * time.Hour},
		Storage: config.StorageConfig{
			Driver:        config.StorageLocal,
			LocalDir:      t.TempDir(),
			PublicBaseURL: "/uploads",
			MaxImageBytes: 1 << 20,
		},
		Catalog: config.CatalogConfig{PopularLimit: 6, SearchLimit: 50, PopularCacheTTL: time.Minute},
		Tracing: config.TracingConfig{ServiceName: "coursebook-test"},
		Admin:   config.AdminConfig{Emails: []string{"admin@example.com"}},
	}

	db, err := database.NewDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	log := logger.NewNop()
	m := metrics.New()
	store, err := storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
	require.NoError(t, err)
	cache := redis.NewListingCache(nil, cfg.Catalog.PopularCacheTTL)
	blacklist := redis.NewTokenBlacklist(nil)
	pub := events.NoopPublisher{}
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)

	listings := database.NewListingRepository(db)
	userService := user.NewService(database.NewUserRepository(db))
	courseService := course.NewService(database.NewCourseRepository(db))
	textbookService := textbook.NewService(database.NewTextbookRepository(db), store, storage.NewImageFetcher(cfg, log, m))
	reviewService := review.NewService(database.NewReviewRepository(db), database.NewVoteRepository(db), database.NewTxManager(db))

	h := Handlers{
		Catalog: handler.NewCatalogHandler(cfg,
			appcatalog.NewCreateCourseUseCase(courseService, log),
			appcatalog.NewListCoursesUseCase(courseService),
			appcatalog.NewGetCourseUseCase(courseService, listings, store),
			appcatalog.NewAddTextbookUseCase(courseService, textbookService, cache, pub, store, m, log),
			appcatalog.NewGetTextbooksUseCase(textbookService, store),
			appcatalog.NewPopularTextbooksUseCase(cfg, listings, cache, store, m, log),
			appcatalog.NewSearchUseCase(cfg, listings, store),
		),
		Review: handler.NewReviewHandler(
			appreview.NewSubmitReviewUseCase(reviewService, textbookService, cache, pub, m, log),
			appreview.NewUpdateReviewUseCase(reviewService, cache, pub, m, log),
			appreview.NewDeleteReviewUseCase(reviewService, cache, pub, m, log),
			appreview.NewCastVoteUseCase(reviewService, pub, m, log),
			appreview.NewListReviewsUseCase(reviewService, textbookService),
		),
		User: handler.NewUserHandler(cfg,
			appuser.NewRegisterUseCase(userService, log),
			appuser.NewLoginUseCase(userService, jwtManager, log),
			appuser.NewLogoutUseCase(jwtManager, blacklist),
			appuser.NewRefreshTokenUseCase(userService, jwtManager, blacklist),
			appuser.NewGetProfileUseCase(userService),
			appuser.NewUploadAvatarUseCase(userService, store, m, log),
		),
		Auth:    middleware.NewAuthMiddleware(cfg, jwtManager, blacklist),
		Limiter: middleware.NewRateLimiter(cfg),
	}
	return New(cfg, log, m, h)
}

// envelope 统一响应结构，data延迟解析
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type result struct {
	*httptest.ResponseRecorder
	body envelope
}

func (r result) decode(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body.Data, v), r.Body.String())
}

func send(t *testing.T, srv http.Handler, method, path, token string, body interface{}) result {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return serve(t, srv, req, token)
}

func serve(t *testing.T, srv http.Handler, req *http.Request, token string) result {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	res := result{ResponseRecorder: w}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res.body), w.Body.String())
	}
	return res
}

// signup 注册并登录，返回Access Token
func signup(t *testing.T, srv http.Handler, email, name string) string {
	t.Helper()
	res := send(t, srv, http.MethodPost, "/api/v1/users/register", "", gin.H{
		"email": email, "password": "secret123", "display_name": name,
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	res = send(t, srv, http.MethodPost, "/api/v1/users/login", "", gin.H{
		"email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	var login appuser.LoginResponse
	res.decode(t, &login)
	return login.AccessToken
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newServer(t)

	res := send(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.NotEmpty(t, res.Header().Get(middleware.RequestIDHeader))

	res = send(t, srv, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "http_requests_total")
}

func TestCourseTextbookReviewFlow(t *testing.T) {
	srv := newServer(t)
	admin := signup(t, srv, "admin@example.com", "Admin")
	student := signup(t, srv, "student@example.com", "Student")

	// 课程：非管理员不能新增
	res := send(t, srv, http.MethodPost, "/api/v1/courses", student, gin.H{"code": "COP3502", "title": "Computer Science I"})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = send(t, srv, http.MethodPost, "/api/v1/courses", admin, gin.H{"code": "COP3502", "title": "Computer Science I"})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	assert.Equal(t, "Course added successfully", res.body.Message)
	var created appcatalog.CreateCourseResponse
	res.decode(t, &created)
	slug := created.Course.Slug
	require.Equal(t, "cop3502-computer-science-i", slug)

	// 教材：新建 → 同ISBN再次添加只关联
	book := gin.H{"course_slug": slug, "title": "CS Book", "author": "A. Author", "isbn": "978-0-13-468599-1"}
	res = send(t, srv, http.MethodPost, "/api/v1/textbooks", admin, book)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	assert.Equal(t, appcatalog.MessageCreated, res.body.Message)
	var added struct {
		TextbookID       uint   `json:"textbook_id"`
		CourseTextbookID uint   `json:"course_textbook_id"`
		Outcome          string `json:"outcome"`
	}
	res.decode(t, &added)

	res = send(t, srv, http.MethodPost, "/api/v1/textbooks", admin, gin.H{
		"course_id": created.Course.ID, "title": "Other Title", "author": "Other", "isbn": "9780134685991",
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	assert.Equal(t, appcatalog.MessageLinkedByISBN, res.body.Message)

	res = send(t, srv, http.MethodPost, "/api/v1/textbooks", admin, gin.H{
		"course_slug": slug, "title": "CS Book", "author": "A. Author", "isbn": "123",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, apperrors.ErrCodeInvalidISBN, res.body.Code)

	// 评价
	reviewsPath := fmt.Sprintf("/api/v1/course-textbooks/%d/reviews", added.CourseTextbookID)
	res = send(t, srv, http.MethodPost, "/api/v1/reviews", student, gin.H{
		"course_textbook_id": added.CourseTextbookID, "rating": 4.5,
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, apperrors.ErrCodeInvalidRating, res.body.Code)

	// 评分不是数字同样是评分错误
	res = send(t, srv, http.MethodPost, "/api/v1/reviews", student,
		fmt.Sprintf(`{"course_textbook_id":%d,"rating":"4"}`, added.CourseTextbookID))
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, apperrors.ErrCodeInvalidRating, res.body.Code)

	res = send(t, srv, http.MethodPost, "/api/v1/reviews", "", gin.H{
		"course_textbook_id": added.CourseTextbookID, "rating": 4,
	})
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = send(t, srv, http.MethodPost, "/api/v1/reviews", student, gin.H{
		"course_textbook_id": added.CourseTextbookID, "rating": 4, "text": "Solid", "is_anonymous": true,
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	var submitted appreview.SubmitReviewResponse
	res.decode(t, &submitted)

	res = send(t, srv, http.MethodPost, "/api/v1/reviews", student, gin.H{
		"course_textbook_id": added.CourseTextbookID, "rating": 5,
	})
	assert.Equal(t, http.StatusConflict, res.Code)

	// 投票：非布尔值 → 400；有用 → 1票
	votePath := fmt.Sprintf("/api/v1/reviews/%d/vote", submitted.ID)
	res = send(t, srv, http.MethodPost, votePath, admin, `{"is_upvote":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, res.body.Code)

	res = send(t, srv, http.MethodPost, votePath, admin, `{}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, res.body.Code)

	res = send(t, srv, http.MethodPost, votePath, admin, gin.H{"is_upvote": true})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	var tally appreview.CastVoteResponse
	res.decode(t, &tally)
	assert.Equal(t, int64(1), tally.Upvotes)
	require.NotNil(t, tally.UserVote)
	assert.True(t, *tally.UserVote)

	res = send(t, srv, http.MethodPost, "/api/v1/reviews/9999/vote", admin, gin.H{"is_upvote": true})
	assert.Equal(t, http.StatusNotFound, res.Code)

	// 列表：匿名评价不返回作者
	res = send(t, srv, http.MethodGet, reviewsPath, admin, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	var list appreview.ListReviewsResponse
	res.decode(t, &list)
	require.NotNil(t, list.AverageRating)
	assert.Equal(t, 4.0, *list.AverageRating)
	assert.Equal(t, int64(1), list.ReviewCount)
	require.Len(t, list.Reviews, 1)
	assert.Nil(t, list.Reviews[0].Author)
	assert.False(t, list.Reviews[0].IsOwner)
	require.NotNil(t, list.Reviews[0].UserVote)

	// 别人的评价不能修改
	res = send(t, srv, http.MethodPatch, fmt.Sprintf("/api/v1/reviews/%d", submitted.ID), admin, gin.H{"rating": 1})
	assert.Equal(t, http.StatusForbidden, res.Code)

	// 热门与搜索
	res = send(t, srv, http.MethodGet, "/api/v1/textbooks/popular", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "public, s-maxage=60", res.Header().Get("Cache-Control"))
	var popular appcatalog.ListingsResponse
	res.decode(t, &popular)
	require.Len(t, popular.Textbooks, 1)
	assert.Equal(t, "4.0", popular.Textbooks[0].RatingLabel)

	res = send(t, srv, http.MethodGet, "/api/v1/search?q=978-0134685991", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var found appcatalog.ListingsResponse
	res.decode(t, &found)
	assert.Len(t, found.Textbooks, 1)

	res = send(t, srv, http.MethodGet, "/api/v1/search?q=%20%20", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	found = appcatalog.ListingsResponse{}
	res.decode(t, &found)
	assert.Empty(t, found.Textbooks)

	// 删除后列表为空
	res = send(t, srv, http.MethodDelete, fmt.Sprintf("/api/v1/reviews/%d", submitted.ID), student, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	res = send(t, srv, http.MethodGet, reviewsPath, "", nil)
	list = appreview.ListReviewsResponse{}
	res.decode(t, &list)
	assert.Empty(t, list.Reviews)
	assert.Nil(t, list.AverageRating)
}

func TestMultipartTextbookAndAvatar(t *testing.T) {
	srv := newServer(t)
	admin := signup(t, srv, "admin@example.com", "Admin")

	res := send(t, srv, http.MethodPost, "/api/v1/courses", admin, gin.H{"code": "MAC2311", "title": "Calculus I"})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	var created appcatalog.CreateCourseResponse
	res.decode(t, &created)

	png := []byte("\x89PNG\r\n\x1a\nfake-image")
	req := multipartRequest(t, "/api/v1/textbooks", map[string]string{
		"course_id": fmt.Sprint(created.Course.ID),
		"title":     "Calculus",
		"author":    "Stewart",
		"edition":   "8th",
	}, "image", "cover.png", png)
	res = serve(t, srv, req, admin)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	res = send(t, srv, http.MethodGet, "/api/v1/courses/"+created.Course.Slug, "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var detail appcatalog.GetCourseResponse
	res.decode(t, &detail)
	require.Len(t, detail.Textbooks, 1)
	imageURL := detail.Textbooks[0].Textbook.ImageURL
	require.NotNil(t, imageURL)

	// 本地存储的文件由本服务提供
	res = send(t, srv, http.MethodGet, *imageURL, "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, png, res.Body.Bytes())

	// 不支持的扩展名
	req = multipartRequest(t, "/api/v1/textbooks", map[string]string{
		"course_id": fmt.Sprint(created.Course.ID), "title": "Linear Algebra", "author": "Strang",
	}, "image", "cover.bmp", png)
	res = serve(t, srv, req, admin)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, apperrors.ErrCodeInvalidImageFormat, res.body.Code)

	// 头像
	req = multipartRequest(t, "/api/v1/users/me/avatar", nil, "avatar", "me.jpg", []byte("jpeg-bytes"))
	res = serve(t, srv, req, admin)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	var avatar appuser.UploadAvatarResponse
	res.decode(t, &avatar)
	assert.True(t, strings.HasSuffix(avatar.AvatarURL, ".jpg"))

	res = send(t, srv, http.MethodGet, "/api/v1/users/me", admin, nil)
	var me appuser.UserInfo
	res.decode(t, &me)
	assert.Equal(t, avatar.AvatarURL, me.AvatarURL)
}

func TestLogoutRevokesToken(t *testing.T) {
	srv := newServer(t)
	token := signup(t, srv, "student@example.com", "Student")

	res := send(t, srv, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, res.Code)

	res = send(t, srv, http.MethodPost, "/api/v1/users/logout", token, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	res = send(t, srv, http.MethodGet, "/api/v1/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func multipartRequest(t *testing.T, path string, fields map[string]string, fileField, filename string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile(fileField, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
