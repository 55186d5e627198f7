package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/coursebook/internal/domain/course"
	"github.com/xiebiao/coursebook/internal/domain/review"
	"github.com/xiebiao/coursebook/internal/domain/textbook"
	"github.com/xiebiao/coursebook/internal/infrastructure/config"
	"github.com/xiebiao/coursebook/internal/infrastructure/events"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
	"github.com/xiebiao/coursebook/internal/infrastructure/persistence/database"
	"github.com/xiebiao/coursebook/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/coursebook/internal/infrastructure/storage"
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
	"github.com/xiebiao/coursebook/pkg/metrics"
)

// fixture 真实仓储（SQLite内存库）+ 本地存储 + 进程内缓存
type fixture struct {
	cfg       *config.Config
	db        *gorm.DB
	store     *storage.LocalStore
	cache     *redis.LocalListingCache
	publisher *recordingPublisher
	metrics   *metrics.Metrics
	reviewers int

	createCourse *CreateCourseUseCase
	listCourses  *ListCoursesUseCase
	getCourse    *GetCourseUseCase
	addTextbook  *AddTextbookUseCase
	popular      *PopularTextbooksUseCase
	search       *SearchUseCase
	getTextbooks *GetTextbooksUseCase
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) {
	p.events = append(p.events, e)
}

type stubFetcher struct {
	img *textbook.Image
	err error
}

func (f stubFetcher) Fetch(context.Context, string) (*textbook.Image, error) {
	return f.img, f.err
}

func newFixture(t *testing.T, fetcher textbook.ImageFetcher) *fixture {
	t.Helper()

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:", AutoMigrate: true},
		Catalog:  config.CatalogConfig{PopularLimit: 6, SearchLimit: 50, PopularCacheTTL: time.Minute},
	}
	db, err := database.NewDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store, err := storage.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	if fetcher == nil {
		fetcher = stubFetcher{err: textbook.ErrImageFetchFailed}
	}

	log := logger.NewNop()
	m := metrics.New()
	cache := redis.NewLocalListingCache(time.Minute)
	pub := &recordingPublisher{}

	courseService := course.NewService(database.NewCourseRepository(db))
	textbookService := textbook.NewService(database.NewTextbookRepository(db), store, fetcher)
	listings := database.NewListingRepository(db)

	return &fixture{
		cfg:       cfg,
		db:        db,
		store:     store,
		cache:     cache,
		publisher: pub,
		metrics:   m,

		createCourse: NewCreateCourseUseCase(courseService, log),
		listCourses:  NewListCoursesUseCase(courseService),
		getCourse:    NewGetCourseUseCase(courseService, listings, store),
		addTextbook:  NewAddTextbookUseCase(courseService, textbookService, cache, pub, store, m, log),
		popular:      NewPopularTextbooksUseCase(cfg, listings, cache, store, m, log),
		search:       NewSearchUseCase(cfg, listings, store),
		getTextbooks: NewGetTextbooksUseCase(textbookService, store),
	}
}

func (f *fixture) countLinks(t *testing.T) int64 {
	var n int64
	require.NoError(t, f.db.Model(&database.CourseTextbookModel{}).Count(&n).Error)
	return n
}

func (f *fixture) review(t *testing.T, courseTextbookID uint, ratings ...int) {
	t.Helper()
	for i, rating := range ratings {
		f.reviewers++
		u := &database.UserModel{Email: fmt.Sprintf("reviewer%d@example.com", f.reviewers), Password: "x", DisplayName: "reviewer"}
		require.NoError(t, f.db.Create(u).Error)
		require.NoError(t, f.db.Create(&database.ReviewModel{
			UserID:           u.ID,
			CourseTextbookID: courseTextbookID,
			Rating:           rating,
			CreatedAt:        time.Now().Add(time.Duration(i) * time.Second),
			UpdatedAt:        time.Now(),
		}).Error)
	}
}

func TestCatalogEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	// 1. 新建课程，slug由代码+名称生成
	created, err := f.createCourse.Execute(ctx, CreateCourseRequest{Code: "COP3502", Title: "Computer Science I"})
	require.NoError(t, err)
	assert.Equal(t, "Course added successfully", created.Message)
	assert.Equal(t, "cop3502-computer-science-i", created.Course.Slug)

	// 2. 第一次添加：新建教材并关联
	req := AddTextbookRequest{
		CourseSlug: created.Course.Slug,
		Title:      "CS Book",
		Author:     "A. Author",
		ISBN:       "978-0-13-468599-1",
	}
	first, err := f.addTextbook.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, MessageCreated, first.Message)
	require.NotNil(t, first.Textbook.ISBN)
	assert.Equal(t, "9780134685991", *first.Textbook.ISBN)

	// 3. 再加一次同一本：按ISBN命中，只有一条关联
	second, err := f.addTextbook.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, MessageLinkedByISBN, second.Message)
	assert.Equal(t, first.TextbookID, second.TextbookID)
	assert.Equal(t, first.CourseTextbookID, second.CourseTextbookID)
	assert.Equal(t, int64(1), f.countLinks(t))

	// 4. 没有ISBN时按(title, author, edition)命中
	req.ISBN = ""
	third, err := f.addTextbook.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, MessageLinkedExisting, third.Message)
	assert.Equal(t, int64(1), f.countLinks(t))

	require.Len(t, f.publisher.events, 3)
	assert.Equal(t, events.TextbookAdded, f.publisher.events[0].Type)

	// 5. 课程详情带出教材，零评价显示"no rating"
	detail, err := f.getCourse.Execute(ctx, GetCourseRequest{Slug: created.Course.Slug})
	require.NoError(t, err)
	require.Len(t, detail.Textbooks, 1)
	assert.Nil(t, detail.Textbooks[0].AverageRating)
	assert.Equal(t, review.NoRatingLabel, detail.Textbooks[0].RatingLabel)

	list, err := f.listCourses.Execute(ctx, ListCoursesRequest{Query: "cop"})
	require.NoError(t, err)
	require.Len(t, list.Courses, 1)
	assert.Equal(t, int64(1), list.Courses[0].TextbookCount)
}

func TestCreateCourse_SlugCollision(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	for i, want := range []string{"cop3502-cs-i", "cop3502-cs-i-2", "cop3502-cs-i-3", "cop3502-cs-i-4", "cop3502-cs-i-5"} {
		resp, err := f.createCourse.Execute(ctx, CreateCourseRequest{Code: "COP3502", Title: "CS I"})
		require.NoError(t, err, "attempt %d", i+1)
		assert.Equal(t, want, resp.Course.Slug)
	}

	_, err := f.createCourse.Execute(ctx, CreateCourseRequest{Code: "COP3502", Title: "CS I"})
	assert.ErrorIs(t, err, course.ErrSlugExhausted)
}

func TestAddTextbook_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("课程不存在", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.addTextbook.Execute(ctx, AddTextbookRequest{CourseSlug: "missing", Title: "T", Author: "A"})
		assert.ErrorIs(t, err, course.ErrCourseNotFound)
	})

	t.Run("缺少课程标识", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.addTextbook.Execute(ctx, AddTextbookRequest{Title: "T", Author: "A"})
		assert.ErrorIs(t, err, course.ErrMissingIdentifier)
	})

	t.Run("ISBN非法时不写库", func(t *testing.T) {
		f := newFixture(t, nil)
		c, err := f.createCourse.Execute(ctx, CreateCourseRequest{Code: "MAC2311", Title: "Calculus"})
		require.NoError(t, err)

		_, err = f.addTextbook.Execute(ctx, AddTextbookRequest{CourseID: c.Course.ID, Title: "T", Author: "A", ISBN: "abc"})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidISBN))

		var n int64
		require.NoError(t, f.db.Model(&database.TextbookModel{}).Count(&n).Error)
		assert.Zero(t, n)
	})

	t.Run("封面扩展名非法时不写库", func(t *testing.T) {
		f := newFixture(t, nil)
		c, err := f.createCourse.Execute(ctx, CreateCourseRequest{Code: "MAC2311", Title: "Calculus"})
		require.NoError(t, err)

		_, err = f.addTextbook.Execute(ctx, AddTextbookRequest{
			CourseID: c.Course.ID, Title: "T", Author: "A",
			Image: &textbook.Image{Filename: "cover.bmp", Data: []byte("x")},
		})
		assert.ErrorIs(t, err, textbook.ErrInvalidImageFormat)
		assert.Zero(t, f.countLinks(t))
	})

	t.Run("远程封面拉取失败：教材保留但不关联", func(t *testing.T) {
		f := newFixture(t, nil)
		c, err := f.createCourse.Execute(ctx, CreateCourseRequest{Code: "MAC2311", Title: "Calculus"})
		require.NoError(t, err)

		_, err = f.addTextbook.Execute(ctx, AddTextbookRequest{
			CourseID: c.Course.ID, Title: "T", Author: "A", ImageURL: "https://example.com/cover.png",
		})
		assert.ErrorIs(t, err, textbook.ErrImageFetchFailed)

		var n int64
		require.NoError(t, f.db.Model(&database.TextbookModel{}).Count(&n).Error)
		assert.Equal(t, int64(1), n)
		assert.Zero(t, f.countLinks(t))
	})
}

func TestAddTextbook_StoresCover(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, stubFetcher{img: &textbook.Image{ContentType: "image/png", Data: []byte("png")}})

	c, err := f.createCourse.Execute(ctx, CreateCourseRequest{Code: "COT3100", Title: "Discrete Structures"})
	require.NoError(t, err)

	resp, err := f.addTextbook.Execute(ctx, AddTextbookRequest{
		CourseID: c.Course.ID, Title: "Discrete Math", Author: "Rosen", Edition: "8th",
		ImageURL: "https://example.com/cover",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Textbook.ImageURL)
	assert.Equal(t, f.store.URL(textbook.ImageKey(resp.TextbookID, "png")), *resp.Textbook.ImageURL)

	got, err := f.getTextbooks.Execute(ctx, GetTextbooksRequest{IDs: []uint{resp.TextbookID, 9999}})
	require.NoError(t, err)
	require.Len(t, got.Textbooks, 1)
	assert.Equal(t, "8th", *got.Textbooks[0].Edition)

	empty, err := f.getTextbooks.Execute(ctx, GetTextbooksRequest{})
	require.NoError(t, err)
	assert.Empty(t, empty.Textbooks)
	assert.NotNil(t, empty.Textbooks)
}

func TestPopularAndSearch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	c, err := f.createCourse.Execute(ctx, CreateCourseRequest{Code: "COP3502", Title: "Computer Science I"})
	require.NoError(t, err)

	add := func(title, author, isbn string) uint {
		resp, err := f.addTextbook.Execute(ctx, AddTextbookRequest{CourseID: c.Course.ID, Title: title, Author: author, ISBN: isbn})
		require.NoError(t, err)
		return resp.CourseTextbookID
	}
	low := add("Intro to Java", "Liang", "0-13-394519-9")
	high := add("Data Structures", "Weiss", "")
	unrated := add("Algorithms", "Sedgewick", "")
	f.review(t, low, 2, 3)
	f.review(t, high, 5, 4)

	t.Run("热门榜单排序，无评价排最后", func(t *testing.T) {
		resp, err := f.popular.Execute(ctx, PopularTextbooksRequest{})
		require.NoError(t, err)
		require.Len(t, resp.Textbooks, 3)
		assert.Equal(t, high, resp.Textbooks[0].CourseTextbookID)
		assert.Equal(t, low, resp.Textbooks[1].CourseTextbookID)
		assert.Equal(t, unrated, resp.Textbooks[2].CourseTextbookID)
		assert.InDelta(t, 4.5, *resp.Textbooks[0].AverageRating, 1e-9)
		assert.Equal(t, "4.5", resp.Textbooks[0].RatingLabel)
	})

	t.Run("第二次命中缓存", func(t *testing.T) {
		_, ok, err := f.cache.GetPopular(ctx, 6)
		require.NoError(t, err)
		assert.True(t, ok)

		resp, err := f.popular.Execute(ctx, PopularTextbooksRequest{Limit: 1})
		require.NoError(t, err)
		require.Len(t, resp.Textbooks, 1)
		assert.Equal(t, high, resp.Textbooks[0].CourseTextbookID)
	})

	t.Run("搜索按平均分排序", func(t *testing.T) {
		resp, err := f.search.Execute(ctx, SearchRequest{Query: "  cop3502 "})
		require.NoError(t, err)
		require.Len(t, resp.Textbooks, 3)
		assert.Equal(t, high, resp.Textbooks[0].CourseTextbookID)
	})

	t.Run("按作者搜索忽略大小写", func(t *testing.T) {
		resp, err := f.search.Execute(ctx, SearchRequest{Query: "WEISS"})
		require.NoError(t, err)
		require.Len(t, resp.Textbooks, 1)
		assert.Equal(t, high, resp.Textbooks[0].CourseTextbookID)
	})

	t.Run("按ISBN片段搜索", func(t *testing.T) {
		resp, err := f.search.Execute(ctx, SearchRequest{Query: "394519"})
		require.NoError(t, err)
		require.Len(t, resp.Textbooks, 1)
		assert.Equal(t, low, resp.Textbooks[0].CourseTextbookID)
	})

	t.Run("不含数字的查询不按ISBN匹配", func(t *testing.T) {
		add("Operating Systems", "Tanenbaum", "0-8044-2957-X")

		resp, err := f.search.Execute(ctx, SearchRequest{Query: "Linux"})
		require.NoError(t, err)
		assert.Empty(t, resp.Textbooks)

		resp, err = f.search.Execute(ctx, SearchRequest{Query: "2957x"})
		require.NoError(t, err)
		require.Len(t, resp.Textbooks, 1)
		assert.Equal(t, "Operating Systems", resp.Textbooks[0].Textbook.Title)
	})

	t.Run("通配符按字面匹配", func(t *testing.T) {
		for _, q := range []string{"%", "_", "Data_Structures", "Intro%Java"} {
			resp, err := f.search.Execute(ctx, SearchRequest{Query: q})
			require.NoError(t, err)
			assert.Empty(t, resp.Textbooks, "query %q", q)
		}
	})

	t.Run("空查询返回空数组", func(t *testing.T) {
		resp, err := f.search.Execute(ctx, SearchRequest{Query: "   "})
		require.NoError(t, err)
		assert.NotNil(t, resp.Textbooks)
		assert.Empty(t, resp.Textbooks)
	})
}
