package catalog

import (
	"context"
	"time"

	"github.com/xiebiao/coursebook/internal/domain/course"
	"github.com/xiebiao/coursebook/internal/domain/textbook"
	"github.com/xiebiao/coursebook/internal/infrastructure/events"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
	"github.com/xiebiao/coursebook/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/coursebook/pkg/metrics"
	"github.com/xiebiao/coursebook/pkg/tracing"
)

// 三种结果对应的提示信息
const (
	MessageLinkedByISBN   = "Linked existing textbook to course by ISBN"
	MessageLinkedExisting = "Linked existing textbook to course"
	MessageCreated        = "Textbook added and linked to course successfully"
)

// AddTextbookUseCase 向课程添加教材（管理员）
// 流程：
// 1. 解析课程（courseId优先，其次courseSlug）
// 2. 教材去重与关联交给textbook领域服务（ISBN → (title, author, edition) → 新建）
// 3. 成功后清空热门榜单缓存并发布textbook.added事件
//
// 注意：新建教材、上传封面、写关联是三步独立写入，不在同一事务里。
// 封面上传失败时教材行保留（image_path为空）且不写关联，需要重新提交。
type AddTextbookUseCase struct {
	courseService   course.Service
	textbookService textbook.Service
	cache           redis.ListingCache
	publisher       events.Publisher
	urls            URLResolver
	metrics         *metrics.Metrics
	log             *logger.Logger
}

// NewAddTextbookUseCase 创建添加教材用例
func NewAddTextbookUseCase(
	courseService course.Service,
	textbookService textbook.Service,
	cache redis.ListingCache,
	publisher events.Publisher,
	urls URLResolver,
	m *metrics.Metrics,
	log *logger.Logger,
) *AddTextbookUseCase {
	return &AddTextbookUseCase{
		courseService:   courseService,
		textbookService: textbookService,
		cache:           cache,
		publisher:       publisher,
		urls:            urls,
		metrics:         m,
		log:             log,
	}
}

// Execute 执行添加
func (uc *AddTextbookUseCase) Execute(ctx context.Context, req AddTextbookRequest) (resp *AddTextbookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "catalog.AddTextbook")
	defer func() { tracing.End(span, err) }()

	// 1. 解析课程
	c, err := uc.courseService.Resolve(ctx, req.CourseID, req.CourseSlug)
	if err != nil {
		return nil, err
	}

	// 2. 去重、建教材、传封面、建关联
	result, err := uc.textbookService.AddToCourse(ctx, c.ID, textbook.Draft{
		Title:    req.Title,
		Author:   req.Author,
		Edition:  req.Edition,
		ISBN:     req.ISBN,
		Image:    req.Image,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		uc.log.Warn("添加教材失败", "course_id", c.ID, "error", err)
		return nil, err
	}

	outcome, message := describe(result.Outcome)
	uc.metrics.TextbooksAddedTotal.WithLabelValues(outcome).Inc()

	// 3. 评分榜单里多了一条关联，缓存失效（失败只记日志，缓存有TTL兜底）
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn("清空热门榜单缓存失败", "error", err)
	}
	uc.publisher.Publish(ctx, events.Event{
		Type:             events.TextbookAdded,
		CourseTextbookID: result.Link.ID,
		OccurredAt:       time.Now(),
	})

	uc.log.Info("教材已关联到课程",
		"course_id", c.ID,
		"textbook_id", result.Textbook.ID,
		"course_textbook_id", result.Link.ID,
		"outcome", outcome,
	)

	return &AddTextbookResponse{
		Message:          message,
		Outcome:          outcome,
		TextbookID:       result.Textbook.ID,
		CourseTextbookID: result.Link.ID,
		Textbook:         textbookInfo(result.Textbook, uc.urls),
	}, nil
}

// describe 结果 → (指标标签, 提示信息)
func describe(o textbook.Outcome) (string, string) {
	switch o {
	case textbook.LinkedByISBN:
		return "linked_by_isbn", MessageLinkedByISBN
	case textbook.LinkedExisting:
		return "linked_existing", MessageLinkedExisting
	default:
		return "created", MessageCreated
	}
}

// =========================================
// 应用层DTO
// =========================================

// AddTextbookRequest 添加教材请求
// JSON与multipart两种请求体在接口层被解码成同一个结构
type AddTextbookRequest struct {
	CourseID   uint
	CourseSlug string
	Title      string
	Author     string
	Edition    string
	ISBN       string
	Image      *textbook.Image // 上传的封面
	ImageURL   string          // 远程封面地址，Image为空时使用
}

// AddTextbookResponse 添加教材响应
type AddTextbookResponse struct {
	Message          string       `json:"message"`
	Outcome          string       `json:"outcome"`
	TextbookID       uint         `json:"textbook_id"`
	CourseTextbookID uint         `json:"course_textbook_id"`
	Textbook         TextbookInfo `json:"textbook"`
}
