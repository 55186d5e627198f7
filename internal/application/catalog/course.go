package catalog

import (
	"context"

	"github.com/xiebiao/coursebook/internal/domain/course"
	"github.com/xiebiao/coursebook/internal/domain/textbook"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
	"github.com/xiebiao/coursebook/pkg/tracing"
)

// CreateCourseUseCase 新增课程（管理员）
// slug由课程代码+名称生成，冲突时追加序号，重试上限见course.MaxSlugAttempts
type CreateCourseUseCase struct {
	courseService course.Service
	log           *logger.Logger
}

// NewCreateCourseUseCase 创建新增课程用例
func NewCreateCourseUseCase(courseService course.Service, log *logger.Logger) *CreateCourseUseCase {
	return &CreateCourseUseCase{courseService: courseService, log: log}
}

// Execute 执行新增课程
func (uc *CreateCourseUseCase) Execute(ctx context.Context, req CreateCourseRequest) (resp *CreateCourseResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "catalog.CreateCourse")
	defer func() { tracing.End(span, err) }()

	c, err := uc.courseService.CreateCourse(ctx, req.Code, req.Title)
	if err != nil {
		return nil, err
	}

	uc.log.Info("课程已创建", "course_id", c.ID, "slug", c.Slug)
	return &CreateCourseResponse{
		Message: "Course added successfully",
		Course:  courseInfo(c),
	}, nil
}

// ListCoursesUseCase 课程列表（按code排序，可按关键字过滤）
type ListCoursesUseCase struct {
	courseService course.Service
}

// NewListCoursesUseCase 创建课程列表用例
func NewListCoursesUseCase(courseService course.Service) *ListCoursesUseCase {
	return &ListCoursesUseCase{courseService: courseService}
}

// Execute 执行查询
func (uc *ListCoursesUseCase) Execute(ctx context.Context, req ListCoursesRequest) (*ListCoursesResponse, error) {
	summaries, err := uc.courseService.ListCourses(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	courses := make([]CourseSummary, 0, len(summaries))
	for _, s := range summaries {
		courses = append(courses, CourseSummary{
			CourseInfo:    courseInfo(&s.Course),
			TextbookCount: s.TextbookCount,
		})
	}
	return &ListCoursesResponse{Courses: courses}, nil
}

// GetCourseUseCase 课程详情：课程本身 + 该课程下的全部教材及评分汇总
type GetCourseUseCase struct {
	courseService course.Service
	listings      textbook.ListingRepository
	urls          URLResolver
}

// NewGetCourseUseCase 创建课程详情用例
func NewGetCourseUseCase(courseService course.Service, listings textbook.ListingRepository, urls URLResolver) *GetCourseUseCase {
	return &GetCourseUseCase{courseService: courseService, listings: listings, urls: urls}
}

// Execute 执行查询
func (uc *GetCourseUseCase) Execute(ctx context.Context, req GetCourseRequest) (*GetCourseResponse, error) {
	c, err := uc.courseService.GetBySlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}

	listings, err := uc.listings.ListByCourse(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	return &GetCourseResponse{
		Course:    courseInfo(c),
		Textbooks: listingInfos(listings, uc.urls),
	}, nil
}

// =========================================
// 应用层DTO
// =========================================

// CreateCourseRequest 新增课程请求
type CreateCourseRequest struct {
	Code  string
	Title string
}

// CreateCourseResponse 新增课程响应
type CreateCourseResponse struct {
	Message string     `json:"message"`
	Course  CourseInfo `json:"course"`
}

// ListCoursesRequest 课程列表请求
type ListCoursesRequest struct {
	Query string
}

// CourseSummary 课程列表项
type CourseSummary struct {
	CourseInfo
	TextbookCount int64 `json:"textbook_count"`
}

// ListCoursesResponse 课程列表响应
type ListCoursesResponse struct {
	Courses []CourseSummary `json:"courses"`
}

// GetCourseRequest 课程详情请求
type GetCourseRequest struct {
	Slug string
}

// GetCourseResponse 课程详情响应
type GetCourseResponse struct {
	Course    CourseInfo    `json:"course"`
	Textbooks []ListingInfo `json:"textbooks"`
}
