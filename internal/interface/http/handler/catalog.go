package handler

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/coursebook/internal/application/catalog"
	"github.com/xiebiao/coursebook/internal/infrastructure/config"
	"github.com/xiebiao/coursebook/internal/interface/http/dto"
	"github.com/xiebiao/coursebook/pkg/response"
)

// CatalogHandler 课程与教材HTTP处理器
type CatalogHandler struct {
	createCourse *appcatalog.CreateCourseUseCase
	listCourses  *appcatalog.ListCoursesUseCase
	getCourse    *appcatalog.GetCourseUseCase
	addTextbook  *appcatalog.AddTextbookUseCase
	getTextbooks *appcatalog.GetTextbooksUseCase
	popular      *appcatalog.PopularTextbooksUseCase
	search       *appcatalog.SearchUseCase

	maxImageBytes int64
	popularMaxAge int
}

// NewCatalogHandler 创建课程与教材处理器
func NewCatalogHandler(
	cfg *config.Config,
	createCourse *appcatalog.CreateCourseUseCase,
	listCourses *appcatalog.ListCoursesUseCase,
	getCourse *appcatalog.GetCourseUseCase,
	addTextbook *appcatalog.AddTextbookUseCase,
	getTextbooks *appcatalog.GetTextbooksUseCase,
	popular *appcatalog.PopularTextbooksUseCase,
	search *appcatalog.SearchUseCase,
) *CatalogHandler {
	maxAge := int(cfg.Catalog.PopularCacheTTL.Seconds())
	if maxAge <= 0 {
		maxAge = 60
	}
	return &CatalogHandler{
		createCourse:  createCourse,
		listCourses:   listCourses,
		getCourse:     getCourse,
		addTextbook:   addTextbook,
		getTextbooks:  getTextbooks,
		popular:       popular,
		search:        search,
		maxImageBytes: cfg.Storage.MaxImageBytes,
		popularMaxAge: maxAge,
	}
}

// CreateCourse 新增课程
// @Summary      新增课程
// @Description  管理员新增课程，slug由code和title生成，冲突时追加数字后缀
// @Tags         课程
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        request body dto.CreateCourseRequest true "课程信息"
// @Success      201 {object} response.Response{data=appcatalog.CreateCourseResponse} "新增成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "非管理员"
// @Failure      409 {object} response.Response "slug重试耗尽"
// @Router       /api/v1/courses [post]
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.createCourse.Execute(c.Request.Context(), appcatalog.CreateCourseRequest{
		Code:  req.Code,
		Title: req.Title,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result.Message, result)
}

// ListCourses 课程列表
// @Summary      课程列表
// @Description  按code/title/slug模糊过滤（忽略大小写），按code排序
// @Tags         课程
// @Produce      json
// @Param        query query string false "过滤关键字"
// @Success      200 {object} response.Response{data=appcatalog.ListCoursesResponse}
// @Router       /api/v1/courses [get]
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	var req dto.ListCoursesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.listCourses.Execute(c.Request.Context(), appcatalog.ListCoursesRequest{Query: req.Query})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetCourse 课程详情
// @Summary      课程详情
// @Tags         课程
// @Produce      json
// @Param        slug path string true "课程slug"
// @Success      200 {object} response.Response{data=appcatalog.GetCourseResponse}
// @Failure      404 {object} response.Response "课程不存在"
// @Router       /api/v1/courses/{slug} [get]
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	result, err := h.getCourse.Execute(c.Request.Context(), appcatalog.GetCourseRequest{Slug: c.Param("slug")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AddTextbook 添加教材到课程
// @Summary      添加教材到课程
// @Description  ISBN已存在则直接关联；否则按书名+作者+版次查找；都没有时新建教材
// @Description  支持JSON或multipart/form-data（封面文件字段image）
// @Tags         教材
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Security     Bearer
// @Param        request body dto.AddTextbookRequest true "教材信息"
// @Success      201 {object} response.Response{data=dto.AddTextbookResponse} "添加成功"
// @Failure      400 {object} response.Response "参数错误/ISBN非法/图片格式错误"
// @Failure      404 {object} response.Response "课程不存在"
// @Failure      409 {object} response.Response "已关联"
// @Failure      502 {object} response.Response "封面上传失败"
// @Router       /api/v1/textbooks [post]
func (h *CatalogHandler) AddTextbook(c *gin.Context) {
	// 1. 两种请求体汇聚为同一个应用层请求
	var (
		req appcatalog.AddTextbookRequest
		err error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		req, err = h.decodeMultipart(c)
	} else {
		req, err = decodeAddTextbookJSON(c)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	// 2. 调用用例
	result, err := h.addTextbook.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result.Message, &dto.AddTextbookResponse{
		TextbookID:       result.TextbookID,
		CourseTextbookID: result.CourseTextbookID,
		Outcome:          result.Outcome,
	})
}

func decodeAddTextbookJSON(c *gin.Context) (appcatalog.AddTextbookRequest, error) {
	var body dto.AddTextbookRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		return appcatalog.AddTextbookRequest{}, bindError(err)
	}
	return toAddTextbookRequest(body), nil
}

func (h *CatalogHandler) decodeMultipart(c *gin.Context) (appcatalog.AddTextbookRequest, error) {
	var body dto.AddTextbookRequest
	if err := c.ShouldBind(&body); err != nil {
		return appcatalog.AddTextbookRequest{}, bindError(err)
	}
	req := toAddTextbookRequest(body)

	img, err := readImage(c, "image", h.maxImageBytes)
	if err != nil {
		return appcatalog.AddTextbookRequest{}, err
	}
	req.Image = img
	return req, nil
}

func toAddTextbookRequest(body dto.AddTextbookRequest) appcatalog.AddTextbookRequest {
	return appcatalog.AddTextbookRequest{
		CourseID:   body.CourseID,
		CourseSlug: body.CourseSlug,
		Title:      body.Title,
		Author:     body.Author,
		Edition:    body.Edition,
		ISBN:       body.ISBN,
		ImageURL:   body.ImageURL,
	}
}

// GetTextbooks 按ID批量查询教材
// @Summary      按ID批量查询教材
// @Tags         教材
// @Produce      json
// @Param        ids query string false "逗号分隔的教材ID"
// @Success      200 {object} response.Response{data=appcatalog.GetTextbooksResponse}
// @Failure      400 {object} response.Response "ID格式错误"
// @Router       /api/v1/textbooks [get]
func (h *CatalogHandler) GetTextbooks(c *gin.Context) {
	ids, err := parseIDs(c.Query("ids"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.getTextbooks.Execute(c.Request.Context(), appcatalog.GetTextbooksRequest{IDs: ids})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Popular 热门教材
// @Summary      热门教材
// @Description  按平均分降序（无评分排最后）、评价数降序；结果可被CDN缓存
// @Tags         教材
// @Produce      json
// @Param        limit query int false "数量（默认6）"
// @Success      200 {object} response.Response{data=appcatalog.ListingsResponse}
// @Router       /api/v1/textbooks/popular [get]
func (h *CatalogHandler) Popular(c *gin.Context) {
	var req dto.PopularRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.popular.Execute(c.Request.Context(), appcatalog.PopularTextbooksRequest{Limit: req.Limit})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Cache-Control", fmt.Sprintf("public, s-maxage=%d", h.popularMaxAge))
	response.Success(c, result)
}

// Search 搜索教材
// @Summary      搜索教材
// @Description  书名/作者/课程code/课程title模糊匹配，或ISBN（忽略连字符）
// @Tags         教材
// @Produce      json
// @Param        q query string false "关键字"
// @Success      200 {object} response.Response{data=appcatalog.ListingsResponse}
// @Router       /api/v1/search [get]
func (h *CatalogHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.search.Execute(c.Request.Context(), appcatalog.SearchRequest{Query: req.Q})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
