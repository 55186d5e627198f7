package dto

// CreateCourseRequest HTTP新增课程请求
type CreateCourseRequest struct {
	Code  string `json:"code" binding:"required,notblank,max=32" example:"COP3502"`
	Title string `json:"title" binding:"required,notblank,max=200" example:"Computer Science I"`
}

// ListCoursesRequest HTTP课程列表请求
type ListCoursesRequest struct {
	Query string `form:"query" binding:"max=100" example:"cop"`
}

// AddTextbookRequest HTTP添加教材请求
// 同时支持application/json与multipart/form-data；multipart时封面文件字段名为image
// course_id与course_slug二选一，course_id优先
// title/author的必填校验在领域层，保证两种请求体得到同样的提示
type AddTextbookRequest struct {
	CourseID   uint   `json:"course_id" form:"course_id" example:"1"`
	CourseSlug string `json:"course_slug" form:"course_slug" binding:"max=255" example:"cop3502-computer-science-i"`
	Title      string `json:"title" form:"title" binding:"max=200" example:"CS Book"`
	Author     string `json:"author" form:"author" binding:"max=200" example:"A. Author"`
	Edition    string `json:"edition" form:"edition" binding:"max=50" example:"3rd"`
	ISBN       string `json:"isbn" form:"isbn" binding:"isbn" example:"978-0-13-468599-1"`
	ImageURL   string `json:"image_url" form:"image_url" binding:"omitempty,url,max=500" example:"https://example.com/cover.jpg"`
}

// AddTextbookResponse HTTP添加教材响应（message在外层Response中）
type AddTextbookResponse struct {
	TextbookID       uint   `json:"textbook_id" example:"1"`
	CourseTextbookID uint   `json:"course_textbook_id" example:"1"`
	Outcome          string `json:"outcome" example:"created"`
}

// PopularRequest HTTP热门教材请求
type PopularRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=50" example:"6"`
}

// SearchRequest HTTP搜索请求
type SearchRequest struct {
	Q string `form:"q" binding:"max=200" example:"9780134685991"`
}
