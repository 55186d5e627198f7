package handler

import (
	"github.com/gin-gonic/gin"

	appreview "github.com/xiebiao/coursebook/internal/application/review"
	"github.com/xiebiao/coursebook/internal/domain/review"
	"github.com/xiebiao/coursebook/internal/interface/http/dto"
	"github.com/xiebiao/coursebook/internal/interface/http/middleware"
	"github.com/xiebiao/coursebook/pkg/response"
)

// ReviewHandler 评价与投票HTTP处理器
type ReviewHandler struct {
	submit *appreview.SubmitReviewUseCase
	update *appreview.UpdateReviewUseCase
	remove *appreview.DeleteReviewUseCase
	vote   *appreview.CastVoteUseCase
	list   *appreview.ListReviewsUseCase
}

// NewReviewHandler 创建评价处理器
func NewReviewHandler(
	submit *appreview.SubmitReviewUseCase,
	update *appreview.UpdateReviewUseCase,
	remove *appreview.DeleteReviewUseCase,
	vote *appreview.CastVoteUseCase,
	list *appreview.ListReviewsUseCase,
) *ReviewHandler {
	return &ReviewHandler{submit: submit, update: update, remove: remove, vote: vote, list: list}
}

// List 评价列表
// @Summary      课程-教材下的评价
// @Description  返回评分汇总与按投票得分排序的评价；登录时附带自己的投票状态
// @Tags         评价
// @Produce      json
// @Param        id path int true "课程-教材ID"
// @Success      200 {object} response.Response{data=appreview.ListReviewsResponse}
// @Failure      404 {object} response.Response "课程-教材不存在"
// @Router       /api/v1/course-textbooks/{id}/reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.list.Execute(c.Request.Context(), appreview.ListReviewsRequest{
		CourseTextbookID: id,
		ViewerID:         middleware.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Submit 发表评价
// @Summary      发表评价
// @Description  每个用户对同一课程-教材只能评价一次
// @Tags         评价
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        request body dto.SubmitReviewRequest true "评价内容"
// @Success      201 {object} response.Response{data=appreview.SubmitReviewResponse}
// @Failure      400 {object} response.Response "评分非法"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "课程-教材不存在"
// @Failure      409 {object} response.Response "重复评价"
// @Router       /api/v1/reviews [post]
func (h *ReviewHandler) Submit(c *gin.Context) {
	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	// 未传评分按评分非法处理
	if req.Rating == nil {
		response.Error(c, review.ErrInvalidRating)
		return
	}

	result, err := h.submit.Execute(c.Request.Context(), appreview.SubmitReviewRequest{
		UserID:           middleware.GetUserID(c),
		CourseTextbookID: req.CourseTextbookID,
		Rating:           *req.Rating,
		Text:             req.Text,
		IsAnonymous:      req.IsAnonymous,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Review submitted", result)
}

// Update 修改评价
// @Summary      修改评价
// @Description  只能修改自己的评价，未传的字段保持不变
// @Tags         评价
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id path int true "评价ID"
// @Param        request body dto.UpdateReviewRequest true "修改内容"
// @Success      200 {object} response.Response{data=appreview.OKResponse}
// @Failure      403 {object} response.Response "不是作者"
// @Failure      404 {object} response.Response "评价不存在"
// @Router       /api/v1/reviews/{id} [patch]
func (h *ReviewHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.update.Execute(c.Request.Context(), appreview.UpdateReviewRequest{
		UserID:      middleware.GetUserID(c),
		ReviewID:    id,
		Rating:      req.Rating,
		Text:        req.Text,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除评价
// @Summary      删除评价
// @Description  只能删除自己的评价，评价下的投票一并删除
// @Tags         评价
// @Produce      json
// @Security     Bearer
// @Param        id path int true "评价ID"
// @Success      200 {object} response.Response{data=appreview.OKResponse}
// @Failure      403 {object} response.Response "不是作者"
// @Failure      404 {object} response.Response "评价不存在"
// @Router       /api/v1/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.remove.Execute(c.Request.Context(), appreview.DeleteReviewRequest{
		UserID:   middleware.GetUserID(c),
		ReviewID: id,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Vote 投票
// @Summary      评价投票
// @Description  首次投票新增；同方向再投撤销；反方向再投改票
// @Tags         评价
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id path int true "评价ID"
// @Param        request body dto.VoteRequest true "投票方向"
// @Success      200 {object} response.Response{data=appreview.CastVoteResponse}
// @Failure      400 {object} response.Response "is_upvote必须是布尔值"
// @Failure      404 {object} response.Response "评价不存在"
// @Failure      409 {object} response.Response "并发重复投票"
// @Router       /api/v1/reviews/{id}/vote [post]
func (h *ReviewHandler) Vote(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.vote.Execute(c.Request.Context(), appreview.CastVoteRequest{
		UserID:   middleware.GetUserID(c),
		ReviewID: id,
		IsUpvote: *req.IsUpvote,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
