package handler

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/coursebook/internal/domain/review"
	"github.com/xiebiao/coursebook/internal/interface/http/dto"
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
	"github.com/xiebiao/coursebook/pkg/isbn"
	appvalidator "github.com/xiebiao/coursebook/pkg/validator"
)

func init() {
	if err := appvalidator.RegisterGin(); err != nil {
		panic(err)
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs("")
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)

	ids, err = parseIDs("3, 1,,2")
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 1, 2}, ids)

	_, err = parseIDs("1,abc")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))

	_, err = parseIDs("0")
	assert.Error(t, err)
}

func TestBindError(t *testing.T) {
	t.Run("ISBN校验失败", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(&dto.AddTextbookRequest{Title: "T", Author: "A", ISBN: "12345"})
		require.Error(t, err)
		assert.ErrorIs(t, bindError(err), isbn.ErrInvalid)
	})

	t.Run("其他字段校验失败", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(&dto.CreateCourseRequest{Code: "   ", Title: "Calculus"})
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(bindError(err), apperrors.ErrCodeInvalidParams))
	})

	t.Run("评分不是数字返回评分错误", func(t *testing.T) {
		for _, body := range []string{`{"course_textbook_id":1,"rating":"4"}`, `{"course_textbook_id":1,"rating":true}`} {
			var req dto.SubmitReviewRequest
			err := binding.JSON.BindBody([]byte(body), &req)
			require.Error(t, err)
			assert.ErrorIs(t, bindError(err), review.ErrInvalidRating, body)
		}

		var upd dto.UpdateReviewRequest
		err := binding.JSON.BindBody([]byte(`{"rating":[5]}`), &upd)
		require.Error(t, err)
		assert.ErrorIs(t, bindError(err), review.ErrInvalidRating)
	})

	t.Run("投票方向不是布尔值返回参数错误", func(t *testing.T) {
		var req dto.VoteRequest
		err := binding.JSON.BindBody([]byte(`{"is_upvote":"yes"}`), &req)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(bindError(err), apperrors.ErrCodeInvalidParams))
	})

	t.Run("请求体格式错误", func(t *testing.T) {
		err := bindError(errors.New("invalid character"))
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeBindError))
	})

	t.Run("合法请求", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(&dto.AddTextbookRequest{Title: "T", Author: "A", ISBN: "0-13-468599-X"})
		assert.NoError(t, err)
	})
}
