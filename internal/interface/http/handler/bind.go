package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/xiebiao/coursebook/internal/domain/review"
	"github.com/xiebiao/coursebook/internal/domain/textbook"
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
	"github.com/xiebiao/coursebook/pkg/isbn"
	appvalidator "github.com/xiebiao/coursebook/pkg/validator"
)

// bindError 绑定/校验错误 → AppError
// ISBN校验失败单独返回InvalidISBN，其余字段返回InvalidInput
// 字段类型不对（如rating传字符串）按字段校验失败处理，rating返回InvalidRating
// 只有JSON本身无法解析时才返回BindError
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		if len(verrs) > 0 && verrs[0].Tag() == "isbn" {
			return isbn.ErrInvalid
		}
		return apperrors.ErrInvalidParams.WithMessage(appvalidator.Message(err))
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "rating" {
			return review.ErrInvalidRating
		}
		return apperrors.ErrInvalidParams.WithMessage(fmt.Sprintf("%s must be a %v", typeErr.Field, typeErr.Type))
	}
	return apperrors.ErrBindError.WithCause(err)
}

// pathID 解析路径中的正整数ID
func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.ErrInvalidParams.WithMessage("invalid " + name)
	}
	return uint(id), nil
}

// parseIDs "1,2,3" → []uint，空串返回空切片
func parseIDs(raw string) ([]uint, error) {
	ids := []uint{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil || id == 0 {
			return nil, apperrors.ErrInvalidParams.WithMessage("ids must be a comma separated list of positive integers")
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// readImage 读取multipart中的图片文件，超过maxBytes返回ErrImageTooLarge
// 没有上传该字段时返回(nil, nil)
func readImage(c *gin.Context, field string, maxBytes int64) (*textbook.Image, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperrors.ErrBindError.WithCause(err)
	}
	return readFileHeader(fh, maxBytes)
}

func readFileHeader(fh *multipart.FileHeader, maxBytes int64) (*textbook.Image, error) {
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, textbook.ErrImageTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.ErrBindError.WithCause(err)
	}
	defer f.Close()

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.ErrBindError.WithCause(err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, textbook.ErrImageTooLarge
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &textbook.Image{Filename: fh.Filename, ContentType: contentType, Data: data}, nil
}
