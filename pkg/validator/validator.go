// Package validator 自定义校验规则与错误信息
//
// gin的binding默认使用go-playground/validator，这里在同一个引擎上注册额外的tag：
//
//	isbn   可选ISBN：去掉连字符/空格后必须是10或13位数字/X（空串通过）
//	notblank 去掉首尾空白后非空
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/xiebiao/coursebook/pkg/isbn"
)

// Register 在v上注册自定义tag，并让错误字段名使用json tag
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	if err := v.RegisterValidation("isbn", validateISBN); err != nil {
		return fmt.Errorf("注册isbn校验失败: %w", err)
	}
	if err := v.RegisterValidation("notblank", validateNotBlank); err != nil {
		return fmt.Errorf("注册notblank校验失败: %w", err)
	}
	return nil
}

// RegisterGin 注册到gin的默认校验引擎
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin校验引擎不是go-playground/validator")
	}
	return Register(v)
}

func validateISBN(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return true
	}
	_, err := isbn.Normalize(s)
	return err == nil
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Message 把校验错误转换为面向用户的一句话（只取第一个字段）
// 非校验错误返回空串，由调用方决定默认信息
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return ""
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "isbn":
		return isbn.ErrInvalid.Message
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
