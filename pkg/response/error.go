package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type BizError struct {
	Code int
	Msg  string
}

func (e *BizError) Error() string {
	return e.Msg
}

func NewError(code int, msg string) *BizError {
	return &BizError{
		Code: code,
		Msg:  msg,
	}
}

// 错误分类，Code 与 HTTP 状态码一致
func ErrValidation(msg string) *BizError { return NewError(http.StatusBadRequest, msg) }
func ErrAuth(msg string) *BizError       { return NewError(http.StatusUnauthorized, msg) }
func ErrForbidden(msg string) *BizError  { return NewError(http.StatusForbidden, msg) }
func ErrNotFound(msg string) *BizError   { return NewError(http.StatusNotFound, msg) }
func ErrConflict(msg string) *BizError   { return NewError(http.StatusConflict, msg) }
func ErrGateway(msg string) *BizError    { return NewError(http.StatusBadGateway, msg) }
func ErrInternal(msg string) *BizError   { return NewError(http.StatusInternalServerError, msg) }

func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				c.JSON(http.StatusInternalServerError, Response{
					Code: 500,
					Msg:  "系统异常",
				})
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			if be, ok := err.(*BizError); ok {
				Fail(c, be.Code, be.Msg)
			} else {
				Fail(c, 500, err.Error())
			}
			c.Abort()
		}
	}
}

func Abort(c *gin.Context, httpStatus int, msg string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Code: httpStatus,
		Msg:  msg,
		Data: nil,
	})
}
