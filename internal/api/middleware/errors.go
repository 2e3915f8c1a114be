package middleware

import (
	"errors"
	"net/http"

	"chefmate-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AbortWithError 以統一格式回傳錯誤，details 只在 debug 模式輸出
func AbortWithError(c *gin.Context, err error) {
	status, code := common.StatusOf(err)

	resp := common.ErrorResponse{Code: code, Message: err.Error()}
	var ce *common.CustomError
	if errors.As(err, &ce) {
		resp.Message = ce.Message
		if ce.Err != nil && gin.Mode() == gin.DebugMode {
			resp.Details = ce.Err.Error()
		}
	}
	if status >= http.StatusInternalServerError && resp.Code == common.ErrCodeInternalError {
		// 未分類錯誤不外洩內部訊息
		if gin.Mode() == gin.DebugMode {
			resp.Details = err.Error()
		}
		resp.Message = common.ErrInternalError.Message
	}

	if status >= http.StatusInternalServerError {
		common.LogError("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("code", code),
			zap.Error(err),
		)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}
