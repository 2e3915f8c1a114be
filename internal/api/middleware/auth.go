package middleware

import (
	"strings"

	"chefmate-api/internal/core/auth"
	"chefmate-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	userContextKey = "auth_user"
	// DevUserHeader 關閉驗證時用來指定使用者
	DevUserHeader = "X-User-ID"
	devUserID     = "local-user"
)

// Auth 驗證 Authorization: Bearer <ID token>
func Auth(verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			AbortWithError(c, common.ErrUnauthorized.WithMessage("Authorization header required"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			AbortWithError(c, common.ErrUnauthorized.WithMessage("Invalid authorization header format"))
			return
		}

		user, err := verifier.Verify(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			common.LogInfo("Token validation failed",
				zap.String("error", err.Error()),
				zap.String("ip", c.ClientIP()),
			)
			AbortWithError(c, err)
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// DevAuth 關閉驗證時使用，使用者取自 X-User-ID 標頭
func DevAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader(DevUserHeader))
		if uid == "" {
			uid = devUserID
		}
		c.Set(userContextKey, &auth.User{UID: uid})
		c.Next()
	}
}

// CurrentUser 取得已驗證的使用者
func CurrentUser(c *gin.Context) (*auth.User, bool) {
	v, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*auth.User)
	return user, ok && user != nil
}
