package middleware

import (
	"net/http"
	"strings"

	"Printhub/models"
	appctx "Printhub/pkg/context"
	"Printhub/pkg/jwt"
	"Printhub/pkg/response"

	"github.com/gin-gonic/gin"
)

func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "缺少 Authorization")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, http.StatusUnauthorized, "Authorization 格式错误")
			return
		}

		claims, err := jwt.ParseToken(secret, parts[1])
		if err != nil {
			// 过期和非法给前端不同的提示，便于决定是否跳登录
			response.Abort(c, http.StatusUnauthorized, err.Error())
			return
		}

		c.Set(appctx.CtxUserID, claims.UserID)
		c.Set(appctx.CtxEmail, claims.Email)
		c.Set(appctx.CtxRole, claims.Role)
		c.Next()
	}
}

// OptionalAuth 带 token 就解析，不带也放行（游客报价等场景）
func OptionalAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := jwt.ParseToken(secret, parts[1]); err == nil {
				c.Set(appctx.CtxUserID, claims.UserID)
				c.Set(appctx.CtxEmail, claims.Email)
				c.Set(appctx.CtxRole, claims.Role)
			}
		}
		c.Next()
	}
}

// RequireAdmin 必须已通过 Auth，再校验角色
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if appctx.GetRole(c) != models.RoleAdmin {
			response.Abort(c, http.StatusForbidden, "需要管理员权限")
			return
		}
		c.Next()
	}
}
