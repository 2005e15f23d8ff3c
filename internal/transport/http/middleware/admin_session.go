package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"careers-portal/internal/core/auth"
)

const KeyClaims = "claims"

// Authorizer 校验后台会话令牌（service.AdminAuth）
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*auth.Claims, error)
}

// OnDenied 未登录时的处理方式
type OnDenied int

const (
	DenyForbidden OnDenied = iota // 403
	DenyRedirect                  // 302 到登录页
)

// AdminSession 从 cookie 取令牌并校验 adm 位
func AdminSession(a Authorizer, cookieName, loginPath string, mode OnDenied) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, _ := c.Cookie(cookieName)
		claims, err := a.Authorize(c.Request.Context(), tok)
		if err != nil {
			if mode == DenyRedirect {
				c.Redirect(http.StatusFound, loginPath)
				c.Abort()
				return
			}
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Set(KeyClaims, claims)
		c.Next()
	}
}
