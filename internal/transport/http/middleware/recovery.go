package middleware

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery panic 记录堆栈后返回纯文本 500
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		c.String(http.StatusInternalServerError, "Internal Server Error")
		c.Abort()
	})
}
