package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const msgTooLarge = "Request Entity Too Large"

// MaxBodyBytes 请求体上限：声明长度超限直接 413，否则包一层 MaxBytesReader
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.Header("Connection", "close")
			c.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// IsBodyTooLarge 解析表单时的超限错误
func IsBodyTooLarge(err error) bool {
	if err == nil {
		return false
	}
	var mbe *http.MaxBytesError
	// multipart 解析可能以 %v 包装，退回按文本判断
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

// AbortTooLarge handler 读取请求体时发现超限
func AbortTooLarge(c *gin.Context) {
	c.Header("Connection", "close")
	c.String(http.StatusRequestEntityTooLarge, msgTooLarge)
	c.Abort()
}
