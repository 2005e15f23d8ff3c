package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 业务码直接复用 HTTP 语义
const (
	CodeOK           = 0
	CodeUnauthorized = http.StatusUnauthorized
	CodeForbidden    = http.StatusForbidden
	CodeNotFound     = http.StatusNotFound
	CodeServerError  = http.StatusInternalServerError
)

// Resp JSON 接口统一外壳
type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

func OK(data any) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: CodeOK, Msg: "OK", Data: data}
}

// Error msg 为空时使用 HTTP 状态文本
func Error(code int, msg string) Resp {
	if msg == "" {
		msg = http.StatusText(code)
	}
	return Resp{Code: code, Msg: msg, Data: struct{}{}}
}

// JSON 写出并中止；HTTP 状态与 code 一致（成功为 200）
func JSON(c *gin.Context, r Resp) {
	status := http.StatusOK
	if r.Code != CodeOK {
		status = r.Code
	}
	c.AbortWithStatusJSON(status, r)
}
