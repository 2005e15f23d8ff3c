package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const flashCookie = "portal_flash"

// Flash 一次性提示，下一次页面渲染时取出
type Flash struct {
	Category string `json:"c"` // success / error
	Message  string `json:"m"`
}

func setFlash(c *gin.Context, category, msg string) {
	b, err := json.Marshal([]Flash{{Category: category, Message: msg}})
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(b), 60, "/", "", false, true)
}

// popFlashes 读取并清除；解析失败按无提示处理
func popFlashes(c *gin.Context) []Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var out []Flash
	if json.Unmarshal(b, &out) != nil {
		return nil
	}
	return out
}

type pageData struct {
	Title   string
	Flashes []Flash
	Data    any
}

func render(c *gin.Context, tmpl, title string, data any) {
	c.HTML(http.StatusOK, tmpl, pageData{Title: title, Flashes: popFlashes(c), Data: data})
}
