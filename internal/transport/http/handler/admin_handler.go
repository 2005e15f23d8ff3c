package handler

import (
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"careers-portal/internal/domain"
	"careers-portal/internal/service"
	"careers-portal/internal/storage/upload"
	resp "careers-portal/internal/transport/http/response"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgDeleted            = "Application deleted."
	msgDeleteFailed       = "Could not delete application. Please try again."
)

// SessionCookie 后台会话 cookie 参数
type SessionCookie struct {
	Name   string
	Secure bool
}

type AdminHandler struct {
	view   *service.AdminView
	auth   *service.AdminAuth
	cookie SessionCookie
	log    *zap.Logger
}

func NewAdminHandler(view *service.AdminView, auth *service.AdminAuth, cookie SessionCookie, l *zap.Logger) *AdminHandler {
	return &AdminHandler{view: view, auth: auth, cookie: cookie, log: l}
}

// LoginPage GET /admin/login
func (h *AdminHandler) LoginPage(c *gin.Context) {
	render(c, "admin_login.html", "Admin login", nil)
}

// Login POST /admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	tok, exp, err := h.auth.Login(c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			h.log.Error("issue session failed", zap.Error(err))
			_ = c.Error(err)
			c.String(http.StatusInternalServerError, "Internal Server Error")
			return
		}
		setFlash(c, "error", msgInvalidCredentials)
		c.Redirect(http.StatusSeeOther, "/admin/login")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, tok, int(time.Until(exp).Seconds()), "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusSeeOther, "/admin")
}

// Logout GET /admin/logout
func (h *AdminHandler) Logout(c *gin.Context) {
	if tok, err := c.Cookie(h.cookie.Name); err == nil {
		if err := h.auth.Logout(c.Request.Context(), tok); err != nil {
			// 仍然清除 cookie；令牌到期后自然失效
			h.log.Warn("revoke session failed", zap.Error(err))
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusFound, "/admin/login")
}

// Dashboard GET /admin
func (h *AdminHandler) Dashboard(c *gin.Context) {
	list, err := h.view.List(c.Request.Context())
	if err != nil {
		h.log.Error("list applicants failed", zap.Error(err))
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}
	render(c, "admin_dashboard.html", "Applicants", list)
}

// Delete POST /admin/delete/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	if err := h.view.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		setFlash(c, "error", msgDeleteFailed)
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}
	setFlash(c, "success", msgDeleted)
	c.Redirect(http.StatusSeeOther, "/admin")
}

// Download GET /uploads/*filename，以附件形式返回
func (h *AdminHandler) Download(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filename"), "/")
	f, err := h.view.OpenResume(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, upload.ErrInvalidName) || errors.Is(err, fs.ErrNotExist) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		h.log.Error("open resume failed", zap.String("file", name), zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(c.Writer, c.Request, name, info.ModTime(), f)
}

type applicantList struct {
	Total int                `json:"total"`
	Items []domain.Applicant `json:"items"`
}

// ListJSON GET /admin/api/applicants
func (h *AdminHandler) ListJSON(c *gin.Context) {
	list, err := h.view.List(c.Request.Context())
	if err != nil {
		h.log.Error("list applicants failed", zap.Error(err))
		resp.JSON(c, resp.Error(resp.CodeServerError, "list applicants failed"))
		return
	}
	if list == nil {
		list = []domain.Applicant{}
	}
	resp.JSON(c, resp.OK(applicantList{Total: len(list), Items: list}))
}
