package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"careers-portal/internal/domain"
	"careers-portal/internal/service"
	mdw "careers-portal/internal/transport/http/middleware"
)

const (
	msgMissingFields = "Please fill required fields (name, email, role)."
	msgConsent       = "Please accept the NDA to proceed."
	msgFileType      = "Invalid file type. Only PDF/DOC/DOCX allowed."
	msgSubmitted     = "Application submitted. We'll contact you soon."
)

type PublicHandler struct {
	intake *service.Intake
	log    *zap.Logger
}

func NewPublicHandler(intake *service.Intake, l *zap.Logger) *PublicHandler {
	return &PublicHandler{intake: intake, log: l}
}

// Page 静态页面
func (h *PublicHandler) Page(tmpl, title string) gin.HandlerFunc {
	return func(c *gin.Context) { render(c, tmpl, title, nil) }
}

// Apply POST /apply
func (h *PublicHandler) Apply(c *gin.Context) {
	var form service.ApplicationForm
	if err := c.ShouldBind(&form); err != nil {
		if mdw.IsBodyTooLarge(err) {
			mdw.AbortTooLarge(c)
			return
		}
		c.String(http.StatusBadRequest, "Bad Request")
		return
	}

	var resume *service.Resume
	fh, err := c.FormFile("resume")
	switch {
	case err == nil && fh.Filename != "":
		f, err := fh.Open()
		if err != nil {
			_ = c.Error(err)
			c.String(http.StatusInternalServerError, "Internal Server Error")
			return
		}
		defer f.Close()
		resume = &service.Resume{Filename: fh.Filename, Body: f}
	case err != nil && !errors.Is(err, http.ErrMissingFile):
		if mdw.IsBodyTooLarge(err) {
			mdw.AbortTooLarge(c)
			return
		}
		// 非 multipart 提交（无文件字段）
		if !errors.Is(err, http.ErrNotMultipart) {
			c.String(http.StatusBadRequest, "Bad Request")
			return
		}
	}

	_, err = h.intake.Submit(c.Request.Context(), form, resume)
	switch {
	case err == nil:
		setFlash(c, "success", msgSubmitted)
		c.Redirect(http.StatusSeeOther, "/careers")
	case errors.Is(err, domain.ErrMissingFields):
		h.back(c, msgMissingFields)
	case errors.Is(err, domain.ErrConsentRequired):
		h.back(c, msgConsent)
	case errors.Is(err, domain.ErrInvalidFileType):
		h.back(c, msgFileType)
	default:
		h.log.Error("submit application failed", zap.Error(err))
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
	}
}

func (h *PublicHandler) back(c *gin.Context, msg string) {
	setFlash(c, "error", msg)
	c.Redirect(http.StatusSeeOther, backPath(c.Request))
}

// backPath 同源 Referer 的路径，否则 /careers
func backPath(r *http.Request) string {
	const fallback = "/careers"
	ref := r.Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return fallback
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return fallback
	}
	p := u.Path
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return p
}
