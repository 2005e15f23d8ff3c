package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"careers-portal/internal/core/config"
	"careers-portal/internal/transport/http/handler"
	mdw "careers-portal/internal/transport/http/middleware"
	resp "careers-portal/internal/transport/http/response"
	"careers-portal/internal/transport/http/web"
)

type Deps struct {
	Log    *zap.Logger
	Cfg    *config.Config
	Public *handler.PublicHandler
	Admin  *handler.AdminHandler
	Auth   mdw.Authorizer
	Health func(ctx context.Context) error // DB 探活
}

func NewEngine(d Deps) (*gin.Engine, error) {
	r := gin.New()
	// 直连部署，ClientIP 只认 RemoteAddr
	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, err
	}
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	lim := d.Cfg.Limits
	r.Use(
		mdw.Recovery(d.Log),
		mdw.RequestID(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)
	if origins := d.Cfg.App.HTTP.CORSOrigins; len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost},
			AllowHeaders: []string{"Origin", "Content-Type", mdw.HeaderRequestID},
			MaxAge:       12 * time.Hour,
		}))
	}
	r.Use(
		mdw.ConcurrencyLimit(lim.MaxConcurrent),
		mdw.Timeout(lim.Timeout()),
		mdw.MaxBodyBytes(d.Cfg.Upload.MaxBodyBytes),
	)

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := d.Health(ctx); err != nil {
			d.Log.Warn("health check failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, resp.Error(http.StatusServiceUnavailable, "db unavailable"))
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"ok": 1}))
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 公开页面
	pub := d.Public
	r.GET("/", pub.Page("index.html", "Home"))
	r.GET("/about", pub.Page("about.html", "About"))
	r.GET("/faq", pub.Page("faq.html", "FAQ"))
	r.GET("/careers", pub.Page("careers.html", "Careers"))
	r.POST("/apply", mdw.RateLimitPerIP(rate.Limit(lim.RatePerSec), lim.Burst, 10*time.Minute), pub.Apply)

	// 后台
	adm := d.Admin
	cookie := d.Cfg.Session.CookieName
	page := mdw.AdminSession(d.Auth, cookie, "/admin/login", mdw.DenyRedirect)
	guard := mdw.AdminSession(d.Auth, cookie, "/admin/login", mdw.DenyForbidden)

	r.GET("/admin/login", adm.LoginPage)
	r.POST("/admin/login", mdw.RateLimitPerIP(rate.Limit(lim.RatePerSec), lim.Burst, 10*time.Minute), adm.Login)
	r.GET("/admin/logout", adm.Logout)
	r.GET("/admin", page, adm.Dashboard)
	r.POST("/admin/delete/:id", guard, adm.Delete)
	r.GET("/admin/api/applicants", guard, adm.ListJSON)
	r.GET("/uploads/*filename", guard, adm.Download)

	return r, nil
}
