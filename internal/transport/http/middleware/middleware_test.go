package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"careers-portal/internal/core/auth"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeAuthorizer struct{ token string }

func (f fakeAuthorizer) Authorize(_ context.Context, tok string) (*auth.Claims, error) {
	if tok != "" && tok == f.token {
		return &auth.Claims{Admin: true}, nil
	}
	return nil, errors.New("unauthorized")
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get(HeaderRequestID) == "" || w.Body.String() != w.Header().Get(HeaderRequestID) {
		t.Fatalf("expected generated request id, header=%q body=%q", w.Header().Get(HeaderRequestID), w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc" {
		t.Fatalf("expected incoming id to be kept, got %q", w.Body.String())
	}
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.POST("/apply", RateLimitPerIP(rate.Limit(0.001), 2, time.Minute), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/apply", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	for i := 0; i < 2; i++ {
		if code := hit("10.0.0.1"); code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, code)
		}
	}
	if code := hit("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if code := hit("10.0.0.2"); code != http.StatusNoContent {
		t.Fatalf("other ip should not be limited, got %d", code)
	}
}

func TestMaxBodyBytesDeclaredLength(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodyBytes(8))
	called := false
	r.POST("/", func(c *gin.Context) { called = true })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	if w.Code != http.StatusRequestEntityTooLarge || called {
		t.Fatalf("expected 413 before handler, got %d called=%v", w.Code, called)
	}
}

func TestMaxBodyBytesStreamed(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodyBytes(8))
	r.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); IsBodyTooLarge(err) {
			AbortTooLarge(c)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(strings.NewReader("0123456789")))
	req.ContentLength = -1
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
}

func TestAdminSession(t *testing.T) {
	a := fakeAuthorizer{token: "good"}
	r := gin.New()
	r.GET("/admin", AdminSession(a, "sess", "/admin/login", DenyRedirect), func(c *gin.Context) {
		if _, ok := c.Get(KeyClaims); !ok {
			t.Errorf("claims not set")
		}
		c.String(http.StatusOK, "dashboard")
	})
	r.POST("/admin/delete/:id", AdminSession(a, "sess", "/admin/login", DenyForbidden), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/login" {
		t.Fatalf("expected redirect to login, got %d %q", w.Code, w.Header().Get("Location"))
	}
	if strings.Contains(w.Body.String(), "dashboard") {
		t.Fatalf("dashboard leaked to anonymous request")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/delete/1", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "sess", Value: "good"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid session, got %d", w.Code)
	}
}

func TestMaskSensitiveKeys(t *testing.T) {
	got := mask(map[string][]string{"Password": {"x"}, "username": {"admin"}})
	if got["Password"][0] != "****" || got["username"][0] != "admin" {
		t.Fatalf("unexpected mask result %v", got)
	}
}

func TestRecoveryReturns500(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
