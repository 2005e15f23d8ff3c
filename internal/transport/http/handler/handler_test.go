package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestBackPath(t *testing.T) {
	cases := map[string]string{
		"":                                   "/careers",
		"http://example.com/careers?role=go": "/careers?role=go",
		"/faq":                               "/faq",
		"https://evil.example/phish":         "/careers",
		"http://example.com//evil.example/x": "/careers",
		"javascript:alert(1)":                "/careers",
	}
	for ref, want := range cases {
		req := httptest.NewRequest(http.MethodPost, "/apply", nil)
		if ref != "" {
			req.Header.Set("Referer", ref)
		}
		if got := backPath(req); got != want {
			t.Errorf("backPath(%q) = %q, want %q", ref, got, want)
		}
	}
}

func TestFlashRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/apply", nil)
	setFlash(c, "error", msgConsent)

	var flash *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == flashCookie {
			flash = ck
		}
	}
	if flash == nil {
		t.Fatalf("flash cookie not set")
	}

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/careers", nil)
	c2.Request.AddCookie(flash)
	got := popFlashes(c2)
	if len(got) != 1 || got[0].Category != "error" || got[0].Message != msgConsent {
		t.Fatalf("unexpected flashes %+v", got)
	}

	// 篡改的 cookie 视为无提示
	c3, _ := gin.CreateTestContext(httptest.NewRecorder())
	c3.Request = httptest.NewRequest(http.MethodGet, "/careers", nil)
	c3.Request.AddCookie(&http.Cookie{Name: flashCookie, Value: "%%%"})
	if got := popFlashes(c3); got != nil {
		t.Fatalf("expected no flashes for garbage cookie, got %+v", got)
	}
}
