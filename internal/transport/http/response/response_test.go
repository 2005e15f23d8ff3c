package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestJSONEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	JSON(c, Error(CodeForbidden, ""))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	var r Resp
	if err := json.Unmarshal(w.Body.Bytes(), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Code != CodeForbidden || r.Msg != "Forbidden" {
		t.Fatalf("unexpected envelope %+v", r)
	}
	if r.Data == nil {
		t.Fatalf("data must never be null")
	}
}

func TestOKNilData(t *testing.T) {
	if r := OK(nil); r.Data == nil || r.Code != CodeOK {
		t.Fatalf("unexpected %+v", r)
	}
}
