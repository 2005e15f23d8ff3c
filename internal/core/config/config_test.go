package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleYAML = `
app:
  http:
    port: 8088
log:
  level: debug
db:
  driver: sqlite
  dsn: "file:test.db"
admin:
  username: hr_admin
  password: from-file
session:
  secret: "0123456789abcdef0123"
  ttl_min: 30
upload:
  dir: /tmp/uploads
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestReadFileWithDefaults(t *testing.T) {
	c, err := Read(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if c.App.HTTP.Port != 8088 {
		t.Fatalf("expected port 8088, got %d", c.App.HTTP.Port)
	}
	if c.Admin.Username != "hr_admin" || c.Admin.Password != "from-file" {
		t.Fatalf("unexpected admin: %+v", c.Admin)
	}
	if c.Upload.MaxBodyBytes != 3<<20 {
		t.Fatalf("expected default 3MiB body limit, got %d", c.Upload.MaxBodyBytes)
	}
	if got := strings.Join(c.Upload.AllowedExt, ","); got != "pdf,doc,docx" {
		t.Fatalf("unexpected default allowed ext %q", got)
	}
	if c.Session.TTL() != 30*time.Minute {
		t.Fatalf("unexpected session ttl %s", c.Session.TTL())
	}
	if c.Session.CookieName != "portal_session" {
		t.Fatalf("unexpected cookie name %q", c.Session.CookieName)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("APP_ADMIN_PASSWORD", "from-env")
	t.Setenv("APP_UPLOAD_MAX_BODY_BYTES", "1024")
	c, err := Read(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if c.Admin.Password != "from-env" {
		t.Fatalf("expected env override, got %q", c.Admin.Password)
	}
	if c.Upload.MaxBodyBytes != 1024 {
		t.Fatalf("expected env body limit, got %d", c.Upload.MaxBodyBytes)
	}
}

func TestReadRequiresSecrets(t *testing.T) {
	_, err := Read(writeConfig(t, "app:\n  name: x\n"))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"admin.username", "admin.password", "session.secret"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in error, got %v", want, err)
		}
	}
}

func TestReadRejectsNonPositiveLimits(t *testing.T) {
	body := sampleYAML + `
limits:
  rate_per_sec: 0
  burst: -1
  max_concurrent: 0
  timeout_sec: 0
`
	_, err := Read(writeConfig(t, body))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"limits.rate_per_sec", "limits.burst", "limits.max_concurrent", "limits.timeout_sec"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in error, got %v", want, err)
		}
	}
}

func TestEnvLimitsOverrideIsValidated(t *testing.T) {
	t.Setenv("APP_LIMITS_MAX_CONCURRENT", "0")
	_, err := Read(writeConfig(t, sampleYAML))
	if err == nil || !strings.Contains(err.Error(), "limits.max_concurrent") {
		t.Fatalf("expected max_concurrent error, got %v", err)
	}
}

func TestReadWithoutFileUsesEnv(t *testing.T) {
	t.Setenv("APP_ADMIN_USERNAME", "ops")
	t.Setenv("APP_ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuuJ0B0rNfBGnQ2xH6Bq4m7cJk3cYl5m6a")
	t.Setenv("APP_SESSION_SECRET", "an-env-provided-secret")
	c, err := Read(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if c.Admin.Username != "ops" {
		t.Fatalf("unexpected username %q", c.Admin.Username)
	}
	if c.DB.Driver != "sqlite" {
		t.Fatalf("expected default sqlite driver, got %q", c.DB.Driver)
	}
}
