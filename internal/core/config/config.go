package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string   `mapstructure:"host"`
	Port            int      `mapstructure:"port"`
	ReadTimeoutSec  int      `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int      `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec  int      `mapstructure:"idle_timeout_sec"`
	CORSOrigins     []string `mapstructure:"cors_origins"` // 为空则不启用 CORS
}

type App struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	HTTP HTTP   `mapstructure:"http"`
}

type Log struct {
	Level      string `mapstructure:"level"`
	JSON       bool   `mapstructure:"json"`
	File       string `mapstructure:"file"` // 非空时写文件并切割
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"` // 为空则使用进程内吊销表
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string `mapstructure:"driver"` // sqlite / mysql / postgres
	DSN                string `mapstructure:"dsn"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	LogLevel           string `mapstructure:"log_level"`
}

// Admin 后台账号；password 与 password_hash（bcrypt）二选一
type Admin struct {
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	PasswordHash string `mapstructure:"password_hash"`
}

type Session struct {
	Secret     string `mapstructure:"secret"`
	Issuer     string `mapstructure:"issuer"`
	TTLMin     int    `mapstructure:"ttl_min"`
	CookieName string `mapstructure:"cookie_name"`
	Secure     bool   `mapstructure:"secure"`
}

type Upload struct {
	Dir          string   `mapstructure:"dir"`
	MaxBodyBytes int64    `mapstructure:"max_body_bytes"`
	AllowedExt   []string `mapstructure:"allowed_ext"`
}

type Limits struct {
	RatePerSec    float64 `mapstructure:"rate_per_sec"` // 每 IP 的表单提交速率
	Burst         int     `mapstructure:"burst"`
	MaxConcurrent int64   `mapstructure:"max_concurrent"`
	TimeoutSec    int     `mapstructure:"timeout_sec"`
}

type Config struct {
	App     App     `mapstructure:"app"`
	Log     Log     `mapstructure:"log"`
	DB      DB      `mapstructure:"db"`
	Redis   Redis   `mapstructure:"redis"`
	Admin   Admin   `mapstructure:"admin"`
	Session Session `mapstructure:"session"`
	Upload  Upload  `mapstructure:"upload"`
	Limits  Limits  `mapstructure:"limits"`
}

func (s Session) TTL() time.Duration { return time.Duration(s.TTLMin) * time.Minute }

func (l Limits) Timeout() time.Duration { return time.Duration(l.TimeoutSec) * time.Second }

// Load 读取失败直接退出
func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return c
}

// Read YAML + APP_ 前缀环境变量（"." 替换为 "_"），例：APP_ADMIN_PASSWORD
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// 没有配置文件时允许纯环境变量启动
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "careers-portal")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5000)
	v.SetDefault("app.http.read_timeout_sec", 15)
	v.SetDefault("app.http.write_timeout_sec", 30)
	v.SetDefault("app.http.idle_timeout_sec", 60)
	v.SetDefault("app.http.cors_origins", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 14)
	v.SetDefault("log.compress", true)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:applications.db?_busy_timeout=5000")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime_min", 30)
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.log_level", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("admin.username", "")
	v.SetDefault("admin.password", "")
	v.SetDefault("admin.password_hash", "")

	v.SetDefault("session.secret", "")
	v.SetDefault("session.issuer", "careers-portal")
	v.SetDefault("session.ttl_min", 720)
	v.SetDefault("session.cookie_name", "portal_session")
	v.SetDefault("session.secure", false)

	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("upload.max_body_bytes", 3<<20)
	v.SetDefault("upload.allowed_ext", []string{"pdf", "doc", "docx"})

	v.SetDefault("limits.rate_per_sec", 1.0)
	v.SetDefault("limits.burst", 10)
	v.SetDefault("limits.max_concurrent", 100)
	v.SetDefault("limits.timeout_sec", 15)
}

// Validate 凭据与密钥必须由外部提供
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Admin.Username) == "" {
		errs = append(errs, errors.New("admin.username is required"))
	}
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		errs = append(errs, errors.New("admin.password or admin.password_hash is required"))
	}
	if len(c.Session.Secret) < 16 {
		errs = append(errs, errors.New("session.secret must be at least 16 bytes"))
	}
	if c.Upload.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("upload.max_body_bytes must be positive"))
	}
	if c.Session.TTLMin <= 0 {
		errs = append(errs, errors.New("session.ttl_min must be positive"))
	}
	// 0 或负数会让限流/并发/超时中间件拒绝全部请求
	if c.Limits.RatePerSec <= 0 {
		errs = append(errs, errors.New("limits.rate_per_sec must be positive"))
	}
	if c.Limits.Burst <= 0 {
		errs = append(errs, errors.New("limits.burst must be positive"))
	}
	if c.Limits.MaxConcurrent <= 0 {
		errs = append(errs, errors.New("limits.max_concurrent must be positive"))
	}
	if c.Limits.TimeoutSec <= 0 {
		errs = append(errs, errors.New("limits.timeout_sec must be positive"))
	}
	return errors.Join(errs...)
}
