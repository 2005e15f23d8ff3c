package database

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"

	"careers-portal/internal/domain"
)

type Opts struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
}

func NewGorm(o Opts) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch o.Driver {
	case "sqlite", "":
		dial = sqlite.Open(o.DSN)
	case "postgres":
		dial = postgres.Open(o.DSN)
	case "mysql":
		dial = mysql.Open(normalizeMySQLDSN(o.DSN, o.Username, o.Password))
	default:
		return nil, ErrUnsupportedDriver
	}
	lvl := logger.Warn
	switch o.LogLevel {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	}
	db, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.Default.LogMode(lvl),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	db = db.
		Session(&gorm.Session{
			PrepareStmt:            true, // 预编译缓存
			SkipDefaultTransaction: true, // 单语句操作，无需隐式事务
		})
	return db, nil
}

// Migrate 建表（对应 applicants 单表）
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Applicant{})
}

// Ping 健康检查
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// MaskDSN 隐藏 DSN 中的密码，用于日志
func MaskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	if at <= 0 {
		return dsn
	}
	head := dsn[:at]
	if i := strings.Index(head, "://"); i >= 0 {
		if colon := strings.Index(head[i+3:], ":"); colon >= 0 {
			return head[:i+3+colon+1] + "****" + dsn[at:]
		}
		return dsn
	}
	if colon := strings.Index(head, ":"); colon > 0 {
		return head[:colon+1] + "****" + dsn[at:]
	}
	return dsn
}

// jdbcParam 把 JDBC 风格参数改写为 go-sql-driver 参数；to 为空表示丢弃
type jdbcParam struct {
	from, to string
	conv     func(string) string
}

var jdbcParams = []jdbcParam{
	{from: "characterEncoding", to: "charset"},
	{from: "serverTimezone", to: "loc"},
	{from: "useSSL", to: "tls", conv: tlsMode},
	{from: "useUnicode"},
	{from: "zeroDateTimeBehavior"},
}

var mysqlDefaults = []struct{ key, val string }{
	{"parseTime", "true"},
	{"charset", "utf8mb4"},
}

func tlsMode(v string) string {
	switch v = strings.ToLower(v); v {
	case "true", "1":
		return "true"
	case "skip-verify", "preferred":
		return v
	}
	return "false"
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}

// normalizeMySQLDSN 接受 mysql:// 或 jdbc:mysql:// URL，转成 user:pass@tcp(host)/db?...；
// 其它输入（已是驱动格式）原样返回。user/pass 非空时覆盖 URL 中的账号。
func normalizeMySQLDSN(input, user, pass string) string {
	in := strings.TrimSpace(input)
	if strings.HasPrefix(in, "jdbc:mysql://") {
		in = in[len("jdbc:"):]
	}
	if !strings.HasPrefix(in, "mysql://") {
		return in
	}
	u, err := url.Parse(in)
	if err != nil {
		return in // 交给驱动报错
	}

	q := u.Query()
	var urlUser, urlPass string
	if u.User != nil {
		urlUser = u.User.Username()
		urlPass, _ = u.User.Password()
	}
	user = firstNonEmpty(user, q.Get("user"), urlUser)
	pass = firstNonEmpty(pass, q.Get("password"), urlPass)
	q.Del("user")
	q.Del("password")

	for _, p := range jdbcParams {
		v := q.Get(p.from)
		q.Del(p.from)
		if v == "" || p.to == "" || q.Get(p.to) != "" {
			continue
		}
		if p.conv != nil {
			v = p.conv(v)
		}
		q.Set(p.to, v)
	}
	for _, d := range mysqlDefaults {
		if q.Get(d.key) == "" {
			q.Set(d.key, d.val)
		}
	}

	var b strings.Builder
	if user != "" || pass != "" {
		b.WriteString(user)
		if pass != "" {
			b.WriteString(":" + pass)
		}
		b.WriteByte('@')
	}
	b.WriteString("tcp(" + u.Host + ")/" + strings.TrimPrefix(u.Path, "/"))
	b.WriteString("?" + q.Encode())
	return b.String()
}

var ErrUnsupportedDriver = errors.New("unsupported db driver")
