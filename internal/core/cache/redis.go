package cache

import (
	"context"
	"crypto/tls"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// New 支持 "host:port" 或 redis:// / rediss:// URL
func New(addr, pass string, db int) (*redis.Client, error) {
	opts, err := options(addr, pass, db)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

// Ping 启动时探活
func Ping(ctx context.Context, rdb *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return rdb.Ping(ctx).Err()
}

func options(addr, pass string, db int) (*redis.Options, error) {
	if !strings.Contains(addr, "://") {
		return &redis.Options{Addr: addr, Password: pass, DB: db}, nil
	}
	u, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}
	opts := &redis.Options{Addr: u.Host, Password: pass, DB: db}
	if u.User != nil {
		if p, ok := u.User.Password(); ok && pass == "" {
			opts.Password = p
		}
		opts.Username = u.User.Username()
	}
	if u.Path != "" && u.Path != "/" {
		if n, err := strconv.Atoi(strings.TrimPrefix(u.Path, "/")); err == nil {
			opts.DB = n
		}
	}
	if u.Scheme == "rediss" {
		opts.TLSConfig = &tls.Config{ServerName: u.Hostname()}
	}
	return opts, nil
}
